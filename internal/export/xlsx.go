package export

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/wonny/proptier/internal/contracts"
	"github.com/wonny/proptier/internal/report"
)

// Workbook sheet names
const (
	SheetClassified  = "classified"
	SheetTierSummary = "tier_summary"
)

var tierSummaryColumns = []string{
	"tier", "count", "mean_price", "mean_decile", "mean_composite",
	"price_min", "price_q1", "price_median", "price_q3", "price_max",
	"decile_min", "decile_q1", "decile_median", "decile_q3", "decile_max",
}

// XLSXExporter writes the table and the tier summary to a workbook
type XLSXExporter struct {
	path string
}

// NewXLSXExporter creates an xlsx sink
func NewXLSXExporter(path string) *XLSXExporter {
	return &XLSXExporter{path: path}
}

// Name returns the sink name
func (e *XLSXExporter) Name() string { return "xlsx" }

// Path returns the output file
func (e *XLSXExporter) Path() string { return e.path }

// Export streams the classified sheet, then writes the summary sheet
func (e *XLSXExporter) Export(ctx context.Context, _ *contracts.RunManifest, records []contracts.EnrichedRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	wb := excelize.NewFile()
	defer wb.Close()

	if err := wb.SetSheetName("Sheet1", SheetClassified); err != nil {
		return fmt.Errorf("xlsx: %w", err)
	}

	sw, err := wb.NewStreamWriter(SheetClassified)
	if err != nil {
		return fmt.Errorf("xlsx: %w", err)
	}
	header := make([]interface{}, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("xlsx header: %w", err)
	}
	for i := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("xlsx: %w", err)
		}
		if err := sw.SetRow(cell, values(&records[i])); err != nil {
			return fmt.Errorf("xlsx row %d: %w", i+2, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("xlsx flush: %w", err)
	}

	if err := writeTierSummary(wb, report.Build(records)); err != nil {
		return err
	}

	if err := wb.SaveAs(e.path); err != nil {
		return fmt.Errorf("save %s: %w", e.path, err)
	}
	return nil
}

func writeTierSummary(wb *excelize.File, summary *report.Summary) error {
	if _, err := wb.NewSheet(SheetTierSummary); err != nil {
		return fmt.Errorf("xlsx: %w", err)
	}

	header := make([]interface{}, len(tierSummaryColumns))
	for i, c := range tierSummaryColumns {
		header[i] = c
	}
	if err := wb.SetSheetRow(SheetTierSummary, "A1", &header); err != nil {
		return fmt.Errorf("xlsx summary header: %w", err)
	}

	for i, ts := range summary.Tiers {
		line := []interface{}{
			ts.Tier.String(), ts.Count, ts.MeanPrice, ts.MeanDecile, ts.MeanComposite,
			ts.Price[0], ts.Price[1], ts.Price[2], ts.Price[3], ts.Price[4],
			ts.Decile[0], ts.Decile[1], ts.Decile[2], ts.Decile[3], ts.Decile[4],
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("xlsx: %w", err)
		}
		if err := wb.SetSheetRow(SheetTierSummary, cell, &line); err != nil {
			return fmt.Errorf("xlsx summary row: %w", err)
		}
	}
	return nil
}
