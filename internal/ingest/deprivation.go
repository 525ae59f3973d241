package ingest

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/wonny/proptier/internal/contracts"
)

// IMD 2019 columns, CSV export names first then the published workbook headers
var deprivationColumns = []column{
	{Name: "lsoa11cd", Aliases: []string{"LSOA code (2011)", "lsoa_code", "area_code"}},
	{Name: "imd_rank", Aliases: []string{"Index of Multiple Deprivation (IMD) Rank", "imd rank", "rank"}},
	{Name: "imd_decile", Aliases: []string{"Index of Multiple Deprivation (IMD) Decile", "imd decile", "decile"}},
}

// ReadDeprivation reads IMD ranks and deciles from a .csv or .xlsx file
func ReadDeprivation(path string) ([]contracts.DeprivationRecord, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return readDeprivationXLSX(path)
	}
	return readDeprivationCSV(path)
}

func readDeprivationCSV(path string) ([]contracts.DeprivationRecord, error) {
	f, err := openCSV(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	header, _, err := f.next()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &SchemaError{File: path, Message: "empty file, header expected"}
		}
		return nil, err
	}
	// ReuseRecord: copy before the next read
	header = append([]string(nil), header...)

	cols, err := resolveColumns(path, header, deprivationColumns)
	if err != nil {
		return nil, err
	}

	var records []contracts.DeprivationRecord
	for {
		row, line, err := f.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		rec, skip, err := parseDeprivationRow(path, line, row, cols)
		if err != nil {
			return nil, err
		}
		if !skip {
			records = append(records, rec)
		}
	}
	return records, nil
}

// readDeprivationXLSX uses the first sheet whose first row carries the IMD headers
func readDeprivationXLSX(path string) ([]contracts.DeprivationRecord, error) {
	wb, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer wb.Close()

	for _, sheet := range wb.GetSheetList() {
		rows, err := wb.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("read sheet %q of %s: %w", sheet, path, err)
		}
		if len(rows) == 0 || !hasColumns(rows[0], deprivationColumns) {
			continue
		}

		cols, _ := resolveColumns(path, rows[0], deprivationColumns)
		records := make([]contracts.DeprivationRecord, 0, len(rows)-1)
		for i, row := range rows[1:] {
			rec, skip, err := parseDeprivationRow(path, i+2, row, cols)
			if err != nil {
				return nil, err
			}
			if !skip {
				records = append(records, rec)
			}
		}
		return records, nil
	}

	return nil, &SchemaError{File: path, Column: "lsoa11cd", Message: "no sheet carries the IMD rank and decile columns"}
}

// parseDeprivationRow returns skip=true for blank trailing rows
func parseDeprivationRow(path string, line int, row []string, cols map[string]int) (contracts.DeprivationRecord, bool, error) {
	area := cell(row, cols["lsoa11cd"])
	rankStr := cell(row, cols["imd_rank"])
	decileStr := cell(row, cols["imd_decile"])
	if area == "" && rankStr == "" && decileStr == "" {
		return contracts.DeprivationRecord{}, true, nil
	}
	if area == "" {
		return contracts.DeprivationRecord{}, false, &SchemaError{File: path, Line: line, Column: "lsoa11cd", Message: "empty area code"}
	}

	rank, err := strconv.Atoi(rankStr)
	if err != nil || rank < 1 {
		return contracts.DeprivationRecord{}, false, &SchemaError{File: path, Line: line, Column: "imd_rank", Message: fmt.Sprintf("invalid rank %q", rankStr)}
	}

	decile, err := strconv.Atoi(decileStr)
	if err != nil || !contracts.ValidDecile(decile) {
		return contracts.DeprivationRecord{}, false, &SchemaError{File: path, Line: line, Column: "imd_decile", Message: fmt.Sprintf("invalid decile %q, want 1..10", decileStr)}
	}

	return contracts.DeprivationRecord{AreaCode: area, Rank: rank, Decile: decile}, false, nil
}
