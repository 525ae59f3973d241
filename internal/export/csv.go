package export

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/wonny/proptier/internal/contracts"
)

// CSVExporter writes the classified table as CSV with a header row
type CSVExporter struct {
	path string
}

// NewCSVExporter creates a CSV sink
func NewCSVExporter(path string) *CSVExporter {
	return &CSVExporter{path: path}
}

// Name returns the sink name
func (e *CSVExporter) Name() string { return "csv" }

// Path returns the output file
func (e *CSVExporter) Path() string { return e.path }

// Export writes every record
func (e *CSVExporter) Export(ctx context.Context, _ *contracts.RunManifest, records []contracts.EnrichedRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f, err := os.Create(e.path)
	if err != nil {
		return fmt.Errorf("create %s: %w", e.path, err)
	}

	bw := bufio.NewWriterSize(f, 1<<20)
	if err := WriteCSV(bw, records); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", e.path, err)
	}
	if err := bw.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", e.path, err)
	}
	return f.Close()
}

// WriteCSV writes the header and every record to w
func WriteCSV(w io.Writer, records []contracts.EnrichedRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return err
	}
	for i := range records {
		if err := cw.Write(row(&records[i])); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV reads a classified CSV written by CSVExporter
func ReadCSV(path string) ([]contracts.EnrichedRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(bufio.NewReader(f))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%s: empty file", path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{"price", "composite_score", "tier"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("%s: column %s missing, not a classified table", path, required)
		}
	}

	var records []contracts.EnrichedRecord
	for line := 2; ; line++ {
		fields, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		rec, err := parseRow(fields, col)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, line, err)
		}
		records = append(records, rec)
	}
	return records, nil
}
