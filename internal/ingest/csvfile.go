package ingest

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
)

// csvFile streams rows from a CSV input with line tracking
type csvFile struct {
	path string
	f    *os.File
	r    *csv.Reader
}

func openCSV(path string) (*csvFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	r := csv.NewReader(bufio.NewReaderSize(f, 1<<20))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.ReuseRecord = true

	return &csvFile{path: path, f: f, r: r}, nil
}

// next returns the next row and its 1-based line, or io.EOF
func (c *csvFile) next() ([]string, int, error) {
	row, err := c.r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, 0, io.EOF
		}
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			return nil, 0, &SchemaError{File: c.path, Line: perr.Line, Message: perr.Err.Error()}
		}
		return nil, 0, fmt.Errorf("read %s: %w", c.path, err)
	}
	line, _ := c.r.FieldPos(0)
	return row, line, nil
}

func (c *csvFile) Close() error {
	return c.f.Close()
}
