package ingest

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/wonny/proptier/internal/contracts"
)

// Price Paid columns in published order; the file has no header
var salesColumns = []string{
	"transaction_id",
	"price",
	"date_of_transfer",
	"postcode",
	"property_type",
	"old_new",
	"duration",
	"paon",
	"saon",
	"street",
	"locality",
	"town_city",
	"district",
	"county",
	"ppd_category_type",
	"record_status",
}

const (
	colTransactionID = 0
	colPrice         = 1
	colDate          = 2
	colPostcode      = 3
	colPropertyType  = 4
	colOldNew        = 5
	colDuration      = 6
)

// Land Registry writes "2024-01-05 00:00"; date-only files also occur
var saleDateLayouts = []string{"2006-01-02 15:04", "2006-01-02", "2006-01-02T15:04:05Z07:00"}

// ReadSales reads the headerless Price Paid CSV
func ReadSales(path string) ([]contracts.SaleRecord, error) {
	f, err := openCSV(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sales := make([]contracts.SaleRecord, 0, 4096)
	for {
		row, line, err := f.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(row) == 1 && strings.TrimSpace(row[0]) == "" {
			continue
		}

		sale, err := parseSaleRow(path, line, row)
		if err != nil {
			return nil, err
		}
		sales = append(sales, sale)
	}
	return sales, nil
}

func parseSaleRow(path string, line int, row []string) (contracts.SaleRecord, error) {
	if len(row) != len(salesColumns) {
		return contracts.SaleRecord{}, &SchemaError{
			File:    path,
			Line:    line,
			Message: fmt.Sprintf("expected %d columns, got %d", len(salesColumns), len(row)),
		}
	}

	priceStr := cell(row, colPrice)
	price, err := strconv.ParseFloat(priceStr, 64)
	if err != nil || price < 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return contracts.SaleRecord{}, &SchemaError{File: path, Line: line, Column: salesColumns[colPrice], Message: fmt.Sprintf("invalid price %q", priceStr)}
	}

	dateStr := cell(row, colDate)
	date, err := parseSaleDate(dateStr)
	if err != nil {
		return contracts.SaleRecord{}, &SchemaError{File: path, Line: line, Column: salesColumns[colDate], Message: fmt.Sprintf("invalid date %q", dateStr)}
	}

	return contracts.SaleRecord{
		TransactionID: strings.Trim(cell(row, colTransactionID), "{}"),
		Price:         price,
		Date:          date,
		Postcode:      cell(row, colPostcode),
		PropertyType:  contracts.PropertyType(strings.ToUpper(cell(row, colPropertyType))),
		OldNew:        strings.ToUpper(cell(row, colOldNew)),
		Tenure:        contracts.Tenure(strings.ToUpper(cell(row, colDuration))),
	}, nil
}

func parseSaleDate(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range saleDateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
