package ingest

import (
	"errors"
	"io"

	"github.com/wonny/proptier/internal/contracts"
)

// ONSPD lookup columns
var areaLinkColumns = []column{
	{Name: "pcds", Aliases: []string{"postcode", "pcd", "pcd7", "pcd8"}},
	{Name: "lsoa11cd", Aliases: []string{"lsoa_code", "area_code", "lsoa11"}},
}

// ReadAreaLinks reads the postcode -> LSOA lookup
// Rows with an empty postcode or area code carry no link and are skipped.
func ReadAreaLinks(path string) ([]contracts.AreaLink, error) {
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
	cols, err := resolveColumns(path, header, areaLinkColumns)
	if err != nil {
		return nil, err
	}
	pcIdx, areaIdx := cols["pcds"], cols["lsoa11cd"]

	links := make([]contracts.AreaLink, 0, 1024)
	for {
		row, _, err := f.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		pc, area := cell(row, pcIdx), cell(row, areaIdx)
		if pc == "" || area == "" {
			continue
		}
		links = append(links, contracts.AreaLink{Postcode: pc, AreaCode: area})
	}
	return links, nil
}
