package export

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jonas-p/go-shp"

	"github.com/wonny/proptier/internal/contracts"
	"github.com/wonny/proptier/internal/report"
)

// Map layer attribute names (dBase limits names to 10 characters)
const (
	FieldAreaCode = "LSOA11CD"
	FieldTierAvg  = "TIER_AVG"
	FieldSales    = "SALES"

	// FieldAreaName is read from the boundaries for name filtering only
	FieldAreaName = "LSOA11NM"
)

// MapLayer joins per-area mean tier rank onto LSOA boundary polygons
// Areas without sales get TIER_AVG 0 ("No Data").
type MapLayer struct {
	shapesPath string
	outPath    string
	nameFilter string
}

// NewMapLayer creates a map layer sink from a boundary shapefile
func NewMapLayer(shapesPath, outPath string) *MapLayer {
	return &MapLayer{shapesPath: shapesPath, outPath: outPath}
}

// WithNameFilter keeps only polygons whose LSOA11NM contains filter
// The match ignores case; "London" gives the Greater London subset.
func (m *MapLayer) WithNameFilter(filter string) *MapLayer {
	m.nameFilter = strings.TrimSpace(filter)
	return m
}

// Name returns the sink name
func (m *MapLayer) Name() string { return "map" }

// Path returns the output shapefile
func (m *MapLayer) Path() string { return m.outPath }

// Export writes one feature per boundary polygon
func (m *MapLayer) Export(ctx context.Context, _ *contracts.RunManifest, records []contracts.EnrichedRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := WriteMapLayer(m.shapesPath, m.outPath, report.AreaAverages(records), m.nameFilter)
	return err
}

// WriteMapLayer copies boundary polygons to outPath with tier attributes
// A non-empty nameFilter keeps only polygons whose LSOA11NM contains it.
// Returns the number of features written.
func WriteMapLayer(shapesPath, outPath string, areas []report.AreaTier, nameFilter string) (int, error) {
	for _, p := range []string{shapesPath, outPath} {
		if !strings.EqualFold(filepath.Ext(p), ".shp") {
			return 0, fmt.Errorf("map layer: %s is not a .shp file", p)
		}
	}

	byArea := make(map[string]report.AreaTier, len(areas))
	for _, a := range areas {
		byArea[a.AreaCode] = a
	}

	r, err := shp.Open(shapesPath)
	if err != nil {
		return 0, fmt.Errorf("open boundaries %s: %w", shapesPath, err)
	}
	defer r.Close()

	codeField := fieldIndex(r.Fields(), FieldAreaCode)
	if codeField < 0 {
		return 0, fmt.Errorf("boundaries %s: attribute %s not found", shapesPath, FieldAreaCode)
	}
	nameField := -1
	if nameFilter != "" {
		nameField = fieldIndex(r.Fields(), FieldAreaName)
		if nameField < 0 {
			return 0, fmt.Errorf("boundaries %s: attribute %s not found, needed by the name filter", shapesPath, FieldAreaName)
		}
	}
	nameFilter = strings.ToLower(nameFilter)

	w, err := shp.Create(outPath, shp.POLYGON)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", outPath, err)
	}
	defer w.Close()

	if err := w.SetFields([]shp.Field{
		shp.StringField(FieldAreaCode, 12),
		shp.FloatField(FieldTierAvg, 8, 3),
		shp.NumberField(FieldSales, 10),
	}); err != nil {
		return 0, fmt.Errorf("map layer fields: %w", err)
	}

	written := 0
	for r.Next() {
		idx, shape := r.Shape()
		if _, ok := shape.(*shp.Polygon); !ok {
			continue
		}

		if nameField >= 0 {
			name := strings.Trim(r.ReadAttribute(idx, nameField), " \x00")
			if !strings.Contains(strings.ToLower(name), nameFilter) {
				continue
			}
		}

		code := strings.Trim(r.ReadAttribute(idx, codeField), " \x00")
		area := byArea[code]

		row := int(w.Write(shape))
		attrs := []interface{}{code, area.MeanTierRank, area.Sales}
		for field, value := range attrs {
			if err := w.WriteAttribute(row, field, value); err != nil {
				return written, fmt.Errorf("map layer %s attribute %d: %w", code, field, err)
			}
		}
		written++
	}
	if err := r.Err(); err != nil {
		return written, fmt.Errorf("read boundaries %s: %w", shapesPath, err)
	}
	return written, nil
}

func fieldIndex(fields []shp.Field, name string) int {
	for i, f := range fields {
		if strings.EqualFold(strings.TrimSpace(f.String()), name) {
			return i
		}
	}
	return -1
}
