package pipeline

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/proptier/internal/contracts"
	"github.com/wonny/proptier/internal/export"
	"github.com/wonny/proptier/internal/ingest"
	"github.com/wonny/proptier/internal/modelconfig"
	"github.com/wonny/proptier/internal/quantile"
	"github.com/wonny/proptier/pkg/config"
	"github.com/wonny/proptier/pkg/logger"
)

type fixture struct {
	dir    string
	config *config.Config
}

var fixturePostcodes = []string{"SW1A 1AA", "AB1 0AA", "CF10 1AA", "M1 1AE", "ZZ9 9ZZ"}

// newFixture writes the three inputs; prices are the sale prices in order
func newFixture(t *testing.T, prices []int) *fixture {
	t.Helper()
	dir := t.TempDir()

	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}

	postcodes := write("onspd.csv", "pcds,lsoa11cd\n"+
		"SW1A 1AA,E01004736\n"+
		"AB1 0AA,S01006514\n"+
		"CF10 1AA,W01001939\n"+
		"M1 1AE,E01005070\n")

	deprivation := write("imd.csv", "lsoa11cd,IMD_Rank,IMD_Decile\n"+
		"E01004736,30000,10\n"+
		"S01006514,20000,7\n"+
		"E01005070,2000,1\n")

	types := []string{"D", "S", "T", "F", "O"}
	var sales strings.Builder
	for i, price := range prices {
		fmt.Fprintf(&sales,
			`"{ID-%04d}","%d","2024-01-%02d 00:00","%s","%s","N","F","1","","HIGH STREET","","TOWN","DISTRICT","COUNTY","A","A"`+"\n",
			i, price, i%28+1, fixturePostcodes[i%len(fixturePostcodes)], types[i%len(types)])
	}
	salesPath := write("pp.csv", sales.String())

	return &fixture{
		dir: dir,
		config: &config.Config{
			Env: "development",
			Inputs: config.InputConfig{
				PostcodesPath:   postcodes,
				DeprivationPath: deprivation,
				SalesPath:       salesPath,
			},
			Outputs: config.OutputConfig{
				Targets: []string{filepath.Join(dir, "classified.csv"), filepath.Join(dir, "classified.db")},
			},
			LogLevel:  "error",
			LogFormat: "json",
		},
	}
}

func prices(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = 100000 + i*25000
	}
	return out
}

func build(t *testing.T, cfg *config.Config, model *modelconfig.Config) *Orchestrator {
	t.Helper()
	o, cleanup, err := Build(context.Background(), cfg, model, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(cleanup)
	return o
}

func TestRun(t *testing.T) {
	f := newFixture(t, prices(35))
	o := build(t, f.config, modelconfig.Default())

	result, err := o.Run(context.Background())
	require.NoError(t, err)
	require.True(t, result.Success)

	// Left-preserving end to end
	assert.Len(t, result.Records, 35)
	assert.True(t, result.Diagnostics.LeftPreserving())
	assert.Equal(t, 7, result.Diagnostics.MissingArea) // ZZ9 9ZZ
	assert.Equal(t, 14, result.Diagnostics.MissingDeprivation)

	for _, rec := range result.Records {
		assert.NotEqual(t, contracts.TierNone, rec.Tier)
		assert.Equal(t, rec.Scores.Total(), rec.CompositeScore)
		if !rec.DeprivationMatched {
			assert.Equal(t, 20, rec.Scores.Location)
		}
	}

	m := result.Manifest
	require.Len(t, m.Stages, len(contracts.AllStages()))
	for i, stage := range contracts.AllStages() {
		assert.Equal(t, stage, m.Stages[i].Stage)
		assert.True(t, m.Stages[i].Success, stage)
	}
	assert.Len(t, m.Inputs, 3)
	assert.Len(t, m.Outputs, 2)
	assert.Equal(t, 35, m.RecordCount)
	assert.Len(t, m.ModelHash, 64)

	total := 0
	for _, n := range m.TierCounts {
		total += n
	}
	assert.Equal(t, 35, total)

	// Manifest next to the first file output
	assert.Equal(t, filepath.Join(f.dir, "classified.manifest.json"), result.ManifestPath)
	written, err := export.ReadManifest(result.ManifestPath)
	require.NoError(t, err)
	assert.Equal(t, m.RunID, written.RunID)

	// CSV output round-trips
	back, err := export.ReadCSV(filepath.Join(f.dir, "classified.csv"))
	require.NoError(t, err)
	assert.Len(t, back, 35)

	require.NotNil(t, result.Summary)
	assert.Equal(t, 35, result.Summary.Total)
}

func TestRun_DegenerateValuation(t *testing.T) {
	f := newFixture(t, []int{100000, 100000, 200000, 200000, 300000, 300000, 400000, 400000})
	o := build(t, f.config, modelconfig.Default())

	result, err := o.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, quantile.ErrDegenerateSplit))
	assert.False(t, result.Success)

	stages := result.Manifest.Stages
	require.Len(t, stages, 3)
	last := stages[len(stages)-1]
	assert.Equal(t, contracts.StageScoring, last.Stage)
	assert.False(t, last.Success)
	assert.NotEmpty(t, last.Error)

	// Nothing written after a fatal error
	_, statErr := os.Stat(filepath.Join(f.dir, "classified.csv"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestCheck(t *testing.T) {
	f := newFixture(t, prices(10))
	o := build(t, f.config, modelconfig.Default())

	result, err := o.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10, result.Diagnostics.InputCount)
	assert.Equal(t, 2, result.Diagnostics.MissingArea)
	assert.False(t, result.CacheHit)
	require.Len(t, result.Inputs, 3)
	assert.Equal(t, 4, result.Inputs[0].Rows)

	_, statErr := os.Stat(filepath.Join(f.dir, "classified.csv"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestCheck_SchemaError(t *testing.T) {
	f := newFixture(t, prices(10))
	require.NoError(t, os.WriteFile(f.config.Inputs.DeprivationPath, []byte("lsoa11cd,IMD_Rank\nE01004736,30000\n"), 0o644))

	_, err := build(t, f.config, modelconfig.Default()).Check(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "imd_decile")
}

func TestBuild_Errors(t *testing.T) {
	f := newFixture(t, prices(10))

	cfg := *f.config
	cfg.Outputs.Targets = []string{filepath.Join(f.dir, "classified.parquet")}
	_, _, err := Build(context.Background(), &cfg, modelconfig.Default(), logger.Nop())
	assert.Error(t, err)

	cfg = *f.config
	cfg.Inputs.SalesPath = ""
	_, _, err = Build(context.Background(), &cfg, modelconfig.Default(), logger.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sales")
}

func TestRun_SalesFromURL(t *testing.T) {
	f := newFixture(t, prices(14))
	sales, err := os.ReadFile(f.config.Inputs.SalesPath)
	require.NoError(t, err)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(sales)
	}))
	defer server.Close()

	f.config.Inputs.SalesPath = server.URL + "/pp-2024.csv"
	f.config.Inputs.CacheDir = filepath.Join(f.dir, "cache")

	o := build(t, f.config, modelconfig.Default())
	result, err := o.Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, result.Records, 14)

	in, ok := result.Manifest.Input(ingest.RoleSales)
	require.True(t, ok)
	assert.Equal(t, f.config.Inputs.CacheDir, filepath.Dir(in.Path))
	assert.Equal(t, 14, in.Rows)
}

func TestBuild_MapLayer(t *testing.T) {
	f := newFixture(t, prices(10))
	f.config.Outputs.ShapesPath = filepath.Join(f.dir, "lsoa.shp")
	f.config.Outputs.MapPath = filepath.Join(f.dir, "tiers.shp")

	o := build(t, f.config, modelconfig.Default())
	sinks := o.Exporters()
	require.Len(t, sinks, 3)
	assert.Equal(t, "map", sinks[2].Name())
}

func TestRun_Cancelled(t *testing.T) {
	f := newFixture(t, prices(10))
	o := build(t, f.config, modelconfig.Default())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := o.Run(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, result.Success)
}
