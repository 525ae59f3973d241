package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/proptier/internal/pipeline"
)

// runCmd runs the whole pipeline
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline and write the classified dataset",
	Long: `Runs S0..S5: ingest, join, score, tier, export and report.

Outputs are chosen by extension: .csv, .xlsx, .db/.sqlite (SQLite) or a
postgres:// URL. A run manifest is written next to the first file output.
--shapes and --map-output add a per-area map layer; --map-filter "London"
limits it to the Greater London boundaries.

Example:
  go run ./cmd/proptier run \
    --postcodes PCD_OA_LSOA_MSOA_LAD_AUG21_UK_LU.csv \
    --deprivation IMD_2019.csv \
    --sales pp-2024.csv \
    --output classified_property_dataset.csv --output classified.xlsx`,
	RunE: runPipeline,
}

var (
	runInputs    inputFlags
	runOutputs   []string
	runShapes    string
	runMapOutput string
	runMapFilter string
)

func init() {
	rootCmd.AddCommand(runCmd)

	runInputs.register(runCmd)
	runCmd.Flags().StringArrayVarP(&runOutputs, "output", "o", nil, "output target, repeatable (default from PROPTIER_OUTPUT)")
	runCmd.Flags().StringVar(&runShapes, "shapes", "", "LSOA boundary shapefile for the map layer")
	runCmd.Flags().StringVar(&runMapOutput, "map-output", "", "map layer output shapefile")
	runCmd.Flags().StringVar(&runMapFilter, "map-filter", "", `keep only boundaries whose LSOA11NM contains this text, e.g. "London"`)
}

func runPipeline(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	runInputs.apply(cmd, cfg)
	if cmd.Flags().Changed("output") {
		cfg.Outputs.Targets = runOutputs
	}
	if cmd.Flags().Changed("shapes") {
		cfg.Outputs.ShapesPath = runShapes
	}
	if cmd.Flags().Changed("map-output") {
		cfg.Outputs.MapPath = runMapOutput
	}
	if cmd.Flags().Changed("map-filter") {
		cfg.Outputs.MapFilter = runMapFilter
	}
	if (cfg.Outputs.ShapesPath == "") != (cfg.Outputs.MapPath == "") {
		return fmt.Errorf("--shapes and --map-output must be given together")
	}
	if cfg.Outputs.MapFilter != "" && cfg.Outputs.ShapesPath == "" {
		return fmt.Errorf("--map-filter needs --shapes and --map-output")
	}

	model, err := loadModel(cfg)
	if err != nil {
		return err
	}

	log := newLogger(cmd, cfg)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	orchestrator, cleanup, err := pipeline.Build(ctx, cfg, model, log)
	if err != nil {
		return err
	}
	defer cleanup()

	result, err := orchestrator.Run(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	PrintHeader(out, "proptier run "+result.Manifest.RunID)
	PrintDiagnostics(out, result.Diagnostics)
	PrintTierCounts(out, result.Summary.Counts, result.Summary.Total)
	PrintTierSummary(out, result.Summary)
	PrintOutputs(out, result.Manifest.Outputs, result.ManifestPath)
	PrintSuccess(out, fmt.Sprintf("%d sales classified in %.2fs", len(result.Records), result.Duration.Seconds()))
	return nil
}
