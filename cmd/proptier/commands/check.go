package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/wonny/proptier/internal/modelconfig"
	"github.com/wonny/proptier/internal/pipeline"
)

// checkCmd runs S0 and S1 only
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Read the inputs and report join coverage without scoring",
	Long: `Runs S0 (ingest) and S1 (join) and prints the coverage report:
sales without a postcode match and sales whose deprivation decile was defaulted.
Nothing is written.

Example:
  go run ./cmd/proptier check --sales pp-2024.csv`,
	RunE: runCheck,
}

var checkInputs inputFlags

func init() {
	rootCmd.AddCommand(checkCmd)
	checkInputs.register(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	checkInputs.apply(cmd, cfg)
	// No sinks are opened by check
	cfg.Outputs.Targets = nil
	cfg.Outputs.ShapesPath, cfg.Outputs.MapPath = "", ""

	log := newLogger(cmd, cfg)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	orchestrator, cleanup, err := pipeline.Build(ctx, cfg, modelconfig.Default(), log)
	if err != nil {
		return err
	}
	defer cleanup()

	result, err := orchestrator.Check(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	PrintHeader(out, "proptier check")
	PrintInputs(out, result.Inputs)
	PrintDiagnostics(out, result.Diagnostics)
	if !result.Diagnostics.LeftPreserving() {
		PrintWarning(out, "join output count differs from sale count")
	}
	return nil
}
