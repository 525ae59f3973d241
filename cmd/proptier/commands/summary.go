package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/proptier/internal/export"
	"github.com/wonny/proptier/internal/report"
)

// summaryCmd reports on an existing classified CSV
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print tier statistics for a classified CSV",
	Long: `Reads a classified CSV written by "proptier run" and prints tier counts,
per-tier means, price and decile distributions and the correlation matrix.

Example:
  go run ./cmd/proptier summary --input classified_property_dataset.csv`,
	RunE: runSummary,
}

var (
	summaryInput string
	summaryAreas int
)

func init() {
	rootCmd.AddCommand(summaryCmd)

	summaryCmd.Flags().StringVarP(&summaryInput, "input", "i", "", "classified CSV")
	summaryCmd.Flags().IntVar(&summaryAreas, "areas", 10, "number of best and worst areas to list (0 to skip)")
	_ = summaryCmd.MarkFlagRequired("input")
}

func runSummary(cmd *cobra.Command, args []string) error {
	records, err := export.ReadCSV(summaryInput)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("%s: no records", summaryInput)
	}

	s := report.Build(records)

	out := cmd.OutOrStdout()
	PrintHeader(out, "proptier summary "+summaryInput)
	PrintTierCounts(out, s.Counts, s.Total)
	PrintTierSummary(out, s)
	PrintDistributions(out, s)
	PrintCorrelation(out, s.Correlation)
	if summaryAreas > 0 {
		PrintAreas(out, s.Areas, summaryAreas)
	}
	return nil
}
