package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/proptier/internal/modelconfig"
)

// modelCmd prints the effective scoring model
var modelCmd = &cobra.Command{
	Use:   "model",
	Short: "Print the effective scoring model and its hash",
	Long: `Prints the scoring model as YAML with the SHA-256 hash recorded in run
manifests. Use it as a starting point for a custom --model file.

Example:
  go run ./cmd/proptier model > model.yaml
  go run ./cmd/proptier model --model model.yaml`,
	RunE: runModel,
}

func init() {
	rootCmd.AddCommand(modelCmd)
}

func runModel(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	model, err := loadModel(cfg)
	if err != nil {
		return err
	}

	hash, err := modelconfig.Hash(model)
	if err != nil {
		return err
	}
	data, err := modelconfig.Marshal(model)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	source := cfg.ModelPath
	if source == "" {
		source = "built-in"
	}
	PrintComment(out, "model: "+source)
	PrintComment(out, "sha256: "+hash)
	PrintComment(out, fmt.Sprintf("composite range: %d..%d", model.MinComposite(), model.MaxComposite()))
	_, err = out.Write(data)
	return err
}
