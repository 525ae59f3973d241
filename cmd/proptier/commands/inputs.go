package commands

import (
	"github.com/spf13/cobra"

	"github.com/wonny/proptier/pkg/config"
)

// inputFlags are shared by run and check
type inputFlags struct {
	postcodes   string
	deprivation string
	sales       string
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.postcodes, "postcodes", "", "ONSPD postcode lookup CSV (default from PROPTIER_POSTCODES)")
	cmd.Flags().StringVar(&f.deprivation, "deprivation", "", "IMD 2019 CSV or XLSX (default from PROPTIER_DEPRIVATION)")
	cmd.Flags().StringVar(&f.sales, "sales", "", "Price Paid CSV (default from PROPTIER_SALES)")
}

// apply overrides the environment with flags that were set
func (f *inputFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("postcodes") {
		cfg.Inputs.PostcodesPath = f.postcodes
	}
	if cmd.Flags().Changed("deprivation") {
		cfg.Inputs.DeprivationPath = f.deprivation
	}
	if cmd.Flags().Changed("sales") {
		cfg.Inputs.SalesPath = f.sales
	}
}
