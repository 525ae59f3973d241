package config_test

import (
	"fmt"

	"github.com/wonny/proptier/pkg/config"
)

// Example demonstrates how to use the config package
func Example() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		return
	}

	if err := cfg.ValidateInputs(); err != nil {
		fmt.Printf("Incomplete inputs: %v\n", err)
		return
	}

	fmt.Printf("Environment: %s\n", cfg.Env)
	fmt.Printf("Sales file: %s\n", cfg.Inputs.SalesPath)
	fmt.Printf("Outputs: %v\n", cfg.Outputs.Targets)
}
