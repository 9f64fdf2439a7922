package cmd

import (
	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Interact with the rule/control catalog",
	Long:  `Utilities for validating and inspecting the declarative rule and control catalog`,
}

func init() {
	rootCmd.AddCommand(catalogCmd)
}
