package cmd

import (
	"github.com/spf13/cobra"
)

// catalogValidateCmd represents the catalog validate command
var catalogValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a catalog file or directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		bundle, controls, err := f.LoadBundle()
		if err != nil {
			return logError(err, "", "catalog is invalid")
		}
		logSuccess("Catalog is valid: %d rules, %d controls (version: %s)",
			len(bundle.Rules), len(controls), bundle.Version)
		return nil
	},
}

func init() {
	catalogCmd.AddCommand(catalogValidateCmd)

	f.bindCatalogFlag(catalogValidateCmd.Flags())
	_ = catalogValidateCmd.MarkFlagRequired("catalog")
}
