package cmd

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/steph544/compliance-app-sub001/internal/config"
)

var configValidatePath string

// configValidateCmd represents the config validate command
var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the server configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := config.Load(configValidatePath); err != nil {
			return logError(err, "", "configuration is invalid")
		}
		log.Info().Msg("Configuration is valid.")
		return nil
	},
}

func init() {
	configCmd.AddCommand(configValidateCmd)

	configValidateCmd.Flags().StringVarP(&configValidatePath, "config", "c", "aegis.yaml", "server configuration file")
}
