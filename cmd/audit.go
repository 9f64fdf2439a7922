package cmd

import (
	"github.com/spf13/cobra"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Administrative audit commands",
	Long:  `View the computation audit trail on the server. Requires an admin session token (aegis login).`,
}

func init() {
	rootCmd.AddCommand(auditCmd)
}
