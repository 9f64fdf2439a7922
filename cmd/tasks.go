package cmd

import (
	"github.com/spf13/cobra"
)

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "Manage background tasks on the server",
	Long:  `List, trigger and inspect background tasks (like the catalog sync). Requires an admin session token (aegis login).`,
}

func init() {
	rootCmd.AddCommand(tasksCmd)
}
