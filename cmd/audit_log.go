package cmd

import (
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/steph544/compliance-app-sub001/pkg/client"
)

var auditLogOpts client.ListAuditsOpts

// auditLogCmd represents the audit log command
var auditLogCmd = &cobra.Command{
	Use:   "log",
	Short: "Retrieve and display audit log entries",
	Long: `Retrieves the computation audit trail from the server. Entries can be
narrowed with --correlation and --subject, or with an arbitrary filter
expression evaluated server-side against each entry.`,
	Example: `  # the last 50 computations
  aegis audit log

  # everything that landed in a regulated tier
  aegis audit log --filter 'RiskTier == "REGULATED"'

  # computations for one subject that selected no controls
  aegis audit log --subject acme-chatbot --filter 'SelectionCount == 0'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cli, err := f.GetClient()
		if err != nil {
			return err
		}

		log.Info().Msg("Fetching audit log...")
		audits, correlation, err := cli.ListAudits(cmd.Context(), auditLogOpts)
		if err != nil {
			return logError(err, correlation, "failed to retrieve audit log")
		}

		log.Info().Msgf("Retrieved %d audit entries", len(audits))

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{
			"Time", "Action", "Subject", "Tier", "Score", "Controls", "Findings", "Error",
		})

		for _, e := range audits {
			t.AppendRow(table.Row{
				e.Time.Format(time.RFC3339),
				e.Action,
				truncate(e.Subject, 35),
				e.RiskTier,
				e.RiskScore,
				e.SelectionCount,
				e.FindingCount,
				e.Error,
			})
		}

		applyTableFormat(t)
		t.Render()
		return nil
	},
}

func init() {
	auditCmd.AddCommand(auditLogCmd)

	auditLogCmd.Flags().UintVarP(&auditLogOpts.Limit, "limit", "n", 25, "Number of audit entries to retrieve")
	auditLogCmd.Flags().StringVar(&auditLogOpts.CorrelationID, "correlation", "", "Filter by correlation ID")
	auditLogCmd.Flags().StringVar(&auditLogOpts.Subject, "subject", "", "Filter by assessment subject")
	auditLogCmd.Flags().StringVar(&auditLogOpts.Filter, "filter", "", "Filter expression evaluated against each entry")
}
