package cmd

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/steph544/compliance-app-sub001/internal/api"
	"github.com/steph544/compliance-app-sub001/internal/core"
	"github.com/steph544/compliance-app-sub001/internal/service"
)

var (
	computeAnswersFile string
	computeSubject     string
)

var computeCmd = &cobra.Command{
	Use:   "compute",
	Short: "Compute a full assessment from questionnaire answers",
	Long: `Runs the full decision core: risk scoring, control selection and framework
mapping. With --server the computation runs (and persists) on the remote
server; otherwise it runs locally against the catalog given via --catalog.`,
	Example: `  # local, against a catalog directory
  aegis compute -f catalog/ --answers answers.yaml --subject acme-chatbot

  # remote
  aegis compute --server https://aegis.internal --answers answers.yaml --subject acme-chatbot`,
	RunE: func(cmd *cobra.Command, args []string) error {
		answers, err := loadAnswers(computeAnswersFile)
		if err != nil {
			return err
		}

		var result *core.ComputedResult
		if f.RemoteAddr != "" {
			cli, err := f.GetClient()
			if err != nil {
				return err
			}
			var correlation string
			result, correlation, err = cli.Compute(cmd.Context(), computeSubject, api.ComputePayload{
				Answers: answers,
				Vendor:  f.Vendor,
			})
			if err != nil {
				return logError(err, correlation, "remote computation failed")
			}
		} else {
			svc, err := f.GetLocalService()
			if err != nil {
				return err
			}
			result, err = svc.Compute(cmd.Context(), "local", service.ComputeRequest{
				Subject: computeSubject,
				Answers: answers,
				Vendor:  f.Vendor,
			})
			if err != nil {
				return err
			}
		}

		printResult(result)
		return nil
	},
}

func printResult(result *core.ComputedResult) {
	fmt.Printf("\n%s for %s\n", bold("Assessment"), bold(result.Subject))
	fmt.Printf("  %s: %s (score %.0f)\n", faint("Risk"), tierColored(result.RiskTier), result.RiskScore)
	if result.MonitoringPlan != nil {
		fmt.Printf("  %s: %s\n", faint("Review cadence"), result.MonitoringPlan.ReviewCadence)
	}
	fmt.Println()

	if len(result.ControlSelections) > 0 {
		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.SetTitle("Selected Controls")
		t.AppendHeader(table.Row{"Control", "Designation", "Reasoning"})
		for _, sel := range result.ControlSelections {
			reason := ""
			if len(sel.Reasoning) > 0 {
				reason = truncate(sel.Reasoning[0], 60)
			}
			t.AppendRow(table.Row{sel.ControlID, sel.Designation, reason})
		}
		applyTableFormat(t)
		t.Render()
	} else {
		log.Info().Msg("No controls selected.")
	}

	if len(result.FrameworkFindings) > 0 {
		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.SetTitle("Framework Findings")
		t.AppendHeader(table.Row{"Framework Ref", "Control", "Designation", "Finding"})
		for _, finding := range result.FrameworkFindings {
			t.AppendRow(table.Row{
				finding.FrameworkRef,
				finding.ControlID,
				finding.Designation,
				truncate(finding.Finding, 50),
			})
		}
		applyTableFormat(t)
		t.Render()
	}
}

func init() {
	rootCmd.AddCommand(computeCmd)

	f.bindCatalogFlag(computeCmd.Flags())
	computeCmd.Flags().StringVar(&computeAnswersFile, "answers", "", "Answers file (YAML or JSON)")
	computeCmd.Flags().StringVarP(&computeSubject, "subject", "s", "", "Assessment subject identifier")
	computeCmd.Flags().StringVar(&f.Vendor, "vendor", "", "Preferred vendor for guidance resolution (optional)")

	_ = computeCmd.MarkFlagRequired("answers")
	_ = computeCmd.MarkFlagRequired("subject")
}
