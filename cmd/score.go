package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/steph544/compliance-app-sub001/internal/core"
	"github.com/steph544/compliance-app-sub001/internal/scoring"
)

var scoreAnswersFile string

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score questionnaire answers without running the rule engine",
	Long: `Runs only the risk scoring stage and prints the score, the tier and every
driver that contributed to it. Useful for tuning answers before a full
computation. Runs entirely locally and needs no catalog.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		answers, err := loadAnswers(scoreAnswersFile)
		if err != nil {
			return err
		}

		profile := scoring.ScoreAnswers(answers)

		fmt.Printf("\n%s: %s (score %.0f)\n\n", bold("Risk"), tierColored(profile.Tier), profile.Score)

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Factor", "Contribution", "Explanation"})
		for _, driver := range profile.Drivers {
			contribution := fmt.Sprintf("%+.0f", driver.Contribution)
			if driver.Contribution < 0 {
				contribution = color.GreenString(contribution)
			}
			t.AppendRow(table.Row{driver.Factor, contribution, driver.Explanation})
		}
		applyTableFormat(t)
		t.Render()
		return nil
	},
}

func tierColored(tier core.RiskTier) string {
	switch tier {
	case core.TierLow:
		return color.GreenString(string(tier))
	case core.TierMedium:
		return color.YellowString(string(tier))
	case core.TierHigh:
		return color.RedString(string(tier))
	case core.TierRegulated:
		return color.New(color.FgRed, color.Bold).Sprint(string(tier))
	default:
		return string(tier)
	}
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().StringVar(&scoreAnswersFile, "answers", "", "Answers file (YAML or JSON)")
	_ = scoreCmd.MarkFlagRequired("answers")
}
