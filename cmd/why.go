package cmd

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/steph544/compliance-app-sub001/internal/core"
	"github.com/steph544/compliance-app-sub001/internal/engine"
	"github.com/steph544/compliance-app-sub001/internal/facts"
	"github.com/steph544/compliance-app-sub001/internal/scoring"
	"github.com/steph544/compliance-app-sub001/internal/service"
)

var (
	whyAnswersFile string
	whyReplayID    string
	whyRuleFilter  string
)

var whyCmd = &cobra.Command{
	Use:   "why",
	Short: "Explain why answers match (or do not match) catalog rules",
	Long: `Runs a full trace of the rule evaluation and shows every rule with every
condition result. Useful for debugging why a control is (not) being selected.

With --catalog the trace runs locally. With --server it runs remotely, which
also allows replaying a past computation via --replay (requires admin).`,
	Example: `  # why does this use case not require human oversight controls?
  aegis why -f catalog/ --answers answers.yaml

  # replay a past computation on the server
  aegis why --server https://aegis.internal --replay d0q2f8a4...`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var trace *core.EvaluationTrace

		if f.RemoteAddr != "" {
			cli, err := f.GetClient()
			if err != nil {
				return err
			}

			var answers core.Answers
			if whyAnswersFile != "" {
				if answers, err = loadAnswers(whyAnswersFile); err != nil {
					return err
				}
			}

			var correlation string
			trace, correlation, err = cli.ExplainTrace(cmd.Context(), service.ExplainRequest{
				Answers:  answers,
				ReplayID: whyReplayID,
			})
			if err != nil {
				return logError(err, correlation, "explain failed")
			}
		} else {
			if whyReplayID != "" {
				return fmt.Errorf("--replay requires a remote server (use --server)")
			}
			answers, err := loadAnswers(whyAnswersFile)
			if err != nil {
				return err
			}
			bundle, _, err := f.LoadBundle()
			if err != nil {
				return err
			}

			assessment := facts.Decode(answers)
			profile := scoring.Score(assessment)
			factContext := facts.BuildContext(assessment, profile)

			localTrace := engine.New(bundle.Rules).Trace(factContext)
			trace = &localTrace
		}

		printTrace(trace)
		return nil
	},
}

func printTrace(trace *core.EvaluationTrace) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()

	fmt.Printf("\n%s\n", bold("Evaluation Trace"))
	if tier, ok := trace.Context["risk"]; ok {
		fmt.Printf("%s %v\n", faint("risk facts:"), tier)
	}

	fmt.Println(faint("---------------------------------------------------"))

	for _, res := range trace.RuleResults {
		if whyRuleFilter != "" && res.RuleName != whyRuleFilter && res.RuleID != whyRuleFilter {
			continue
		}

		icon := red("✖")
		if res.Matched {
			icon = green("✔")
		}

		fmt.Printf("%s Rule: %s %s\n", icon, bold(res.RuleName), faint("("+res.RuleID+")"))

		for _, cond := range res.ConditionResults {
			// calculate depth based on leading spaces
			trimmed := strings.TrimLeft(cond.Expression, " ")
			indentLen := len(cond.Expression) - len(trimmed)
			indent := strings.Repeat(" ", indentLen)

			// detect if this is a label
			isLogicGate := strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]")

			condIcon := red("✖")
			if cond.Matched {
				condIcon = green("✔")
			}

			if isLogicGate {
				fmt.Printf("    %s%s %s\n", indent, condIcon, cyan(trimmed))
			} else {
				fmt.Printf("    %s%s %s\n", indent, condIcon, trimmed)
			}

			if cond.Reason != "" {
				reasonIndent := indent + "      "
				reason := cond.Reason
				if cond.Matched {
					reason = faint(reason)
				} else {
					reason = yellow(reason)
				}
				fmt.Printf("%s↳ %s\n", reasonIndent, reason)
			}
		}

		fmt.Println()
	}

	fmt.Println("---------------------------------------------------")
	if len(trace.Selections) == 0 {
		fmt.Printf("Outcome: %s\n", bold("no controls selected"))
	} else {
		fmt.Printf("Outcome: %s\n", bold(fmt.Sprintf("%d control(s) selected", len(trace.Selections))))
		for _, sel := range trace.Selections {
			fmt.Printf("  - %s (%s) via %s\n",
				bold(sel.ControlID), sel.Designation, strings.Join(sel.RuleIDs, ", "))
		}
	}
	fmt.Println()
}

func init() {
	rootCmd.AddCommand(whyCmd)

	f.bindCatalogFlag(whyCmd.Flags())
	whyCmd.Flags().StringVar(&whyAnswersFile, "answers", "", "Answers file to trace (YAML or JSON)")
	whyCmd.Flags().StringVar(&whyReplayID, "replay", "", "Replay a past computation by correlation ID (remote only)")
	whyCmd.Flags().StringVarP(&whyRuleFilter, "rule", "r", "", "Filter output to a specific rule name or id (optional)")
}
