package cmd

import (
	"github.com/davecgh/go-spew/spew"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/steph544/compliance-app-sub001/internal/facts"
	"github.com/steph544/compliance-app-sub001/internal/scoring"
)

var debugFactsFile string

var debugFactsCmd = &cobra.Command{
	Use:   "facts",
	Short: "Dump the fact context derived from an answers file",
	Long: `Decodes an answers file into typed assessment facts, scores them and dumps
the exact fact context the rule engine would evaluate conditions against.
Useful when a rule does not match and the field path is in question.`,
	Example: `  aegis debug facts --answers answers.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		answers, err := loadAnswers(debugFactsFile)
		if err != nil {
			return err
		}

		assessment := facts.Decode(answers)
		profile := scoring.Score(assessment)
		factContext := facts.BuildContext(assessment, profile)

		log.Info().Msg("Decoded assessment:")
		spew.Dump(assessment)

		log.Info().Msg("Fact context:")
		spew.Dump(factContext)
		return nil
	},
}

func init() {
	debugCmd.AddCommand(debugFactsCmd)

	debugFactsCmd.Flags().StringVar(&debugFactsFile, "answers", "", "Answers file (YAML or JSON)")
	_ = debugFactsCmd.MarkFlagRequired("answers")
}
