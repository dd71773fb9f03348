package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/johnquangdev/meeting-digest/internal/app"
	aiuse "github.com/johnquangdev/meeting-digest/internal/usecase/ai"
)

func newAskCommand(deps *commandDeps, flags *rootFlags) *cobra.Command {
	var (
		question string
		language string
		maxCues  int
	)

	cmd := &cobra.Command{
		Use:   "ask <transcript-file>",
		Short: "Answer a question from a transcript",
		Long: `Answer a question using the transcript cues that share the most terms with it.

Examples:
  digest ask standup.json -q "Who owns the budget review?"
  digest ask standup.txt -q "When is the checkpoint?" --output yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := deps.setup(flags)
			if err != nil {
				return err
			}
			defer log.Sync()

			content, err := readTranscript(args[0], deps.Stdin)
			if err != nil {
				return err
			}

			pipeline, err := app.Build(cmd.Context(), cfg, log, deps.pipelineOptions(true))
			if err != nil {
				return err
			}
			defer pipeline.Close()

			result, err := pipeline.Service.Answer(cmd.Context(), aiuse.AnswerRequest{
				Question:   question,
				Transcript: *content,
				Language:   language,
				MaxCues:    maxCues,
			})
			if err != nil {
				return err
			}

			text := result.Answer
			if len(result.Citations) > 0 {
				text += "\n\nSources:\n  - " + strings.Join(result.Citations, "\n  - ")
			}
			return writeOutput(deps.Stdout, flags.output, result, text)
		},
	}

	cmd.Flags().StringVarP(&question, "question", "q", "", "Question to answer (required)")
	cmd.Flags().StringVarP(&language, "language", "l", "", `Answer language (BCP-47) or "auto"`)
	cmd.Flags().IntVar(&maxCues, "max-cues", 0, "Number of transcript cues sent as context")
	_ = cmd.MarkFlagRequired("question")

	return cmd
}
