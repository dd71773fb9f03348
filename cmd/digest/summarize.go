package main

import (
	"github.com/spf13/cobra"

	"github.com/johnquangdev/meeting-digest/internal/app"
	aiuse "github.com/johnquangdev/meeting-digest/internal/usecase/ai"
)

func newSummarizeCommand(deps *commandDeps, flags *rootFlags) *cobra.Command {
	var (
		language   string
		format     string
		meetingRef string
		persist    bool
	)

	cmd := &cobra.Command{
		Use:   "summarize <transcript-file>",
		Short: "Render the seven-section summary of a transcript",
		Long: `Render the seven-section meeting summary of a transcript file.

Examples:
  digest summarize standup.txt
  digest summarize standup.json --language vi --format plain
  cat standup.txt | digest summarize - --output json

With --persist the configured cache, database and archive are used as the
API server would.`,
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

			pipeline, err := app.Build(cmd.Context(), cfg, log, deps.pipelineOptions(!persist))
			if err != nil {
				return err
			}
			defer pipeline.Close()

			resp, err := pipeline.Service.Summarize(cmd.Context(), aiuse.SummarizeRequest{
				Transcript: *content,
				Language:   language,
				Format:     format,
				MeetingRef: meetingRef,
			})
			if err != nil {
				return err
			}
			return writeOutput(deps.Stdout, flags.output, resp, resp.Result.Summary)
		},
	}

	cmd.Flags().StringVarP(&language, "language", "l", "", `Output language (BCP-47) or "auto"`)
	cmd.Flags().StringVarP(&format, "format", "f", "", "Document format: markdown, xml, plain")
	cmd.Flags().StringVar(&meetingRef, "meeting-ref", "", "Reference stored with the summary")
	cmd.Flags().BoolVar(&persist, "persist", false, "Use the configured cache, database and archive")

	return cmd
}
