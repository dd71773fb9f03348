package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/johnquangdev/meeting-digest/internal/app"
	pkgai "github.com/johnquangdev/meeting-digest/pkg/ai"
	"github.com/johnquangdev/meeting-digest/pkg/config"
	"github.com/johnquangdev/meeting-digest/pkg/logger"
)

// Output formats
const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

// commandDeps holds what the commands need from the outside world
type commandDeps struct {
	LoadConfig func() (*config.Config, error)
	// Completer overrides the Groq client when set
	Completer pkgai.Completer
	Stdin     io.Reader
	Stdout    io.Writer
}

func defaultDeps() *commandDeps {
	return &commandDeps{
		LoadConfig: config.Load,
		Stdin:      os.Stdin,
		Stdout:     os.Stdout,
	}
}

// rootFlags are shared by every subcommand
type rootFlags struct {
	output   string
	logLevel string
}

func newRootCommand(deps *commandDeps) *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "digest",
		Short: "Summarize meeting transcripts and ask questions about them",
		Long: `digest runs the meeting digest pipeline against local transcript files.

Transcripts are plain text, or JSON holding cues either as an array or as
{"cues": [...]} with start, end, speaker and text fields. Use "-" to read stdin.

Examples:
  digest summarize standup.txt --format markdown
  digest ask standup.json -q "Who owns the budget review?"
  digest migrate up
  digest token ops-bot --scope summaries:write`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&flags.output, "output", "o", outputText, "Output format: text, json, yaml")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "warn", "Log level: debug, info, warn, error")

	cmd.AddCommand(newSummarizeCommand(deps, flags))
	cmd.AddCommand(newAskCommand(deps, flags))
	cmd.AddCommand(newMigrateCommand(deps, flags))
	cmd.AddCommand(newTokenCommand(deps, flags))

	return cmd
}

// setup loads configuration and a logger for one command run
func (d *commandDeps) setup(flags *rootFlags) (*config.Config, *zap.Logger, error) {
	cfg, err := d.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	log, err := logger.New(flags.logLevel, cfg.Log.Development)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

// pipelineOptions builds app options; stateless runs skip cache, database and archive
func (d *commandDeps) pipelineOptions(stateless bool) app.Options {
	return app.Options{Completer: d.Completer, Stateless: stateless}
}

// writeOutput encodes v in the requested format, using text for the plain view
func writeOutput(w io.Writer, format string, v interface{}, text string) error {
	switch format {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case outputYAML:
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(v)
	case outputText, "":
		_, err := fmt.Fprintln(w, text)
		return err
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
