package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-digest/internal/domain/entities"
	usecaseerrors "github.com/johnquangdev/meeting-digest/internal/usecase/errors"
	"github.com/johnquangdev/meeting-digest/internal/usecase/render"
	pkgai "github.com/johnquangdev/meeting-digest/pkg/ai"
	"github.com/johnquangdev/meeting-digest/pkg/chunker"
)

const logPreviewRunes = 500

// SummarizerConfig bounds how much transcript reaches the model
type SummarizerConfig struct {
	MaxTokensPerChunk int
	OverlapTokens     int
	MaxChunks         int
	DefaultLanguage   string
	DefaultFormat     render.Format
	Temperature       float64
}

// SummaryOptions selects the output language and document format
type SummaryOptions struct {
	Language string
	Format   render.Format
}

// SummaryOutcome is a rendered summary plus details about how it was produced
type SummaryOutcome struct {
	Result     *entities.SummaryResult
	Language   string
	Format     render.Format
	ChunkCount int
}

// Summarizer drives chunk, complete, parse, merge, redact and render for one transcript
type Summarizer struct {
	completer pkgai.Completer
	parser    *Parser
	renderer  *render.Renderer
	cfg       SummarizerConfig
	logger    *zap.Logger
}

// NewSummarizer creates a summarizer. Non-positive budgets use the chunker defaults
// of 3000 tokens per chunk, 200 overlap tokens and 8 chunks.
func NewSummarizer(completer pkgai.Completer, renderer *render.Renderer, cfg SummarizerConfig, logger *zap.Logger) *Summarizer {
	if cfg.MaxTokensPerChunk <= 0 {
		cfg.MaxTokensPerChunk = 3000
	}
	if cfg.OverlapTokens < 0 {
		cfg.OverlapTokens = 0
	}
	if cfg.MaxChunks <= 0 {
		cfg.MaxChunks = 8
	}
	if cfg.DefaultLanguage == "" {
		cfg.DefaultLanguage = render.DefaultLanguage
	}
	if cfg.DefaultFormat == "" {
		cfg.DefaultFormat = render.DefaultFormat
	}
	return &Summarizer{
		completer: completer,
		parser:    NewParser(),
		renderer:  renderer,
		cfg:       cfg,
		logger:    logger,
	}
}

// Summarize returns the redacted, rendered summary of content.
// The returned Summary field holds the rendered document.
func (s *Summarizer) Summarize(ctx context.Context, content *entities.TranscriptContent, opts SummaryOptions) (*entities.SummaryResult, error) {
	outcome, err := s.SummarizeDetailed(ctx, content, opts)
	if err != nil {
		return nil, err
	}
	return outcome.Result, nil
}

// SummarizeDetailed is Summarize but also reports the resolved options and chunk count
func (s *Summarizer) SummarizeDetailed(ctx context.Context, content *entities.TranscriptContent, opts SummaryOptions) (*SummaryOutcome, error) {
	if content.IsEmpty() {
		return nil, usecaseerrors.InvalidRequest("transcript has neither cues nor raw text")
	}

	text := FlattenTranscript(content)
	lang := resolveLanguage(opts.Language, s.cfg.DefaultLanguage, text)
	format := opts.Format
	if format == "" {
		format = s.cfg.DefaultFormat
	}

	chunks, err := chunker.Split(text, s.cfg.MaxTokensPerChunk, s.cfg.OverlapTokens)
	if err != nil {
		if errors.Is(err, chunker.ErrInvalidInput) {
			return nil, usecaseerrors.Wrap(usecaseerrors.KindInvalidRequest, "transcript cannot be chunked", err)
		}
		return nil, err
	}
	if len(chunks) == 0 {
		return nil, usecaseerrors.InvalidRequest("transcript produced no chunks")
	}
	if len(chunks) > s.cfg.MaxChunks {
		if s.logger != nil {
			s.logger.Warn("⚠️ Transcript exceeds chunk cap, dropping tail",
				zap.Int("chunks", len(chunks)),
				zap.Int("max_chunks", s.cfg.MaxChunks),
			)
		}
		chunks = chunks[:s.cfg.MaxChunks]
	}

	if s.logger != nil {
		s.logger.Info("🤖 Summarizing transcript",
			zap.Int("chunks", len(chunks)),
			zap.Int("cues", len(content.Cues)),
			zap.String("language", lang),
			zap.String("format", string(format)),
		)
	}

	// Chunks run in order: the merge keeps the first non-blank value per field.
	parts := make([]*entities.SummaryResult, 0, len(chunks))
	for i, chunk := range chunks {
		raw, err := s.completer.Complete(ctx, summaryMessages(chunk.Text, i, len(chunks), lang), &pkgai.CompletionOptions{
			Temperature: s.cfg.Temperature,
			JSONMode:    true,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to summarize chunk %d: %w", chunk.Index, err)
		}

		part, err := s.parser.ParseSummary(raw)
		if err != nil {
			if s.logger != nil {
				s.logger.Error("❌ Failed to parse model summary",
					zap.Int("chunk", chunk.Index),
					zap.String("raw_response", ScrubForLog(raw, logPreviewRunes)),
					zap.Error(err),
				)
			}
			return nil, err
		}
		parts = append(parts, part)
	}

	merged := MergeResults(parts)
	if RedactSummary(merged) && s.logger != nil {
		s.logger.Info("🔒 Redacted PII from summary")
	}
	if err := ValidateSummary(merged); err != nil {
		return nil, err
	}

	merged.Summary = s.renderer.Render(merged, render.Options{Language: lang, Format: format})
	if strings.TrimSpace(merged.Summary) == "" {
		return nil, usecaseerrors.OutputValidation("rendered summary is empty")
	}

	return &SummaryOutcome{
		Result:     merged,
		Language:   lang,
		Format:     format,
		ChunkCount: len(chunks),
	}, nil
}
