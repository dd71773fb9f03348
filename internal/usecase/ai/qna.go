package ai

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-digest/internal/domain/entities"
	usecaseerrors "github.com/johnquangdev/meeting-digest/internal/usecase/errors"
	pkgai "github.com/johnquangdev/meeting-digest/pkg/ai"
)

// DefaultMaxCues is how many relevant cues are sent to the model by default
const DefaultMaxCues = 6

// QaOptions tunes one Answer call
type QaOptions struct {
	Language string
	// MaxCues caps the context size; zero uses the engine default
	MaxCues int
}

// QnAEngine answers questions from the transcript lines that share words with them
type QnAEngine struct {
	completer       pkgai.Completer
	parser          *Parser
	maxCues         int
	defaultLanguage string
	temperature     float64
	logger          *zap.Logger
}

// NewQnAEngine creates an engine; maxCues <= 0 uses DefaultMaxCues
func NewQnAEngine(completer pkgai.Completer, maxCues int, defaultLanguage string, temperature float64, logger *zap.Logger) *QnAEngine {
	if maxCues <= 0 {
		maxCues = DefaultMaxCues
	}
	if defaultLanguage == "" {
		defaultLanguage = "en"
	}
	return &QnAEngine{
		completer:       completer,
		parser:          NewParser(),
		maxCues:         maxCues,
		defaultLanguage: defaultLanguage,
		temperature:     temperature,
		logger:          logger,
	}
}

type scoredCue struct {
	cue   entities.TranscriptCue
	score int
}

// Answer asks the model about question using only the best-matching cues as context
func (q *QnAEngine) Answer(ctx context.Context, question string, content *entities.TranscriptContent, opts QaOptions) (*entities.QaResult, error) {
	if strings.TrimSpace(question) == "" {
		return nil, usecaseerrors.InvalidRequest("question is empty")
	}
	if content.IsEmpty() {
		return nil, usecaseerrors.NotFound("no transcript to answer from")
	}

	maxCues := opts.MaxCues
	if maxCues <= 0 {
		maxCues = q.maxCues
	}

	selected := SelectCues(question, cuesOf(content), maxCues)
	if len(selected) == 0 {
		return nil, usecaseerrors.NotFound("no transcript lines relate to the question")
	}

	lang := resolveLanguage(opts.Language, q.defaultLanguage, question)
	contextText := BuildContext(selected)

	if q.logger != nil {
		q.logger.Info("💬 Answering question",
			zap.Int("context_cues", len(selected)),
			zap.String("language", lang),
		)
	}

	raw, err := q.completer.Complete(ctx, answerMessages(question, contextText, lang), &pkgai.CompletionOptions{
		Temperature: q.temperature,
		JSONMode:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to answer question: %w", err)
	}

	result, err := q.parser.ParseAnswer(raw)
	if err != nil {
		if q.logger != nil {
			q.logger.Error("❌ Failed to parse model answer",
				zap.String("raw_response", ScrubForLog(raw, logPreviewRunes)),
				zap.Error(err),
			)
		}
		return nil, err
	}

	RedactAnswer(result)
	if err := ValidateAnswer(result); err != nil {
		return nil, err
	}
	return result, nil
}

// SelectCues scores every cue by how many distinct question tokens it contains
// and returns the top maxCues with a positive score, best first. Ties keep
// transcript order.
func SelectCues(question string, cues []entities.TranscriptCue, maxCues int) []entities.TranscriptCue {
	terms := uniqueTokens(question)
	if len(terms) == 0 {
		return nil
	}

	scored := make([]scoredCue, 0, len(cues))
	for _, cue := range cues {
		words := make(map[string]struct{})
		for _, tok := range tokenize(cue.Text) {
			words[tok] = struct{}{}
		}
		score := 0
		for _, term := range terms {
			if _, ok := words[term]; ok {
				score++
			}
		}
		if score > 0 {
			scored = append(scored, scoredCue{cue: cue, score: score})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})
	if maxCues > 0 && len(scored) > maxCues {
		scored = scored[:maxCues]
	}

	out := make([]entities.TranscriptCue, len(scored))
	for i, sc := range scored {
		out[i] = sc.cue
	}
	return out
}

// BuildContext renders cues as "[start - end] speaker: text" lines
func BuildContext(cues []entities.TranscriptCue) string {
	lines := make([]string, 0, len(cues))
	for _, cue := range cues {
		var sb strings.Builder
		if cue.Start != "" || cue.End != "" {
			sb.WriteString("[" + cue.Start + " - " + cue.End + "] ")
		}
		if speaker := strings.TrimSpace(cue.Speaker); speaker != "" {
			sb.WriteString(speaker + ": ")
		}
		sb.WriteString(strings.TrimSpace(cue.Text))
		lines = append(lines, sb.String())
	}
	return strings.Join(lines, "\n")
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})
}

func uniqueTokens(text string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, tok := range tokenize(text) {
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
	}
	return out
}
