package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/meeting-digest/internal/domain/entities"
	usecaseerrors "github.com/johnquangdev/meeting-digest/internal/usecase/errors"
	"github.com/johnquangdev/meeting-digest/internal/usecase/render"
	pkgai "github.com/johnquangdev/meeting-digest/pkg/ai"
)

func aliceBobTranscript() *entities.TranscriptContent {
	return &entities.TranscriptContent{
		Cues: []entities.TranscriptCue{
			{Start: "00:00:01.000", End: "00:00:04.000", Speaker: "Alice", Text: "I will deliver the deck on Friday."},
			{Start: "00:00:05.000", End: "00:00:09.000", Speaker: "Bob", Text: "I will update the roadmap next week."},
		},
	}
}

func TestFlattenTranscript(t *testing.T) {
	content := &entities.TranscriptContent{
		Raw: "ignored",
		Cues: []entities.TranscriptCue{
			{Speaker: "Alice", Text: "Hello"},
			{Text: "No speaker here"},
		},
	}
	assert.Equal(t, "[Alice] Hello\nNo speaker here", FlattenTranscript(content))
	assert.Equal(t, "raw only", FlattenTranscript(&entities.TranscriptContent{Raw: "raw only"}))
	assert.Equal(t, "", FlattenTranscript(nil))
}

func TestSummarize_EndToEndRendersSevenSections(t *testing.T) {
	completer := newFakeCompleter(aliceBobResponse)
	s := newTestSummarizer(t, completer, SummarizerConfig{})

	for _, format := range []render.Format{render.FormatXML, render.FormatMarkdown, render.FormatPlain} {
		t.Run(string(format), func(t *testing.T) {
			result, err := s.Summarize(context.Background(), aliceBobTranscript(), SummaryOptions{Format: format})
			require.NoError(t, err)

			last := -1
			for _, h := range sectionHeadings {
				idx := strings.Index(result.Summary, h)
				require.NotEqual(t, -1, idx, "missing heading %q", h)
				assert.Greater(t, idx, last, "heading %q out of order", h)
				last = idx
			}
			assert.Contains(t, result.Summary, "Deliver the deck")
			assert.Equal(t, []string{"Alice delivers the deck Friday", "Bob updates the roadmap next week"}, result.ActionItems)
		})
	}

	require.Equal(t, 3, completer.callCount())
	first := completer.calls[0]
	require.Len(t, first, 2)
	assert.Equal(t, pkgai.RoleSystem, first[0].Role)
	assert.Equal(t, pkgai.RoleUser, first[1].Role)
	assert.Equal(t, "[Alice] I will deliver the deck on Friday.\n[Bob] I will update the roadmap next week.", first[1].Content)
}

func TestSummarize_DefaultFormatIsXML(t *testing.T) {
	s := newTestSummarizer(t, newFakeCompleter(aliceBobResponse), SummarizerConfig{})

	outcome, err := s.SummarizeDetailed(context.Background(), aliceBobTranscript(), SummaryOptions{})
	require.NoError(t, err)
	assert.Equal(t, render.FormatXML, outcome.Format)
	assert.Equal(t, "en", outcome.Language)
	assert.Equal(t, 1, outcome.ChunkCount)
	assert.True(t, strings.HasPrefix(outcome.Result.Summary, "<?xml"))
}

func TestSummarize_CapsChunksAndKeepsOrder(t *testing.T) {
	words := make([]string, 40)
	for i := range words {
		words[i] = "abcd"
	}
	content := &entities.TranscriptContent{Raw: strings.Join(words, " ")}

	completer := newFakeCompleter(
		`{"summary": "First part.", "topics": ["Budget"], "templateData": {"meetingPurpose": ""}}`,
		`{"summary": "Second part.", "topics": ["Budget", "Hiring"], "templateData": {"meetingPurpose": "Plan Q3"}}`,
		`{"summary": "Third part.", "templateData": {"meetingPurpose": "Ignored purpose"}}`,
	)
	s := newTestSummarizer(t, completer, SummarizerConfig{MaxTokensPerChunk: 10, OverlapTokens: 0, MaxChunks: 3})

	outcome, err := s.SummarizeDetailed(context.Background(), content, SummaryOptions{Format: render.FormatMarkdown})
	require.NoError(t, err)

	assert.Equal(t, 3, outcome.ChunkCount)
	require.Equal(t, 3, completer.callCount())
	assert.True(t, strings.HasPrefix(completer.calls[0][1].Content, "Transcript part 1 of 3:"))
	assert.True(t, strings.HasPrefix(completer.calls[2][1].Content, "Transcript part 3 of 3:"))

	require.NotNil(t, outcome.Result.TemplateData)
	assert.Equal(t, "Plan Q3", outcome.Result.TemplateData.MeetingPurpose)
	assert.Equal(t, []string{"Budget", "Hiring"}, outcome.Result.Topics)
	assert.Contains(t, outcome.Result.Summary, "Plan Q3")
	assert.NotContains(t, outcome.Result.Summary, "Ignored purpose")
}

func TestSummarize_CapsMergedActionItems(t *testing.T) {
	words := make([]string, 40)
	for i := range words {
		words[i] = "abcd"
	}
	content := &entities.TranscriptContent{Raw: strings.Join(words, " ")}

	responses := make([]string, 4)
	for part := range responses {
		items := make([]string, 5)
		for i := range items {
			items[i] = fmt.Sprintf("%q", fmt.Sprintf("task-%02d", part*5+i+1))
		}
		responses[part] = fmt.Sprintf(`{"summary": "Part %d.", "actionItems": [%s]}`, part+1, strings.Join(items, ", "))
	}
	completer := newFakeCompleter(responses...)
	s := newTestSummarizer(t, completer, SummarizerConfig{MaxTokensPerChunk: 10, MaxChunks: 4})

	outcome, err := s.SummarizeDetailed(context.Background(), content, SummaryOptions{Format: render.FormatMarkdown})
	require.NoError(t, err)
	require.Equal(t, 4, outcome.ChunkCount)
	assert.Len(t, outcome.Result.ActionItems, 20)

	limit := entities.DefaultSummaryLimits().ActionItems
	doc := outcome.Result.Summary
	assert.Equal(t, limit, strings.Count(doc, "**Action:**"))
	for i := 1; i <= 20; i++ {
		task := fmt.Sprintf("task-%02d", i)
		if i <= limit {
			assert.Contains(t, doc, task)
		} else {
			assert.NotContains(t, doc, task)
		}
	}
}

func TestSummarize_RedactsModelOutput(t *testing.T) {
	completer := newFakeCompleter(`{"summary": "Follow up", "actionItems": ["Email jane@example.com the notes"]}`)
	s := newTestSummarizer(t, completer, SummarizerConfig{})

	result, err := s.Summarize(context.Background(), &entities.TranscriptContent{Raw: "send the notes"}, SummaryOptions{Format: render.FormatPlain})
	require.NoError(t, err)
	assert.Equal(t, []string{"Email [redacted-email] the notes"}, result.ActionItems)
	assert.NotContains(t, result.Summary, "jane@example.com")
	assert.Contains(t, result.Summary, "[redacted-email]")
}

func TestSummarize_LanguageInstruction(t *testing.T) {
	completer := newFakeCompleter(aliceBobResponse)
	s := newTestSummarizer(t, completer, SummarizerConfig{})

	result, err := s.Summarize(context.Background(), aliceBobTranscript(), SummaryOptions{Language: "vi", Format: render.FormatMarkdown})
	require.NoError(t, err)
	assert.Contains(t, completer.calls[0][0].Content, "Vietnamese")
	assert.NotContains(t, result.Summary, "1. Meeting Header")
}

func TestSummarize_Errors(t *testing.T) {
	upstream := errors.New("groq returned status 503")

	tests := []struct {
		name      string
		content   *entities.TranscriptContent
		completer *fakeCompleter
		kind      usecaseerrors.Kind
		opaque    error
		noCalls   bool
	}{
		{
			name:      "empty transcript",
			content:   &entities.TranscriptContent{},
			completer: newFakeCompleter(aliceBobResponse),
			kind:      usecaseerrors.KindInvalidRequest,
			noCalls:   true,
		},
		{
			name:      "whitespace only",
			content:   &entities.TranscriptContent{Raw: "   \n\t "},
			completer: newFakeCompleter(aliceBobResponse),
			kind:      usecaseerrors.KindInvalidRequest,
			noCalls:   true,
		},
		{
			name:      "unparseable output",
			content:   aliceBobTranscript(),
			completer: newFakeCompleter("Sorry, here is some prose without JSON."),
			kind:      usecaseerrors.KindInvalidRequest,
		},
		{
			name:      "refusal",
			content:   aliceBobTranscript(),
			completer: newFakeCompleter(`{"summary": "As an AI, I cannot summarize this."}`),
			kind:      usecaseerrors.KindOutputValidation,
		},
		{
			name:      "empty output",
			content:   aliceBobTranscript(),
			completer: newFakeCompleter(`{"summary": "  "}`),
			kind:      usecaseerrors.KindOutputValidation,
		},
		{
			name:      "model failure is not classified",
			content:   aliceBobTranscript(),
			completer: &fakeCompleter{err: upstream},
			opaque:    upstream,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSummarizer(t, tt.completer, SummarizerConfig{})
			_, err := s.Summarize(context.Background(), tt.content, SummaryOptions{})
			require.Error(t, err)

			if tt.opaque != nil {
				_, classified := usecaseerrors.KindOf(err)
				assert.False(t, classified)
				assert.ErrorIs(t, err, tt.opaque)
			} else {
				assert.True(t, usecaseerrors.Is(err, tt.kind), "got %v", err)
			}
			if tt.noCalls {
				assert.Zero(t, tt.completer.callCount())
			}
		})
	}
}
