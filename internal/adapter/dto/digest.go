package dto

import (
	"github.com/johnquangdev/meeting-digest/internal/domain/entities"
)

// TranscriptCue is one timed transcript line in a request body
type TranscriptCue struct {
	Start   string `json:"start" example:"00:00:01.000"`
	End     string `json:"end" example:"00:00:04.500"`
	Speaker string `json:"speaker,omitempty" example:"Alice"`
	Text    string `json:"text" validate:"required" example:"Let's plan Q3."`
}

// Transcript carries either cues or raw text. Cues win when both are set.
type Transcript struct {
	Raw  string          `json:"raw,omitempty"`
	Cues []TranscriptCue `json:"cues,omitempty" validate:"omitempty,dive"`
}

// SummarizeRequest represents the request to summarize a transcript
type SummarizeRequest struct {
	Transcript Transcript `json:"transcript"`
	Language   string     `json:"language,omitempty" validate:"omitempty,max=16" example:"auto"`
	Format     string     `json:"format,omitempty" validate:"omitempty,oneof=markdown md xml plain text txt" example:"markdown"`
	MeetingRef string     `json:"meetingRef,omitempty" validate:"omitempty,max=255" example:"weekly-sync-2024-05-01"`
}

// ExternalSummaryRequest represents the options for summarizing a provider transcript
type ExternalSummaryRequest struct {
	Language   string `json:"language,omitempty" validate:"omitempty,max=16"`
	Format     string `json:"format,omitempty" validate:"omitempty,oneof=markdown md xml plain text txt"`
	MeetingRef string `json:"meetingRef,omitempty" validate:"omitempty,max=255"`
}

// AnswerRequest represents a question about a transcript
type AnswerRequest struct {
	Question   string     `json:"question" validate:"required,max=2000" example:"Who owns the budget review?"`
	Transcript Transcript `json:"transcript"`
	Language   string     `json:"language,omitempty" validate:"omitempty,max=16"`
	MaxCues    int        `json:"maxCues,omitempty" validate:"omitempty,min=1,max=50"`
}

// ListSummariesRequest represents query parameters for listing summaries
type ListSummariesRequest struct {
	MeetingRef string `query:"meetingRef" validate:"required,max=255"`
	Limit      int    `query:"limit" validate:"omitempty,min=1,max=100"`
}

// AssemblyAIWebhook is the completion notice posted by AssemblyAI
type AssemblyAIWebhook struct {
	TranscriptID string `json:"transcript_id" validate:"required"`
	Status       string `json:"status" validate:"required"`
}

// ToContent converts the request transcript to the domain form
func (t Transcript) ToContent() entities.TranscriptContent {
	content := entities.TranscriptContent{Raw: t.Raw}
	if len(t.Cues) > 0 {
		content.Cues = make([]entities.TranscriptCue, 0, len(t.Cues))
		for _, cue := range t.Cues {
			content.Cues = append(content.Cues, entities.TranscriptCue{
				Start:   cue.Start,
				End:     cue.End,
				Speaker: cue.Speaker,
				Text:    cue.Text,
			})
		}
	}
	return content
}
