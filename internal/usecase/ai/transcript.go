package ai

import (
	"strings"

	"github.com/johnquangdev/meeting-digest/internal/domain/entities"
)

// FlattenTranscript turns content into the text sent to the model.
// Cues become "[speaker] text" lines; without cues the raw text is used as is.
func FlattenTranscript(content *entities.TranscriptContent) string {
	if content == nil {
		return ""
	}
	if len(content.Cues) == 0 {
		return content.Raw
	}

	lines := make([]string, 0, len(content.Cues))
	for _, cue := range content.Cues {
		speaker := strings.TrimSpace(cue.Speaker)
		if speaker == "" {
			lines = append(lines, cue.Text)
			continue
		}
		lines = append(lines, "["+speaker+"] "+cue.Text)
	}
	return strings.Join(lines, "\n")
}

// cuesOf returns the cues to search, synthesizing one from Raw when needed
func cuesOf(content *entities.TranscriptContent) []entities.TranscriptCue {
	if len(content.Cues) > 0 {
		return content.Cues
	}
	return []entities.TranscriptCue{{Text: content.Raw}}
}
