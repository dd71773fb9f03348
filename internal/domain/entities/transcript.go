package entities

// TranscriptCue is one timed line of a transcript
type TranscriptCue struct {
	Start   string `json:"start"`
	End     string `json:"end"`
	Speaker string `json:"speaker,omitempty"`
	Text    string `json:"text"`
}

// TranscriptContent is the input handed to the digest pipeline.
// Cues take precedence over Raw when both are present.
type TranscriptContent struct {
	Raw  string          `json:"raw,omitempty"`
	Cues []TranscriptCue `json:"cues,omitempty"`
}

// IsEmpty reports whether there is nothing to summarize or search
func (t *TranscriptContent) IsEmpty() bool {
	if t == nil {
		return true
	}
	return len(t.Cues) == 0 && t.Raw == ""
}
