package assemblyai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-digest/internal/domain/entities"
)

// TranscriptProvider loads finished transcripts from AssemblyAI
type TranscriptProvider struct {
	client *aai.Client
	logger *zap.Logger
}

// NewTranscriptProvider creates a provider using the official SDK client
func NewTranscriptProvider(client *aai.Client, logger *zap.Logger) *TranscriptProvider {
	return &TranscriptProvider{client: client, logger: logger}
}

// NewClient builds an SDK client; baseURL may be empty for the public API
func NewClient(apiKey, baseURL string) *aai.Client {
	opts := []aai.ClientOption{aai.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, aai.WithBaseURL(baseURL))
	}
	return aai.NewClientWithOptions(opts...)
}

// GetTranscript fetches a transcript and maps its utterances to cues.
// Queued or processing transcripts yield entities.ErrTranscriptNotReady.
func (p *TranscriptProvider) GetTranscript(ctx context.Context, transcriptID string) (*entities.TranscriptContent, error) {
	transcript, err := p.client.Transcripts.Get(ctx, transcriptID)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: %s", entities.ErrTranscriptNotFound, transcriptID)
		}
		return nil, fmt.Errorf("failed to fetch transcript: %w", err)
	}

	if p.logger != nil {
		p.logger.Info("✅ Received transcript from AssemblyAI",
			zap.String("transcript_id", transcriptID),
			zap.String("status", string(transcript.Status)),
			zap.Int("utterances", len(transcript.Utterances)),
		)
	}

	switch transcript.Status {
	case aai.TranscriptStatusCompleted:
		return ToContent(transcript), nil
	case aai.TranscriptStatusError:
		return nil, fmt.Errorf("%w: %s", entities.ErrTranscriptFailed, deref(transcript.Error))
	default:
		return nil, fmt.Errorf("%w: status %s", entities.ErrTranscriptNotReady, transcript.Status)
	}
}

// ToContent maps a completed transcript to cues, falling back to the full text
// when speaker labels were not requested.
func ToContent(t aai.Transcript) *entities.TranscriptContent {
	content := &entities.TranscriptContent{Raw: deref(t.Text)}

	for _, utt := range t.Utterances {
		text := strings.TrimSpace(deref(utt.Text))
		if text == "" {
			continue
		}
		cue := entities.TranscriptCue{Text: text}
		if speaker := deref(utt.Speaker); speaker != "" {
			cue.Speaker = "Speaker " + speaker
		}
		if utt.Start != nil {
			cue.Start = FormatTimestamp(time.Duration(*utt.Start) * time.Millisecond)
		}
		if utt.End != nil {
			cue.End = FormatTimestamp(time.Duration(*utt.End) * time.Millisecond)
		}
		content.Cues = append(content.Cues, cue)
	}
	return content
}

// FormatTimestamp renders d as HH:MM:SS.mmm
func FormatTimestamp(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	ms := d.Milliseconds()
	return fmt.Sprintf("%02d:%02d:%02d.%03d", ms/3_600_000, ms/60_000%60, ms/1000%60, ms%1000)
}

func isNotFound(err error) bool {
	var apiErr aai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status == http.StatusNotFound
	}
	var apiErrPtr *aai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiErrPtr.Status == http.StatusNotFound
	}
	return false
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
