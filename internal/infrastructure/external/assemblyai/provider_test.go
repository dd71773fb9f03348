package assemblyai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/meeting-digest/internal/domain/entities"
)

const completedTranscript = `{
  "id": "tr_123",
  "status": "completed",
  "text": "Hi all. Budget is approved.",
  "utterances": [
    {"speaker": "A", "text": "Hi all.", "start": 1500, "end": 3250},
    {"speaker": "B", "text": "Budget is approved.", "start": 3723000, "end": 3725001},
    {"speaker": "C", "text": "  ", "start": 4000000, "end": 4000100}
  ]
}`

func TestFormatTimestamp(t *testing.T) {
	assert.Equal(t, "00:00:00.000", FormatTimestamp(0))
	assert.Equal(t, "00:00:01.500", FormatTimestamp(1500*time.Millisecond))
	assert.Equal(t, "01:02:03.004", FormatTimestamp(time.Hour+2*time.Minute+3*time.Second+4*time.Millisecond))
	assert.Equal(t, "00:00:00.000", FormatTimestamp(-time.Second))
}

func TestToContent(t *testing.T) {
	var transcript aai.Transcript
	require.NoError(t, json.Unmarshal([]byte(completedTranscript), &transcript))

	content := ToContent(transcript)
	assert.Equal(t, "Hi all. Budget is approved.", content.Raw)
	require.Len(t, content.Cues, 2)
	assert.Equal(t, entities.TranscriptCue{Start: "00:00:01.500", End: "00:00:03.250", Speaker: "Speaker A", Text: "Hi all."}, content.Cues[0])
	assert.Equal(t, "01:02:03.000", content.Cues[1].Start)
	assert.Equal(t, "Speaker B", content.Cues[1].Speaker)
}

func TestGetTranscript_Statuses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/v2/transcript/tr_123":
			_, _ = w.Write([]byte(completedTranscript))
		case "/v2/transcript/tr_queued":
			_, _ = w.Write([]byte(`{"id": "tr_queued", "status": "processing"}`))
		case "/v2/transcript/tr_failed":
			_, _ = w.Write([]byte(`{"id": "tr_failed", "status": "error", "error": "audio too short"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error": "Transcript not found"}`))
		}
	}))
	defer srv.Close()

	provider := NewTranscriptProvider(NewClient("test-key", srv.URL), nil)
	ctx := context.Background()

	content, err := provider.GetTranscript(ctx, "tr_123")
	require.NoError(t, err)
	assert.Len(t, content.Cues, 2)

	_, err = provider.GetTranscript(ctx, "tr_queued")
	assert.ErrorIs(t, err, entities.ErrTranscriptNotReady)

	_, err = provider.GetTranscript(ctx, "tr_failed")
	assert.ErrorIs(t, err, entities.ErrTranscriptFailed)
	assert.Contains(t, err.Error(), "audio too short")

	_, err = provider.GetTranscript(ctx, "tr_missing")
	assert.ErrorIs(t, err, entities.ErrTranscriptNotFound)
}
