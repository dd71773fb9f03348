package handler

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/meeting-digest/internal/domain/entities"
	httpmw "github.com/johnquangdev/meeting-digest/internal/infrastructure/http/middleware"
	aiuse "github.com/johnquangdev/meeting-digest/internal/usecase/ai"
	usecaseerrors "github.com/johnquangdev/meeting-digest/internal/usecase/errors"
	pkgai "github.com/johnquangdev/meeting-digest/pkg/ai"
	"github.com/johnquangdev/meeting-digest/pkg/config"
	"github.com/johnquangdev/meeting-digest/pkg/jwt"
	pkgvalidator "github.com/johnquangdev/meeting-digest/pkg/validator"
)

type fakeService struct {
	mu sync.Mutex

	summarizeErr error
	lastRequest  aiuse.SummarizeRequest

	externalErrs  []error
	externalCalls int

	answerErr error
	docURL    string
}

func (f *fakeService) Summarize(_ context.Context, req aiuse.SummarizeRequest) (*aiuse.SummaryResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastRequest = req
	if f.summarizeErr != nil {
		return nil, f.summarizeErr
	}
	return &aiuse.SummaryResponse{
		ID:         "9d3e",
		Language:   "en",
		Format:     "markdown",
		ChunkCount: 1,
		Result:     &entities.SummaryResult{Summary: "## 1. Meeting Header"},
	}, nil
}

func (f *fakeService) SummarizeExternal(_ context.Context, transcriptID string, _ aiuse.SummarizeRequest) (*aiuse.SummaryResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.externalCalls++
	if len(f.externalErrs) > 0 {
		err := f.externalErrs[0]
		f.externalErrs = f.externalErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	return &aiuse.SummaryResponse{ID: "ext-" + transcriptID, Result: &entities.SummaryResult{}}, nil
}

func (f *fakeService) Answer(_ context.Context, req aiuse.AnswerRequest) (*entities.QaResult, error) {
	if f.answerErr != nil {
		return nil, f.answerErr
	}
	return &entities.QaResult{Answer: "Bob owns it.", Citations: []string{"Bob: I'll take the budget."}}, nil
}

func (f *fakeService) GetSummary(_ context.Context, id string) (*aiuse.SummaryResponse, error) {
	if id == "missing" {
		return nil, usecaseerrors.NotFound("summary %s", id)
	}
	return &aiuse.SummaryResponse{ID: id, Result: &entities.SummaryResult{}}, nil
}

func (f *fakeService) ListSummaries(_ context.Context, meetingRef string, limit int) ([]*aiuse.SummaryResponse, error) {
	return []*aiuse.SummaryResponse{{ID: "a", MeetingRef: meetingRef}, {ID: "b", MeetingRef: meetingRef}}, nil
}

func (f *fakeService) DocumentURL(_ context.Context, id string) (string, error) {
	if f.docURL == "" {
		return "", usecaseerrors.NotFound("summary %s has no archived document", id)
	}
	return f.docURL, nil
}

func (f *fakeService) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.externalCalls
}

type envelope struct {
	Code    interface{}     `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestServer(svc aiuse.Service, secret string, auth echo.MiddlewareFunc) (*echo.Echo, *AIWebhookHandler) {
	e := echo.New()
	e.Validator = pkgvalidator.New()

	webhook := NewAIWebhookHandler(svc, secret, nil)
	webhook.retryDelay = time.Millisecond

	cfg := &config.Config{Server: config.ServerConfig{Environment: "test"}}
	NewRouter(cfg, NewDigestHandler(svc, nil), webhook, auth, nil).Setup(e)
	return e, webhook
}

func do(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestDigest_Summarize(t *testing.T) {
	svc := &fakeService{}
	e, _ := newTestServer(svc, "", nil)

	body := `{"transcript":{"cues":[{"start":"00:00:01.000","end":"00:00:02.000","speaker":"Alice","text":"Plan Q3"}]},"format":"markdown","meetingRef":"weekly"}`
	rec := do(e, http.MethodPost, "/v1/summaries", body)

	require.Equal(t, http.StatusOK, rec.Code)
	env := decode(t, rec)
	assert.Equal(t, float64(200), env.Code)
	assert.Contains(t, string(env.Data), `"document":"## 1. Meeting Header"`)

	require.Len(t, svc.lastRequest.Transcript.Cues, 1)
	assert.Equal(t, "Alice", svc.lastRequest.Transcript.Cues[0].Speaker)
	assert.Equal(t, "markdown", svc.lastRequest.Format)
	assert.Equal(t, "weekly", svc.lastRequest.MeetingRef)
}

func TestDigest_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		err      error
		wantCode int
		wantApp  string
	}{
		{
			name:     "unknown format rejected by validator",
			body:     `{"transcript":{"raw":"hi"},"format":"docx"}`,
			wantCode: http.StatusBadRequest,
			wantApp:  "INVALID_ARGUMENT",
		},
		{
			name:     "malformed json",
			body:     `{"transcript":`,
			wantCode: http.StatusBadRequest,
			wantApp:  "INVALID_PAYLOAD",
		},
		{
			name:     "invalid request kind",
			body:     `{"transcript":{}}`,
			err:      usecaseerrors.InvalidRequest("transcript has neither cues nor raw text"),
			wantCode: http.StatusBadRequest,
			wantApp:  "INVALID_REQUEST",
		},
		{
			name:     "output validation kind",
			body:     `{"transcript":{"raw":"hi"}}`,
			err:      usecaseerrors.OutputValidation("refusal"),
			wantCode: http.StatusUnprocessableEntity,
			wantApp:  "OUTPUT_VALIDATION",
		},
		{
			name:     "model failure",
			body:     `{"transcript":{"raw":"hi"}}`,
			err:      fmt.Errorf("completion failed: %w", errors.New("503")),
			wantCode: http.StatusBadGateway,
			wantApp:  "AI_ANALYSIS_FAILED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := newTestServer(&fakeService{summarizeErr: tt.err}, "", nil)
			rec := do(e, http.MethodPost, "/v1/summaries", tt.body)
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantApp, decode(t, rec).Code)
		})
	}
}

func TestDigest_SummarizeTranscript(t *testing.T) {
	svc := &fakeService{externalErrs: []error{fmt.Errorf("%w: status processing", entities.ErrTranscriptNotReady)}}
	e, _ := newTestServer(svc, "", nil)

	rec := do(e, http.MethodPost, "/v1/transcripts/tr_1/summary", "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(e, http.MethodPost, "/v1/transcripts/tr_1/summary", `{"format":"plain"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(decode(t, rec).Data), `"id":"ext-tr_1"`)
}

func TestDigest_Answer(t *testing.T) {
	e, _ := newTestServer(&fakeService{}, "", nil)

	rec := do(e, http.MethodPost, "/v1/answers", `{"question":"Who owns the budget?","transcript":{"raw":"Bob: I'll take the budget."}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(decode(t, rec).Data), "Bob owns it.")

	rec = do(e, http.MethodPost, "/v1/answers", `{"transcript":{"raw":"x"}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	e, _ = newTestServer(&fakeService{answerErr: usecaseerrors.NotFound("no relevant excerpts")}, "", nil)
	rec = do(e, http.MethodPost, "/v1/answers", `{"question":"q","transcript":{"raw":"x"}}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDigest_History(t *testing.T) {
	e, _ := newTestServer(&fakeService{docURL: "http://minio.local/summaries/a.md?sig=1"}, "", nil)

	rec := do(e, http.MethodGet, "/v1/summaries/abc", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(e, http.MethodGet, "/v1/summaries/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(e, http.MethodGet, "/v1/summaries?meetingRef=weekly&limit=5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var views []map[string]interface{}
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &views))
	assert.Len(t, views, 2)

	rec = do(e, http.MethodGet, "/v1/summaries", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(e, http.MethodGet, "/v1/summaries/abc/document", "")
	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Equal(t, "http://minio.local/summaries/a.md?sig=1", rec.Header().Get(echo.HeaderLocation))
}

func TestRouter_AuthAndHealth(t *testing.T) {
	manager := jwt.NewManager("secret", "meeting-digest", time.Hour)
	e, _ := newTestServer(&fakeService{}, "", httpmw.EchoAuth(manager))

	rec := do(e, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"environment":"test"`)

	rec = do(e, http.MethodGet, "/v1/summaries/abc", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token, err := manager.GenerateAccessToken("ops-bot", nil)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/v1/summaries/abc", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func sign(secret, body string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(body))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestAIWebhook(t *testing.T) {
	const secret = "whsec"
	body := `{"transcript_id":"tr_9","status":"completed"}`

	post := func(e *echo.Echo, body, signature string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/webhooks/assemblyai", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		req.Header.Set("x-assemblyai-signature", signature)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	t.Run("bad signature", func(t *testing.T) {
		svc := &fakeService{}
		e, hook := newTestServer(svc, secret, nil)
		rec := post(e, body, "deadbeef")
		hook.Wait()
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, 0, svc.calls())
	})

	t.Run("completed retries until the transcript is readable", func(t *testing.T) {
		svc := &fakeService{externalErrs: []error{entities.ErrTranscriptNotReady, nil}}
		e, hook := newTestServer(svc, secret, nil)
		rec := post(e, body, sign(secret, body))
		hook.Wait()
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"status":"queued"`)
		assert.Equal(t, 2, svc.calls())
	})

	t.Run("non retryable failure stops", func(t *testing.T) {
		svc := &fakeService{externalErrs: []error{usecaseerrors.NotFound("transcript tr_9")}}
		e, hook := newTestServer(svc, secret, nil)
		post(e, body, sign(secret, body))
		hook.Wait()
		assert.Equal(t, 1, svc.calls())
	})

	t.Run("model failures are not retried by the job", func(t *testing.T) {
		for _, failure := range []error{
			fmt.Errorf("failed to summarize chunk 0: %w", &pkgai.StatusError{StatusCode: http.StatusServiceUnavailable}),
			errors.New("groq: service unavailable"),
		} {
			svc := &fakeService{externalErrs: []error{failure, nil}}
			e, hook := newTestServer(svc, secret, nil)
			post(e, body, sign(secret, body))
			hook.Wait()
			assert.Equal(t, 1, svc.calls(), failure.Error())
		}
	})

	t.Run("other statuses are ignored", func(t *testing.T) {
		svc := &fakeService{}
		e, hook := newTestServer(svc, "", nil)
		errBody := `{"transcript_id":"tr_9","status":"error"}`
		rec := post(e, errBody, "")
		hook.Wait()
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"status":"ignored"`)
		assert.Equal(t, 0, svc.calls())
	})
}
