package handler

import (
	"bytes"
	"context"
	"encoding/json"
	stdErrors "errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-digest/errors"
	"github.com/johnquangdev/meeting-digest/internal/adapter/dto"
	"github.com/johnquangdev/meeting-digest/internal/domain/entities"
	aiuse "github.com/johnquangdev/meeting-digest/internal/usecase/ai"
	pkgai "github.com/johnquangdev/meeting-digest/pkg/ai"
	"github.com/johnquangdev/meeting-digest/pkg/jobcontext"
)

const (
	assemblyAIStatusCompleted = "completed"
	assemblyAIStatusError     = "error"

	webhookJobType    = "assemblyai_summary"
	webhookJobTimeout = 10 * time.Minute
)

// AIWebhookHandler handles incoming webhooks from AI providers (AssemblyAI)
type AIWebhookHandler struct {
	svc        aiuse.Service
	secret     string
	logger     *zap.Logger
	retryDelay time.Duration
	jobs       sync.WaitGroup
}

// NewAIWebhookHandler creates a new handler. An empty secret disables signature checks.
func NewAIWebhookHandler(svc aiuse.Service, secret string, logger *zap.Logger) *AIWebhookHandler {
	return &AIWebhookHandler{
		svc:        svc,
		secret:     secret,
		logger:     logger,
		retryDelay: jobcontext.DefaultBaseDelay,
	}
}

// HandleAssemblyAIWebhook receives transcript completion notices from AssemblyAI
// @Summary      AssemblyAI webhook
// @Description  Queues a summary of the finished transcript. Signed with x-assemblyai-signature when a secret is configured.
// @Tags         Webhooks
// @Accept       json
// @Produce      json
// @Param        request  body      dto.AssemblyAIWebhook   true  "Transcript status notice"
// @Success      200      {object}  map[string]interface{}  "Accepted"
// @Failure      400      {object}  map[string]interface{}  "Invalid payload"
// @Failure      401      {object}  map[string]interface{}  "Bad signature"
// @Router       /webhooks/assemblyai [post]
func (h *AIWebhookHandler) HandleAssemblyAIWebhook(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}

	if h.secret != "" {
		signature := c.Request().Header.Get("x-assemblyai-signature")
		if !pkgai.VerifyHMAC(h.secret, body, signature) {
			return HandleError(h.logger, c, errors.ErrInvalidToken())
		}
	}

	var notice dto.AssemblyAIWebhook
	if err := json.NewDecoder(bytes.NewReader(body)).Decode(&notice); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&notice); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	switch notice.Status {
	case assemblyAIStatusCompleted:
		h.enqueue(notice.TranscriptID)
		return c.JSON(http.StatusOK, map[string]interface{}{"status": "queued", "transcript_id": notice.TranscriptID})
	case assemblyAIStatusError:
		if h.logger != nil {
			h.logger.Warn("⚠️ AssemblyAI reported a failed transcript", zap.String("transcript_id", notice.TranscriptID))
		}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"status": "ignored", "transcript_id": notice.TranscriptID})
}

// Wait blocks until queued summary jobs have finished
func (h *AIWebhookHandler) Wait() {
	h.jobs.Wait()
}

func (h *AIWebhookHandler) enqueue(transcriptID string) {
	h.jobs.Add(1)
	go func() {
		defer h.jobs.Done()

		ctx, cancel := jobcontext.JobBegin(context.Background(), uuid.New(), webhookJobType, webhookJobTimeout)
		defer cancel()
		ctx = jobcontext.SetBaseDelay(ctx, h.retryDelay)

		err := jobcontext.JobEnd(ctx, func(ctx context.Context) error {
			resp, err := h.svc.SummarizeExternal(ctx, transcriptID, aiuse.SummarizeRequest{})
			if err != nil {
				// only a transcript that is still processing is retried
				return jobError{err: err, retryable: stdErrors.Is(err, entities.ErrTranscriptNotReady)}
			}
			if h.logger != nil {
				h.logger.Info("✅ Summarized transcript from webhook",
					zap.String("transcript_id", transcriptID),
					zap.String("summary_id", resp.ID),
					zap.Int("attempt", jobcontext.GetRetryAttempt(ctx)),
				)
			}
			return nil
		})
		if err != nil && h.logger != nil {
			h.logger.Error("❌ Webhook summary job failed",
				zap.String("transcript_id", transcriptID),
				zap.Error(err),
			)
		}
	}()
}

// jobError decides retries for webhook jobs, overriding whatever the wrapped error reports
type jobError struct {
	err       error
	retryable bool
}

func (e jobError) Error() string   { return e.err.Error() }
func (e jobError) Unwrap() error   { return e.err }
func (e jobError) Retryable() bool { return e.retryable }
