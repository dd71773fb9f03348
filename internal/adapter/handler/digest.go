package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-digest/errors"
	"github.com/johnquangdev/meeting-digest/internal/adapter/dto"
	"github.com/johnquangdev/meeting-digest/internal/adapter/presenter"
	aiuse "github.com/johnquangdev/meeting-digest/internal/usecase/ai"
)

// Digest handles summarize and question answering endpoints
type Digest struct {
	svc    aiuse.Service
	logger *zap.Logger
}

// NewDigestHandler creates a new digest handler
func NewDigestHandler(svc aiuse.Service, logger *zap.Logger) *Digest {
	return &Digest{svc: svc, logger: logger}
}

// bindAndValidate binds the request body and runs the echo validator
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return errors.ErrInvalidPayload()
	}
	if err := c.Validate(req); err != nil {
		return errors.ErrInvalidArgument(err.Error())
	}
	return nil
}

// Summarize renders a meeting summary from an inline transcript
// @Summary      Summarize transcript
// @Description  Summarizes cues or raw transcript text into the seven-section meeting document
// @Tags         Summaries
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      dto.SummarizeRequest    true  "Transcript and rendering options"
// @Success      200      {object}  presenter.SummaryView   "Rendered summary"
// @Failure      400      {object}  map[string]interface{}  "Empty transcript or unknown format"
// @Failure      422      {object}  map[string]interface{}  "Model output rejected"
// @Failure      502      {object}  map[string]interface{}  "Model call failed"
// @Router       /summaries [post]
func (h *Digest) Summarize(c echo.Context) error {
	var req dto.SummarizeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	resp, err := h.svc.Summarize(c.Request().Context(), aiuse.SummarizeRequest{
		Transcript: req.Transcript.ToContent(),
		Language:   req.Language,
		Format:     req.Format,
		MeetingRef: req.MeetingRef,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.Summary(resp))
}

// SummarizeTranscript summarizes a transcript held by the transcript provider
// @Summary      Summarize provider transcript
// @Description  Fetches a finished AssemblyAI transcript by ID and summarizes it
// @Tags         Summaries
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                      true   "Transcript ID"
// @Param        request  body      dto.ExternalSummaryRequest  false  "Rendering options"
// @Success      200      {object}  presenter.SummaryView       "Rendered summary"
// @Failure      404      {object}  map[string]interface{}      "Transcript unknown or no provider configured"
// @Failure      409      {object}  map[string]interface{}      "Transcript still processing"
// @Router       /transcripts/{id}/summary [post]
func (h *Digest) SummarizeTranscript(c echo.Context) error {
	var req dto.ExternalSummaryRequest
	if c.Request().ContentLength > 0 {
		if err := bindAndValidate(c, &req); err != nil {
			return HandleError(h.logger, c, err)
		}
	}

	resp, err := h.svc.SummarizeExternal(c.Request().Context(), c.Param("id"), aiuse.SummarizeRequest{
		Language:   req.Language,
		Format:     req.Format,
		MeetingRef: req.MeetingRef,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.Summary(resp))
}

// Answer answers a question from transcript excerpts
// @Summary      Ask a question
// @Description  Answers a question using the most relevant transcript cues
// @Tags         Answers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      dto.AnswerRequest       true  "Question and transcript"
// @Success      200      {object}  entities.QaResult       "Answer with citations"
// @Failure      400      {object}  map[string]interface{}  "Empty question or transcript"
// @Failure      404      {object}  map[string]interface{}  "No relevant excerpts"
// @Router       /answers [post]
func (h *Digest) Answer(c echo.Context) error {
	var req dto.AnswerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	result, err := h.svc.Answer(c.Request().Context(), aiuse.AnswerRequest{
		Question:   req.Question,
		Transcript: req.Transcript.ToContent(),
		Language:   req.Language,
		MaxCues:    req.MaxCues,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, result)
}

// GetSummary returns a stored summary
// @Summary      Get summary
// @Tags         Summaries
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string                  true  "Summary ID (UUID)"
// @Success      200  {object}  presenter.SummaryView   "Stored summary"
// @Failure      404  {object}  map[string]interface{}  "Summary not found"
// @Router       /summaries/{id} [get]
func (h *Digest) GetSummary(c echo.Context) error {
	resp, err := h.svc.GetSummary(c.Request().Context(), c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.Summary(resp))
}

// ListSummaries returns the newest summaries of a meeting
// @Summary      List summaries
// @Tags         Summaries
// @Produce      json
// @Security     BearerAuth
// @Param        meetingRef  query     string                   true   "Meeting reference"
// @Param        limit       query     int                      false  "Maximum records (1-100)"
// @Success      200         {array}   presenter.SummaryView    "Summaries, newest first"
// @Failure      400         {object}  map[string]interface{}   "Missing meetingRef"
// @Router       /summaries [get]
func (h *Digest) ListSummaries(c echo.Context) error {
	var req dto.ListSummariesRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	list, err := h.svc.ListSummaries(c.Request().Context(), req.MeetingRef, req.Limit)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.Summaries(list))
}

// Document redirects to a short-lived download link of the archived document
// @Summary      Download summary document
// @Tags         Summaries
// @Security     BearerAuth
// @Param        id   path      string                  true  "Summary ID (UUID)"
// @Success      307  "Redirect to the presigned object URL"
// @Failure      404  {object}  map[string]interface{}  "Summary or archive not found"
// @Router       /summaries/{id}/document [get]
func (h *Digest) Document(c echo.Context) error {
	url, err := h.svc.DocumentURL(c.Request().Context(), c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return c.Redirect(http.StatusTemporaryRedirect, url)
}
