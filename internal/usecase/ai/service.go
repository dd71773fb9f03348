package ai

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/johnquangdev/meeting-digest/internal/domain/entities"
	"github.com/johnquangdev/meeting-digest/internal/domain/repositories"
	usecaseerrors "github.com/johnquangdev/meeting-digest/internal/usecase/errors"
	"github.com/johnquangdev/meeting-digest/internal/usecase/render"
)

// Cache stores rendered summaries by content hash. Get returns
// entities.ErrCacheMiss when the key is absent.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// Archiver uploads rendered documents and hands out download links for them
type Archiver interface {
	Archive(ctx context.Context, id uuid.UUID, format render.Format, document string) (string, error)
	DocumentURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// TranscriptProvider resolves a transcript held by an external service
type TranscriptProvider interface {
	GetTranscript(ctx context.Context, transcriptID string) (*entities.TranscriptContent, error)
}

// Recorder receives pipeline measurements
type Recorder interface {
	ObserveOperation(operation, outcome string, elapsed time.Duration)
	ObserveChunks(n int)
	ObserveCache(hit bool)
}

// Dependencies are the optional collaborators of the service. Nil members are skipped.
type Dependencies struct {
	Cache       Cache
	CacheTTL    time.Duration
	Repository  repositories.SummaryRepository
	Archiver    Archiver
	Transcripts TranscriptProvider
	Metrics     Recorder
	ModelName   string
}

// SummarizeRequest is one summarize call
type SummarizeRequest struct {
	Transcript entities.TranscriptContent
	Language   string
	Format     string
	MeetingRef string
}

// AnswerRequest is one question about a transcript
type AnswerRequest struct {
	Question   string
	Transcript entities.TranscriptContent
	Language   string
	MaxCues    int
}

// SummaryResponse is a rendered summary and where it was stored
type SummaryResponse struct {
	ID         string                  `json:"id"`
	Cached     bool                    `json:"cached"`
	Language   string                  `json:"language"`
	Format     string                  `json:"format"`
	ChunkCount int                     `json:"chunkCount"`
	ArchiveKey string                  `json:"archiveKey,omitempty"`
	MeetingRef string                  `json:"meetingRef,omitempty"`
	CreatedAt  time.Time               `json:"createdAt"`
	Result     *entities.SummaryResult `json:"result"`
}

// Service defines digest operations exposed to transports
type Service interface {
	Summarize(ctx context.Context, req SummarizeRequest) (*SummaryResponse, error)
	SummarizeExternal(ctx context.Context, transcriptID string, req SummarizeRequest) (*SummaryResponse, error)
	Answer(ctx context.Context, req AnswerRequest) (*entities.QaResult, error)
	GetSummary(ctx context.Context, id string) (*SummaryResponse, error)
	ListSummaries(ctx context.Context, meetingRef string, limit int) ([]*SummaryResponse, error)
	DocumentURL(ctx context.Context, id string) (string, error)
}

type digestService struct {
	summarizer *Summarizer
	qna        *QnAEngine
	deps       Dependencies
	logger     *zap.Logger
}

// NewDigestService wires the pipeline to its optional collaborators
func NewDigestService(summarizer *Summarizer, qna *QnAEngine, deps Dependencies, logger *zap.Logger) Service {
	if deps.Metrics == nil {
		deps.Metrics = noopRecorder{}
	}
	if deps.CacheTTL <= 0 {
		deps.CacheTTL = 24 * time.Hour
	}
	return &digestService{
		summarizer: summarizer,
		qna:        qna,
		deps:       deps,
		logger:     logger,
	}
}

const (
	maxListLimit       = 100
	documentURLExpiry  = 15 * time.Minute
	summaryCachePrefix = "summary:"
)

// Summarize renders the transcript, serving repeated requests from the cache.
// Cache, persistence and archive failures are logged, never returned.
func (s *digestService) Summarize(ctx context.Context, req SummarizeRequest) (resp *SummaryResponse, err error) {
	start := time.Now()
	defer func() { s.deps.Metrics.ObserveOperation("summarize", outcomeOf(err), time.Since(start)) }()

	if req.Transcript.IsEmpty() {
		return nil, usecaseerrors.InvalidRequest("transcript has neither cues nor raw text")
	}

	format := s.summarizer.cfg.DefaultFormat
	if strings.TrimSpace(req.Format) != "" {
		parsed, ok := render.ParseFormat(req.Format)
		if !ok {
			return nil, usecaseerrors.InvalidRequest("unsupported format %q", req.Format)
		}
		format = parsed
	}

	text := FlattenTranscript(&req.Transcript)
	lang := resolveLanguage(req.Language, s.summarizer.cfg.DefaultLanguage, text)
	hash := contentHash(text, lang, format)

	cacheKey := summaryCacheKey(hash, req.MeetingRef)
	if cached := s.lookup(ctx, cacheKey); cached != nil {
		return cached, nil
	}

	outcome, err := s.summarizer.SummarizeDetailed(ctx, &req.Transcript, SummaryOptions{Language: lang, Format: format})
	if err != nil {
		if s.logger != nil {
			s.logger.Error("❌ Failed to summarize transcript", zap.Error(err))
		}
		return nil, err
	}
	s.deps.Metrics.ObserveChunks(outcome.ChunkCount)

	record := entities.NewMeetingSummary(hash, lang, string(format))
	record.MeetingRef = req.MeetingRef
	record.Document = outcome.Result.Summary
	record.KeyPoints = outcome.Result.KeyPoints
	record.ActionItems = outcome.Result.ActionItems
	record.Decisions = outcome.Result.Decisions
	record.Topics = outcome.Result.Topics
	record.ChunkCount = outcome.ChunkCount
	record.ModelUsed = s.deps.ModelName
	if outcome.Result.TemplateData != nil {
		if raw, err := json.Marshal(outcome.Result.TemplateData); err == nil {
			record.TemplateData = datatypes.JSON(raw)
		}
	}

	if s.deps.Archiver != nil {
		key, err := s.deps.Archiver.Archive(ctx, record.ID, format, record.Document)
		if err != nil {
			if s.logger != nil {
				s.logger.Warn("⚠️ Failed to archive summary", zap.String("summary_id", record.ID.String()), zap.Error(err))
			}
		} else {
			record.ArchiveKey = key
		}
	}

	record.ProcessingTime = int(time.Since(start).Milliseconds())
	if s.deps.Repository != nil {
		if err := s.deps.Repository.SaveSummary(ctx, record); err != nil {
			if s.logger != nil {
				s.logger.Warn("⚠️ Failed to save summary", zap.String("summary_id", record.ID.String()), zap.Error(err))
			}
		} else if s.logger != nil {
			s.logger.Info("✅ Summary saved", zap.String("summary_id", record.ID.String()))
		}
	}

	resp = &SummaryResponse{
		ID:         record.ID.String(),
		Language:   lang,
		Format:     string(format),
		ChunkCount: outcome.ChunkCount,
		ArchiveKey: record.ArchiveKey,
		MeetingRef: record.MeetingRef,
		CreatedAt:  record.CreatedAt,
		Result:     outcome.Result,
	}
	s.store(ctx, cacheKey, resp)
	return resp, nil
}

// SummarizeExternal fetches a transcript from the configured provider and summarizes it
func (s *digestService) SummarizeExternal(ctx context.Context, transcriptID string, req SummarizeRequest) (*SummaryResponse, error) {
	if strings.TrimSpace(transcriptID) == "" {
		return nil, usecaseerrors.InvalidRequest("transcript id is required")
	}
	if s.deps.Transcripts == nil {
		return nil, usecaseerrors.NotFound("no transcript provider is configured")
	}

	content, err := s.deps.Transcripts.GetTranscript(ctx, transcriptID)
	if err != nil {
		if errors.Is(err, entities.ErrTranscriptNotFound) {
			return nil, usecaseerrors.Wrap(usecaseerrors.KindNotFound, "transcript "+transcriptID, err)
		}
		return nil, fmt.Errorf("failed to fetch transcript %s: %w", transcriptID, err)
	}

	if s.logger != nil {
		s.logger.Info("📥 Fetched external transcript",
			zap.String("transcript_id", transcriptID),
			zap.Int("cues", len(content.Cues)),
		)
	}

	req.Transcript = *content
	if req.MeetingRef == "" {
		req.MeetingRef = transcriptID
	}
	return s.Summarize(ctx, req)
}

// Answer answers a question from the transcript
func (s *digestService) Answer(ctx context.Context, req AnswerRequest) (result *entities.QaResult, err error) {
	start := time.Now()
	defer func() { s.deps.Metrics.ObserveOperation("answer", outcomeOf(err), time.Since(start)) }()

	result, err = s.qna.Answer(ctx, req.Question, &req.Transcript, QaOptions{Language: req.Language, MaxCues: req.MaxCues})
	if err != nil && s.logger != nil {
		s.logger.Warn("⚠️ Failed to answer question", zap.Error(err))
	}
	return result, err
}

// GetSummary loads a stored summary
func (s *digestService) GetSummary(ctx context.Context, id string) (*SummaryResponse, error) {
	summaryID, err := uuid.Parse(id)
	if err != nil {
		return nil, usecaseerrors.InvalidRequest("invalid summary id %q", id)
	}
	if s.deps.Repository == nil {
		return nil, usecaseerrors.NotFound("summary history is not enabled")
	}

	record, err := s.deps.Repository.GetSummaryByID(ctx, summaryID)
	if err != nil {
		if errors.Is(err, entities.ErrSummaryNotFound) {
			return nil, usecaseerrors.Wrap(usecaseerrors.KindNotFound, "summary "+id, err)
		}
		return nil, fmt.Errorf("failed to load summary: %w", err)
	}
	return recordToResponse(record), nil
}

// ListSummaries returns the newest summaries recorded for a meeting
func (s *digestService) ListSummaries(ctx context.Context, meetingRef string, limit int) ([]*SummaryResponse, error) {
	if strings.TrimSpace(meetingRef) == "" {
		return nil, usecaseerrors.InvalidRequest("meeting reference is required")
	}
	if s.deps.Repository == nil {
		return nil, usecaseerrors.NotFound("summary history is not enabled")
	}
	if limit <= 0 || limit > maxListLimit {
		limit = maxListLimit
	}

	records, err := s.deps.Repository.ListSummariesByMeetingRef(ctx, meetingRef, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list summaries: %w", err)
	}

	out := make([]*SummaryResponse, 0, len(records))
	for _, r := range records {
		out = append(out, recordToResponse(r))
	}
	return out, nil
}

// DocumentURL returns a short-lived download link for an archived summary document
func (s *digestService) DocumentURL(ctx context.Context, id string) (string, error) {
	resp, err := s.GetSummary(ctx, id)
	if err != nil {
		return "", err
	}
	if s.deps.Archiver == nil || resp.ArchiveKey == "" {
		return "", usecaseerrors.NotFound("summary %s has no archived document", id)
	}

	url, err := s.deps.Archiver.DocumentURL(ctx, resp.ArchiveKey, documentURLExpiry)
	if err != nil {
		return "", fmt.Errorf("failed to sign document url: %w", err)
	}
	return url, nil
}

func (s *digestService) lookup(ctx context.Context, key string) *SummaryResponse {
	if s.deps.Cache == nil {
		return nil
	}
	raw, err := s.deps.Cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, entities.ErrCacheMiss) && s.logger != nil {
			s.logger.Warn("⚠️ Summary cache read failed", zap.Error(err))
		}
		s.deps.Metrics.ObserveCache(false)
		return nil
	}

	var resp SummaryResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil || resp.Result == nil {
		if s.logger != nil {
			s.logger.Warn("⚠️ Discarding unreadable cache entry", zap.String("key", key))
		}
		s.deps.Metrics.ObserveCache(false)
		return nil
	}

	s.deps.Metrics.ObserveCache(true)
	resp.Cached = true
	return &resp
}

func (s *digestService) store(ctx context.Context, key string, resp *SummaryResponse) {
	if s.deps.Cache == nil {
		return
	}
	raw, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := s.deps.Cache.Set(ctx, key, string(raw), s.deps.CacheTTL); err != nil && s.logger != nil {
		s.logger.Warn("⚠️ Summary cache write failed", zap.Error(err))
	}
}

func recordToResponse(r *entities.MeetingSummary) *SummaryResponse {
	result := &entities.SummaryResult{
		Summary:     r.Document,
		KeyPoints:   r.KeyPoints,
		ActionItems: r.ActionItems,
		Decisions:   r.Decisions,
		Topics:      r.Topics,
	}
	if len(r.TemplateData) > 0 {
		var td entities.SummaryTemplateData
		if err := json.Unmarshal(r.TemplateData, &td); err == nil {
			result.TemplateData = &td
		}
	}
	return &SummaryResponse{
		ID:         r.ID.String(),
		Language:   r.Language,
		Format:     r.Format,
		ChunkCount: r.ChunkCount,
		ArchiveKey: r.ArchiveKey,
		MeetingRef: r.MeetingRef,
		CreatedAt:  r.CreatedAt,
		Result:     result,
	}
}

// contentHash keys the cache on everything that changes the rendered output
func contentHash(text, lang string, format render.Format) string {
	sum := sha256.Sum256([]byte(text + "\x00" + strings.ToLower(lang) + "\x00" + string(format)))
	return hex.EncodeToString(sum[:])
}

// summaryCacheKey scopes cached summaries to their meeting, so a new meeting ref gets its own record
func summaryCacheKey(hash, meetingRef string) string {
	if meetingRef == "" {
		return summaryCachePrefix + hash
	}
	sum := sha256.Sum256([]byte(meetingRef))
	return summaryCachePrefix + hash + ":" + hex.EncodeToString(sum[:8])
}

func outcomeOf(err error) string {
	if err == nil {
		return "ok"
	}
	if kind, ok := usecaseerrors.KindOf(err); ok {
		return kind.String()
	}
	return "error"
}

type noopRecorder struct{}

func (noopRecorder) ObserveOperation(string, string, time.Duration) {}
func (noopRecorder) ObserveChunks(int)                              {}
func (noopRecorder) ObserveCache(bool)                              {}
