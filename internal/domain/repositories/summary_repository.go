package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/johnquangdev/meeting-digest/internal/domain/entities"
)

// SummaryRepository persists rendered summaries
type SummaryRepository interface {
	SaveSummary(ctx context.Context, s *entities.MeetingSummary) error
	// GetSummaryByID returns entities.ErrSummaryNotFound for unknown ids
	GetSummaryByID(ctx context.Context, id uuid.UUID) (*entities.MeetingSummary, error)
	ListSummariesByMeetingRef(ctx context.Context, meetingRef string, limit int) ([]*entities.MeetingSummary, error)
}
