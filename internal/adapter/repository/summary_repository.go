package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/johnquangdev/meeting-digest/internal/domain/entities"
	"github.com/johnquangdev/meeting-digest/internal/domain/repositories"
)

// SummaryRepository stores rendered summaries in postgres
type SummaryRepository struct {
	db *gorm.DB
}

var _ repositories.SummaryRepository = (*SummaryRepository)(nil)

// NewSummaryRepository creates a new summary repository
func NewSummaryRepository(db *gorm.DB) *SummaryRepository {
	return &SummaryRepository{db: db}
}

// SaveSummary inserts a summary record
func (r *SummaryRepository) SaveSummary(ctx context.Context, s *entities.MeetingSummary) error {
	if s == nil {
		return errors.New("summary cannot be nil")
	}
	return r.db.WithContext(ctx).Create(s).Error
}

// GetSummaryByID retrieves a summary by ID
func (r *SummaryRepository) GetSummaryByID(ctx context.Context, id uuid.UUID) (*entities.MeetingSummary, error) {
	var summary entities.MeetingSummary
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&summary).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrSummaryNotFound
		}
		return nil, err
	}
	return &summary, nil
}

// ListSummariesByMeetingRef returns the newest summaries for a meeting first
func (r *SummaryRepository) ListSummariesByMeetingRef(ctx context.Context, meetingRef string, limit int) ([]*entities.MeetingSummary, error) {
	var summaries []*entities.MeetingSummary
	if err := r.db.WithContext(ctx).
		Where("meeting_ref = ?", meetingRef).
		Order("created_at DESC").
		Limit(limit).
		Find(&summaries).Error; err != nil {
		return nil, err
	}
	return summaries, nil
}
