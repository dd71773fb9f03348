package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// MeetingSummary is the persisted record of a rendered summary
type MeetingSummary struct {
	ID             uuid.UUID      `json:"id" gorm:"type:uuid;primary_key"`
	MeetingRef     string         `json:"meeting_ref,omitempty" gorm:"type:varchar(255);index"`
	ContentHash    string         `json:"content_hash" gorm:"type:char(64);index"`
	Language       string         `json:"language" gorm:"type:varchar(20)"`
	Format         string         `json:"format" gorm:"type:varchar(16)"`
	Document       string         `json:"document" gorm:"type:text"`
	KeyPoints      []string       `json:"key_points" gorm:"type:jsonb;serializer:json"`
	ActionItems    []string       `json:"action_items" gorm:"type:jsonb;serializer:json"`
	Decisions      []string       `json:"decisions" gorm:"type:jsonb;serializer:json"`
	Topics         []string       `json:"topics" gorm:"type:jsonb;serializer:json"`
	TemplateData   datatypes.JSON `json:"template_data,omitempty" gorm:"type:jsonb"`
	ChunkCount     int            `json:"chunk_count"`
	ModelUsed      string         `json:"model_used,omitempty" gorm:"type:varchar(100)"`
	ArchiveKey     string         `json:"archive_key,omitempty" gorm:"type:varchar(255)"`
	ProcessingTime int            `json:"processing_time"` // in milliseconds
	CreatedAt      time.Time      `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for GORM
func (MeetingSummary) TableName() string {
	return "meeting_summaries"
}

// NewMeetingSummary creates a record for a freshly rendered summary
func NewMeetingSummary(contentHash, language, format string) *MeetingSummary {
	return &MeetingSummary{
		ID:          uuid.New(),
		ContentHash: contentHash,
		Language:    language,
		Format:      format,
		CreatedAt:   time.Now(),
	}
}
