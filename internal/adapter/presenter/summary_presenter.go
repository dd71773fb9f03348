package presenter

import (
	"time"

	"github.com/johnquangdev/meeting-digest/internal/domain/entities"
	aiuse "github.com/johnquangdev/meeting-digest/internal/usecase/ai"
)

// SummaryView is the API shape of a rendered summary
type SummaryView struct {
	ID           string                        `json:"id"`
	Cached       bool                          `json:"cached"`
	Language     string                        `json:"language"`
	Format       string                        `json:"format"`
	ChunkCount   int                           `json:"chunkCount"`
	MeetingRef   string                        `json:"meetingRef,omitempty"`
	Document     string                        `json:"document"`
	KeyPoints    []string                      `json:"keyPoints"`
	ActionItems  []string                      `json:"actionItems"`
	Decisions    []string                      `json:"decisions"`
	Topics       []string                      `json:"topics"`
	TemplateData *entities.SummaryTemplateData `json:"templateData,omitempty"`
	DocumentURL  string                        `json:"documentUrl,omitempty"`
	CreatedAt    time.Time                     `json:"createdAt"`
}

// Summary converts a service response to its API view. The archive key stays
// internal; archived documents are reachable through the document endpoint.
func Summary(resp *aiuse.SummaryResponse) *SummaryView {
	if resp == nil {
		return nil
	}

	view := &SummaryView{
		ID:         resp.ID,
		Cached:     resp.Cached,
		Language:   resp.Language,
		Format:     resp.Format,
		ChunkCount: resp.ChunkCount,
		MeetingRef: resp.MeetingRef,
		CreatedAt:  resp.CreatedAt,
	}

	if r := resp.Result; r != nil {
		view.Document = r.Summary
		view.KeyPoints = nonNil(r.KeyPoints)
		view.ActionItems = nonNil(r.ActionItems)
		view.Decisions = nonNil(r.Decisions)
		view.Topics = nonNil(r.Topics)
		view.TemplateData = r.TemplateData
	}

	if resp.ArchiveKey != "" && resp.ID != "" {
		view.DocumentURL = "/v1/summaries/" + resp.ID + "/document"
	}

	return view
}

// Summaries converts a list of service responses
func Summaries(list []*aiuse.SummaryResponse) []*SummaryView {
	views := make([]*SummaryView, 0, len(list))
	for _, resp := range list {
		views = append(views, Summary(resp))
	}
	return views
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
