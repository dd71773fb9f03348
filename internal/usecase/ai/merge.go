package ai

import (
	"strings"

	"github.com/johnquangdev/meeting-digest/internal/domain/entities"
)

// MergeResults folds per-chunk results, in chunk order, into one result.
// Scalars keep the first non-blank value; lists concatenate; topics are
// de-duplicated; detailed topics with the same trimmed name are combined.
func MergeResults(parts []*entities.SummaryResult) *entities.SummaryResult {
	merged := &entities.SummaryResult{
		KeyPoints:   make([]string, 0),
		ActionItems: make([]string, 0),
		Decisions:   make([]string, 0),
		Topics:      make([]string, 0),
	}
	if len(parts) == 0 {
		return merged
	}
	if len(parts) == 1 && parts[0] != nil {
		return parts[0]
	}

	summaries := make([]string, 0, len(parts))
	seenTopics := make(map[string]struct{})
	var templates []*entities.SummaryTemplateData

	for _, part := range parts {
		if part == nil {
			continue
		}
		if strings.TrimSpace(part.Summary) != "" {
			summaries = append(summaries, strings.TrimSpace(part.Summary))
		}
		merged.KeyPoints = append(merged.KeyPoints, part.KeyPoints...)
		merged.ActionItems = append(merged.ActionItems, part.ActionItems...)
		merged.Decisions = append(merged.Decisions, part.Decisions...)
		for _, topic := range part.Topics {
			if _, ok := seenTopics[topic]; ok {
				continue
			}
			seenTopics[topic] = struct{}{}
			merged.Topics = append(merged.Topics, topic)
		}
		if part.TemplateData != nil {
			templates = append(templates, part.TemplateData)
		}
	}

	merged.Summary = strings.Join(summaries, " ")
	if len(templates) > 0 {
		merged.TemplateData = mergeTemplateData(templates)
	}
	return merged
}

func mergeTemplateData(parts []*entities.SummaryTemplateData) *entities.SummaryTemplateData {
	out := &entities.SummaryTemplateData{
		ActionItemsDetailed: make([]entities.ActionItemDetail, 0),
		KeyPointsDetailed:   make([]entities.KeyPointDetail, 0),
		TopicsDetailed:      make([]entities.TopicDetail, 0),
	}
	out.NextSteps.PartyA.Steps = make([]string, 0)
	out.NextSteps.PartyB.Steps = make([]string, 0)

	// index into out.TopicsDetailed by trimmed topic name
	topicIndex := make(map[string]int)

	for _, td := range parts {
		h := &out.MeetingHeader
		h.Title = firstNonBlank(h.Title, td.MeetingHeader.Title)
		h.Parties = firstNonBlank(h.Parties, td.MeetingHeader.Parties)
		h.Date = firstNonBlank(h.Date, td.MeetingHeader.Date)
		h.Duration = firstNonBlank(h.Duration, td.MeetingHeader.Duration)
		h.Link = firstNonBlank(h.Link, td.MeetingHeader.Link)

		out.ActionItemsDetailed = append(out.ActionItemsDetailed, td.ActionItemsDetailed...)
		out.MeetingPurpose = firstNonBlank(out.MeetingPurpose, td.MeetingPurpose)
		out.KeyPointsDetailed = append(out.KeyPointsDetailed, td.KeyPointsDetailed...)

		for _, topic := range td.TopicsDetailed {
			key := strings.TrimSpace(topic.Topic)
			if key == "" {
				out.TopicsDetailed = append(out.TopicsDetailed, copyTopic(topic))
				continue
			}
			idx, ok := topicIndex[key]
			if !ok {
				topicIndex[key] = len(out.TopicsDetailed)
				out.TopicsDetailed = append(out.TopicsDetailed, copyTopic(topic))
				continue
			}
			existing := &out.TopicsDetailed[idx]
			existing.IssueDescription = firstNonBlank(existing.IssueDescription, topic.IssueDescription)
			existing.RootCause = firstNonBlank(existing.RootCause, topic.RootCause)
			existing.Impact = firstNonBlank(existing.Impact, topic.Impact)
			existing.Observations = append(existing.Observations, topic.Observations...)
		}

		p := &out.PathForward
		p.DefinitionOfSuccess = firstNonBlank(p.DefinitionOfSuccess, td.PathForward.DefinitionOfSuccess)
		p.AgreedNextAttempt = firstNonBlank(p.AgreedNextAttempt, td.PathForward.AgreedNextAttempt)
		p.DecisionPoint = firstNonBlank(p.DecisionPoint, td.PathForward.DecisionPoint)
		p.CheckpointDate = firstNonBlank(p.CheckpointDate, td.PathForward.CheckpointDate)

		mergeParty(&out.NextSteps.PartyA, td.NextSteps.PartyA)
		mergeParty(&out.NextSteps.PartyB, td.NextSteps.PartyB)
	}

	return out
}

func mergeParty(dst *entities.PartySteps, src entities.PartySteps) {
	dst.Name = firstNonBlank(dst.Name, src.Name)
	dst.Steps = append(dst.Steps, src.Steps...)
}

// copyTopic gives the merged topic its own observations slice
func copyTopic(t entities.TopicDetail) entities.TopicDetail {
	t.Observations = append(make([]string, 0, len(t.Observations)), t.Observations...)
	return t
}

func firstNonBlank(current, candidate string) string {
	if strings.TrimSpace(current) != "" {
		return current
	}
	if strings.TrimSpace(candidate) != "" {
		return candidate
	}
	return current
}
