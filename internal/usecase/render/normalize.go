package render

import (
	"strings"

	"github.com/johnquangdev/meeting-digest/internal/domain/entities"
)

const minStepsPerParty = 2

// normalize builds a fully populated template: synthesized from the flat
// fields when the model sent none, truncated to limits, blanks replaced.
func normalize(result *entities.SummaryResult, limits entities.SummaryLimits, lb labelSet) entities.SummaryTemplateData {
	if result == nil {
		result = &entities.SummaryResult{}
	}

	var src entities.SummaryTemplateData
	if result.TemplateData != nil {
		src = *result.TemplateData
	} else {
		src = synthesize(result)
	}

	notFound := lb.get("notFound")
	notProvided := lb.get("notProvided")

	out := entities.SummaryTemplateData{
		MeetingHeader: entities.MeetingHeader{
			Title:    orDefault(src.MeetingHeader.Title, notFound),
			Parties:  orDefault(src.MeetingHeader.Parties, notFound),
			Date:     orDefault(src.MeetingHeader.Date, notFound),
			Duration: orDefault(src.MeetingHeader.Duration, notFound),
			Link:     orDefault(src.MeetingHeader.Link, notFound),
		},
		MeetingPurpose: orDefault(src.MeetingPurpose, notProvided),
		PathForward: entities.PathForward{
			DefinitionOfSuccess: orDefault(src.PathForward.DefinitionOfSuccess, notProvided),
			AgreedNextAttempt:   orDefault(src.PathForward.AgreedNextAttempt, notProvided),
			DecisionPoint:       orDefault(src.PathForward.DecisionPoint, notProvided),
			CheckpointDate:      orDefault(src.PathForward.CheckpointDate, notProvided),
		},
	}

	for _, a := range truncate(src.ActionItemsDetailed, limits.ActionItems) {
		out.ActionItemsDetailed = append(out.ActionItemsDetailed, entities.ActionItemDetail{
			Action:  orDefault(a.Action, notProvided),
			Owner:   orDefault(a.Owner, notProvided),
			DueDate: orDefault(a.DueDate, notProvided),
			Notes:   orDefault(a.Notes, notProvided),
		})
	}
	if len(out.ActionItemsDetailed) == 0 {
		out.ActionItemsDetailed = []entities.ActionItemDetail{{
			Action: notProvided, Owner: notProvided, DueDate: notProvided, Notes: notProvided,
		}}
	}

	for _, k := range truncate(src.KeyPointsDetailed, limits.KeyPoints) {
		out.KeyPointsDetailed = append(out.KeyPointsDetailed, entities.KeyPointDetail{
			Title:       orDefault(k.Title, notProvided),
			Explanation: orDefault(k.Explanation, notProvided),
		})
	}
	if len(out.KeyPointsDetailed) == 0 {
		out.KeyPointsDetailed = []entities.KeyPointDetail{{Title: notProvided, Explanation: notProvided}}
	}

	for _, t := range truncate(src.TopicsDetailed, limits.Topics) {
		observations := fillList(truncate(t.Observations, limits.ObservationsPerTopic), notProvided)
		if len(observations) == 0 {
			observations = []string{notProvided}
		}
		out.TopicsDetailed = append(out.TopicsDetailed, entities.TopicDetail{
			Topic:            orDefault(t.Topic, notProvided),
			IssueDescription: orDefault(t.IssueDescription, notProvided),
			Observations:     observations,
			RootCause:        orDefault(t.RootCause, notProvided),
			Impact:           orDefault(t.Impact, notProvided),
		})
	}
	if len(out.TopicsDetailed) == 0 {
		out.TopicsDetailed = []entities.TopicDetail{{
			Topic: notProvided, IssueDescription: notProvided, Observations: []string{notProvided},
			RootCause: notProvided, Impact: notProvided,
		}}
	}

	out.NextSteps = entities.NextSteps{
		PartyA: normalizeParty(src.NextSteps.PartyA, lb.get("partyA"), notProvided, limits.NextStepsPerParty),
		PartyB: normalizeParty(src.NextSteps.PartyB, lb.get("partyB"), notProvided, limits.NextStepsPerParty),
	}

	return out
}

// synthesize maps the flat result onto the template shape
func synthesize(result *entities.SummaryResult) entities.SummaryTemplateData {
	td := entities.SummaryTemplateData{
		MeetingPurpose: result.Summary,
	}
	for _, a := range result.ActionItems {
		td.ActionItemsDetailed = append(td.ActionItemsDetailed, entities.ActionItemDetail{Action: a})
	}
	for _, k := range result.KeyPoints {
		td.KeyPointsDetailed = append(td.KeyPointsDetailed, entities.KeyPointDetail{Title: k})
	}
	for _, t := range result.Topics {
		td.TopicsDetailed = append(td.TopicsDetailed, entities.TopicDetail{Topic: t})
	}
	td.PathForward.DecisionPoint = strings.Join(nonBlank(result.Decisions), "; ")
	return td
}

func normalizeParty(p entities.PartySteps, defaultName, notProvided string, limit int) entities.PartySteps {
	steps := fillList(p.Steps, notProvided)
	for len(steps) < minStepsPerParty {
		steps = append(steps, notProvided)
	}
	return entities.PartySteps{
		Name:  orDefault(p.Name, defaultName),
		Steps: truncate(steps, limit),
	}
}

func truncate[T any](items []T, limit int) []T {
	if limit >= 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}

func fillList(items []string, placeholder string) []string {
	out := make([]string, 0, len(items))
	for _, s := range items {
		out = append(out, orDefault(s, placeholder))
	}
	return out
}

func nonBlank(items []string) []string {
	out := make([]string, 0, len(items))
	for _, s := range items {
		if strings.TrimSpace(s) != "" {
			out = append(out, strings.TrimSpace(s))
		}
	}
	return out
}

func orDefault(s, placeholder string) string {
	if strings.TrimSpace(s) == "" {
		return placeholder
	}
	return strings.TrimSpace(s)
}
