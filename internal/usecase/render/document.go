package render

import (
	"fmt"

	"github.com/johnquangdev/meeting-digest/internal/domain/entities"
)

type field struct {
	Key   string
	Label string
	Value string
}

type list struct {
	Key     string
	Label   string
	Entries []string
}

// item is one numbered entry, or a titled block when Title is set
type item struct {
	Title  string
	Fields []field
	Lists  []list
}

type section struct {
	Number  int
	Key     string
	Heading string
	Fields  []field
	Text    string
	Items   []item
}

type document struct {
	Title    string
	Language string
	Sections []section
}

func buildDocument(td entities.SummaryTemplateData, lb labelSet, language string) document {
	f := func(key, value string) field {
		return field{Key: key, Label: lb.get(key), Value: value}
	}

	header := section{
		Key: "meetingHeader",
		Fields: []field{
			f("title", td.MeetingHeader.Title),
			f("parties", td.MeetingHeader.Parties),
			f("date", td.MeetingHeader.Date),
			f("duration", td.MeetingHeader.Duration),
			f("link", td.MeetingHeader.Link),
		},
	}

	actions := section{Key: "actionItems"}
	for _, a := range td.ActionItemsDetailed {
		actions.Items = append(actions.Items, item{Fields: []field{
			f("action", a.Action),
			f("owner", a.Owner),
			f("dueDate", a.DueDate),
			f("notes", a.Notes),
		}})
	}

	purpose := section{Key: "meetingPurpose", Text: td.MeetingPurpose}

	keyPoints := section{Key: "keyPoints"}
	for _, k := range td.KeyPointsDetailed {
		keyPoints.Items = append(keyPoints.Items, item{Fields: []field{
			f("keyPoint", k.Title),
			f("explanation", k.Explanation),
		}})
	}

	topics := section{Key: "topics"}
	for _, t := range td.TopicsDetailed {
		topics.Items = append(topics.Items, item{
			Title: t.Topic,
			Fields: []field{
				f("issueDescription", t.IssueDescription),
				f("rootCause", t.RootCause),
				f("impact", t.Impact),
			},
			Lists: []list{{Key: "observations", Label: lb.get("observations"), Entries: t.Observations}},
		})
	}

	path := section{
		Key: "pathForward",
		Fields: []field{
			f("definitionOfSuccess", td.PathForward.DefinitionOfSuccess),
			f("agreedNextAttempt", td.PathForward.AgreedNextAttempt),
			f("decisionPoint", td.PathForward.DecisionPoint),
			f("checkpointDate", td.PathForward.CheckpointDate),
		},
	}

	next := section{Key: "nextSteps"}
	for _, p := range []entities.PartySteps{td.NextSteps.PartyA, td.NextSteps.PartyB} {
		next.Items = append(next.Items, item{
			Title: p.Name,
			Lists: []list{{Key: "steps", Label: lb.get("steps"), Entries: p.Steps}},
		})
	}

	sections := []section{header, actions, purpose, keyPoints, topics, path, next}
	for i := range sections {
		sections[i].Number = i + 1
		sections[i].Heading = fmt.Sprintf("%d. %s", i+1, lb.get("section."+sections[i].Key))
	}

	return document{
		Title:    lb.get("documentTitle"),
		Language: language,
		Sections: sections,
	}
}
