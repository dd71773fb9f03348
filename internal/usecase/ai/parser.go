package ai

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/johnquangdev/meeting-digest/internal/domain/entities"
	usecaseerrors "github.com/johnquangdev/meeting-digest/internal/usecase/errors"
)

var fencedBlockRE = regexp.MustCompile("(?s)```[A-Za-z]*\\s*(.*?)```")

// Parser extracts structured results from free-form model output
type Parser struct{}

// NewParser creates a new Parser instance
func NewParser() *Parser {
	return &Parser{}
}

// ParseSummary locates the first JSON object carrying a "summary" key and
// coerces it into a SummaryResult. Malformed list elements are dropped.
func (p *Parser) ParseSummary(text string) (*entities.SummaryResult, error) {
	obj, err := locateObject(text, "summary")
	if err != nil {
		return nil, err
	}

	summary, ok := obj["summary"].(string)
	if !ok {
		return nil, usecaseerrors.InvalidRequest("summary must be a string")
	}

	result := &entities.SummaryResult{
		Summary:     summary,
		KeyPoints:   stringList(obj["keyPoints"]),
		ActionItems: stringList(obj["actionItems"]),
		Decisions:   stringList(obj["decisions"]),
		Topics:      stringList(obj["topics"]),
	}
	if td, ok := obj["templateData"].(map[string]any); ok {
		result.TemplateData = coerceTemplateData(td)
	}

	return result, nil
}

// ParseAnswer locates the first JSON object carrying an "answer" key
func (p *Parser) ParseAnswer(text string) (*entities.QaResult, error) {
	obj, err := locateObject(text, "answer")
	if err != nil {
		return nil, err
	}

	answer, ok := obj["answer"].(string)
	if !ok {
		return nil, usecaseerrors.InvalidRequest("answer must be a string")
	}

	return &entities.QaResult{
		Answer:    answer,
		Citations: stringList(obj["citations"]),
	}, nil
}

// locateObject tries fenced code blocks first, then the whole text. Every '{'
// outside an already decoded object is a candidate start; the first object
// that decodes and has key wins.
func locateObject(text, key string) (map[string]any, error) {
	candidates := make([]string, 0, 2)
	for _, m := range fencedBlockRE.FindAllStringSubmatch(text, -1) {
		candidates = append(candidates, m[1])
	}
	candidates = append(candidates, text)

	sawObject := false
	for _, candidate := range candidates {
		for i := 0; i < len(candidate); i++ {
			if candidate[i] != '{' {
				continue
			}
			var obj map[string]any
			dec := json.NewDecoder(strings.NewReader(candidate[i:]))
			if err := dec.Decode(&obj); err != nil {
				continue
			}
			sawObject = true
			if _, ok := obj[key]; ok {
				return obj, nil
			}
			// objects nested inside a decoded one are not candidates
			i += int(dec.InputOffset()) - 1
		}
	}

	if sawObject {
		return nil, usecaseerrors.InvalidRequest("model output has no %q field", key)
	}
	return nil, usecaseerrors.InvalidRequest("model output contains no JSON object")
}

func coerceTemplateData(raw map[string]any) *entities.SummaryTemplateData {
	td := &entities.SummaryTemplateData{
		MeetingPurpose: stringValue(raw["meetingPurpose"]),
	}

	header := objectValue(raw["meetingHeader"])
	td.MeetingHeader = entities.MeetingHeader{
		Title:    stringValue(header["title"]),
		Parties:  stringValue(header["parties"]),
		Date:     stringValue(header["date"]),
		Duration: stringValue(header["duration"]),
		Link:     stringValue(header["link"]),
	}

	td.ActionItemsDetailed = make([]entities.ActionItemDetail, 0)
	for _, item := range objectList(raw["actionItemsDetailed"]) {
		td.ActionItemsDetailed = append(td.ActionItemsDetailed, entities.ActionItemDetail{
			Action:  stringValue(item["action"]),
			Owner:   stringValue(item["owner"]),
			DueDate: stringValue(item["dueDate"]),
			Notes:   stringValue(item["notes"]),
		})
	}

	td.KeyPointsDetailed = make([]entities.KeyPointDetail, 0)
	for _, item := range objectList(raw["keyPointsDetailed"]) {
		td.KeyPointsDetailed = append(td.KeyPointsDetailed, entities.KeyPointDetail{
			Title:       stringValue(item["title"]),
			Explanation: stringValue(item["explanation"]),
		})
	}

	td.TopicsDetailed = make([]entities.TopicDetail, 0)
	for _, item := range objectList(raw["topicsDetailed"]) {
		td.TopicsDetailed = append(td.TopicsDetailed, entities.TopicDetail{
			Topic:            stringValue(item["topic"]),
			IssueDescription: stringValue(item["issueDescription"]),
			Observations:     stringList(item["observations"]),
			RootCause:        stringValue(item["rootCause"]),
			Impact:           stringValue(item["impact"]),
		})
	}

	path := objectValue(raw["pathForward"])
	td.PathForward = entities.PathForward{
		DefinitionOfSuccess: stringValue(path["definitionOfSuccess"]),
		AgreedNextAttempt:   stringValue(path["agreedNextAttempt"]),
		DecisionPoint:       stringValue(path["decisionPoint"]),
		CheckpointDate:      stringValue(path["checkpointDate"]),
	}

	next := objectValue(raw["nextSteps"])
	td.NextSteps = entities.NextSteps{
		PartyA: coerceParty(objectValue(next["partyA"])),
		PartyB: coerceParty(objectValue(next["partyB"])),
	}

	return td
}

func coerceParty(raw map[string]any) entities.PartySteps {
	return entities.PartySteps{
		Name:  stringValue(raw["name"]),
		Steps: stringList(raw["steps"]),
	}
}

func stringValue(v any) string {
	s, _ := v.(string)
	return s
}

// stringList keeps only the string elements of a JSON array
func stringList(v any) []string {
	out := make([]string, 0)
	arr, ok := v.([]any)
	if !ok {
		return out
	}
	for _, el := range arr {
		if s, ok := el.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func objectValue(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

func objectList(v any) []map[string]any {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(arr))
	for _, el := range arr {
		if m, ok := el.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}
