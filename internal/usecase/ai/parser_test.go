package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	usecaseerrors "github.com/johnquangdev/meeting-digest/internal/usecase/errors"
)

func TestParseSummary_Tolerance(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"bare object", `{"summary":"s","keyPoints":["k"]}`},
		{"json fence", "```json\n{\"summary\":\"s\",\"keyPoints\":[\"k\"]}\n```"},
		{"plain fence with prose", "Here you go:\n```\n{\"summary\":\"s\",\"keyPoints\":[\"k\"]}\n```\nThanks!"},
		{"prose around object", `Sure! {"summary":"s","keyPoints":["k"]} Hope this helps {`},
		{"stray brace first", `note {not json} then {"summary":"s","keyPoints":["k"]}`},
		{"later sibling object", `{"meta": {"summary": "inner"}} {"summary":"s","keyPoints":["k"]}`},
	}

	p := NewParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.ParseSummary(tt.in)
			require.NoError(t, err)
			assert.Equal(t, "s", got.Summary)
			assert.Equal(t, []string{"k"}, got.KeyPoints)
			assert.Equal(t, []string{}, got.ActionItems)
			assert.Nil(t, got.TemplateData)
		})
	}
}

func TestParseSummary_FencedMatchesBare(t *testing.T) {
	p := NewParser()
	bare := `{"summary":"Budget approved","topics":["Budget"],"decisions":["Ship"]}`

	want, err := p.ParseSummary(bare)
	require.NoError(t, err)
	got, err := p.ParseSummary("```json\n" + bare + "\n```")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestParseSummary_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"no json", "I could not produce a summary."},
		{"truncated", `{"summary": "cut off`},
		{"summary not a string", `{"summary": 42}`},
		{"missing summary", `{"answer": "x"}`},
		{"nested summary is not promoted", `{"note": {"summary": "inner"}}`},
		{"nested summary in fence", "```json\n{\"data\": {\"summary\": \"inner\"}}\n```"},
	}

	p := NewParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.ParseSummary(tt.in)
			require.Error(t, err)
			assert.True(t, usecaseerrors.Is(err, usecaseerrors.KindInvalidRequest))
		})
	}
}

func TestParseSummary_CoercesLists(t *testing.T) {
	p := NewParser()
	got, err := p.ParseSummary(`{
		"summary": "s",
		"keyPoints": ["a", 1, null, "b", {"x": 1}],
		"actionItems": "not a list",
		"templateData": {
			"meetingHeader": {"title": "Sync", "date": 20240501},
			"actionItemsDetailed": [{"action": "Send deck", "owner": "Alice"}, "junk"],
			"topicsDetailed": [{"topic": "Budget", "observations": ["o1", 2]}],
			"nextSteps": {"partyA": {"name": "Acme", "steps": ["s1", false]}}
		}
	}`)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, got.KeyPoints)
	assert.Equal(t, []string{}, got.ActionItems)

	td := got.TemplateData
	require.NotNil(t, td)
	assert.Equal(t, "Sync", td.MeetingHeader.Title)
	assert.Equal(t, "", td.MeetingHeader.Date)
	require.Len(t, td.ActionItemsDetailed, 1)
	assert.Equal(t, "Alice", td.ActionItemsDetailed[0].Owner)
	require.Len(t, td.TopicsDetailed, 1)
	assert.Equal(t, []string{"o1"}, td.TopicsDetailed[0].Observations)
	assert.Equal(t, "Acme", td.NextSteps.PartyA.Name)
	assert.Equal(t, []string{"s1"}, td.NextSteps.PartyA.Steps)
	assert.Equal(t, []string{}, td.NextSteps.PartyB.Steps)
}

func TestParseAnswer(t *testing.T) {
	p := NewParser()

	got, err := p.ParseAnswer("```json\n{\"answer\":\"Yes\",\"citations\":[\"[00:01 - 00:02] Bob: yes\", 3]}\n```")
	require.NoError(t, err)
	assert.Equal(t, "Yes", got.Answer)
	assert.Equal(t, []string{"[00:01 - 00:02] Bob: yes"}, got.Citations)

	_, err = p.ParseAnswer(`{"answer": ["Yes"]}`)
	assert.True(t, usecaseerrors.Is(err, usecaseerrors.KindInvalidRequest))
}
