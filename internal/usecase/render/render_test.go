package render

import (
	"encoding/xml"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/meeting-digest/internal/domain/entities"
	"github.com/johnquangdev/meeting-digest/internal/infrastructure/i18n"
)

var sectionHeadings = []string{
	"1. Meeting Header",
	"2. Action Items",
	"3. Meeting Purpose",
	"4. Key Points",
	"5. Topics",
	"6. Path Forward",
	"7. Next Steps",
}

func newTestRenderer(t *testing.T, limits entities.SummaryLimits) *Renderer {
	t.Helper()
	catalog, err := i18n.LoadCatalog()
	require.NoError(t, err)
	return NewRenderer(catalog, limits)
}

func assertSectionsInOrder(t *testing.T, doc string, headings []string) {
	t.Helper()
	last := -1
	for _, h := range headings {
		idx := strings.Index(doc, h)
		require.NotEqual(t, -1, idx, "missing heading %q", h)
		assert.Greater(t, idx, last, "heading %q out of order", h)
		last = idx
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
		ok   bool
	}{
		{"", FormatXML, true},
		{"markdown", FormatMarkdown, true},
		{"MD", FormatMarkdown, true},
		{" xml ", FormatXML, true},
		{"plain", FormatPlain, true},
		{"text", FormatPlain, true},
		{"pdf", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseFormat(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestRender_PlaceholdersInEverySection(t *testing.T) {
	r := newTestRenderer(t, entities.DefaultSummaryLimits())

	for _, format := range []Format{FormatMarkdown, FormatXML, FormatPlain} {
		t.Run(string(format), func(t *testing.T) {
			doc := r.Render(&entities.SummaryResult{}, Options{Format: format})

			assertSectionsInOrder(t, doc, sectionHeadings)
			assert.Equal(t, 5, strings.Count(doc, "Not found"), "one per header fact")
			assert.Contains(t, doc, "Not provided")
			assert.Contains(t, doc, "Party A")
			assert.Contains(t, doc, "Party B")

			// every section after the header carries a body placeholder
			for i := 1; i < len(sectionHeadings); i++ {
				start := strings.Index(doc, sectionHeadings[i])
				end := len(doc)
				if i+1 < len(sectionHeadings) {
					end = strings.Index(doc, sectionHeadings[i+1])
				}
				assert.Contains(t, doc[start:end], "Not provided", sectionHeadings[i])
			}
		})
	}
}

func TestRender_DefaultsToXML(t *testing.T) {
	r := newTestRenderer(t, entities.DefaultSummaryLimits())
	doc := r.Render(&entities.SummaryResult{Summary: "Plan Q3"}, Options{})

	require.True(t, strings.HasPrefix(doc, xml.Header))
	var parsed struct {
		XMLName  xml.Name `xml:"meetingSummary"`
		Language string   `xml:"language,attr"`
		Sections []struct {
			Number  int    `xml:"number,attr"`
			Heading string `xml:"heading"`
			Text    string `xml:"text"`
		} `xml:"section"`
	}
	require.NoError(t, xml.Unmarshal([]byte(doc), &parsed))
	assert.Equal(t, "en", parsed.Language)
	require.Len(t, parsed.Sections, 7)
	for i, s := range parsed.Sections {
		assert.Equal(t, i+1, s.Number)
		assert.Equal(t, sectionHeadings[i], s.Heading)
	}
	assert.Equal(t, "Plan Q3", parsed.Sections[2].Text)
}

func TestRender_CapsActionItems(t *testing.T) {
	limits := entities.DefaultSummaryLimits()
	limits.ActionItems = 5
	r := newTestRenderer(t, limits)

	items := make([]string, 20)
	for i := range items {
		items[i] = fmt.Sprintf("task-%02d", i+1)
	}
	doc := r.Render(&entities.SummaryResult{ActionItems: items}, Options{Format: FormatMarkdown})

	for i := 1; i <= 5; i++ {
		assert.Contains(t, doc, fmt.Sprintf("task-%02d", i))
	}
	for i := 6; i <= 20; i++ {
		assert.NotContains(t, doc, fmt.Sprintf("task-%02d", i))
	}
}

func TestRender_SynthesizesFromFlatFields(t *testing.T) {
	r := newTestRenderer(t, entities.DefaultSummaryLimits())
	doc := r.Render(&entities.SummaryResult{
		Summary:     "Align on the Q3 launch.",
		KeyPoints:   []string{"Deck is ready"},
		ActionItems: []string{"Alice delivers the deck Friday"},
		Decisions:   []string{"Launch in July", "Freeze scope"},
		Topics:      []string{"Launch"},
	}, Options{Format: FormatMarkdown})

	assert.Contains(t, doc, "## 3. Meeting Purpose\n\nAlign on the Q3 launch.")
	assert.Contains(t, doc, "1. **Action:** Alice delivers the deck Friday")
	assert.Contains(t, doc, "1. **Key point:** Deck is ready")
	assert.Contains(t, doc, "### Launch")
	assert.Contains(t, doc, "- **Decision point:** Launch in July; Freeze scope")
}

func TestRender_TemplateDataTruncationAndPadding(t *testing.T) {
	limits := entities.SummaryLimits{ActionItems: 10, KeyPoints: 10, Topics: 1, ObservationsPerTopic: 2, NextStepsPerParty: 3}
	r := newTestRenderer(t, limits)

	doc := r.Render(&entities.SummaryResult{
		TemplateData: &entities.SummaryTemplateData{
			MeetingHeader: entities.MeetingHeader{Title: "Q3 Sync"},
			TopicsDetailed: []entities.TopicDetail{
				{Topic: "Budget", Observations: []string{"o1", "o2", "o3"}},
				{Topic: "Hiring"},
			},
			NextSteps: entities.NextSteps{
				PartyA: entities.PartySteps{Name: "Acme", Steps: []string{"a1", "a2", "a3", "a4"}},
				PartyB: entities.PartySteps{Name: "Globex", Steps: []string{"b1"}},
			},
		},
	}, Options{Format: FormatPlain})

	assert.Contains(t, doc, "Title: Q3 Sync")
	assert.Contains(t, doc, "Budget")
	assert.NotContains(t, doc, "Hiring")
	assert.Contains(t, doc, "o2")
	assert.NotContains(t, doc, "o3")
	assert.Contains(t, doc, "a3")
	assert.NotContains(t, doc, "a4")

	globex := doc[strings.Index(doc, "Globex"):]
	assert.Contains(t, globex, "1. b1")
	assert.Contains(t, globex, "2. Not provided")
	assert.NotContains(t, globex, "3. ")
}

func TestRender_LocalizedLabels(t *testing.T) {
	r := newTestRenderer(t, entities.DefaultSummaryLimits())

	vi := r.Render(&entities.SummaryResult{}, Options{Language: "vi-VN", Format: FormatMarkdown})
	assert.Contains(t, vi, "## 1. Thông tin cuộc họp")
	assert.Contains(t, vi, "Không tìm thấy")

	unknown := r.Render(&entities.SummaryResult{}, Options{Language: "fr", Format: FormatMarkdown})
	assert.Contains(t, unknown, "## 1. Meeting Header")
}

func TestRender_EscapesXML(t *testing.T) {
	r := newTestRenderer(t, entities.DefaultSummaryLimits())
	doc := r.Render(&entities.SummaryResult{Summary: `Q3 <launch> & "review"`}, Options{Format: FormatXML})

	assert.Contains(t, doc, "Q3 &lt;launch&gt; &amp; &#34;review&#34;")
}
