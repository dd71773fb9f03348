package ai

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/meeting-digest/internal/domain/entities"
	"github.com/johnquangdev/meeting-digest/internal/infrastructure/i18n"
	"github.com/johnquangdev/meeting-digest/internal/usecase/render"
	pkgai "github.com/johnquangdev/meeting-digest/pkg/ai"
)

// fakeCompleter replays scripted responses in order; the last one repeats
type fakeCompleter struct {
	mu        sync.Mutex
	responses []string
	err       error
	calls     [][]pkgai.Message
}

func newFakeCompleter(responses ...string) *fakeCompleter {
	return &fakeCompleter{responses: responses}
}

func (f *fakeCompleter) Complete(_ context.Context, messages []pkgai.Message, _ *pkgai.CompletionOptions) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, messages)
	if f.err != nil {
		return "", f.err
	}
	if len(f.responses) == 0 {
		return "", errors.New("no scripted response")
	}
	out := f.responses[0]
	if len(f.responses) > 1 {
		f.responses = f.responses[1:]
	}
	return out, nil
}

func (f *fakeCompleter) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func newTestSummarizer(t *testing.T, completer pkgai.Completer, cfg SummarizerConfig) *Summarizer {
	t.Helper()
	catalog, err := i18n.LoadCatalog()
	require.NoError(t, err)
	renderer := render.NewRenderer(catalog, entities.DefaultSummaryLimits())
	return NewSummarizer(completer, renderer, cfg, nil)
}

var sectionHeadings = []string{
	"1. Meeting Header",
	"2. Action Items",
	"3. Meeting Purpose",
	"4. Key Points",
	"5. Topics",
	"6. Path Forward",
	"7. Next Steps",
}

const aliceBobResponse = `{
  "summary": "Alice will deliver the deck on Friday and Bob will update the roadmap next week.",
  "keyPoints": ["Deck is due Friday"],
  "actionItems": ["Alice delivers the deck Friday", "Bob updates the roadmap next week"],
  "decisions": ["Ship the deck before the roadmap"],
  "topics": ["Deck", "Roadmap"],
  "templateData": {
    "meetingHeader": {"title": "Weekly sync", "parties": "Alice, Bob"},
    "actionItemsDetailed": [
      {"action": "Deliver the deck", "owner": "Alice", "dueDate": "Friday"},
      {"action": "Update the roadmap", "owner": "Bob", "dueDate": "Next week"}
    ],
    "nextSteps": {"partyA": {"name": "Alice", "steps": ["Deliver the deck"]}, "partyB": {"name": "Bob", "steps": ["Update the roadmap"]}}
  }
}`
