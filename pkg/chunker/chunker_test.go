package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimateTokens(t *testing.T) {
	assert.Equal(t, 0, EstimateTokens(""))
	assert.Equal(t, 1, EstimateTokens("abc"))
	assert.Equal(t, 1, EstimateTokens("abcd"))
	assert.Equal(t, 2, EstimateTokens("abcde"))
	assert.Equal(t, 1, EstimateTokens("ếểễ"), "runes, not bytes")
}

func TestSplit_InvalidBudget(t *testing.T) {
	for _, max := range []int{0, -5} {
		_, err := Split("some words here", max, 0)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidInput)
	}
}

func TestSplit_EmptyInput(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\t  \n"} {
		chunks, err := Split(text, 10, 2)
		require.NoError(t, err)
		assert.Empty(t, chunks)
	}
}

func TestSplit_FitsInOneChunk(t *testing.T) {
	chunks, err := Split("  alpha   beta\ngamma ", 100, 10)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "alpha   beta\ngamma", chunks[0].Text)
	assert.Equal(t, 0, chunks[0].Index)
}

func TestSplit_KeepsLineBreaks(t *testing.T) {
	text := "[Alice] I will deliver the deck on Friday.\n[Bob] I will update the roadmap next week.\n[Alice] Thanks   everyone."
	words := strings.Fields(text)

	chunks, err := Split(text, 12, 3)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)

	for _, c := range chunks {
		assert.Equal(t, words[c.StartWord:c.EndWord], strings.Fields(c.Text))
		assert.Equal(t, strings.TrimSpace(c.Text), c.Text)
		if c.EndWord-c.StartWord > 1 {
			assert.LessOrEqual(t, EstimateTokens(c.Text), 12, "budget counts the original separators")
		}
	}

	whole, err := Split(text, 1000, 0)
	require.NoError(t, err)
	require.Len(t, whole, 1)
	assert.Equal(t, text, whole[0].Text)
}

func TestSplit_OversizedWordStandsAlone(t *testing.T) {
	long := strings.Repeat("x", 40)
	chunks, err := Split("a "+long+" b", 2, 0)
	require.NoError(t, err)

	texts := make([]string, 0, len(chunks))
	for _, c := range chunks {
		texts = append(texts, c.Text)
	}
	assert.Equal(t, []string{"a", long, "b"}, texts)
}

func TestSplit_BudgetCoverageAndProgress(t *testing.T) {
	words := make([]string, 0, 300)
	for i := 0; i < 300; i++ {
		words = append(words, []string{"budget", "roadmap", "deck", "q3", "timeline", "review"}[i%6])
	}
	text := strings.Join(words, " ")

	tests := []struct {
		name    string
		max     int
		overlap int
	}{
		{"no overlap", 20, 0},
		{"small overlap", 20, 5},
		{"overlap equals budget", 20, 20},
		{"overlap beyond budget", 8, 50},
		{"tiny budget", 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks, err := Split(text, tt.max, tt.overlap)
			require.NoError(t, err)
			require.NotEmpty(t, chunks)

			assert.Equal(t, 0, chunks[0].StartWord)
			assert.Equal(t, len(words), chunks[len(chunks)-1].EndWord)

			for i, c := range chunks {
				assert.Equal(t, i, c.Index)
				assert.Equal(t, strings.Join(words[c.StartWord:c.EndWord], " "), c.Text)
				if c.EndWord-c.StartWord > 1 {
					assert.LessOrEqual(t, EstimateTokens(c.Text), tt.max)
				}
				if i > 0 {
					prev := chunks[i-1]
					assert.Greater(t, c.StartWord, prev.StartWord, "start must strictly advance")
					assert.LessOrEqual(t, c.StartWord, prev.EndWord, "no gaps between chunks")
				}
			}

			// dropping the overlapping prefix of each chunk rebuilds the input
			rebuilt := append([]string{}, words[chunks[0].StartWord:chunks[0].EndWord]...)
			for i := 1; i < len(chunks); i++ {
				rebuilt = append(rebuilt, words[chunks[i-1].EndWord:chunks[i].EndWord]...)
			}
			assert.Equal(t, text, strings.Join(rebuilt, " "))
		})
	}
}

func TestSplit_OverlapSharesWords(t *testing.T) {
	text := "one two three four five six seven eight nine ten"
	// "one two three four" is 18 runes, 5 tokens at budget 5
	chunks, err := Split(text, 5, 2)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(chunks), 2)

	first, second := chunks[0], chunks[1]
	span := first.EndWord - first.StartWord
	wantOverlap := int(2.0 / 5.0 * float64(span))
	assert.Equal(t, first.EndWord-wantOverlap, second.StartWord)
}
