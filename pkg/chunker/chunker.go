// Package chunker splits long text into overlapping windows that fit a token budget.
package chunker

import (
	"errors"
	"fmt"
	"unicode"
	"unicode/utf8"
)

// ErrInvalidInput is returned when the token budget is not positive
var ErrInvalidInput = errors.New("chunker: invalid input")

// charsPerToken is the heuristic ratio used by EstimateTokens
const charsPerToken = 4

// Chunk is one window of the input.
// StartWord and EndWord are half-open offsets into the whitespace-split words.
// Text is the slice of the input from the first word to the last, separators included.
type Chunk struct {
	Index     int    `json:"index"`
	Text      string `json:"text"`
	StartWord int    `json:"startWord"`
	EndWord   int    `json:"endWord"`
}

// EstimateTokens approximates the token count of s as ceil(runes/4)
func EstimateTokens(s string) int {
	n := utf8.RuneCountInString(s)
	return (n + charsPerToken - 1) / charsPerToken
}

// word is the position of one whitespace-delimited word in the input,
// in bytes for slicing and in runes for the budget
type word struct {
	start, end         int
	runeStart, runeEnd int
}

func scanWords(text string) []word {
	var (
		words  []word
		inWord bool
		runes  int
		cur    word
	)
	for i, r := range text {
		space := unicode.IsSpace(r)
		switch {
		case !space && !inWord:
			cur = word{start: i, runeStart: runes}
			inWord = true
		case space && inWord:
			cur.end, cur.runeEnd = i, runes
			words = append(words, cur)
			inWord = false
		}
		runes++
	}
	if inWord {
		cur.end, cur.runeEnd = len(text), runes
		words = append(words, cur)
	}
	return words
}

// Split cuts text into chunks of at most maxTokens estimated tokens.
// Consecutive chunks share roughly overlapTokens/maxTokens of the previous chunk's words.
// A single word larger than the budget is emitted on its own.
func Split(text string, maxTokens, overlapTokens int) ([]Chunk, error) {
	if maxTokens <= 0 {
		return nil, fmt.Errorf("%w: maxTokens must be positive, got %d", ErrInvalidInput, maxTokens)
	}
	if overlapTokens < 0 {
		overlapTokens = 0
	}

	words := scanWords(text)
	if len(words) == 0 {
		return []Chunk{}, nil
	}

	var chunks []Chunk
	start := 0
	for start < len(words) {
		end := start + 1
		for end < len(words) {
			runes := words[end].runeEnd - words[start].runeStart
			if ceilDiv(runes, charsPerToken) > maxTokens {
				break
			}
			end++
		}

		chunks = append(chunks, Chunk{
			Index:     len(chunks),
			Text:      text[words[start].start:words[end-1].end],
			StartWord: start,
			EndWord:   end,
		})

		if end >= len(words) {
			break
		}

		span := end - start
		overlap := int(float64(overlapTokens) / float64(maxTokens) * float64(span))
		next := end - overlap
		if next <= start {
			next = start + 1
		}
		start = next
	}

	return chunks, nil
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
