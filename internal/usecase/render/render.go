// Package render turns a SummaryResult into a seven-section meeting document.
package render

import (
	"strings"

	"github.com/johnquangdev/meeting-digest/internal/domain/entities"
)

// Format selects the output syntax
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatXML      Format = "xml"
	FormatPlain    Format = "plain"

	DefaultFormat   = FormatXML
	DefaultLanguage = "en"
)

// ParseFormat maps a user supplied name onto a Format.
// An empty name yields DefaultFormat.
func ParseFormat(name string) (Format, bool) {
	switch Format(strings.ToLower(strings.TrimSpace(name))) {
	case "":
		return DefaultFormat, true
	case FormatMarkdown, "md":
		return FormatMarkdown, true
	case FormatXML:
		return FormatXML, true
	case FormatPlain, "text", "txt":
		return FormatPlain, true
	default:
		return "", false
	}
}

// Extension is the file extension used when archiving a rendered document
func (f Format) Extension() string {
	switch f {
	case FormatMarkdown:
		return "md"
	case FormatPlain:
		return "txt"
	default:
		return "xml"
	}
}

// ContentType is the MIME type of a rendered document
func (f Format) ContentType() string {
	switch f {
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case FormatPlain:
		return "text/plain; charset=utf-8"
	default:
		return "application/xml; charset=utf-8"
	}
}

// LabelProvider resolves the localized label catalog for a language.
// Implementations fall back to the default language for missing keys.
type LabelProvider interface {
	Labels(language string) map[string]string
}

// Options controls a single Render call
type Options struct {
	Language string
	Format   Format
}

// Renderer produces meeting documents. It is safe for concurrent use.
type Renderer struct {
	labels LabelProvider
	limits entities.SummaryLimits
}

// NewRenderer creates a renderer bound to a label source and list limits
// Zero limits fall back to entities.DefaultSummaryLimits.
func NewRenderer(labels LabelProvider, limits entities.SummaryLimits) *Renderer {
	defaults := entities.DefaultSummaryLimits()
	if limits.ActionItems <= 0 {
		limits.ActionItems = defaults.ActionItems
	}
	if limits.KeyPoints <= 0 {
		limits.KeyPoints = defaults.KeyPoints
	}
	if limits.Topics <= 0 {
		limits.Topics = defaults.Topics
	}
	if limits.ObservationsPerTopic <= 0 {
		limits.ObservationsPerTopic = defaults.ObservationsPerTopic
	}
	if limits.NextStepsPerParty <= 0 {
		limits.NextStepsPerParty = defaults.NextStepsPerParty
	}
	return &Renderer{labels: labels, limits: limits}
}

// Render formats result. The seven sections are always present, in order,
// with localized placeholders wherever the result has no content.
func (r *Renderer) Render(result *entities.SummaryResult, opts Options) string {
	language := opts.Language
	if strings.TrimSpace(language) == "" {
		language = DefaultLanguage
	}
	lb := labelSet(r.labels.Labels(language))

	data := normalize(result, r.limits, lb)
	doc := buildDocument(data, lb, language)

	switch opts.Format {
	case FormatMarkdown:
		return writeMarkdown(doc)
	case FormatPlain:
		return writePlain(doc)
	default:
		return writeXML(doc)
	}
}

// labelSet returns the key itself for labels missing from every catalog
type labelSet map[string]string

func (l labelSet) get(key string) string {
	if v, ok := l[key]; ok && v != "" {
		return v
	}
	return key
}
