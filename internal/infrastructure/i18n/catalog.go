// Package i18n serves the localized labels used by the summary renderer.
package i18n

import (
	"embed"
	"fmt"
	"path"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var localeFS embed.FS

// DefaultLanguage backs every lookup that the requested language cannot serve
const DefaultLanguage = "en"

// Catalog holds one merged label map per supported language.
// It is built once and never mutated, so lookups need no locking.
type Catalog struct {
	merged  map[string]map[string]string
	matcher language.Matcher
	tags    []language.Tag
}

// LoadCatalog parses the embedded locale files
func LoadCatalog() (*Catalog, error) {
	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("failed to read locales: %w", err)
	}

	raw := make(map[string]map[string]string, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".yaml" {
			continue
		}
		b, err := localeFS.ReadFile(path.Join("locales", entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", entry.Name(), err)
		}
		labels := make(map[string]string)
		if err := yaml.Unmarshal(b, &labels); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", entry.Name(), err)
		}
		raw[strings.TrimSuffix(entry.Name(), ".yaml")] = labels
	}

	return newCatalog(raw)
}

func newCatalog(raw map[string]map[string]string) (*Catalog, error) {
	base, ok := raw[DefaultLanguage]
	if !ok {
		return nil, fmt.Errorf("default locale %q is missing", DefaultLanguage)
	}

	c := &Catalog{merged: make(map[string]map[string]string, len(raw))}

	// default first so the matcher falls back to it
	c.tags = append(c.tags, language.Make(DefaultLanguage))
	for code, labels := range raw {
		merged := make(map[string]string, len(base))
		for k, v := range base {
			merged[k] = v
		}
		for k, v := range labels {
			if strings.TrimSpace(v) != "" {
				merged[k] = v
			}
		}
		c.merged[code] = merged
		if code != DefaultLanguage {
			c.tags = append(c.tags, language.Make(code))
		}
	}
	c.matcher = language.NewMatcher(c.tags)

	return c, nil
}

// Labels returns the label map for lang, e.g. "vi", "es-MX" or "en-US".
// Unknown languages get the default catalog. The returned map must not be modified.
func (c *Catalog) Labels(lang string) map[string]string {
	return c.merged[c.Resolve(lang)]
}

// Resolve maps a requested language onto a supported catalog code
func (c *Catalog) Resolve(lang string) string {
	lang = strings.TrimSpace(lang)
	if lang == "" {
		return DefaultLanguage
	}
	if _, ok := c.merged[strings.ToLower(lang)]; ok {
		return strings.ToLower(lang)
	}

	tag, err := language.Parse(lang)
	if err != nil {
		return DefaultLanguage
	}
	_, idx, confidence := c.matcher.Match(tag)
	if confidence == language.No {
		return DefaultLanguage
	}
	base, _ := c.tags[idx].Base()
	if _, ok := c.merged[base.String()]; ok {
		return base.String()
	}
	return DefaultLanguage
}

// Languages lists the supported catalog codes
func (c *Catalog) Languages() []string {
	out := make([]string, 0, len(c.tags))
	for _, t := range c.tags {
		b, _ := t.Base()
		out = append(out, b.String())
	}
	return out
}
