package ai

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/johnquangdev/meeting-digest/internal/domain/entities"
	usecaseerrors "github.com/johnquangdev/meeting-digest/internal/usecase/errors"
)

type redactionRule struct {
	name        string
	pattern     *regexp.Regexp
	replacement string
	// accept filters candidate matches; nil accepts all
	accept func(match string) bool
}

var (
	emailRule = redactionRule{
		name:        "email",
		pattern:     regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`),
		replacement: "[redacted-email]",
	}
	phoneRule = redactionRule{
		name:        "phone",
		pattern:     regexp.MustCompile(`(?:\+\d{1,3}[\s.\-]?|\b1[\s.\-])?(?:\(\d{2,4}\)[\s.\-]?|\b\d{2,4}[\s.\-])\d{3,4}[\s.\-]?\d{3,4}\b|\b\d{3}[\s.\-]\d{4}\b`),
		replacement: "[redacted-phone]",
		accept:      isPhoneShaped,
	}
	ssnRule = redactionRule{
		name:        "ssn",
		pattern:     regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`),
		replacement: "[redacted-ssn]",
	}
	bearerRule = redactionRule{
		name:        "bearer",
		pattern:     regexp.MustCompile(`(?i)\bBearer\s+[A-Za-z0-9._~+/=\-]+`),
		replacement: "[redacted-token]",
	}
	urlRule = redactionRule{
		name:        "url",
		pattern:     regexp.MustCompile(`\bhttps?://[^\s<>"'\])]+`),
		replacement: "[redacted-url]",
	}

	// outputRules run in order over model output
	outputRules = []redactionRule{emailRule, phoneRule, ssnRule, bearerRule}
	// logRules additionally strip URLs before text reaches the logs
	logRules = []redactionRule{emailRule, phoneRule, ssnRule, bearerRule, urlRule}

	ssnShapeRE = regexp.MustCompile(`^\d{3}-\d{2}-\d{4}$`)
)

var refusalPhrases = []string{
	"i can't access the transcript",
	"i cannot access the transcript",
	"i don't have access to the transcript",
	"i do not have access to the transcript",
	"as an ai",
	"as a language model",
}

// refusalPatterns match refusalPhrases as whole words, so "as an airline" is not a refusal
var refusalPatterns = compilePhrases(refusalPhrases)

func compilePhrases(phrases []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(phrases))
	for _, phrase := range phrases {
		out = append(out, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(phrase)+`\b`))
	}
	return out
}

func isPhoneShaped(match string) bool {
	if ssnShapeRE.MatchString(match) {
		return false
	}
	digits := 0
	for _, r := range match {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	return digits >= 7
}

// Redaction is the outcome of scrubbing a single string
type Redaction struct {
	Text     string
	Redacted bool
}

func applyRules(text string, rules []redactionRule) Redaction {
	out := Redaction{Text: text}
	for _, rule := range rules {
		rule := rule
		out.Text = rule.pattern.ReplaceAllStringFunc(out.Text, func(m string) string {
			if rule.accept != nil && !rule.accept(m) {
				return m
			}
			out.Redacted = true
			return rule.replacement
		})
	}
	return out
}

// Redact masks emails, phone numbers, SSNs and bearer tokens, in that order
func Redact(text string) Redaction {
	return applyRules(text, outputRules)
}

// ScrubForLog redacts like Redact, also strips URLs, and truncates to maxRunes
func ScrubForLog(text string, maxRunes int) string {
	scrubbed := applyRules(text, logRules).Text
	if maxRunes > 0 && utf8.RuneCountInString(scrubbed) > maxRunes {
		runes := []rune(scrubbed)
		scrubbed = string(runes[:maxRunes]) + "…"
	}
	return scrubbed
}

// ContainsRefusal reports whether text reads like a model refusing the task
func ContainsRefusal(text string) bool {
	normalized := strings.NewReplacer("’", "'", "‘", "'").Replace(text)
	for _, re := range refusalPatterns {
		if re.MatchString(normalized) {
			return true
		}
	}
	return false
}

// RedactSummary scrubs every string leaf of result in place and reports
// whether anything was masked
func RedactSummary(result *entities.SummaryResult) bool {
	if result == nil {
		return false
	}
	r := &redactor{}
	result.Summary = r.str(result.Summary)
	r.list(result.KeyPoints)
	r.list(result.ActionItems)
	r.list(result.Decisions)
	r.list(result.Topics)

	if td := result.TemplateData; td != nil {
		h := &td.MeetingHeader
		h.Title, h.Parties, h.Date, h.Duration, h.Link = r.str(h.Title), r.str(h.Parties), r.str(h.Date), r.str(h.Duration), r.str(h.Link)

		for i := range td.ActionItemsDetailed {
			a := &td.ActionItemsDetailed[i]
			a.Action, a.Owner, a.DueDate, a.Notes = r.str(a.Action), r.str(a.Owner), r.str(a.DueDate), r.str(a.Notes)
		}
		td.MeetingPurpose = r.str(td.MeetingPurpose)
		for i := range td.KeyPointsDetailed {
			k := &td.KeyPointsDetailed[i]
			k.Title, k.Explanation = r.str(k.Title), r.str(k.Explanation)
		}
		for i := range td.TopicsDetailed {
			t := &td.TopicsDetailed[i]
			t.Topic, t.IssueDescription, t.RootCause, t.Impact = r.str(t.Topic), r.str(t.IssueDescription), r.str(t.RootCause), r.str(t.Impact)
			r.list(t.Observations)
		}

		p := &td.PathForward
		p.DefinitionOfSuccess, p.AgreedNextAttempt, p.DecisionPoint, p.CheckpointDate = r.str(p.DefinitionOfSuccess), r.str(p.AgreedNextAttempt), r.str(p.DecisionPoint), r.str(p.CheckpointDate)

		for _, party := range []*entities.PartySteps{&td.NextSteps.PartyA, &td.NextSteps.PartyB} {
			party.Name = r.str(party.Name)
			r.list(party.Steps)
		}
	}
	return r.redacted
}

// RedactAnswer scrubs the answer and citations in place
func RedactAnswer(result *entities.QaResult) bool {
	if result == nil {
		return false
	}
	r := &redactor{}
	result.Answer = r.str(result.Answer)
	r.list(result.Citations)
	return r.redacted
}

// ValidateAnswer rejects refusals and answers left blank after redaction
func ValidateAnswer(result *entities.QaResult) error {
	if ContainsRefusal(result.Answer) {
		return usecaseerrors.OutputValidation("model refused to answer from the transcript")
	}
	if strings.TrimSpace(result.Answer) == "" {
		return usecaseerrors.OutputValidation("answer is empty")
	}
	return nil
}

type redactor struct {
	redacted bool
}

func (r *redactor) str(s string) string {
	out := Redact(s)
	if out.Redacted {
		r.redacted = true
	}
	return out.Text
}

func (r *redactor) list(items []string) {
	for i := range items {
		items[i] = r.str(items[i])
	}
}

// ValidateSummary rejects refusals and results that carry no content at all
func ValidateSummary(result *entities.SummaryResult) error {
	if ContainsRefusal(result.Summary) {
		return usecaseerrors.OutputValidation("model refused to summarize the transcript")
	}
	if strings.TrimSpace(result.Summary) == "" && result.TemplateData == nil &&
		len(result.KeyPoints) == 0 && len(result.ActionItems) == 0 &&
		len(result.Decisions) == 0 && len(result.Topics) == 0 {
		return usecaseerrors.OutputValidation("summary is empty")
	}
	return nil
}
