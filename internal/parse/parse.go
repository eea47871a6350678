// Package parse converts raw text returned by a generation provider into
// structured records. Providers are instructed to emit labeled blocks
// ("Question:", "Hiring Percentage:", ...) but routinely drift from that
// format, so parsing degrades instead of failing: a missing field becomes
// the "N/A" placeholder plus a warning, and a response with no recognized
// markers at all is folded into the most likely field. A hard error is
// returned only for empty input.
//
// All functions are pure: the same raw text always yields the same result.
package parse

import (
	"errors"
	"regexp"
	"sort"
	"strings"
)

// ErrEmptyInput is returned when the raw provider text is empty or blank.
var ErrEmptyInput = errors.New("empty response text")

// Placeholder substitutes missing required fields.
const Placeholder = "N/A"

// Result is the outcome of a parse. Warnings carry format-drift
// diagnostics; a non-empty Warnings list marks a partial success.
type Result[T any] struct {
	Value    T
	Warnings []string
}

// Partial reports whether the parse degraded in any way.
func (r Result[T]) Partial() bool {
	return len(r.Warnings) > 0
}

// StepContent is one parsed question/ideal-answer pair.
type StepContent struct {
	Question    string
	IdealAnswer string
}

// OverallContent is the parsed terminal summary of a practice session.
type OverallContent struct {
	HiringPercentage    string
	AreasForImprovement []string
	OverallMessage      string
}

// ResumeOptimization is the parsed result of the resume-optimizer flow.
type ResumeOptimization struct {
	MatchScore           string
	SummaryMessage       string
	OriginalImprovements []string
	OptimizedResume      string
	ChangesAnalysis      string
}

// marker is a recognized field label. A marker matches at the start of a
// line, tolerating leading whitespace, markdown bold/bullet decoration and
// case differences, and must be followed by a colon.
type marker struct {
	field string
	re    *regexp.Regexp
}

func newMarker(field string, labels ...string) marker {
	quoted := make([]string, len(labels))
	for i, label := range labels {
		quoted[i] = regexp.QuoteMeta(label)
	}
	pattern := `(?im)^[ \t]*(?:[-*#>]+[ \t]*)?(?:\*\*[ \t]*)?(?:` +
		strings.Join(quoted, "|") +
		`)[ \t]*(?:\*\*[ \t]*:|:[ \t]*\*\*|:)[ \t]*`
	return marker{field: field, re: regexp.MustCompile(pattern)}
}

var (
	stepMarkers = []marker{
		newMarker("Question", "Question"),
		newMarker("Answer", "Answer", "Ideal Answer"),
	}
	feedbackMarkers = []marker{
		newMarker("Feedback", "Feedback"),
	}
	overallMarkers = []marker{
		newMarker("Hiring Percentage", "Hiring Percentage"),
		newMarker("Areas for Improvement", "Areas for Improvement"),
		newMarker("Overall Message", "Overall Message", "Overall Feedback"),
	}
	resumeMarkers = []marker{
		newMarker("Match Score", "Match Score"),
		newMarker("Summary Message", "Summary Message"),
		newMarker("Areas for Improvement",
			"Original Resume Analysis - Areas for Improvement", "Areas for Improvement"),
		newMarker("Optimized Resume", "Optimized Resume"),
		newMarker("Analysis of Optimization Changes", "Analysis of Optimization Changes"),
	}
)

type block struct {
	field string
	start int // start of the block's content
	at    int // position of the marker itself
}

// scanBlocks locates every recognized marker in raw and captures the text
// between each marker and the next one (or end of input) as that field's
// value. Markers may appear in any order; only the first occurrence of a
// field is kept.
func scanBlocks(raw string, markers []marker) map[string]string {
	var found []block
	for _, m := range markers {
		for _, loc := range m.re.FindAllStringIndex(raw, -1) {
			found = append(found, block{field: m.field, start: loc[1], at: loc[0]})
		}
	}
	sort.Slice(found, func(i, j int) bool { return found[i].at < found[j].at })

	values := make(map[string]string, len(found))
	for i, b := range found {
		if _, ok := values[b.field]; ok {
			continue
		}
		end := len(raw)
		if i+1 < len(found) {
			end = found[i+1].at
		}
		values[b.field] = strings.TrimSpace(raw[b.start:end])
	}
	return values
}

// ParseStep extracts a question and its ideal answer. A response with no
// markers is treated as bare question text.
func ParseStep(raw string) (Result[StepContent], error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Result[StepContent]{}, ErrEmptyInput
	}

	values := scanBlocks(raw, stepMarkers)
	var res Result[StepContent]

	if len(values) == 0 {
		res.Value = StepContent{Question: raw, IdealAnswer: Placeholder}
		res.Warnings = append(res.Warnings,
			"no recognized markers; treating entire response as the question",
			`missing "Answer" field`)
		return res, nil
	}

	res.Value.Question, res.Warnings = requireField(values, "Question", res.Warnings)
	res.Value.IdealAnswer, res.Warnings = requireField(values, "Answer", res.Warnings)
	return res, nil
}

// ParseFeedback extracts the feedback text for a single answer. Providers
// usually echo the trailing "Feedback:" label from the prompt; its absence
// is tolerated by taking the whole response.
func ParseFeedback(raw string) (Result[string], error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Result[string]{}, ErrEmptyInput
	}

	values := scanBlocks(raw, feedbackMarkers)
	if text, ok := values["Feedback"]; ok && text != "" {
		return Result[string]{Value: text}, nil
	}
	return Result[string]{
		Value:    cleanBold(raw),
		Warnings: []string{`missing "Feedback" field; treating entire response as feedback`},
	}, nil
}

// ParseOverall extracts the hiring percentage, improvement list and overall
// message of the terminal evaluation.
func ParseOverall(raw string) (Result[OverallContent], error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Result[OverallContent]{}, ErrEmptyInput
	}

	values := scanBlocks(raw, overallMarkers)
	var res Result[OverallContent]

	if len(values) == 0 {
		res.Value = OverallContent{
			HiringPercentage: Placeholder,
			OverallMessage:   raw,
		}
		res.Warnings = append(res.Warnings,
			"no recognized markers; treating entire response as the overall message",
			`missing "Hiring Percentage" field`,
			`missing "Areas for Improvement" field`)
		return res, nil
	}

	res.Value.HiringPercentage, res.Warnings = requireField(values, "Hiring Percentage", res.Warnings)
	if res.Value.HiringPercentage != Placeholder {
		res.Value.HiringPercentage = normalizePercent(res.Value.HiringPercentage)
	}

	if text, ok := values["Areas for Improvement"]; ok {
		res.Value.AreasForImprovement = splitList(text)
	} else {
		res.Warnings = append(res.Warnings, `missing "Areas for Improvement" field`)
	}

	res.Value.OverallMessage, res.Warnings = requireField(values, "Overall Message", res.Warnings)
	return res, nil
}

// ParseResumeOptimization extracts the five labeled sections of a resume
// optimization response. The optimized resume text keeps its markdown as-is
// since resumes legitimately use bold.
func ParseResumeOptimization(raw string) (Result[ResumeOptimization], error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Result[ResumeOptimization]{}, ErrEmptyInput
	}

	values := scanBlocks(raw, resumeMarkers)
	var res Result[ResumeOptimization]

	if len(values) == 0 {
		res.Value = ResumeOptimization{
			MatchScore:      Placeholder,
			SummaryMessage:  Placeholder,
			OptimizedResume: raw,
			ChangesAnalysis: Placeholder,
		}
		res.Warnings = append(res.Warnings,
			"no recognized markers; treating entire response as the optimized resume",
			`missing "Match Score" field`,
			`missing "Summary Message" field`,
			`missing "Areas for Improvement" field`,
			`missing "Analysis of Optimization Changes" field`)
		return res, nil
	}

	res.Value.MatchScore, res.Warnings = requireField(values, "Match Score", res.Warnings)
	if res.Value.MatchScore != Placeholder {
		res.Value.MatchScore = normalizePercent(res.Value.MatchScore)
	}

	res.Value.SummaryMessage, res.Warnings = requireField(values, "Summary Message", res.Warnings)

	if text, ok := values["Areas for Improvement"]; ok {
		res.Value.OriginalImprovements = splitList(text)
	} else {
		res.Warnings = append(res.Warnings, `missing "Areas for Improvement" field`)
	}

	if text, ok := values["Optimized Resume"]; ok && text != "" {
		res.Value.OptimizedResume = text
	} else {
		res.Value.OptimizedResume = Placeholder
		res.Warnings = append(res.Warnings, `missing "Optimized Resume" field`)
	}

	res.Value.ChangesAnalysis, res.Warnings = requireField(values, "Analysis of Optimization Changes", res.Warnings)
	return res, nil
}

// requireField returns the cleaned field value, degrading to the
// placeholder with a warning when the block is absent or blank.
func requireField(values map[string]string, field string, warnings []string) (string, []string) {
	if text, ok := values[field]; ok {
		if text = cleanBold(text); text != "" {
			return text, warnings
		}
	}
	return Placeholder, append(warnings, `missing "`+field+`" field`)
}

var (
	boldRe      = regexp.MustCompile(`\*\*(.*?)\*\*`)
	bulletRe    = regexp.MustCompile(`^(?:[-*•]+|\d{1,3}[.)])\s*`)
	percentRe   = regexp.MustCompile(`(\d{1,3})\s*%`)
	barePercent = regexp.MustCompile(`^(\d{1,3})\b`)
)

func cleanBold(s string) string {
	return strings.TrimSpace(boldRe.ReplaceAllString(s, "$1"))
}

// splitList turns a captured block into list items: one per line, trimmed,
// with bullets, enumeration numbers and bold markers stripped. Blank lines
// are discarded; an empty result is valid.
func splitList(text string) []string {
	var items []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		line = bulletRe.ReplaceAllString(line, "")
		line = cleanBold(line)
		if line != "" {
			items = append(items, line)
		}
	}
	return items
}

// normalizePercent canonicalizes "75 %", "75%" or a bare "75" to "75%".
// Anything else is passed through untouched; the score is provider-supplied
// text, never computed here.
func normalizePercent(s string) string {
	s = strings.TrimSpace(s)
	if m := percentRe.FindStringSubmatch(s); m != nil {
		return m[1] + "%"
	}
	if m := barePercent.FindStringSubmatch(s); m != nil {
		return m[1] + "%"
	}
	return s
}
