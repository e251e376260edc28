// Package humanize scores text for statistical and lexical signals of
// machine authorship, and rewrites it to reduce them.
//
// Detection and rewriting operate on surface phrasing, punctuation, and
// sentence boundaries only — factual claims are never altered.
package humanize

import (
	"fmt"
	"math"
	"regexp"
	"strings"
)

// Severity classifies how strongly a pattern signals machine authorship.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Confidence is derived from how many distinct signal categories fired.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// Flag is one triggered detection pattern.
type Flag struct {
	Pattern     string   `json:"pattern"`
	Count       int      `json:"count"`
	Severity    Severity `json:"severity"`
	Description string   `json:"description"`
}

// Report is the transient detection result. Score runs 0-100; higher means
// more machine-like. Recomputed on demand, never persisted.
type Report struct {
	Score       int        `json:"score"`
	Confidence  Confidence `json:"confidence"`
	Flags       []Flag     `json:"flags"`
	Suggestions []string   `json:"suggestions"`
}

// tellPattern is one entry in the fixed cliché dictionary. Each match
// contributes weight × occurrence count to the score.
type tellPattern struct {
	re          *regexp.Regexp
	severity    Severity
	weight      int
	description string
}

var tellPatterns = []tellPattern{
	{regexp.MustCompile(`(?i)It'?s worth noting`), SeverityHigh, 8, `"It's worth noting" — stock framing`},
	{regexp.MustCompile(`(?i)It'?s important to (note|understand|remember)`), SeverityHigh, 8, `"It's important to note" — stock framing`},
	{regexp.MustCompile(`(?i)\bdelve into\b`), SeverityHigh, 10, `"delve into" — classic machine verb`},
	{regexp.MustCompile(`(?i)\bdive deep(er)? into\b`), SeverityHigh, 8, `"dive deep into" — classic machine verb`},
	{regexp.MustCompile(`(?i)\bFurthermore,`), SeverityMedium, 5, "overly formal connective"},
	{regexp.MustCompile(`(?i)\bMoreover,`), SeverityMedium, 5, "overly formal connective"},
	{regexp.MustCompile(`(?i)\bNevertheless,`), SeverityMedium, 5, "overly formal connective"},
	{regexp.MustCompile(`(?i)In conclusion,`), SeverityMedium, 6, "stock summary opener"},
	{regexp.MustCompile(`(?i)To sum up,`), SeverityMedium, 6, "stock summary opener"},
	{regexp.MustCompile(`(?i)At the end of the day,`), SeverityMedium, 7, "worn-out cliché"},
}

// academicWords is the fixed formal-vocabulary list used for density scoring.
var academicWords = map[string]struct{}{
	"furthermore": {}, "moreover": {}, "nevertheless": {}, "nonetheless": {},
	"subsequently": {}, "consequently": {}, "accordingly": {}, "thereby": {},
	"wherein": {}, "whereby": {}, "heretofore": {}, "henceforth": {},
	"utilize": {}, "facilitate": {}, "implement": {}, "leverage": {},
	"paradigm": {}, "methodology": {}, "framework": {}, "ecosystem": {},
}

var (
	sentenceWithEnd = regexp.MustCompile(`[^.!?]+[.!?]+`)
	contractionWord = regexp.MustCompile(`\w+'\w+`)
	punctTrim       = regexp.MustCompile(`[.,!?]`)
	casualOpener    = regexp.MustCompile(`(?im)^(Look|Listen|Okay|Now),`)
)

// sentenceLengthCV computes the coefficient of variation (stddev/mean) of
// per-sentence word counts. Fewer than 3 sentences is assumed normal.
func sentenceLengthCV(text string) float64 {
	sentences := sentenceWithEnd.FindAllString(text, -1)
	if len(sentences) < 3 {
		return 1
	}

	lengths := make([]float64, len(sentences))
	var mean float64
	for i, s := range sentences {
		lengths[i] = float64(len(strings.Fields(s)))
		mean += lengths[i]
	}
	mean /= float64(len(lengths))
	if mean == 0 {
		return 1
	}

	var variance float64
	for _, l := range lengths {
		variance += (l - mean) * (l - mean)
	}
	variance /= float64(len(lengths))

	return math.Sqrt(variance) / mean
}

// contractionRate returns the ratio of contracted words to total words.
func contractionRate(text string) float64 {
	words := len(strings.Fields(text))
	if words == 0 {
		words = 1
	}
	return float64(len(contractionWord.FindAllString(text, -1))) / float64(words)
}

// academicWordDensity returns the ratio of formal-vocabulary words to total.
func academicWordDensity(text string) float64 {
	words := strings.Fields(strings.ToLower(text))
	if len(words) == 0 {
		return 0
	}
	count := 0
	for _, w := range words {
		if _, ok := academicWords[punctTrim.ReplaceAllString(w, "")]; ok {
			count++
		}
	}
	return float64(count) / float64(len(words))
}

// hasImperfections reports whether the text shows any informal markers:
// ellipses, em-dashes, parentheticals, or casual sentence openers.
func hasImperfections(text string) bool {
	return strings.Contains(text, "...") ||
		strings.Contains(text, "—") ||
		strings.Contains(text, "(") ||
		casualOpener.MatchString(text)
}

// Detect scans text for machine-authorship signals and returns a scored
// report. Degenerate input yields a valid, if extreme, report.
func Detect(text string) Report {
	var flags []Flag
	total := 0

	for _, p := range tellPatterns {
		matches := p.re.FindAllString(text, -1)
		if len(matches) == 0 {
			continue
		}
		flags = append(flags, Flag{
			Pattern:     p.re.String(),
			Count:       len(matches),
			Severity:    p.severity,
			Description: p.description,
		})
		total += len(matches) * p.weight
	}
	phraseFlags := len(flags)

	cv := sentenceLengthCV(text)
	if cv < 0.3 {
		flags = append(flags, Flag{
			Pattern:     "uniform_sentence_length",
			Count:       1,
			Severity:    SeverityHigh,
			Description: fmt.Sprintf("sentence lengths are too uniform (CV %.2f)", cv),
		})
		total += 15
	}

	rate := contractionRate(text)
	if rate < 0.03 {
		flags = append(flags, Flag{
			Pattern:     "low_contraction_rate",
			Count:       1,
			Severity:    SeverityHigh,
			Description: fmt.Sprintf("too few contractions (%.1f%%)", rate*100),
		})
		total += 12
	}

	density := academicWordDensity(text)
	if density > 0.05 {
		flags = append(flags, Flag{
			Pattern:     "high_academic_density",
			Count:       1,
			Severity:    SeverityMedium,
			Description: fmt.Sprintf("too much formal vocabulary (%.1f%%)", density*100),
		})
		total += 8
	}

	if !hasImperfections(text) {
		flags = append(flags, Flag{
			Pattern:     "perfect_grammar",
			Count:       1,
			Severity:    SeverityLow,
			Description: "grammar is too clean; human writing has small imperfections",
		})
		total += 5
	}

	score := total
	if score > 100 {
		score = 100
	}

	var confidence Confidence
	switch {
	case len(flags) == 0:
		confidence = ConfidenceLow
	case len(flags) <= 2:
		confidence = ConfidenceMedium
	default:
		confidence = ConfidenceHigh
	}

	var suggestions []string
	if score >= 40 {
		suggestions = append(suggestions, "content shows strong machine-writing patterns; run the humanizer")
	}
	if phraseFlags > 0 {
		suggestions = append(suggestions, "replace stock phrases with plainer wording")
	}
	if rate < 0.03 {
		suggestions = append(suggestions, "use more contractions (don't, can't, it's)")
	}
	if cv < 0.3 {
		suggestions = append(suggestions, "vary sentence length to break the mechanical rhythm")
	}
	if density > 0.05 {
		suggestions = append(suggestions, "swap formal vocabulary for everyday words")
	}
	if score < 20 {
		suggestions = append(suggestions, "content reads naturally")
	}

	return Report{
		Score:       score,
		Confidence:  confidence,
		Flags:       flags,
		Suggestions: suggestions,
	}
}

// HumanScore returns 100 minus the detection score, presented to end users
// as a quality signal.
func HumanScore(text string) int {
	return 100 - Detect(text).Score
}
