// Package seo computes a weighted composite quality score for an article
// from six independent sub-scorers: title, description, keyword usage,
// readability, structure, and images.
//
// Scoring is a pure, deterministic function of its inputs — no I/O, no
// shared state — and is safe to run fully in parallel across requests.
package seo

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"
)

// Status buckets a sub-score into a display tier. Thresholds are
// scorer-specific.
type Status string

const (
	StatusExcellent        Status = "excellent"
	StatusGood             Status = "good"
	StatusNeedsImprovement Status = "needs-improvement"
	StatusCritical         Status = "critical"
)

// Image is the metadata the scorer needs about an embedded image.
type Image struct {
	URL string `json:"url,omitempty"`
	Alt string `json:"alt,omitempty"`
}

// ScoreItem is one sub-scorer's result.
type ScoreItem struct {
	Score       int            `json:"score"`
	Weight      float64        `json:"weight"`
	Status      Status         `json:"status"`
	Issues      []string       `json:"issues"`
	Suggestions []string       `json:"suggestions"`
	Metrics     map[string]any `json:"metrics,omitempty"`
}

// Report is the full scoring breakdown. Never persisted; recomputed on
// demand from current content.
type Report struct {
	Overall     int       `json:"overall"`
	Title       ScoreItem `json:"title"`
	Description ScoreItem `json:"description"`
	Keywords    ScoreItem `json:"keywords"`
	Readability ScoreItem `json:"readability"`
	Structure   ScoreItem `json:"structure"`
	Images      ScoreItem `json:"images"`
}

var (
	h1Pattern      = regexp.MustCompile(`(?m)^# .+$`)
	h2Pattern      = regexp.MustCompile(`(?m)^## .+$`)
	digitPattern   = regexp.MustCompile(`\d+`)
	bulletPattern  = regexp.MustCompile(`(?m)^[-*•]\s+`)
	numListPattern = regexp.MustCompile(`(?m)^\d+\.\s+`)
	vowelClusters  = regexp.MustCompile(`[aeiouy]{1,2}`)
	syllableSuffix = regexp.MustCompile(`(?:[^laeiouy]es|ed|[^laeiouy]e)$`)
	sentenceEnd    = regexp.MustCompile(`[.!?]+`)
)

// ctaWords signal a call to action in a meta description.
var ctaWords = []string{
	"learn", "discover", "get", "download", "try", "start", "find out", "click",
}

func statusFor(score, excellent, good, needs int) Status {
	switch {
	case score >= excellent:
		return StatusExcellent
	case score >= good:
		return StatusGood
	case score >= needs:
		return StatusNeedsImprovement
	default:
		return StatusCritical
	}
}

func clamp(score int) int {
	if score < 0 {
		return 0
	}
	return score
}

// ─── Title ──────────────────────────────────────────────────────────────────

// EvaluateTitle scores a title for length, keyword presence and position,
// year freshness, and numeral appeal. Weight 0.25.
func EvaluateTitle(title, keyword string) ScoreItem {
	var issues, suggestions []string
	score := 100

	length := len([]rune(title))
	if length < 50 {
		score -= 15
		issues = append(issues, fmt.Sprintf("title too short: %d characters (50-60 recommended)", length))
		suggestions = append(suggestions, "extend the title with modifiers or the year")
	} else if length > 60 {
		score -= 10
		issues = append(issues, fmt.Sprintf("title too long: %d characters (50-60 recommended)", length))
		suggestions = append(suggestions, "trim the title, remove filler words")
	}

	keywordIndex := strings.Index(strings.ToLower(title), strings.ToLower(keyword))
	if keywordIndex == -1 {
		score -= 30
		issues = append(issues, "title does not contain the target keyword")
		suggestions = append(suggestions, fmt.Sprintf("lead the title with %q", keyword))
	} else if keywordIndex > 20 {
		score -= 10
		issues = append(issues, "keyword appears late in the title")
		suggestions = append(suggestions, "move the keyword into the first half of the title")
	}

	currentYear := fmt.Sprintf("%d", time.Now().Year())
	if !strings.Contains(title, currentYear) {
		score -= 5
		suggestions = append(suggestions, fmt.Sprintf("add %q for freshness", currentYear))
	}

	if !digitPattern.MatchString(title) {
		suggestions = append(suggestions, "consider adding a number (\"7 tips\", a year)")
	}

	score = clamp(score)
	return ScoreItem{
		Score:       score,
		Weight:      0.25,
		Status:      statusFor(score, 90, 70, 50),
		Issues:      issues,
		Suggestions: suggestions,
		Metrics:     map[string]any{"length": length, "keyword_position": keywordIndex},
	}
}

// ─── Description ────────────────────────────────────────────────────────────

// EvaluateDescription scores a meta description for length, keyword
// presence, and call-to-action phrasing. Weight 0.15.
func EvaluateDescription(description, keyword string) ScoreItem {
	var issues, suggestions []string
	score := 100

	length := len([]rune(description))
	if length < 120 {
		score -= 20
		issues = append(issues, fmt.Sprintf("description too short: %d characters (120-160 recommended)", length))
		suggestions = append(suggestions, "expand the description with value statements")
	} else if length > 160 {
		score -= 15
		issues = append(issues, fmt.Sprintf("description too long: %d characters (120-160 recommended)", length))
		suggestions = append(suggestions, "shorten the description to avoid truncation")
	}

	if !strings.Contains(strings.ToLower(description), strings.ToLower(keyword)) {
		score -= 25
		issues = append(issues, "description does not contain the target keyword")
		suggestions = append(suggestions, fmt.Sprintf("include %q within the first 100 characters", keyword))
	}

	lower := strings.ToLower(description)
	hasCTA := false
	for _, w := range ctaWords {
		if strings.Contains(lower, w) {
			hasCTA = true
			break
		}
	}
	if !hasCTA {
		suggestions = append(suggestions, "add a call to action (\"learn more\", \"get started\")")
	}

	score = clamp(score)
	return ScoreItem{
		Score:       score,
		Weight:      0.15,
		Status:      statusFor(score, 85, 65, 45),
		Issues:      issues,
		Suggestions: suggestions,
		Metrics:     map[string]any{"length": length},
	}
}

// ─── Keyword Usage ──────────────────────────────────────────────────────────

// countOccurrences counts case-insensitive, possibly overlapping-free
// occurrences of needle in haystack.
func countOccurrences(haystack, needle string) int {
	if needle == "" {
		return 0
	}
	return strings.Count(strings.ToLower(haystack), strings.ToLower(needle))
}

// firstParagraph returns the text up to the first blank line, or the first
// 200 characters when the document has no paragraph break.
func firstParagraph(content string) string {
	if idx := strings.Index(content, "\n\n"); idx >= 0 {
		return content[:idx]
	}
	if len(content) > 200 {
		return content[:200]
	}
	return content
}

// EvaluateKeywordUsage scores keyword density, first-paragraph presence,
// and H2 usage. Weight 0.20. Ideal density is 2-3%.
func EvaluateKeywordUsage(content, keyword string) ScoreItem {
	var issues, suggestions []string
	score := 100

	wordCount := len(strings.Fields(content))
	if wordCount == 0 {
		wordCount = 1
	}
	keywordCount := countOccurrences(content, keyword)
	density := float64(keywordCount) / float64(wordCount) * 100

	if density < 1 {
		score -= 20
		issues = append(issues, fmt.Sprintf("keyword density too low: %.2f%%", density))
		suggestions = append(suggestions, fmt.Sprintf("use %q more often (target 2-3%%)", keyword))
	} else if density > 4 {
		score -= 30
		issues = append(issues, fmt.Sprintf("keyword stuffing risk: %.2f%%", density))
		suggestions = append(suggestions, "reduce keyword usage to avoid over-optimization")
	}

	inFirstPara := strings.Contains(strings.ToLower(firstParagraph(content)), strings.ToLower(keyword))
	if !inFirstPara {
		score -= 15
		issues = append(issues, "first paragraph does not contain the keyword")
		suggestions = append(suggestions, "work the keyword naturally into the opening paragraph")
	}

	h2s := h2Pattern.FindAllString(content, -1)
	h2WithKeyword := 0
	for _, h := range h2s {
		if strings.Contains(strings.ToLower(h), strings.ToLower(keyword)) {
			h2WithKeyword++
		}
	}
	if h2WithKeyword == 0 && len(h2s) > 0 {
		score -= 10
		suggestions = append(suggestions, "include the keyword in at least one H2 heading")
	}

	score = clamp(score)
	return ScoreItem{
		Score:       score,
		Weight:      0.20,
		Status:      statusFor(score, 85, 65, 45),
		Issues:      issues,
		Suggestions: suggestions,
		Metrics: map[string]any{
			"density":            fmt.Sprintf("%.2f%%", density),
			"count":              keywordCount,
			"in_first_paragraph": inFirstPara,
			"in_headings":        h2WithKeyword,
		},
	}
}

// ─── Readability ────────────────────────────────────────────────────────────

// countSyllables estimates syllables via a vowel-cluster heuristic.
func countSyllables(word string) int {
	word = strings.ToLower(word)
	if len(word) <= 3 {
		return 1
	}
	word = syllableSuffix.ReplaceAllString(word, "")
	word = strings.TrimPrefix(word, "y")
	n := len(vowelClusters.FindAllString(word, -1))
	if n == 0 {
		return 1
	}
	return n
}

func splitSentences(content string) []string {
	var out []string
	for _, s := range sentenceEnd.Split(content, -1) {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}

// EvaluateReadability computes a Flesch Reading Ease value from average
// sentence length and syllables per word. Weight 0.15. On degenerate input
// the word and sentence counts floor at 1 rather than erroring.
func EvaluateReadability(content string) ScoreItem {
	sentences := len(splitSentences(content))
	if sentences == 0 {
		sentences = 1
	}
	words := strings.Fields(content)
	wordCount := len(words)
	if wordCount == 0 {
		wordCount = 1
	}
	syllables := 0
	for _, w := range words {
		syllables += countSyllables(w)
	}

	avgSentenceLength := float64(wordCount) / float64(sentences)
	avgSyllablesPerWord := float64(syllables) / float64(wordCount)
	flesch := 206.835 - 1.015*avgSentenceLength - 84.6*avgSyllablesPerWord

	var issues, suggestions []string
	score := 100

	if flesch < 30 {
		score -= 30
		issues = append(issues, "content is very hard to read (college level)")
		suggestions = append(suggestions, "use simpler words and shorter sentences")
	} else if flesch < 50 {
		score -= 15
		issues = append(issues, "content is fairly hard to read")
		suggestions = append(suggestions, "simplify some of the complex sentences")
	} else if flesch > 80 {
		score -= 10
		issues = append(issues, "content may be too simple and lack depth")
		suggestions = append(suggestions, "add precise terminology and detail where it helps")
	}

	if avgSentenceLength > 25 {
		score -= 10
		issues = append(issues, fmt.Sprintf("average sentence too long: %.1f words", avgSentenceLength))
		suggestions = append(suggestions, "break long sentences into shorter ones")
	} else if avgSentenceLength < 10 {
		score -= 5
		issues = append(issues, "sentences are very short and may read choppy")
		suggestions = append(suggestions, "merge some of the short sentences")
	}

	score = clamp(score)
	return ScoreItem{
		Score:       score,
		Weight:      0.15,
		Status:      statusFor(score, 80, 60, 40),
		Issues:      issues,
		Suggestions: suggestions,
		Metrics: map[string]any{
			"flesch_score":           int(math.Round(flesch)),
			"avg_sentence_length":    fmt.Sprintf("%.1f", avgSentenceLength),
			"avg_syllables_per_word": fmt.Sprintf("%.2f", avgSyllablesPerWord),
		},
	}
}

// ─── Structure ──────────────────────────────────────────────────────────────

// EvaluateStructure scores heading hierarchy, image cadence, and alt-text
// coverage. Weight 0.20.
func EvaluateStructure(content string, images []Image) ScoreItem {
	var issues, suggestions []string
	score := 100

	h1Count := len(h1Pattern.FindAllString(content, -1))
	if h1Count == 0 {
		score -= 30
		issues = append(issues, "missing H1 heading")
		suggestions = append(suggestions, "add one main H1 heading")
	} else if h1Count > 1 {
		score -= 20
		issues = append(issues, fmt.Sprintf("too many H1 headings: %d", h1Count))
		suggestions = append(suggestions, "keep a single H1 heading")
	}

	h2Count := len(h2Pattern.FindAllString(content, -1))
	if h2Count < 3 {
		score -= 15
		issues = append(issues, fmt.Sprintf("too few H2 headings: %d", h2Count))
		suggestions = append(suggestions, "add H2 headings to improve structure")
	}

	wordCount := len(strings.Fields(content))
	recommendedImages := int(math.Ceil(float64(wordCount) / 500))
	if len(images) < recommendedImages {
		score -= 10
		suggestions = append(suggestions, fmt.Sprintf("add %d more images (currently %d)", recommendedImages-len(images), len(images)))
	}

	withoutAlt := 0
	for _, img := range images {
		if strings.TrimSpace(img.Alt) == "" {
			withoutAlt++
		}
	}
	if withoutAlt > 0 {
		score -= 15
		issues = append(issues, fmt.Sprintf("%d images missing alt text", withoutAlt))
		suggestions = append(suggestions, "add descriptive alt text to every image")
	}

	if !bulletPattern.MatchString(content) && !numListPattern.MatchString(content) {
		suggestions = append(suggestions, "consider adding a list to improve scannability")
	}

	score = clamp(score)
	return ScoreItem{
		Score:       score,
		Weight:      0.20,
		Status:      statusFor(score, 85, 65, 45),
		Issues:      issues,
		Suggestions: suggestions,
		Metrics: map[string]any{
			"h1_count":        h1Count,
			"h2_count":        h2Count,
			"image_count":     len(images),
			"images_with_alt": len(images) - withoutAlt,
		},
	}
}

// ─── Images ─────────────────────────────────────────────────────────────────

// EvaluateImages scores image presence, alt-text coverage, and keyword use
// in alt text. Weight 0.05.
func EvaluateImages(images []Image, keyword string) ScoreItem {
	var issues, suggestions []string
	score := 100

	if len(images) == 0 {
		score -= 30
		issues = append(issues, "content has no images")
		suggestions = append(suggestions, "add relevant images for visual appeal")
	} else {
		withoutAlt := 0
		withKeyword := 0
		for _, img := range images {
			if img.Alt == "" {
				withoutAlt++
				continue
			}
			if strings.Contains(strings.ToLower(img.Alt), strings.ToLower(keyword)) {
				withKeyword++
			}
		}
		if withoutAlt > 0 {
			score -= 20
			issues = append(issues, fmt.Sprintf("%d/%d images missing alt text", withoutAlt, len(images)))
			suggestions = append(suggestions, "add keyword-bearing alt text to every image")
		}
		if withKeyword == 0 {
			suggestions = append(suggestions, fmt.Sprintf("include %q in at least one image's alt text", keyword))
		}
	}

	withAlt := 0
	for _, img := range images {
		if img.Alt != "" {
			withAlt++
		}
	}

	score = clamp(score)
	return ScoreItem{
		Score:       score,
		Weight:      0.05,
		Status:      statusFor(score, 80, 60, 40),
		Issues:      issues,
		Suggestions: suggestions,
		Metrics:     map[string]any{"total": len(images), "with_alt": withAlt},
	}
}

// ─── Composite ──────────────────────────────────────────────────────────────

// Score runs all six sub-scorers and combines them into a weighted overall
// value. Weights sum to 1.0.
func Score(title, description, content, keyword string, images []Image) Report {
	r := Report{
		Title:       EvaluateTitle(title, keyword),
		Description: EvaluateDescription(description, keyword),
		Keywords:    EvaluateKeywordUsage(content, keyword),
		Readability: EvaluateReadability(content),
		Structure:   EvaluateStructure(content, images),
		Images:      EvaluateImages(images, keyword),
	}
	r.Overall = int(math.Round(
		float64(r.Title.Score)*r.Title.Weight +
			float64(r.Description.Score)*r.Description.Weight +
			float64(r.Keywords.Score)*r.Keywords.Weight +
			float64(r.Readability.Score)*r.Readability.Weight +
			float64(r.Structure.Score)*r.Structure.Weight +
			float64(r.Images.Score)*r.Images.Weight))
	return r
}
