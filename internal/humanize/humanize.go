package humanize

import (
	"math/rand"
	"regexp"
	"strings"
)

// ─── Rewrite Tables ─────────────────────────────────────────────────────────

// phraseRule rewrites or removes one cliché. Applied deterministically, in
// order, before any randomized transform.
type phraseRule struct {
	re          *regexp.Regexp
	replacement string
}

var phraseRules = []phraseRule{
	// "worth noting" family
	{regexp.MustCompile(`(?i)It'?s worth noting that\s*`), ""},
	{regexp.MustCompile(`(?i)It'?s important to note that\s*`), ""},
	{regexp.MustCompile(`(?i)It should be noted that\s*`), ""},
	{regexp.MustCompile(`(?i)Note that\s*`), ""},

	// "important to" family
	{regexp.MustCompile(`(?i)It'?s important to (understand|remember|recognize) that\s*`), ""},
	{regexp.MustCompile(`(?i)It'?s crucial to (understand|remember|note) that\s*`), ""},
	{regexp.MustCompile(`(?i)It'?s essential to (understand|note) that\s*`), ""},

	// summary openers
	{regexp.MustCompile(`(?i)In conclusion,?\s*`), ""},
	{regexp.MustCompile(`(?i)To sum up,?\s*`), ""},
	{regexp.MustCompile(`(?i)In summary,?\s*`), ""},
	{regexp.MustCompile(`(?i)To conclude,?\s*`), ""},

	// "delve" family
	{regexp.MustCompile(`(?i)delve into`), "explore"},
	{regexp.MustCompile(`(?i)dive deep(er)? into`), "explore"},

	// overly formal connectives
	{regexp.MustCompile(`(?i)\bFurthermore,?\s*`), "Also, "},
	{regexp.MustCompile(`(?i)\bMoreover,?\s*`), "Plus, "},
	{regexp.MustCompile(`(?i)\bNevertheless,?\s*`), "But "},
	{regexp.MustCompile(`(?i)\bNonetheless,?\s*`), "Still, "},
	{regexp.MustCompile(`(?i)\bHence,?\s*`), "So "},
	{regexp.MustCompile(`(?i)\bThus,?\s*`), "So "},
	{regexp.MustCompile(`(?i)\bTherefore,?\s*`), "So "},

	// hedged pivots
	{regexp.MustCompile(`(?i)On the other hand,?\s*`), "But "},
	{regexp.MustCompile(`(?i)That being said,?\s*`), "But "},
	{regexp.MustCompile(`(?i)Having said that,?\s*`), "But "},

	// closers
	{regexp.MustCompile(`(?i)At the end of the day,?\s*`), "Ultimately, "},
	{regexp.MustCompile(`(?i)When all is said and done,?\s*`), "In the end, "},

	// over-hedging
	{regexp.MustCompile(`(?i)It'?s (generally|typically) (believed|thought|considered) that\s*`), ""},
	{regexp.MustCompile(`(?i)One might argue that\s*`), ""},
	{regexp.MustCompile(`(?i)It could be argued that\s*`), ""},

	// newer model tropes
	{regexp.MustCompile(`(?i)\b(ever-)?evolving landscape\b`), "industry"},
	{regexp.MustCompile(`(?i)\bdynamic landscape\b`), "market"},
	{regexp.MustCompile(`(?i)\ba testament to\b`), "proof of"},
	{regexp.MustCompile(`(?i)\brich tapestry\b`), "mix"},
	{regexp.MustCompile(`(?i)\bunleash(ing)? (the )?power of\b`), "use"},
	{regexp.MustCompile(`(?i)\belevate (your|the)\b`), "improve"},
	{regexp.MustCompile(`(?i)\bgame-changer\b`), "big change"},
	{regexp.MustCompile(`(?i)\bnavigating the\b`), "handling the"},
	{regexp.MustCompile(`(?i)\brealm of\b`), "world of"},
	{regexp.MustCompile(`(?i)\bembark on (a|this) journey\b`), "start"},
	{regexp.MustCompile(`(?i)\bIn today's digital world,?\s*`), ""},
	{regexp.MustCompile(`(?i)\bIn this article, we will\b`), "We will"},
	{regexp.MustCompile(`(?i)\bcomprehensive guide\b`), "guide"},
	{regexp.MustCompile(`(?i)\b(pivotal|paramount) role\b`), "key role"},
}

// contractionPair maps a spelled-out form to its contraction. Kept as an
// ordered slice so a seeded RNG makes the whole pass reproducible.
type contractionPair struct {
	full, short string
}

var contractionPairs = []contractionPair{
	{"will not", "won't"},
	{"would not", "wouldn't"},
	{"would have", "would've"},
	{"could not", "couldn't"},
	{"could have", "could've"},
	{"should not", "shouldn't"},
	{"should have", "should've"},
	{"do not", "don't"},
	{"does not", "doesn't"},
	{"did not", "didn't"},
	{"have not", "haven't"},
	{"has not", "hasn't"},
	{"had not", "hadn't"},
	{"is not", "isn't"},
	{"are not", "aren't"},
	{"was not", "wasn't"},
	{"were not", "weren't"},
	{"cannot", "can't"},
	{"can not", "can't"},
	{"must not", "mustn't"},
	{"it is", "it's"},
	{"that is", "that's"},
	{"what is", "what's"},
	{"who is", "who's"},
	{"where is", "where's"},
	{"how is", "how's"},
	{"there is", "there's"},
	{"I am", "I'm"},
	{"you are", "you're"},
	{"we are", "we're"},
	{"they are", "they're"},
	{"I will", "I'll"},
	{"you will", "you'll"},
	{"we will", "we'll"},
	{"they will", "they'll"},
	{"he will", "he'll"},
	{"she will", "she'll"},
	{"I have", "I've"},
	{"you have", "you've"},
	{"we have", "we've"},
	{"they have", "they've"},
	{"I would", "I'd"},
	{"you would", "you'd"},
	{"we would", "we'd"},
	{"they would", "they'd"},
	{"he would", "he'd"},
	{"she would", "she'd"},
	{"let us", "let's"},
}

var transitionWords = []string{"Look,", "Listen,", "Here's the thing:", "Okay,", "Now,"}
var asides = []string{"like this", "for example", "you know", "obviously"}

var (
	doubleSpace   = regexp.MustCompile(`[ \t]{2,}`)
	doublePeriod  = regexp.MustCompile(`\.\s*\.`)
	doubleComma   = regexp.MustCompile(`,\s*,`)
	dashCandidate = regexp.MustCompile(`(?i),\s+([a-z]+ing|when|if|but)\s+`)
	trailingEnd   = regexp.MustCompile(`[.!?]\s*$`)
)

// Changes counts what each transform touched.
type Changes struct {
	PhrasesRemoved    int `json:"phrases_removed"`
	ContractionsAdded int `json:"contractions_added"`
	SentencesMerged   int `json:"sentences_merged"`
	QuirksAdded       int `json:"quirks_added"`
}

// Result is the humanizer output.
type Result struct {
	Text    string  `json:"text"`
	Changes Changes `json:"changes"`
}

// Humanizer rewrites text to lower its detection score. The random source
// is injectable so tests can fix a seed; production passes a real RNG.
type Humanizer struct {
	rnd *rand.Rand
}

// New creates a Humanizer around the given random source.
func New(rnd *rand.Rand) *Humanizer {
	return &Humanizer{rnd: rnd}
}

// NewSeeded creates a deterministic Humanizer for tests.
func NewSeeded(seed int64) *Humanizer {
	return New(rand.New(rand.NewSource(seed)))
}

// ─── Transforms ─────────────────────────────────────────────────────────────

// RemoveTells deterministically strips or rewrites cliché phrases and
// cleans up the punctuation left behind.
func RemoveTells(text string) (string, int) {
	removed := 0
	for _, rule := range phraseRules {
		matches := rule.re.FindAllString(text, -1)
		if len(matches) == 0 {
			continue
		}
		removed += len(matches)
		text = rule.re.ReplaceAllString(text, rule.replacement)
	}

	text = doubleSpace.ReplaceAllString(text, " ")
	text = doublePeriod.ReplaceAllString(text, ".")
	text = doubleComma.ReplaceAllString(text, ",")

	return text, removed
}

// AddContractions contracts 50-70% of eligible spelled-out forms. The exact
// rate is drawn once per call; each occurrence is then gated independently.
func (h *Humanizer) AddContractions(text string) (string, int) {
	applyRate := 0.5 + h.rnd.Float64()*0.2
	added := 0

	for _, pair := range contractionPairs {
		re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(pair.full) + `\b`)
		text = re.ReplaceAllStringFunc(text, func(match string) string {
			if h.rnd.Float64() >= applyRate {
				return match
			}
			added++
			return matchCase(match, pair.short)
		})
	}

	return text, added
}

// matchCase carries the leading capitalization of the source match over to
// the replacement.
func matchCase(match, replacement string) string {
	if match == "" || replacement == "" {
		return replacement
	}
	if match[0] >= 'A' && match[0] <= 'Z' && replacement[0] >= 'a' && replacement[0] <= 'z' {
		return strings.ToUpper(replacement[:1]) + replacement[1:]
	}
	return replacement
}

// VarySentenceLength breaks mechanical rhythm by probabilistically merging
// adjacent short sentences when the length distribution is too uniform
// (coefficient of variation below 0.3). Needs at least 5 sentences.
func (h *Humanizer) VarySentenceLength(text string) (string, int) {
	sentences := sentenceWithEnd.FindAllString(text, -1)
	if len(sentences) < 5 {
		return text, 0
	}

	if sentenceLengthCV(text) >= 0.3 {
		return text, 0
	}

	merged := 0
	for i := 0; i < len(sentences)-1; i++ {
		short := len(strings.Fields(sentences[i])) < 10 && len(strings.Fields(sentences[i+1])) < 10
		if short && h.rnd.Float64() < 0.3 {
			sentences[i] = trailingEnd.ReplaceAllString(sentences[i], ",")
			merged++
		}
	}
	if merged == 0 {
		return text, 0
	}

	parts := make([]string, len(sentences))
	for i, s := range sentences {
		parts[i] = strings.TrimSpace(s)
	}
	return strings.Join(parts, " "), merged
}

// AddQuirks sprinkles low-probability informal markers: paragraph-opening
// interjections (10%), em-dash substitution (5%), and parenthetical asides
// (3% on long sentences).
func (h *Humanizer) AddQuirks(text string) (string, int) {
	added := 0

	paragraphs := strings.Split(text, "\n\n")
	for i := 1; i < len(paragraphs); i++ {
		if h.rnd.Float64() < 0.1 {
			word := transitionWords[h.rnd.Intn(len(transitionWords))]
			paragraphs[i] = word + " " + paragraphs[i]
			added++
		}
	}
	text = strings.Join(paragraphs, "\n\n")

	text = dashCandidate.ReplaceAllStringFunc(text, func(match string) string {
		if h.rnd.Float64() < 0.05 {
			added++
			return strings.Replace(match, ",", "—", 1)
		}
		return match
	})

	sentences := sentenceWithEnd.FindAllStringIndex(text, -1)
	var b strings.Builder
	last := 0
	for _, span := range sentences {
		sentence := text[span[0]:span[1]]
		if h.rnd.Float64() < 0.03 && len(sentence) > 50 {
			words := strings.Fields(sentence)
			if len(words) > 10 {
				aside := asides[h.rnd.Intn(len(asides))]
				pos := len(words) / 2
				rest := append([]string{"(" + aside + ")"}, words[pos:]...)
				words = append(words[:pos:pos], rest...)
				sentence = strings.Join(words, " ")
				added++
			}
		}
		b.WriteString(text[last:span[0]])
		b.WriteString(sentence)
		last = span[1]
	}
	b.WriteString(text[last:])

	return b.String(), added
}

// Humanize applies the full transform pipeline in fixed order: phrase
// removal, contraction insertion, sentence-length variance, quirks.
// Text with nothing to change comes back unchanged with zero counts.
func (h *Humanizer) Humanize(text string) Result {
	out, removed := RemoveTells(text)
	out, contractions := h.AddContractions(out)
	out, merges := h.VarySentenceLength(out)
	out, quirks := h.AddQuirks(out)

	return Result{
		Text: out,
		Changes: Changes{
			PhrasesRemoved:    removed,
			ContractionsAdded: contractions,
			SentencesMerged:   merges,
			QuirksAdded:       quirks,
		},
	}
}
