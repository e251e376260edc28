package seo

import (
	"fmt"
	"strings"
	"testing"
	"time"
)

// ─── Title ──────────────────────────────────────────────────────────────────

func TestEvaluateTitle_KeywordPresence(t *testing.T) {
	with := EvaluateTitle("Best SEO 2026", "SEO")
	without := EvaluateTitle("Great Article", "SEO")

	if with.Score <= without.Score {
		t.Errorf("keyword title score = %d, should exceed %d", with.Score, without.Score)
	}
}

func TestEvaluateTitle_Monotonic(t *testing.T) {
	// Adding the target keyword to a title strictly increases its sub-score,
	// all else equal.
	base := EvaluateTitle("", "golang")
	withKeyword := EvaluateTitle("golang", "golang")
	if withKeyword.Score <= base.Score {
		t.Errorf("score with keyword = %d, want > %d", withKeyword.Score, base.Score)
	}
}

func TestEvaluateTitle_Length(t *testing.T) {
	year := fmt.Sprintf("%d", time.Now().Year())
	ideal := "Complete Guide to SEO Content Writing in " + year + " Tips" // 54 chars
	item := EvaluateTitle(ideal, "SEO")
	if item.Score != 100 {
		t.Errorf("ideal title score = %d, want 100 (issues: %v)", item.Score, item.Issues)
	}
	if item.Status != StatusExcellent {
		t.Errorf("status = %q, want excellent", item.Status)
	}

	short := EvaluateTitle("SEO", "SEO")
	if short.Score >= item.Score {
		t.Errorf("short title score = %d, should be below %d", short.Score, item.Score)
	}
}

func TestEvaluateTitle_LateKeyword(t *testing.T) {
	late := EvaluateTitle("A very long prefix that pushes back the SEO keyword!!", "SEO")
	early := EvaluateTitle("SEO: a very long title that is just about fifty chars", "SEO")
	if late.Score >= early.Score {
		t.Errorf("late keyword score = %d, want < %d", late.Score, early.Score)
	}
}

// ─── Description ────────────────────────────────────────────────────────────

func TestEvaluateDescription(t *testing.T) {
	good := "Learn how SEO content scoring works, why keyword density matters, and how to structure articles that actually rank in organic search."
	item := EvaluateDescription(good, "SEO")
	if item.Score != 100 {
		t.Errorf("score = %d, want 100 (issues: %v)", item.Score, item.Issues)
	}

	missing := EvaluateDescription(strings.Repeat("filler words here ", 8), "SEO")
	if missing.Score >= item.Score {
		t.Errorf("keyword-free description should score lower: %d vs %d", missing.Score, item.Score)
	}
}

// ─── Keyword Usage ──────────────────────────────────────────────────────────

func TestEvaluateKeywordUsage_Density(t *testing.T) {
	// 2 occurrences in 100 words = 2% density, inside the 1-4% window.
	content := "golang testing " + strings.Repeat("word ", 96) + "golang again"
	item := EvaluateKeywordUsage(content, "golang")
	for _, issue := range item.Issues {
		if strings.Contains(issue, "density") {
			t.Errorf("unexpected density issue: %s", issue)
		}
	}

	thin := EvaluateKeywordUsage(strings.Repeat("word ", 200)+"golang", "golang")
	if thin.Score >= item.Score {
		t.Errorf("thin density should score lower: %d vs %d", thin.Score, item.Score)
	}

	stuffed := EvaluateKeywordUsage(strings.Repeat("golang ", 50), "golang")
	if stuffed.Score >= 100 {
		t.Errorf("stuffed content score = %d, want < 100", stuffed.Score)
	}
}

func TestEvaluateKeywordUsage_FirstParagraph(t *testing.T) {
	present := EvaluateKeywordUsage("golang is great.\n\nMore text here.", "golang")
	absent := EvaluateKeywordUsage("Opening paragraph.\n\ngolang shows up later only.", "golang")
	if absent.Score >= present.Score {
		t.Errorf("missing first-paragraph keyword should score lower: %d vs %d", absent.Score, present.Score)
	}
}

func TestEvaluateKeywordUsage_Degenerate(t *testing.T) {
	item := EvaluateKeywordUsage("", "golang")
	if item.Score < 0 || item.Score > 100 {
		t.Errorf("degenerate input score = %d, want within [0,100]", item.Score)
	}
}

// ─── Readability ────────────────────────────────────────────────────────────

func TestCountSyllables(t *testing.T) {
	tests := []struct {
		word string
		want int
	}{
		{"cat", 1},
		{"the", 1},
		{"hello", 2},
		{"beautiful", 4},
		{"rhythm", 1},
	}
	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			if got := countSyllables(tt.word); got != tt.want {
				t.Errorf("countSyllables(%q) = %d, want %d", tt.word, got, tt.want)
			}
		})
	}
}

func TestEvaluateReadability_Degenerate(t *testing.T) {
	for _, input := range []string{"", "word"} {
		item := EvaluateReadability(input)
		if item.Score < 0 || item.Score > 100 {
			t.Errorf("EvaluateReadability(%q) score = %d, want within [0,100]", input, item.Score)
		}
	}
}

func TestEvaluateReadability_LongSentences(t *testing.T) {
	long := strings.Repeat("word ", 40) + "."
	item := EvaluateReadability(long)
	found := false
	for _, issue := range item.Issues {
		if strings.Contains(issue, "sentence too long") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a long-sentence issue, got %v", item.Issues)
	}
}

// ─── Structure ──────────────────────────────────────────────────────────────

func TestEvaluateStructure(t *testing.T) {
	content := "# Main Title\n\nIntro paragraph.\n\n## One\ntext\n\n## Two\ntext\n\n## Three\n- a list"
	item := EvaluateStructure(content, []Image{{Alt: "diagram"}})
	if item.Score != 100 {
		t.Errorf("score = %d, want 100 (issues: %v)", item.Score, item.Issues)
	}

	noH1 := EvaluateStructure("plain text only", nil)
	if noH1.Score >= item.Score {
		t.Errorf("structure-free content should score lower: %d vs %d", noH1.Score, item.Score)
	}

	twoH1 := EvaluateStructure("# One\n\n# Two\n\n## A\n## B\n## C", nil)
	foundMulti := false
	for _, issue := range twoH1.Issues {
		if strings.Contains(issue, "too many H1") {
			foundMulti = true
		}
	}
	if !foundMulti {
		t.Errorf("expected multiple-H1 issue, got %v", twoH1.Issues)
	}
}

func TestEvaluateStructure_MissingAlt(t *testing.T) {
	item := EvaluateStructure("# T\n## A\n## B\n## C", []Image{{Alt: ""}, {Alt: "ok"}})
	found := false
	for _, issue := range item.Issues {
		if strings.Contains(issue, "missing alt text") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected missing-alt issue, got %v", item.Issues)
	}
}

// ─── Images ─────────────────────────────────────────────────────────────────

func TestEvaluateImages(t *testing.T) {
	none := EvaluateImages(nil, "SEO")
	if none.Score != 70 {
		t.Errorf("no-image score = %d, want 70", none.Score)
	}

	full := EvaluateImages([]Image{{Alt: "SEO scoring dashboard"}}, "SEO")
	if full.Score != 100 {
		t.Errorf("score = %d, want 100 (issues: %v)", full.Score, full.Issues)
	}

	noAlt := EvaluateImages([]Image{{Alt: ""}}, "SEO")
	if noAlt.Score != 80 {
		t.Errorf("missing-alt score = %d, want 80", noAlt.Score)
	}
}

// ─── Composite ──────────────────────────────────────────────────────────────

func TestScore_WeightsSumToOne(t *testing.T) {
	r := Score("title", "desc", "content", "kw", nil)
	sum := r.Title.Weight + r.Description.Weight + r.Keywords.Weight +
		r.Readability.Weight + r.Structure.Weight + r.Images.Weight
	if sum < 0.999 || sum > 1.001 {
		t.Errorf("weights sum = %f, want 1.0", sum)
	}
}

func TestScore_Bounds(t *testing.T) {
	r := Score("", "", "", "kw", nil)
	if r.Overall < 0 || r.Overall > 100 {
		t.Errorf("overall = %d, want within [0,100]", r.Overall)
	}
}

func TestScore_BetterContentScoresHigher(t *testing.T) {
	year := fmt.Sprintf("%d", time.Now().Year())
	content := "# SEO Guide\n\nSEO drives organic growth. It's measurable and it compounds.\n\n" +
		"## Why SEO Matters\nShort version: rankings bring traffic.\n\n" +
		"## SEO Basics\nKeywords, structure, and readable writing all play a part.\n\n" +
		"## Next Steps\n- audit your pages\n- fix the title tags"
	good := Score(
		"SEO Guide "+year+": 7 Steps to Ranking Your Content",
		"Learn the SEO fundamentals that move rankings: keyword research, structure, readability, and the audits that keep pages healthy.",
		content, "SEO",
		[]Image{{Alt: "SEO audit checklist"}})

	bad := Score("Untitled", "n/a", "word word word", "SEO", nil)
	if good.Overall <= bad.Overall {
		t.Errorf("good content overall = %d, want > %d", good.Overall, bad.Overall)
	}
}
