package skills

import (
	"context"
	"math/rand"

	"github.com/scaletotop/contentengine/internal/domain"
	"github.com/scaletotop/contentengine/internal/humanize"
	"github.com/scaletotop/contentengine/internal/seo"
)

// Built-in analysis skills. These run the local scoring stack and never
// call an AI provider, so their metadata reports the local engine.
// Generation skills (article writers backed by model providers) implement
// the same Skill interface and are registered at startup alongside these.

const (
	// SEOAudit scores content without generating anything.
	SEOAudit = "seo-audit"
	// Humanize rewrites content to lower its AI-likelihood score.
	Humanize = "humanize"
)

// AuditReport is the seo-audit skill's output payload.
type AuditReport struct {
	SEO        seo.Report      `json:"seo"`
	Detection  humanize.Report `json:"detection"`
	HumanScore int             `json:"human_score"`
}

// SEOAuditSkill combines the SEO scorer and the AI-pattern detector into a
// single audit pass over existing content.
type SEOAuditSkill struct{}

func (SEOAuditSkill) Name() string { return SEOAudit }

func (SEOAuditSkill) Execute(_ context.Context, input domain.SkillInput) (domain.SkillResult, error) {
	keyword := ""
	if len(input.Keywords) > 0 {
		keyword = input.Keywords[0]
	}

	detection := humanize.Detect(input.Content)
	report := AuditReport{
		SEO:        seo.Score(input.Title, input.Description, input.Content, keyword, nil),
		Detection:  detection,
		HumanScore: 100 - detection.Score,
	}

	return domain.SkillResult{
		Data:     report,
		Metadata: domain.ExecutionMetadata{ModelUsed: "local-analysis", Provider: "internal"},
	}, nil
}

// HumanizeSkill rewrites content through the humanizer pipeline.
type HumanizeSkill struct {
	rnd *rand.Rand
}

// NewHumanizeSkill creates the humanize skill around a random source.
// Tests pass a seeded source for reproducible output.
func NewHumanizeSkill(rnd *rand.Rand) *HumanizeSkill {
	return &HumanizeSkill{rnd: rnd}
}

func (*HumanizeSkill) Name() string { return Humanize }

func (s *HumanizeSkill) Execute(_ context.Context, input domain.SkillInput) (domain.SkillResult, error) {
	result := humanize.New(s.rnd).Humanize(input.Content)
	return domain.SkillResult{
		Data:     result,
		Metadata: domain.ExecutionMetadata{ModelUsed: "local-analysis", Provider: "internal"},
	}, nil
}
