package skills

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/scaletotop/contentengine/internal/domain"
)

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := NewRegistry()
	r.Register(SEOAuditSkill{})

	s, err := r.Get(SEOAudit)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if s.Name() != SEOAudit {
		t.Errorf("Name() = %q, want %q", s.Name(), SEOAudit)
	}
}

func TestRegistry_Unknown(t *testing.T) {
	r := NewRegistry()
	_, err := r.Get("nope")
	if !errors.Is(err, domain.ErrSkillNotRegistered) {
		t.Errorf("error = %v, want ErrSkillNotRegistered", err)
	}
	if r.Has("nope") {
		t.Error("Has(nope) = true, want false")
	}
}

func TestRegistry_Names(t *testing.T) {
	r := NewRegistry()
	r.Register(SEOAuditSkill{})
	r.Register(NewHumanizeSkill(rand.New(rand.NewSource(1))))

	if got := len(r.Names()); got != 2 {
		t.Errorf("Names() returned %d entries, want 2", got)
	}
}

func TestSEOAuditSkill(t *testing.T) {
	result, err := SEOAuditSkill{}.Execute(context.Background(), domain.SkillInput{
		Title:    "Best SEO 2026",
		Content:  "# SEO\n\nSEO content here. It's short but it'll do.",
		Keywords: []string{"SEO"},
	})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	report, ok := result.Data.(AuditReport)
	if !ok {
		t.Fatalf("Data is %T, want AuditReport", result.Data)
	}
	if report.SEO.Overall < 0 || report.SEO.Overall > 100 {
		t.Errorf("overall = %d, want within [0,100]", report.SEO.Overall)
	}
	if report.HumanScore != 100-report.Detection.Score {
		t.Errorf("human score = %d, want %d", report.HumanScore, 100-report.Detection.Score)
	}
	if result.Metadata.Provider != "internal" {
		t.Errorf("provider = %q, want internal", result.Metadata.Provider)
	}
}

func TestHumanizeSkill(t *testing.T) {
	skill := NewHumanizeSkill(rand.New(rand.NewSource(42)))
	result, err := skill.Execute(context.Background(), domain.SkillInput{
		Content: "It's worth noting that this works. Furthermore, it is fast.",
	})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if result.Data == nil {
		t.Fatal("Data is nil")
	}
}
