// Package skills defines the pluggable skill boundary and the registry the
// executor resolves skills from.
//
// A skill is a named AI operation. The registry is an explicit object
// constructed once at startup and passed by injection — register once,
// look up by name, no hidden global state.
package skills

import (
	"context"
	"fmt"
	"sync"

	"github.com/scaletotop/contentengine/internal/domain"
)

// Skill is a named, possibly slow, possibly failing operation. The executor
// treats Execute as opaque; pricing and metering live outside the skill.
type Skill interface {
	Name() string
	Execute(ctx context.Context, input domain.SkillInput) (domain.SkillResult, error)
}

// Registry holds the registered skills for lookup by name.
type Registry struct {
	mu     sync.RWMutex
	skills map[string]Skill
}

// NewRegistry creates an empty skill registry.
func NewRegistry() *Registry {
	return &Registry{skills: make(map[string]Skill)}
}

// Register adds a skill. Registering the same name twice overwrites the
// earlier entry.
func (r *Registry) Register(s Skill) {
	r.mu.Lock()
	r.skills[s.Name()] = s
	r.mu.Unlock()
}

// Get returns the skill registered under name.
func (r *Registry) Get(name string) (Skill, error) {
	r.mu.RLock()
	s, ok := r.skills[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrSkillNotRegistered, name)
	}
	return s, nil
}

// Has reports whether a skill is registered under name.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	_, ok := r.skills[name]
	r.mu.RUnlock()
	return ok
}

// Names returns all registered skill names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.skills))
	for name := range r.skills {
		names = append(names, name)
	}
	return names
}
