// Package domain contains pure business types with ZERO infrastructure imports.
// This is the innermost ring of clean architecture — it depends on nothing.
package domain

import (
	"strings"
	"time"
)

// ─── Skill Types ────────────────────────────────────────────────────────────

// SkillConfig is the admin-editable pricing row for a named skill.
// Cost is looked up at charge time, never cached, so price changes
// take effect immediately.
type SkillConfig struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Description string `json:"description,omitempty"`
	Version     string `json:"version"`
	Cost        int64  `json:"cost"`
	IsActive    bool   `json:"is_active"`
}

// SkillInput is the request payload passed to a skill.
type SkillInput struct {
	// Content to process, for content-based skills.
	Content string `json:"content,omitempty"`
	// Target keywords, primary first.
	Keywords []string `json:"keywords,omitempty"`
	// Title and Description for metadata-aware skills.
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	// Brand name for entity binding.
	BrandName string `json:"brand_name,omitempty"`
	// Audit-only requests run analysis without generation and are free.
	AuditOnly bool `json:"audit_only,omitempty"`
	// Additional skill-specific parameters.
	Extra map[string]string `json:"extra,omitempty"`
}

// PrimaryKeyword returns the normalized primary query parameter used by the
// repeat-waiver: the first keyword, trimmed and lowercased. Matching is exact
// on this one field; all other input fields are ignored for the comparison.
func (in SkillInput) PrimaryKeyword() string {
	if len(in.Keywords) == 0 {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(in.Keywords[0]))
}

// ExecutionMetadata describes how a skill produced its output.
type ExecutionMetadata struct {
	ModelUsed  string `json:"model_used,omitempty"`
	Provider   string `json:"provider,omitempty"`
	TokensUsed int64  `json:"tokens_used,omitempty"`
}

// SkillResult is the opaque payload a skill returns on success.
type SkillResult struct {
	Data     any               `json:"data"`
	Metadata ExecutionMetadata `json:"metadata"`
}

// ─── Execution Records ──────────────────────────────────────────────────────

// ExecutionStatus is the terminal state of a skill invocation.
type ExecutionStatus string

const (
	ExecSuccess ExecutionStatus = "success"
	ExecFailure ExecutionStatus = "failure"
)

// SkillExecution is the write-once audit record for one invocation.
// TransactionID is empty when the invocation was free.
type SkillExecution struct {
	ID            string          `json:"id"`
	UserID        string          `json:"user_id"`
	SkillName     string          `json:"skill_name"`
	TransactionID string          `json:"transaction_id,omitempty"`
	Input         SkillInput      `json:"input"`
	OutputJSON    string          `json:"output,omitempty"`
	Status        ExecutionStatus `json:"status"`
	LatencyMS     int64           `json:"latency_ms"`
	ModelUsed     string          `json:"model_used,omitempty"`
	Provider      string          `json:"provider,omitempty"`
	TokensUsed    int64           `json:"tokens_used,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}
