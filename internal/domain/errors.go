package domain

import (
	"errors"
	"fmt"
)

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure — no infrastructure dependency.
// Ledger and executor failures are returned as typed results and never
// escape the component boundary as panics.

var (
	// Skill errors
	ErrSkillNotConfigured = errors.New("skill configuration not found")
	ErrSkillDisabled      = errors.New("skill is currently disabled by admin")
	ErrSkillNotRegistered = errors.New("skill not registered")

	// Ledger errors
	ErrAccountNotFound    = errors.New("credit account not found")
	ErrTxNotFound         = errors.New("credit transaction not found")
	ErrReversalNotAllowed = errors.New("purchase transactions cannot be reverted")

	// Execution errors
	ErrSkillExecutionFailed = errors.New("skill execution failed")
)

// InsufficientCreditsError reports a failed charge with the figures the
// caller needs for user-facing display.
type InsufficientCreditsError struct {
	Required int64
	Current  int64
}

func (e *InsufficientCreditsError) Error() string {
	return fmt.Sprintf("insufficient credits: required %d, current %d", e.Required, e.Current)
}

// IsInsufficientCredits reports whether err is an InsufficientCreditsError,
// returning it for display if so.
func IsInsufficientCredits(err error) (*InsufficientCreditsError, bool) {
	var ice *InsufficientCreditsError
	if errors.As(err, &ice) {
		return ice, true
	}
	return nil, false
}
