// Package executor orchestrates the metered skill lifecycle:
// resolve pricing, pre-check the balance, invoke the skill, then settle
// the charge and the execution record atomically.
//
// The charge lands strictly after a successful invocation. A failed
// invocation is recorded but never charged; a failed charge records
// nothing, so an uncharged run can never earn the repeat waiver.
package executor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/scaletotop/contentengine/internal/domain"
	"github.com/scaletotop/contentengine/internal/infra/observability"
	"github.com/scaletotop/contentengine/internal/infra/sqlite"
	"github.com/scaletotop/contentengine/internal/skills"
)

// Waiver reasons recorded on free executions.
const (
	WaiverAuditOnly = "audit_only"
	WaiverRepeat    = "repeat"
	WaiverZeroCost  = "zero_cost"
)

// Config controls executor behavior.
type Config struct {
	MaxConcurrent  int           // maximum concurrent skill invocations (default: 4)
	DefaultTimeout time.Duration // per-invocation timeout (default: 2m)
}

// DefaultConfig returns safe executor defaults.
func DefaultConfig() Config {
	return Config{
		MaxConcurrent:  4,
		DefaultTimeout: 2 * time.Minute,
	}
}

// Executor runs registered skills against the credit ledger.
type Executor struct {
	mu        sync.RWMutex
	config    Config
	registry  *skills.Registry
	db        *sqlite.DB
	sem       chan struct{}
	active    int
	completed int64
	failed    int64
}

// New creates an executor over the given registry and store.
func New(cfg Config, reg *skills.Registry, db *sqlite.DB) *Executor {
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = DefaultConfig().MaxConcurrent
	}
	if cfg.DefaultTimeout <= 0 {
		cfg.DefaultTimeout = DefaultConfig().DefaultTimeout
	}
	return &Executor{
		config:   cfg,
		registry: reg,
		db:       db,
		sem:      make(chan struct{}, cfg.MaxConcurrent),
	}
}

// Outcome is the caller-facing result of one metered invocation.
type Outcome struct {
	ExecutionID      string             `json:"execution_id"`
	Result           domain.SkillResult `json:"result"`
	Charged          bool               `json:"charged"`
	Cost             int64              `json:"cost"`
	RemainingBalance int64              `json:"remaining_balance"`
	TransactionID    string             `json:"transaction_id,omitempty"`
	WaiverReason     string             `json:"waiver_reason,omitempty"`
	LatencyMS        int64              `json:"latency_ms"`
}

// Execute runs skillName for userID and settles the ledger. Blocks until a
// concurrency slot is free or ctx is done.
func (e *Executor) Execute(ctx context.Context, userID, skillName string, input domain.SkillInput) (*Outcome, error) {
	select {
	case e.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() { <-e.sem }()

	e.mu.Lock()
	e.active++
	e.mu.Unlock()
	defer func() {
		e.mu.Lock()
		e.active--
		e.mu.Unlock()
	}()

	skill, err := e.registry.Get(skillName)
	if err != nil {
		return nil, err
	}

	cost, waiver, err := e.resolveCost(ctx, userID, skillName, input)
	if err != nil {
		observability.ChargeFailures.WithLabelValues(failureCause(err)).Inc()
		return nil, err
	}

	// Pre-check so an obviously unaffordable request never invokes the
	// skill, and so a free run against a nonexistent account fails fast.
	// The authoritative balance check runs again inside the charge.
	acct, err := e.db.GetAccount(ctx, userID)
	if err != nil {
		return nil, err
	}
	if acct.Balance < cost {
		observability.ChargeFailures.WithLabelValues("insufficient").Inc()
		return nil, &domain.InsufficientCreditsError{Required: cost, Current: acct.Balance}
	}

	execCtx, cancel := context.WithTimeout(ctx, e.config.DefaultTimeout)
	defer cancel()

	start := time.Now()
	result, execErr := skill.Execute(execCtx, input)
	latency := time.Since(start).Milliseconds()

	observability.SkillLatency.WithLabelValues(skillName).Observe(float64(latency))

	if execErr != nil {
		e.recordFailure(ctx, userID, skillName, input, latency, execErr)
		return nil, fmt.Errorf("%w: %v", domain.ErrSkillExecutionFailed, execErr)
	}

	outputJSON, err := json.Marshal(result.Data)
	if err != nil {
		e.recordFailure(ctx, userID, skillName, input, latency, err)
		return nil, fmt.Errorf("%w: encode output: %v", domain.ErrSkillExecutionFailed, err)
	}

	exec := &domain.SkillExecution{
		UserID:     userID,
		SkillName:  skillName,
		Input:      input,
		OutputJSON: string(outputJSON),
		Status:     domain.ExecSuccess,
		LatencyMS:  latency,
		ModelUsed:  result.Metadata.ModelUsed,
		Provider:   result.Metadata.Provider,
		TokensUsed: result.Metadata.TokensUsed,
	}

	outcome := &Outcome{
		Result:       result,
		Cost:         cost,
		WaiverReason: waiver,
		LatencyMS:    latency,
	}

	if cost == 0 {
		if err := e.db.InsertExecution(ctx, exec); err != nil {
			return nil, fmt.Errorf("record execution: %w", err)
		}
		// The balance is untouched by a free run; report it so callers
		// can render the credit counter from any outcome.
		outcome.RemainingBalance = acct.Balance
		observability.ChargesWaived.WithLabelValues(waiver).Inc()
	} else {
		charge, err := e.db.ChargeExecution(ctx, exec, skillDescription(skillName))
		if err != nil {
			observability.ChargeFailures.WithLabelValues(failureCause(err)).Inc()
			observability.SkillExecutions.WithLabelValues(skillName, "failure").Inc()
			return nil, err
		}
		outcome.Charged = true
		outcome.Cost = charge.Cost
		outcome.RemainingBalance = charge.RemainingBalance
		outcome.TransactionID = charge.TransactionID
		observability.CreditsCharged.WithLabelValues(skillName).Add(float64(charge.Cost))
	}

	outcome.ExecutionID = exec.ID
	observability.SkillExecutions.WithLabelValues(skillName, "success").Inc()

	e.mu.Lock()
	e.completed++
	e.mu.Unlock()

	log.Printf("[executor] skill=%s user=%s cost=%d waiver=%q latency=%dms",
		skillName, userID, outcome.Cost, waiver, latency)
	return outcome, nil
}

// resolveCost returns the credits this invocation will cost and, when zero,
// the waiver reason. Pricing comes from the admin-editable config row, read
// fresh on every call.
func (e *Executor) resolveCost(ctx context.Context, userID, skillName string, input domain.SkillInput) (int64, string, error) {
	cfg, err := e.db.GetSkillConfig(ctx, skillName)
	if err != nil {
		return 0, "", err
	}
	if !cfg.IsActive {
		return 0, "", domain.ErrSkillDisabled
	}
	if input.AuditOnly {
		return 0, WaiverAuditOnly, nil
	}
	if cfg.Cost == 0 {
		return 0, WaiverZeroCost, nil
	}
	if kw := input.PrimaryKeyword(); kw != "" {
		repeat, err := e.db.HasPriorSuccess(ctx, userID, skillName, kw)
		if err != nil {
			return 0, "", err
		}
		if repeat {
			return 0, WaiverRepeat, nil
		}
	}
	return cfg.Cost, "", nil
}

func (e *Executor) recordFailure(ctx context.Context, userID, skillName string, input domain.SkillInput, latency int64, execErr error) {
	exec := &domain.SkillExecution{
		UserID:     userID,
		SkillName:  skillName,
		Input:      input,
		OutputJSON: fmt.Sprintf(`{"error":%q}`, execErr.Error()),
		Status:     domain.ExecFailure,
		LatencyMS:  latency,
	}
	if err := e.db.InsertExecution(ctx, exec); err != nil {
		log.Printf("[executor] failed to record failure for skill=%s user=%s: %v", skillName, userID, err)
	}
	observability.SkillExecutions.WithLabelValues(skillName, "failure").Inc()

	e.mu.Lock()
	e.failed++
	e.mu.Unlock()
}

func skillDescription(skillName string) string {
	return "Skill execution: " + skillName
}

func failureCause(err error) string {
	switch {
	case errors.Is(err, domain.ErrSkillNotConfigured):
		return "not_configured"
	case errors.Is(err, domain.ErrSkillDisabled):
		return "disabled"
	default:
		if _, ok := domain.IsInsufficientCredits(err); ok {
			return "insufficient"
		}
		return "other"
	}
}

// Stats reports executor load counters.
type Stats struct {
	Active    int   `json:"active"`
	Completed int64 `json:"completed"`
	Failed    int64 `json:"failed"`
	MaxSlots  int   `json:"max_slots"`
	FreeSlots int   `json:"free_slots"`
}

// Stats returns current executor statistics.
func (e *Executor) Stats() Stats {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return Stats{
		Active:    e.active,
		Completed: e.completed,
		Failed:    e.failed,
		MaxSlots:  e.config.MaxConcurrent,
		FreeSlots: e.config.MaxConcurrent - e.active,
	}
}
