package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/scaletotop/contentengine/internal/domain"
)

// ─── Execution Records ──────────────────────────────────────────────────────

func insertExecutionTx(ctx context.Context, tx *sql.Tx, exec *domain.SkillExecution) error {
	if exec.ID == "" {
		exec.ID = uuid.NewString()
	}
	inputJSON, err := json.Marshal(exec.Input)
	if err != nil {
		return fmt.Errorf("marshal execution input: %w", err)
	}
	var txID any
	if exec.TransactionID != "" {
		txID = exec.TransactionID
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO skill_executions
			(id, user_id, skill_name, transaction_id, primary_keyword, input_json,
			 output_json, status, latency_ms, model_used, provider, tokens_used)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		exec.ID, exec.UserID, exec.SkillName, txID, exec.Input.PrimaryKeyword(),
		string(inputJSON), exec.OutputJSON, exec.Status, exec.LatencyMS,
		exec.ModelUsed, exec.Provider, exec.TokensUsed)
	if err != nil {
		return fmt.Errorf("insert execution record: %w", err)
	}
	return nil
}

// InsertExecution writes a standalone execution record. Used for failures
// and free invocations, where no charge accompanies the record.
func (db *DB) InsertExecution(ctx context.Context, exec *domain.SkillExecution) error {
	tx, err := db.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := insertExecutionTx(ctx, tx, exec); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	db.noteSuccess(exec)
	return nil
}

// ChargeExecution lands the charge and the success record in a single
// transaction, so a crash can never leave a charge without its execution
// or an execution without its charge. exec.TransactionID is filled from
// the consumption row.
func (db *DB) ChargeExecution(ctx context.Context, exec *domain.SkillExecution, description string) (*domain.ChargeResult, error) {
	tx, err := db.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	res, err := chargeTx(ctx, tx, exec.UserID, exec.SkillName, description)
	if err != nil {
		return nil, err
	}
	exec.TransactionID = res.TransactionID
	if err := insertExecutionTx(ctx, tx, exec); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	db.noteSuccess(exec)
	return res, nil
}

// noteSuccess marks a committed successful execution in the waiver filter.
func (db *DB) noteSuccess(exec *domain.SkillExecution) {
	if exec.Status != domain.ExecSuccess {
		return
	}
	if kw := exec.Input.PrimaryKeyword(); kw != "" {
		db.waivers.add(waiverKey(exec.UserID, exec.SkillName, kw))
	}
}

// HasPriorSuccess reports whether the user already has a successful
// execution of skillName whose primary query parameter matches keyword.
// The repeat-waiver hinges on this lookup; an empty keyword never matches.
// The Bloom pre-filter short-circuits the common first-time case; a filter
// hit still verifies against the table.
func (db *DB) HasPriorSuccess(ctx context.Context, userID, skillName, keyword string) (bool, error) {
	if keyword == "" {
		return false, nil
	}
	if !db.waivers.mayContain(waiverKey(userID, skillName, keyword)) {
		return false, nil
	}
	var n int
	err := db.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM skill_executions
		 WHERE user_id = ? AND skill_name = ? AND status = 'success' AND primary_keyword = ?`,
		userID, skillName, keyword).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListExecutions returns the user's execution history, newest first.
func (db *DB) ListExecutions(ctx context.Context, userID string, limit int) ([]domain.SkillExecution, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.db.QueryContext(ctx,
		`SELECT id, user_id, skill_name, COALESCE(transaction_id, ''), input_json,
			output_json, status, latency_ms, model_used, provider, tokens_used, created_at
		 FROM skill_executions WHERE user_id = ?
		 ORDER BY created_at DESC, id DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.SkillExecution
	for rows.Next() {
		var e domain.SkillExecution
		var inputJSON, created string
		if err := rows.Scan(&e.ID, &e.UserID, &e.SkillName, &e.TransactionID, &inputJSON,
			&e.OutputJSON, &e.Status, &e.LatencyMS, &e.ModelUsed, &e.Provider, &e.TokensUsed, &created); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(inputJSON), &e.Input); err != nil {
			return nil, fmt.Errorf("decode execution input: %w", err)
		}
		e.CreatedAt = parseTime(created)
		out = append(out, e)
	}
	return out, rows.Err()
}
