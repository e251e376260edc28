package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/scaletotop/contentengine/internal/domain"
)

const sqliteTimeLayout = "2006-01-02 15:04:05"

func parseTime(s string) time.Time {
	t, err := time.Parse(sqliteTimeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}

// ─── Accounts ───────────────────────────────────────────────────────────────

// CreateAccount opens a credit account with a welcome grant. The grant is
// recorded as a BONUS row so the ledger sums to the balance from day one.
// Creating an account that already exists is a no-op.
func (db *DB) CreateAccount(ctx context.Context, userID string, welcomeCredits int64) error {
	tx, err := db.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO credit_accounts (user_id, balance) VALUES (?, ?)`,
		userID, welcomeCredits)
	if err != nil {
		return fmt.Errorf("create account: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil // already exists
	}
	if welcomeCredits > 0 {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO credit_transactions (id, user_id, amount, type, description) VALUES (?, ?, ?, ?, ?)`,
			uuid.NewString(), userID, welcomeCredits, domain.TxBonus, "Welcome credits")
		if err != nil {
			return fmt.Errorf("record welcome grant: %w", err)
		}
	}
	return tx.Commit()
}

// GetAccount returns the account row for userID.
func (db *DB) GetAccount(ctx context.Context, userID string) (*domain.Account, error) {
	var a domain.Account
	var created, updated string
	err := db.db.QueryRowContext(ctx,
		`SELECT user_id, balance, created_at, updated_at FROM credit_accounts WHERE user_id = ?`,
		userID).Scan(&a.UserID, &a.Balance, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	a.CreatedAt = parseTime(created)
	a.UpdatedAt = parseTime(updated)
	return &a, nil
}

// ─── Charging ───────────────────────────────────────────────────────────────

// chargeTx performs the atomic charge inside an open transaction: cost is
// read from skill_configs at charge time, the balance is re-checked under
// the write lock, then decrement and CONSUMPTION row land together. The
// row's amount is negative so SUM(amount) tracks the balance.
func chargeTx(ctx context.Context, tx *sql.Tx, userID, skillName, description string) (*domain.ChargeResult, error) {
	var cost int64
	var active bool
	err := tx.QueryRowContext(ctx,
		`SELECT cost, is_active FROM skill_configs WHERE name = ?`, skillName).
		Scan(&cost, &active)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrSkillNotConfigured
	}
	if err != nil {
		return nil, err
	}
	if !active {
		return nil, domain.ErrSkillDisabled
	}

	var balance int64
	err = tx.QueryRowContext(ctx,
		`SELECT balance FROM credit_accounts WHERE user_id = ?`, userID).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	if balance < cost {
		return nil, &domain.InsufficientCreditsError{Required: cost, Current: balance}
	}

	txID := uuid.NewString()
	if cost > 0 {
		_, err = tx.ExecContext(ctx,
			`UPDATE credit_accounts SET balance = balance - ?, updated_at = datetime('now') WHERE user_id = ?`,
			cost, userID)
		if err != nil {
			return nil, fmt.Errorf("decrement balance: %w", err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO credit_transactions (id, user_id, amount, type, description) VALUES (?, ?, ?, ?, ?)`,
			txID, userID, -cost, domain.TxConsumption,
			fmt.Sprintf("%s (%d credits)", description, cost))
		if err != nil {
			return nil, fmt.Errorf("record consumption: %w", err)
		}
	} else {
		txID = ""
	}
	return &domain.ChargeResult{
		RemainingBalance: balance - cost,
		TransactionID:    txID,
		Cost:             cost,
	}, nil
}

// Charge atomically deducts the configured cost of skillName from userID's
// account. All failure modes leave the account untouched.
func (db *DB) Charge(ctx context.Context, userID, skillName, description string) (*domain.ChargeResult, error) {
	tx, err := db.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	res, err := chargeTx(ctx, tx, userID, skillName, description)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return res, nil
}

// Grant applies an admin adjustment. Positive amounts are recorded as BONUS,
// negative as CONSUMPTION, so the sum invariant holds either way. A negative
// grant that would push the balance below zero is rejected.
func (db *DB) Grant(ctx context.Context, userID string, amount int64, reason string) (int64, error) {
	tx, err := db.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var balance int64
	err = tx.QueryRowContext(ctx,
		`SELECT balance FROM credit_accounts WHERE user_id = ?`, userID).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, domain.ErrAccountNotFound
	}
	if err != nil {
		return 0, err
	}
	if balance+amount < 0 {
		return 0, &domain.InsufficientCreditsError{Required: -amount, Current: balance}
	}

	txType := domain.TxBonus
	if amount < 0 {
		txType = domain.TxConsumption
	}
	_, err = tx.ExecContext(ctx,
		`UPDATE credit_accounts SET balance = balance + ?, updated_at = datetime('now') WHERE user_id = ?`,
		amount, userID)
	if err != nil {
		return 0, err
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO credit_transactions (id, user_id, amount, type, description) VALUES (?, ?, ?, ?, ?)`,
		uuid.NewString(), userID, amount, txType, "Admin adjustment: "+reason)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return balance + amount, nil
}

// AddPurchase credits a paid top-up to the account.
func (db *DB) AddPurchase(ctx context.Context, userID string, amount int64, description string) (string, error) {
	if amount <= 0 {
		return "", fmt.Errorf("purchase amount must be positive, got %d", amount)
	}
	tx, err := db.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE credit_accounts SET balance = balance + ?, updated_at = datetime('now') WHERE user_id = ?`,
		amount, userID)
	if err != nil {
		return "", err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return "", domain.ErrAccountNotFound
	}
	txID := uuid.NewString()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO credit_transactions (id, user_id, amount, type, description) VALUES (?, ?, ?, ?, ?)`,
		txID, userID, amount, domain.TxPurchase, description)
	if err != nil {
		return "", err
	}
	if err := tx.Commit(); err != nil {
		return "", err
	}
	return txID, nil
}

// Revert undoes a BONUS or CONSUMPTION transaction: the row is deleted and
// the balance adjusted by the inverse amount. PURCHASE rows are money and
// cannot be reverted here.
func (db *DB) Revert(ctx context.Context, txID string) (int64, error) {
	tx, err := db.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var userID string
	var amount int64
	var txType domain.TransactionType
	err = tx.QueryRowContext(ctx,
		`SELECT user_id, amount, type FROM credit_transactions WHERE id = ?`, txID).
		Scan(&userID, &amount, &txType)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, domain.ErrTxNotFound
	}
	if err != nil {
		return 0, err
	}
	if txType == domain.TxPurchase {
		return 0, domain.ErrReversalNotAllowed
	}

	var balance int64
	if err := tx.QueryRowContext(ctx,
		`SELECT balance FROM credit_accounts WHERE user_id = ?`, userID).Scan(&balance); err != nil {
		return 0, err
	}
	if balance-amount < 0 {
		return 0, &domain.InsufficientCreditsError{Required: amount, Current: balance}
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM credit_transactions WHERE id = ?`, txID); err != nil {
		return 0, err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE credit_accounts SET balance = balance - ?, updated_at = datetime('now') WHERE user_id = ?`,
		amount, userID); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return balance - amount, nil
}

// Reconcile verifies the sum invariant for one account: the stored balance
// must equal SUM(amount) over its ledger rows. Returns both figures.
func (db *DB) Reconcile(ctx context.Context, userID string) (balance, ledgerSum int64, err error) {
	err = db.db.QueryRowContext(ctx,
		`SELECT balance FROM credit_accounts WHERE user_id = ?`, userID).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, 0, domain.ErrAccountNotFound
	}
	if err != nil {
		return 0, 0, err
	}
	err = db.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM credit_transactions WHERE user_id = ?`, userID).Scan(&ledgerSum)
	if err != nil {
		return 0, 0, err
	}
	return balance, ledgerSum, nil
}

// ListTransactions returns the account's ledger rows, newest first.
func (db *DB) ListTransactions(ctx context.Context, userID string, limit int) ([]domain.Transaction, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.db.QueryContext(ctx,
		`SELECT id, user_id, amount, type, description, created_at
		 FROM credit_transactions WHERE user_id = ?
		 ORDER BY created_at DESC, id DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Transaction
	for rows.Next() {
		var t domain.Transaction
		var created string
		if err := rows.Scan(&t.ID, &t.UserID, &t.Amount, &t.Type, &t.Description, &created); err != nil {
			return nil, err
		}
		t.CreatedAt = parseTime(created)
		out = append(out, t)
	}
	return out, rows.Err()
}
