package domain

import "time"

// ─── Credit Types ───────────────────────────────────────────────────────────
// These live in domain because they represent core business rules.
// The sqlite layer persists them; the executor consumes them.

// TransactionType represents the business reason for a credit operation.
type TransactionType string

const (
	TxPurchase    TransactionType = "PURCHASE"
	TxBonus       TransactionType = "BONUS"
	TxConsumption TransactionType = "CONSUMPTION"
)

// Account holds a user's current credit balance.
// Mutated only through ledger operations, never directly.
type Account struct {
	UserID    string    `json:"user_id"`
	Balance   int64     `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Transaction is a single immutable row in the credit ledger.
// Amount is signed: positive for grants/refunds, negative for consumption,
// so that SUM(amount) over an account always equals its balance.
type Transaction struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	Amount      int64           `json:"amount"`
	Type        TransactionType `json:"type"`
	Description string          `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ChargeResult is the outcome of a successful ledger charge.
type ChargeResult struct {
	RemainingBalance int64  `json:"remaining_balance"`
	TransactionID    string `json:"transaction_id"`
	Cost             int64  `json:"cost"`
}
