package sqlite

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/scaletotop/contentengine/internal/domain"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func seedSkill(t *testing.T, db *DB, name string, cost int64, active bool) {
	t.Helper()
	err := db.UpsertSkillConfig(context.Background(), domain.SkillConfig{
		Name:        name,
		DisplayName: name,
		Version:     "v1",
		Cost:        cost,
		IsActive:    active,
	})
	if err != nil {
		t.Fatalf("seed skill %s: %v", name, err)
	}
}

func mustReconcile(t *testing.T, db *DB, userID string) {
	t.Helper()
	balance, sum, err := db.Reconcile(context.Background(), userID)
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if balance != sum {
		t.Fatalf("ledger out of balance: account=%d sum=%d", balance, sum)
	}
}

// ─── Accounts ───────────────────────────────────────────────────────────────

func TestCreateAccount(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if err := db.CreateAccount(ctx, "u1", 100); err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}
	acct, err := db.GetAccount(ctx, "u1")
	if err != nil {
		t.Fatalf("GetAccount: %v", err)
	}
	if acct.Balance != 100 {
		t.Errorf("balance = %d, want 100", acct.Balance)
	}
	mustReconcile(t, db, "u1")

	// Re-creating must not double the welcome grant.
	if err := db.CreateAccount(ctx, "u1", 100); err != nil {
		t.Fatalf("CreateAccount (again): %v", err)
	}
	acct, _ = db.GetAccount(ctx, "u1")
	if acct.Balance != 100 {
		t.Errorf("balance after duplicate create = %d, want 100", acct.Balance)
	}
	mustReconcile(t, db, "u1")
}

func TestGetAccountNotFound(t *testing.T) {
	db := newTestDB(t)
	_, err := db.GetAccount(context.Background(), "ghost")
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Errorf("err = %v, want ErrAccountNotFound", err)
	}
}

// ─── Charging ───────────────────────────────────────────────────────────────

func TestChargeSuccess(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	db.CreateAccount(ctx, "u1", 100)
	seedSkill(t, db, "article-writer", 35, true)

	res, err := db.Charge(ctx, "u1", "article-writer", "Article generation")
	if err != nil {
		t.Fatalf("Charge: %v", err)
	}
	if res.Cost != 35 {
		t.Errorf("cost = %d, want 35", res.Cost)
	}
	if res.RemainingBalance != 65 {
		t.Errorf("remaining = %d, want 65", res.RemainingBalance)
	}
	if res.TransactionID == "" {
		t.Error("expected a transaction id for a priced charge")
	}

	txs, err := db.ListTransactions(ctx, "u1", 10)
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	var found bool
	for _, tx := range txs {
		if tx.ID == res.TransactionID {
			found = true
			if tx.Amount != -35 {
				t.Errorf("consumption amount = %d, want -35", tx.Amount)
			}
			if tx.Type != domain.TxConsumption {
				t.Errorf("type = %s, want CONSUMPTION", tx.Type)
			}
			if tx.Description != "Article generation (35 credits)" {
				t.Errorf("description = %q", tx.Description)
			}
		}
	}
	if !found {
		t.Error("consumption row not in ledger")
	}
	mustReconcile(t, db, "u1")
}

func TestChargeInsufficient(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	db.CreateAccount(ctx, "u1", 30)
	seedSkill(t, db, "article-writer", 50, true)

	_, err := db.Charge(ctx, "u1", "article-writer", "Article generation")
	ice, ok := domain.IsInsufficientCredits(err)
	if !ok {
		t.Fatalf("err = %v, want InsufficientCreditsError", err)
	}
	if ice.Required != 50 || ice.Current != 30 {
		t.Errorf("got required=%d current=%d, want 50/30", ice.Required, ice.Current)
	}

	acct, _ := db.GetAccount(ctx, "u1")
	if acct.Balance != 30 {
		t.Errorf("balance changed on failed charge: %d", acct.Balance)
	}
	if txs, _ := db.ListTransactions(ctx, "u1", 10); len(txs) != 1 {
		t.Errorf("failed charge wrote ledger rows: %d (want only welcome grant)", len(txs))
	}
}

func TestChargeSkillNotConfigured(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	db.CreateAccount(ctx, "u1", 100)

	_, err := db.Charge(ctx, "u1", "nope", "x")
	if !errors.Is(err, domain.ErrSkillNotConfigured) {
		t.Errorf("err = %v, want ErrSkillNotConfigured", err)
	}
}

func TestChargeSkillDisabled(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	db.CreateAccount(ctx, "u1", 100)
	seedSkill(t, db, "article-writer", 35, false)

	_, err := db.Charge(ctx, "u1", "article-writer", "x")
	if !errors.Is(err, domain.ErrSkillDisabled) {
		t.Errorf("err = %v, want ErrSkillDisabled", err)
	}
	acct, _ := db.GetAccount(ctx, "u1")
	if acct.Balance != 100 {
		t.Errorf("balance changed: %d", acct.Balance)
	}
}

func TestChargeZeroCostSkill(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	db.CreateAccount(ctx, "u1", 100)
	seedSkill(t, db, "seo-audit", 0, true)

	res, err := db.Charge(ctx, "u1", "seo-audit", "Audit")
	if err != nil {
		t.Fatalf("Charge: %v", err)
	}
	if res.Cost != 0 || res.RemainingBalance != 100 || res.TransactionID != "" {
		t.Errorf("free charge produced cost=%d rem=%d tx=%q", res.Cost, res.RemainingBalance, res.TransactionID)
	}
	mustReconcile(t, db, "u1")
}

// Concurrent charges against a balance that covers exactly one of them:
// exactly one must win.
func TestChargeConcurrent(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	db.CreateAccount(ctx, "u1", 35)
	seedSkill(t, db, "article-writer", 35, true)

	const workers = 8
	var wg sync.WaitGroup
	results := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := db.Charge(ctx, "u1", "article-writer", "race")
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var wins, insufficient int
	for err := range results {
		switch {
		case err == nil:
			wins++
		default:
			if _, ok := domain.IsInsufficientCredits(err); ok {
				insufficient++
			} else {
				t.Errorf("unexpected error: %v", err)
			}
		}
	}
	if wins != 1 {
		t.Errorf("winners = %d, want exactly 1", wins)
	}
	if insufficient != workers-1 {
		t.Errorf("insufficient = %d, want %d", insufficient, workers-1)
	}
	acct, _ := db.GetAccount(ctx, "u1")
	if acct.Balance != 0 {
		t.Errorf("final balance = %d, want 0", acct.Balance)
	}
	mustReconcile(t, db, "u1")
}

// ─── Grants, Purchases, Reverts ─────────────────────────────────────────────

func TestGrantPositiveAndNegative(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	db.CreateAccount(ctx, "u1", 10)

	bal, err := db.Grant(ctx, "u1", 40, "promo")
	if err != nil {
		t.Fatalf("Grant: %v", err)
	}
	if bal != 50 {
		t.Errorf("balance = %d, want 50", bal)
	}

	bal, err = db.Grant(ctx, "u1", -20, "correction")
	if err != nil {
		t.Fatalf("negative Grant: %v", err)
	}
	if bal != 30 {
		t.Errorf("balance = %d, want 30", bal)
	}

	txs, _ := db.ListTransactions(ctx, "u1", 10)
	types := map[domain.TransactionType]int{}
	for _, tx := range txs {
		types[tx.Type]++
	}
	if types[domain.TxBonus] != 2 { // welcome + promo
		t.Errorf("BONUS rows = %d, want 2", types[domain.TxBonus])
	}
	if types[domain.TxConsumption] != 1 {
		t.Errorf("CONSUMPTION rows = %d, want 1", types[domain.TxConsumption])
	}
	mustReconcile(t, db, "u1")
}

func TestGrantCannotGoNegative(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	db.CreateAccount(ctx, "u1", 10)

	_, err := db.Grant(ctx, "u1", -25, "oops")
	if _, ok := domain.IsInsufficientCredits(err); !ok {
		t.Errorf("err = %v, want InsufficientCreditsError", err)
	}
	acct, _ := db.GetAccount(ctx, "u1")
	if acct.Balance != 10 {
		t.Errorf("balance = %d, want 10", acct.Balance)
	}
}

func TestRevert(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	db.CreateAccount(ctx, "u1", 100)
	seedSkill(t, db, "article-writer", 35, true)

	res, err := db.Charge(ctx, "u1", "article-writer", "to revert")
	if err != nil {
		t.Fatalf("Charge: %v", err)
	}

	bal, err := db.Revert(ctx, res.TransactionID)
	if err != nil {
		t.Fatalf("Revert: %v", err)
	}
	if bal != 100 {
		t.Errorf("balance after revert = %d, want 100", bal)
	}
	txs, _ := db.ListTransactions(ctx, "u1", 10)
	for _, tx := range txs {
		if tx.ID == res.TransactionID {
			t.Error("reverted row still in ledger")
		}
	}
	mustReconcile(t, db, "u1")

	if _, err := db.Revert(ctx, res.TransactionID); !errors.Is(err, domain.ErrTxNotFound) {
		t.Errorf("second revert err = %v, want ErrTxNotFound", err)
	}
}

func TestRevertPurchaseRejected(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	db.CreateAccount(ctx, "u1", 0)

	txID, err := db.AddPurchase(ctx, "u1", 500, "Starter pack")
	if err != nil {
		t.Fatalf("AddPurchase: %v", err)
	}
	if _, err := db.Revert(ctx, txID); !errors.Is(err, domain.ErrReversalNotAllowed) {
		t.Errorf("err = %v, want ErrReversalNotAllowed", err)
	}
	acct, _ := db.GetAccount(ctx, "u1")
	if acct.Balance != 500 {
		t.Errorf("balance = %d, want 500", acct.Balance)
	}
	mustReconcile(t, db, "u1")
}
