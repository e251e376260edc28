package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(creditsCmd)
	creditsCmd.AddCommand(creditsBalanceCmd)
	creditsCmd.AddCommand(creditsGrantCmd)
	creditsCmd.AddCommand(creditsRevertCmd)
	creditsCmd.AddCommand(creditsHistoryCmd)

	creditsGrantCmd.Flags().String("reason", "manual grant", "Reason recorded on the ledger row")
	creditsBalanceCmd.Flags().Bool("create", false, "Create the account with welcome credits if missing")
	creditsHistoryCmd.Flags().Int("limit", 20, "Maximum rows to show")
}

var creditsCmd = &cobra.Command{
	Use:   "credits",
	Short: "Manage user credit accounts",
}

// ─── credits balance ────────────────────────────────────────────────────────

var creditsBalanceCmd = &cobra.Command{
	Use:   "balance USER_ID",
	Short: "Show an account's balance and verify the ledger",
	Args:  cobra.ExactArgs(1),
	RunE:  runCreditsBalance,
}

func runCreditsBalance(cmd *cobra.Command, args []string) error {
	userID := args[0]
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()
	ctx := context.Background()

	if create, _ := cmd.Flags().GetBool("create"); create {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := db.CreateAccount(ctx, userID, cfg.Credits.WelcomeCredits); err != nil {
			return err
		}
	}

	balance, ledgerSum, err := db.Reconcile(ctx, userID)
	if err != nil {
		return err
	}
	fmt.Printf("User:    %s\n", userID)
	fmt.Printf("Balance: %d credits\n", balance)
	if balance != ledgerSum {
		fmt.Printf("WARNING: ledger sum is %d, account is out of balance\n", ledgerSum)
	}
	return nil
}

// ─── credits grant ──────────────────────────────────────────────────────────

var creditsGrantCmd = &cobra.Command{
	Use:   "grant USER_ID AMOUNT",
	Short: "Grant (or with a negative amount, deduct) credits",
	Long: `Apply an admin adjustment to an account. Positive amounts are
recorded as BONUS, negative amounts as CONSUMPTION. An adjustment that
would push the balance below zero is rejected.`,
	Args: cobra.ExactArgs(2),
	RunE: runCreditsGrant,
}

func runCreditsGrant(cmd *cobra.Command, args []string) error {
	amount, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", args[1], err)
	}
	reason, _ := cmd.Flags().GetString("reason")

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	balance, err := db.Grant(context.Background(), args[0], amount, reason)
	if err != nil {
		return err
	}
	fmt.Printf("Adjusted %s by %+d credits, new balance: %d\n", args[0], amount, balance)
	return nil
}

// ─── credits revert ─────────────────────────────────────────────────────────

var creditsRevertCmd = &cobra.Command{
	Use:   "revert TRANSACTION_ID",
	Short: "Undo a bonus or consumption transaction",
	Long: `Delete a ledger row and adjust the balance by the inverse amount.
Purchase transactions cannot be reverted.`,
	Args: cobra.ExactArgs(1),
	RunE: runCreditsRevert,
}

func runCreditsRevert(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	balance, err := db.Revert(context.Background(), args[0])
	if err != nil {
		return err
	}
	fmt.Printf("Reverted %s, new balance: %d\n", args[0], balance)
	return nil
}

// ─── credits history ────────────────────────────────────────────────────────

var creditsHistoryCmd = &cobra.Command{
	Use:   "history USER_ID",
	Short: "Show an account's recent ledger rows",
	Args:  cobra.ExactArgs(1),
	RunE:  runCreditsHistory,
}

func runCreditsHistory(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	txs, err := db.ListTransactions(context.Background(), args[0], limit)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tAMOUNT\tTYPE\tDESCRIPTION\tCREATED")
	for _, tx := range txs {
		fmt.Fprintf(w, "%s\t%+d\t%s\t%s\t%s\n",
			tx.ID, tx.Amount, tx.Type, tx.Description, tx.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}
