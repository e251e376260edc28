// Package cli implements the contentengine command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/scaletotop/contentengine/internal/daemon"
	"github.com/scaletotop/contentengine/internal/infra/sqlite"
)

var configPath string

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config.toml (default: ~/.contentengine/config.toml)")
}

var rootCmd = &cobra.Command{
	Use:   "contentengine",
	Short: "Content intelligence and credit metering engine",
	Long: `contentengine runs the content intelligence stack: SEO scoring,
AI-pattern detection, humanizing, and metered skill execution against
a per-user credit ledger.

Run 'contentengine serve' to start the API server, or use the admin
subcommands (skills, credits) to manage pricing and accounts directly.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadConfig loads the effective configuration for any subcommand.
func loadConfig() (daemon.Config, error) {
	return daemon.LoadConfig(configPath)
}

// openStore opens the database directly for one-shot admin commands.
// The caller must Close it.
func openStore() (*sqlite.DB, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return sqlite.Open(cfg.Storage.DataDir)
}
