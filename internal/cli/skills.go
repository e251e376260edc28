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
	rootCmd.AddCommand(skillsCmd)
	skillsCmd.AddCommand(skillsListCmd)
	skillsCmd.AddCommand(skillsSetCostCmd)
	skillsCmd.AddCommand(skillsToggleCmd)
}

var skillsCmd = &cobra.Command{
	Use:   "skills",
	Short: "Manage skill pricing and availability",
}

// ─── skills list ────────────────────────────────────────────────────────────

var skillsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured skills",
	RunE:  runSkillsList,
}

func runSkillsList(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	configs, err := db.ListSkillConfigs(context.Background())
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tDISPLAY\tVERSION\tCOST\tACTIVE")
	for _, cfg := range configs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%v\n",
			cfg.Name, cfg.DisplayName, cfg.Version, cfg.Cost, cfg.IsActive)
	}
	return w.Flush()
}

// ─── skills set-cost ────────────────────────────────────────────────────────

var skillsSetCostCmd = &cobra.Command{
	Use:   "set-cost SKILL COST",
	Short: "Set a skill's per-execution credit cost",
	Long:  `Set the credit cost of a skill. Takes effect on the next charge.`,
	Args:  cobra.ExactArgs(2),
	RunE:  runSkillsSetCost,
}

func runSkillsSetCost(cmd *cobra.Command, args []string) error {
	cost, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid cost %q: %w", args[1], err)
	}

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.SetSkillCost(context.Background(), args[0], cost); err != nil {
		return err
	}
	fmt.Printf("Skill %s now costs %d credits per execution\n", args[0], cost)
	return nil
}

// ─── skills toggle ──────────────────────────────────────────────────────────

var skillsToggleCmd = &cobra.Command{
	Use:   "toggle SKILL on|off",
	Short: "Enable or disable a skill",
	Args:  cobra.ExactArgs(2),
	RunE:  runSkillsToggle,
}

func runSkillsToggle(cmd *cobra.Command, args []string) error {
	var active bool
	switch args[1] {
	case "on":
		active = true
	case "off":
		active = false
	default:
		return fmt.Errorf("expected on or off, got %q", args[1])
	}

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.SetSkillActive(context.Background(), args[0], active); err != nil {
		return err
	}
	fmt.Printf("Skill %s is now %s\n", args[0], args[1])
	return nil
}
