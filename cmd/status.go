package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/afterdarksys/ratecached/pkg/config"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Probe each tier and report what it holds",
	Long: `Probe every tier in the chain individually, without back-filling,
and report whether it holds a fresh snapshot.

Example:
  ratecached status`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := newLogger()
	chain, err := buildResolver(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to build tier chain: %w", err)
	}
	defer chain.Close()

	fmt.Printf("Chain: base %s, durable backend %s\n\n", cfg.Remote.Base, cfg.Tiers.Durable)

	for i, t := range chain.Tiers() {
		writable := "read-only"
		if t.CanWrite() {
			writable = "writable"
		}
		fmt.Printf("%d. %-9s %-9s ", i, t.Name(), writable)

		snap, err := t.Read(cmd.Context())
		switch {
		case err != nil:
			fmt.Printf("❌ ERROR: %v\n", err)
		case snap == nil:
			fmt.Println("⏭️  absent")
		default:
			fmt.Printf("✅ %d rates, fetched %s\n",
				len(snap.Rates), snap.FetchedAt.Format("2006-01-02 15:04:05 MST"))
		}
	}

	return nil
}
