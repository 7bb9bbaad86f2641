package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/afterdarksys/ratecached/pkg/config"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Force a remote fetch and back-fill all cache tiers",
	Long: `Fetch rates from the authoritative remote API, bypassing the cache
tiers, and write the result into every writable tier. Useful before going
offline or after changing the base currency.

Example:
  ratecached refresh`,
	RunE: runRefresh,
}

func init() {
	rootCmd.AddCommand(refreshCmd)
}

func runRefresh(cmd *cobra.Command, args []string) error {
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

	snap, err := chain.Refresh(cmd.Context())
	if err != nil {
		return err
	}
	if snap == nil {
		return fmt.Errorf("remote fetch produced no data (check network or API key)")
	}

	fmt.Printf("✅ Refreshed %d rates for base %s (fetched %s)\n",
		len(snap.Rates), snap.Base, snap.FetchedAt.Format("2006-01-02 15:04:05 MST"))
	return nil
}
