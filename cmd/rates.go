package cmd

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/afterdarksys/ratecached/pkg/config"
	"github.com/afterdarksys/ratecached/pkg/rates"
)

var ratesCmd = &cobra.Command{
	Use:   "rates [CURRENCY...]",
	Short: "Resolve exchange rates through the tier chain",
	Long: `Resolve the current exchange-rate snapshot through the tier chain.

The resolver will:
  1. Check the in-memory tier for a fresh snapshot
  2. Fall back to the durable tier (file, sqlite or postgres)
  3. Fall back to the authoritative remote API
  4. Back-fill faster tiers with whatever was found

Examples:
  ratecached rates                  # Print the full snapshot
  ratecached rates EUR GBP JPY      # Print selected currencies
  ratecached rates --format table EUR`,
	RunE: runRates,
}

func init() {
	rootCmd.AddCommand(ratesCmd)
}

func runRates(cmd *cobra.Command, args []string) error {
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

	snap, err := chain.Resolve(cmd.Context())
	if err != nil {
		return err
	}
	if snap == nil {
		return fmt.Errorf("no rate data available (all tiers empty; check network or API key)")
	}

	filtered, err := filterSnapshot(snap, args)
	if err != nil {
		return err
	}

	return printSnapshot(filtered)
}

// filterSnapshot narrows a snapshot to the requested currency codes.
func filterSnapshot(snap *rates.Snapshot, codes []string) (*rates.Snapshot, error) {
	if len(codes) == 0 {
		return snap, nil
	}

	out := &rates.Snapshot{
		Base:      snap.Base,
		Rates:     make(map[string]float64, len(codes)),
		FetchedAt: snap.FetchedAt,
	}
	for _, code := range codes {
		code = strings.ToUpper(code)
		rate, ok := snap.Rate(code)
		if !ok {
			return nil, fmt.Errorf("unknown currency: %s", code)
		}
		out.Rates[code] = rate
	}
	return out, nil
}

func printSnapshot(snap *rates.Snapshot) error {
	format := viper.GetString("format")

	switch format {
	case "yaml", "yml":
		out, err := yaml.Marshal(snap)
		if err != nil {
			return err
		}
		fmt.Println(string(out))
	case "table":
		fmt.Printf("Base: %s (fetched %s)\n", snap.Base, snap.FetchedAt.Format("2006-01-02 15:04:05 MST"))
		codes := make([]string, 0, len(snap.Rates))
		for code := range snap.Rates {
			codes = append(codes, code)
		}
		sort.Strings(codes)
		for _, code := range codes {
			fmt.Printf("  %-5s %12.6f\n", code, snap.Rates[code])
		}
	case "json":
		fallthrough
	default:
		out, err := json.MarshalIndent(snap, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
	}

	return nil
}
