package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/afterdarksys/ratecached/pkg/config"
)

var convertCmd = &cobra.Command{
	Use:   "convert AMOUNT FROM TO",
	Short: "Convert an amount between currencies",
	Long: `Convert an amount between two currencies using the snapshot resolved
through the tier chain.

Examples:
  ratecached convert 100 USD EUR
  ratecached convert 2500 JPY GBP --format json`,
	Args: cobra.ExactArgs(3),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	amount, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("invalid amount: %s", args[0])
	}
	from := strings.ToUpper(args[1])
	to := strings.ToUpper(args[2])

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

	result, err := snap.Convert(amount, from, to)
	if err != nil {
		return err
	}

	if format := viper.GetString("format"); format == "json" {
		out, err := json.MarshalIndent(map[string]interface{}{
			"amount":     amount,
			"from":       from,
			"to":         to,
			"result":     result,
			"fetched_at": snap.FetchedAt,
		}, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	fmt.Printf("%.2f %s = %.2f %s\n", amount, from, result, to)
	return nil
}
