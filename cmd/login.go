package cmd

import (
	"fmt"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/afterdarksys/ratecached/pkg/config"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store the exchange-rate API key",
	Long: `Store the API key for the remote exchange-rate endpoint.

The key is validated against the configured endpoint and stored in
~/.ratecached/config.yml for all subsequent resolutions.

Example:
  ratecached login
  ratecached login --api-key xxxxxxxxxxxxxxxx`,
	RunE: runLogin,
}

var apiKey string

func init() {
	rootCmd.AddCommand(loginCmd)
	loginCmd.Flags().StringVar(&apiKey, "api-key", "", "API key for the remote endpoint")
}

func runLogin(cmd *cobra.Command, args []string) error {
	// If API key not provided via flag, prompt for it
	if apiKey == "" {
		fmt.Print("Enter your API key: ")
		keyBytes, err := term.ReadPassword(int(syscall.Stdin))
		if err != nil {
			return fmt.Errorf("failed to read API key: %w", err)
		}
		fmt.Println()
		apiKey = strings.TrimSpace(string(keyBytes))
	}

	if apiKey == "" {
		return fmt.Errorf("API key is required")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg.Remote.APIKey = apiKey

	// Validate the key by fetching the base rate table
	c := newClient(cfg)
	if err := c.ValidateKey(cmd.Context(), cfg.Remote.Base); err != nil {
		return fmt.Errorf("key validation failed: %w", err)
	}

	if err := config.SaveCredentials(apiKey); err != nil {
		return fmt.Errorf("failed to save credentials: %w", err)
	}

	fmt.Println("✅ API key validated and saved")
	return nil
}
