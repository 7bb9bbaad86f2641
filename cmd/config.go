package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/afterdarksys/ratecached/pkg/config"
)

var configCmd = &cobra.Command{
	Use:   "config [show|set|init]",
	Short: "Manage configuration",
	Long: `View and modify ratecached configuration.

Configuration is stored in ~/.ratecached/config.yml

Examples:
  ratecached config show                        # Display current config
  ratecached config set tiers.durable sqlite    # Set durable backend
  ratecached config set tiers.memory_ttl 600    # Set memory TTL (seconds)
  ratecached config init                        # Initialize default config`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, args []string) error {
	action := args[0]

	switch action {
	case "show":
		return showConfig()
	case "set":
		if len(args) < 3 {
			return fmt.Errorf("usage: ratecached config set <key> <value>")
		}
		return setConfig(args[1], args[2])
	case "init":
		return initConfigFile()
	default:
		return fmt.Errorf("unknown action: %s (use: show, set, init)", action)
	}
}

func showConfig() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	format := viper.GetString("format")

	switch format {
	case "yaml", "yml":
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	case "json":
		data, err := cfg.ToJSON()
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	default:
		fmt.Printf("Remote Endpoint: %s\n", cfg.Remote.Endpoint)
		fmt.Printf("Base Currency: %s\n", cfg.Remote.Base)
		fmt.Printf("Memory TTL: %d seconds\n", cfg.Tiers.MemoryTTL)
		fmt.Printf("Durable Backend: %s\n", cfg.Tiers.Durable)
		fmt.Printf("Durable Path: %s\n", cfg.Tiers.Path)
		fmt.Printf("Durable TTL: %d seconds\n", cfg.Tiers.DurableTTL)
		if cfg.Remote.APIKey != "" {
			fmt.Println("API Key: (set)")
		} else {
			fmt.Println("API Key: (not set, run 'ratecached login')")
		}
	}

	return nil
}

func setConfig(key, value string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Set(key, value); err != nil {
		return fmt.Errorf("failed to set config: %w", err)
	}

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Printf("✅ Set %s = %s\n", key, value)
	return nil
}

func initConfigFile() error {
	cfg := config.Default()

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	fmt.Printf("✅ Created default configuration at %s\n", config.ConfigPath())
	return nil
}
