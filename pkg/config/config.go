package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

type RemoteConfig struct {
	Endpoint string `yaml:"endpoint" json:"endpoint"`
	APIKey   string `yaml:"api_key" json:"api_key"`
	Base     string `yaml:"base" json:"base"`
	Timeout  int    `yaml:"timeout" json:"timeout"` // seconds
}

type TiersConfig struct {
	MemoryTTL   int    `yaml:"memory_ttl" json:"memory_ttl"` // seconds
	Durable     string `yaml:"durable" json:"durable"`       // file, sqlite, postgres
	Path        string `yaml:"path" json:"path"`
	PostgresDSN string `yaml:"postgres_dsn,omitempty" json:"postgres_dsn,omitempty"`
	DurableTTL  int    `yaml:"durable_ttl" json:"durable_ttl"` // seconds
}

type Config struct {
	Remote RemoteConfig `yaml:"remote" json:"remote"`
	Tiers  TiersConfig  `yaml:"tiers" json:"tiers"`
}

// Default returns default configuration
func Default() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		Remote: RemoteConfig{
			Endpoint: "https://v6.exchangerate-api.com/v6",
			Base:     "USD",
			Timeout:  10,
		},
		Tiers: TiersConfig{
			MemoryTTL:  300,  // 5 minutes
			Durable:    "file",
			Path:       filepath.Join(home, ".ratecached", "rates.json"),
			DurableTTL: 3600, // 1 hour
		},
	}
}

// Load reads configuration from ~/.ratecached/config.yml
func Load() (*Config, error) {
	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			// Return default config if file doesn't exist
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// applyDefaults fills zero-valued fields so partial config files stay usable.
func (c *Config) applyDefaults() {
	def := Default()
	if c.Remote.Endpoint == "" {
		c.Remote.Endpoint = def.Remote.Endpoint
	}
	if c.Remote.Base == "" {
		c.Remote.Base = def.Remote.Base
	}
	if c.Remote.Timeout == 0 {
		c.Remote.Timeout = def.Remote.Timeout
	}
	if c.Tiers.MemoryTTL == 0 {
		c.Tiers.MemoryTTL = def.Tiers.MemoryTTL
	}
	if c.Tiers.Durable == "" {
		c.Tiers.Durable = def.Tiers.Durable
	}
	if c.Tiers.DurableTTL == 0 {
		c.Tiers.DurableTTL = def.Tiers.DurableTTL
	}
}

// Save writes configuration to file
func Save(cfg *Config) error {
	path := ConfigPath()

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// SaveCredentials stores the API key, preserving other settings.
func SaveCredentials(apiKey string) error {
	existing, err := Load()
	if err != nil {
		existing = Default()
	}

	existing.Remote.APIKey = apiKey
	return Save(existing)
}

// ConfigPath returns the path to the YAML config file
func ConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".ratecached", "config.yml")
}

// Set updates a configuration value
func (c *Config) Set(key, value string) error {
	switch key {
	case "remote.endpoint":
		c.Remote.Endpoint = value
	case "remote.api_key":
		c.Remote.APIKey = value
	case "remote.base":
		c.Remote.Base = value
	case "remote.timeout":
		timeout, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid timeout value: %s", value)
		}
		c.Remote.Timeout = timeout
	case "tiers.memory_ttl":
		ttl, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid TTL value: %s", value)
		}
		c.Tiers.MemoryTTL = ttl
	case "tiers.durable":
		if value != "file" && value != "sqlite" && value != "postgres" {
			return fmt.Errorf("invalid durable backend: %s (must be file, sqlite or postgres)", value)
		}
		c.Tiers.Durable = value
	case "tiers.path":
		c.Tiers.Path = value
	case "tiers.postgres_dsn":
		c.Tiers.PostgresDSN = value
	case "tiers.durable_ttl":
		ttl, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid TTL value: %s", value)
		}
		c.Tiers.DurableTTL = ttl
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}

// ToJSON converts config to JSON
func (c *Config) ToJSON() ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}
