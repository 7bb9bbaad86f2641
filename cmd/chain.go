package cmd

import (
	"log/slog"
	"time"

	"github.com/afterdarksys/ratecached/pkg/client"
	"github.com/afterdarksys/ratecached/pkg/config"
	"github.com/afterdarksys/ratecached/pkg/resolver"
	"github.com/afterdarksys/ratecached/pkg/tier"
)

// buildResolver assembles the tier chain from configuration: memory first,
// then the configured durable backend, then the authoritative remote API.
// The chain is fixed for the lifetime of the resolver.
func buildResolver(cfg *config.Config, logger *slog.Logger) (*resolver.Resolver, error) {
	memory := tier.NewMemory(time.Duration(cfg.Tiers.MemoryTTL) * time.Second)

	durable, err := tier.NewDurable(
		cfg.Tiers.Durable,
		cfg.Tiers.Path,
		cfg.Tiers.PostgresDSN,
		cfg.Remote.Base,
		time.Duration(cfg.Tiers.DurableTTL)*time.Second,
	)
	if err != nil {
		return nil, err
	}

	remote := tier.NewRemote(newClient(cfg), cfg.Remote.Base, logger)

	return resolver.New(logger, memory, durable, remote), nil
}

func newClient(cfg *config.Config) *client.Client {
	clientCfg := client.DefaultConfig()
	if cfg.Remote.Timeout > 0 {
		clientCfg.RequestTimeout = time.Duration(cfg.Remote.Timeout) * time.Second
	}
	return client.NewWithConfig(cfg.Remote.Endpoint, cfg.Remote.APIKey, clientCfg)
}
