package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/clearcheck/investigator/pkg/domain"
	"github.com/clearcheck/investigator/pkg/providers"
	"github.com/redis/go-redis/v9"
)

// providerFileEntry is one provider's configuration as read from the JSON
// file at PROVIDER_CONFIG_PATH: concrete vendor wiring is an external
// adapter concern (spec §1), so the CLI only knows how to build the one
// reusable shape (providers.HTTPSource) from data, not vendor SDKs.
type providerFileEntry struct {
	ID        string                            `json:"id"`
	APIKeyEnv string                            `json:"api_key_env"`
	Endpoints map[domain.InformationType]string `json:"endpoints"`
}

// registerProvidersFromFile reads a JSON array of providerFileEntry and
// registers one HTTPSource per entry with the registry's default
// resiliency configuration.
func registerProvidersFromFile(registry *providers.Registry, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	var entries []providerFileEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	for _, e := range entries {
		apiKey := ""
		if e.APIKeyEnv != "" {
			apiKey = os.Getenv(e.APIKeyEnv)
		}
		source := providers.NewHTTPSource(e.Endpoints, apiKey)
		registry.Register(e.ID, source, providers.DefaultProviderConfig())
	}
	return nil
}

// parseRedisURL delegates to go-redis's own URL grammar rather than
// hand-rolling one, returning the pieces cache.NewRedisStore wants.
func parseRedisURL(url string) (addr, password string, db int, err error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return "", "", 0, err
	}
	return opts.Addr, opts.Password, opts.DB, nil
}
