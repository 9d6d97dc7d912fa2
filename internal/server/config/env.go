package config

import (
	"context"

	"github.com/sethvargo/go-envconfig"
)

// parseEnv overlays environment variables onto the provided Config using the
// struct's env tags. Variables that are unset leave the existing values in
// place, so defaults and JSON-sourced settings survive the overlay.
func parseEnv(config *Config) {
	l := envconfig.PrefixLookuper("MARKETPLACE_", envconfig.OsLookuper())
	if err := envconfig.ProcessWith(context.Background(), &envconfig.Config{
		Target:   config,
		Lookuper: l,
	}); err != nil {
		panic(err)
	}
}
