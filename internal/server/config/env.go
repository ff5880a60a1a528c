package config

import "github.com/caarlos0/env/v11"

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "FUNDINGME_"

// parseEnv overlays FUNDINGME_* environment variables. Unset variables leave
// the current value untouched; malformed values panic.
func parseEnv(config *Config) {
	if err := env.ParseWithOptions(config, env.Options{Prefix: EnvPrefix}); err != nil {
		panic(err)
	}
}
