package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "COINVUE"

// parseEnv overlays COINVUE_* environment variables, e.g.
// COINVUE_DATABASE_DSN or COINVUE_TOKEN_LIFETIME_MS. Only variables that are
// actually set override the current value.
func parseEnv(config *Config) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	str := func(key string, dst *string) {
		if v.IsSet(key) {
			*dst = v.GetString(key)
		}
	}
	integer := func(key string, dst *int) {
		if v.IsSet(key) {
			*dst = v.GetInt(key)
		}
	}
	boolean := func(key string, dst *bool) {
		if v.IsSet(key) {
			*dst = v.GetBool(key)
		}
	}
	duration := func(key string, dst *time.Duration) {
		if v.IsSet(key) {
			*dst = v.GetDuration(key)
		}
	}

	str("http_addr", &config.HTTPAddr)
	str("database_dsn", &config.DatabaseDSN)
	str("secret_key", &config.SecretKey)
	if v.IsSet("token_lifetime_ms") {
		config.TokenLifetime = millis(v.GetInt64("token_lifetime_ms"))
	}
	boolean("strict_sessions", &config.StrictSessions)
	integer("bcrypt_cost", &config.BcryptCost)
	if v.IsSet("cors_origins") {
		config.CORSOrigins = splitList(v.GetString("cors_origins"))
	}
	str("coingecko_base_url", &config.CoinGeckoBaseURL)
	str("coingecko_api_key", &config.CoinGeckoAPIKey)
	duration("coingecko_timeout", &config.CoinGeckoTimeout)
	integer("market_cache_size", &config.MarketCacheSize)
	duration("market_cache_ttl", &config.MarketCacheTTL)
	integer("login_rate_per_minute", &config.LoginRatePerMinute)
	integer("login_rate_burst", &config.LoginRateBurst)
	duration("active_user_window", &config.ActiveUserWindow)
	integer("top_coins_limit", &config.TopCoinsLimit)
	str("otlp_endpoint", &config.OTLPEndpoint)
	boolean("otlp_insecure", &config.OTLPInsecure)
	str("log_level", &config.LogLevel)
}

func splitList(s string) []string {
	out := []string{}
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func millis(ms int64) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
