package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/coinvue/internal/flagx"
	"github.com/dmitrijs2005/coinvue/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Pointer fields tell
// "absent" apart from a zero value, so a partial file only overrides what
// it names. Durations accept "60s" style strings or nanoseconds;
// token_lifetime_ms is milliseconds.
type JsonConfig struct {
	HTTPAddr           *string         `json:"http_addr"`
	DatabaseDSN        *string         `json:"database_dsn"`
	SecretKey          *string         `json:"secret_key"`
	TokenLifetimeMs    *int64          `json:"token_lifetime_ms"`
	StrictSessions     *bool           `json:"strict_sessions"`
	BcryptCost         *int            `json:"bcrypt_cost"`
	CORSOrigins        []string        `json:"cors_origins"`
	CoinGeckoBaseURL   *string         `json:"coingecko_base_url"`
	CoinGeckoAPIKey    *string         `json:"coingecko_api_key"`
	CoinGeckoTimeout   *timex.Duration `json:"coingecko_timeout"`
	MarketCacheSize    *int            `json:"market_cache_size"`
	MarketCacheTTL     *timex.Duration `json:"market_cache_ttl"`
	LoginRatePerMinute *int            `json:"login_rate_per_minute"`
	LoginRateBurst     *int            `json:"login_rate_burst"`
	ActiveUserWindow   *timex.Duration `json:"active_user_window"`
	TopCoinsLimit      *int            `json:"top_coins_limit"`
	OTLPEndpoint       *string         `json:"otlp_endpoint"`
	OTLPInsecure       *bool           `json:"otlp_insecure"`
	LogLevel           *string         `json:"log_level"`
}

// parseJson overlays values from the file named by -c / -config.
// Without the flag nothing is loaded. An unreadable or invalid file panics:
// the server must not start on a config it could not understand.
func parseJson(config *Config, args []string) {
	path := flagx.ConfigFilePath(args)
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	c.apply(config)
}

func (c *JsonConfig) apply(config *Config) {
	set(&config.HTTPAddr, c.HTTPAddr)
	set(&config.DatabaseDSN, c.DatabaseDSN)
	set(&config.SecretKey, c.SecretKey)
	if c.TokenLifetimeMs != nil {
		config.TokenLifetime = millis(*c.TokenLifetimeMs)
	}
	set(&config.StrictSessions, c.StrictSessions)
	set(&config.BcryptCost, c.BcryptCost)
	if c.CORSOrigins != nil {
		config.CORSOrigins = c.CORSOrigins
	}
	set(&config.CoinGeckoBaseURL, c.CoinGeckoBaseURL)
	set(&config.CoinGeckoAPIKey, c.CoinGeckoAPIKey)
	if c.CoinGeckoTimeout != nil {
		config.CoinGeckoTimeout = c.CoinGeckoTimeout.Duration
	}
	set(&config.MarketCacheSize, c.MarketCacheSize)
	if c.MarketCacheTTL != nil {
		config.MarketCacheTTL = c.MarketCacheTTL.Duration
	}
	set(&config.LoginRatePerMinute, c.LoginRatePerMinute)
	set(&config.LoginRateBurst, c.LoginRateBurst)
	if c.ActiveUserWindow != nil {
		config.ActiveUserWindow = c.ActiveUserWindow.Duration
	}
	set(&config.TopCoinsLimit, c.TopCoinsLimit)
	set(&config.OTLPEndpoint, c.OTLPEndpoint)
	set(&config.OTLPInsecure, c.OTLPInsecure)
	set(&config.LogLevel, c.LogLevel)
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
