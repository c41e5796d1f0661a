package config

import (
	"flag"

	"github.com/dmitrijs2005/coinvue/internal/flagx"
)

// parseFlags overlays the short command-line flags:
//
//	-a string   HTTP bind address (e.g. ":8080")
//	-d string   PostgreSQL DSN
//	-s string   token signing secret
//	-t int      token lifetime, milliseconds
//	-k string   CoinGecko API key
//	-o string   OTLP collector endpoint (empty disables tracing export)
//	-l string   log level
//
// Other arguments are filtered out first so unrelated flags do not collide.
func parseFlags(config *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-a", "-d", "-s", "-t", "-k", "-o", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "token signing secret")
	lifetime := fs.Int64("t", config.TokenLifetime.Milliseconds(), "token lifetime (in milliseconds)")
	fs.StringVar(&config.CoinGeckoAPIKey, "k", config.CoinGeckoAPIKey, "CoinGecko API key")
	fs.StringVar(&config.OTLPEndpoint, "o", config.OTLPEndpoint, "OTLP endpoint")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.TokenLifetime = millis(*lifetime)
}

// ValueFlags lists every flag the configuration layers consume together
// with a following value.
func ValueFlags() []string {
	return []string{"-a", "-d", "-s", "-t", "-k", "-o", "-l", "-c", "-config", "--config"}
}
