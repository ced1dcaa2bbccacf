package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL        string
	Port               string
	IsProduction       bool
	JWTSecret          string
	DBStatementTimeout time.Duration
	MigrationsPath     string
	CORSAllowedOrigins []string

	// Ledger
	LedgerFutureGrace         time.Duration
	MappingCacheTTL           time.Duration
	AccountDeactivationWindow time.Duration
	DATEVOrigin               string

	// Jobs and public endpoints
	OfferExpiryInterval time.Duration
	PublicRateLimit     string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:         v.GetString("PGSQL_URL"),
		Port:                v.GetString("PORT"),
		IsProduction:        v.GetBool("IS_PRODUCTION"),
		JWTSecret:           v.GetString("JWT_SECRET"),
		MigrationsPath:      v.GetString("MIGRATIONS_PATH"),
		DATEVOrigin:         v.GetString("DATEV_ORIGIN"),
		PublicRateLimit:     v.GetString("PUBLIC_RATE_LIMIT"),
		CORSAllowedOrigins:  splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		DBStatementTimeout:  duration(v, "DB_STATEMENT_TIMEOUT", 5*time.Second),
		LedgerFutureGrace:   duration(v, "LEDGER_FUTURE_GRACE", 24*time.Hour),
		MappingCacheTTL:     duration(v, "MAPPING_CACHE_TTL", time.Minute),
		OfferExpiryInterval: duration(v, "OFFER_EXPIRY_INTERVAL", time.Hour),

		AccountDeactivationWindow: duration(v, "ACCOUNT_DEACTIVATION_WINDOW", 90*24*time.Hour),
	}

	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("DB_STATEMENT_TIMEOUT", "5s")
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("LEDGER_FUTURE_GRACE", "24h")
	v.SetDefault("MAPPING_CACHE_TTL", "60s")
	v.SetDefault("ACCOUNT_DEACTIVATION_WINDOW", "2160h")
	v.SetDefault("DATEV_ORIGIN", "StitchAdmin")
	v.SetDefault("OFFER_EXPIRY_INTERVAL", "1h")
	v.SetDefault("PUBLIC_RATE_LIMIT", "20-M")
}

// duration parses a duration key, falling back to def on invalid input.
func duration(v *viper.Viper, key string, def time.Duration) time.Duration {
	raw := v.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, def)
		return def
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
