package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port        string
	Env         string
	LogLevel    string
	DatabaseURL string

	RedisAddr     string
	RedisPassword string
	CacheTTL      time.Duration

	// Clearinghouse connection
	ClearinghouseProtocol   string // "soap" or "core"
	ClearinghouseEndpoint   string
	ClearinghouseUsername   string
	ClearinghousePassword   string
	ClearinghouseSenderID   string
	ClearinghouseReceiverID string
	ClearinghouseTimeout    time.Duration
	ClearinghouseUsage      string // "P" production, "T" test

	// Identity placed in the 270 provider loop
	ProviderName  string
	ProviderNPI   string
	ProviderTaxID string

	// PayerDialectFile optionally layers dialect overrides over the
	// built-in registry.
	PayerDialectFile string

	// SimulationMode substitutes flagged randomized results when the
	// clearinghouse is unreachable. Never enable in production.
	SimulationMode bool

	AdminJWTSecret     string
	CORSAllowedOrigins []string
	CheckRateLimit     float64
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		DatabaseURL: getEnv("DATABASE_URL", ""),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		CacheTTL:      getEnvAsDuration("ELIGIBILITY_CACHE_TTL", 5*time.Minute),

		ClearinghouseProtocol:   strings.ToLower(strings.TrimSpace(getEnv("CLEARINGHOUSE_PROTOCOL", "soap"))),
		ClearinghouseEndpoint:   getEnv("CLEARINGHOUSE_ENDPOINT", ""),
		ClearinghouseUsername:   getEnv("CLEARINGHOUSE_USERNAME", ""),
		ClearinghousePassword:   getEnv("CLEARINGHOUSE_PASSWORD", ""),
		ClearinghouseSenderID:   getEnv("CLEARINGHOUSE_SENDER_ID", ""),
		ClearinghouseReceiverID: getEnv("CLEARINGHOUSE_RECEIVER_ID", ""),
		ClearinghouseTimeout:    getEnvAsDuration("CLEARINGHOUSE_TIMEOUT", 30*time.Second),
		ClearinghouseUsage:      getEnv("CLEARINGHOUSE_USAGE", "P"),

		ProviderName:  getEnv("PROVIDER_NAME", ""),
		ProviderNPI:   getEnv("PROVIDER_NPI", ""),
		ProviderTaxID: getEnv("PROVIDER_TAX_ID", ""),

		PayerDialectFile: getEnv("PAYER_DIALECT_FILE", ""),

		SimulationMode: getEnvAsBool("SIMULATION_MODE", false),

		AdminJWTSecret:     getEnv("ADMIN_JWT_SECRET", ""),
		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "")),
		CheckRateLimit:     getEnvAsFloat("CHECK_RATE_LIMIT", 0),
	}
}

// IsProduction reports whether the app is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
