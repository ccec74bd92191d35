package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	OracleVader  = "vader"
	OracleRemote = "remote"
	OracleHugot  = "hugot"

	DefaultHugotModel = "KnightsAnalytics/distilbert-base-uncased-finetuned-sst-2-english"

	CacheNone   = "none"
	CacheMemory = "memory"
	CacheValkey = "valkey"
)

type Config struct {
	AppEnv   string
	Port     string
	LogLevel string

	Oracle           string
	HFSentimentURL   string
	HugotModel       string
	HugotModelDir    string
	Cache            string
	CacheTTL         time.Duration
	CacheMaxEntries  int
	ValkeyAddress    string
	ValkeyPassword   string
	ValkeyTLS        bool
	ExtraBadWords    []string
	ShutdownDeadline time.Duration
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}

// Load reads the configuration from the environment. Call LoadEnv first to
// pull in the env file.
func Load() (*Config, error) {
	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", "dev"),
		Port:           getEnv("PORT", "8080"),
		LogLevel:       strings.ToLower(getEnv("LOG_LEVEL", "info")),
		Oracle:         strings.ToLower(getEnv("ORACLE", OracleVader)),
		HFSentimentURL: getEnv("HF_SENTIMENT_ENDPOINT", ""),
		HugotModel:     getEnv("HUGOT_MODEL", DefaultHugotModel),
		HugotModelDir:  getEnv("HUGOT_MODEL_DIR", "./models"),
		Cache:          strings.ToLower(getEnv("CACHE", CacheMemory)),
		ValkeyAddress:  getEnv("VALKEY_INIT_ADDRESS", ""),
		ValkeyPassword: getEnv("VALKEY_PASSWORD", ""),
		ExtraBadWords:  splitList(getEnv("MOOD_EXTRA_BAD_WORDS", "")),
	}

	var err error
	if cfg.CacheTTL, err = time.ParseDuration(getEnv("CACHE_TTL", "1h")); err != nil {
		return nil, fmt.Errorf("CACHE_TTL is not a duration: %w", err)
	}
	if cfg.CacheMaxEntries, err = strconv.Atoi(getEnv("CACHE_MAX_ENTRIES", "10000")); err != nil {
		return nil, fmt.Errorf("CACHE_MAX_ENTRIES must be an integer: %w", err)
	}
	if cfg.ShutdownDeadline, err = time.ParseDuration(getEnv("SHUTDOWN_TIMEOUT", "10s")); err != nil {
		return nil, fmt.Errorf("SHUTDOWN_TIMEOUT is not a duration: %w", err)
	}
	if cfg.ValkeyTLS, err = strconv.ParseBool(getEnv("VALKEY_TLS", "false")); err != nil {
		return nil, fmt.Errorf("VALKEY_TLS must be a boolean: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	switch cfg.Oracle {
	case OracleVader, OracleRemote, OracleHugot:
	default:
		return fmt.Errorf("ORACLE must be one of vader, remote, hugot, got %q", cfg.Oracle)
	}

	switch cfg.Cache {
	case CacheNone, CacheMemory:
	case CacheValkey:
		if cfg.ValkeyAddress == "" {
			return fmt.Errorf("VALKEY_INIT_ADDRESS is required when CACHE=%s", CacheValkey)
		}
	default:
		return fmt.Errorf("CACHE must be one of none, memory, valkey, got %q", cfg.Cache)
	}

	if cfg.CacheTTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive, got %s", cfg.CacheTTL)
	}
	if cfg.CacheMaxEntries <= 0 {
		return fmt.Errorf("CACHE_MAX_ENTRIES must be positive, got %d", cfg.CacheMaxEntries)
	}

	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be debug, info, warn or error, got %q", cfg.LogLevel)
	}

	if _, err := strconv.Atoi(cfg.Port); err != nil {
		return fmt.Errorf("PORT must be numeric: %w", err)
	}

	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
