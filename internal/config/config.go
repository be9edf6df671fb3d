package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config captures the runtime configuration for the engine and its CLI.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Engine   EngineConfig   `yaml:"engine"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// DatabaseConfig contains the database connection settings.
type DatabaseConfig struct {
	URL             string        `yaml:"url"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time"`

	// UseMock switches to the seeded in-memory database, for local runs
	// without a postgres instance.
	UseMock bool `yaml:"use_mock"`
}

// EngineConfig tunes the footprint engine.
type EngineConfig struct {
	// CascadeThreshold is the dependent-recipe count at which an
	// ingredient edit defers recomputation to the batch job.
	CascadeThreshold int `yaml:"cascade_threshold"`
	// BatchChunkSize is how many recipes the batch job loads at a time.
	BatchChunkSize int `yaml:"batch_chunk_size"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load builds a Config from an optional YAML file (path in VERDANT_CONFIG)
// overlaid with environment variables; the environment wins.
func Load() (Config, error) {
	cfg := Config{
		Engine: EngineConfig{
			CascadeThreshold: 100,
			BatchChunkSize:   200,
		},
	}

	if path := strings.TrimSpace(os.Getenv("VERDANT_CONFIG")); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	cfg.Database.URL = firstNonEmpty(
		os.Getenv("DATABASE_URL"),
		os.Getenv("DB_URL"),
		cfg.Database.URL,
	)
	cfg.Database.MaxIdleConns = parseIntWithDefault(os.Getenv("DATABASE_MAX_IDLE_CONNS"), cfg.Database.MaxIdleConns)
	cfg.Database.MaxOpenConns = parseIntWithDefault(os.Getenv("DATABASE_MAX_OPEN_CONNS"), cfg.Database.MaxOpenConns)
	cfg.Database.ConnMaxLifetime = parseDurationWithDefault(os.Getenv("DATABASE_CONN_MAX_LIFETIME"), cfg.Database.ConnMaxLifetime)
	cfg.Database.ConnMaxIdleTime = parseDurationWithDefault(os.Getenv("DATABASE_CONN_MAX_IDLE_TIME"), cfg.Database.ConnMaxIdleTime)
	cfg.Database.UseMock = parseBoolWithDefault(os.Getenv("DATABASE_USE_MOCK"), cfg.Database.UseMock)

	cfg.Engine.CascadeThreshold = parseIntWithDefault(os.Getenv("CASCADE_THRESHOLD"), cfg.Engine.CascadeThreshold)
	cfg.Engine.BatchChunkSize = parseIntWithDefault(os.Getenv("BATCH_CHUNK_SIZE"), cfg.Engine.BatchChunkSize)

	cfg.Logging.Level = firstNonEmpty(os.Getenv("LOG_LEVEL"), cfg.Logging.Level)

	if cfg.Engine.CascadeThreshold <= 0 {
		return Config{}, fmt.Errorf("cascade threshold must be positive")
	}
	if cfg.Engine.BatchChunkSize <= 0 {
		return Config{}, fmt.Errorf("batch chunk size must be positive")
	}

	return cfg, nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}

func parseIntWithDefault(value string, def int) int {
	value = strings.TrimSpace(value)
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func parseDurationWithDefault(value string, def time.Duration) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return def
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return def
	}
	return parsed
}

func parseBoolWithDefault(value string, def bool) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return def
	}
	return parsed
}
