// Package config assembles runtime configuration from defaults, an
// optional YAML file, and environment variables, in that order of
// precedence (environment wins). A .env file in the working directory is
// loaded first when present. No package exposes configuration globals;
// the resolved Config is constructed in main and passed down.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the full runtime configuration.
type Config struct {
	CachePath string `yaml:"cache_path"`
	LockPath  string `yaml:"lock_path"`

	LockStale     time.Duration `yaml:"lock_stale"`
	SourceTimeout time.Duration `yaml:"source_timeout"`
	Ceiling       time.Duration `yaml:"refresh_ceiling"`
	Concurrency   int           `yaml:"concurrency"`

	ListenAddr   string   `yaml:"listen_addr"`
	RefreshToken string   `yaml:"refresh_token"`
	CORSOrigins  []string `yaml:"cors_origins"`

	RedisURL     string `yaml:"redis_url"`
	RedisChannel string `yaml:"redis_channel"`

	PushURL   string `yaml:"push_url"`
	PushToken string `yaml:"push_token"`

	LogLevel string `yaml:"log_level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		CachePath:     "data/cache.json",
		LockPath:      "data/refresh.lock",
		LockStale:     10 * time.Minute,
		SourceTimeout: 90 * time.Second,
		Ceiling:       4 * time.Minute,
		Concurrency:   3,
		ListenAddr:    ":8080",
		CORSOrigins:   []string{"*"},
		LogLevel:      "INFO",
	}
}

// Load builds the configuration. path names an optional YAML file; ""
// skips the file layer entirely.
func Load(path string) (Config, error) {
	// Best-effort: a missing .env is the normal case.
	_ = godotenv.Load()

	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.CachePath, "SANDCAL_CACHE_PATH")
	setString(&cfg.LockPath, "SANDCAL_LOCK_PATH")
	setString(&cfg.ListenAddr, "SANDCAL_LISTEN_ADDR")
	setString(&cfg.RefreshToken, "SANDCAL_REFRESH_TOKEN")
	setString(&cfg.RedisURL, "SANDCAL_REDIS_URL")
	setString(&cfg.RedisChannel, "SANDCAL_REDIS_CHANNEL")
	setString(&cfg.PushURL, "SANDCAL_PUSH_URL")
	setString(&cfg.PushToken, "SANDCAL_PUSH_TOKEN")
	setString(&cfg.LogLevel, "SANDCAL_LOG_LEVEL")

	if err := setDuration(&cfg.LockStale, "SANDCAL_LOCK_STALE"); err != nil {
		return err
	}
	if err := setDuration(&cfg.SourceTimeout, "SANDCAL_SOURCE_TIMEOUT"); err != nil {
		return err
	}
	if err := setDuration(&cfg.Ceiling, "SANDCAL_REFRESH_CEILING"); err != nil {
		return err
	}
	if err := setInt(&cfg.Concurrency, "SANDCAL_CONCURRENCY"); err != nil {
		return err
	}

	if raw := os.Getenv("SANDCAL_CORS_ORIGINS"); raw != "" {
		origins := strings.Split(raw, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		cfg.CORSOrigins = origins
	}
	return nil
}

func setString(dst *string, key string) {
	if value := os.Getenv(key); value != "" {
		*dst = value
	}
}

func setDuration(dst *time.Duration, key string) error {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", key, err)
	}
	*dst = d
	return nil
}

func setInt(dst *int, key string) error {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", key, err)
	}
	*dst = n
	return nil
}
