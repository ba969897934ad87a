// Package config loads sheetfill configuration from an optional YAML file,
// a .env file and environment variables, in that order of precedence.
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

// Config holds all configuration for sheetfill.
type Config struct {
	LLM       LLMConfig       `yaml:"llm"`
	Cache     CacheConfig     `yaml:"cache"`
	Log       LogConfig       `yaml:"log"`
	Highlight HighlightConfig `yaml:"highlight"`
}

// LLMConfig holds model collaborator settings.
type LLMConfig struct {
	APIKey     string `yaml:"api_key"`
	Model      string `yaml:"model"`
	BaseURL    string `yaml:"base_url"`
	MaxRetries int    `yaml:"max_retries"`
	// PDFQuality is the JPEG quality used when rasterizing PDF pages.
	PDFQuality int `yaml:"pdf_quality"`
}

// CacheConfig holds extraction cache settings.
type CacheConfig struct {
	Driver string        `yaml:"driver"` // none, memory or redis
	TTL    time.Duration `yaml:"ttl"`
	Redis  RedisConfig   `yaml:"redis"`
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json or console
}

// HighlightConfig holds validation rendering settings.
type HighlightConfig struct {
	Color  string `yaml:"color"`
	Author string `yaml:"author"`
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			BaseURL:    "https://openrouter.ai/api/v1/chat/completions",
			Model:      "google/gemini-2.5-flash",
			PDFQuality: 85,
		},
		Cache: CacheConfig{
			Driver: "none",
			TTL:    24 * time.Hour,
			Redis: RedisConfig{
				Addr:   "localhost:6379",
				Prefix: "sheetfill:",
			},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Highlight: HighlightConfig{
			Color:  "FFC7CE",
			Author: "sheetfill",
		},
	}
}

// Load reads configuration from path (optional), loads .env when present and
// applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	_ = godotenv.Load() // .env is optional

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	switch c.Cache.Driver {
	case "none", "memory", "redis":
	default:
		return fmt.Errorf("invalid cache driver: %s", c.Cache.Driver)
	}

	switch strings.ToLower(c.Log.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("invalid log format: %s", c.Log.Format)
	}

	if c.LLM.MaxRetries < 0 {
		return fmt.Errorf("max_retries must not be negative")
	}
	if c.LLM.PDFQuality < 1 || c.LLM.PDFQuality > 100 {
		return fmt.Errorf("pdf_quality must be between 1 and 100, got %d", c.LLM.PDFQuality)
	}
	return nil
}

// Offline reports whether no model credentials are configured.
func (c *Config) Offline() bool {
	return c.LLM.APIKey == ""
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("OPENROUTER_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}

	if v := os.Getenv("LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}

	if v := os.Getenv("LLM_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.LLM.MaxRetries = n
		}
	}

	if v := os.Getenv("SHEETFILL_CACHE_DRIVER"); v != "" {
		cfg.Cache.Driver = v
	}

	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Cache.Driver = "redis"
		cfg.Cache.Redis.Addr = strings.TrimPrefix(v, "redis://")
	}

	if v := os.Getenv("SHEETFILL_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}

	if v := os.Getenv("SHEETFILL_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
}
