package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/nutrilabel/backend/internal/usecase"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	FDC       FDCConfig
	Embedding EmbeddingConfig
	Cache     CacheConfig
	Matching  MatchingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// FDCConfig holds food catalog API configuration
type FDCConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

// EmbeddingConfig holds embedding service configuration
type EmbeddingConfig struct {
	APIKey    string `mapstructure:"api_key"`
	BaseURL   string `mapstructure:"base_url"`
	Model     string `mapstructure:"model"`
	CacheSize int    `mapstructure:"cache_size"`
}

// CacheConfig holds search cache configuration
type CacheConfig struct {
	Type       string        `mapstructure:"type"` // "memory", "redis" or "pebble"
	Path       string        `mapstructure:"path"`
	RedisURL   string        `mapstructure:"redis_url"`
	TTL        time.Duration `mapstructure:"ttl"`
	MaxEntries int           `mapstructure:"max_entries"`
}

// MatchingConfig holds hybrid matching configuration
type MatchingConfig struct {
	Alpha         float64 `mapstructure:"alpha"`
	PreferBranded bool    `mapstructure:"prefer_branded"`
	Workers       int     `mapstructure:"workers"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	// Load .env if present; existing environment variables win.
	if err := loadEnvFile(); err != nil {
		return nil, err
	}

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/nutrilabel/")

	// Environment variable settings
	v.SetEnvPrefix("NUTRILABEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv alone does not make env-only keys visible to
	// Unmarshal; keys without a default must be bound explicitly.
	for _, key := range []string{"fdc.api_key", "embedding.api_key", "cache.redis_url"} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("unable to bind env key %s: %w", key, err)
		}
	}

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads a .env file from the working directory when one
// exists. Variables already set in the environment are not overridden.
func loadEnvFile() error {
	if _, err := os.Stat(".env"); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(); err != nil {
		return fmt.Errorf("error loading .env file: %w", err)
	}
	return nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})

	// FDC defaults
	v.SetDefault("fdc.base_url", "https://api.nal.usda.gov/fdc")

	// Embedding defaults
	v.SetDefault("embedding.base_url", "https://api.openai.com/v1")
	v.SetDefault("embedding.model", "text-embedding-3-small")
	v.SetDefault("embedding.cache_size", 2048)

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.path", "./data/cache")
	v.SetDefault("cache.ttl", "720h") // 30 days
	v.SetDefault("cache.max_entries", 10000)

	// Matching defaults
	v.SetDefault("matching.alpha", usecase.DefaultAlpha)
	v.SetDefault("matching.prefer_branded", true)
	v.SetDefault("matching.workers", 4)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.FDC.APIKey == "" {
		return fmt.Errorf("FDC API key is required (set NUTRILABEL_FDC_API_KEY)")
	}

	switch config.Cache.Type {
	case "memory", "redis", "pebble":
	default:
		return fmt.Errorf("cache type must be 'memory', 'redis' or 'pebble', got: %s", config.Cache.Type)
	}

	if config.Cache.Type == "redis" && config.Cache.RedisURL == "" {
		return fmt.Errorf("Redis URL is required when cache type is 'redis'")
	}

	if config.Cache.Type == "pebble" && config.Cache.Path == "" {
		return fmt.Errorf("cache path is required when cache type is 'pebble'")
	}

	if config.Matching.Alpha < 0 || config.Matching.Alpha > 1 {
		return fmt.Errorf("matching alpha must be in [0,1], got: %v", config.Matching.Alpha)
	}

	return nil
}
