package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Pairing   PairingConfig
	Platforms PlatformsConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
	Log       LogConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// PairingConfig holds vendor pairing registry configuration
type PairingConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// EndpointConfig locates one delivery platform's public menu API
type EndpointConfig struct {
	BaseURL   string  `mapstructure:"base_url"`
	Latitude  float64 `mapstructure:"latitude"`
	Longitude float64 `mapstructure:"longitude"`
}

// PlatformsConfig holds catalog API configuration for both platforms
type PlatformsConfig struct {
	Snappfood EndpointConfig `mapstructure:"snappfood"`
	Tapsifood EndpointConfig `mapstructure:"tapsifood"`
	Timeout   time.Duration  `mapstructure:"timeout"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type          string        `mapstructure:"type"` // "memory" or "redis"
	RedisURL      string        `mapstructure:"redis_url"`
	PairingTTL    time.Duration `mapstructure:"pairing_ttl"`
	VendorListTTL time.Duration `mapstructure:"vendor_list_ttl"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP    int     `mapstructure:"per_ip"`   // requests per minute per client IP
	Platform float64 `mapstructure:"platform"` // outgoing catalog requests per second
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" or "console"
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/menucompare/")

	v.SetEnvPrefix("MENUCOMPARE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{
		"chrome-extension://*",
		"https://snappfood.ir",
		"https://tapsi.food",
	})

	v.SetDefault("pairing.base_url", "http://127.0.0.1:8000")
	v.SetDefault("pairing.timeout", "10s")

	v.SetDefault("platforms.snappfood.base_url", "https://snappfood.ir")
	v.SetDefault("platforms.snappfood.latitude", 35.715)
	v.SetDefault("platforms.snappfood.longitude", 51.404)
	v.SetDefault("platforms.tapsifood.base_url", "https://api.tapsi.food")
	v.SetDefault("platforms.tapsifood.latitude", 35.7559)
	v.SetDefault("platforms.tapsifood.longitude", 51.4132)
	v.SetDefault("platforms.timeout", "15s")

	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.pairing_ttl", "5m")
	v.SetDefault("cache.vendor_list_ttl", "10m")
	v.SetDefault("cache.sweep_interval", "1m")

	v.SetDefault("ratelimit.per_ip", 120)
	v.SetDefault("ratelimit.platform", 5.0)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Pairing.BaseURL == "" {
		return fmt.Errorf("pairing service URL is required (set MENUCOMPARE_PAIRING_BASE_URL)")
	}

	if config.Platforms.Snappfood.BaseURL == "" || config.Platforms.Tapsifood.BaseURL == "" {
		return fmt.Errorf("both platform base URLs are required")
	}

	if config.Cache.Type != "memory" && config.Cache.Type != "redis" {
		return fmt.Errorf("cache type must be 'memory' or 'redis', got: %s", config.Cache.Type)
	}

	if config.Cache.Type == "redis" && config.Cache.RedisURL == "" {
		return fmt.Errorf("Redis URL is required when cache type is 'redis'")
	}

	if config.Cache.PairingTTL <= 0 || config.Cache.VendorListTTL <= 0 {
		return fmt.Errorf("cache TTLs must be positive")
	}

	if config.RateLimit.PerIP < 0 {
		return fmt.Errorf("per-IP rate limit must not be negative, got: %d", config.RateLimit.PerIP)
	}

	return nil
}

// loadEnvFile loads ./.env when present. Variables already set in the environment win.
func loadEnvFile() error {
	if _, err := os.Stat(".env"); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return godotenv.Load()
}
