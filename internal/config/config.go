package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Environment     string        `validate:"oneof=development test production"`
	Port            string        `validate:"required,numeric"`
	RoutePrefix     string        `validate:"omitempty,startswith=/"`
	ShutdownTimeout time.Duration `validate:"gt=0"`
	SwaggerEnabled  bool
	Log             LogConfig
	Auth            AuthConfig
	RateLimit       RateLimitConfig
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `validate:"oneof=trace debug info warn warning error fatal panic"`
	Format string `validate:"oneof=json text"`
}

// AuthConfig holds the keys and token settings used for non-anonymous routes
type AuthConfig struct {
	FunctionKey string
	MasterKey   string
	JWTSecret   string
	JWTIssuer   string
	ExpiryHours int `validate:"gte=0"`
}

// RateLimitConfig holds request rate limiting configuration. A zero rate disables
// the limiter.
type RateLimitConfig struct {
	RequestsPerSecond float64 `validate:"gte=0"`
	Burst             int     `validate:"gte=0"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	// Set up Viper
	viper.AutomaticEnv()
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("ROUTE_PREFIX", "/api")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "json")
	viper.SetDefault("JWT_ISSUER", "functions-sample-api")
	viper.SetDefault("JWT_EXPIRY_HOURS", 24)
	viper.SetDefault("RATE_LIMIT_RPS", 0)
	viper.SetDefault("RATE_LIMIT_BURST", 0)
	viper.SetDefault("SHUTDOWN_TIMEOUT_SECONDS", 30)

	environment := viper.GetString("ENVIRONMENT")
	viper.SetDefault("SWAGGER_ENABLED", environment != "production")

	config := &Config{
		Environment:     environment,
		Port:            resolvePort(),
		RoutePrefix:     NormalizePrefix(viper.GetString("ROUTE_PREFIX")),
		ShutdownTimeout: time.Duration(viper.GetInt("SHUTDOWN_TIMEOUT_SECONDS")) * time.Second,
		SwaggerEnabled:  viper.GetBool("SWAGGER_ENABLED"),
		Log: LogConfig{
			Level:  strings.ToLower(viper.GetString("LOG_LEVEL")),
			Format: strings.ToLower(viper.GetString("LOG_FORMAT")),
		},
		Auth: AuthConfig{
			FunctionKey: viper.GetString("FUNCTION_KEY"),
			MasterKey:   viper.GetString("MASTER_KEY"),
			JWTSecret:   viper.GetString("JWT_SECRET"),
			JWTIssuer:   viper.GetString("JWT_ISSUER"),
			ExpiryHours: viper.GetInt("JWT_EXPIRY_HOURS"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: viper.GetFloat64("RATE_LIMIT_RPS"),
			Burst:             viper.GetInt("RATE_LIMIT_BURST"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the configuration values
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// TokenDuration returns the lifetime of issued admin tokens
func (c *AuthConfig) TokenDuration() time.Duration {
	return time.Duration(c.ExpiryHours) * time.Hour
}

// NormalizePrefix turns "api", "/api" and "/api/" into "/api"; "" and "/" mean no prefix
func NormalizePrefix(prefix string) string {
	prefix = strings.Trim(strings.TrimSpace(prefix), "/")
	if prefix == "" {
		return ""
	}
	return "/" + prefix
}

// resolvePort prefers the port assigned by an Azure Functions custom handler host
func resolvePort() string {
	if port := os.Getenv(AzureCustomHandlerPortEnv); port != "" {
		return port
	}
	return viper.GetString("PORT")
}

// GetEnv gets an environment variable with a fallback value
func GetEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
