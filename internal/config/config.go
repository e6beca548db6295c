// Package config provides application configuration loading from environment
// variables and .env files. It uses viper for flexible configuration
// management with sensible defaults.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration loaded from environment
// variables or a .env file. Priority: environment variables > .env file >
// defaults. It is constructed once at startup and passed by reference into
// the vision and checkout clients; nothing reads ambient process state at
// request time.
type Config struct {
	AppEnv      string // Application environment (dev, staging, prod)
	HTTPAddr    string // HTTP server bind address (e.g., ":8080")
	MetricsAddr string // Metrics server bind address

	VisionAPIKey  string // Vision provider API key; empty enables simulation (see SimulateWhenUnconfigured)
	VisionBaseURL string // Vision provider base URL
	VisionModel   string // Vision model identifier

	StripeSecretKey   string // Payment provider secret key
	StripePriceID     string // Optional pre-created price; inline price_data is used when empty
	StripeAmountCents int64  // Inline price amount in minor units
	StripeCurrency    string // Inline price currency (ISO 4217, lowercase)
	StripeProductName string // Inline price product display name

	SimulateWhenUnconfigured bool  // Serve the fixed demo analysis when no vision key is set
	RateLimitPerIP           int   // Analyze requests allowed per IP per minute
	MaxUploadBytes           int64 // Upload size cap for the analyze endpoint
}

// Load reads configuration from environment variables and .env file (if
// present). Environment variables take precedence over .env file values.
// Returns a Config with all values populated (either from env or defaults).
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env") // Optional; silently ignored if file doesn't exist
	_ = v.ReadInConfig()    // Ignore error - .env is optional
	v.AutomaticEnv()        // Read from environment variables

	setConfigDefaults(v)

	return &Config{
		AppEnv:      v.GetString("APP_ENV"),
		HTTPAddr:    v.GetString("APP_HTTP_ADDR"),
		MetricsAddr: v.GetString("METRICS_ADDR"),

		VisionAPIKey:  v.GetString("VISION_API_KEY"),
		VisionBaseURL: strings.TrimRight(v.GetString("VISION_BASE_URL"), "/"),
		VisionModel:   v.GetString("VISION_MODEL"),

		StripeSecretKey:   v.GetString("STRIPE_SECRET_KEY"),
		StripePriceID:     v.GetString("STRIPE_PRICE_ID"),
		StripeAmountCents: v.GetInt64("STRIPE_AMOUNT_CENTS"),
		StripeCurrency:    strings.ToLower(v.GetString("STRIPE_CURRENCY")),
		StripeProductName: v.GetString("STRIPE_PRODUCT_NAME"),

		SimulateWhenUnconfigured: v.GetBool("SIMULATE_WHEN_UNCONFIGURED"),
		RateLimitPerIP:           v.GetInt("RATE_LIMIT_PER_IP"),
		MaxUploadBytes:           v.GetInt64("MAX_UPLOAD_BYTES"),
	}, nil
}

// setConfigDefaults sets default values for all configuration options.
// These defaults are suitable for local development but should be
// overridden in production.
func setConfigDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "dev")
	v.SetDefault("APP_HTTP_ADDR", ":8080")
	v.SetDefault("METRICS_ADDR", ":9091")
	v.SetDefault("VISION_BASE_URL", "https://api.z.ai/api/coding/paas/v4")
	v.SetDefault("VISION_MODEL", "glm-4.5v")
	v.SetDefault("STRIPE_AMOUNT_CENTS", 299)
	v.SetDefault("STRIPE_CURRENCY", "usd")
	v.SetDefault("STRIPE_PRODUCT_NAME", "Aurascan Full Report")
	v.SetDefault("SIMULATE_WHEN_UNCONFIGURED", true)
	v.SetDefault("RATE_LIMIT_PER_IP", 30)
	v.SetDefault("MAX_UPLOAD_BYTES", 8<<20)
}

// ValidationError represents a configuration validation error with details
// about what failed.
type ValidationError struct {
	Field   string // Name of the configuration field
	Message string // Human-readable error message
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("config validation failed [%s]: %s", e.Field, e.Message)
}

// Validate checks that the configuration is suitable to run with. It is
// intended to be called at application startup to fail fast on
// misconfiguration.
//
// In production (APP_ENV prod/production), stricter constraints apply:
// both provider credentials must be set and the simulation fallback must
// be disabled, so "service unavailable" can never masquerade as success.
func (c *Config) Validate() error {
	if c.HTTPAddr == "" {
		return ValidationError{Field: "APP_HTTP_ADDR", Message: "HTTP server address cannot be empty"}
	}
	if c.MetricsAddr == "" {
		return ValidationError{Field: "METRICS_ADDR", Message: "metrics server address cannot be empty"}
	}
	if c.VisionBaseURL == "" {
		return ValidationError{Field: "VISION_BASE_URL", Message: "vision base URL cannot be empty"}
	}
	if c.VisionModel == "" {
		return ValidationError{Field: "VISION_MODEL", Message: "vision model cannot be empty"}
	}
	if c.StripeAmountCents <= 0 {
		return ValidationError{
			Field:   "STRIPE_AMOUNT_CENTS",
			Message: fmt.Sprintf("amount must be a positive number of minor units, got %d", c.StripeAmountCents),
		}
	}
	if len(c.StripeCurrency) != 3 {
		return ValidationError{
			Field:   "STRIPE_CURRENCY",
			Message: fmt.Sprintf("currency must be a 3-letter ISO code, got %q", c.StripeCurrency),
		}
	}
	if c.StripeProductName == "" {
		return ValidationError{Field: "STRIPE_PRODUCT_NAME", Message: "product name cannot be empty"}
	}
	if c.MaxUploadBytes <= 0 {
		return ValidationError{Field: "MAX_UPLOAD_BYTES", Message: "upload size cap must be positive"}
	}

	if c.AppEnv == "prod" || c.AppEnv == "production" {
		if c.VisionAPIKey == "" {
			return ValidationError{Field: "VISION_API_KEY", Message: "vision API key is required in production"}
		}
		if c.StripeSecretKey == "" {
			return ValidationError{Field: "STRIPE_SECRET_KEY", Message: "payment secret key is required in production"}
		}
		if c.SimulateWhenUnconfigured {
			return ValidationError{
				Field:   "SIMULATE_WHEN_UNCONFIGURED",
				Message: "simulated analyses are not allowed in production; set SIMULATE_WHEN_UNCONFIGURED=false",
			}
		}
	}

	return nil
}
