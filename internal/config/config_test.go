package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, ":9091", cfg.MetricsAddr)
	assert.Equal(t, "https://api.z.ai/api/coding/paas/v4", cfg.VisionBaseURL)
	assert.Equal(t, "glm-4.5v", cfg.VisionModel)
	assert.Equal(t, int64(299), cfg.StripeAmountCents)
	assert.Equal(t, "usd", cfg.StripeCurrency)
	assert.Equal(t, "Aurascan Full Report", cfg.StripeProductName)
	assert.True(t, cfg.SimulateWhenUnconfigured)
	assert.Equal(t, 30, cfg.RateLimitPerIP)
	assert.Equal(t, int64(8<<20), cfg.MaxUploadBytes)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("VISION_MODEL", "glm-5v")
	t.Setenv("STRIPE_CURRENCY", "EUR")
	t.Setenv("VISION_BASE_URL", "https://vision.example.com/v4/")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "glm-5v", cfg.VisionModel)
	assert.Equal(t, "eur", cfg.StripeCurrency) // normalized to lowercase
	assert.Equal(t, "https://vision.example.com/v4", cfg.VisionBaseURL)
}

func TestValidateDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.NoError(t, cfg.Validate())
}

func TestValidateRejectsBadValues(t *testing.T) {
	base := func() *Config {
		cfg, err := Load()
		require.NoError(t, err)
		return cfg
	}

	cases := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{"empty http addr", func(c *Config) { c.HTTPAddr = "" }, "APP_HTTP_ADDR"},
		{"empty metrics addr", func(c *Config) { c.MetricsAddr = "" }, "METRICS_ADDR"},
		{"zero amount", func(c *Config) { c.StripeAmountCents = 0 }, "STRIPE_AMOUNT_CENTS"},
		{"bad currency", func(c *Config) { c.StripeCurrency = "dollars" }, "STRIPE_CURRENCY"},
		{"empty product name", func(c *Config) { c.StripeProductName = "" }, "STRIPE_PRODUCT_NAME"},
		{"zero upload cap", func(c *Config) { c.MaxUploadBytes = 0 }, "MAX_UPLOAD_BYTES"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base()
			tc.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			var verr ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.wantField, verr.Field)
		})
	}
}

func TestValidateProductionConstraints(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	cfg.AppEnv = "prod"

	// Missing vision key fails first.
	verr := requireValidationError(t, cfg.Validate())
	assert.Equal(t, "VISION_API_KEY", verr.Field)

	cfg.VisionAPIKey = "vk_live"
	verr = requireValidationError(t, cfg.Validate())
	assert.Equal(t, "STRIPE_SECRET_KEY", verr.Field)

	cfg.StripeSecretKey = "sk_live"
	verr = requireValidationError(t, cfg.Validate())
	assert.Equal(t, "SIMULATE_WHEN_UNCONFIGURED", verr.Field)

	cfg.SimulateWhenUnconfigured = false
	assert.NoError(t, cfg.Validate())
}

func requireValidationError(t *testing.T, err error) ValidationError {
	t.Helper()
	require.Error(t, err)
	var verr ValidationError
	require.ErrorAs(t, err, &verr)
	return verr
}
