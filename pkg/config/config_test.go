package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"apod/pkg/client"
)

var envKeys = []string{
	"APP_ENV", "APP_PORT", "LOG_LEVEL", "LOG_FORMAT", "ALLOWED_ORIGINS",
	"APOD_URL", "NASA_API_KEY", "APOD_ATTEMPT_TIMEOUT", "APOD_MAX_ATTEMPTS",
	"APOD_BASE_DELAY", "APOD_RATE_LIMIT_DELAY", "APOD_RANGE_ORDER",
	"APOD_THUMBS", "APOD_RECENT_DAYS", "APOD_RANDOM_COUNT",
}

// clearEnv unsets every variable Load reads and restores them after the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, "8080", cfg.App.Port)
	require.Equal(t, "info", cfg.App.LogLevel)
	require.Equal(t, "json", cfg.App.LogFormat)
	require.Equal(t, []string{"*"}, cfg.App.AllowedOrigins)

	require.Equal(t, "https://api.nasa.gov/planetary/apod", cfg.APOD.URL)
	require.Equal(t, "DEMO_KEY", cfg.APOD.APIKey)
	require.Equal(t, 10*time.Second, cfg.APOD.AttemptTimeout)
	require.Equal(t, 3, cfg.APOD.MaxAttempts)
	require.Equal(t, 2*time.Second, cfg.APOD.BaseDelay)
	require.Equal(t, 5*time.Second, cfg.APOD.RateLimitDelay)
	require.Equal(t, "asc", cfg.APOD.RangeOrder)
	require.True(t, cfg.APOD.Thumbs)
	require.Equal(t, 7, cfg.APOD.RecentDays)
	require.Equal(t, 6, cfg.APOD.RandomCount)
}

func TestLoad_Env(t *testing.T) {
	clearEnv(t)
	t.Setenv("NASA_API_KEY", "personal")
	t.Setenv("APOD_RANGE_ORDER", "desc")
	t.Setenv("APOD_ATTEMPT_TIMEOUT", "3s")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("LOG_FORMAT", "text")

	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, "personal", cfg.APOD.APIKey)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.App.AllowedOrigins)

	cc := cfg.Client()
	require.Equal(t, client.OrderDescending, cc.RangeOrder)
	require.Equal(t, 3*time.Second, cc.AttemptTimeout)
	require.Equal(t, "personal", cc.APIKey)

	log := cfg.Logger()
	require.IsType(t, &logrus.TextFormatter{}, log.Formatter)
	require.Equal(t, logrus.InfoLevel, log.GetLevel())
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yml")
	content := `
app:
  port: "9090"
  log_level: debug
apod:
  api_key: from-file
  recent_days: 14
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "9090", cfg.App.Port)
	require.Equal(t, "from-file", cfg.APOD.APIKey)
	require.Equal(t, 14, cfg.APOD.RecentDays)
	require.Equal(t, 6, cfg.APOD.RandomCount)
	require.Equal(t, logrus.DebugLevel, cfg.Logger().GetLevel())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "range order", key: "APOD_RANGE_ORDER", value: "sideways"},
		{name: "attempts", key: "APOD_MAX_ATTEMPTS", value: "0"},
		{name: "random count", key: "APOD_RANDOM_COUNT", value: "0"},
		{name: "log level", key: "LOG_LEVEL", value: "loud"},
		{name: "log format", key: "LOG_FORMAT", value: "xml"},
		{name: "duration", key: "APOD_BASE_DELAY", value: "soon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load("")
			require.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.Error(t, err)
}
