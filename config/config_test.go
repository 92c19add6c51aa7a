package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("FORM_BOT_TOKEN", "123:abc")
	t.Setenv("FORM_CHAT_ID", "@creatorhub_apps")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.GinMode)
	assert.Equal(t, "production", cfg.Server.AppEnv)
	assert.Empty(t, cfg.Server.AllowedOrigins)
	assert.Equal(t, "123:abc", cfg.Telegram.BotToken)
	assert.Equal(t, "@creatorhub_apps", cfg.Telegram.ChatID)
	assert.Equal(t, "https://api.telegram.org", cfg.Telegram.APIBase)
	assert.Empty(t, cfg.Funnel.SubmitURL)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Profiling.Enabled)
}

func TestLoad_MissingBotToken(t *testing.T) {
	t.Setenv("FORM_BOT_TOKEN", "")
	t.Setenv("FORM_CHAT_ID", "@creatorhub_apps")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FORM_BOT_TOKEN")
}

func TestLoad_MissingChatID(t *testing.T) {
	t.Setenv("FORM_BOT_TOKEN", "123:abc")
	t.Setenv("FORM_CHAT_ID", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FORM_CHAT_ID")
}

func TestLoad_CORSOrigins(t *testing.T) {
	t.Setenv("FORM_BOT_TOKEN", "123:abc")
	t.Setenv("FORM_CHAT_ID", "-100123")
	t.Setenv("ALLOWED_CORS_ORIGINS", "https://creatorhub.example, https://www.creatorhub.example ,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{
		"https://creatorhub.example",
		"https://www.creatorhub.example",
	}, cfg.Server.AllowedOrigins)
}

func TestLoad_FunnelURLFromBase(t *testing.T) {
	t.Setenv("FORM_BOT_TOKEN", "123:abc")
	t.Setenv("FORM_CHAT_ID", "-100123")
	t.Setenv("FUNNEL_BASE_URL", "https://funnel.example/")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://funnel.example/submitted", cfg.Funnel.SubmitURL)
}

func TestLoad_FunnelSubmitURLWins(t *testing.T) {
	t.Setenv("FORM_BOT_TOKEN", "123:abc")
	t.Setenv("FORM_CHAT_ID", "-100123")
	t.Setenv("FUNNEL_BASE_URL", "https://funnel.example")
	t.Setenv("FUNNEL_SUBMIT_URL", "https://other.example/hook")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://other.example/hook", cfg.Funnel.SubmitURL)
}

func TestLoad_ProfilingRequiresEndpoint(t *testing.T) {
	t.Setenv("FORM_BOT_TOKEN", "123:abc")
	t.Setenv("FORM_CHAT_ID", "-100123")
	t.Setenv("O11Y_PROFILING_ENABLED", "true")
	t.Setenv("O11Y_PROFILING_ENDPOINT", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "O11Y_PROFILING_ENDPOINT")
}

func TestConfig_EnvironmentChecks(t *testing.T) {
	tests := []struct {
		name     string
		appEnv   string
		ginMode  string
		wantDev  bool
		wantProd bool
	}{
		{"production release", "production", "release", false, true},
		{"development", "development", "release", true, false},
		{"debug mode counts as dev", "production", "debug", true, true},
		{"staging", "staging", "release", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Server: ServerConfig{AppEnv: tt.appEnv, GinMode: tt.ginMode}}
			assert.Equal(t, tt.wantDev, cfg.IsDevelopment())
			assert.Equal(t, tt.wantProd, cfg.IsProduction())
		})
	}
}
