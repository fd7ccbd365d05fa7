package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("CHANNEL_ID", "-100123")
	t.Setenv("OPENAI_API_KEY", "sk-test")
}

func TestFromEnv_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := fromEnv()
	require.NoError(t, err)

	assert.Equal(t, "123:abc", cfg.BotToken)
	assert.Equal(t, int64(-100123), cfg.ChannelID)
	assert.Equal(t, DefaultOpenAIModel, cfg.OpenAIModel)
	assert.Equal(t, DefaultDedupResetInterval, cfg.DedupResetInterval)
	assert.Equal(t, DefaultTranslateTimeout, cfg.TranslateTimeout)
	assert.Equal(t, "ru", cfg.DefaultLanguage)
	assert.False(t, cfg.PostLogEnabled())
}

func TestFromEnv_BotTokenFallback(t *testing.T) {
	t.Setenv("BOT_TOKEN", "456:def")
	t.Setenv("CHANNEL_ID", "-100123")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := fromEnv()
	require.NoError(t, err)
	assert.Equal(t, "456:def", cfg.BotToken)
}

func TestFromEnv_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("DEDUP_RESET_INTERVAL", "1h")
	t.Setenv("OPENAI_MODEL", "gpt-4o-mini")
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("DEBUG", "true")

	cfg, err := fromEnv()
	require.NoError(t, err)
	assert.Equal(t, time.Hour, cfg.DedupResetInterval)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAIModel)
	assert.True(t, cfg.PostLogEnabled())
	assert.True(t, cfg.Debug)
}

func TestFromEnv_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "invalid channel id", env: map[string]string{"CHANNEL_ID": "channel"}},
		{name: "missing channel id", env: map[string]string{"CHANNEL_ID": ""}},
		{name: "missing openai key", env: map[string]string{"OPENAI_API_KEY": ""}},
		{name: "invalid reset interval", env: map[string]string{"DEDUP_RESET_INTERVAL": "soon"}},
		{name: "negative timeout", env: map[string]string{"TRANSLATE_TIMEOUT": "-1s"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := fromEnv()
			assert.Error(t, err)
		})
	}
}
