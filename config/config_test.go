package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequiresToken(t *testing.T) {
	t.Setenv("DISCORD_BOT_TOKEN", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DISCORD_BOT_TOKEN", "token")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, "translate.google.com.au", cfg.TTS.Host)
	assert.Equal(t, 200, cfg.TTS.MaxMessageLen)
	assert.Empty(t, cfg.TTS.GoogleAPIKey)
}

func TestDataPaths(t *testing.T) {
	cfg := &Config{DataDir: filepath.Join("var", "bot")}

	assert.Equal(t, filepath.Join("var", "bot", "afflictions.json"), cfg.AfflictionsPath())
	assert.Equal(t, filepath.Join("var", "bot", "bot_configs.txt"), cfg.BotConfigsPath())
}
