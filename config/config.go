package config

import (
	"fmt"
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Discord struct {
		Token string `env:"DISCORD_BOT_TOKEN,required,notEmpty"`
	}
	TTS struct {
		// Host of the translate TTS endpoint. The com.au host selects the
		// Australian English voice variant.
		Host string `env:"TTS_HOST" envDefault:"translate.google.com.au"`
		// When set, speech is synthesized through the Google Cloud
		// Text-to-Speech API instead of the translate endpoint.
		GoogleAPIKey  string `env:"GOOGLE_TTS_API_KEY"`
		MaxMessageLen int    `env:"TTS_MAX_MESSAGE_LEN" envDefault:"200"`
	}
	DataDir string `env:"DATA_DIR" envDefault:"data"`
}

func Load() (*Config, error) {
	var config Config
	if err := env.Parse(&config); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &config, nil
}

func (c *Config) AfflictionsPath() string {
	return filepath.Join(c.DataDir, "afflictions.json")
}

func (c *Config) BotConfigsPath() string {
	return filepath.Join(c.DataDir, "bot_configs.txt")
}
