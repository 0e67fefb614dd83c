package config

import "github.com/caarlos0/env/v11"

type BotConfig struct {
	WSURL   string `env:"WS_URL" envDefault:"ws://localhost:8080/ws"`
	TableID string `env:"TABLE_ID" envDefault:""`
	Name    string `env:"BOT_NAME" envDefault:"bot"`
	// AutoStart makes the bot send start once enough players are seated.
	AutoStart bool `env:"BOT_AUTO_START" envDefault:"false"`
}

func LoadBot() (BotConfig, error) {
	var cfg BotConfig
	err := env.Parse(&cfg)
	return cfg, err
}
