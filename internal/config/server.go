package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type ServerConfig struct {
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`
	// PostgresDSN is optional; without it matches are not recorded.
	PostgresDSN string `env:"POSTGRES_DSN"`

	DefaultRoleSet  string        `env:"DEFAULT_ROLE_SET" envDefault:"original"`
	AllowObservers  bool          `env:"ALLOW_OBSERVERS" envDefault:"true"`
	MaxPlayers      int           `env:"MAX_PLAYERS" envDefault:"6"`
	MaxTables       int           `env:"MAX_TABLES" envDefault:"100"`
	TableTTL        time.Duration `env:"TABLE_TTL" envDefault:"30m"`
	JanitorInterval time.Duration `env:"JANITOR_INTERVAL" envDefault:"1m"`

	// Webhook notifications for match start, narration and results.
	NotifyEnabled        bool          `env:"NOTIFY_ENABLED" envDefault:"false"`
	NotifyTargetsJSON    string        `env:"NOTIFY_TARGETS_JSON"`
	NotifyTargetsPath    string        `env:"NOTIFY_TARGETS_PATH"`
	NotifyWorkers        int           `env:"NOTIFY_WORKERS" envDefault:"2"`
	NotifyRetryMax       int           `env:"NOTIFY_RETRY_MAX" envDefault:"3"`
	NotifyRetryBase      time.Duration `env:"NOTIFY_RETRY_BASE" envDefault:"500ms"`
	NotifyRequestTimeout time.Duration `env:"NOTIFY_REQUEST_TIMEOUT" envDefault:"5s"`
}

func LoadServer() (ServerConfig, error) {
	var cfg ServerConfig
	err := env.Parse(&cfg)
	return cfg, err
}
