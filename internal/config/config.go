// /internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/keshon/server-herald/internal/storage"
)

type Config struct {
	DiscordToken string `env:"DISCORD_TOKEN,required,notEmpty"`
	Trigger      string `env:"BOT_TRIGGER" envDefault:"!bot"`
	DataDir      string `env:"DATA_DIR" envDefault:"data"`
	DeveloperID  string `env:"DEVELOPER_ID"`

	CommandEnabled bool `env:"COMMAND_ENABLED" envDefault:"true"`

	RoleEnabled bool   `env:"ROLE_ENABLED" envDefault:"false"`
	RoleGuild   string `env:"ROLE_GUILD"`
	RoleChannel string `env:"ROLE_CHANNEL"`

	JoinEnabled bool   `env:"JOIN_ENABLED" envDefault:"false"`
	JoinGuild   string `env:"JOIN_GUILD"`
	JoinChannel string `env:"JOIN_CHANNEL"`

	RateLimitMargin  time.Duration `env:"RATE_LIMIT_MARGIN" envDefault:"250ms"`
	ReactionInterval time.Duration `env:"REACTION_INTERVAL" envDefault:"1s"`
	StartupAttempts  int           `env:"STARTUP_ATTEMPTS" envDefault:"3"`
	StartupDelay     time.Duration `env:"STARTUP_DELAY" envDefault:"4s"`

	MetricsAddr string `env:"METRICS_ADDR"`
	WatchData   bool   `env:"WATCH_DATA" envDefault:"false"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogDev   bool   `env:"LOG_DEV" envDefault:"false"`
}

// LoadDotEnv seeds the environment from a .env file if one exists. It reports
// whether a file was loaded.
func LoadDotEnv(files ...string) bool {
	return godotenv.Load(files...) == nil
}

// Load parses the environment into a Config and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field requirements env tags cannot express.
func (c *Config) Validate() error {
	var errs []error
	if c.Trigger == "" {
		errs = append(errs, errors.New("BOT_TRIGGER must not be empty"))
	}
	if c.RoleEnabled && (c.RoleGuild == "" || c.RoleChannel == "") {
		errs = append(errs, errors.New("ROLE_GUILD and ROLE_CHANNEL are required when ROLE_ENABLED is set"))
	}
	if c.JoinEnabled && (c.JoinGuild == "" || c.JoinChannel == "") {
		errs = append(errs, errors.New("JOIN_GUILD and JOIN_CHANNEL are required when JOIN_ENABLED is set"))
	}
	if c.StartupAttempts < 1 {
		errs = append(errs, errors.New("STARTUP_ATTEMPTS must be at least 1"))
	}
	return errors.Join(errs...)
}

// Paths returns the data file locations under DataDir.
func (c *Config) Paths() storage.Paths {
	return storage.Paths{Dir: c.DataDir}
}

// IsDeveloper reports whether userID is the configured developer.
func IsDeveloper(cfg *Config, userID string) bool {
	return cfg != nil && cfg.DeveloperID != "" && userID == cfg.DeveloperID
}
