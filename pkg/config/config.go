// Package config loads runtime configuration from, in increasing priority:
// a YAML config file, a .env file, MOVIMAIL_* environment variables, and
// command-line flags.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

type Config struct {
	// DatabaseURL is the Postgres DSN for the transaction store.
	DatabaseURL string `mapstructure:"database_url"`
	// GmailCredentials and GmailToken are the OAuth client and user token
	// file paths.
	GmailCredentials string `mapstructure:"gmail_credentials"`
	GmailToken       string `mapstructure:"gmail_token"`
	// UserID is the UUID of the account that owns stored transactions.
	UserID string `mapstructure:"user_id"`
	// DaysBack is how far the mail search window reaches.
	DaysBack int `mapstructure:"days_back"`
	// Schedule is the cron expression used by the serve command.
	Schedule string `mapstructure:"schedule"`
}

// Build reads configuration. cfgFile may be empty, in which case
// ./config.yaml is tried but not required. flags may be nil.
func Build(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	// A .env next to the binary keeps local secrets out of the shell.
	_ = gotenv.Load()

	v := viper.New()
	// Empty defaults register the keys so env-only values survive Unmarshal.
	v.SetDefault("database_url", "")
	v.SetDefault("user_id", "")
	v.SetDefault("gmail_credentials", "./credentials.json")
	v.SetDefault("gmail_token", "./token.json")
	v.SetDefault("days_back", 7)
	v.SetDefault("schedule", "@hourly")

	v.SetEnvPrefix("MOVIMAIL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("binding flags: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.UserID != "" {
		if _, err := uuid.Parse(c.UserID); err != nil {
			return fmt.Errorf("user_id must be a UUID: %w", err)
		}
	}
	if c.DaysBack < 1 {
		return fmt.Errorf("days_back must be at least 1, got %d", c.DaysBack)
	}
	return nil
}
