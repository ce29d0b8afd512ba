// /internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"slices"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	DiscordToken string   `env:"DISCORD_TOKEN" yaml:"discord_token"`
	Prefix       string   `env:"CERES_PREFIX" yaml:"prefix"`
	OwnerIDs     []string `env:"CERES_OWNER_IDS" envSeparator:"," yaml:"owner_ids"`

	FolderPath     string            `env:"CERES_FOLDER_PATH" yaml:"folder_path"`
	FolderCaptions map[string]string `yaml:"folder_captions"`
	EggPath        string            `env:"CERES_EGG_PATH" yaml:"egg_path"`

	LogPath     string `env:"CERES_LOG_PATH" yaml:"log_path"`
	LogMaxSize  int64  `env:"CERES_LOG_MAX_SIZE" yaml:"log_max_size"`
	StoragePath string `env:"STORAGE_PATH" yaml:"storage_path"`

	Marker           string `env:"CERES_MARKER" yaml:"marker"`
	ReminderAuthorID string `env:"CERES_REMINDER_AUTHOR_ID" yaml:"reminder_author_id"`
	ReminderTrigger  string `env:"CERES_REMINDER_TRIGGER" yaml:"reminder_trigger"`
	ReminderReply    string `env:"CERES_REMINDER_REPLY" yaml:"reminder_reply"`

	StatusText string `env:"CERES_STATUS_TEXT" yaml:"status_text"`
	StatusFile string `env:"CERES_STATUS_FILE" yaml:"status_file"`
	StatusCron string `env:"STATUS_CRON" yaml:"status_cron"`

	PlatformTimeout time.Duration `env:"CERES_PLATFORM_TIMEOUT" yaml:"platform_timeout"`
	CommandTimeout  time.Duration `env:"CERES_COMMAND_TIMEOUT" yaml:"command_timeout"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Prefix:           "!",
		LogPath:          "logs/ceres.log",
		LogMaxSize:       1024 * 1024,
		StoragePath:      "datastore.json",
		Marker:           "⏳",
		ReminderAuthorID: "526166150749618178",
		ReminderTrigger:  "Reminder from",
		ReminderReply:    "<a:DinkDonk:1025546103447355464>",
		PlatformTimeout:  10 * time.Second,
		CommandTimeout:   30 * time.Second,
	}
}

// Load builds the configuration: defaults, then the YAML file at path (or
// $CERES_CONFIG) when given, then environment variables, .env included.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("[INFO] No .env file found, falling back to system environment variables")
	}

	cfg := Default()
	if path == "" {
		path = os.Getenv("CERES_CONFIG")
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config file: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

// Validate checks values every binary needs. The Discord token is checked by
// the bot itself since the CLI runs without it.
func (c *Config) Validate() error {
	var errs []error
	if c.Prefix == "" {
		errs = append(errs, errors.New("prefix must not be empty"))
	}
	if c.Marker == "" {
		errs = append(errs, errors.New("marker must not be empty"))
	}
	if c.LogPath == "" {
		errs = append(errs, errors.New("log path must not be empty"))
	}
	if c.LogMaxSize <= 0 {
		errs = append(errs, errors.New("log max size must be positive"))
	}
	if c.PlatformTimeout <= 0 || c.CommandTimeout <= 0 {
		errs = append(errs, errors.New("timeouts must be positive"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// IsOwner reports whether userID is one of the configured owners.
func (c *Config) IsOwner(userID string) bool {
	return slices.Contains(c.OwnerIDs, userID)
}
