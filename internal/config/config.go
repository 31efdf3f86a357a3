// Package config loads the bot configuration from a YAML file with
// environment overrides for the secrets.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"

	"go.yaml.in/yaml/v3"

	"github.com/veeso/spazio-grigio-bot/internal/logging"
)

type Config struct {
	Logging logging.Config `yaml:"logging"`

	Telegram struct {
		Token string `yaml:"token"`
	} `yaml:"telegram"`

	Redis struct {
		URL string `yaml:"url"`
	} `yaml:"redis"`

	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`

	Mail struct {
		Server   string `yaml:"server"`
		Port     int    `yaml:"port"`
		Address  string `yaml:"address"`
		Password string `yaml:"password"`
		Sender   string `yaml:"sender"`
	} `yaml:"mail"`

	YouTube struct {
		ChannelID string `yaml:"channel_id"`
	} `yaml:"youtube"`

	RSSHub struct {
		URL     string `yaml:"url"`
		Account string `yaml:"account"`
	} `yaml:"rsshub"`

	Schedules Schedules `yaml:"schedules"`

	Notify struct {
		RatePerSec int `yaml:"rate_per_sec"`
	} `yaml:"notify"`
}

// Schedules are six-field cron specs (seconds granularity), one independent
// trigger per job. Defaults mirror the historical deployment.
type Schedules struct {
	Newsletter  string `yaml:"newsletter"`
	Video       string `yaml:"video"`
	Instagram   string `yaml:"instagram"`
	GoodMorning string `yaml:"good_morning"`
}

func defaults() Config {
	var cfg Config
	cfg.Mail.Port = 993
	cfg.Schedules = Schedules{
		Newsletter:  "0 30 19 * * *",
		Video:       "0 30 * * * *",
		Instagram:   "0 40 * * * *",
		GoodMorning: "0 5 6 * * *",
	}
	cfg.Notify.RatePerSec = 10
	return cfg
}

// Load reads path (optional: empty path skips the file), applies env
// overrides and validates. Unknown YAML keys are rejected.
func Load(path string) (*Config, error) {
	cfg := defaults()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		dec := yaml.NewDecoder(bytes.NewReader(b))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv() {
	envStr := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}
	envStr("TELEGRAM_TOKEN", &c.Telegram.Token)
	envStr("REDIS_URL", &c.Redis.URL)
	envStr("DATABASE_PATH", &c.Database.Path)
	envStr("MAIL_SERVER", &c.Mail.Server)
	envStr("MAIL_ADDRESS", &c.Mail.Address)
	envStr("MAIL_PASSWORD", &c.Mail.Password)
	envStr("MAIL_SENDER", &c.Mail.Sender)
	envStr("RSSHUB_URL", &c.RSSHub.URL)
	if v, ok := os.LookupEnv("MAIL_PORT"); ok {
		if p, err := strconv.Atoi(v); err == nil {
			c.Mail.Port = p
		}
	}
}

func (c *Config) Validate() error {
	if c.Telegram.Token == "" {
		return errors.New("telegram token is required (telegram.token or TELEGRAM_TOKEN)")
	}
	if c.Redis.URL == "" {
		return errors.New("redis url is required (redis.url or REDIS_URL)")
	}
	if c.Database.Path == "" {
		return errors.New("database path is required (database.path or DATABASE_PATH)")
	}
	if c.Mail.Server == "" || c.Mail.Address == "" || c.Mail.Password == "" || c.Mail.Sender == "" {
		return errors.New("mail server, address, password and sender are required")
	}
	if c.Mail.Port <= 0 || c.Mail.Port > 65535 {
		return fmt.Errorf("invalid mail port %d", c.Mail.Port)
	}
	if c.YouTube.ChannelID == "" {
		return errors.New("youtube channel_id is required")
	}
	if c.RSSHub.URL == "" || c.RSSHub.Account == "" {
		return errors.New("rsshub url and account are required")
	}
	return nil
}
