package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Config represents application configuration loaded from YAML/env.
type Config struct {
	HTTP struct {
		Port string `yaml:"port" env:"HTTP_PORT"`
	} `yaml:"http"`
	Database struct {
		DSN string `yaml:"dsn" env:"POSTGRES_DSN"`
	} `yaml:"database"`
	Redis struct {
		Addr     string `yaml:"addr" env:"REDIS_ADDR"`
		Password string `yaml:"password" env:"REDIS_PASSWORD"`
	} `yaml:"redis"`
	JWT struct {
		Secret           string `yaml:"secret" env:"JWT_SECRET"`
		ExpiresInMinutes int    `yaml:"expiresInMinutes" env:"JWT_EXPIRES_MINUTES"`
	} `yaml:"jwt"`
	Energy struct {
		DefaultTimezone string `yaml:"defaultTimezone" env:"ENERGY_DEFAULT_TIMEZONE"`
	} `yaml:"energy"`
	Redex struct {
		URL              string `yaml:"url" env:"REDEX_URL"`
		APIKey           string `yaml:"apiKey" env:"REDEX_API_KEY"`
		ClientID         string `yaml:"clientId" env:"REDEX_CLIENT_ID"`
		ClientSecret     string `yaml:"clientSecret" env:"REDEX_CLIENT_SECRET"`
		PushIntervalMins int    `yaml:"pushIntervalMinutes" env:"REDEX_PUSH_INTERVAL_MINUTES"`
	} `yaml:"redex"`
}

// Load reads configuration and applies defaults and validation.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.HTTP.Port = "8080"
	cfg.JWT.ExpiresInMinutes = 60
	cfg.Energy.DefaultTimezone = "Indian/Mauritius"
	cfg.Redex.PushIntervalMins = 24 * 60

	if err := loadInto(cfg); err != nil {
		return nil, err
	}

	if cfg.Database.DSN == "" {
		return nil, errors.New("config: database DSN is required")
	}
	if cfg.JWT.Secret == "" {
		return nil, errors.New("config: jwt secret is required")
	}
	if cfg.JWT.ExpiresInMinutes <= 0 {
		cfg.JWT.ExpiresInMinutes = 60
	}
	if cfg.Energy.DefaultTimezone == "" {
		cfg.Energy.DefaultTimezone = "Indian/Mauritius"
	}
	if cfg.Redex.PushIntervalMins <= 0 {
		cfg.Redex.PushIntervalMins = 24 * 60
	}

	return cfg, nil
}

// HTTPAddress ensures we always return host:port formatted string.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}

// JWTExpiration converts configured expiry to duration.
func (c *Config) JWTExpiration() time.Duration {
	if c.JWT.ExpiresInMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(c.JWT.ExpiresInMinutes) * time.Minute
}

// RedexPushInterval converts the configured push cadence to a duration.
func (c *Config) RedexPushInterval() time.Duration {
	if c.Redex.PushIntervalMins <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(c.Redex.PushIntervalMins) * time.Minute
}
