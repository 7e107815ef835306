// Package config reads the service settings from the environment, with an
// optional config.yaml in the working directory.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	BackendMemory    = "memory"
	BackendRedis     = "redis"
	BackendPostgres  = "postgres"
	BackendGoChannel = "gochannel"
)

type Config struct {
	HTTPAddr      string        `mapstructure:"HTTP_ADDR" validate:"required"`
	APIBaseURL    string        `mapstructure:"API_BASE_URL" validate:"required,url"`
	StoreBackend  string        `mapstructure:"STORE_BACKEND" validate:"oneof=memory redis postgres"`
	StoreScope    string        `mapstructure:"STORE_SCOPE" validate:"required"`
	RedisAddr     string        `mapstructure:"REDIS_ADDR"`
	PostgresURL   string        `mapstructure:"POSTGRES_URL" validate:"required_if=StoreBackend postgres"`
	PubSubBackend string        `mapstructure:"PUBSUB_BACKEND" validate:"oneof=gochannel redis"`
	LogLevel      string        `mapstructure:"LOG_LEVEL"`
	SessionTTL    time.Duration `mapstructure:"SESSION_TTL" validate:"gt=0"`
	HTTPTimeout   time.Duration `mapstructure:"HTTP_TIMEOUT" validate:"gte=0"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("API_BASE_URL", "http://localhost:5000/api")
	v.SetDefault("STORE_BACKEND", BackendMemory)
	v.SetDefault("STORE_SCOPE", "default")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("POSTGRES_URL", "")
	v.SetDefault("PUBSUB_BACKEND", BackendGoChannel)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SESSION_TTL", "48h")
	v.SetDefault("HTTP_TIMEOUT", "0s")
}

func Load() (Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if c.NeedsRedis() && c.RedisAddr == "" {
		return errors.New("invalid config: REDIS_ADDR is required for the redis backend")
	}

	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	return nil
}

func (c Config) NeedsRedis() bool {
	return c.StoreBackend == BackendRedis || c.PubSubBackend == BackendRedis
}

func (c Config) Level() logrus.Level {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}
