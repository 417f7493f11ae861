package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type HTTPConfig struct {
	Port int `yaml:"port"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type RedisConfig struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type AIConfig struct {
	OpenAIKey    string `yaml:"openai_key"`
	GeminiKey    string `yaml:"gemini_key"`
	GeminiURL    string `yaml:"gemini_url"`
	DefaultModel string `yaml:"default_model"`
	MaxTokens    int    `yaml:"max_tokens"`
}

type PlacesConfig struct {
	APIKey      string        `yaml:"api_key"`
	BaseURL     string        `yaml:"base_url"`
	Timeout     time.Duration `yaml:"timeout"`
	Concurrency int           `yaml:"concurrency"` // max in-flight lookups per batch
}

type TripStoreConfig struct {
	BaseURL string        `yaml:"base_url"`
	APIKey  string        `yaml:"api_key"`
	Timeout time.Duration `yaml:"timeout"`
}

type PushConfig struct {
	TelegramToken string `yaml:"telegram_token"`
}

type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
	// RateLimit is submissions per user per window.
	RateLimit       int           `yaml:"rate_limit"`
	RateLimitWindow time.Duration `yaml:"rate_limit_window"`
}

type WorkerConfig struct {
	Workers int `yaml:"workers"`
	// LeaseTimeout is how long a job may sit in "generating" without an
	// update before the sweeper fails it.
	LeaseTimeout  time.Duration `yaml:"lease_timeout"`
	SweepInterval time.Duration `yaml:"sweep_interval"`
}

type Config struct {
	Log       LogConfig       `yaml:"log"`
	HTTP      HTTPConfig      `yaml:"http"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	AI        AIConfig        `yaml:"ai"`
	Places    PlacesConfig    `yaml:"places"`
	TripStore TripStoreConfig `yaml:"trip_store"`
	Push      PushConfig      `yaml:"push"`
	Auth      AuthConfig      `yaml:"auth"`
	Worker    WorkerConfig    `yaml:"worker"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// defaults
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.HTTP.Port <= 0 {
		cfg.HTTP.Port = 8080
	}
	if cfg.AI.DefaultModel == "" {
		cfg.AI.DefaultModel = "gpt-4o-mini"
	}
	if cfg.AI.MaxTokens <= 0 {
		cfg.AI.MaxTokens = 4096
	}
	if cfg.Places.Timeout <= 0 {
		cfg.Places.Timeout = 5 * time.Second
	}
	if cfg.Places.Concurrency <= 0 {
		cfg.Places.Concurrency = 5
	}
	if cfg.TripStore.Timeout <= 0 {
		cfg.TripStore.Timeout = 10 * time.Second
	}
	if cfg.Auth.RateLimit <= 0 {
		cfg.Auth.RateLimit = 5
	}
	if cfg.Auth.RateLimitWindow <= 0 {
		cfg.Auth.RateLimitWindow = time.Minute
	}
	if cfg.Worker.Workers <= 0 {
		cfg.Worker.Workers = 4
	}
	if cfg.Worker.LeaseTimeout <= 0 {
		cfg.Worker.LeaseTimeout = 30 * time.Minute
	}
	if cfg.Worker.SweepInterval <= 0 {
		cfg.Worker.SweepInterval = 5 * time.Minute
	}

	// Minimal validation
	if cfg.Database.URL == "" {
		return nil, errors.New("database.url is required")
	}
	if cfg.Redis.URL == "" {
		return nil, errors.New("redis.url is required")
	}
	if cfg.TripStore.BaseURL == "" {
		return nil, errors.New("trip_store.base_url is required")
	}
	if cfg.Auth.JWTSecret == "" {
		return nil, errors.New("auth.jwt_secret is required")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}
