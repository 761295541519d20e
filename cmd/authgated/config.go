package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type serverConfig struct {
	Listen string `yaml:"listen"`

	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	Database struct {
		DSN string `yaml:"dsn"`
	} `yaml:"database"`

	Auth struct {
		Secret           string        `yaml:"secret"`
		SessionKeyPrefix string        `yaml:"session_key_prefix"`
		IdentityCacheTTL time.Duration `yaml:"identity_cache_ttl"`
	} `yaml:"auth"`

	Captcha struct {
		Enabled bool          `yaml:"enabled"`
		Length  int           `yaml:"length"`
		TTL     time.Duration `yaml:"ttl"`
	} `yaml:"captcha"`
}

// loadConfig layers defaults, an optional YAML file, and AUTHGATE_* env
// overrides, in that order. A .env file in the working directory is loaded
// first so containerized deployments can ship env-only configuration.
func loadConfig(path string) (*serverConfig, error) {
	_ = godotenv.Load()

	cfg := &serverConfig{}
	cfg.Listen = ":8080"
	cfg.Redis.Addr = "127.0.0.1:6379"
	cfg.Database.DSN = "authgate.db"
	cfg.Auth.IdentityCacheTTL = time.Hour
	cfg.Captcha.Enabled = true

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(&cfg.Listen, "AUTHGATE_LISTEN")
	applyEnv(&cfg.Redis.Addr, "AUTHGATE_REDIS_ADDR")
	applyEnv(&cfg.Redis.Password, "AUTHGATE_REDIS_PASSWORD")
	applyEnvInt(&cfg.Redis.DB, "AUTHGATE_REDIS_DB")
	applyEnv(&cfg.Database.DSN, "AUTHGATE_DATABASE_DSN")
	applyEnv(&cfg.Auth.Secret, "AUTHGATE_SECRET")
	applyEnv(&cfg.Auth.SessionKeyPrefix, "AUTHGATE_SESSION_KEY_PREFIX")

	if cfg.Auth.Secret == "" {
		return nil, fmt.Errorf("auth secret is required (auth.secret or AUTHGATE_SECRET)")
	}
	return cfg, nil
}

func applyEnv(target *string, key string) {
	if value := os.Getenv(key); value != "" {
		*target = value
	}
}

func applyEnvInt(target *int, key string) {
	value := os.Getenv(key)
	if value == "" {
		return
	}
	if n, err := strconv.Atoi(value); err == nil {
		*target = n
	}
}
