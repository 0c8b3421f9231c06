package config

import (
	"encoding/json"
	"errors"
	"os"
	"strings"

	"github.com/artisania/storefront/internal/api"
	delivery "github.com/artisania/storefront/internal/delivery/http"
	"github.com/artisania/storefront/pkg/cache"
	"github.com/artisania/storefront/pkg/events"
)

type CacheConfig struct {
	TTLSeconds         int  `json:"ttl_seconds"`
	CategoryTTLSeconds int  `json:"category_ttl_seconds"`
	UseRedis           bool `json:"use_redis"`
}

type CredentialsConfig struct {
	File string `json:"file"`
}

type LogConfig struct {
	Level string `json:"level"`
}

type Config struct {
	API         api.Config        `json:"api"`
	HTTP        delivery.Config   `json:"http"`
	Cache       CacheConfig       `json:"cache"`
	Redis       cache.RedisConfig `json:"redis"`
	Kafka       events.Config     `json:"kafka"`
	Credentials CredentialsConfig `json:"credentials"`
	Log         LogConfig         `json:"log"`
}

// Load reads the JSON config file, then lets environment variables override
// selected fields. A missing file is not an error; defaults plus the
// environment are enough to run.
func Load(filepath string) (cfg Config, err error) {
	file, err := os.Open(filepath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, err
	}
	if err == nil {
		defer file.Close()
		if err = json.NewDecoder(file).Decode(&cfg); err != nil {
			return cfg, err
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func (cfg *Config) applyEnv() {
	if v := os.Getenv("API_BASE_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		cfg.HTTP.Host = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		host, port, ok := strings.Cut(v, ":")
		cfg.Redis.Host = host
		if ok {
			cfg.Redis.Port = port
		}
		cfg.Cache.UseRedis = true
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("CREDENTIALS_FILE"); v != "" {
		cfg.Credentials.File = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

func (cfg *Config) applyDefaults() {
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = "http://localhost:8080"
	}
	if cfg.HTTP.Host == "" {
		cfg.HTTP.Host = ":3000"
	}
	if cfg.Cache.TTLSeconds <= 0 {
		cfg.Cache.TTLSeconds = 300
	}
	if cfg.Cache.CategoryTTLSeconds <= 0 {
		cfg.Cache.CategoryTTLSeconds = 600
	}
	if cfg.Credentials.File == "" {
		cfg.Credentials.File = "credentials.json"
	}
	if cfg.Kafka.Topic == "" {
		cfg.Kafka.Topic = "storefront-events"
	}
}
