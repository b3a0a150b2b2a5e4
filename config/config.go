package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	SerpAPI  SerpAPIConfig  `yaml:"serpapi"`
	OpenAI   OpenAIConfig   `yaml:"openai"`
	Email    EmailConfig    `yaml:"email"`
	Airports AirportsConfig `yaml:"airports"`
	Retry    RetryConfig    `yaml:"retry"`
}

type HTTPConfig struct {
	Address string `yaml:"address"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers            []string `yaml:"brokers"`
	NotificationsTopic string   `yaml:"notifications_topic"`
	GroupID            string   `yaml:"group_id"`
}

type SerpAPIConfig struct {
	APIKey          string `yaml:"api_key"`
	BaseURL         string `yaml:"base_url"`
	Currency        string `yaml:"currency"`
	Locale          string `yaml:"locale"`
	TopFlights      int    `yaml:"top_flights"`
	CacheTTLSeconds int    `yaml:"cache_ttl_seconds"`
}

func (s SerpAPIConfig) CacheTTL() time.Duration {
	return time.Duration(s.CacheTTLSeconds) * time.Second
}

type OpenAIConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

type EmailConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	From    string `yaml:"from"`
}

type AirportsConfig struct {
	Path string `yaml:"path"`
}

type RetryConfig struct {
	Attempts        int     `yaml:"attempts"`
	BaseWaitSeconds float64 `yaml:"base_wait_seconds"`
}

func (r RetryConfig) BaseWait() time.Duration {
	return time.Duration(r.BaseWaitSeconds * float64(time.Second))
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.SerpAPI.TopFlights <= 0 {
		cfg.SerpAPI.TopFlights = 3
	}
	if cfg.Retry.Attempts <= 0 {
		cfg.Retry.Attempts = 3
	}
	if cfg.Retry.BaseWaitSeconds <= 0 {
		cfg.Retry.BaseWaitSeconds = 2
	}

	return &cfg, nil
}
