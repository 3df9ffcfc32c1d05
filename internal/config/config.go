package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Service   ServiceConfig   `mapstructure:"service"`
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Queue     QueueConfig     `mapstructure:"queue"`
	Webhook   WebhookConfig   `mapstructure:"webhook"`
	Simulator SimulatorConfig `mapstructure:"simulator"`
	Log       LogConfig       `mapstructure:"log"`
}

// LoadConfig reads the YAML config file pointed at by CONFIG_PATH
// (default ./configs/gateway.yaml) with GATEWAY_* env overrides.
func LoadConfig() (*Config, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./configs/gateway.yaml"
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetEnvPrefix("GATEWAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("service.name", "gateway")
	v.SetDefault("service.environment", "development")
	v.SetDefault("server.http.host", "0.0.0.0")
	v.SetDefault("server.http.port", 8080)
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("queue.concurrency", 4)
	v.SetDefault("queue.max_retries", 3)
	v.SetDefault("queue.poll_interval", "250ms")
	v.SetDefault("webhook.timeout", "5s")
	v.SetDefault("webhook.max_attempts", 5)
	v.SetDefault("webhook.retry_schedule", "production")
	v.SetDefault("simulator.card_success_rate", 0.9)
	v.SetDefault("simulator.upi_success_rate", 0.85)
	v.SetDefault("simulator.processing_delay", "2s")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.output", "stdout")
}
