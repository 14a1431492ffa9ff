package utils

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the service configuration: optional YAML file, overridden by
// FIXHUB_* environment variables, with workable dev defaults.
type Config struct {
	DataPath string `yaml:"data_path"` // solutions.json location
	HTTPAddr string `yaml:"http_addr"`
	FeedAddr string `yaml:"feed_addr"` // TCP change feed
	LogLevel string `yaml:"log_level"`
}

func DefaultConfig() Config {
	return Config{
		DataPath: "data/solutions.json",
		HTTPAddr: ":8080",
		FeedAddr: ":7070",
		LogLevel: "info",
	}
}

// LoadConfig reads the YAML file named by FIXHUB_CONFIG (if set), then
// applies env overrides on top of the defaults.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	if path := os.Getenv("FIXHUB_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if v := os.Getenv("FIXHUB_DATA"); v != "" {
		cfg.DataPath = v
	}
	if v := os.Getenv("FIXHUB_HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	if v := os.Getenv("FIXHUB_FEED_ADDR"); v != "" {
		cfg.FeedAddr = v
	}
	if v := os.Getenv("FIXHUB_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	return cfg, nil
}
