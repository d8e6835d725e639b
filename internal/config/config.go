// Package config loads SDK and CLI configuration from the environment, with
// an optional YAML file override.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds everything the CLI needs to construct a client.
type Config struct {
	BaseURL         string        `env:"RXRETURN_BASE_URL,default=https://api.rxreturn.io" yaml:"base_url"`
	CredentialsFile string        `env:"RXRETURN_CREDENTIALS_FILE" yaml:"credentials_file"`
	Timeout         time.Duration `env:"RXRETURN_TIMEOUT,default=30s" yaml:"timeout"`
	LogLevel        string        `env:"RXRETURN_LOG_LEVEL,default=info" yaml:"log_level"`
	LogFormat       string        `env:"RXRETURN_LOG_FORMAT,default=text" yaml:"log_format"`
}

// Load reads config from the environment. A .env file in the working
// directory is loaded first when present. When RXRETURN_CONFIG names a YAML
// file its values are overlaid on top of the environment.
func Load() (*Config, error) {
	if path := os.Getenv("RXRETURN_CONFIG"); path != "" {
		return LoadWithFile(path)
	}
	return loadEnv()
}

func loadEnv() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode environment: %w", err)
	}

	if cfg.CredentialsFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("config: resolve home directory: %w", err)
		}
		cfg.CredentialsFile = filepath.Join(home, ".rxreturn", "credentials.json")
	}

	return &cfg, nil
}

// LoadWithFile reads config from the environment and then overlays values
// from a YAML file. File values win over environment values.
func LoadWithFile(path string) (*Config, error) {
	cfg, err := loadEnv()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("config: base_url is required")
	}
	return cfg, nil
}
