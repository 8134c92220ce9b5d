package config

import (
	"fmt"
	"os"
	"time"

	yaml "gopkg.in/yaml.v2"
)

type Config struct {
	Logger     Logger     `yaml:"logger"`
	HTTPClient HTTPClient `yaml:"http_client"`
	GitClient  GitClient  `yaml:"git_client"`
	Scanner    Scanner    `yaml:"scanner"`
}

type Logger struct {
	Level string `yaml:"level"`
}

type HTTPClient struct {
	Debug            bool          `yaml:"debug"`
	RetryCount       int           `yaml:"retry_count"`
	RetryWaitTime    time.Duration `yaml:"retry_wait_time"`
	RetryMaxWaitTime time.Duration `yaml:"retry_max_wait_time"`
	Timeout          time.Duration `yaml:"timeout"`
	Proxy            Proxy         `yaml:"proxy"`
}

type Proxy struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type GitClient struct {
	Depth   int           `yaml:"depth"`
	Timeout time.Duration `yaml:"timeout"`
}

type Scanner struct {
	RepoJobs        int      `yaml:"repo_jobs"`
	FileJobs        int      `yaml:"file_jobs"`
	MaxFileSize     int64    `yaml:"max_file_size"`
	Extensions      []string `yaml:"extensions"`
	PromotionWindow int      `yaml:"promotion_window"`
}

// LoadConfig reads the YAML configuration from path. A missing file yields
// an empty configuration so every directive falls back to its default.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %q: %w", path, err)
	}
	return cfg, nil
}

// SetThen selects value when set, otherwise the default.
func SetThen[T comparable](value T, defaultValue T) T {
	var zero T
	if value == zero {
		return defaultValue
	}
	return value
}
