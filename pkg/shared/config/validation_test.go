package config

import (
	"testing"
	"time"
)

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"empty config is valid", func(c *Config) {}, false},
		{"valid populated config", func(c *Config) {
			c.HTTPClient.RetryCount = 3
			c.HTTPClient.Timeout = 20 * time.Second
			c.GitClient.Depth = 1
			c.GitClient.Timeout = 10 * time.Minute
			c.Scanner.RepoJobs = 4
			c.Scanner.Extensions = []string{".py"}
		}, false},
		{"negative retry count", func(c *Config) {
			c.HTTPClient.RetryCount = -1
		}, true},
		{"excessive retry count", func(c *Config) {
			c.HTTPClient.RetryCount = 50
		}, true},
		{"negative timeout", func(c *Config) {
			c.HTTPClient.Timeout = -1 * time.Second
		}, true},
		{"git timeout too long", func(c *Config) {
			c.GitClient.Timeout = 2 * time.Hour
		}, true},
		{"negative promotion window", func(c *Config) {
			c.Scanner.PromotionWindow = -1
		}, true},
		{"extension with path separator", func(c *Config) {
			c.Scanner.Extensions = []string{"../x"}
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			tt.mutate(cfg)
			err := ValidateConfig(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	if err := ValidateConfig(nil); err == nil {
		t.Error("ValidateConfig(nil) should fail")
	}
}

func TestProxyAddress(t *testing.T) {
	p := Proxy{}
	if got := p.Address(); got != "" {
		t.Errorf("empty proxy address = %q, want empty", got)
	}

	p = Proxy{Host: "proxy.local", Port: 8080}
	if err := validateProxy(&p); err != nil {
		t.Fatalf("validateProxy() error = %v", err)
	}
	if got := p.Address(); got != "http://proxy.local:8080" {
		t.Errorf("proxy address = %q", got)
	}
}
