package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// ValidateConfig checks if the global configuration has valid values.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("YAML global config: configuration object is nil")
	}
	if err := validateHTTPConfig(&cfg.HTTPClient); err != nil {
		return fmt.Errorf("YAML global config: http_client directive is invalid: %w", err)
	}
	if err := validateGitConfig(&cfg.GitClient); err != nil {
		return fmt.Errorf("YAML global config: git_client directive is invalid: %w", err)
	}
	if err := validateScannerConfig(&cfg.Scanner); err != nil {
		return fmt.Errorf("YAML global config: scanner directive is invalid: %w", err)
	}
	return nil
}

func validateGitConfig(gitConfig *GitClient) error {
	if gitConfig.Depth < 0 {
		return fmt.Errorf("depth cannot be negative: %d", gitConfig.Depth)
	}
	return validateDuration(gitConfig.Timeout, "timeout", 1*time.Hour)
}

func validateHTTPConfig(httpConfig *HTTPClient) error {
	if httpConfig.RetryCount < 0 || httpConfig.RetryCount > 20 {
		return fmt.Errorf("retry_count must be between 0 and 20: %d", httpConfig.RetryCount)
	}

	durations := map[string]time.Duration{
		"retry_wait_time":     httpConfig.RetryWaitTime,
		"retry_max_wait_time": httpConfig.RetryMaxWaitTime,
		"timeout":             httpConfig.Timeout,
	}
	for name, duration := range durations {
		if err := validateDuration(duration, name, 100*time.Second); err != nil {
			return err
		}
	}

	return validateProxy(&httpConfig.Proxy)
}

func validateScannerConfig(sc *Scanner) error {
	if sc.RepoJobs < 0 || sc.FileJobs < 0 {
		return fmt.Errorf("job counts cannot be negative")
	}
	if sc.MaxFileSize < 0 {
		return fmt.Errorf("max_file_size cannot be negative: %d", sc.MaxFileSize)
	}
	if sc.PromotionWindow < 0 {
		return fmt.Errorf("promotion_window cannot be negative: %d", sc.PromotionWindow)
	}
	for _, ext := range sc.Extensions {
		if strings.ContainsAny(ext, "/\\") {
			return fmt.Errorf("invalid extension %q", ext)
		}
	}
	return nil
}

func validateDuration(d time.Duration, name string, max time.Duration) error {
	if d < 0 {
		return fmt.Errorf("invalid duration for %s: %v cannot be negative", name, d)
	}
	if d > max {
		return fmt.Errorf("%s duration is too long: %v exceeds maximum of %v", name, d, max)
	}
	return nil
}

// validateProxy ensures the host includes a scheme; adds "http" if missing.
func validateProxy(proxy *Proxy) error {
	if proxy.Host == "" || proxy.Port == 0 {
		return nil
	}

	if !strings.Contains(proxy.Host, "://") {
		proxy.Host = "http://" + proxy.Host
	}
	proxy.Host = strings.TrimRight(proxy.Host, "/")

	if _, err := url.Parse(proxy.Host); err != nil {
		return fmt.Errorf("invalid host URL: %w", err)
	}
	if proxy.Port < 1 || proxy.Port > 65535 {
		return fmt.Errorf("invalid proxy port: %d", proxy.Port)
	}
	return nil
}

// Address returns the full proxy address, or an empty string when the
// proxy is not configured.
func (p *Proxy) Address() string {
	if p.Host == "" || p.Port == 0 {
		return ""
	}
	return fmt.Sprintf("%s:%d", p.Host, p.Port)
}
