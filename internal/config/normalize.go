package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeDeepSeek()
	c.normalizeSort()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.SourceDir, err = expandPath(c.Paths.SourceDir); err != nil {
		return fmt.Errorf("paths.source_dir: %w", err)
	}
	if c.Paths.TargetDir, err = expandPath(c.Paths.TargetDir); err != nil {
		return fmt.Errorf("paths.target_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeDeepSeek() {
	c.DeepSeek.APIURL = strings.TrimSpace(c.DeepSeek.APIURL)
	c.DeepSeek.Model = strings.TrimSpace(c.DeepSeek.Model)
	if c.DeepSeek.Model == "" {
		c.DeepSeek.Model = defaultModel
	}
	// The environment variable wins over the config file so keys can stay out
	// of version-controlled configs.
	if key := strings.TrimSpace(os.Getenv("DEEPSEEK_API_KEY")); key != "" {
		c.DeepSeek.APIKey = key
	} else {
		c.DeepSeek.APIKey = strings.TrimSpace(c.DeepSeek.APIKey)
	}
	if c.DeepSeek.ConnectTimeoutSeconds <= 0 {
		c.DeepSeek.ConnectTimeoutSeconds = defaultConnectTimeoutSeconds
	}
	if c.DeepSeek.RequestTimeoutSeconds <= 0 {
		c.DeepSeek.RequestTimeoutSeconds = defaultRequestTimeoutSeconds
	}
}

func (c *Config) normalizeSort() {
	if c.Sort.BatchSize == 0 {
		c.Sort.BatchSize = defaultBatchSize
	}
	if len(c.Sort.Extensions) == 0 {
		c.Sort.Extensions = defaultExtensions()
	}
	normalized := make([]string, 0, len(c.Sort.Extensions))
	for _, ext := range c.Sort.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		normalized = append(normalized, ext)
	}
	c.Sort.Extensions = normalized

	c.Sort.FallbackCategory = strings.TrimSpace(c.Sort.FallbackCategory)
	if c.Sort.FallbackCategory == "" {
		c.Sort.FallbackCategory = defaultFallbackCategory
	}
	c.Sort.OnItemFailure = strings.ToLower(strings.TrimSpace(c.Sort.OnItemFailure))
	if c.Sort.OnItemFailure == "" {
		c.Sort.OnItemFailure = OutcomePolicyBestEffort
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
