package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateDeepSeek(); err != nil {
		return err
	}
	if err := c.validateSort(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.SourceDir == "" {
		return errors.New("paths.source_dir must be set")
	}
	if c.Paths.TargetDir == "" {
		return errors.New("paths.target_dir must be set")
	}
	return nil
}

func (c *Config) validateDeepSeek() error {
	if c.DeepSeek.APIURL == "" {
		return errors.New("deepseek.api_url must be set")
	}
	if c.DeepSeek.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/shelfsort/config.yaml"
		}
		return fmt.Errorf("deepseek.api_key is required. Set DEEPSEEK_API_KEY env var or edit %s (create with 'shelfsort config init')", defaultPath)
	}
	return nil
}

func (c *Config) validateSort() error {
	if c.Sort.BatchSize <= 0 {
		return errors.New("sort.batch_size must be greater than zero")
	}
	if len(c.Sort.Extensions) == 0 {
		return errors.New("sort.extensions must list at least one extension")
	}
	if c.Sort.FallbackCategory == "" {
		return errors.New("sort.fallback_category must be set")
	}
	switch c.Sort.OnItemFailure {
	case OutcomePolicyBestEffort, OutcomePolicyFailFast:
	default:
		return fmt.Errorf("sort.on_item_failure must be %q or %q", OutcomePolicyBestEffort, OutcomePolicyFailFast)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	return nil
}
