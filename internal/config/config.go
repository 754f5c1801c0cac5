package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed sample_config.yaml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	SourceDir string `yaml:"source_dir"`
	TargetDir string `yaml:"target_dir"`
	LogDir    string `yaml:"log_dir"`
}

// DeepSeek contains connection settings for the classification API.
type DeepSeek struct {
	APIURL                string `yaml:"api_url"`
	APIKey                string `yaml:"api_key"`
	Model                 string `yaml:"model"`
	ConnectTimeoutSeconds int    `yaml:"connect_timeout_seconds"`
	RequestTimeoutSeconds int    `yaml:"request_timeout_seconds"`
}

// Sort contains configuration for the classification run itself.
type Sort struct {
	BatchSize        int      `yaml:"batch_size"`
	Extensions       []string `yaml:"extensions"`
	FallbackCategory string   `yaml:"fallback_category"`
	// OnItemFailure selects the per-item outcome policy: "best-effort" marks a
	// file processed even when relocation or persistence fails, "fail-fast"
	// aborts the run and leaves the file pending.
	OnItemFailure string `yaml:"on_item_failure"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `yaml:"format"`
	Level  string `yaml:"level"`
}

// Config encapsulates all configuration values for shelfsort.
//
// Configuration sections by subsystem:
//   - Paths: default source/target directories and the log directory
//   - DeepSeek: classification API endpoint, credentials, and timeouts
//   - Sort: batch sizing, extension allow-list, fallback category, outcome policy
//   - Logging: log format and level
type Config struct {
	Paths    Paths    `yaml:"paths"`
	DeepSeek DeepSeek `yaml:"deepseek"`
	Sort     Sort     `yaml:"sort"`
	Logging  Logging  `yaml:"logging"`
}

// OutcomePolicyBestEffort and OutcomePolicyFailFast are the accepted values for
// sort.on_item_failure.
const (
	OutcomePolicyBestEffort = "best-effort"
	OutcomePolicyFailFast   = "fail-fast"
)

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/shelfsort/config.yaml")
}

// Load locates, parses, and validates a configuration file. The returned config
// has all path fields expanded and normalized. The boolean reports whether a
// config file was found on disk (defaults are used otherwise).
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		data, err := os.ReadFile(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	_, err = os.Stat(defaultPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return defaultPath, false, nil
		}
		return "", false, fmt.Errorf("stat config: %w", err)
	}
	return defaultPath, true, nil
}

// WriteSample writes the embedded sample configuration to path, creating
// parent directories as needed. It refuses to overwrite an existing file.
func WriteSample(path string) error {
	expanded, err := expandPath(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(expanded); err == nil {
		return fmt.Errorf("config file already exists at %s", expanded)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(expanded, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// EnsureDirectories creates the directories shelfsort needs at runtime.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.LogDir, c.Paths.TargetDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// LedgerPath returns the SQLite database location inside the target directory,
// keeping the ledger next to the organized files it describes.
func (c *Config) LedgerPath() string {
	return filepath.Join(c.Paths.TargetDir, "shelfsort.db")
}

// ExpandPath resolves ~ prefixes and relative paths to absolute ones.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", nil
	}
	if trimmed == "~" || strings.HasPrefix(trimmed, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if trimmed == "~" {
			return home, nil
		}
		return filepath.Join(home, trimmed[2:]), nil
	}
	abs, err := filepath.Abs(trimmed)
	if err != nil {
		return "", fmt.Errorf("resolve path %s: %w", trimmed, err)
	}
	return abs, nil
}
