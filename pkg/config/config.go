// Package config loads <data>/config.yaml and applies environment overrides.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/stefanpenner/unfold/pkg/oracle"
)

// FileName is the config file inside the data directory.
const FileName = "config.yaml"

// Storage backends.
const (
	StorageFile   = "file"
	StorageSQLite = "sqlite"
)

type OracleConfig struct {
	Provider  string   `yaml:"provider"`
	Model     string   `yaml:"model"`
	APIKeyEnv string   `yaml:"api_key_env"`
	BaseURL   string   `yaml:"base_url"`
	Timeout   Duration `yaml:"timeout"`
	MaxTokens int      `yaml:"max_tokens"`
}

type Config struct {
	Oracle   OracleConfig `yaml:"oracle"`
	Storage  string       `yaml:"storage"`
	LogLevel string       `yaml:"log_level"`
}

// Duration is a time.Duration written as "45s" in YAML.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Oracle: OracleConfig{
			Provider: oracle.ProviderAnthropic,
			Timeout:  Duration(45 * time.Second),
		},
		Storage:  StorageFile,
		LogLevel: "info",
	}
}

// Path returns the config file location for a data directory.
func Path(dataDir string) string {
	return filepath.Join(dataDir, FileName)
}

// Load reads the config from dataDir, falling back to defaults for a missing
// file or missing fields, then applies UNFOLD_* environment overrides.
func Load(dataDir string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(Path(dataDir))
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing %s: %w", Path(dataDir), err)
		}
	case os.IsNotExist(err):
	default:
		return Config{}, fmt.Errorf("reading config: %w", err)
	}

	applyEnv(&cfg)
	if err := normalize(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("UNFOLD_PROVIDER")); v != "" {
		cfg.Oracle.Provider = v
	}
	if v := strings.TrimSpace(os.Getenv("UNFOLD_MODEL")); v != "" {
		cfg.Oracle.Model = v
	}
	if v := strings.TrimSpace(os.Getenv("UNFOLD_STORAGE")); v != "" {
		cfg.Storage = v
	}
	if v := strings.TrimSpace(os.Getenv("UNFOLD_LOG_LEVEL")); v != "" {
		cfg.LogLevel = v
	}
}

func normalize(cfg *Config) error {
	cfg.Oracle.Provider = strings.ToLower(strings.TrimSpace(cfg.Oracle.Provider))
	switch cfg.Oracle.Provider {
	case "":
		cfg.Oracle.Provider = oracle.ProviderAnthropic
	case oracle.ProviderAnthropic, oracle.ProviderOpenAI, oracle.ProviderNone:
	default:
		return fmt.Errorf("invalid oracle.provider: %s (use anthropic, openai or none)", cfg.Oracle.Provider)
	}

	cfg.Storage = strings.ToLower(strings.TrimSpace(cfg.Storage))
	switch cfg.Storage {
	case "":
		cfg.Storage = StorageFile
	case StorageFile, StorageSQLite:
	default:
		return fmt.Errorf("invalid storage: %s (use file or sqlite)", cfg.Storage)
	}

	if _, err := parseLevel(cfg.LogLevel); err != nil {
		return err
	}
	if cfg.Oracle.Timeout < 0 {
		return fmt.Errorf("invalid oracle.timeout: must not be negative")
	}
	if cfg.Oracle.Timeout == 0 {
		cfg.Oracle.Timeout = Default().Oracle.Timeout
	}
	return nil
}

// APIKeyEnv returns the environment variable holding the API key.
func (c Config) APIKeyEnv() string {
	if c.Oracle.APIKeyEnv != "" {
		return c.Oracle.APIKeyEnv
	}
	if c.Oracle.Provider == oracle.ProviderOpenAI {
		return "OPENAI_API_KEY"
	}
	return "ANTHROPIC_API_KEY"
}

// OracleSettings resolves the API key and returns the adapter config.
func (c Config) OracleSettings() oracle.Config {
	return oracle.Config{
		Provider:  c.Oracle.Provider,
		Model:     c.Oracle.Model,
		APIKey:    strings.TrimSpace(os.Getenv(c.APIKeyEnv())),
		BaseURL:   c.Oracle.BaseURL,
		MaxTokens: c.Oracle.MaxTokens,
	}
}

// Timeout returns the per-request oracle timeout.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.Oracle.Timeout)
}

// Level returns the slog level for LogLevel.
func (c Config) Level() slog.Level {
	l, _ := parseLevel(c.LogLevel)
	return l
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("invalid log_level: %s (use debug, info, warn or error)", s)
}
