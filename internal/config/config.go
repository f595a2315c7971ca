package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"lexrag/internal/chunker"
	"lexrag/internal/loader"
	"lexrag/internal/retriever"
)

// ChunkerConfig configures how documents are split into windows.
type ChunkerConfig struct {
	WindowSize int `yaml:"window_size"`
	Overlap    int `yaml:"overlap"`
}

// RetrieverConfig bounds how many chunks a query returns.
type RetrieverConfig struct {
	Limit int `yaml:"limit"`
}

// IngestConfig controls which files are read and how many are chunked at once.
type IngestConfig struct {
	Extensions  []string `yaml:"extensions"`
	Concurrency int      `yaml:"concurrency"`
}

// LogConfig configures structured logging. An empty File logs to stderr.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// MetricsConfig enables the Prometheus endpoint when Addr is set.
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Chunker   ChunkerConfig   `yaml:"chunker"`
	Retriever RetrieverConfig `yaml:"retriever"`
	Ingest    IngestConfig    `yaml:"ingest"`
	Log       LogConfig       `yaml:"log"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := Default()
			applyEnv(cfg)
			return cfg, cfg.Validate()
		}
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	applyConfigDefaults(cfg)
	applyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/lexrag/config.yaml.
// If neither exists, it writes defaults to ~/.config/lexrag/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := Default()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	applyEnv(cfg)
	return cfg, userPath, cfg.Validate()
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate rejects settings the chunker or retriever would refuse at runtime.
func (c *AppConfig) Validate() error {
	if err := chunker.Validate(c.Chunker.WindowSize, c.Chunker.Overlap); err != nil {
		return fmt.Errorf("chunker config: %w", err)
	}
	if _, err := retriever.NewLexical(c.Retriever.Limit); err != nil {
		return fmt.Errorf("retriever config: %w", err)
	}
	return nil
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "lexrag", "config.yaml"), nil
}

// Default returns the built-in configuration.
func Default() *AppConfig {
	return &AppConfig{
		Chunker:   ChunkerConfig{WindowSize: chunker.DefaultWindowSize, Overlap: chunker.DefaultOverlap},
		Retriever: RetrieverConfig{Limit: retriever.DefaultLimit},
		Ingest:    IngestConfig{Extensions: append([]string(nil), loader.DefaultExtensions...), Concurrency: 4},
		Log:       LogConfig{Level: "info", Format: "text"},
	}
}

// applyConfigDefaults fills settings a file may blank out without harm. Chunker
// and retriever values are left as decoded so that an explicit zero reaches
// Validate; keys absent from the file keep the values from Default.
func applyConfigDefaults(cfg *AppConfig) {
	if len(cfg.Ingest.Extensions) == 0 {
		cfg.Ingest.Extensions = append([]string(nil), loader.DefaultExtensions...)
	}
	if cfg.Ingest.Concurrency <= 0 {
		cfg.Ingest.Concurrency = 4
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}

func applyEnv(cfg *AppConfig) {
	if v := os.Getenv("LEXRAG_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	cfg.Chunker.WindowSize = envInt("LEXRAG_WINDOW_SIZE", cfg.Chunker.WindowSize)
	cfg.Chunker.Overlap = envInt("LEXRAG_OVERLAP", cfg.Chunker.Overlap)
	cfg.Retriever.Limit = envInt("LEXRAG_SEARCH_LIMIT", cfg.Retriever.Limit)
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
