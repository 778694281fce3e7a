// Package config loads the service's YAML configuration, grounded on the
// teacher's internal/config/config.go (os.ReadFile + yaml.Unmarshal over a
// defaults() base, LoadDefault falling back to defaults when config.yaml is
// absent).
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the top-level service configuration.
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	LLM         LLMConfig         `yaml:"llm"`
	Image       ImageConfig       `yaml:"image"`
	Persistence PersistenceConfig `yaml:"persistence"`
	PDF         PDFConfig         `yaml:"pdf"`
	Auth        AuthConfig        `yaml:"auth"`
	Pipeline    PipelineConfig    `yaml:"pipeline"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
	BaseURL string `yaml:"base_url"`
}

// LLMConfig holds the Anthropic Messages API credentials the generation and
// rewrite stages share.
type LLMConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
}

// ImageConfig holds the Gemini image-generation credentials.
type ImageConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	Enabled bool   `yaml:"enabled"`
}

// PersistenceConfig selects and configures the Storage/Export backend.
type PersistenceConfig struct {
	Backend     string `yaml:"backend"` // "local" or "postgres"
	LocalDir    string `yaml:"local_dir"`
	DatabaseURL string `yaml:"database_url"`
}

// PDFConfig configures the external HTML-to-PDF conversion service.
type PDFConfig struct {
	ServiceURL string `yaml:"service_url"`
	Enabled    bool   `yaml:"enabled"`
}

// AuthConfig holds the JWT bearer-auth secret protecting the API.
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
}

// PipelineConfig holds default quality-gate and concurrency knobs. Only
// ParallelConcurrency is read: the service uses it as the engine's
// parallel-phase concurrency bound. The quality-gate fields are not applied
// to incoming jobs; JobConfig.Defaults fills those from its own constants.
type PipelineConfig struct {
	ParallelConcurrency     int     `yaml:"parallel_concurrency"`
	MaxRegenerationAttempts int     `yaml:"max_regeneration_attempts"`
	QualityGateAEOMin       float64 `yaml:"quality_gate_aeo_min"`
	QualityGateCriticalMax  int     `yaml:"quality_gate_critical_max"`
}

// defaults returns a Config populated with sensible default values.
func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host:    "0.0.0.0",
			Port:    8080,
			BaseURL: "https://example.com",
		},
		Persistence: PersistenceConfig{
			Backend:  "local",
			LocalDir: "data/articles",
		},
		Pipeline: PipelineConfig{
			ParallelConcurrency:     8,
			MaxRegenerationAttempts: 3,
			QualityGateAEOMin:       85,
			QualityGateCriticalMax:  0,
		},
	}
}

// Load reads a YAML configuration file at path and returns a Config, with
// unset fields filled from defaults().
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

// LoadDefault tries to load "config.yaml" from the current directory. If the
// file does not exist, it returns sensible defaults.
func LoadDefault() (*Config, error) {
	cfg, err := Load("config.yaml")
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaults(), nil
		}
		return nil, err
	}
	return cfg, nil
}
