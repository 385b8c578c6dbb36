package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config represents the top-level txparse.yaml configuration.
type Config struct {
	Logging    LoggingConfig    `yaml:"logging"`
	Server     ServerConfig     `yaml:"server"`
	Taxonomy   TaxonomyConfig   `yaml:"taxonomy"`
	Classifier ClassifierConfig `yaml:"classifier"`
	Receipt    ReceiptConfig    `yaml:"receipt"`
	Review     ReviewConfig     `yaml:"review"`
}

// LoggingConfig controls the zerolog output.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "console" or "json"
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// TaxonomyConfig points at a custom taxonomy file. Empty uses the built-in one.
type TaxonomyConfig struct {
	Path string `yaml:"path,omitempty"`
}

// ClassifierConfig holds the fuzzy match thresholds. Distances are
// normalized to 0..1, lower is closer.
type ClassifierConfig struct {
	MatchThreshold  float64 `yaml:"match_threshold"`
	AcceptThreshold float64 `yaml:"accept_threshold"`
}

// ReceiptConfig tunes the geometric receipt parser.
type ReceiptConfig struct {
	MaxAmount    float64 `yaml:"max_amount"`
	HeaderTokens int     `yaml:"header_tokens"`
	LineGap      float64 `yaml:"line_gap"`
}

// ReviewConfig controls when a parsed record is flagged for the user.
type ReviewConfig struct {
	MinConfidence float64 `yaml:"min_confidence"`
}

// Load reads a txparse.yaml file from disk. Missing keys keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// LoadOrDefault loads path when it is set, otherwise returns Default. In
// both cases environment overrides are applied last.
func LoadOrDefault(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		var err error
		if cfg, err = Load(path); err != nil {
			return nil, err
		}
	}
	cfg.ApplyEnv()
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with the tuned defaults.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Classifier: ClassifierConfig{
			MatchThreshold:  0.3,
			AcceptThreshold: 0.4,
		},
		Receipt: ReceiptConfig{
			MaxAmount:    200000,
			HeaderTokens: 15,
			LineGap:      20,
		},
		Review: ReviewConfig{
			MinConfidence: 0.6,
		},
	}
}

// ApplyEnv overrides fields from TXPARSE_* environment variables.
func (c *Config) ApplyEnv() {
	c.Logging.Level = getEnv("TXPARSE_LOG_LEVEL", c.Logging.Level)
	c.Logging.Format = getEnv("TXPARSE_LOG_FORMAT", c.Logging.Format)
	c.Server.Addr = getEnv("TXPARSE_ADDR", c.Server.Addr)
	c.Taxonomy.Path = getEnv("TXPARSE_TAXONOMY", c.Taxonomy.Path)
	c.Review.MinConfidence = getEnvFloat("TXPARSE_MIN_CONFIDENCE", c.Review.MinConfidence)
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return fallback
}
