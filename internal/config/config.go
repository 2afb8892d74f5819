package config

import (
	"bytes"
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`

	// ExtractTimeoutMs bounds a whole extraction run started over HTTP.
	ExtractTimeoutMs int `yaml:"extractTimeoutMs"`
}

// FetcherConfig controls how source pages are retrieved.
type FetcherConfig struct {
	// Engine is "http" (default) or "browser".
	Engine    string   `yaml:"engine"`
	UserAgent string   `yaml:"userAgent"`
	TimeoutMs int      `yaml:"timeoutMs"`
	Languages []string `yaml:"languages"`
}

type RobotsConfig struct {
	Respect   bool `yaml:"respect"`
	TimeoutMs int  `yaml:"timeoutMs"`
}

// RodConfig points at a running Chrome DevTools endpoint. When ControlURL is
// empty rod launches a local browser.
type RodConfig struct {
	Enabled    bool   `yaml:"enabled"`
	ControlURL string `yaml:"controlURL"`
}

// TokensConfig controls design token extraction.
type TokensConfig struct {
	// Render enables the computed-style snapshot; without it tokens come
	// from static analysis of the fetched HTML.
	Render    bool `yaml:"render"`
	TimeoutMs int  `yaml:"timeoutMs"`
}

// AssetsConfig controls the asset pipeline and the static route that serves
// stored files.
type AssetsConfig struct {
	Enabled      bool   `yaml:"enabled"`
	Root         string `yaml:"root"`
	PublicPrefix string `yaml:"publicPrefix"`
	MaxBytes     int64  `yaml:"maxBytes"`
	BatchSize    int    `yaml:"batchSize"`
	TimeoutMs    int    `yaml:"timeoutMs"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	URL string `yaml:"url"`
}

type RateLimitConfig struct {
	DefaultPerMinute int `yaml:"defaultPerMinute"`
}

// RetentionConfig controls deletion of old extraction records and their
// stored assets.
type RetentionConfig struct {
	Enabled                bool `yaml:"enabled"`
	CleanupIntervalMinutes int  `yaml:"cleanupIntervalMinutes"`
	ExtractionDays         int  `yaml:"extractionDays"`
}

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Fetcher   FetcherConfig   `yaml:"fetcher"`
	Robots    RobotsConfig    `yaml:"robots"`
	Rod       RodConfig       `yaml:"rod"`
	Tokens    TokensConfig    `yaml:"tokens"`
	Assets    AssetsConfig    `yaml:"assets"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	RateLimit RateLimitConfig `yaml:"ratelimit"`
	Retention RetentionConfig `yaml:"retention"`
}

// Parse decodes a YAML document. Unknown keys are rejected so typos in the
// config file surface at startup.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// Read loads and parses the config file at path.
func Read(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open config file: %w", err)
	}
	return Parse(data)
}

func Load(path string) *Config {
	cfg, err := Read(path)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}
