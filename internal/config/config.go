package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// MongoConfig contains connection details for the listing document store.
type MongoConfig struct {
	URI        string `yaml:"uri"`
	Database   string `yaml:"database"`
	Collection string `yaml:"collection"`
}

// EmbeddingConfig configures the OpenAI-compatible embedding provider.
// The API key is read from the environment variable named by APIKeyEnv so
// the config file never carries secrets.
type EmbeddingConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model"`
	Dimensions  int    `yaml:"dimensions"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// Timeout returns the per-call embedding timeout.
func (c EmbeddingConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}

// IndexConfig names the two index artifacts: the vector blob and the
// slot-to-ID mapping. They are produced and replaced together.
type IndexConfig struct {
	VectorPath  string `yaml:"vector_path"`
	MappingPath string `yaml:"mapping_path"`
	// Workers bounds concurrent embedding calls during a build.
	Workers int `yaml:"workers"`
}

// SearchConfig tunes the query path.
type SearchConfig struct {
	// DefaultK is the result count when the caller does not ask for one.
	DefaultK int `yaml:"default_k"`
	// FilterK replaces DefaultK when post-filters are present, fetching
	// extra neighbors so filtering has headroom.
	FilterK int `yaml:"filter_k"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// AppConfig is the root configuration. All listed sections are required at
// startup; an incomplete config is fatal rather than a per-request error.
type AppConfig struct {
	Mongo     MongoConfig     `yaml:"mongo"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Index     IndexConfig     `yaml:"index"`
	Search    SearchConfig    `yaml:"search"`
	Server    ServerConfig    `yaml:"server"`
}

// Load reads and validates a config file.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first missing required value.
func (c *AppConfig) Validate() error {
	switch {
	case c.Mongo.URI == "":
		return errors.New("config: mongo.uri is required")
	case c.Mongo.Database == "":
		return errors.New("config: mongo.database is required")
	case c.Mongo.Collection == "":
		return errors.New("config: mongo.collection is required")
	case c.Embedding.Model == "":
		return errors.New("config: embedding.model is required")
	case c.Embedding.Dimensions <= 0:
		return errors.New("config: embedding.dimensions must be positive")
	case c.Index.VectorPath == "":
		return errors.New("config: index.vector_path is required")
	case c.Index.MappingPath == "":
		return errors.New("config: index.mapping_path is required")
	}
	return nil
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Embedding.BaseURL == "" {
		cfg.Embedding.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Embedding.APIKeyEnv == "" {
		cfg.Embedding.APIKeyEnv = "OPENAI_API_KEY"
	}
	if cfg.Embedding.TimeoutSecs == 0 {
		cfg.Embedding.TimeoutSecs = 30
	}
	if cfg.Index.Workers == 0 {
		cfg.Index.Workers = 4
	}
	if cfg.Search.DefaultK == 0 {
		cfg.Search.DefaultK = 5
	}
	if cfg.Search.FilterK == 0 {
		cfg.Search.FilterK = 10
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
}
