package store

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the persistence configuration for a space.
type Config struct {
	// DataDir is the directory where the snapshot BadgerDB lives.
	DataDir string `yaml:"data_dir"`

	// DictDir is the directory for the dictionary BadgerDB. Defaults to
	// DataDir/dict.
	DictDir string `yaml:"dict_dir"`

	// InMemory enables in-memory Badger (useful for testing).
	InMemory bool `yaml:"in_memory"`

	// LRUCacheSize is the size of the dictionary LRU cache in entries.
	LRUCacheSize int `yaml:"lru_cache_size"`

	// SyncWrites enables synchronous writes. Off by default; a crash may
	// lose the most recent snapshot.
	SyncWrites bool `yaml:"sync_writes"`

	// Compression enables ZSTD block compression in the underlying
	// Badger stores. Snapshot records are s2-encoded regardless.
	Compression bool `yaml:"compression"`

	// ReadOnly opens the store without write access.
	ReadOnly bool `yaml:"read_only"`
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.DataDir == "" && !c.InMemory {
		return fmt.Errorf("DataDir must be specified when InMemory is false")
	}
	if c.LRUCacheSize < 0 {
		return fmt.Errorf("LRUCacheSize must be non-negative, got %d", c.LRUCacheSize)
	}
	return nil
}

// DefaultConfig returns a working configuration rooted at dataDir.
func DefaultConfig(dataDir string) *Config {
	return &Config{
		DataDir:      dataDir,
		DictDir:      filepath.Join(dataDir, "dict"),
		LRUCacheSize: 100000,
		Compression:  true,
	}
}

// LoadConfig reads a yaml config file, filling defaults for absent keys.
func LoadConfig(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	cfg := DefaultConfig("")
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.DictDir == "" && cfg.DataDir != "" {
		cfg.DictDir = filepath.Join(cfg.DataDir, "dict")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
