// Package config loads server configuration from YAML, with defaults
// for every field so a missing file still yields a runnable server.
package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Sync     SyncConfig     `yaml:"sync"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// DatabaseConfig holds the SQLite settings.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// SyncConfig controls the job-listing sync worker.
type SyncConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Interval time.Duration `yaml:"interval"`
	FeedURL  string        `yaml:"feed_url"`
}

// DefaultFeedURL is the Simplify new-grad listings feed.
const DefaultFeedURL = "https://raw.githubusercontent.com/SimplifyJobs/New-Grad-Positions/dev/.github/scripts/listings.json"

// Load reads config from path. A missing file returns defaults; env
// vars DEAR_APPLICANT_ADDR and DEAR_APPLICANT_DB override either way.
func Load(path string) (*Config, error) {
	config := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, err
		}
		if err == nil {
			if err := yaml.Unmarshal(data, config); err != nil {
				return nil, err
			}
		}
	}

	config.applyDefaults()
	config.applyEnv()
	return config, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Database.Path == "" {
		c.Database.Path = "dear-applicant.db"
	}
	if c.Sync.Interval == 0 {
		c.Sync.Interval = 6 * time.Hour
	}
	if c.Sync.FeedURL == "" {
		c.Sync.FeedURL = DefaultFeedURL
	}
}

func (c *Config) applyEnv() {
	if addr := os.Getenv("DEAR_APPLICANT_ADDR"); addr != "" {
		c.Server.Addr = addr
	}
	if dbPath := os.Getenv("DEAR_APPLICANT_DB"); dbPath != "" {
		c.Database.Path = dbPath
	}
}
