// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type PlatformConfig struct {
	BaseURL      string        `yaml:"base_url"`
	Timeout      time.Duration `yaml:"timeout"`
	ServiceToken string        `yaml:"-"` // Loaded from environment
}

type SnapshotConfig struct {
	Filename    string `yaml:"filename"`
	RefreshCron string `yaml:"refresh_cron"`
	MaxRows     int    `yaml:"max_rows"`
}

type ListingConfig struct {
	PageSize      int `yaml:"page_size"`
	ExportMaxRows int `yaml:"export_max_rows"`
}

type Config struct {
	App struct {
		Name        string `yaml:"name"`
		Environment string `yaml:"environment"`
		Port        int    `yaml:"port"`
		BaseURL     string `yaml:"base_url"`
	} `yaml:"app"`

	Platform PlatformConfig `yaml:"platform"`
	Snapshot SnapshotConfig `yaml:"snapshot"`
	Listing  ListingConfig  `yaml:"listing"`
}

// Load loads both .env and yaml configuration
func Load(configPath string) (*Config, error) {
	// Load .env file if it exists
	envPath := filepath.Join(filepath.Dir(configPath), ".env")
	if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	// Read and parse YAML config
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	// Load sensitive values from environment
	cfg.Platform.ServiceToken = os.Getenv("PLATFORM_SERVICE_TOKEN")

	cfg.applyDefaults()

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Platform.Timeout == 0 {
		c.Platform.Timeout = 15 * time.Second
	}
	if c.Snapshot.RefreshCron == "" {
		c.Snapshot.RefreshCron = "*/15 * * * *"
	}
	if c.Snapshot.MaxRows == 0 {
		c.Snapshot.MaxRows = 1000
	}
	if c.Listing.PageSize == 0 {
		c.Listing.PageSize = 10
	}
	if c.Listing.ExportMaxRows == 0 {
		c.Listing.ExportMaxRows = 5000
	}
}

func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app name is required")
	}
	if c.App.Port == 0 {
		return fmt.Errorf("app port is required")
	}
	if c.Platform.BaseURL == "" {
		return fmt.Errorf("platform base_url is required")
	}
	if c.Snapshot.Filename == "" {
		return fmt.Errorf("snapshot filename is required")
	}
	if c.Listing.PageSize < 1 {
		return fmt.Errorf("listing page_size must be positive")
	}
	return nil
}
