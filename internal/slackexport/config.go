package slackexport

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
)

// Config holds configuration for a conversion run
type Config struct {
	ExportDir  string            `yaml:"export_dir"` // unzipped Slack export (required)
	OutDir     string            `yaml:"out_dir"`    // defaults to a "md" directory next to ExportDir
	Pattern    string            `yaml:"pattern"`    // channel glob, '*' for all
	LogLevel   string            `yaml:"log_level"`  // "debug", "info", "warn", "error"
	LogDir     string            `yaml:"log_dir"`    // optional log file directory
	Jobs       int               `yaml:"jobs"`       // channels converted concurrently
	NameStyle  NameStyle         `yaml:"name_style"` // "display" or "initials"
	Workspaces map[string]string `yaml:"workspaces"` // workspace ID -> name
}

// LoadConfig reads a YAML config file
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// Normalize fills defaults and validates the configuration
func (c *Config) Normalize() error {
	if c.ExportDir == "" {
		return fmt.Errorf("export directory is required")
	}
	if c.OutDir == "" {
		c.OutDir = filepath.Join(filepath.Dir(filepath.Clean(c.ExportDir)), "md")
	}
	if c.Pattern == "" {
		c.Pattern = "*"
	}
	if c.Jobs < 1 {
		c.Jobs = 1
	}
	switch c.NameStyle {
	case "":
		c.NameStyle = NameStyleDisplay
	case NameStyleDisplay, NameStyleInitials:
	default:
		return fmt.Errorf("unknown name style %q (want %q or %q)", c.NameStyle, NameStyleDisplay, NameStyleInitials)
	}
	return nil
}
