package config

import (
	"github.com/sdejongh/dirdiff/pkg/logging"
	"github.com/sdejongh/dirdiff/pkg/models"
)

// Config represents the application configuration
type Config struct {
	Compare     CompareConfig     `yaml:"compare"`
	Performance PerformanceConfig `yaml:"performance"`
	Output      OutputConfig      `yaml:"output"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// CompareConfig holds comparison settings
type CompareConfig struct {
	Verbose      bool     `yaml:"verbose"`       // Never truncate diff previews
	Shallow      bool     `yaml:"shallow"`       // Trust equal size and mtime
	PreviewLimit int      `yaml:"preview_limit"` // Items shown per file when not verbose
	Ignore       []string `yaml:"ignore"`        // Entry patterns skipped on both sides
}

// PerformanceConfig holds performance-related settings
type PerformanceConfig struct {
	MaxWorkers int      `yaml:"max_workers"`
	BufferSize ByteSize `yaml:"buffer_size"`
	ReadLimit  ByteSize `yaml:"read_limit"` // Bytes per second across both trees (0 = unlimited)
}

// OutputConfig holds output-related settings
type OutputConfig struct {
	Format  string `yaml:"format"`  // "human" or "json"
	Color   string `yaml:"color"`   // "auto", "always" or "never"
	Details bool   `yaml:"details"` // Print directory details first
	Quiet   bool   `yaml:"quiet"`   // Only print the summary
}

// LoggingConfig holds logging-related settings
type LoggingConfig struct {
	Format     string   `yaml:"format"` // "json" or "text"
	Level      string   `yaml:"level"`  // "debug", "info", "warn", "error"
	File       string   `yaml:"file"`   // Log file path (empty = no log)
	MaxSize    ByteSize `yaml:"max_size"`
	MaxBackups int      `yaml:"max_backups"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Compare: CompareConfig{
			PreviewLimit: 3,
			Ignore: []string{
				"RCS", "CVS", "tags", ".git", ".hg", ".bzr", "_darcs", "__pycache__",
			},
		},
		Performance: PerformanceConfig{
			MaxWorkers: 1,
			BufferSize: 4096,
		},
		Output: OutputConfig{
			Format: "human",
			Color:  "auto",
		},
		Logging: LoggingConfig{
			Format:     "text",
			Level:      "info",
			MaxSize:    10 * 1024 * 1024,
			MaxBackups: 3,
		},
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Compare.PreviewLimit < 1 {
		return &models.ValidationError{
			Field:   "compare.preview_limit",
			Message: "must be at least 1",
		}
	}

	if c.Performance.MaxWorkers < 1 {
		return &models.ValidationError{
			Field:   "performance.max_workers",
			Message: "must be at least 1",
		}
	}

	if c.Performance.BufferSize < 4096 {
		return &models.ValidationError{
			Field:   "performance.buffer_size",
			Message: "must be at least 4096 bytes",
		}
	}

	if c.Performance.ReadLimit < 0 {
		return &models.ValidationError{
			Field:   "performance.read_limit",
			Message: "must not be negative",
		}
	}

	validFormats := map[string]bool{"human": true, "json": true}
	if !validFormats[c.Output.Format] {
		return &models.ValidationError{
			Field:   "output.format",
			Message: "must be 'human' or 'json'",
		}
	}

	validColors := map[string]bool{"auto": true, "always": true, "never": true}
	if !validColors[c.Output.Color] {
		return &models.ValidationError{
			Field:   "output.color",
			Message: "must be 'auto', 'always' or 'never'",
		}
	}

	validLogFormats := map[string]bool{"json": true, "text": true}
	if !validLogFormats[c.Logging.Format] {
		return &models.ValidationError{
			Field:   "logging.format",
			Message: "must be 'json' or 'text'",
		}
	}

	if !logging.ValidLevel(c.Logging.Level) {
		return &models.ValidationError{
			Field:   "logging.level",
			Message: "must be 'debug', 'info', 'warn', or 'error'",
		}
	}

	if c.Logging.MaxBackups < 0 {
		return &models.ValidationError{
			Field:   "logging.max_backups",
			Message: "must not be negative",
		}
	}

	return nil
}
