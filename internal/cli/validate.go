package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sdejongh/dirdiff/pkg/config"
	"github.com/sdejongh/dirdiff/pkg/models"
)

// Exit codes
const (
	ExitOK           = 0
	ExitNotDirectory = 1
	ExitFailure      = 2
)

// ExitCode maps a command error to the process exit code.
// A completed comparison exits 0 whether or not the trees differ.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var notDir *models.NotADirectoryError
	if errors.As(err, &notDir) {
		return ExitNotDirectory
	}
	return ExitFailure
}

// validateRoots checks that both compare roots are existing directories
func validateRoots(roots ...string) error {
	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return &models.NotADirectoryError{Path: root, Err: err}
		}
		if !info.IsDir() {
			return &models.NotADirectoryError{Path: root}
		}
	}
	return nil
}

// validateCompareFlags validates the effective configuration of a run
func validateCompareFlags(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	validDiffFormats := map[string]bool{"human": true, "json": true}
	if !validDiffFormats[compareFlags.DiffFormat] {
		return &models.ValidationError{
			Field:   "diff-format",
			Message: fmt.Sprintf("invalid format %q (valid: human, json)", compareFlags.DiffFormat),
		}
	}

	return nil
}

// loadConfig loads configuration from the --config file or the default location
func loadConfig() (*config.Config, error) {
	return config.Load(globalFlags.ConfigFile)
}

// applyFlagsToConfig overrides config values with the flags set on cmd
func applyFlagsToConfig(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()

	if flags.Changed("verbose") {
		cfg.Compare.Verbose = compareFlags.Verbose
	}
	if flags.Changed("shallow") {
		cfg.Compare.Shallow = compareFlags.Shallow
	}
	if flags.Changed("ignore") {
		cfg.Compare.Ignore = compareFlags.Ignore
	}
	if flags.Changed("preview-limit") {
		cfg.Compare.PreviewLimit = compareFlags.PreviewLimit
	}
	if flags.Changed("workers") {
		cfg.Performance.MaxWorkers = compareFlags.Workers
	}
	if flags.Changed("buffer-size") {
		size, err := config.ParseByteSize(compareFlags.BufferSize)
		if err != nil {
			return &models.ValidationError{Field: "buffer-size", Message: err.Error()}
		}
		cfg.Performance.BufferSize = size
	}
	if flags.Changed("read-limit") {
		limit, err := config.ParseByteSize(compareFlags.ReadLimit)
		if err != nil {
			return &models.ValidationError{Field: "read-limit", Message: err.Error()}
		}
		cfg.Performance.ReadLimit = limit
	}
	if flags.Changed("output") {
		cfg.Output.Format = compareFlags.Output
	}
	if flags.Changed("color") {
		cfg.Output.Color = compareFlags.Color
	}
	if flags.Changed("details") {
		cfg.Output.Details = compareFlags.Details
	}
	if globalFlags.Quiet {
		cfg.Output.Quiet = true
	}
	if flags.Changed("log-file") {
		cfg.Logging.File = compareFlags.LogFile
	}
	if flags.Changed("log-format") {
		cfg.Logging.Format = compareFlags.LogFormat
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = compareFlags.LogLevel
	}

	return nil
}
