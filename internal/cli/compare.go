package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/sdejongh/dirdiff/pkg/compare"
	"github.com/sdejongh/dirdiff/pkg/config"
	"github.com/sdejongh/dirdiff/pkg/hash"
	"github.com/sdejongh/dirdiff/pkg/logging"
	"github.com/sdejongh/dirdiff/pkg/models"
	"github.com/sdejongh/dirdiff/pkg/output"
	"github.com/sdejongh/dirdiff/pkg/ratelimit"
	"github.com/sdejongh/dirdiff/pkg/storage"
	"github.com/sdejongh/dirdiff/pkg/tree"
)

// CompareFlags holds compare command flag values
type CompareFlags struct {
	Verbose      bool
	Shallow      bool
	Ignore       []string
	Workers      int
	BufferSize   string
	ReadLimit    string
	PreviewLimit int
	Output       string
	Color        string
	Details      bool
	DiffReport   string
	DiffFormat   string
	LogFile      string
	LogFormat    string
	LogLevel     string
}

var compareFlags CompareFlags

// NewCompareCommand creates the compare command
func NewCompareCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare LEFT RIGHT",
		Short: "Compare two directory trees",
		Long: `Compare two directory trees level by level, depth first.

For every directory level dirdiff lists the entries found on one side only,
the common files whose content differs and the common files that are
identical, then descends into the common subdirectories. Differing text files
get a line preview limited to three items unless --verbose is set; binary
files are compared by SHA-256 digest.`,
		Args: cobra.ExactArgs(2),
		RunE: runCompare,
	}

	cmd.Flags().BoolVarP(&compareFlags.Verbose, "verbose", "v", false, "show every difference instead of the first three per file")
	cmd.Flags().BoolVar(&compareFlags.Shallow, "shallow", false, "treat files with equal size and modification time as identical")
	cmd.Flags().StringSliceVar(&compareFlags.Ignore, "ignore", nil, "patterns of entries to leave out (replaces the configured list)")
	cmd.Flags().IntVarP(&compareFlags.Workers, "workers", "w", 0, "number of files compared in parallel within a directory")
	cmd.Flags().StringVar(&compareFlags.BufferSize, "buffer-size", "", "read buffer size, e.g. 4096 or 64K")
	cmd.Flags().StringVar(&compareFlags.ReadLimit, "read-limit", "", "maximum read rate across both trees, e.g. 10M (per second)")
	cmd.Flags().IntVar(&compareFlags.PreviewLimit, "preview-limit", 0, "difference items shown per file when not verbose")
	cmd.Flags().StringVarP(&compareFlags.Output, "output", "o", "", "output format: human, json")
	cmd.Flags().StringVar(&compareFlags.Color, "color", "", "colorize output: auto, always, never")
	cmd.Flags().BoolVar(&compareFlags.Details, "details", false, "print directory details before comparing")
	cmd.Flags().StringVar(&compareFlags.DiffReport, "diff-report", "", "write differences report to file")
	cmd.Flags().StringVar(&compareFlags.DiffFormat, "diff-format", "human", "differences report format: human, json")
	cmd.Flags().StringVar(&compareFlags.LogFile, "log-file", "", "write logs to file")
	cmd.Flags().StringVar(&compareFlags.LogFormat, "log-format", "", "log format: text, json")
	cmd.Flags().StringVar(&compareFlags.LogLevel, "log-level", "", "log level: debug, info, warn, error")

	return cmd
}

func runCompare(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	leftRoot, rightRoot := args[0], args[1]

	// Roots are checked before anything else, including configuration
	if err := validateRoots(leftRoot, rightRoot); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := applyFlagsToConfig(cmd, cfg); err != nil {
		return err
	}
	if err := validateCompareFlags(cfg); err != nil {
		return err
	}

	runID := uuid.New().String()

	logger, err := createLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Close()
	logger = logger.WithFields(logging.Fields{"run_id": runID})

	leftLocal, err := storage.NewLocal(leftRoot)
	if err != nil {
		return err
	}
	defer leftLocal.Close()

	rightLocal, err := storage.NewLocal(rightRoot)
	if err != nil {
		return err
	}
	defer rightLocal.Close()

	// One limiter is shared so the rate bounds both trees together
	limiter := ratelimit.NewLimiter(int64(cfg.Performance.ReadLimit))
	left := storage.NewThrottled(leftLocal, limiter)
	right := storage.NewThrottled(rightLocal, limiter)

	out := cmd.OutOrStdout()
	theme := output.NewTheme(output.ColorEnabled(cfg.Output.Color, out))
	bufferSize := int(cfg.Performance.BufferSize)

	if cfg.Output.Details && cfg.Output.Format == "human" && !cfg.Output.Quiet {
		if err := output.WriteDirectoryDetails(ctx, out, theme, hash.New(bufferSize), left, right); err != nil {
			return err
		}
	}

	formatter, err := output.NewFormatter(cfg.Output.Format, theme, cfg.Output.Quiet)
	if err != nil {
		return err
	}

	summary := &models.Summary{
		RunID:           runID,
		LeftRoot:        leftRoot,
		RightRoot:       rightRoot,
		StartTime:       time.Now(),
		KeepDifferences: compareFlags.DiffReport != "",
	}
	if err := formatter.Start(out, summary); err != nil {
		return err
	}

	files := compare.NewFileComparator(compare.Options{
		BufferSize:   bufferSize,
		Shallow:      cfg.Compare.Shallow,
		Verbose:      cfg.Compare.Verbose,
		PreviewLimit: cfg.Compare.PreviewLimit,
	})
	comparator := tree.NewComparator(files, tree.Options{
		Ignore:  cfg.Compare.Ignore,
		Workers: cfg.Performance.MaxWorkers,
	}, logger)

	logger.Info(ctx, "comparison started", logging.Fields{
		"left":    leftRoot,
		"right":   rightRoot,
		"workers": cfg.Performance.MaxWorkers,
		"verbose": cfg.Compare.Verbose,
		"shallow": cfg.Compare.Shallow,
	})

	runErr := comparator.Compare(ctx, left, right, output.Recording(summary, formatter))

	summary.EndTime = time.Now()
	summary.Duration = summary.EndTime.Sub(summary.StartTime)

	if runErr != nil {
		logger.Error(ctx, "comparison failed", runErr, nil)
		formatter.Error(runErr)
		formatter.Complete(summary)
		return fmt.Errorf("comparison failed: %w", runErr)
	}

	if err := formatter.Complete(summary); err != nil {
		return err
	}

	logger.Info(ctx, "comparison complete", logging.Fields{
		"duration_ms": summary.Duration.Milliseconds(),
		"identical":   !summary.HasDifferences(),
		"differences": summary.DifferenceCount(),
	})

	if compareFlags.DiffReport != "" {
		if err := output.WriteDifferencesReport(summary, compareFlags.DiffReport, compareFlags.DiffFormat); err != nil {
			return fmt.Errorf("failed to write differences report: %w", err)
		}
	}

	return nil
}

// createLogger creates a logger based on configuration.
// Without a log file, logging is disabled.
func createLogger(cfg config.LoggingConfig) (logging.Logger, error) {
	if cfg.File == "" {
		return logging.NewNullLogger(), nil
	}

	format := logging.FormatText
	if cfg.Format == "json" {
		format = logging.FormatJSON
	}

	return logging.New(logging.Config{
		Path:       cfg.File,
		Format:     format,
		Level:      logging.ParseLevel(cfg.Level),
		MaxSize:    int64(cfg.MaxSize),
		MaxBackups: cfg.MaxBackups,
	}, os.Stderr)
}
