package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/canscope/canscope/engine"
	"github.com/canscope/canscope/signaldb"
)

var (
	verbose     bool
	signalsPath string
	logFilePath string
	Logger      *slog.Logger

	rootCmd = &cobra.Command{
		Use:   "canscope <log-file>",
		Short: "A high-performance CAN bus log viewer",
		Long: `Canscope is a terminal user interface for analyzing large CAN bus
captures. It loads Vector ASC and candump logs, decodes signals against a
message definition file, and keeps navigation smooth on million-frame
captures through windowed background materialization.`,
		Args: cobra.ExactArgs(1),
		Example: `  canscope capture.asc
  canscope capture.asc --signals powertrain.yaml
  canscope dump.log -v --log-file canscope.log`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogger()
		},
		RunE: runCanscope,
	}
)

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&signalsPath, "signals", "s", "", "YAML message definition file for signal decoding")
	rootCmd.PersistentFlags().StringVar(&logFilePath, "log-file", "", "Write logs to a rotating file instead of stderr")

	// will be reconfigured in PersistentPreRun based on flags
	setupLogger()
}

func runCanscope(cmd *cobra.Command, args []string) error {
	capture := args[0]

	if err := ValidateCaptureFile(capture); err != nil {
		return fmt.Errorf("invalid capture file: %w", err)
	}

	decoder, err := LoadDecoder(signalsPath, GetLogger())
	if err != nil {
		return err
	}

	if err := LaunchTUI(capture, decoder); err != nil {
		return fmt.Errorf("failed to launch TUI: %w", err)
	}

	return nil
}

// setupLogger configures the global slog logger from the verbose and
// log-file flags. A rotating file sink keeps the TUI's alternate screen
// free of interleaved log lines.
func setupLogger() {
	var opts *slog.HandlerOptions

	if verbose {
		opts = &slog.HandlerOptions{
			Level:     slog.LevelDebug,
			AddSource: true,
		}
	} else {
		opts = &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}
	}

	var sink io.Writer = os.Stderr
	if logFilePath != "" {
		sink = &lumberjack.Logger{
			Filename:   logFilePath,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     14, // days
		}
	}

	handler := slog.NewTextHandler(sink, opts)
	Logger = slog.New(handler)
	slog.SetDefault(Logger)

	if verbose {
		Logger.Debug("verbose logging enabled",
			"level", slog.LevelDebug.String(),
			"pid", os.Getpid())
	}
}

// GetLogger returns the global logger instance
func GetLogger() *slog.Logger {
	if Logger == nil {
		setupLogger()
	}
	return Logger
}

// ValidateCaptureFile checks that the capture file exists and is not a
// directory.
func ValidateCaptureFile(path string) error {
	if path == "" {
		return fmt.Errorf("capture file path is required")
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("capture file does not exist: %s", path)
		}
		return fmt.Errorf("error accessing capture file: %w", err)
	}

	if info.IsDir() {
		return fmt.Errorf("provided path is a directory, not a file: %s", path)
	}

	return nil
}

// LoadDecoder loads the optional signal definition database. No path
// means no decoding; the table simply shows an empty signal column.
func LoadDecoder(path string, logger *slog.Logger) (engine.SignalDecoder, error) {
	if path == "" {
		return nil, nil
	}

	db, err := signaldb.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load signal definitions: %w", err)
	}

	logger.Info("signal definitions loaded",
		"file", path,
		"name", db.Name,
		"messages", db.MessageCount())

	return signaldb.NewDecoder(db), nil
}

// LoadStore parses a capture file with standard logging around it.
func LoadStore(path string, logger *slog.Logger) (*engine.FrameStore, error) {
	logger.Debug("parsing capture file...", "file", path)

	store, err := engine.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse capture file: %w", err)
	}

	stats := store.Stats()
	logger.Info("capture loaded",
		"frames", stats.TotalFrames,
		"unique_ids", stats.UniqueIDs,
		"skipped_lines", stats.SkippedLines,
		"parse_time", stats.ParseTime,
		"time_range", fmt.Sprintf("%.6fs to %.6fs", stats.TimeStart, stats.TimeEnd))

	return store, nil
}
