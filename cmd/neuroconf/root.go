package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"neuroconf-hq/neuroconf/pkg/telemetry/logging"
)

var (
	// Global flags
	verbose   bool
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:   "neuroconf",
	Short: "Neuroconf - declarative EEG dataset configuration resolver",
	Long: `Neuroconf resolves declarative configuration trees describing collections
of physiological (EEG) recording datasets into one flat, validated registry.

It expands the three !include directive forms (single file, glob pattern,
opaque payload), deep-merges fragments in document order, and validates
every dataset descriptor:
  - Epoch window, events, picks and signal-processing parameters
  - Subject/session/run exclusion hierarchies with time-range masks
  - Mutually exclusive filesystem and external (moabb) dataset sources

Resolution is deterministic: the same file tree always yields the same
registry, byte for byte.`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := "info"
		if verbose {
			level = "debug"
		}
		logger, err := logging.New(logging.Config{Level: level, Format: logFormat})
		if err != nil {
			return err
		}
		slog.SetDefault(logger)
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format: text, json")
}
