package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/slabkit/internal/logger"
	"github.com/joshuapare/slabkit/internal/mmblock"
	"github.com/joshuapare/slabkit/slab"
)

var (
	// Global flags
	verbose   bool
	jsonOut   bool
	blockSize int
	mapped    bool
	strict    bool
	logDir    string
)

var rootCmd = &cobra.Command{
	Use:   "slabctl",
	Short: "Exercise and inspect fixed-size slab pools",
	Long: `slabctl drives the slab allocator from the command line. It can replay
memory-test scripts against a pool, walk through the reference block/element
scenario, and print the allocator report as text or JSON.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initLogging()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return logger.Close()
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output and allocator tracing")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().
		IntVarP(&blockSize, "block-size", "b", 0, "Pool block size in bytes (0 = command default)")
	rootCmd.PersistentFlags().BoolVar(&mapped, "mapped", false, "Back blocks with anonymous memory mappings")
	rootCmd.PersistentFlags().BoolVar(&strict, "strict", false, "Verify ownership of every freed address")
	rootCmd.PersistentFlags().StringVar(&logDir, "log-dir", "", "Write JSON logs to this directory")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initLogging() error {
	level := slog.LevelInfo
	if verbose {
		level = logger.Trace
	}
	return logger.Init(logger.Options{
		Enabled: logDir != "",
		LogDir:  logDir,
		Level:   level,
	})
}

// poolOptions builds slab options from the global flags. size is used when
// --block-size was not given.
func poolOptions(size int) *slab.Options {
	opts := &slab.Options{BlockSize: size, StrictFree: strict}
	if blockSize != 0 {
		opts.BlockSize = blockSize
	}
	if mapped {
		opts.Source = mmblock.Mapped()
	}
	if logDir != "" {
		opts.Logger = logger.L
	}
	return opts
}

// Helper functions for output

// printInfo prints an info message unless JSON output was requested
func printInfo(format string, args ...any) {
	if !jsonOut {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...any) {
	if verbose && !jsonOut {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
