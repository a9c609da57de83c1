package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/devandanger/firebase-utils/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// ErrDifferencesFound signals a successful comparison that found
// differences. It maps to exit code 1 so CI pipelines can gate on parity.
var ErrDifferencesFound = errors.New("differences found")

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "firebase-utils",
	Short: "Firestore environment comparison tool",
	Long: `firebase-utils compares documents and collections between two
Firestore projects and reports differences deterministically.
It is used for environment-parity checks (prod vs. staging) and
regression detection after migrations.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command, mapping outcomes to exit codes:
// 0 identical, 1 differences found, 2 failure.
func Execute() {
	err := RootCmd.Execute()
	if err == nil {
		return
	}
	if errors.Is(err, ErrDifferencesFound) {
		os.Exit(1)
	}

	// Use the application's standard logger for error reporting.
	// Console format matches CLI expectations; debug level selects the
	// development config with ISO8601 timestamps.
	cfg := &logger.Config{
		Level:  "debug",
		Format: "console",
	}

	l, logErr := logger.New(cfg)
	if logErr == nil {
		l.Error("command failed", zap.Error(err))
		_ = l.Sync()
	} else {
		// Absolute fallback if logger creation fails (rare)
		fmt.Println(err)
	}
	os.Exit(2)
}
