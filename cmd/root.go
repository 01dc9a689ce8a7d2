package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sisworks/benchgate/internal/config"
)

// errValidationFailed marks a verdict rejection so Execute can map it to
// exit code 1 instead of the generic 2.
var errValidationFailed = errors.New("validation failed")

var (
	// Logger is the shared logger instance for all commands
	Logger *logrus.Logger

	rootCmd = &cobra.Command{
		Use:   "benchgate",
		Short: "Benchgate - SIS Kernel Release Gate",
		Long: `Benchgate runs kernel benchmark suites across a simulated node fleet and
validates the collected results against release criteria.

Run without arguments to launch interactive mode, or use subcommands for direct operations.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the root command. Exit code 1 means a failing verdict,
// 2 means malformed input or an unexpected error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	if errors.Is(err, errValidationFailed) {
		return 1
	}

	return 2
}

func init() {
	// Load .env file if it exists
	_ = godotenv.Load()

	InitLogger()
}

// InitLogger builds the shared logger from the LOG_LEVEL environment
// variable. Called again after an alternate env file is loaded so the
// level reflects that file.
func InitLogger() {
	Logger = logrus.New()

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = config.DefaultLogLevel
	}

	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		// Can't use Logger here since it might not be set up yet
		fmt.Printf("Invalid LOG_LEVEL '%s', defaulting to '%s'\n", logLevel, config.DefaultLogLevel)
		level = logrus.InfoLevel
	}
	Logger.SetLevel(level)
}
