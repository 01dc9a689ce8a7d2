// Package main is the entry point for the benchgate application
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/sisworks/benchgate/cmd"
)

const (
	envFlag      = "--env"
	envFlagEqual = "--env="
)

func main() {
	envFile, runTUI := parseArgs()
	if !runTUI {
		// Arguments beyond --env mean a subcommand, hand over to cobra
		cmd.Execute()
		return
	}

	if err := loadEnvFile(envFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading env file: %v\n", err)
		os.Exit(1)
	}
	// Reinitialize cmd.Logger so the level reflects the loaded file
	cmd.InitLogger()
	cmd.RunInteractive()
}

// parseArgs decides between TUI and CLI mode. The TUI runs when the env
// flag is the whole command line, or when there are no arguments at all.
func parseArgs() (envFile string, runTUI bool) {
	args := os.Args[1:]

	switch {
	case len(args) == 0:
		return "", true
	case len(args) == 1 && args[0] == envFlag:
		fmt.Fprintln(os.Stderr, "Error: --env flag requires a value")
		os.Exit(1)
		return "", false
	case len(args) == 1 && strings.HasPrefix(args[0], envFlagEqual):
		return strings.TrimPrefix(args[0], envFlagEqual), true
	case len(args) == 2 && args[0] == envFlag:
		return args[1], true
	default:
		return "", false
	}
}

// loadEnvFile loads the named environment file. A missing default .env is
// fine, a missing explicitly requested file is an error.
func loadEnvFile(file string) error {
	explicit := file != ""
	if !explicit {
		file = ".env"
	}

	if err := godotenv.Load(file); err != nil {
		if !explicit && os.IsNotExist(err) {
			return nil
		}

		return fmt.Errorf("failed to load env file '%s': %w", file, err)
	}

	return nil
}
