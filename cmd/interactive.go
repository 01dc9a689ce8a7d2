// Package cmd contains CLI command definitions
package cmd

import (
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sisworks/benchgate/internal/actions"
	"github.com/sisworks/benchgate/internal/config"
	"github.com/sisworks/benchgate/internal/report"
	"github.com/sisworks/benchgate/pkg/interactive"
)

var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Launch interactive TUI mode",
	Long:  `Launches the interactive Terminal User Interface for Benchgate.`,
	Run: func(_ *cobra.Command, _ []string) {
		RunInteractive()
	},
}

func init() {
	rootCmd.AddCommand(interactiveCmd)
}

// RunInteractive runs the TUI menu loop until the user exits.
func RunInteractive() {
	fmt.Println("Benchgate - Interactive Mode")
	fmt.Println("============================")
	fmt.Println()

	for {
		options := []interactive.MenuOption{
			{
				Name:        "🚀 Run Benchmarks",
				Description: "Execute benchmark suites and write artifacts",
				Action:      showBenchMenu,
			},
			{
				Name:        "🔍 Validate Results",
				Description: "Run the release gate on a results document",
				Action:      runValidateInteractive,
			},
			{
				Name:        "📊 Rebuild Report",
				Description: "Regenerate the aggregate report and dashboard",
				Action: func() error {
					return runCLICommand("report")
				},
			},
			{
				Name:        "📋 Show Config",
				Description: "Display current environment configuration",
				Action: func() error {
					if err := actions.ShowConfig(); err != nil {
						fmt.Printf("\n❌ Error: %v\n", err)
					}
					interactive.PauseForEnter()
					return nil
				},
			},
		}

		if err := interactive.ShowMainMenu(options); err != nil {
			if errors.Is(err, interactive.ErrExit) {
				fmt.Println("Goodbye!")
				return
			}
			log.Fatal(err)
		}

		fmt.Println()
	}
}

func showBenchMenu() error {
	for {
		options := []interactive.MenuOption{
			{
				Name:        "Performance Suite",
				Description: "Per-node latency and throughput scenarios",
				Action: func() error {
					return runBenchInteractive("--performance")
				},
			},
			{
				Name:        "Distributed Suite",
				Description: "Cluster-wide consensus scenarios (needs 4+ nodes)",
				Action: func() error {
					return runBenchInteractive("--distributed")
				},
			},
			{
				Name:        "Full Run",
				Description: "All suites plus aggregate report and dashboard",
				Action: func() error {
					return runBenchInteractive("--all")
				},
			},
		}

		fmt.Println("\n🚀 Run Benchmarks")
		fmt.Println("=================")
		if err := interactive.ShowMainMenu(options); err != nil {
			if errors.Is(err, interactive.ErrExit) {
				return nil // Return to main menu
			}
			return err
		}
	}
}

func runBenchInteractive(suiteFlag string) error {
	nodes, err := interactive.Input("Number of nodes:", strconv.Itoa(config.DefaultNodes))
	if err != nil {
		fmt.Println("Selection canceled.")
		interactive.PauseForEnter()
		return nil
	}

	verbose := interactive.Confirm("Enable verbose output?")

	args := []string{"bench", suiteFlag, "--nodes", nodes}
	if verbose {
		args = append(args, "--verbose")
	}

	return runCLICommand(args...)
}

func runValidateInteractive() error {
	defaultFile := filepath.Join(config.DefaultOutputDir, report.PerformanceResultsFilename)

	file, err := interactive.Input("Results document:", defaultFile)
	if err != nil {
		fmt.Println("Selection canceled.")
		interactive.PauseForEnter()
		return nil
	}

	profile, err := interactive.SelectFromList("Select profile:", []string{"release", "stress"})
	if err != nil {
		fmt.Println("Selection canceled.")
		interactive.PauseForEnter()
		return nil
	}

	strict := interactive.Confirm("Treat warnings as errors?")

	args := []string{"validate", file, "--profile", profile}
	if strict {
		args = append(args, "--strict")
	}

	return runCLICommand(args...)
}

func runCLICommand(args ...string) error {
	binaryPath := os.Args[0]

	fmt.Printf("\n🚀 Running: %s %v\n\n", binaryPath, args)

	// #nosec G204 -- binaryPath is the running executable and args are controlled by menu selections
	command := exec.Command(binaryPath, args...)
	command.Stdout = os.Stdout
	command.Stderr = os.Stderr
	command.Stdin = os.Stdin

	if err := command.Run(); err != nil {
		fmt.Printf("\n❌ Command failed: %v\n", err)
		interactive.PauseForEnter()
		return nil
	}

	interactive.PauseForEnter()
	return nil
}
