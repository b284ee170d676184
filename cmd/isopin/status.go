package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/isoforge/isopin/internal/common/logger"
	"github.com/isoforge/isopin/internal/common/output"
)

var (
	// statusRepo overrides the image repository path
	statusRepo string
	// statusFile overrides the build file name
	statusFile string
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the pinned versions in the build file",
	Long:  `Display the values currently pinned in the build file alongside the release lines they are held to. Works offline.`,
	Run:   runStatus,
}

func init() {
	statusCmd.Flags().StringVar(&statusRepo, "repo", "", "Image repository path")
	statusCmd.Flags().StringVar(&statusFile, "file", "", "Build file name inside the repository")

	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) {
	repoPath, cfg, err := resolveRepo(statusRepo)
	if err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}

	tracker, err := newTracker(repoPath, statusFile, cfg)
	if err != nil {
		logger.Error("failed to initialize tracker: %v", err)
		os.Exit(1)
	}

	pins, err := tracker.Pins()
	if err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}

	fmt.Println()
	output.Header.Printf("Pinned versions in %s\n", tracker.TargetPath())
	fmt.Println()
	for _, pin := range pins {
		line := pin.Family
		suffix := ".x"
		if line == "" {
			line = pin.Expected
			suffix = " exactly"
		}
		fmt.Printf("  %s %s=%s ", output.FormatDep(pin.Name), pin.Label, pin.Current)
		output.Dim.Printf("(holds %s%s)\n", line, suffix)
	}
	fmt.Println()
}
