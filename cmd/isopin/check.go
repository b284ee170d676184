package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/isoforge/isopin/internal/common/logger"
	"github.com/isoforge/isopin/internal/common/output"
	"github.com/isoforge/isopin/internal/track"
)

var (
	// checkRepo overrides the image repository path
	checkRepo string
	// checkFile overrides the build file name
	checkFile string
	// checkJSON emits the report as JSON
	checkJSON bool
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check every tracked component for updates",
	Long: `Resolve the latest upstream version of every tracked component and
validate it against the pinned release line, without touching the build file.

Examples:
  isopin check                    Check the configured image repository
  isopin check --repo ~/live-iso  Check a specific repository
  isopin check --json             Emit the full report as JSON`,
	Run: runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&checkRepo, "repo", "", "Image repository path")
	checkCmd.Flags().StringVar(&checkFile, "file", "", "Build file name inside the repository")
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "Emit the report as JSON")

	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) {
	repoPath, cfg, err := resolveRepo(checkRepo)
	if err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}

	tracker, err := newTracker(repoPath, checkFile, cfg)
	if err != nil {
		logger.Error("failed to initialize tracker: %v", err)
		os.Exit(1)
	}

	report, err := tracker.CheckAll(context.Background())
	if err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}

	if checkJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			logger.Error("failed to encode report: %v", err)
			os.Exit(1)
		}
		fmt.Println(string(data))
		return
	}

	displayReport(report)
}

// displayReport formats and displays check results
func displayReport(report *track.Report) {
	fmt.Println()
	output.Header.Println("Pin Check Results")
	fmt.Println()

	for _, res := range report.Resolutions {
		switch {
		case res.Current != res.Resolved:
			output.Success.Printf("  %s: %s → %s\n", res.Name, res.Current, res.Resolved)
		case res.Changed:
			output.Warning.Printf("  %s: %s (pinned artifacts changed)\n", res.Name, res.Current)
		default:
			output.Dim.Printf("  %s: %s (up to date)\n", res.Name, res.Current)
		}
	}

	fmt.Println()
	if changed := report.Changed(); changed > 0 {
		output.Info.Printf("%d component(s) have pending changes\n", changed)
		output.Info.Println("Run 'isopin sync' to rewrite the build file")
	} else {
		output.Success.Println("All pins are up to date")
	}
}
