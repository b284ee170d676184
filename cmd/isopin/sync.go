package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/isoforge/isopin/internal/common/logger"
	"github.com/isoforge/isopin/internal/common/output"
	"github.com/isoforge/isopin/internal/track"
)

var (
	// syncRepo overrides the image repository path
	syncRepo string
	// syncFile overrides the build file name
	syncFile string
	// syncDryRun shows planned edits without writing
	syncDryRun bool
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Rewrite the build file pins",
	Long: `Check every tracked component and rewrite the build file pins in one
atomic pass. Nothing is written unless every component resolves and validates.

Examples:
  isopin sync                    Update the configured image repository
  isopin sync --dry-run          Show the planned edits without writing
  isopin sync --repo ~/live-iso  Update a specific repository`,
	Run: runSync,
}

func init() {
	syncCmd.Flags().StringVar(&syncRepo, "repo", "", "Image repository path")
	syncCmd.Flags().StringVar(&syncFile, "file", "", "Build file name inside the repository")
	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "Show planned edits without writing")

	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) {
	repoPath, cfg, err := resolveRepo(syncRepo)
	if err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}

	tracker, err := newTracker(repoPath, syncFile, cfg)
	if err != nil {
		logger.Error("failed to initialize tracker: %v", err)
		os.Exit(1)
	}

	if syncDryRun {
		report, err := tracker.CheckAll(context.Background())
		if err != nil {
			logger.Error("%v", err)
			os.Exit(1)
		}
		displayPlan(report)
		return
	}

	report, err := tracker.Sync(context.Background())
	if err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}
	displaySyncResult(report)
}

// displayPlan shows the pending edits without applying them
func displayPlan(report *track.Report) {
	fmt.Println()
	output.Header.Println("Planned Edits")
	fmt.Println()

	for _, edit := range report.Planned {
		output.Dep.Printf("  %s", edit.Label)
		fmt.Printf(" = %s\n", edit.Value)
	}

	fmt.Println()
	output.Info.Printf("%d edit(s) planned for %s\n", len(report.Planned), report.File)
}

// displaySyncResult summarizes what a sync rewrote
func displaySyncResult(report *track.Report) {
	if report.RewrittenLines == 0 {
		output.PrintSuccess("%s already up to date", report.File)
		return
	}

	for _, res := range report.Resolutions {
		if !res.Changed {
			continue
		}
		if res.Current != res.Resolved {
			output.Info.Printf("  %s: %s → %s\n", res.Name, res.Current, res.Resolved)
		} else {
			output.Info.Printf("  %s: pinned artifacts refreshed\n", res.Name)
		}
	}
	output.PrintSuccess("updated %d line(s) in %s", report.RewrittenLines, report.File)
}
