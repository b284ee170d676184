package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/isoforge/isopin/internal/common/logger"
	"github.com/isoforge/isopin/internal/common/output"
)

var (
	verbose bool
	quiet   bool
	noColor bool
)

var rootCmd = &cobra.Command{
	Use:   "isopin",
	Short: "Keep the live image build pins up to date",
	Long: `isopin tracks the upstream components baked into the Docker-ready live
image: it resolves the latest version of each one, validates it against the
pinned release line, and rewrites the build file pins in one atomic pass.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Configure logging based on flags
		if verbose {
			logger.SetVerbose(true)
		}
		if quiet {
			logger.SetQuiet(true)
		}
		if noColor {
			output.NoColor()
		}
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-error output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
