package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/isoforge/isopin/internal/common/buildinfo"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(buildinfo.Info())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
