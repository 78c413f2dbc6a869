package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "groundcontrol",
	Short:         "Ground Control -- lightweight process supervisor",
	Long:          "Ground Control starts a fixed set of processes in order, watches a daemon for exit, and tears everything down in reverse order on shutdown.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
