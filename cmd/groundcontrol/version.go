package main

import (
	"fmt"
	"runtime"

	"github.com/malyn/groundcontrol/internal/version"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "groundcontrol %s\n", version.Version)
		fmt.Fprintf(w, "  commit:  %s\n", version.Commit)
		fmt.Fprintf(w, "  built:   %s\n", version.Date)
		fmt.Fprintf(w, "  go:      %s\n", goVersionOrRuntime())
		fmt.Fprintf(w, "  os/arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func goVersionOrRuntime() string {
	if version.GoVersion != "" {
		return version.GoVersion
	}
	return runtime.Version()
}
