package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"marsphotos/pkg/ui"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(ui.Output, "marsphotos %s\n", version)
		fmt.Fprintf(ui.Output, "  commit:  %s\n", gitCommit)
		fmt.Fprintf(ui.Output, "  built:   %s\n", buildDate)
		fmt.Fprintf(ui.Output, "  go:      %s\n", runtime.Version())
		fmt.Fprintf(ui.Output, "  os/arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
