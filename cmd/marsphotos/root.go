package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"marsphotos/pkg/ui"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile string
	logLevel   string
	logFile    string
	noColor    bool
	quiet      bool
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "marsphotos [dates-file]",
	Short: "Download Mars rover photos for a list of earth dates",
	Long: `marsphotos reads earth dates from a file, asks the NASA Mars Rover Photos
API which photos were taken on each date and downloads every image into a
local directory. Files that are already present are skipped, so a run can be
repeated safely.

Running marsphotos without a subcommand is the same as 'marsphotos fetch'.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if quiet {
			logLevel = "error"
		} else if verbose {
			logLevel = "debug"
		}
		if noColor || os.Getenv("NO_COLOR") != "" {
			ui.SetColor(false)
		}

		// Only the download run gets the banner
		if !quiet && (!cmd.HasParent() || cmd.Name() == "fetch") {
			ui.PrintLogo()
		}
	},
	Args:          cobra.MaximumNArgs(1),
	RunE:          runFetch,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		ui.PrintError("Error", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is .marsphotos.yaml or ~/.config/marsphotos/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "also write JSON logs to this file")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress all output except errors")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every request")

	addFetchFlags(rootCmd)

	rootCmd.SetVersionTemplate(`marsphotos {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// globalFlags collects the persistent flags for config.Load
func globalFlags() map[string]interface{} {
	return map[string]interface{}{
		"log-level": logLevel,
		"log-file":  logFile,
		"no-color":  noColor,
	}
}
