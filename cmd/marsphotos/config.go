package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"marsphotos/pkg/auth"
	"marsphotos/pkg/config"
	"marsphotos/pkg/ui"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage marsphotos configuration files.

Configuration can be loaded from:
  - Command line flags (highest priority)
  - Environment variables (MARSPHOTOS_*, API_KEY, PhotoSaveRoot)
  - .env files
  - Configuration file
  - Default values (lowest priority)`,
}

// initCmd represents the config init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a configuration file with the default values",
	Long: `Create a configuration file holding every option at its default value.

The file is written to .marsphotos.yaml in the current directory unless a
different path is given with --config. An existing file is never replaced.`,
	RunE: runConfigInit,
}

// showCmd represents the config show command
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long: `Show the configuration after merging every source. The API key is masked.`,
	RunE: runConfigShow,
}

// validateCmd represents the config validate command
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration",
	Long: `Validate the merged configuration and check that the dates file is
readable and the photo directory can be created.`,
	RunE: runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(initCmd)
	configCmd.AddCommand(showCmd)
	configCmd.AddCommand(validateCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	configPath := configFile
	if configPath == "" {
		configPath = ".marsphotos.yaml"
	}

	if _, err := os.Stat(configPath); err == nil {
		ui.PrintError("Configuration file already exists", configPath)
		fmt.Fprintln(ui.Output, "\nTo overwrite, first remove the existing file:")
		fmt.Fprintf(ui.Output, "  rm %s\n", configPath)
		return fmt.Errorf("%s already exists", configPath)
	}

	if err := config.DefaultConfig().Save(configPath); err != nil {
		return err
	}

	ui.PrintSuccess("Configuration file created: " + configPath)
	fmt.Fprintln(ui.Output, "\nNext steps:")
	fmt.Fprintln(ui.Output, "1. Edit the file, or store a key with 'marsphotos auth set-key'")
	fmt.Fprintln(ui.Output, "2. Run 'marsphotos config validate' to check the configuration")
	fmt.Fprintln(ui.Output, "3. Start downloading with 'marsphotos fetch'")
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile, globalFlags())
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	displayCfg := *cfg
	if displayCfg.NASA.APIKey != "" {
		displayCfg.NASA.APIKey = auth.MaskKey(displayCfg.NASA.APIKey)
	}

	data, err := yaml.Marshal(&displayCfg)
	if err != nil {
		return fmt.Errorf("failed to format configuration: %w", err)
	}

	fmt.Fprint(ui.Output, string(data))

	fmt.Fprintln(ui.Output, "\nConfiguration sources (in order of priority):")
	fmt.Fprintln(ui.Output, "1. Command line flags")
	fmt.Fprintln(ui.Output, "2. Environment variables (MARSPHOTOS_*)")
	if configFile != "" {
		fmt.Fprintf(ui.Output, "3. Configuration file: %s\n", configFile)
	} else {
		fmt.Fprintln(ui.Output, "3. Configuration file: (auto-detected)")
	}
	fmt.Fprintln(ui.Output, "4. Default values")
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile, globalFlags())
	if err != nil {
		return err
	}

	var problems, warnings []string

	if _, err := os.Stat(cfg.Input.DatesFile); err != nil {
		problems = append(problems, fmt.Sprintf("Dates file not readable: %v", err))
	}
	if err := os.MkdirAll(cfg.Output.PhotoDir, 0755); err != nil {
		problems = append(problems, fmt.Sprintf("Cannot create photo directory: %v", err))
	}
	if cfg.Logging.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Logging.File), 0755); err != nil {
			problems = append(problems, fmt.Sprintf("Cannot create log directory: %v", err))
		}
	}
	if cfg.NASA.APIKey == "" || cfg.NASA.APIKey == config.DemoAPIKey {
		warnings = append(warnings, "No API key configured, DEMO_KEY is heavily rate limited")
	}

	if len(problems) > 0 {
		ui.PrintError("Configuration has errors:")
		for _, p := range problems {
			fmt.Fprintf(ui.Output, "  - %s\n", p)
		}
		return fmt.Errorf("%d configuration problem(s)", len(problems))
	}

	if len(warnings) > 0 {
		ui.PrintWarning("Configuration warnings:")
		for _, w := range warnings {
			fmt.Fprintf(ui.Output, "  - %s\n", w)
		}
		fmt.Fprintln(ui.Output)
	}

	ui.PrintSuccess("Configuration is valid")

	fmt.Fprintln(ui.Output, "\nConfiguration summary:")
	ui.PrintInfo("  Rover", cfg.NASA.Rover)
	ui.PrintInfo("  Dates file", cfg.Input.DatesFile)
	ui.PrintInfo("  Photo directory", cfg.Output.PhotoDir)
	ui.PrintInfo("  Concurrency", fmt.Sprintf("%d dates, %d downloads", cfg.Download.ConcurrentDates, cfg.Download.ConcurrentDownloads))
	ui.PrintInfo("  Log level", cfg.Logging.Level)
	return nil
}
