package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"marsphotos/pkg/auth"
	"marsphotos/pkg/ui"
)

var profile string

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the stored NASA API key",
	Long: `Manage the NASA API key stored on this machine.

Keys are stored using:
  - System keychain (when available)
  - Encrypted file with PBKDF2 key derivation
  - NASA_API_KEY environment variable (read only)`,
}

// setKeyCmd represents the auth set-key command
var setKeyCmd = &cobra.Command{
	Use:   "set-key [key]",
	Short: "Store a NASA API key",
	Long: `Store a NASA API key. Without an argument the key is read from the
terminal without echo.`,
	Example: `  # Interactive prompt
  marsphotos auth set-key

  # Non-interactive
  echo "$KEY" | marsphotos auth set-key`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSetKey,
}

// statusCmd represents the auth status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which key store holds the API key",
	RunE:  runStatus,
}

// clearCmd represents the auth clear command
var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the stored API key",
	RunE:  runClear,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(setKeyCmd)
	authCmd.AddCommand(statusCmd)
	authCmd.AddCommand(clearCmd)
	authCmd.PersistentFlags().StringVar(&profile, "profile", auth.DefaultProfile, "key profile")
}

func runSetKey(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize key store: %w", err)
	}

	var key string
	if len(args) > 0 {
		key = args[0]
	} else {
		auth.ShowAPIKeyGuide(ui.Output)
		fmt.Fprint(ui.Output, "\nNASA API key: ")
		key, err = readSecret()
		if err != nil {
			return fmt.Errorf("failed to read API key: %w", err)
		}
	}

	storeName, err := manager.Store(&auth.Credential{Profile: profile, APIKey: key})
	if err != nil {
		return err
	}

	ui.PrintSuccess(fmt.Sprintf("API key %s stored in %s", auth.MaskKey(strings.TrimSpace(key)), storeName))
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize key store: %w", err)
	}

	ui.PrintInfo("Key stores", strings.Join(manager.StoreNames(), ", "))

	cred, storeName, err := manager.Retrieve(profile)
	if err != nil {
		ui.PrintWarning("No API key stored, DEMO_KEY will be used")
		fmt.Fprintln(ui.Output, "Run 'marsphotos auth set-key' to store one.")
		return nil
	}

	ui.PrintInfo("Profile", cred.Profile)
	ui.PrintInfo("API key", auth.MaskKey(cred.APIKey))
	ui.PrintInfo("Stored in", storeName)
	if !cred.LastModified.IsZero() {
		ui.PrintInfo("Last modified", cred.LastModified.Format("2006-01-02 15:04:05"))
	}
	return nil
}

func runClear(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize key store: %w", err)
	}

	if err := manager.Delete(profile); err != nil {
		return err
	}
	ui.PrintSuccess("API key removed")
	return nil
}

// readSecret reads a line from stdin, without echo when stdin is a terminal
func readSecret() (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		secret, err := term.ReadPassword(fd)
		fmt.Fprintln(ui.Output)
		if err == nil {
			return strings.TrimSpace(string(secret)), nil
		}
	}

	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil && input == "" {
		return "", err
	}
	return strings.TrimSpace(input), nil
}
