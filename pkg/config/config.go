package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DemoAPIKey is the shared, heavily throttled key NASA hands out for trials
const DemoAPIKey = "DEMO_KEY"

// Config holds all configuration options for a fetch run
type Config struct {
	// NASA API access
	NASA NASAConfig `yaml:"nasa" json:"nasa"`

	// Input dates file
	Input InputConfig `yaml:"input" json:"input"`

	// Photo directory settings
	Output OutputConfig `yaml:"output" json:"output"`

	// Concurrency and deadlines
	Download DownloadConfig `yaml:"download" json:"download"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`

	// Notification preferences
	Notifications NotificationConfig `yaml:"notifications" json:"notifications"`
}

// NASAConfig holds the Mars Rover Photos API settings
type NASAConfig struct {
	APIKey    string `yaml:"api_key" json:"api_key"`
	BaseURL   string `yaml:"base_url" json:"base_url"`
	Rover     string `yaml:"rover" json:"rover"`
	UserAgent string `yaml:"user_agent" json:"user_agent"`
}

// InputConfig names the file dates are read from
type InputConfig struct {
	DatesFile string `yaml:"dates_file" json:"dates_file"`
}

// OutputConfig holds photo directory configuration
type OutputConfig struct {
	PhotoDir     string `yaml:"photo_dir" json:"photo_dir"`
	SaveMetadata bool   `yaml:"save_metadata" json:"save_metadata"`
}

// DownloadConfig holds concurrency bounds and timeouts. Durations are kept as
// strings so the YAML file reads "30s" rather than nanoseconds.
type DownloadConfig struct {
	ConcurrentDates     int    `yaml:"concurrent_dates" json:"concurrent_dates"`
	ConcurrentDownloads int    `yaml:"concurrent_downloads" json:"concurrent_downloads"`
	RequestTimeout      string `yaml:"request_timeout" json:"request_timeout"`
	DownloadTimeout     string `yaml:"download_timeout" json:"download_timeout"`
	RunTimeout          string `yaml:"run_timeout" json:"run_timeout"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level   string `yaml:"level" json:"level"`
	File    string `yaml:"file" json:"file"`
	NoColor bool   `yaml:"no_color" json:"no_color"`
}

// NotificationConfig holds notification preferences
type NotificationConfig struct {
	Enabled          bool   `yaml:"enabled" json:"enabled"`
	OnComplete       bool   `yaml:"on_complete" json:"on_complete"`
	NotificationType string `yaml:"notification_type" json:"notification_type"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		NASA: NASAConfig{
			BaseURL:   "https://api.nasa.gov/mars-photos/api/v1",
			Rover:     "curiosity",
			UserAgent: "marsphotos/1.0",
		},
		Input: InputConfig{
			DatesFile: "dates.txt",
		},
		Output: OutputConfig{
			PhotoDir:     "./Photos",
			SaveMetadata: false,
		},
		Download: DownloadConfig{
			ConcurrentDates:     4,
			ConcurrentDownloads: 8,
			RequestTimeout:      "30s",
			DownloadTimeout:     "2m",
			RunTimeout:          "0s", // 0 means no deadline
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
		Notifications: NotificationConfig{
			Enabled:          false,
			OnComplete:       true,
			NotificationType: "terminal",
		},
	}
}

// RequestTimeoutDuration returns the per metadata request deadline
func (d DownloadConfig) RequestTimeoutDuration() time.Duration {
	return parseDurationOrZero(d.RequestTimeout)
}

// DownloadTimeoutDuration returns the per image download deadline
func (d DownloadConfig) DownloadTimeoutDuration() time.Duration {
	return parseDurationOrZero(d.DownloadTimeout)
}

// RunTimeoutDuration returns the whole-run deadline, zero meaning none
func (d DownloadConfig) RunTimeoutDuration() time.Duration {
	return parseDurationOrZero(d.RunTimeout)
}

func parseDurationOrZero(s string) time.Duration {
	if s == "" {
		return 0
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0
	}
	return d
}

// LoadFromEnv loads configuration from environment variables.
// MARSPHOTOS_* names win over the legacy API_KEY and PhotoSaveRoot names.
func (c *Config) LoadFromEnv() error {
	// API key
	if apiKey := os.Getenv("API_KEY"); apiKey != "" {
		c.NASA.APIKey = apiKey
	}
	if apiKey := os.Getenv("MARSPHOTOS_API_KEY"); apiKey != "" {
		c.NASA.APIKey = apiKey
	}
	if baseURL := os.Getenv("MARSPHOTOS_BASE_URL"); baseURL != "" {
		c.NASA.BaseURL = baseURL
	}
	if rover := os.Getenv("MARSPHOTOS_ROVER"); rover != "" {
		c.NASA.Rover = rover
	}

	// Input and output
	if datesFile := os.Getenv("MARSPHOTOS_DATES_FILE"); datesFile != "" {
		c.Input.DatesFile = datesFile
	}
	if photoDir := os.Getenv("PhotoSaveRoot"); photoDir != "" {
		c.Output.PhotoDir = photoDir
	}
	if photoDir := os.Getenv("MARSPHOTOS_PHOTO_DIR"); photoDir != "" {
		c.Output.PhotoDir = photoDir
	}
	if saveMeta := os.Getenv("MARSPHOTOS_SAVE_METADATA"); saveMeta != "" {
		c.Output.SaveMetadata = strings.ToLower(saveMeta) == "true"
	}

	// Concurrency
	if v := os.Getenv("MARSPHOTOS_CONCURRENT_DATES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("MARSPHOTOS_CONCURRENT_DATES: %w", err)
		}
		c.Download.ConcurrentDates = n
	}
	if v := os.Getenv("MARSPHOTOS_CONCURRENT_DOWNLOADS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("MARSPHOTOS_CONCURRENT_DOWNLOADS: %w", err)
		}
		c.Download.ConcurrentDownloads = n
	}
	if v := os.Getenv("MARSPHOTOS_RUN_TIMEOUT"); v != "" {
		c.Download.RunTimeout = v
	}

	// Notifications
	if notifEnabled := os.Getenv("MARSPHOTOS_NOTIFICATIONS_ENABLED"); notifEnabled != "" {
		c.Notifications.Enabled = strings.ToLower(notifEnabled) == "true"
	}

	// Logging
	if logLevel := os.Getenv("MARSPHOTOS_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}
	if logFile := os.Getenv("MARSPHOTOS_LOG_FILE"); logFile != "" {
		c.Logging.File = logFile
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		c.Logging.NoColor = true
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	home := os.Getenv("HOME")
	locations := []string{
		".marsphotos.yaml",
		".marsphotos.yml",
		filepath.Join(home, ".config", "marsphotos", "config.yaml"),
		filepath.Join(home, ".config", "marsphotos", "config.yml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	// NASA API
	if c.NASA.BaseURL == "" {
		errs = append(errs, errors.New("NASA base URL is required"))
	} else if u, err := url.Parse(c.NASA.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("NASA base URL %q is not an absolute URL", c.NASA.BaseURL))
	}
	if c.NASA.Rover == "" {
		errs = append(errs, errors.New("rover name is required"))
	}

	// Input and output
	if c.Input.DatesFile == "" {
		errs = append(errs, errors.New("dates file is required"))
	}
	if c.Output.PhotoDir == "" {
		errs = append(errs, errors.New("photo directory is required"))
	}

	// Download settings
	if c.Download.ConcurrentDates <= 0 {
		errs = append(errs, errors.New("concurrent dates must be positive"))
	}
	if c.Download.ConcurrentDownloads <= 0 {
		errs = append(errs, errors.New("concurrent downloads must be positive"))
	}
	if c.Download.ConcurrentDownloads > 64 {
		errs = append(errs, errors.New("concurrent downloads should not exceed 64"))
	}
	for name, value := range map[string]string{
		"request timeout":  c.Download.RequestTimeout,
		"download timeout": c.Download.DownloadTimeout,
		"run timeout":      c.Download.RunTimeout,
	} {
		if value == "" {
			continue
		}
		d, err := time.ParseDuration(value)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid %s %q: %w", name, value, err))
			continue
		}
		if d < 0 {
			errs = append(errs, fmt.Errorf("%s cannot be negative", name))
		}
	}

	// Logging
	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	// Notification type
	validNotifTypes := map[string]bool{
		"terminal": true, "desktop": true, "none": true,
	}
	if !validNotifTypes[strings.ToLower(c.Notifications.NotificationType)] {
		errs = append(errs, errors.New("invalid notification type"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration.
// Zero values are treated as "not set".
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if apiKey, ok := flags["api-key"].(string); ok && apiKey != "" {
		c.NASA.APIKey = apiKey
	}
	if rover, ok := flags["rover"].(string); ok && rover != "" {
		c.NASA.Rover = rover
	}
	if baseURL, ok := flags["base-url"].(string); ok && baseURL != "" {
		c.NASA.BaseURL = baseURL
	}
	if datesFile, ok := flags["dates"].(string); ok && datesFile != "" {
		c.Input.DatesFile = datesFile
	}
	if outputDir, ok := flags["output"].(string); ok && outputDir != "" {
		c.Output.PhotoDir = outputDir
	}
	if saveMeta, ok := flags["save-metadata"].(bool); ok && saveMeta {
		c.Output.SaveMetadata = true
	}
	if n, ok := flags["concurrent-dates"].(int); ok && n > 0 {
		c.Download.ConcurrentDates = n
	}
	if n, ok := flags["concurrent"].(int); ok && n > 0 {
		c.Download.ConcurrentDownloads = n
	}
	if timeout, ok := flags["timeout"].(string); ok && timeout != "" {
		c.Download.RunTimeout = timeout
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
	if logFile, ok := flags["log-file"].(string); ok && logFile != "" {
		c.Logging.File = logFile
	}
	if noColor, ok := flags["no-color"].(bool); ok && noColor {
		c.Logging.NoColor = true
	}
	if notify, ok := flags["notify"].(bool); ok && notify {
		c.Notifications.Enabled = true
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".marsphotos.env"))

	// Start with defaults
	config := DefaultConfig()

	// Load from config file
	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	// Override with environment variables (includes values from .env)
	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Override with command line flags
	config.MergeCommandLineFlags(flags)

	// Validate final configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// ResolveAPIKey returns the configured key, then the stored key, then DEMO_KEY.
// The second return value names where the key came from.
func (c *Config) ResolveAPIKey(stored func() (string, error)) (string, string) {
	if c.NASA.APIKey != "" {
		return c.NASA.APIKey, "config"
	}
	if stored != nil {
		if key, err := stored(); err == nil && key != "" {
			return key, "stored"
		}
	}
	return DemoAPIKey, "demo"
}
