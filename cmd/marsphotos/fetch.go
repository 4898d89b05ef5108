package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"marsphotos/internal/downloader"
	"marsphotos/pkg/auth"
	"marsphotos/pkg/config"
	"marsphotos/pkg/dates"
	"marsphotos/pkg/fetcher"
	"marsphotos/pkg/logger"
	"marsphotos/pkg/metadata"
	"marsphotos/pkg/nasa"
	"marsphotos/pkg/storage"
	"marsphotos/pkg/ui"
)

var (
	// Fetch command flags
	apiKey          string
	rover           string
	baseURL         string
	outputDir       string
	concurrentDates int
	concurrent      int
	runTimeout      string
	saveMetadata    bool
	notify          bool
)

// fetchCmd represents the fetch command
var fetchCmd = &cobra.Command{
	Use:   "fetch [dates-file]",
	Short: "Download the photos of every date in a dates file",
	Long: `Download the photos of every date in a dates file.

Each non-blank line of the file is an earth date such as 2017-02-27,
02/27/17, "June 2, 2018" or Jul-13-2016. Lines that cannot be parsed are
reported and skipped. One metadata request is made per date and each photo
is stored under its original file name in the output directory.

The API key is taken from --api-key, MARSPHOTOS_API_KEY (or API_KEY), the
config file or a key stored with 'marsphotos auth set-key'. Without one the
rate limited DEMO_KEY is used.`,
	Example: `  # Download using dates.txt and ./Photos
  marsphotos fetch

  # Another dates file and output directory
  marsphotos fetch landing-week.txt --output ./mars

  # Query a different rover with more parallel downloads
  marsphotos fetch --rover perseverance --concurrent 16`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)
	addFetchFlags(fetchCmd)
}

// addFetchFlags registers the fetch flags, also on the root command so that
// fetch is the default
func addFetchFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&apiKey, "api-key", "", "NASA API key")
	cmd.Flags().StringVar(&rover, "rover", "", "rover to query (default curiosity)")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "Mars Rover Photos API base URL")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "photo directory (default ./Photos)")
	cmd.Flags().IntVar(&concurrentDates, "concurrent-dates", 0, "dates processed at once (default 4)")
	cmd.Flags().IntVar(&concurrent, "concurrent", 0, "images downloaded at once (default 8)")
	cmd.Flags().StringVar(&runTimeout, "timeout", "", "deadline for the whole run, e.g. 10m")
	cmd.Flags().BoolVar(&saveMetadata, "save-metadata", false, "write a JSON sidecar next to every photo")
	cmd.Flags().BoolVar(&notify, "notify", false, "send a notification when the run ends")
}

func fetchFlags(args []string) map[string]interface{} {
	flags := globalFlags()
	flags["api-key"] = apiKey
	flags["rover"] = rover
	flags["base-url"] = baseURL
	flags["output"] = outputDir
	flags["concurrent-dates"] = concurrentDates
	flags["concurrent"] = concurrent
	flags["timeout"] = runTimeout
	flags["save-metadata"] = saveMetadata
	flags["notify"] = notify
	if len(args) > 0 {
		flags["dates"] = args[0]
	}
	return flags
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile, fetchFlags(args))
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	runID := logger.NewRunID()
	log := logger.WithRunID(logger.GetLogger(), runID)
	log.WithField("version", version).Info("marsphotos starting")

	key, source := cfg.ResolveAPIKey(storedAPIKey(log))
	cfg.NASA.APIKey = key
	if source == "demo" {
		log.Warn("No API key configured, using DEMO_KEY")
	} else {
		log.WithField("source", source).Debug("Using API key")
	}

	lines, err := dates.LoadFile(cfg.Input.DatesFile)
	if err != nil {
		log.WithError(err).Error("Cannot read dates file")
		return err
	}

	parsed := dates.Parse(lines)
	for _, invalid := range parsed.Invalid {
		log.WithFields(map[string]interface{}{
			"line": invalid.Number,
			"raw":  invalid.Raw,
		}).Warn("Skipping invalid date")
	}

	store, err := storage.NewManager(cfg.Output.PhotoDir)
	if err != nil {
		log.WithError(err).Error("Cannot use photo directory")
		return err
	}
	if removed, err := store.CleanupPartials(); err != nil {
		log.WithError(err).Warn("Could not clean up partial downloads")
	} else if removed > 0 {
		log.WithField("removed", removed).Info("Removed partial downloads")
	}
	if cfg.Output.SaveMetadata {
		if removed, err := metadata.CleanOrphanedMetadata(store.Dir()); err != nil {
			log.WithError(err).Warn("Could not clean up orphaned metadata")
		} else if removed > 0 {
			log.WithField("removed", removed).Info("Removed orphaned metadata")
		}
	}

	client := nasa.NewClient(nasa.Options{
		BaseURL:        cfg.NASA.BaseURL,
		Rover:          cfg.NASA.Rover,
		APIKey:         cfg.NASA.APIKey,
		UserAgent:      cfg.NASA.UserAgent,
		RequestTimeout: cfg.Download.RequestTimeoutDuration(),
	}, log)

	dl := downloader.New(client, store, downloader.Options{
		Timeout:      cfg.Download.DownloadTimeoutDuration(),
		SaveMetadata: cfg.Output.SaveMetadata,
		RunID:        runID,
	}, log)

	f := fetcher.New(client, dl, fetcher.Options{
		ConcurrentDates:     cfg.Download.ConcurrentDates,
		ConcurrentDownloads: cfg.Download.ConcurrentDownloads,
		RunTimeout:          cfg.Download.RunTimeoutDuration(),
	}, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary := f.Run(ctx, parsed.Dates)

	if !quiet {
		fmt.Fprintln(ui.Output, ui.RenderSummary(summary))
	}

	if cfg.Notifications.Enabled && cfg.Notifications.OnComplete {
		notifier := ui.NewNotifier(cfg.Notifications.NotificationType)
		var nerr error
		if summary.Cancelled || summary.Failed+summary.DatesFailed > 0 {
			nerr = notifier.SendError("marsphotos finished with errors", ui.SummaryMessage(summary))
		} else {
			nerr = notifier.SendSuccess("marsphotos finished", ui.SummaryMessage(summary))
		}
		if nerr != nil {
			log.WithError(nerr).Debug("Desktop notification failed")
		}
	}

	return nil
}

// storedAPIKey looks the key up lazily so a configured key never touches the
// keychain
func storedAPIKey(log logger.Logger) func() (string, error) {
	return func() (string, error) {
		manager, err := auth.NewManager()
		if err != nil {
			log.WithError(err).Debug("Key store unavailable")
			return "", err
		}
		return manager.APIKey()
	}
}
