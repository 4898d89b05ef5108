package fetcher

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/alitto/pond/v2"
	"marsphotos/internal/downloader"
	"marsphotos/pkg/dates"
	"marsphotos/pkg/errors"
	"marsphotos/pkg/logger"
)

// Options bound the work done by a Fetcher
type Options struct {
	ConcurrentDates     int
	ConcurrentDownloads int
	RunTimeout          time.Duration // 0 means no deadline
}

// Summary is the end of run tally
type Summary struct {
	Dates       int
	DatesFailed int
	PhotosFound int
	Downloaded  int
	Skipped     int
	Failed      int
	Bytes       int64
	Elapsed     time.Duration
	Cancelled   bool
}

// Fields renders the summary for structured logging
func (s Summary) Fields() map[string]interface{} {
	return map[string]interface{}{
		"dates":        s.Dates,
		"dates_failed": s.DatesFailed,
		"photos_found": s.PhotosFound,
		"downloaded":   s.Downloaded,
		"skipped":      s.Skipped,
		"failed":       s.Failed,
		"bytes":        s.Bytes,
		"elapsed":      s.Elapsed,
		"cancelled":    s.Cancelled,
	}
}

type counters struct {
	datesFailed atomic.Int64
	photosFound atomic.Int64
	downloaded  atomic.Int64
	skipped     atomic.Int64
	failed      atomic.Int64
	bytes       atomic.Int64
}

// Fetcher runs the date to photo fan-out
type Fetcher struct {
	source     MetadataSource
	downloader PhotoDownloader
	opts       Options
	logger     logger.Logger
}

// New creates a Fetcher. Non-positive concurrency falls back to 1.
func New(source MetadataSource, dl PhotoDownloader, opts Options, log logger.Logger) *Fetcher {
	if log == nil {
		log = logger.GetLogger()
	}
	if opts.ConcurrentDates <= 0 {
		opts.ConcurrentDates = 1
	}
	if opts.ConcurrentDownloads <= 0 {
		opts.ConcurrentDownloads = 1
	}
	return &Fetcher{
		source:     source,
		downloader: dl,
		opts:       opts,
		logger:     log,
	}
}

// Run fetches and downloads every photo for every date. Failures of one
// date or one photo are logged and counted; they never stop the others.
// Run returns once all submitted work has finished or the context ends.
func (f *Fetcher) Run(ctx context.Context, ds []dates.Date) Summary {
	start := time.Now()

	if f.opts.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.opts.RunTimeout)
		defer cancel()
	}

	logger.LogComponentStart(f.logger, "fetcher", map[string]interface{}{
		"dates":                len(ds),
		"concurrent_dates":     f.opts.ConcurrentDates,
		"concurrent_downloads": f.opts.ConcurrentDownloads,
	})

	var c counters
	photoPool := pond.NewPool(f.opts.ConcurrentDownloads, pond.WithContext(ctx))
	datePool := pond.NewPool(f.opts.ConcurrentDates, pond.WithContext(ctx))

	for _, date := range ds {
		date := date
		datePool.Submit(func() {
			f.processDate(ctx, date, photoPool, &c)
		})
	}

	// Every photo task is submitted from a date task, so the photo pool can
	// only be stopped once the date pool has drained.
	_ = datePool.Stop().Wait()
	_ = photoPool.Stop().Wait()

	summary := Summary{
		Dates:       len(ds),
		DatesFailed: int(c.datesFailed.Load()),
		PhotosFound: int(c.photosFound.Load()),
		Downloaded:  int(c.downloaded.Load()),
		Skipped:     int(c.skipped.Load()),
		Failed:      int(c.failed.Load()),
		Bytes:       c.bytes.Load(),
		Elapsed:     time.Since(start),
		Cancelled:   ctx.Err() != nil,
	}

	logger.LogMetrics(f.logger, "fetch", summary.Fields())
	return summary
}

func (f *Fetcher) processDate(ctx context.Context, date dates.Date, photoPool pond.Pool, c *counters) {
	log := f.logger.WithField("date", date.String())
	log.Info("Processing date")

	resp, err := f.source.FetchPhotosForDate(ctx, date)
	if err != nil {
		c.datesFailed.Add(1)
		fields := map[string]interface{}{"error_type": string(errors.TypeOf(err))}
		if status := errors.StatusCode(err); status != 0 {
			fields["status"] = status
		}
		log.WithError(err).WarnWithFields("Photo request failed", fields)
		return
	}

	c.photosFound.Add(int64(len(resp.Photos)))
	log.InfoWithFields("Date has photos", map[string]interface{}{
		"photos": len(resp.Photos),
	})

	for _, photo := range resp.Photos {
		photo := photo
		photoPool.Submit(func() {
			outcome := f.downloader.DownloadPhoto(ctx, photo)
			switch outcome.Status {
			case downloader.StatusDownloaded:
				c.downloaded.Add(1)
				c.bytes.Add(outcome.Bytes)
			case downloader.StatusSkipped:
				c.skipped.Add(1)
			default:
				c.failed.Add(1)
			}
		})
	}
}
