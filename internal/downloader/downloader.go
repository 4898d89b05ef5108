package downloader

import (
	"context"
	"fmt"
	"io"
	"time"

	"marsphotos/pkg/logger"
	"marsphotos/pkg/metadata"
	"marsphotos/pkg/nasa"
	"marsphotos/pkg/storage"
)

// Status is the final state of one photo download
type Status string

const (
	StatusDownloaded Status = "downloaded"
	StatusSkipped    Status = "skipped"
	StatusFailed     Status = "failed"
)

// Outcome describes what happened to one photo
type Outcome struct {
	Status   Status
	File     string
	Path     string
	URL      string
	Bytes    int64
	Duration time.Duration
	Err      error
}

// ImageSource opens an image URL for reading
type ImageSource interface {
	OpenImage(ctx context.Context, url string) (io.ReadCloser, int64, error)
}

// PhotoStorage is the slice of storage.Manager the downloader needs
type PhotoStorage interface {
	Exists(name string) bool
	Path(name string) string
	Save(r io.Reader, name string) (int64, error)
	WriteFile(name string, data []byte) error
}

// Options tune a Downloader
type Options struct {
	Timeout      time.Duration // per photo deadline, 0 for none
	SaveMetadata bool
	RunID        string
}

// Downloader fetches single photos into a PhotoStorage
type Downloader struct {
	source ImageSource
	store  PhotoStorage
	opts   Options
	logger logger.Logger
}

// New creates a Downloader
func New(source ImageSource, store PhotoStorage, opts Options, log logger.Logger) *Downloader {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Downloader{
		source: source,
		store:  store,
		opts:   opts,
		logger: log,
	}
}

// DownloadPhoto stores photo unless a file with its name already exists.
// A skip never touches the network.
func (d *Downloader) DownloadPhoto(ctx context.Context, photo nasa.Photo) Outcome {
	start := time.Now()
	outcome := Outcome{URL: photo.ImgSrc}

	name, err := storage.FileNameFromURL(photo.ImgSrc)
	if err != nil {
		return d.fail(outcome, start, err)
	}
	outcome.File = name
	outcome.Path = d.store.Path(name)

	if d.store.Exists(name) {
		outcome.Status = StatusSkipped
		outcome.Duration = time.Since(start)
		d.logger.InfoWithFields("File already stored", map[string]interface{}{
			"file": name,
		})
		return outcome
	}

	if d.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.opts.Timeout)
		defer cancel()
	}

	body, size, err := d.source.OpenImage(ctx, photo.ImgSrc)
	if err != nil {
		return d.fail(outcome, start, err)
	}
	defer body.Close()

	var r io.Reader = body
	if size >= 0 {
		r = &lengthCheckedReader{r: body, want: size}
	}

	written, err := d.store.Save(r, name)
	outcome.Bytes = written
	if err != nil {
		return d.fail(outcome, start, err)
	}

	outcome.Status = StatusDownloaded
	outcome.Duration = time.Since(start)
	d.logger.InfoWithFields("Saved file locally", map[string]interface{}{
		"file":     name,
		"bytes":    written,
		"duration": outcome.Duration,
	})

	if d.opts.SaveMetadata {
		meta := metadata.FromPhoto(photo, name, written, d.opts.RunID)
		if err := meta.Save(d.store); err != nil {
			// The photo itself is complete, so this does not fail the outcome
			d.logger.WithError(err).WarnWithFields("Failed to write metadata sidecar", map[string]interface{}{
				"file": name,
			})
		}
	}

	return outcome
}

func (d *Downloader) fail(outcome Outcome, start time.Time, err error) Outcome {
	outcome.Status = StatusFailed
	outcome.Err = err
	outcome.Duration = time.Since(start)
	d.logger.WithError(err).WarnWithFields("Download failed", map[string]interface{}{
		"file": outcome.File,
		"url":  outcome.URL,
	})
	return outcome
}

// lengthCheckedReader turns a body shorter than its announced length into
// an error so the truncated file is never renamed into place.
type lengthCheckedReader struct {
	r    io.Reader
	want int64
	got  int64
}

func (l *lengthCheckedReader) Read(p []byte) (int, error) {
	n, err := l.r.Read(p)
	l.got += int64(n)
	if err == io.EOF && l.got != l.want {
		return n, fmt.Errorf("body ended after %d of %d bytes: %w", l.got, l.want, io.ErrUnexpectedEOF)
	}
	return n, err
}
