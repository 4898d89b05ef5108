package fetcher

import (
	"context"

	"marsphotos/internal/downloader"
	"marsphotos/pkg/dates"
	"marsphotos/pkg/nasa"
)

// MetadataSource returns the photo list for one earth date
type MetadataSource interface {
	FetchPhotosForDate(ctx context.Context, date dates.Date) (*nasa.PhotosResponse, error)
}

// PhotoDownloader stores one photo and reports what happened
type PhotoDownloader interface {
	DownloadPhoto(ctx context.Context, photo nasa.Photo) downloader.Outcome
}
