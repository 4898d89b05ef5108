// Package nasa is a client for the NASA Mars Rover Photos API.
//
// One call to FetchPhotosForDate issues exactly one GET against
//
//	{base}/rovers/{rover}/photos?earth_date=YYYY-MM-DD&api_key=KEY
//
// and decodes the {"photos": [...]} envelope. Failures come back as typed
// errors from marsphotos/pkg/errors:
//
//	resp, err := client.FetchPhotosForDate(ctx, date)
//	switch {
//	case errors.Is(err, errors.ErrorTypeRemoteRequestFailed):
//	    // non-2xx status, see (*errors.Error).Code
//	case errors.Is(err, errors.ErrorTypeMetadataDecodeFailed):
//	    // body was not the expected JSON
//	}
//
// OpenImage streams a single img_src. The API key never appears in logs.
package nasa
