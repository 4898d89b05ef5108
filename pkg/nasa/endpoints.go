package nasa

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	// BaseURL is the public Mars Rover Photos API root
	BaseURL = "https://api.nasa.gov/mars-photos/api/v1"

	// DefaultRover is queried when none is configured
	DefaultRover = "curiosity"

	// PhotosEndpoint is the per-rover photo search path
	PhotosEndpoint = "/rovers/%s/photos"

	// EarthDateLayout is the query parameter format for earth_date
	EarthDateLayout = "2006-01-02"

	redacted = "REDACTED"
)

// PhotosURL builds the photo search URL for one earth date
func PhotosURL(base, rover, earthDate, apiKey string) string {
	params := url.Values{}
	params.Set("earth_date", earthDate)
	params.Set("api_key", apiKey)

	path := fmt.Sprintf(PhotosEndpoint, url.PathEscape(strings.ToLower(rover)))
	return fmt.Sprintf("%s%s?%s", strings.TrimRight(base, "/"), path, params.Encode())
}

// RedactURL hides the api_key query value so URLs can be logged
func RedactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	q := u.Query()
	if q.Get("api_key") == "" {
		return raw
	}
	q.Set("api_key", redacted)
	u.RawQuery = q.Encode()
	return u.String()
}
