package nasa

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhotosURL(t *testing.T) {
	raw := PhotosURL(BaseURL+"/", "Curiosity", "2017-02-27", "DEMO_KEY")

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "api.nasa.gov", u.Host)
	assert.Equal(t, "/mars-photos/api/v1/rovers/curiosity/photos", u.Path)
	assert.Equal(t, "2017-02-27", u.Query().Get("earth_date"))
	assert.Equal(t, "DEMO_KEY", u.Query().Get("api_key"))
}

func TestRedactURL(t *testing.T) {
	raw := PhotosURL(BaseURL, DefaultRover, "2017-02-27", "super-secret")
	redactedURL := RedactURL(raw)

	assert.NotContains(t, redactedURL, "super-secret")
	assert.Contains(t, redactedURL, "api_key=REDACTED")
	assert.Contains(t, redactedURL, "earth_date=2017-02-27")

	plain := "http://mars.jpl.nasa.gov/msl-raw-images/a.JPG"
	assert.Equal(t, plain, RedactURL(plain))
}
