package nasa

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"marsphotos/pkg/dates"
	"marsphotos/pkg/errors"
	"marsphotos/pkg/logger"
)

const samplePhotos = `{"photos":[
 {"id":102693,"sol":1000,"camera":{"id":20,"name":"FHAZ","rover_id":5,"full_name":"Front Hazard Avoidance Camera"},
  "img_src":"http://mars.jpl.nasa.gov/msl-raw-images/proj/msl/redops/ods/surface/sol/01000/opgs/edr/fcam/FLB_486265257EDR_F0481570FHAZ00323M_.JPG",
  "earth_date":"2015-05-30","rover":{"id":5,"name":"Curiosity","landing_date":"2012-08-06","launch_date":"2011-11-26","status":"active"}},
 {"id":102694,"sol":1000,"camera":{"id":20,"name":"FHAZ","rover_id":5,"full_name":"Front Hazard Avoidance Camera"},
  "img_src":"http://mars.jpl.nasa.gov/msl-raw-images/proj/msl/redops/ods/surface/sol/01000/opgs/edr/fcam/FRB_486265257EDR_F0481570FHAZ00323M_.JPG",
  "earth_date":"2015-05-30","rover":{"id":5,"name":"Curiosity","landing_date":"2012-08-06","launch_date":"2011-11-26","status":"active"}}
]}`

func mustDate(t *testing.T, s string) dates.Date {
	t.Helper()
	d, err := dates.ParseLine(s)
	require.NoError(t, err)
	return d
}

func newTestClient(serverURL string, log logger.Logger) *Client {
	return NewClient(Options{
		BaseURL:   serverURL,
		Rover:     "curiosity",
		APIKey:    "secret-key",
		UserAgent: "marsphotos-test",
	}, log)
}

func TestFetchPhotosForDate(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "/rovers/curiosity/photos", r.URL.Path)
		assert.Equal(t, "2015-05-30", r.URL.Query().Get("earth_date"))
		assert.Equal(t, "secret-key", r.URL.Query().Get("api_key"))
		assert.Equal(t, "marsphotos-test", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(samplePhotos))
	}))
	defer server.Close()

	client := newTestClient(server.URL, logger.NewNopLogger())
	resp, err := client.FetchPhotosForDate(context.Background(), mustDate(t, "May 30, 2015"))
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	require.Len(t, resp.Photos, 2)
	photo := resp.Photos[0]
	assert.Equal(t, int64(102693), photo.ID)
	assert.Equal(t, 1000, photo.Sol)
	assert.Equal(t, "FHAZ", photo.Camera.Name)
	assert.Equal(t, "Curiosity", photo.Rover.Name)
	assert.True(t, strings.HasSuffix(photo.ImgSrc, "FLB_486265257EDR_F0481570FHAZ00323M_.JPG"))
}

func TestFetchPhotosForDate_EmptyList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"photos":[]}`))
	}))
	defer server.Close()

	resp, err := newTestClient(server.URL, logger.NewNopLogger()).
		FetchPhotosForDate(context.Background(), mustDate(t, "2015-06-03"))
	require.NoError(t, err)
	assert.Empty(t, resp.Photos)
}

func TestFetchPhotosForDate_Errors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantType errors.ErrorType
		wantCode int
	}{
		{name: "server error", status: 500, body: "oops", wantType: errors.ErrorTypeRemoteRequestFailed, wantCode: 500},
		{name: "rate limited", status: 429, body: "{}", wantType: errors.ErrorTypeRemoteRequestFailed, wantCode: 429},
		{name: "forbidden", status: 403, body: "{}", wantType: errors.ErrorTypeRemoteRequestFailed, wantCode: 403},
		{name: "malformed body", status: 200, body: `{"photos": [`, wantType: errors.ErrorTypeMetadataDecodeFailed},
		{name: "wrong shape", status: 200, body: `{"error": "nope"}`, wantType: errors.ErrorTypeMetadataDecodeFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := newTestClient(server.URL, logger.NewNopLogger()).
				FetchPhotosForDate(context.Background(), mustDate(t, "2016-07-13"))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantType), "got %v", err)

			var typed *errors.Error
			require.ErrorAs(t, err, &typed)
			assert.Equal(t, "2016-07-13", typed.Date)
			assert.Equal(t, tt.wantCode, typed.Code)
		})
	}
}

func TestFetchPhotosForDate_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := newTestClient(url, logger.NewNopLogger()).
		FetchPhotosForDate(context.Background(), mustDate(t, "2016-07-13"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrorTypeNetwork))
	assert.NotContains(t, err.Error(), "secret-key")
}

func TestFetchPhotosForDate_RequestTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client := NewClient(Options{BaseURL: server.URL, APIKey: "k", RequestTimeout: 50 * time.Millisecond}, logger.NewNopLogger())
	_, err := client.FetchPhotosForDate(context.Background(), mustDate(t, "2016-07-13"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrorTypeNetwork))
}

func TestFetchPhotosForDate_RedactsKeyInLogs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	tl := logger.NewTestLogger()
	_, _ = newTestClient(server.URL, tl).FetchPhotosForDate(context.Background(), mustDate(t, "2016-07-13"))

	assert.NotContains(t, tl.String(), "secret-key")
	assert.Contains(t, tl.String(), "REDACTED")
}

func TestOpenImage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok.jpg":
			w.Header().Set("Content-Length", "5")
			_, _ = w.Write([]byte("image"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := newTestClient(server.URL, logger.NewNopLogger())

	body, size, err := client.OpenImage(context.Background(), server.URL+"/ok.jpg")
	require.NoError(t, err)
	data, err := io.ReadAll(body)
	require.NoError(t, body.Close())
	require.NoError(t, err)
	assert.Equal(t, "image", string(data))
	assert.Equal(t, int64(5), size)

	_, _, err = client.OpenImage(context.Background(), server.URL+"/missing.jpg")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrorTypeImageRequestFailed))
}
