package nasa

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"marsphotos/pkg/dates"
	"marsphotos/pkg/errors"
	"marsphotos/pkg/logger"
)

// Options configures a Client
type Options struct {
	BaseURL        string
	Rover          string
	APIKey         string
	UserAgent      string
	RequestTimeout time.Duration // deadline for one metadata request, 0 for none
}

// Client talks to the Mars Rover Photos API and the image hosts it points at
type Client struct {
	httpClient *http.Client
	headers    map[string]string
	opts       Options
	logger     logger.Logger
}

// NewClient creates a new API client. Image downloads are bounded by the
// caller's context rather than a client-wide timeout so large files are
// not cut off.
func NewClient(opts Options, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}
	if opts.BaseURL == "" {
		opts.BaseURL = BaseURL
	}
	if opts.Rover == "" {
		opts.Rover = DefaultRover
	}

	headers := map[string]string{
		"Accept": "application/json",
	}
	if opts.UserAgent != "" {
		headers["User-Agent"] = opts.UserAgent
	}

	return &Client{
		httpClient: &http.Client{},
		headers:    headers,
		opts:       opts,
		logger:     log,
	}
}

// SetHTTPClient replaces the underlying transport client
func (c *Client) SetHTTPClient(hc *http.Client) {
	c.httpClient = hc
}

// Rover returns the rover this client queries
func (c *Client) Rover() string {
	return c.opts.Rover
}

// doRequest performs a GET with the configured headers
func (c *Client) doRequest(ctx context.Context, rawURL string, headers map[string]string) (*http.Response, error) {
	logURL := RedactURL(rawURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errors.Network(logURL, err)
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	c.logger.DebugWithFields("sending HTTP request", map[string]interface{}{
		"method": req.Method,
		"url":    logURL,
	})

	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)
	if err != nil {
		c.logger.WarnWithFields("HTTP request failed", map[string]interface{}{
			"method":   req.Method,
			"url":      logURL,
			"error":    err.Error(),
			"duration": duration,
		})
		return nil, errors.Network(logURL, err)
	}

	logger.LogRequest(c.logger, req.Method, logURL, resp.StatusCode, duration)
	return resp, nil
}

// FetchPhotosForDate issues exactly one metadata request for date
func (c *Client) FetchPhotosForDate(ctx context.Context, date dates.Date) (*PhotosResponse, error) {
	earthDate := date.String()
	rawURL := PhotosURL(c.opts.BaseURL, c.opts.Rover, earthDate, c.opts.APIKey)

	if c.opts.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.RequestTimeout)
		defer cancel()
	}

	resp, err := c.doRequest(ctx, rawURL, c.headers)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return nil, errors.RemoteRequestFailed(earthDate, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Network(RedactURL(rawURL), err)
	}

	var response PhotosResponse
	if err := json.Unmarshal(body, &response); err != nil {
		bodyPreview := string(body)
		if len(bodyPreview) > 200 {
			bodyPreview = bodyPreview[:200] + "..."
		}
		c.logger.DebugWithFields("failed to parse JSON response", map[string]interface{}{
			"date":         earthDate,
			"body_preview": bodyPreview,
		})
		return nil, errors.MetadataDecodeFailed(earthDate, err)
	}
	if response.Photos == nil {
		// Valid JSON without the photos member is not the expected shape
		var probe map[string]json.RawMessage
		if json.Unmarshal(body, &probe) != nil || probe["photos"] == nil {
			return nil, errors.MetadataDecodeFailed(earthDate, fmt.Errorf("response has no photos member"))
		}
	}

	return &response, nil
}

// OpenImage starts the download of one image. The caller must close the
// returned body. size is -1 when the server did not announce a length.
func (c *Client) OpenImage(ctx context.Context, imageURL string) (io.ReadCloser, int64, error) {
	resp, err := c.doRequest(ctx, imageURL, map[string]string{"User-Agent": c.headers["User-Agent"]})
	if err != nil {
		return nil, 0, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		resp.Body.Close()
		return nil, 0, errors.ImageRequestFailed(imageURL, resp.StatusCode)
	}

	return resp.Body, resp.ContentLength, nil
}
