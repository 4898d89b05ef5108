package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessage(t *testing.T) {
	err := RemoteRequestFailed("2016-07-13", 500)
	assert.Equal(t, "remote_request_failed error (code 500): photo request for 2016-07-13 returned status 500", err.Error())

	wrapped := MetadataDecodeFailed("2016-07-13", errors.New("unexpected EOF"))
	assert.Contains(t, wrapped.Error(), "unexpected EOF")
	assert.Equal(t, "2016-07-13", wrapped.Date)
}

func TestIs(t *testing.T) {
	base := ImageRequestFailed("https://example.test/a.jpg", 404)
	wrapped := fmt.Errorf("download: %w", base)

	assert.True(t, Is(wrapped, ErrorTypeImageRequestFailed))
	assert.False(t, Is(wrapped, ErrorTypeNetwork))
	assert.False(t, Is(errors.New("plain"), ErrorTypeNetwork))
	assert.Equal(t, ErrorTypeImageRequestFailed, TypeOf(wrapped))
	assert.Equal(t, ErrorType(""), TypeOf(nil))
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := Storage("failed to write photo", cause)
	assert.ErrorIs(t, err, cause)
}

func TestIsFatal(t *testing.T) {
	assert.True(t, IsFatal(ConfigurationMissing("dates file missing", nil)))
	assert.False(t, IsFatal(Network("https://example.test", errors.New("refused"))))
	assert.False(t, IsFatal(InvalidDateLine(3, "April 31, 2018", nil)))
}

func TestStatusCode(t *testing.T) {
	assert.Equal(t, 503, StatusCode(fmt.Errorf("wrapped: %w", RemoteRequestFailed("2016-07-13", 503))))
	assert.Equal(t, 0, StatusCode(Network("https://example.test", errors.New("refused"))))
	assert.Equal(t, 0, StatusCode(errors.New("plain")))
}
