package errors

import (
	"errors"
	"fmt"
)

// ErrorType classifies the failures a fetch run can produce
type ErrorType string

const (
	ErrorTypeInvalidDateLine      ErrorType = "invalid_date_line"
	ErrorTypeRemoteRequestFailed  ErrorType = "remote_request_failed"
	ErrorTypeMetadataDecodeFailed ErrorType = "metadata_decode_failed"
	ErrorTypeImageRequestFailed   ErrorType = "image_request_failed"
	ErrorTypeConfigurationMissing ErrorType = "configuration_missing"
	ErrorTypeNetwork              ErrorType = "network"
	ErrorTypeStorage              ErrorType = "storage"
)

// Error is a typed failure carrying the date or URL it concerns
type Error struct {
	Type    ErrorType
	Message string
	Code    int    // HTTP status, 0 when not applicable
	Date    string // YYYY-MM-DD, empty when not applicable
	URL     string
	Err     error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s error", e.Type)
	if e.Code != 0 {
		msg = fmt.Sprintf("%s (code %d)", msg, e.Code)
	}
	msg += ": " + e.Message
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether err (or anything it wraps) is an *Error of the given type
func Is(err error, errorType ErrorType) bool {
	var typed *Error
	if errors.As(err, &typed) {
		return typed.Type == errorType
	}
	return false
}

// TypeOf returns the type of the first *Error in err's chain, or "" if none
func TypeOf(err error) ErrorType {
	var typed *Error
	if errors.As(err, &typed) {
		return typed.Type
	}
	return ""
}

// StatusCode returns the HTTP status carried by err, or 0
func StatusCode(err error) int {
	var typed *Error
	if errors.As(err, &typed) {
		return typed.Code
	}
	return 0
}

// InvalidDateLine reports an input line that is not a calendar date
func InvalidDateLine(line int, raw string, cause error) *Error {
	return &Error{
		Type:    ErrorTypeInvalidDateLine,
		Message: fmt.Sprintf("line %d: %q is not a valid date", line, raw),
		Err:     cause,
	}
}

// RemoteRequestFailed reports a non-success status from the photo metadata endpoint
func RemoteRequestFailed(date string, status int) *Error {
	return &Error{
		Type:    ErrorTypeRemoteRequestFailed,
		Message: fmt.Sprintf("photo request for %s returned status %d", date, status),
		Code:    status,
		Date:    date,
	}
}

// MetadataDecodeFailed reports a malformed metadata response body
func MetadataDecodeFailed(date string, cause error) *Error {
	return &Error{
		Type:    ErrorTypeMetadataDecodeFailed,
		Message: fmt.Sprintf("could not decode photo list for %s", date),
		Date:    date,
		Err:     cause,
	}
}

// ImageRequestFailed reports a non-success status from an image URL
func ImageRequestFailed(url string, status int) *Error {
	return &Error{
		Type:    ErrorTypeImageRequestFailed,
		Message: fmt.Sprintf("image request for %s returned status %d", url, status),
		Code:    status,
		URL:     url,
	}
}

// ConfigurationMissing reports a required input that does not exist
func ConfigurationMissing(what string, cause error) *Error {
	return &Error{
		Type:    ErrorTypeConfigurationMissing,
		Message: what,
		Err:     cause,
	}
}

// Network wraps a transport level failure
func Network(url string, cause error) *Error {
	return &Error{
		Type:    ErrorTypeNetwork,
		Message: "request to " + url + " failed",
		URL:     url,
		Err:     cause,
	}
}

// Storage wraps a local filesystem failure
func Storage(message string, cause error) *Error {
	return &Error{
		Type:    ErrorTypeStorage,
		Message: message,
		Err:     cause,
	}
}

// IsFatal reports whether an error must stop the whole run
func IsFatal(err error) bool {
	return Is(err, ErrorTypeConfigurationMissing)
}
