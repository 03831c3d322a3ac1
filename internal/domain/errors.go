package domain

import (
	"errors"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
type HTTPError interface {
	error
	StatusCode() int
	Kind() string
}

// Error kinds reported to API clients alongside the problem detail.
const (
	KindAuthenticationMissing    = "authentication_missing"
	KindAuthenticationInvalid    = "authentication_invalid"
	KindRemoteAPIFailure         = "remote_api_failure"
	KindContentExtractionFailure = "content_extraction_failure"
	KindExportFailure            = "export_failure"
	KindArchiveUnavailable       = "archive_unavailable"
	KindValidationFailed         = "validation_failed"
	KindNotFound                 = "not_found"
	KindInternal                 = "internal_error"
)

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound              = errors.New("not found")
	ErrValidation            = errors.New("validation failed")
	ErrAuthenticationMissing = errors.New("authentication required")
	ErrAuthenticationInvalid = errors.New("authentication invalid")
	ErrRemoteAPI             = errors.New("remote api call failed")
	ErrContentExtraction     = errors.New("content extraction failed")
	ErrExport                = errors.New("export failed")
	ErrArchiveUnavailable    = errors.New("archive unavailable")
)

// RemoteError wraps a failed call against the remote document store.
// Op names the call ("list", "create", "batch_update", ...) for logs and outcomes.
type RemoteError struct {
	Op  string
	Err error
}

func (e *RemoteError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *RemoteError) Unwrap() error { return e.Err }

// Is allows errors.Is() to match against ErrRemoteAPI
func (e *RemoteError) Is(target error) bool {
	return target == ErrRemoteAPI
}

// StatusCode implements the HTTPError interface
func (e *RemoteError) StatusCode() int { return http.StatusBadGateway }

// Kind implements the HTTPError interface
func (e *RemoteError) Kind() string { return KindRemoteAPIFailure }

// NewRemoteError wraps err as a RemoteError, returning nil for a nil err.
func NewRemoteError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &RemoteError{Op: op, Err: err}
}

// KindOf returns the client-facing error kind for err.
func KindOf(err error) string {
	var httpErr HTTPError
	switch {
	case errors.Is(err, ErrAuthenticationMissing):
		return KindAuthenticationMissing
	case errors.Is(err, ErrAuthenticationInvalid):
		return KindAuthenticationInvalid
	case errors.Is(err, ErrContentExtraction):
		return KindContentExtractionFailure
	case errors.Is(err, ErrExport):
		return KindExportFailure
	case errors.Is(err, ErrArchiveUnavailable):
		return KindArchiveUnavailable
	case errors.As(err, &httpErr):
		return httpErr.Kind()
	case errors.Is(err, ErrValidation):
		return KindValidationFailed
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	default:
		return KindInternal
	}
}
