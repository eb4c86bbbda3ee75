package fetchkit

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies request client errors.
type Kind int

const (
	// KindRequestError is the generic fallback for any failure that does not
	// carry a more specific kind (network errors, encoding errors, panics in
	// collaborators). Its numeric code is always 0.
	KindRequestError Kind = iota
	// KindInvalidURL indicates the request URL was empty or unparsable.
	// Detected pre-flight; no network call is made.
	KindInvalidURL
	// KindCanceled indicates the BeforeRequest hook vetoed the request.
	// No network call is made.
	KindCanceled
	// KindStatus indicates a non-2xx (and non-204) HTTP response. The
	// numeric status code is carried in Error.StatusCode.
	KindStatus
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindInvalidURL:
		return "invalidURL"
	case KindCanceled:
		return "requestCanceled"
	case KindStatus:
		return "status"
	default:
		return "RequestError"
	}
}

// Error is a structured request client error.
type Error struct {
	// Kind classifies the error.
	Kind Kind
	// StatusCode is the HTTP status code (0 unless Kind is KindStatus).
	StatusCode int
	// Message describes the error. For status errors this is the status text.
	Message string
	// Response is the original response, set when the error was produced
	// from a failed HTTP response.
	Response *Response
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Kind == KindStatus {
		return fmt.Sprintf("fetchkit: HTTP %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("fetchkit: %s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewInvalidURLError creates a pre-flight invalid URL error.
func NewInvalidURLError(url string) *Error {
	return &Error{
		Kind:    KindInvalidURL,
		Message: fmt.Sprintf("invalid request URL %q", url),
	}
}

// NewCanceledError creates a before-request veto error.
func NewCanceledError(url string) *Error {
	return &Error{
		Kind:    KindCanceled,
		Message: fmt.Sprintf("request to %q canceled by BeforeRequest hook", url),
	}
}

// NewStatusError creates an error from a failed HTTP response. The kind is
// the numeric status and the message is the status text.
func NewStatusError(resp *Response) *Error {
	message := http.StatusText(resp.StatusCode)
	if message == "" {
		message = resp.Status
	}
	return &Error{
		Kind:       KindStatus,
		StatusCode: resp.StatusCode,
		Message:    message,
		Response:   resp,
	}
}

// Normalize wraps an arbitrary error into *Error with the generic
// RequestError kind. Errors that already carry a distinguishing kind are
// returned unchanged.
func Normalize(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{
		Kind:    KindRequestError,
		Message: err.Error(),
		Err:     err,
	}
}

// IsInvalidURL checks if an error is an invalid URL error.
func IsInvalidURL(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindInvalidURL
}

// IsCanceled checks if an error is a before-request veto error.
func IsCanceled(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindCanceled
}

// IsStatus checks if an error is an HTTP status error and returns the code.
func IsStatus(err error) (int, bool) {
	var e *Error
	if errors.As(err, &e) && e.Kind == KindStatus {
		return e.StatusCode, true
	}
	return 0, false
}
