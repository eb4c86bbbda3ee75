package fetchkit

import (
	"context"
	"net/http"
)

// Doer is the transport collaborator that actually performs HTTP requests.
// *http.Client satisfies it; tests and callers can inject their own.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// DoerFunc adapts a function to the Doer interface.
type DoerFunc func(req *http.Request) (*http.Response, error)

// Do implements Doer.
func (f DoerFunc) Do(req *http.Request) (*http.Response, error) {
	return f(req)
}

// BeforeRequestHook is invoked with the fully built request before it is
// dispatched. It may inspect or mutate the request. Returning false vetoes
// the request: Send fails with KindCanceled and no network call is made.
type BeforeRequestHook func(ctx context.Context, req *http.Request) bool

// AfterResponseHook is invoked with the parsed response of a successful
// request. A non-nil returned response replaces the result; a nil one keeps
// it. A returned error sends the call down the error path.
type AfterResponseHook func(ctx context.Context, resp *Response) (*Response, error)

// ErrorHook gets first refusal on every failure, after normalization.
// Returning true marks the error as handled: Send suppresses it and
// returns a nil response with a nil error.
type ErrorHook func(ctx context.Context, err *Error) bool
