package fetchkit

import (
	"strings"

	"github.com/kbukum/fetchkit/logger"
)

// Option configures a Client at construction time (or later, via Configure).
type Option func(*Client)

// WithDoer injects the transport used to perform requests. It replaces the
// built-in http.Client, including its timeout.
func WithDoer(d Doer) Option {
	return func(c *Client) {
		if d != nil {
			c.doer = d
		}
	}
}

// WithLogger sets the logger used for request logging.
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// callOptions are the per-call overrides merged over the client config at
// send time. Call-level values win.
type callOptions struct {
	method       string
	data         any
	headers      map[string]string
	contentType  string
	responseType string
	auth         *AuthConfig
}

// CallOption configures a single call to Send or a method shortcut.
type CallOption func(*callOptions)

// WithMethod overrides the HTTP method for this call.
func WithMethod(method string) CallOption {
	return func(o *callOptions) {
		o.method = strings.ToUpper(method)
	}
}

// WithData sets the request payload for this call.
func WithData(data any) CallOption {
	return func(o *callOptions) {
		o.data = data
	}
}

// WithHeader sets a single header for this call. The key is lower-cased.
func WithHeader(key, value string) CallOption {
	return func(o *callOptions) {
		if o.headers == nil {
			o.headers = make(map[string]string)
		}
		o.headers[strings.ToLower(key)] = value
	}
}

// WithHeaders merges headers for this call. Keys are lower-cased.
func WithHeaders(headers map[string]string) CallOption {
	return func(o *callOptions) {
		if o.headers == nil {
			o.headers = make(map[string]string, len(headers))
		}
		for k, v := range headers {
			o.headers[strings.ToLower(k)] = v
		}
	}
}

// WithContentType sets the content-type for this call. Accepts the same
// aliases as Client.ContentType.
func WithContentType(alias string) CallOption {
	return func(o *callOptions) {
		o.contentType = ContentTypeFor(alias)
	}
}

// WithResponseType overrides the response parsing strategy for this call.
func WithResponseType(responseType string) CallOption {
	return func(o *callOptions) {
		o.responseType = responseType
	}
}

// WithAuth overrides authentication for this call.
func WithAuth(auth *AuthConfig) CallOption {
	return func(o *callOptions) {
		o.auth = auth
	}
}
