package fetchkit

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// Response is the result of an HTTP request.
type Response struct {
	// StatusCode is the HTTP status code.
	StatusCode int
	// Status is the HTTP status text.
	Status string
	// Headers are the response headers, flattened to single values.
	Headers map[string]string
	// Body is the raw response body.
	Body []byte
	// Data is the body parsed according to the effective ResponseType.
	// It is nil for 204 responses and for empty bodies.
	Data any
}

// IsSuccess returns true if the status code is 2xx.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// IsError returns true if the status code is 4xx or 5xx.
func (r *Response) IsError() bool {
	return r.StatusCode >= 400
}

// Header returns the value of the named response header.
func (r *Response) Header(key string) string {
	return r.Headers[http.CanonicalHeaderKey(key)]
}

// JSON unmarshals the raw body into v.
func (r *Response) JSON(v any) error {
	return json.Unmarshal(r.Body, v)
}

// Text returns the raw body as a string.
func (r *Response) Text() string {
	return string(r.Body)
}

// parseBody materializes Data from the raw body per the response type.
// Unknown response types leave Data nil and the raw body untouched, the
// same way the original pipeline passes the raw response through.
func (r *Response) parseBody(responseType string) error {
	if len(r.Body) == 0 {
		return nil
	}
	switch responseType {
	case ResponseTypeJSON:
		var data any
		if err := json.Unmarshal(r.Body, &data); err != nil {
			return fmt.Errorf("parse json response: %w", err)
		}
		r.Data = data
	case ResponseTypeText:
		r.Data = string(r.Body)
	case ResponseTypeBlob:
		r.Data = r.Body
	case ResponseTypeForm:
		values, err := url.ParseQuery(string(r.Body))
		if err != nil {
			return fmt.Errorf("parse form response: %w", err)
		}
		r.Data = values
	}
	return nil
}

// flattenHeaders converts multi-value headers to single-value.
func flattenHeaders(h http.Header) map[string]string {
	result := make(map[string]string, len(h))
	for k, v := range h {
		if len(v) > 0 {
			result[k] = v[0]
		}
	}
	return result
}
