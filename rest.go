package fetchkit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// TypedResponse wraps a response with a JSON-decoded body of type T.
// The typed calls always fetch the raw body and decode it as JSON
// themselves; a response type passed via call options is ignored.
type TypedResponse[T any] struct {
	// StatusCode is the HTTP status code.
	StatusCode int
	// Headers are the response headers.
	Headers map[string]string
	// Data is the decoded response body.
	Data T
}

// Get performs a GET request and decodes the JSON response into type T.
// Any WithResponseType option is overridden: the typed layer always
// decodes the raw body itself.
func Get[T any](c *Client, ctx context.Context, url string, data any, opts ...CallOption) (*TypedResponse[T], error) {
	return doTyped[T](c, ctx, http.MethodGet, url, data, opts...)
}

// Post performs a POST request and decodes the JSON response into type T.
// Any WithResponseType option is overridden: the typed layer always
// decodes the raw body itself.
func Post[T any](c *Client, ctx context.Context, url string, data any, opts ...CallOption) (*TypedResponse[T], error) {
	return doTyped[T](c, ctx, http.MethodPost, url, data, opts...)
}

// Put performs a PUT request and decodes the JSON response into type T.
func Put[T any](c *Client, ctx context.Context, url string, data any, opts ...CallOption) (*TypedResponse[T], error) {
	return doTyped[T](c, ctx, http.MethodPut, url, data, opts...)
}

// Patch performs a PATCH request and decodes the JSON response into type T.
func Patch[T any](c *Client, ctx context.Context, url string, data any, opts ...CallOption) (*TypedResponse[T], error) {
	return doTyped[T](c, ctx, http.MethodPatch, url, data, opts...)
}

// Delete performs a DELETE request and decodes the JSON response into type T.
func Delete[T any](c *Client, ctx context.Context, url string, opts ...CallOption) (*TypedResponse[T], error) {
	return doTyped[T](c, ctx, http.MethodDelete, url, nil, opts...)
}

// doTyped executes a typed request and decodes the JSON response body.
func doTyped[T any](c *Client, ctx context.Context, method, url string, data any, opts ...CallOption) (*TypedResponse[T], error) {
	opts = append(opts, WithResponseType(ResponseTypeBlob))
	resp, err := c.call(ctx, method, url, data, opts)
	if err != nil {
		// Failed HTTP responses often carry a decodable error payload.
		reqErr := Normalize(err)
		if reqErr.Response != nil && len(reqErr.Response.Body) > 0 {
			var decoded T
			if jsonErr := json.Unmarshal(reqErr.Response.Body, &decoded); jsonErr == nil {
				return &TypedResponse[T]{
					StatusCode: reqErr.Response.StatusCode,
					Headers:    reqErr.Response.Headers,
					Data:       decoded,
				}, reqErr
			}
		}
		return nil, reqErr
	}
	if resp == nil {
		// Suppressed by the error hook.
		return nil, nil
	}

	var decoded T
	if len(resp.Body) > 0 {
		if err := json.Unmarshal(resp.Body, &decoded); err != nil {
			return nil, fmt.Errorf("fetchkit: decode response: %w", err)
		}
	}

	return &TypedResponse[T]{
		StatusCode: resp.StatusCode,
		Headers:    resp.Headers,
		Data:       decoded,
	}, nil
}
