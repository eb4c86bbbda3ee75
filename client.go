package fetchkit

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/fetchkit/logger"
)

// Client is a configurable HTTP request client. It layers method shortcuts,
// header normalization, content-type-aware body encoding, lifecycle hooks
// and response parsing over an injectable transport.
//
// The configuration is instance-scoped and mutable through the chained
// setters; concurrent sends racing a reconfiguration are a caller hazard.
type Client struct {
	config Config
	doer   Doer
	log    *logger.Logger
}

// New creates a new request client.
func New(cfg Config, opts ...Option) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()

	c := &Client{
		config: cfg,
		doer: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
		log: logger.Nop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Configure applies options to an existing client and returns it.
func (c *Client) Configure(opts ...Option) *Client {
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Prefix sets the URL prefix prepended to every request URL. Empty values
// are ignored.
func (c *Client) Prefix(prefix string) *Client {
	if prefix != "" {
		c.config.BaseURL = prefix
	}
	return c
}

// Header sets a single default header. The key is lower-cased.
func (c *Client) Header(key, value string) *Client {
	if c.config.Headers == nil {
		c.config.Headers = make(map[string]string)
	}
	c.config.Headers[strings.ToLower(key)] = value
	return c
}

// Headers merges default headers. Keys are lower-cased.
func (c *Client) Headers(headers map[string]string) *Client {
	if c.config.Headers == nil {
		c.config.Headers = make(map[string]string, len(headers))
	}
	for k, v := range headers {
		c.config.Headers[strings.ToLower(k)] = v
	}
	return c
}

// HeaderFunc registers a function computing dynamic headers once per send,
// merged over the static headers. Nil values are ignored.
func (c *Client) HeaderFunc(fn func() map[string]string) *Client {
	if fn != nil {
		c.config.HeaderFunc = fn
	}
	return c
}

// ContentType sets the default content-type header. Accepts the aliases
// json, form, urlencoded and multipart, or a literal media type.
func (c *Client) ContentType(alias string) *Client {
	return c.Header("content-type", ContentTypeFor(alias))
}

// ResponseType sets the default response parsing strategy.
func (c *Client) ResponseType(responseType string) *Client {
	if responseType != "" {
		c.config.ResponseType = responseType
	}
	return c
}

// BeforeRequest registers the pre-dispatch hook. Nil values are ignored.
func (c *Client) BeforeRequest(hook BeforeRequestHook) *Client {
	if hook != nil {
		c.config.BeforeRequest = hook
	}
	return c
}

// AfterResponse registers the response transform hook. Nil values are ignored.
func (c *Client) AfterResponse(hook AfterResponseHook) *Client {
	if hook != nil {
		c.config.AfterResponse = hook
	}
	return c
}

// ErrorHandle registers the error hook. Nil values are ignored.
func (c *Client) ErrorHandle(hook ErrorHook) *Client {
	if hook != nil {
		c.config.ErrorHandle = hook
	}
	return c
}

// Get sends a GET request. Non-nil data is percent-encoded into the URL
// querystring; GET requests never carry a body.
func (c *Client) Get(ctx context.Context, url string, data any, opts ...CallOption) (*Response, error) {
	return c.call(ctx, http.MethodGet, url, data, opts)
}

// Post sends a POST request.
func (c *Client) Post(ctx context.Context, url string, data any, opts ...CallOption) (*Response, error) {
	return c.call(ctx, http.MethodPost, url, data, opts)
}

// Head sends a HEAD request.
func (c *Client) Head(ctx context.Context, url string, data any, opts ...CallOption) (*Response, error) {
	return c.call(ctx, http.MethodHead, url, data, opts)
}

// Delete sends a DELETE request.
func (c *Client) Delete(ctx context.Context, url string, data any, opts ...CallOption) (*Response, error) {
	return c.call(ctx, http.MethodDelete, url, data, opts)
}

// Options sends an OPTIONS request.
func (c *Client) Options(ctx context.Context, url string, data any, opts ...CallOption) (*Response, error) {
	return c.call(ctx, http.MethodOptions, url, data, opts)
}

// Put sends a PUT request.
func (c *Client) Put(ctx context.Context, url string, data any, opts ...CallOption) (*Response, error) {
	return c.call(ctx, http.MethodPut, url, data, opts)
}

// Patch sends a PATCH request.
func (c *Client) Patch(ctx context.Context, url string, data any, opts ...CallOption) (*Response, error) {
	return c.call(ctx, http.MethodPatch, url, data, opts)
}

// GetForm sends a GET request with the form-urlencoded content type.
func (c *Client) GetForm(ctx context.Context, url string, data any, opts ...CallOption) (*Response, error) {
	return c.call(ctx, http.MethodGet, url, data, append(opts, WithContentType("form")))
}

// PostForm sends a POST request with the form-urlencoded content type.
func (c *Client) PostForm(ctx context.Context, url string, data any, opts ...CallOption) (*Response, error) {
	return c.call(ctx, http.MethodPost, url, data, append(opts, WithContentType("form")))
}

// call forwards a method shortcut to Send with the method fixed and the
// data folded into the call options. The fixed method wins over overrides.
func (c *Client) call(ctx context.Context, method, url string, data any, opts []CallOption) (*Response, error) {
	opts = append(opts, WithMethod(method))
	if data != nil {
		opts = append(opts, WithData(data))
	}
	return c.Send(ctx, url, opts...)
}

// Send executes the request pipeline: merge options, resolve headers,
// encode the body, run the hooks, dispatch, and post-process the response.
func (c *Client) Send(ctx context.Context, rawURL string, opts ...CallOption) (*Response, error) {
	start := time.Now()

	co := callOptions{
		method:       c.config.Method,
		responseType: c.config.ResponseType,
		auth:         c.config.Auth,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&co)
		}
	}

	resp, err := c.send(ctx, rawURL, &co)
	elapsed := time.Since(start)

	statusCode := 0
	if resp != nil {
		statusCode = resp.StatusCode
	}
	recordRequest(ctx, co.method, statusCode, elapsed, err)

	if err != nil {
		reqErr := Normalize(err)
		c.log.WithError(reqErr).Error("request failed", map[string]any{
			"method": co.method,
			"url":    rawURL,
		})
		if c.config.ErrorHandle != nil && c.config.ErrorHandle(ctx, reqErr) {
			return nil, nil
		}
		return resp, reqErr
	}

	c.log.Debug("request completed", map[string]any{
		"method":      co.method,
		"url":         rawURL,
		"status":      statusCode,
		"duration_ms": elapsed.Milliseconds(),
	})
	return resp, nil
}

// send runs one request without the error hook and metrics wrapping.
func (c *Client) send(ctx context.Context, rawURL string, co *callOptions) (*Response, error) {
	if rawURL == "" {
		return nil, NewInvalidURLError(rawURL)
	}
	fullURL := c.resolveURL(rawURL)
	if _, err := url.ParseRequestURI(fullURL); err != nil {
		return nil, &Error{
			Kind:    KindInvalidURL,
			Message: fmt.Sprintf("invalid request URL %q", rawURL),
			Err:     err,
		}
	}

	headers := c.resolveHeaders(co)
	contentType := headers["content-type"]

	var body io.Reader
	if co.data != nil {
		if co.method == http.MethodGet {
			// GET never carries a body: the payload becomes querystring.
			values, err := queryValues(co.data)
			if err != nil {
				return nil, fmt.Errorf("encode query data: %w", err)
			}
			fullURL = appendQuery(fullURL, values.Encode())
		} else {
			encoded, effectiveType, err := encodeBody(co.data, contentType)
			if err != nil {
				return nil, err
			}
			body = encoded
			if effectiveType != "" && effectiveType != contentType {
				headers["content-type"] = effectiveType
			}
		}
	}

	req, err := http.NewRequestWithContext(ctx, co.method, fullURL, body)
	if err != nil {
		return nil, &Error{
			Kind:    KindInvalidURL,
			Message: fmt.Sprintf("build request for %q", rawURL),
			Err:     err,
		}
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}
	if c.config.RequestID && req.Header.Get("X-Request-Id") == "" {
		req.Header.Set("X-Request-Id", uuid.NewString())
	}
	if err := co.auth.apply(req); err != nil {
		return nil, err
	}

	if hook := c.config.BeforeRequest; hook != nil && !hook(ctx, req) {
		return nil, NewCanceledError(rawURL)
	}

	spanCtx, span := startSpan(ctx, co.method, fullURL)
	req = req.WithContext(spanCtx)
	injectHeaders(spanCtx, req)

	httpResp, err := c.doer.Do(req)
	if err != nil {
		finishSpan(span, 0, err)
		return nil, err
	}

	bodyBytes, err := io.ReadAll(httpResp.Body)
	_ = httpResp.Body.Close()
	if err != nil {
		finishSpan(span, httpResp.StatusCode, err)
		return nil, fmt.Errorf("read response body: %w", err)
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Status:     httpResp.Status,
		Headers:    flattenHeaders(httpResp.Header),
		Body:       bodyBytes,
	}

	if !resp.IsSuccess() {
		statusErr := NewStatusError(resp)
		finishSpan(span, resp.StatusCode, statusErr)
		return resp, statusErr
	}
	finishSpan(span, resp.StatusCode, nil)

	// 204 resolves to a nil result; the after hook still observes it.
	if resp.StatusCode != http.StatusNoContent {
		if err := resp.parseBody(co.responseType); err != nil {
			return resp, err
		}
	}

	if hook := c.config.AfterResponse; hook != nil {
		transformed, err := hook(ctx, resp)
		if err != nil {
			return resp, err
		}
		if transformed != nil {
			resp = transformed
		}
	}

	return resp, nil
}

// resolveURL joins the configured prefix with the request URL. Absolute
// URLs bypass the prefix.
func (c *Client) resolveURL(rawURL string) string {
	if c.config.BaseURL == "" ||
		strings.HasPrefix(rawURL, "http://") || strings.HasPrefix(rawURL, "https://") {
		return rawURL
	}
	return strings.TrimRight(c.config.BaseURL, "/") + "/" + strings.TrimLeft(rawURL, "/")
}

// resolveHeaders computes the effective headers for one send: static
// defaults, then the dynamic header function, then call-level overrides.
// All keys are lower-case.
func (c *Client) resolveHeaders(co *callOptions) map[string]string {
	headers := make(map[string]string, len(c.config.Headers))
	for k, v := range c.config.Headers {
		headers[k] = v
	}
	if fn := c.config.HeaderFunc; fn != nil {
		for k, v := range fn() {
			headers[strings.ToLower(k)] = v
		}
	}
	for k, v := range co.headers {
		headers[k] = v
	}
	if co.contentType != "" {
		headers["content-type"] = co.contentType
	}
	return headers
}
