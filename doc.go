// Package fetchkit provides a configurable HTTP request client with method
// shortcuts, header normalization, content-type-aware body encoding,
// lifecycle hooks and response parsing by declared type.
//
// The client wraps an injectable transport (any Doer, *http.Client by
// default) and layers a request pipeline over it: merge per-call options
// over the instance configuration, resolve static and dynamic headers,
// encode the payload by content type, run the BeforeRequest gate, dispatch,
// then status-check, parse and transform the response.
//
// # Basic Usage
//
//	client, err := fetchkit.New(fetchkit.Config{
//	    BaseURL: "https://api.example.com",
//	    Headers: map[string]string{"Accept": "application/json"},
//	})
//
//	resp, err := client.Get(ctx, "/items", map[string]string{"q": "x"})
//
// # Hooks
//
//	client.
//	    BeforeRequest(func(ctx context.Context, req *http.Request) bool {
//	        return req.URL.Path != "/forbidden"
//	    }).
//	    AfterResponse(func(ctx context.Context, resp *fetchkit.Response) (*fetchkit.Response, error) {
//	        return resp, nil
//	    }).
//	    ErrorHandle(func(ctx context.Context, err *fetchkit.Error) bool {
//	        return false
//	    })
//
// # Typed Requests
//
//	user, err := fetchkit.Get[User](client, ctx, "/users/123", nil)
//
// Connection pooling, retries, timeouts beyond the transport default and
// TLS concerns are delegated to the injected Doer.
package fetchkit
