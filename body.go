package fetchkit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"reflect"
	"strings"

	"github.com/google/go-querystring/query"
)

// encodeBody converts the request payload into an io.Reader by content type.
// It returns the reader and the effective content type, which may differ
// from the declared one (multipart boundaries, inferred JSON).
func encodeBody(data any, contentType string) (io.Reader, string, error) {
	if data == nil {
		return nil, contentType, nil
	}

	switch {
	case strings.Contains(contentType, "multipart/form-data"):
		return encodeMultipart(data)

	case strings.Contains(contentType, "application/json"):
		// Pre-serialized payloads pass through unchanged.
		switch v := data.(type) {
		case io.Reader:
			return v, contentType, nil
		case []byte:
			return bytes.NewReader(v), contentType, nil
		case string:
			return strings.NewReader(v), contentType, nil
		}
		encoded, err := json.Marshal(data)
		if err != nil {
			return nil, "", fmt.Errorf("encode json body: %w", err)
		}
		return bytes.NewReader(encoded), contentType, nil

	case strings.Contains(contentType, "application/x-www-form-urlencoded"):
		values, err := queryValues(data)
		if err != nil {
			return nil, "", fmt.Errorf("encode form body: %w", err)
		}
		return strings.NewReader(values.Encode()), contentType, nil

	default:
		// No recognized content type: raw payloads pass through, anything
		// else is JSON-encoded the way the transport layer defaults to.
		switch v := data.(type) {
		case io.Reader:
			return v, contentType, nil
		case []byte:
			return bytes.NewReader(v), contentType, nil
		case string:
			return strings.NewReader(v), contentType, nil
		}
		encoded, err := json.Marshal(data)
		if err != nil {
			return nil, "", fmt.Errorf("encode json body: %w", err)
		}
		if contentType == "" {
			contentType = MediaTypeJSON
		}
		return bytes.NewReader(encoded), contentType, nil
	}
}

// encodeMultipart builds a multipart/form-data body. A *MultipartBody
// passes through to its own encoder; maps and structs are appended as
// plain fields.
func encodeMultipart(data any) (io.Reader, string, error) {
	switch v := data.(type) {
	case *MultipartBody:
		return v.encode()
	case MultipartBody:
		return v.encode()
	case map[string]string:
		return (&MultipartBody{Fields: v}).encode()
	case map[string]any:
		fields := make(map[string]string, len(v))
		for k, val := range v {
			fields[k] = fmt.Sprint(val)
		}
		return (&MultipartBody{Fields: fields}).encode()
	default:
		values, err := queryValues(data)
		if err != nil {
			return nil, "", fmt.Errorf("unsupported multipart payload type %T", data)
		}
		fields := make(map[string]string, len(values))
		for k := range values {
			fields[k] = values.Get(k)
		}
		return (&MultipartBody{Fields: fields}).encode()
	}
}

// queryValues converts a payload into url.Values for form bodies and
// GET-with-data querystrings. Maps of any key and value type are flattened
// with fmt.Sprint; structs are encoded via their url tags.
func queryValues(data any) (url.Values, error) {
	switch v := data.(type) {
	case url.Values:
		return v, nil
	case map[string]string:
		values := make(url.Values, len(v))
		for k, val := range v {
			values.Set(k, val)
		}
		return values, nil
	case map[string]any:
		values := make(url.Values, len(v))
		for k, val := range v {
			values.Set(k, fmt.Sprint(val))
		}
		return values, nil
	case string:
		return url.ParseQuery(v)
	}

	rv := reflect.ValueOf(data)
	for rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	if rv.Kind() == reflect.Map {
		values := make(url.Values, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			values.Set(fmt.Sprint(iter.Key().Interface()), fmt.Sprint(iter.Value().Interface()))
		}
		return values, nil
	}
	return query.Values(data)
}

// appendQuery attaches an encoded querystring to a URL, using & when the
// URL already carries a query.
func appendQuery(rawURL, encoded string) string {
	if encoded == "" {
		return rawURL
	}
	if strings.Contains(rawURL, "?") {
		return rawURL + "&" + encoded
	}
	return rawURL + "?" + encoded
}
