package fetchkit

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	defaultTimeout = 30 * time.Second
)

// Response types supported by the client. They name the parsing strategy
// applied to successful response bodies.
const (
	ResponseTypeJSON = "json"
	ResponseTypeText = "text"
	ResponseTypeBlob = "blob"
	ResponseTypeForm = "formData"
)

// Full media types produced by the content-type aliases.
const (
	MediaTypeJSON      = "application/json"
	MediaTypeForm      = "application/x-www-form-urlencoded;charset=UTF-8"
	MediaTypeMultipart = "multipart/form-data"
)

// Config configures the request client.
type Config struct {
	// Method is the default HTTP method. Defaults to GET.
	Method string `yaml:"method" mapstructure:"method" validate:"omitempty,oneof=GET POST HEAD DELETE OPTIONS PUT PATCH"`

	// BaseURL is prepended to every request URL.
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`

	// Timeout is the default request timeout applied to the built-in
	// transport. Ignored when a custom Doer is injected. Defaults to 30s.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// Headers are default headers applied to all requests. Keys are
	// case-folded to lower-case on storage and lookup.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`

	// HeaderFunc computes dynamic headers once per send. Its result is
	// merged over Headers, dynamic values winning on conflict.
	HeaderFunc func() map[string]string `yaml:"-" mapstructure:"-"`

	// ResponseType selects body parsing: json, text, blob or formData.
	// Defaults to json.
	ResponseType string `yaml:"response_type" mapstructure:"response_type" validate:"omitempty,oneof=json text blob formData"`

	// Auth configures default authentication applied to all requests.
	// Individual calls can override this.
	Auth *AuthConfig `yaml:"-" mapstructure:"-"`

	// RequestID enables per-request X-Request-Id header injection.
	RequestID bool `yaml:"request_id" mapstructure:"request_id"`

	// BeforeRequest is invoked with the built request before dispatch.
	// Returning false cancels the request without a network call.
	BeforeRequest BeforeRequestHook `yaml:"-" mapstructure:"-"`

	// AfterResponse transforms the parsed response before it is returned.
	AfterResponse AfterResponseHook `yaml:"-" mapstructure:"-"`

	// ErrorHandle gets first refusal on every failure. Returning true
	// suppresses the error.
	ErrorHandle ErrorHook `yaml:"-" mapstructure:"-"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Method == "" {
		c.Method = "GET"
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.ResponseType == "" {
		c.ResponseType = ResponseTypeJSON
	}
	c.Headers = normalizeHeaders(c.Headers)
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if err := getValidator().Struct(c); err != nil {
		return fmt.Errorf("fetchkit: invalid config: %w", err)
	}
	if c.Auth != nil {
		if err := c.Auth.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ContentTypeFor maps a shorthand alias to a full media type. Unknown
// aliases are used verbatim.
func ContentTypeFor(alias string) string {
	switch alias {
	case "json":
		return MediaTypeJSON
	case "form", "urlencoded":
		return MediaTypeForm
	case "multipart":
		return MediaTypeMultipart
	default:
		return alias
	}
}

// normalizeHeaders returns a copy of h with all keys lower-cased.
// The returned map is never nil.
func normalizeHeaders(h map[string]string) map[string]string {
	result := make(map[string]string, len(h))
	for k, v := range h {
		result[strings.ToLower(k)] = v
	}
	return result
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// getValidator returns the singleton validator instance.
func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}
