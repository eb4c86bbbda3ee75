package fetchkit

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthType identifies the authentication method.
type AuthType int

const (
	// AuthNone disables authentication.
	AuthNone AuthType = iota
	// AuthBearer uses a static Bearer token.
	AuthBearer
	// AuthBasic uses HTTP Basic authentication.
	AuthBasic
	// AuthAPIKey sends an API key via header or query parameter.
	AuthAPIKey
	// AuthJWT mints an HS256-signed Bearer token per request.
	AuthJWT
	// AuthCustom applies a caller-supplied request modifier.
	AuthCustom
)

// AuthConfig configures request authentication.
type AuthConfig struct {
	// Type is the authentication method.
	Type AuthType
	// Token is the bearer token (AuthBearer).
	Token string
	// Username and Password are the basic auth credentials (AuthBasic).
	Username string
	Password string
	// Key is the API key value (AuthAPIKey).
	Key string
	// In places the API key: "header" (default) or "query" (AuthAPIKey).
	In string
	// Name is the header or query parameter name (AuthAPIKey).
	// Defaults to "X-API-Key".
	Name string
	// Secret is the HS256 signing key (AuthJWT).
	Secret []byte
	// Claims are merged into every minted token (AuthJWT).
	Claims map[string]any
	// TTL bounds minted token lifetime (AuthJWT). Defaults to 1 minute.
	TTL time.Duration
	// Apply is a custom request modifier (AuthCustom).
	Apply func(*http.Request) error
}

// BearerAuth creates a static bearer token auth config.
func BearerAuth(token string) *AuthConfig {
	return &AuthConfig{Type: AuthBearer, Token: token}
}

// BasicAuth creates a basic auth config.
func BasicAuth(username, password string) *AuthConfig {
	return &AuthConfig{Type: AuthBasic, Username: username, Password: password}
}

// APIKeyAuth creates an API key auth config sent via the X-API-Key header.
func APIKeyAuth(key string) *AuthConfig {
	return &AuthConfig{Type: AuthAPIKey, Key: key, In: "header", Name: "X-API-Key"}
}

// APIKeyAuthHeader creates an API key auth config with a custom header name.
func APIKeyAuthHeader(key, headerName string) *AuthConfig {
	return &AuthConfig{Type: AuthAPIKey, Key: key, In: "header", Name: headerName}
}

// APIKeyAuthQuery creates an API key auth config sent via query parameter.
func APIKeyAuthQuery(key, paramName string) *AuthConfig {
	return &AuthConfig{Type: AuthAPIKey, Key: key, In: "query", Name: paramName}
}

// JWTAuth creates an auth config that signs a short-lived HS256 bearer
// token for every request. Claims are copied into each token alongside
// iat and exp.
func JWTAuth(secret []byte, claims map[string]any) *AuthConfig {
	return &AuthConfig{Type: AuthJWT, Secret: secret, Claims: claims}
}

// CustomAuth creates an auth config with a caller-supplied request modifier.
func CustomAuth(fn func(*http.Request) error) *AuthConfig {
	return &AuthConfig{Type: AuthCustom, Apply: fn}
}

// Validate checks that the configuration is usable for its declared type.
func (a *AuthConfig) Validate() error {
	if a == nil {
		return nil
	}
	switch a.Type {
	case AuthJWT:
		if len(a.Secret) == 0 {
			return fmt.Errorf("fetchkit: jwt auth requires a signing secret")
		}
	case AuthCustom:
		if a.Apply == nil {
			return fmt.Errorf("fetchkit: custom auth requires an Apply function")
		}
	}
	return nil
}

// apply applies authentication to an outgoing request.
func (a *AuthConfig) apply(req *http.Request) error {
	if a == nil {
		return nil
	}
	switch a.Type {
	case AuthBearer:
		req.Header.Set("Authorization", "Bearer "+a.Token)
	case AuthBasic:
		req.SetBasicAuth(a.Username, a.Password)
	case AuthAPIKey:
		name := a.Name
		if name == "" {
			name = "X-API-Key"
		}
		if a.In == "query" {
			q := req.URL.Query()
			q.Set(name, a.Key)
			req.URL.RawQuery = q.Encode()
		} else {
			req.Header.Set(name, a.Key)
		}
	case AuthJWT:
		token, err := a.mintToken()
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	case AuthCustom:
		if a.Apply != nil {
			return a.Apply(req)
		}
	}
	return nil
}

// mintToken signs a fresh HS256 token carrying the configured claims.
func (a *AuthConfig) mintToken() (string, error) {
	ttl := a.TTL
	if ttl <= 0 {
		ttl = time.Minute
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}
	for k, v := range a.Claims {
		claims[k] = v
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.Secret)
	if err != nil {
		return "", fmt.Errorf("fetchkit: sign auth token: %w", err)
	}
	return signed, nil
}
