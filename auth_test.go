package fetchkit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
)

func TestAuth_Bearer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("authorization = %q", got)
		}
		w.WriteHeader(200)
	}))
	defer srv.Close()

	c := newTestClient(t, Config{BaseURL: srv.URL, Auth: BearerAuth("tok")})
	if _, err := c.Get(context.Background(), "/", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAuth_Basic(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "alice" || pass != "secret" {
			t.Errorf("basic auth = %q:%q ok=%v", user, pass, ok)
		}
		w.WriteHeader(200)
	}))
	defer srv.Close()

	c := newTestClient(t, Config{BaseURL: srv.URL, Auth: BasicAuth("alice", "secret")})
	if _, err := c.Get(context.Background(), "/", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAuth_APIKey(t *testing.T) {
	t.Run("header", func(t *testing.T) {
		doer := &recordingDoer{}
		c := newTestClient(t, Config{Auth: APIKeyAuth("k1")}, WithDoer(doer))
		if _, err := c.Get(context.Background(), "http://t/x", nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := doer.last.Header.Get("X-API-Key"); got != "k1" {
			t.Errorf("x-api-key = %q", got)
		}
	})

	t.Run("custom_header", func(t *testing.T) {
		doer := &recordingDoer{}
		c := newTestClient(t, Config{Auth: APIKeyAuthHeader("k2", "X-Token")}, WithDoer(doer))
		if _, err := c.Get(context.Background(), "http://t/x", nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := doer.last.Header.Get("X-Token"); got != "k2" {
			t.Errorf("x-token = %q", got)
		}
	})

	t.Run("query", func(t *testing.T) {
		doer := &recordingDoer{}
		c := newTestClient(t, Config{Auth: APIKeyAuthQuery("k3", "token")}, WithDoer(doer))
		if _, err := c.Get(context.Background(), "http://t/x", nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := doer.last.URL.Query().Get("token"); got != "k3" {
			t.Errorf("token param = %q", got)
		}
	})
}

func TestAuth_JWT(t *testing.T) {
	secret := []byte("signing-secret")
	doer := &recordingDoer{}
	c := newTestClient(t, Config{
		Auth: JWTAuth(secret, map[string]any{"sub": "svc-a"}),
	}, WithDoer(doer))

	if _, err := c.Get(context.Background(), "http://t/x", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	authz := doer.last.Header.Get("Authorization")
	if !strings.HasPrefix(authz, "Bearer ") {
		t.Fatalf("authorization = %q", authz)
	}

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(strings.TrimPrefix(authz, "Bearer "), claims, func(tok *jwt.Token) (any, error) {
		return secret, nil
	})
	if err != nil {
		t.Fatalf("parse minted token: %v", err)
	}
	if claims["sub"] != "svc-a" {
		t.Errorf("sub claim = %v", claims["sub"])
	}
	if _, ok := claims["exp"]; !ok {
		t.Error("minted token should expire")
	}
}

func TestAuth_PerCallOverride(t *testing.T) {
	doer := &recordingDoer{}
	c := newTestClient(t, Config{Auth: BearerAuth("default")}, WithDoer(doer))

	_, err := c.Get(context.Background(), "http://t/x", nil, WithAuth(BearerAuth("override")))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := doer.last.Header.Get("Authorization"); got != "Bearer override" {
		t.Errorf("authorization = %q", got)
	}
}

func TestAuth_Custom(t *testing.T) {
	doer := &recordingDoer{}
	c := newTestClient(t, Config{
		Auth: CustomAuth(func(req *http.Request) error {
			req.Header.Set("X-Signature", "sig")
			return nil
		}),
	}, WithDoer(doer))

	if _, err := c.Get(context.Background(), "http://t/x", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := doer.last.Header.Get("X-Signature"); got != "sig" {
		t.Errorf("x-signature = %q", got)
	}
}

func TestAuthConfig_Validate(t *testing.T) {
	if err := (&AuthConfig{Type: AuthJWT}).Validate(); err == nil {
		t.Error("jwt auth without secret should fail validation")
	}
	if err := (&AuthConfig{Type: AuthCustom}).Validate(); err == nil {
		t.Error("custom auth without Apply should fail validation")
	}
	if err := BearerAuth("t").Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
