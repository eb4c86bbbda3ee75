package fetchkit

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

type user struct {
	Name string `json:"name"`
}

func TestTyped_Get(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/123" {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(user{Name: "Alice"})
	}))
	defer srv.Close()

	c := newTestClient(t, Config{BaseURL: srv.URL})
	resp, err := Get[user](c, context.Background(), "/users/123", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Data.Name != "Alice" {
		t.Errorf("name = %q, want Alice", resp.Data.Name)
	}
	if resp.StatusCode != 200 {
		t.Errorf("status = %d", resp.StatusCode)
	}
}

func TestTyped_Post(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var in user
		json.NewDecoder(r.Body).Decode(&in)
		w.WriteHeader(201)
		json.NewEncoder(w).Encode(in)
	}))
	defer srv.Close()

	c := newTestClient(t, Config{BaseURL: srv.URL})
	resp, err := Post[user](c, context.Background(), "/users", user{Name: "Bob"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != 201 || resp.Data.Name != "Bob" {
		t.Errorf("resp = %+v", resp)
	}
}

func TestTyped_ErrorPayloadDecoded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(422)
		w.Write([]byte(`{"name":"invalid"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, Config{BaseURL: srv.URL})
	resp, err := Get[user](c, context.Background(), "/users/0", nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if code, ok := IsStatus(err); !ok || code != 422 {
		t.Errorf("expected 422 status error, got %v", err)
	}
	if resp == nil || resp.Data.Name != "invalid" {
		t.Errorf("error payload not decoded: %+v", resp)
	}
}

func TestTyped_Delete_EmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("method = %q", r.Method)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := newTestClient(t, Config{BaseURL: srv.URL})
	resp, err := Delete[user](c, context.Background(), "/users/123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("status = %d", resp.StatusCode)
	}
	if resp.Data.Name != "" {
		t.Errorf("expected zero value, got %+v", resp.Data)
	}
}
