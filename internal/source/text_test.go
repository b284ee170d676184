package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/isoforge/isopin/internal/fetch"
)

func TestLatestText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/15.x/x86_64/release/latest-x86_64" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("15.0\n"))
	}))
	defer server.Close()

	resolver := newTestResolver(server)
	version, mirror, err := resolver.LatestText(context.Background(), []string{server.URL}, "15.x/x86_64/release/latest-x86_64")
	if err != nil {
		t.Fatalf("LatestText() error = %v", err)
	}
	if version != "15.0" {
		t.Errorf("version = %q, want %q", version, "15.0")
	}
	if mirror != server.URL {
		t.Errorf("mirror = %q, want %q", mirror, server.URL)
	}
}

func TestLatestTextKeepsFirstLine(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("15.0\ngenerated 2024-08-12\n"))
	}))
	defer server.Close()

	resolver := newTestResolver(server)
	version, _, err := resolver.LatestText(context.Background(), []string{server.URL}, "latest")
	if err != nil {
		t.Fatalf("LatestText() error = %v", err)
	}
	if version != "15.0" {
		t.Errorf("version = %q, want %q", version, "15.0")
	}
}

func TestLatestTextEmptyBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("  \n"))
	}))
	defer server.Close()

	resolver := newTestResolver(server)
	_, _, err := resolver.LatestText(context.Background(), []string{server.URL}, "latest")
	if !errors.Is(err, ErrNoVersions) {
		t.Errorf("expected ErrNoVersions, got %v", err)
	}
}

func TestLatestTextMirrorFallback(t *testing.T) {
	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	dead.Close()

	live := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("15.0\n"))
	}))
	defer live.Close()

	resolver := NewResolver(fetch.NewClient(), nil)
	version, mirror, err := resolver.LatestText(context.Background(), []string{dead.URL, live.URL}, "latest")
	if err != nil {
		t.Fatalf("LatestText() error = %v", err)
	}
	if version != "15.0" {
		t.Errorf("version = %q, want %q", version, "15.0")
	}
	if mirror != live.URL {
		t.Errorf("mirror = %q, want %q", mirror, live.URL)
	}
}
