package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
)

var releasePathPattern = regexp.MustCompile(`/releases/([0-9][0-9.]*)/`)

func TestRedirectToken(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/tools/releases/latest/windows", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/tools/releases/12.4.5/windows/", http.StatusFound)
	})
	mux.HandleFunc("/tools/releases/12.4.5/windows/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("index"))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	resolver := newTestResolver(server)
	token, err := resolver.RedirectToken(context.Background(), server.URL+"/tools/releases/latest/windows", releasePathPattern)
	if err != nil {
		t.Fatalf("RedirectToken() error = %v", err)
	}
	if token != "12.4.5" {
		t.Errorf("RedirectToken() = %q, want %q", token, "12.4.5")
	}
}

func TestRedirectTokenNoMatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("no redirect here"))
	}))
	defer server.Close()

	resolver := newTestResolver(server)
	_, err := resolver.RedirectToken(context.Background(), server.URL+"/tools/latest", releasePathPattern)
	if !errors.Is(err, ErrNoToken) {
		t.Errorf("expected ErrNoToken, got %v", err)
	}
}

func TestRedirectTokenFetchError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	resolver := newTestResolver(server)
	_, err := resolver.RedirectToken(context.Background(), server.URL+"/tools/latest", releasePathPattern)
	if err == nil {
		t.Fatal("expected error for unreachable redirect start")
	}
}
