package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/isoforge/isopin/internal/common/gitver"
	"github.com/isoforge/isopin/internal/fetch"
)

func newTestResolver(server *httptest.Server) *Resolver {
	client := fetch.NewClient()
	if server != nil {
		client.SetHTTPClient(server.Client())
	}
	return NewResolver(client, gitver.NewMockTagLister())
}

const kernelFeedBody = `{
  "releases": [
    {"moniker": "mainline", "version": "6.11-rc4", "iseol": false},
    {"moniker": "stable", "version": "6.10.6", "iseol": false},
    {"moniker": "longterm", "version": "6.6.47", "iseol": false},
    {"moniker": "longterm", "version": "6.1.106", "iseol": false},
    {"moniker": "longterm", "version": "5.15.165", "iseol": false},
    {"moniker": "linux-next", "version": "next-20240820", "iseol": false}
  ]
}`

func TestKernelLongterm(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/releases.json" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(kernelFeedBody))
	}))
	defer server.Close()

	resolver := newTestResolver(server)
	version, err := resolver.KernelLongterm(context.Background(), server.URL+"/releases.json")
	if err != nil {
		t.Fatalf("KernelLongterm() error = %v", err)
	}
	if version != "6.6.47" {
		t.Errorf("KernelLongterm() = %q, want %q", version, "6.6.47")
	}
}

func TestKernelLongtermNoMatches(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"releases": [{"moniker": "mainline", "version": "6.11-rc4"}]}`))
	}))
	defer server.Close()

	resolver := newTestResolver(server)
	_, err := resolver.KernelLongterm(context.Background(), server.URL+"/releases.json")
	if !errors.Is(err, ErrNoVersions) {
		t.Errorf("expected ErrNoVersions, got %v", err)
	}
}

func TestKernelLongtermMalformedFeed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>not json</html>`))
	}))
	defer server.Close()

	resolver := newTestResolver(server)
	_, err := resolver.KernelLongterm(context.Background(), server.URL+"/releases.json")
	if !errors.Is(err, ErrBadFeed) {
		t.Errorf("expected ErrBadFeed, got %v", err)
	}
}

const githubFeedBody = `[
  {"tag_name": "v28.0.0-rc.1", "prerelease": true, "draft": false},
  {"tag_name": "v27.1.2", "prerelease": false, "draft": false},
  {"tag_name": "v27.2.0", "prerelease": false, "draft": true},
  {"tag_name": "v27.1.1", "prerelease": false, "draft": false},
  {"tag_name": "v27.0.3", "prerelease": false, "draft": false}
]`

func TestGitHubLatestRelease(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(githubFeedBody))
	}))
	defer server.Close()

	resolver := newTestResolver(server)
	version, err := resolver.GitHubLatestRelease(context.Background(), server.URL+"/releases")
	if err != nil {
		t.Fatalf("GitHubLatestRelease() error = %v", err)
	}
	if version != "27.1.2" {
		t.Errorf("GitHubLatestRelease() = %q, want %q", version, "27.1.2")
	}
}

func TestGitHubLatestReleaseAllFiltered(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"tag_name": "v28.0.0-beta.1", "prerelease": true, "draft": false}]`))
	}))
	defer server.Close()

	resolver := newTestResolver(server)
	_, err := resolver.GitHubLatestRelease(context.Background(), server.URL+"/releases")
	if !errors.Is(err, ErrNoVersions) {
		t.Errorf("expected ErrNoVersions, got %v", err)
	}
}

func TestGitHubLatestReleaseFetchError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusForbidden)
	}))
	defer server.Close()

	resolver := newTestResolver(server)
	_, err := resolver.GitHubLatestRelease(context.Background(), server.URL+"/releases")
	if !errors.Is(err, fetch.ErrHTTPStatus) {
		t.Errorf("expected ErrHTTPStatus, got %v", err)
	}
}
