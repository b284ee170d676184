package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestGet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			w.Write([]byte("payload"))
		case "/teapot":
			w.WriteHeader(http.StatusTeapot)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := NewClient()

	body, err := client.Get(context.Background(), server.URL+"/ok")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(body) != "payload" {
		t.Errorf("Get() body = %q, want %q", body, "payload")
	}

	for _, path := range []string{"/missing", "/teapot"} {
		_, err = client.Get(context.Background(), server.URL+path)
		if !errors.Is(err, ErrHTTPStatus) {
			t.Errorf("Get(%s) error = %v, want ErrHTTPStatus", path, err)
		}
	}
}

func TestGetSendsUserAgent(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
	}))
	defer server.Close()

	client := NewClient()
	if _, err := client.Get(context.Background(), server.URL); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if gotUA != DefaultConfig().UserAgent {
		t.Errorf("User-Agent = %q, want %q", gotUA, DefaultConfig().UserAgent)
	}
}

func TestGetTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer server.Close()

	client := NewClientWithConfig(Config{Timeout: 30 * time.Millisecond, UserAgent: "test"})

	_, err := client.Get(context.Background(), server.URL)
	if !errors.Is(err, ErrRequestTimeout) {
		t.Errorf("Get() error = %v, want ErrRequestTimeout", err)
	}
}

func TestHead(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/15.x/x86_64/release/distribution_files/rootfs64.gz" {
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := NewClient()

	if err := client.Head(context.Background(), server.URL+"/15.x/x86_64/release/distribution_files/rootfs64.gz"); err != nil {
		t.Errorf("Head() on existing path error = %v", err)
	}
	if err := client.Head(context.Background(), server.URL+"/16.x/x86_64/release/distribution_files/rootfs64.gz"); !errors.Is(err, ErrHTTPStatus) {
		t.Errorf("Head() on missing path error = %v, want ErrHTTPStatus", err)
	}
}

func TestFetchAny(t *testing.T) {
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/latest-x86_64" {
			w.Write([]byte("15.0\n"))
			return
		}
		http.NotFound(w, r)
	}))
	defer good.Close()

	// A closed server stands in for an unreachable mirror.
	dead := httptest.NewServer(http.NotFoundHandler())
	dead.Close()

	client := NewClient()

	t.Run("second mirror serves after first fails", func(t *testing.T) {
		body, mirror, err := client.FetchAny(context.Background(), []string{dead.URL, good.URL}, "latest-x86_64")
		if err != nil {
			t.Fatalf("FetchAny() error = %v", err)
		}
		if string(body) != "15.0\n" {
			t.Errorf("FetchAny() body = %q, want %q", body, "15.0\n")
		}
		if mirror != good.URL {
			t.Errorf("FetchAny() mirror = %q, want %q", mirror, good.URL)
		}
	})

	t.Run("all mirrors failing is an error", func(t *testing.T) {
		_, _, err := client.FetchAny(context.Background(), []string{dead.URL, good.URL}, "no-such-file")
		if !errors.Is(err, ErrAllMirrorsFailed) {
			t.Errorf("FetchAny() error = %v, want ErrAllMirrorsFailed", err)
		}
	})

	t.Run("empty mirror list is an error", func(t *testing.T) {
		_, _, err := client.FetchAny(context.Background(), nil, "latest-x86_64")
		if !errors.Is(err, ErrAllMirrorsFailed) {
			t.Errorf("FetchAny() error = %v, want ErrAllMirrorsFailed", err)
		}
	})
}

func TestFinalURL(t *testing.T) {
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/tools/releases/latest/windows", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/hop", http.StatusFound)
	})
	mux.HandleFunc("/hop", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/tools/releases/12.4.5/windows/VMware-tools.exe", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/tools/releases/12.4.5/windows/VMware-tools.exe", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("binary"))
	})

	client := NewClient()

	final, err := client.FinalURL(context.Background(), server.URL+"/tools/releases/latest/windows")
	if err != nil {
		t.Fatalf("FinalURL() error = %v", err)
	}
	if !strings.HasSuffix(final, "/tools/releases/12.4.5/windows/VMware-tools.exe") {
		t.Errorf("FinalURL() = %q, want redirect chain target", final)
	}

	_, err = client.FinalURL(context.Background(), server.URL+"/tools/releases/latest/unknown")
	if !errors.Is(err, ErrHTTPStatus) {
		t.Errorf("FinalURL() on missing path error = %v, want ErrHTTPStatus", err)
	}
}

func TestJoinURL(t *testing.T) {
	tests := []struct {
		base string
		path string
		want string
	}{
		{base: "http://m.example", path: "latest", want: "http://m.example/latest"},
		{base: "http://m.example/", path: "latest", want: "http://m.example/latest"},
		{base: "http://m.example", path: "/latest", want: "http://m.example/latest"},
		{base: "http://m.example/", path: "/a/b", want: "http://m.example/a/b"},
	}

	for _, tt := range tests {
		if got := JoinURL(tt.base, tt.path); got != tt.want {
			t.Errorf("JoinURL(%q, %q) = %q, want %q", tt.base, tt.path, got, tt.want)
		}
	}
}
