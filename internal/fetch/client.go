// Package fetch performs bounded single-shot HTTP retrieval for the release
// trackers. There is no retry here: a source that fails is abandoned and the
// caller moves on to the next mirror or fallback location, never back to the
// same host.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Error variables for fetch failures
var (
	// ErrHTTPStatus is returned when a server answers with a non-success status
	ErrHTTPStatus = errors.New("unexpected http status")
	// ErrRequestTimeout is returned when a request exceeds the client timeout
	ErrRequestTimeout = errors.New("request timeout")
	// ErrAllMirrorsFailed is returned when no mirror could serve a path
	ErrAllMirrorsFailed = errors.New("all mirrors failed")
)

// Config holds fetch client settings.
type Config struct {
	// Timeout bounds each individual request so one unreachable host
	// cannot stall a whole run (default: 3s)
	Timeout time.Duration
	// UserAgent identifies the tool to upstream servers
	UserAgent string
}

// DefaultConfig returns the default fetch configuration.
func DefaultConfig() Config {
	return Config{
		Timeout:   3 * time.Second,
		UserAgent: "isopin/1.0",
	}
}

// Client is a thin wrapper around http.Client for read-only GET/HEAD
// fetches of release metadata.
type Client struct {
	client *http.Client
	config Config
}

// NewClient creates a fetch client with the default configuration.
func NewClient() *Client {
	return NewClientWithConfig(DefaultConfig())
}

// NewClientWithConfig creates a fetch client with custom settings.
func NewClientWithConfig(config Config) *Client {
	if config.Timeout <= 0 {
		config.Timeout = DefaultConfig().Timeout
	}
	if config.UserAgent == "" {
		config.UserAgent = DefaultConfig().UserAgent
	}
	return &Client{
		client: &http.Client{
			Timeout: config.Timeout,
		},
		config: config,
	}
}

// SetHTTPClient sets a custom underlying HTTP client (useful for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.client = client
}

// Config returns the current client configuration.
func (c *Client) Config() Config {
	return c.config
}

// Get fetches a URL and returns the response body.
// Any non-2xx status is an error; no informational output is produced.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.config.UserAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, wrapTimeout(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: %s returned %d", ErrHTTPStatus, url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response from %s: %w", url, err)
	}
	return body, nil
}

// GetString fetches a URL and returns the body as a string.
func (c *Client) GetString(ctx context.Context, url string) (string, error) {
	body, err := c.Get(ctx, url)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// Head probes a URL for existence. Success is any status below 400 after
// redirects; the body is never read.
func (c *Client) Head(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", c.config.UserAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return wrapTimeout(err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 400 {
		return fmt.Errorf("%w: %s returned %d", ErrHTTPStatus, url, resp.StatusCode)
	}
	return nil
}

// FetchAny tries path against each mirror in priority order and returns the
// first successful body together with the mirror that served it. It fails
// only when every mirror has failed.
func (c *Client) FetchAny(ctx context.Context, mirrors []string, path string) ([]byte, string, error) {
	var lastErr error
	for _, mirror := range mirrors {
		body, err := c.Get(ctx, JoinURL(mirror, path))
		if err != nil {
			lastErr = err
			continue
		}
		return body, mirror, nil
	}
	if lastErr == nil {
		lastErr = errors.New("empty mirror list")
	}
	return nil, "", fmt.Errorf("%w: %s: %v", ErrAllMirrorsFailed, path, lastErr)
}

// FinalURL issues a GET to url, lets the standard redirect following run,
// and returns the URL of the final response in the chain.
func (c *Client) FinalURL(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", c.config.UserAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", wrapTimeout(err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("%w: %s returned %d", ErrHTTPStatus, url, resp.StatusCode)
	}
	return resp.Request.URL.String(), nil
}

// JoinURL joins a mirror base and a path with exactly one slash between.
func JoinURL(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}

// wrapTimeout tags timeout errors so callers can report a stalled host
// distinctly from a refused one.
func wrapTimeout(err error) error {
	if isTimeoutError(err) {
		return fmt.Errorf("%w: %v", ErrRequestTimeout, err)
	}
	return err
}

// isTimeoutError checks if an error is a timeout error.
func isTimeoutError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	type timeoutError interface {
		Timeout() bool
	}
	var te timeoutError
	if errors.As(err, &te) {
		return te.Timeout()
	}
	return false
}
