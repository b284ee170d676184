// Package source implements the per-dependency version resolution
// strategies: plain-text latest files, structured release feeds, HTML
// directory listings, git tag listings, redirect-chain probes, and the
// checksum manifests that ride along with them. Each strategy consumes the
// fetch client and produces one candidate version string, or fails.
package source

import (
	"errors"

	"github.com/isoforge/isopin/internal/common/gitver"
	"github.com/isoforge/isopin/internal/fetch"
)

// Kind selects the resolution strategy for a tracked dependency.
type Kind string

const (
	// KindLatestText fetches a plain-text latest-version file over mirrors
	KindLatestText Kind = "latest-text"
	// KindKernelFeed queries the kernel.org releases feed for the newest longterm line
	KindKernelFeed Kind = "kernel-feed"
	// KindGitHubReleases queries a GitHub releases feed for the newest stable release
	KindGitHubReleases Kind = "github-releases"
	// KindListing scrapes version directories out of an HTML index page
	KindListing Kind = "listing"
	// KindTags lists remote git tags and picks the newest numeric one
	KindTags Kind = "tags"
	// KindRedirect follows a redirect chain and reads the version from the target path
	KindRedirect Kind = "redirect"
)

// Error variables for resolution failures
var (
	// ErrNoVersions is returned when a source yields no usable version candidate
	ErrNoVersions = errors.New("no version candidates found")
	// ErrBadFeed is returned when a release feed cannot be decoded
	ErrBadFeed = errors.New("malformed release feed")
	// ErrNoToken is returned when a redirect target carries no version token
	ErrNoToken = errors.New("no version token in redirect target")
	// ErrChecksumNotFound is returned when no manifest entry matches the
	// expected filename pattern
	ErrChecksumNotFound = errors.New("checksum entry not found")
	// ErrBadDigest is returned when a checksum entry is not a well-formed hex digest
	ErrBadDigest = errors.New("malformed checksum digest")
)

// Resolver runs the resolution strategies. It holds the fetch client all
// HTTP-backed strategies share and the tag lister backing the git strategy.
type Resolver struct {
	client *fetch.Client
	tags   gitver.TagLister
}

// NewResolver creates a resolver on top of the given fetch client and tag lister.
func NewResolver(client *fetch.Client, tags gitver.TagLister) *Resolver {
	return &Resolver{
		client: client,
		tags:   tags,
	}
}
