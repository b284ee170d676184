package source

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/isoforge/isopin/internal/vercmp"
)

// kernelFeed mirrors the subset of the kernel.org releases feed we consume.
type kernelFeed struct {
	Releases []kernelRelease `json:"releases"`
}

type kernelRelease struct {
	Version string `json:"version"`
	Moniker string `json:"moniker"`
}

// githubRelease mirrors the subset of the GitHub releases API we consume.
type githubRelease struct {
	TagName    string `json:"tag_name"`
	Prerelease bool   `json:"prerelease"`
	Draft      bool   `json:"draft"`
}

// KernelLongterm queries the kernel.org releases feed and returns the newest
// longterm release version.
func (r *Resolver) KernelLongterm(ctx context.Context, url string) (string, error) {
	data, err := r.client.Get(ctx, url)
	if err != nil {
		return "", err
	}

	var feed kernelFeed
	if err := json.Unmarshal(data, &feed); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrBadFeed, url, err)
	}

	var candidates []string
	for _, release := range feed.Releases {
		if release.Moniker != "longterm" {
			continue
		}
		version := strings.TrimPrefix(release.Version, "v")
		if !vercmp.Numeric(version) {
			continue
		}
		candidates = append(candidates, version)
	}
	if len(candidates) == 0 {
		return "", fmt.Errorf("%w: no longterm releases in %s", ErrNoVersions, url)
	}

	return vercmp.Latest(candidates), nil
}

// GitHubLatestRelease queries a GitHub releases feed and returns the newest
// release that is neither a prerelease nor a draft.
func (r *Resolver) GitHubLatestRelease(ctx context.Context, url string) (string, error) {
	data, err := r.client.Get(ctx, url)
	if err != nil {
		return "", err
	}

	var releases []githubRelease
	if err := json.Unmarshal(data, &releases); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrBadFeed, url, err)
	}

	var candidates []string
	for _, release := range releases {
		if release.Prerelease || release.Draft {
			continue
		}
		version := strings.TrimPrefix(release.TagName, "v")
		if !vercmp.Numeric(version) {
			continue
		}
		candidates = append(candidates, version)
	}
	if len(candidates) == 0 {
		return "", fmt.Errorf("%w: no stable releases in %s", ErrNoVersions, url)
	}

	return vercmp.Latest(candidates), nil
}
