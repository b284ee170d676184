package source

import (
	"context"
	"fmt"
	"strings"

	"github.com/isoforge/isopin/internal/vercmp"
)

// LatestTag lists the remote tags of a git repository and returns the newest
// numeric version among tags carrying the given prefix ("v", "stable-", ...).
func (r *Resolver) LatestTag(ctx context.Context, repoURL, prefix string) (string, error) {
	lines, err := r.tags.LsRemoteTags(ctx, repoURL)
	if err != nil {
		return "", err
	}

	candidates := ParseTags(lines, prefix)
	if len(candidates) == 0 {
		return "", fmt.Errorf("%w: no %s* tags in %s", ErrNoVersions, prefix, repoURL)
	}

	return vercmp.Latest(candidates), nil
}

// ParseTags converts raw ls-remote output lines into version candidates.
// Peeled tag entries are dropped, the ref path and the given prefix are
// stripped, and anything left that is not a dotted numeric version is
// discarded.
func ParseTags(lines []string, prefix string) []string {
	var candidates []string
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}

		ref := fields[len(fields)-1]
		if strings.HasSuffix(ref, "^{}") {
			continue
		}
		tag := strings.TrimPrefix(ref, "refs/tags/")
		if prefix != "" {
			if !strings.HasPrefix(tag, prefix) {
				continue
			}
			tag = strings.TrimPrefix(tag, prefix)
		}
		if !vercmp.Numeric(tag) {
			continue
		}
		candidates = append(candidates, tag)
	}
	return candidates
}
