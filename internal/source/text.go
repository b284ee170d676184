package source

import (
	"context"
	"fmt"
	"strings"
)

// LatestText fetches a plain-text version file from the first responsive
// mirror and returns its trimmed contents along with the mirror that served
// it.
func (r *Resolver) LatestText(ctx context.Context, mirrors []string, path string) (string, string, error) {
	data, mirror, err := r.client.FetchAny(ctx, mirrors, path)
	if err != nil {
		return "", "", err
	}

	version := strings.TrimSpace(string(data))
	if version == "" {
		return "", "", fmt.Errorf("%w: %s is empty", ErrNoVersions, path)
	}

	// Some mirrors wrap the version in a trailing newline plus noise; keep
	// only the first line.
	if idx := strings.IndexByte(version, '\n'); idx >= 0 {
		version = strings.TrimSpace(version[:idx])
	}

	return version, mirror, nil
}
