package source

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/isoforge/isopin/internal/common/logger"
)

const (
	sha256HexLength = 64
	md5HexLength    = 32
)

// ManifestDigest fetches a checksum manifest from the first reachable URL
// and returns the SHA-256 digest of the entry whose filename carries the
// given prefix and suffix. When several entries match, the first one wins
// and a warning is logged.
func (r *Resolver) ManifestDigest(ctx context.Context, urls []string, prefix, suffix string) (string, error) {
	var manifest []byte
	var fetchErr error
	for _, url := range urls {
		if url == "" {
			continue
		}
		data, err := r.client.Get(ctx, url)
		if err != nil {
			fetchErr = err
			continue
		}
		manifest = data
		fetchErr = nil
		break
	}
	if manifest == nil {
		if fetchErr != nil {
			return "", fetchErr
		}
		return "", fmt.Errorf("%w: no manifest URL configured", ErrChecksumNotFound)
	}

	digests := ExtractDigests(manifest, prefix, suffix)
	if len(digests) == 0 {
		return "", fmt.Errorf("%w: no entry matching %s*%s", ErrChecksumNotFound, prefix, suffix)
	}
	if len(digests) > 1 {
		logger.Warn("checksum pattern %s*%s matched %d entries, using the first", prefix, suffix, len(digests))
	}

	return digests[0], nil
}

// ExtractDigests parses `<digest> <filename>` manifest lines and returns the
// SHA-256 digests of entries whose base filename starts with prefix and ends
// with suffix. A leading "*" on the filename (binary-mode marker) is ignored.
func ExtractDigests(manifest []byte, prefix, suffix string) []string {
	var digests []string
	for _, line := range strings.Split(string(manifest), "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}

		digest := fields[0]
		name := strings.TrimPrefix(fields[len(fields)-1], "*")
		name = path.Base(name)
		if !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, suffix) {
			continue
		}
		if !isHexDigest(digest, sha256HexLength) {
			continue
		}
		digests = append(digests, digest)
	}
	return digests
}

// RootfsDigest reads the MD5 digest out of a one-line `<digest> <filename>`
// checksum file.
func RootfsDigest(data []byte) (string, error) {
	for _, line := range strings.Split(string(data), "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		digest := fields[0]
		if !isHexDigest(digest, md5HexLength) {
			return "", fmt.Errorf("%w: %q", ErrBadDigest, digest)
		}
		return digest, nil
	}
	return "", fmt.Errorf("%w: empty checksum file", ErrBadDigest)
}

func isHexDigest(s string, length int) bool {
	if len(s) != length {
		return false
	}
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
