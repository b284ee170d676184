package source

import (
	"context"
	"fmt"
	"regexp"
)

// RedirectToken follows the redirect chain starting at url and extracts the
// version token from the final location using the pattern's first capture
// group.
func (r *Resolver) RedirectToken(ctx context.Context, url string, pattern *regexp.Regexp) (string, error) {
	final, err := r.client.FinalURL(ctx, url)
	if err != nil {
		return "", err
	}

	match := pattern.FindStringSubmatch(final)
	if len(match) < 2 || match[1] == "" {
		return "", fmt.Errorf("%w: %s does not match %s", ErrNoToken, final, pattern)
	}

	return match[1], nil
}
