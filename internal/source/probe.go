package source

import (
	"context"

	"github.com/isoforge/isopin/internal/fetch"
)

// Probe checks that a URL still answers. A nil error means the resource is
// where it was; an error means it moved or the host is unreachable.
func (r *Resolver) Probe(ctx context.Context, url string) error {
	return r.client.Head(ctx, url)
}

// PartitionMirrors probes each mirror for the given path and splits the list
// into responsive and unresponsive mirrors, preserving the relative order
// within each group.
func (r *Resolver) PartitionMirrors(ctx context.Context, mirrors []string, path string) (live, dead []string) {
	for _, mirror := range mirrors {
		if err := r.Probe(ctx, fetch.JoinURL(mirror, path)); err != nil {
			dead = append(dead, mirror)
			continue
		}
		live = append(live, mirror)
	}
	return live, dead
}
