package gitver

import "context"

// TagLister lists the tag refs of a remote repository.
// This interface allows for mocking git operations in tests.
type TagLister interface {
	// LsRemoteTags returns the raw "<sha>\t<ref>" tag lines for a repository URL
	LsRemoteTags(ctx context.Context, repoURL string) ([]string, error)
}
