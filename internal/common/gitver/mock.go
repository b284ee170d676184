package gitver

import (
	"context"
	"fmt"
)

// MockTagLister implements TagLister for testing.
// Configure Tags per repository URL, or set TagsFunc for full control.
type MockTagLister struct {
	TagsFunc func(repoURL string) ([]string, error)
	Tags     map[string][]string
}

// NewMockTagLister creates a mock tag lister with no tags configured
func NewMockTagLister() *MockTagLister {
	return &MockTagLister{
		Tags: make(map[string][]string),
	}
}

// LsRemoteTags returns the configured tag lines for a repository URL
func (m *MockTagLister) LsRemoteTags(_ context.Context, repoURL string) ([]string, error) {
	if m.TagsFunc != nil {
		return m.TagsFunc(repoURL)
	}
	if tags, ok := m.Tags[repoURL]; ok {
		return tags, nil
	}
	return nil, fmt.Errorf("%w: no tags configured for %s", ErrGitCommand, repoURL)
}

// Ensure MockTagLister implements TagLister interface
var _ TagLister = (*MockTagLister)(nil)
