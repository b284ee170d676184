package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/isoforge/isopin/internal/common/config"
	"github.com/isoforge/isopin/internal/fetch"
	"github.com/isoforge/isopin/internal/track"
)

// resolveRepo picks the image repository: the --repo flag wins, then the
// configured repository, then the working directory.
func resolveRepo(flagValue string) (string, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return "", nil, fmt.Errorf("failed to load config: %w", err)
	}

	if flagValue != "" {
		info, err := os.Stat(flagValue)
		if err != nil || !info.IsDir() {
			return "", nil, fmt.Errorf("%w: %s", config.ErrRepoNotFound, flagValue)
		}
		return flagValue, cfg, nil
	}

	path, err := cfg.RepoPath()
	if err == nil {
		return path, cfg, nil
	}
	if errors.Is(err, config.ErrRepoNotSet) {
		workDir, err := os.Getwd()
		if err != nil {
			return "", nil, err
		}
		return workDir, cfg, nil
	}
	return "", nil, err
}

// newTracker builds a tracker for the repository, carrying the configured
// fetch settings and any build file override.
func newTracker(repoPath, fileOverride string, cfg *config.Config) (*track.Tracker, error) {
	client := fetch.NewClientWithConfig(fetch.Config{
		Timeout:   cfg.Timeout(),
		UserAgent: cfg.HTTP.UserAgent,
	})

	opts := []track.TrackerOption{track.WithHTTPClient(client)}
	if fileOverride != "" {
		opts = append(opts, track.WithTargetPath(filepath.Join(repoPath, fileOverride)))
	}
	return track.NewTracker(repoPath, opts...)
}
