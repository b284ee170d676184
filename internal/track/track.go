// Package track coordinates a run over the tracked dependencies: resolve
// each upstream version in a fixed order, gate it against the pinned family
// or reference value, and accumulate the rewrite plan for the target build
// file. A run is strictly sequential and all-or-nothing: the first failure
// stops it and nothing is written.
package track

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/isoforge/isopin/internal/common/gitver"
	"github.com/isoforge/isopin/internal/common/logger"
	"github.com/isoforge/isopin/internal/common/manifest"
	"github.com/isoforge/isopin/internal/fetch"
	"github.com/isoforge/isopin/internal/patch"
	"github.com/isoforge/isopin/internal/source"
)

// Error variables for tracker errors
var (
	// ErrUnknownKind is returned when a dependency names a kind with no resolution strategy
	ErrUnknownKind = errors.New("unknown source kind")
)

// Tracker runs the resolution, validation, and patch pipeline against one
// target repository.
type Tracker struct {
	// repoPath is the path of the repository holding the target file
	repoPath string
	// targetPath is the file whose pins are tracked
	targetPath string
	// manifest holds the per-dependency configuration
	manifest *manifest.Manifest
	// client performs all HTTP fetches
	client *fetch.Client
	// tags lists remote git tags
	tags gitver.TagLister
	// resolver dispatches the per-kind resolution strategies
	resolver *source.Resolver
}

// TrackerOption is a functional option for configuring Tracker
type TrackerOption func(*Tracker) error

// WithHTTPClient sets a custom fetch client
func WithHTTPClient(client *fetch.Client) TrackerOption {
	return func(t *Tracker) error {
		t.client = client
		return nil
	}
}

// WithTagLister sets a custom git tag lister
func WithTagLister(tags gitver.TagLister) TrackerOption {
	return func(t *Tracker) error {
		t.tags = tags
		return nil
	}
}

// WithManifest sets a pre-loaded manifest
func WithManifest(m *manifest.Manifest) TrackerOption {
	return func(t *Tracker) error {
		t.manifest = m
		return nil
	}
}

// WithTargetPath overrides the target file path
func WithTargetPath(path string) TrackerOption {
	return func(t *Tracker) error {
		t.targetPath = path
		return nil
	}
}

// NewTracker creates a tracker for the repository at repoPath. The manifest
// is loaded from the repository unless one is provided.
func NewTracker(repoPath string, opts ...TrackerOption) (*Tracker, error) {
	tracker := &Tracker{
		repoPath: repoPath,
	}

	for _, opt := range opts {
		if err := opt(tracker); err != nil {
			return nil, fmt.Errorf("failed to apply tracker option: %w", err)
		}
	}

	if tracker.manifest == nil {
		m, err := manifest.Load(repoPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load manifest: %w", err)
		}
		tracker.manifest = m
	}
	if tracker.client == nil {
		tracker.client = fetch.NewClient()
	}
	if tracker.tags == nil {
		tracker.tags = gitver.NewRunner()
	}
	if tracker.targetPath == "" {
		tracker.targetPath = filepath.Join(repoPath, tracker.manifest.File)
	}
	tracker.resolver = source.NewResolver(tracker.client, tracker.tags)

	return tracker, nil
}

// CheckAll resolves and validates every tracked dependency in run order,
// stopping at the first failure. The target file is never modified.
func (t *Tracker) CheckAll(ctx context.Context) (*Report, error) {
	data, err := os.ReadFile(t.targetPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", t.targetPath, err)
	}
	content := string(data)

	report := &Report{File: t.targetPath}
	accumulator := &plan{report: report}
	for _, dep := range Deps(t.manifest) {
		resolution, err := t.resolveDep(ctx, content, dep, accumulator)
		if err != nil {
			return report, fmt.Errorf("%s: %w", dep.Name, err)
		}
		report.Resolutions = append(report.Resolutions, *resolution)
		logger.Debug("%s: current %s, resolved %s", dep.Name, resolution.Current, resolution.Resolved)
	}

	return report, nil
}

// Sync runs CheckAll and applies the accumulated plan to the target file.
// Any failure leaves the file byte-identical.
func (t *Tracker) Sync(ctx context.Context) (*Report, error) {
	report, err := t.CheckAll(ctx)
	if err != nil {
		return report, err
	}

	changed, err := patch.File(t.targetPath, report.edits)
	if err != nil {
		return report, fmt.Errorf("failed to patch %s: %w", t.targetPath, err)
	}
	report.RewrittenLines = changed

	return report, nil
}

// Pins reads the target file and reports the pinned value of every tracked
// dependency without touching the network.
func (t *Tracker) Pins() ([]Pin, error) {
	data, err := os.ReadFile(t.targetPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", t.targetPath, err)
	}
	content := string(data)

	var pins []Pin
	for _, dep := range Deps(t.manifest) {
		current, ok := patch.Extract(content, dep.Pattern)
		if !ok {
			return nil, fmt.Errorf("%s: %w: no %s line", dep.Name, patch.ErrNoMatch, dep.Label)
		}
		pins = append(pins, Pin{
			Name:     dep.Name,
			Label:    dep.Label,
			Current:  current,
			Family:   dep.Family,
			Expected: dep.Expected,
		})
	}
	return pins, nil
}

// resolveDep runs the pipeline for one dependency: resolve the upstream
// version, gate it, build the edits, and fold them into the plan.
func (t *Tracker) resolveDep(ctx context.Context, content string, dep Dependency, accumulator *plan) (*Resolution, error) {
	resolved, err := t.resolveVersion(ctx, dep)
	if err != nil {
		return nil, err
	}

	if err := gate(dep, resolved); err != nil {
		return nil, err
	}

	edits, checksum, err := t.buildEdits(ctx, dep, resolved)
	if err != nil {
		return nil, err
	}

	resolution := &Resolution{
		Name:     dep.Name,
		Resolved: resolved,
		Checksum: checksum,
	}
	for _, item := range edits {
		current, ok := patch.Extract(content, item.edit.Pattern)
		if !ok {
			return nil, fmt.Errorf("%w: no %s line in %s", patch.ErrNoMatch, item.label, t.targetPath)
		}
		if item.label == dep.Label {
			resolution.Current = current
		}
		if current != item.edit.Value {
			resolution.Changed = true
		}
		accumulator.add(item.label, item.edit)
	}

	return resolution, nil
}

// resolveVersion dispatches the dependency's resolution strategy.
func (t *Tracker) resolveVersion(ctx context.Context, dep Dependency) (string, error) {
	switch dep.Kind {
	case source.KindLatestText:
		version, mirror, err := t.resolver.LatestText(ctx, dep.Mirrors, dep.LatestPath())
		if err != nil {
			return "", err
		}
		logger.Debug("%s: latest file served by %s", dep.Name, mirror)
		return version, nil
	case source.KindKernelFeed:
		return t.resolver.KernelLongterm(ctx, dep.URL)
	case source.KindGitHubReleases:
		return t.resolver.GitHubLatestRelease(ctx, dep.URL)
	case source.KindListing:
		return t.resolver.ListingMax(ctx, dep.URL, dep.Selector, dep.Family)
	case source.KindTags:
		return t.resolver.LatestTag(ctx, dep.Repo, dep.TagPrefix)
	case source.KindRedirect:
		return t.resolver.RedirectToken(ctx, dep.URL, dep.RedirectPattern)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, string(dep.Kind))
	}
}

// gate applies the dependency's version gate: exact reference for pinned
// dependencies, family prefix otherwise.
func gate(dep Dependency, resolved string) error {
	if dep.Expected != "" {
		return validateReference(dep.Name, resolved, dep.Expected)
	}
	return validateFamily(dep.Name, resolved, dep.Family)
}

// labeledEdit pairs a concrete edit with the label the report shows for it.
type labeledEdit struct {
	label string
	edit  patch.Edit
}

// buildEdits turns a resolved version into the dependency's edits, fetching
// any artifacts (mirror health, checksums) the edits need.
func (t *Tracker) buildEdits(ctx context.Context, dep Dependency, resolved string) ([]labeledEdit, string, error) {
	switch dep.Name {
	case depTinyCore:
		return t.tinyCoreEdits(ctx, dep)
	case depVirtualBox:
		return t.virtualBoxEdits(ctx, dep, resolved)
	case depZstd:
		return []labeledEdit{
			{label: dep.Label, edit: patch.Edit{Pattern: dep.Pattern, Value: resolved}},
			{label: "zstd release notes", edit: patch.Edit{Pattern: zstdNotesPattern, Value: resolved}},
		}, "", nil
	default:
		return []labeledEdit{
			{label: dep.Label, edit: patch.Edit{Pattern: dep.Pattern, Value: resolved}},
		}, "", nil
	}
}

// tinyCoreEdits probes the mirrors, demotes unreachable ones behind the live
// ones, and re-pins the base distribution values plus the rootfs checksum.
func (t *Tracker) tinyCoreEdits(ctx context.Context, dep Dependency) ([]labeledEdit, string, error) {
	live, dead := t.resolver.PartitionMirrors(ctx, dep.Mirrors, dep.RootfsPath())
	if len(live) == 0 {
		return nil, "", fmt.Errorf("%w: no mirror serves %s", fetch.ErrAllMirrorsFailed, dep.RootfsPath())
	}
	if len(dead) > 0 {
		logger.Warn("demoting %d unreachable tinycore mirror(s): %s", len(dead), strings.Join(dead, " "))
	}

	data, _, err := t.client.FetchAny(ctx, live, dep.RootfsMD5Path())
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch rootfs checksum: %w", err)
	}
	digest, err := source.RootfsDigest(data)
	if err != nil {
		return nil, "", err
	}

	edits := []labeledEdit{
		{label: "TCL_MIRRORS", edit: patch.Edit{Pattern: mirrorListPattern, Value: strings.Join(append(live, dead...), " ")}},
		{label: "TCL_MAJOR", edit: patch.Edit{Pattern: tclMajorPattern, Value: dep.Major}},
		{label: dep.Label, edit: patch.Edit{Pattern: tclVersionPattern, Value: dep.Expected}},
		{label: "ROOTFS", edit: patch.Edit{Pattern: rootfsPattern, Value: dep.Rootfs}},
		{label: "ROOTFS_MD5", edit: patch.Edit{Pattern: rootfsMD5Pattern, Value: digest}},
	}
	return edits, digest, nil
}

// virtualBoxEdits resolves the guest additions image digest from the checksum
// manifest (primary location first, then the documented fallback) and pins
// the version and digest together.
func (t *Tracker) virtualBoxEdits(ctx context.Context, dep Dependency, resolved string) ([]labeledEdit, string, error) {
	var urls []string
	for _, template := range []string{dep.HashesURL, dep.FallbackHashesURL} {
		if template == "" {
			continue
		}
		urls = append(urls, fmt.Sprintf(template, resolved))
	}
	digest, err := t.resolver.ManifestDigest(ctx, urls, guestAdditionsPrefix, isoSuffix)
	if err != nil {
		return nil, "", err
	}

	edits := []labeledEdit{
		{label: dep.Label, edit: patch.Edit{Pattern: vboxVersionPattern, Value: resolved}},
		{label: "VBOX_SHA256", edit: patch.Edit{Pattern: vboxSHAPattern, Value: digest}},
	}
	return edits, digest, nil
}

// Manifest returns the loaded manifest.
func (t *Tracker) Manifest() *manifest.Manifest {
	return t.manifest
}

// TargetPath returns the path of the tracked file.
func (t *Tracker) TargetPath() string {
	return t.targetPath
}

// RepoPath returns the repository path.
func (t *Tracker) RepoPath() string {
	return t.repoPath
}
