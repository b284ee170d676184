// Package manifest loads the per-repository isopin.toml describing the
// tracked upstreams: which version family each one is expected to stay in,
// which exact pins are frozen, and where to ask. Every dependency ships a
// built-in default, so the file only carries overrides.
package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
)

// Error variables for manifest validation
var (
	// ErrUnknownDep is returned for a [deps.*] section that names no tracked dependency
	ErrUnknownDep = errors.New("unknown tracked dependency")
	// ErrMissingFamily is returned when a family-gated dependency has no family prefix
	ErrMissingFamily = errors.New("missing required field: family")
	// ErrBadFamily is returned when a family prefix is not dotted-numeric
	ErrBadFamily = errors.New("family must be a dotted-numeric prefix")
	// ErrMissingExpected is returned when an equality-gated dependency has no expected pin
	ErrMissingExpected = errors.New("missing required field: expected")
	// ErrBadExpected is returned when an expected pin is not dotted-numeric
	ErrBadExpected = errors.New("expected must be a dotted-numeric version")
	// ErrNoMirrors is returned when the mirror list is empty
	ErrNoMirrors = errors.New("mirror list must not be empty")
	// ErrMissingURL is returned when a dependency has no upstream URL
	ErrMissingURL = errors.New("missing required field: url")
	// ErrMissingRepo is returned when a tag-tracked dependency has no repository URL
	ErrMissingRepo = errors.New("missing required field: repo")
	// ErrBadTemplate is returned when a URL template has no version slot
	ErrBadTemplate = errors.New("url template must contain a %s version slot")
)

var dottedNumeric = regexp.MustCompile(`^\d+(\.\d+)*$`)

// DepConfig describes one tracked dependency. Which fields apply depends on
// the dependency; Validate knows the shape each one needs.
type DepConfig struct {
	// Family is the version-family prefix routine point updates must stay in
	Family string `toml:"family,omitempty"`
	// Expected is the exact pinned version for equality-gated dependencies
	Expected string `toml:"expected,omitempty"`
	// Major is the release directory name on the distribution mirrors (e.g. 15.x)
	Major string `toml:"major,omitempty"`
	// Rootfs is the distribution rootfs file name
	Rootfs string `toml:"rootfs,omitempty"`
	// Mirrors are base URLs tried in priority order
	Mirrors []string `toml:"mirrors,omitempty"`
	// URL is the feed, listing, or discovery endpoint
	URL string `toml:"url,omitempty"`
	// Repo is the git repository whose tags carry the versions
	Repo string `toml:"repo,omitempty"`
	// HashesURL is the checksum manifest location, %s replaced by the version
	HashesURL string `toml:"hashes_url,omitempty"`
	// FallbackHashesURL is the secondary checksum manifest location
	FallbackHashesURL string `toml:"fallback_hashes_url,omitempty"`
}

// Manifest is the parsed isopin.toml merged over the built-in defaults.
type Manifest struct {
	// File is the build file to patch, relative to the repository root
	File string `toml:"file,omitempty"`
	// Deps maps dependency names to their tracking configuration
	Deps map[string]DepConfig `toml:"deps"`
}

// Names lists the tracked dependencies in the order a run resolves them.
var Names = []string{
	"tinycore",
	"kernel",
	"docker",
	"zstd",
	"virtualbox",
	"vmware-tools",
	"open-vm-tools",
	"xe-guest-utilities",
}

// Default returns the built-in manifest: the upstreams the tool tracks when
// the repository carries no isopin.toml at all.
func Default() *Manifest {
	return &Manifest{
		File: "Dockerfile",
		Deps: map[string]DepConfig{
			"tinycore": {
				Expected: "15.0",
				Major:    "15.x",
				Rootfs:   "rootfs64.gz",
				Mirrors: []string{
					"http://distro.ibiblio.org/tinycorelinux",
					"http://repo.tinycorelinux.net",
				},
			},
			"kernel": {
				Family: "6.6",
				URL:    "https://www.kernel.org/releases.json",
			},
			"docker": {
				Family: "27.1",
				URL:    "https://api.github.com/repos/moby/moby/releases?per_page=64",
			},
			"zstd": {
				Family: "1.5",
				Repo:   "https://github.com/facebook/zstd.git",
			},
			"virtualbox": {
				Family:            "7.0",
				URL:               "https://download.virtualbox.org/virtualbox/",
				HashesURL:         "https://download.virtualbox.org/virtualbox/%s/SHA256SUMS",
				FallbackHashesURL: "https://www.virtualbox.org/download/hashes/%s/SHA256SUMS",
			},
			"vmware-tools": {
				Expected: "12.4.5",
				URL:      "https://packages.vmware.com/tools/releases/latest/windows",
			},
			"open-vm-tools": {
				Family: "12.4",
				Repo:   "https://github.com/vmware/open-vm-tools.git",
			},
			"xe-guest-utilities": {
				Family: "7.34",
				Repo:   "https://github.com/xenserver/xe-guest-utilities.git",
			},
		},
	}
}

// Load reads isopin.toml from the repository root and merges it over the
// built-in defaults. A missing file is not an error; the defaults stand.
func Load(repoPath string) (*Manifest, error) {
	m := Default()

	path := filepath.Join(repoPath, "isopin.toml")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return m, m.Validate()
		}
		return nil, fmt.Errorf("failed to read isopin.toml: %w", err)
	}

	var overrides Manifest
	if err := toml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("failed to parse isopin.toml: %w", err)
	}

	if overrides.File != "" {
		m.File = overrides.File
	}
	for name, over := range overrides.Deps {
		base, ok := m.Deps[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q (known: %s)", ErrUnknownDep, name, strings.Join(Names, ", "))
		}
		m.Deps[name] = merge(base, over)
	}

	return m, m.Validate()
}

// merge overlays the fields set in over onto base
func merge(base, over DepConfig) DepConfig {
	if over.Family != "" {
		base.Family = over.Family
	}
	if over.Expected != "" {
		base.Expected = over.Expected
	}
	if over.Major != "" {
		base.Major = over.Major
	}
	if over.Rootfs != "" {
		base.Rootfs = over.Rootfs
	}
	if len(over.Mirrors) > 0 {
		base.Mirrors = over.Mirrors
	}
	if over.URL != "" {
		base.URL = over.URL
	}
	if over.Repo != "" {
		base.Repo = over.Repo
	}
	if over.HashesURL != "" {
		base.HashesURL = over.HashesURL
	}
	if over.FallbackHashesURL != "" {
		base.FallbackHashesURL = over.FallbackHashesURL
	}
	return base
}

// Validate checks that every tracked dependency carries the fields its
// resolution needs. Returns the first problem found.
func (m *Manifest) Validate() error {
	for _, name := range Names {
		cfg, ok := m.Deps[name]
		if !ok {
			return fmt.Errorf("dependency %s: missing configuration", name)
		}
		if err := validateDep(name, &cfg); err != nil {
			return err
		}
	}
	return nil
}

// validateDep checks one dependency's configuration against the shape its
// resolution strategy needs
func validateDep(name string, cfg *DepConfig) error {
	needFamily := func() error {
		if cfg.Family == "" {
			return fmt.Errorf("dependency %s: %w", name, ErrMissingFamily)
		}
		if !dottedNumeric.MatchString(cfg.Family) {
			return fmt.Errorf("dependency %s: %w: got %q", name, ErrBadFamily, cfg.Family)
		}
		return nil
	}
	needExpected := func() error {
		if cfg.Expected == "" {
			return fmt.Errorf("dependency %s: %w", name, ErrMissingExpected)
		}
		if !dottedNumeric.MatchString(cfg.Expected) {
			return fmt.Errorf("dependency %s: %w: got %q", name, ErrBadExpected, cfg.Expected)
		}
		return nil
	}

	switch name {
	case "tinycore":
		if err := needExpected(); err != nil {
			return err
		}
		if cfg.Major == "" {
			return fmt.Errorf("dependency %s: missing required field: major", name)
		}
		if cfg.Rootfs == "" {
			return fmt.Errorf("dependency %s: missing required field: rootfs", name)
		}
		if len(cfg.Mirrors) == 0 {
			return fmt.Errorf("dependency %s: %w", name, ErrNoMirrors)
		}
	case "kernel", "docker":
		if err := needFamily(); err != nil {
			return err
		}
		if cfg.URL == "" {
			return fmt.Errorf("dependency %s: %w", name, ErrMissingURL)
		}
	case "zstd", "open-vm-tools", "xe-guest-utilities":
		if err := needFamily(); err != nil {
			return err
		}
		if cfg.Repo == "" {
			return fmt.Errorf("dependency %s: %w", name, ErrMissingRepo)
		}
	case "virtualbox":
		if err := needFamily(); err != nil {
			return err
		}
		if cfg.URL == "" {
			return fmt.Errorf("dependency %s: %w", name, ErrMissingURL)
		}
		for _, tmpl := range []string{cfg.HashesURL, cfg.FallbackHashesURL} {
			if tmpl != "" && !strings.Contains(tmpl, "%s") {
				return fmt.Errorf("dependency %s: %w: got %q", name, ErrBadTemplate, tmpl)
			}
		}
		if cfg.HashesURL == "" {
			return fmt.Errorf("dependency %s: %w", name, ErrMissingURL)
		}
	case "vmware-tools":
		if err := needExpected(); err != nil {
			return err
		}
		if cfg.URL == "" {
			return fmt.Errorf("dependency %s: %w", name, ErrMissingURL)
		}
	}
	return nil
}
