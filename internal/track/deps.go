package track

import (
	"regexp"

	"github.com/isoforge/isopin/internal/common/manifest"
	"github.com/isoforge/isopin/internal/source"
)

// Tracked dependency names, in run order.
const (
	depTinyCore    = "tinycore"
	depKernel      = "kernel"
	depDocker      = "docker"
	depZstd        = "zstd"
	depVirtualBox  = "virtualbox"
	depVMwareTools = "vmware-tools"
	depOpenVMTools = "open-vm-tools"
	depXEGuest     = "xe-guest-utilities"
)

// Anchored patterns locating the pinned lines in the target file. Each has
// exactly one capture group spanning the value to rewrite.
var (
	mirrorListPattern  = regexp.MustCompile(`^ENV TCL_MIRRORS="([^"]*)"`)
	tclMajorPattern    = regexp.MustCompile(`^ENV TCL_MAJOR[= ](\S+)$`)
	tclVersionPattern  = regexp.MustCompile(`^ENV TCL_VERSION[= ](\S+)$`)
	rootfsPattern      = regexp.MustCompile(`^ENV ROOTFS="([^"]*)"`)
	rootfsMD5Pattern   = regexp.MustCompile(`^ENV ROOTFS="[^"]*" ROOTFS_MD5="([^"]*)"`)
	kernelPattern      = regexp.MustCompile(`^ENV KERNEL_VERSION[= ](\S+)$`)
	dockerPattern      = regexp.MustCompile(`^ENV DOCKER_VERSION[= ](\S+)$`)
	zstdPattern        = regexp.MustCompile(`^ENV ZSTD_VERSION[= ](\S+)$`)
	zstdNotesPattern   = regexp.MustCompile(`^# release notes: https://github\.com/facebook/zstd/releases/tag/v(\S+)$`)
	vboxVersionPattern = regexp.MustCompile(`^ENV VBOX_VERSION="([^"]*)"`)
	vboxSHAPattern     = regexp.MustCompile(`^ENV VBOX_VERSION="[^"]*" VBOX_SHA256="([^"]*)"`)
	vmwareToolsPattern = regexp.MustCompile(`^ENV VMWARE_TOOLS_VERSION[= ](\S+)$`)
	openVMToolsPattern = regexp.MustCompile(`^ENV OPEN_VM_TOOLS_VERSION[= ](\S+)$`)
	xeGuestPattern     = regexp.MustCompile(`^ENV XE_GUEST_VERSION[= ](\S+)$`)
)

// vmwareReleasePattern extracts the version token from a resolved download URL.
var vmwareReleasePattern = regexp.MustCompile(`/releases/([0-9][0-9.]*)/`)

// guestAdditionsPrefix and isoSuffix select the guest additions image line in
// a SHA256SUMS manifest.
const (
	guestAdditionsPrefix = "VBoxGuestAdditions_"
	isoSuffix            = ".iso"
)

// Dependency describes one tracked upstream: how its latest version is
// resolved, which gate it must pass, and where its pin lives in the target
// file.
type Dependency struct {
	// Name is the dependency name, unique within a run
	Name string
	// Kind selects the resolution strategy
	Kind source.Kind
	// Family is the pinned release line for prefix-gated dependencies
	Family string
	// Expected is the exact pinned value for equality-gated dependencies
	Expected string
	// URL is the feed, listing, or discovery endpoint
	URL string
	// Repo is the git remote for tag-listed dependencies
	Repo string
	// TagPrefix is the tag format marker to strip ("v", "stable-")
	TagPrefix string
	// Mirrors are the ordered base URLs for mirror-served dependencies
	Mirrors []string
	// Major is the release directory on the mirrors
	Major string
	// Rootfs is the root filesystem artifact name
	Rootfs string
	// HashesURL is the checksum manifest URL template (%s = version)
	HashesURL string
	// FallbackHashesURL is the documented alternate manifest location
	FallbackHashesURL string
	// Selector overrides the listing anchor selector
	Selector string
	// RedirectPattern extracts the version token from a final redirect URL
	RedirectPattern *regexp.Regexp
	// Label and Pattern locate the primary pinned variable in the target file
	Label   string
	Pattern *regexp.Regexp
}

// LatestPath is the mirror-relative path of the published latest-version file.
func (d Dependency) LatestPath() string {
	return d.Major + "/x86_64/release/latest-x86_64"
}

// RootfsPath is the mirror-relative path of the pinned root filesystem.
func (d Dependency) RootfsPath() string {
	return d.Major + "/x86_64/release/distribution_files/" + d.Rootfs
}

// RootfsMD5Path is the mirror-relative path of the root filesystem checksum.
func (d Dependency) RootfsMD5Path() string {
	return d.RootfsPath() + ".md5.txt"
}

// Deps binds the manifest configuration to the fixed dependency table, in
// run order.
func Deps(m *manifest.Manifest) []Dependency {
	tinycore := m.Deps[depTinyCore]
	kernel := m.Deps[depKernel]
	docker := m.Deps[depDocker]
	zstd := m.Deps[depZstd]
	virtualbox := m.Deps[depVirtualBox]
	vmware := m.Deps[depVMwareTools]
	openVM := m.Deps[depOpenVMTools]
	xeGuest := m.Deps[depXEGuest]

	return []Dependency{
		{
			Name:     depTinyCore,
			Kind:     source.KindLatestText,
			Expected: tinycore.Expected,
			Major:    tinycore.Major,
			Rootfs:   tinycore.Rootfs,
			Mirrors:  tinycore.Mirrors,
			Label:    "TCL_VERSION",
			Pattern:  tclVersionPattern,
		},
		{
			Name:    depKernel,
			Kind:    source.KindKernelFeed,
			Family:  kernel.Family,
			URL:     kernel.URL,
			Label:   "KERNEL_VERSION",
			Pattern: kernelPattern,
		},
		{
			Name:    depDocker,
			Kind:    source.KindGitHubReleases,
			Family:  docker.Family,
			URL:     docker.URL,
			Label:   "DOCKER_VERSION",
			Pattern: dockerPattern,
		},
		{
			Name:      depZstd,
			Kind:      source.KindTags,
			Family:    zstd.Family,
			Repo:      zstd.Repo,
			TagPrefix: "v",
			Label:     "ZSTD_VERSION",
			Pattern:   zstdPattern,
		},
		{
			Name:              depVirtualBox,
			Kind:              source.KindListing,
			Family:            virtualbox.Family,
			URL:               virtualbox.URL,
			HashesURL:         virtualbox.HashesURL,
			FallbackHashesURL: virtualbox.FallbackHashesURL,
			Label:             "VBOX_VERSION",
			Pattern:           vboxVersionPattern,
		},
		{
			Name:            depVMwareTools,
			Kind:            source.KindRedirect,
			Expected:        vmware.Expected,
			URL:             vmware.URL,
			RedirectPattern: vmwareReleasePattern,
			Label:           "VMWARE_TOOLS_VERSION",
			Pattern:         vmwareToolsPattern,
		},
		{
			Name:      depOpenVMTools,
			Kind:      source.KindTags,
			Family:    openVM.Family,
			Repo:      openVM.Repo,
			TagPrefix: "stable-",
			Label:     "OPEN_VM_TOOLS_VERSION",
			Pattern:   openVMToolsPattern,
		},
		{
			Name:      depXEGuest,
			Kind:      source.KindTags,
			Family:    xeGuest.Family,
			Repo:      xeGuest.Repo,
			TagPrefix: "v",
			Label:     "XE_GUEST_VERSION",
			Pattern:   xeGuestPattern,
		},
	}
}
