package track

import (
	"fmt"

	"github.com/isoforge/isopin/internal/vercmp"
)

// FamilyError reports a resolved version that escaped its pinned release line.
type FamilyError struct {
	// Dep is the tracked dependency name
	Dep string
	// Resolved is the version upstream reported
	Resolved string
	// Family is the release line the build pins
	Family string
}

func (e *FamilyError) Error() string {
	return fmt.Sprintf("resolved version %s is outside the %s release line", e.Resolved, e.Family)
}

// ReferenceError reports an upstream value that no longer matches an exact pin.
type ReferenceError struct {
	// Dep is the tracked dependency name
	Dep string
	// Resolved is the value upstream reported
	Resolved string
	// Expected is the pinned value
	Expected string
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("upstream reports %s but the build pins %s", e.Resolved, e.Expected)
}

// validateFamily accepts a resolved version equal to the family or prefixed
// by it segment-wise.
func validateFamily(dep, resolved, family string) error {
	if vercmp.HasFamily(resolved, family) {
		return nil
	}
	return &FamilyError{Dep: dep, Resolved: resolved, Family: family}
}

// validateReference accepts only an exact match with the pinned value.
func validateReference(dep, resolved, expected string) error {
	if resolved == expected {
		return nil
	}
	return &ReferenceError{Dep: dep, Resolved: resolved, Expected: expected}
}
