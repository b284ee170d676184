// Package vercmp compares dotted-numeric version strings the way release
// pages order them: segment by segment as integers, never lexically.
package vercmp

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var numericVersionRegex = regexp.MustCompile(`^\d+(\.\d+)*$`)

// parseSegments breaks a version string into integer segments (1.0.1 -> [1, 0, 1])
func parseSegments(v string) []int {
	parts := strings.Split(v, ".")
	nums := make([]int, len(parts))
	for i, p := range parts {
		// Handle letter suffixes in segments (e.g., 1.0a -> 1, 0)
		numStr := strings.TrimRight(p, "abcdefghijklmnopqrstuvwxyz")
		if numStr == "" {
			nums[i] = 0
		} else {
			nums[i], _ = strconv.Atoi(numStr)
		}
	}
	return nums
}

// compareIntSlices compares two slices of integers, missing trailing
// segments count as zero
func compareIntSlices(a, b []int) int {
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}

	for i := 0; i < maxLen; i++ {
		var av, bv int
		if i < len(a) {
			av = a[i]
		}
		if i < len(b) {
			bv = b[i]
		}

		if av < bv {
			return -1
		}
		if av > bv {
			return 1
		}
	}
	return 0
}

// Compare compares two dotted-numeric version strings.
// Returns: -1 if a < b, 0 if a == b, 1 if a > b.
func Compare(a, b string) int {
	return compareIntSlices(parseSegments(a), parseSegments(b))
}

// SortDesc sorts versions in place, newest first. Equal versions keep
// their input order.
func SortDesc(versions []string) {
	sort.SliceStable(versions, func(i, j int) bool {
		return Compare(versions[i], versions[j]) > 0
	})
}

// Latest returns the highest version in the list, or "" for an empty list.
func Latest(versions []string) string {
	latest := ""
	for _, v := range versions {
		if latest == "" || Compare(v, latest) > 0 {
			latest = v
		}
	}
	return latest
}

// Numeric reports whether v is a plain dotted-numeric version ("1.5.6",
// "26.1.4"); anything carrying rc/beta markers or stray text is rejected.
func Numeric(v string) bool {
	return numericVersionRegex.MatchString(v)
}

// HasFamily reports whether v is the family itself or a point release
// within it. "6.1.55" belongs to family "6.1"; "6.12.1" does not.
func HasFamily(v, family string) bool {
	if family == "" {
		return false
	}
	return v == family || strings.HasPrefix(v, family+".")
}
