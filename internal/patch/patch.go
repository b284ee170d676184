// Package patch rewrites pinned values inside a line-oriented configuration
// file. Every edit targets one tracked variable through a line-anchored
// pattern whose single capture group marks the value span; everything the
// pattern did not consume passes through byte-identical.
package patch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Error variables for patch failures
var (
	// ErrNoMatch is returned when an edit's pattern matched no line at all,
	// meaning the tracked variable vanished from the file
	ErrNoMatch = errors.New("pattern matched no line")
	// ErrBadPattern is returned for a pattern that is not line-anchored or
	// does not capture exactly one value span
	ErrBadPattern = errors.New("invalid edit pattern")
)

// Edit is one planned substitution: Pattern locates the target line and its
// single capture group marks the value span to be replaced by Value.
type Edit struct {
	Pattern *regexp.Regexp
	Value   string
}

// NewEdit compiles pattern into an Edit. The pattern must be anchored at
// line start and contain exactly one capture group.
func NewEdit(pattern, value string) (Edit, error) {
	if !strings.HasPrefix(pattern, "^") {
		return Edit{}, fmt.Errorf("%w: %q is not anchored at line start", ErrBadPattern, pattern)
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Edit{}, fmt.Errorf("%w: %v", ErrBadPattern, err)
	}
	if re.NumSubexp() != 1 {
		return Edit{}, fmt.Errorf("%w: %q must capture exactly one value span, has %d groups", ErrBadPattern, pattern, re.NumSubexp())
	}
	return Edit{Pattern: re, Value: value}, nil
}

// MustEdit is NewEdit for statically known patterns; it panics on error.
func MustEdit(pattern, value string) Edit {
	e, err := NewEdit(pattern, value)
	if err != nil {
		panic(err)
	}
	return e
}

// Apply runs every edit over content in a single line-oriented pass and
// returns the rewritten content plus the number of lines that changed.
// A line may be hit by several edits, each splicing its own span; edits on
// the same line see the result of earlier edits, so patterns must be
// specific enough not to collide. An edit that matches no line is fatal.
func Apply(content string, edits []Edit) (string, int, error) {
	lines := strings.Split(content, "\n")
	matched := make([]int, len(edits))
	changed := 0

	for i, line := range lines {
		orig := line
		for j, e := range edits {
			loc := e.Pattern.FindStringSubmatchIndex(line)
			if loc == nil || loc[2] < 0 {
				continue
			}
			line = line[:loc[2]] + e.Value + line[loc[3]:]
			matched[j]++
		}
		if line != orig {
			changed++
			lines[i] = line
		}
	}

	var missing []string
	for j, e := range edits {
		if matched[j] == 0 {
			missing = append(missing, e.Pattern.String())
		}
	}
	if len(missing) > 0 {
		return "", 0, fmt.Errorf("%w: %s", ErrNoMatch, strings.Join(missing, ", "))
	}

	return strings.Join(lines, "\n"), changed, nil
}

// Extract returns the current value span of the first line matching pattern,
// for showing what a file pins right now.
func Extract(content string, pattern *regexp.Regexp) (string, bool) {
	for _, line := range strings.Split(content, "\n") {
		loc := pattern.FindStringSubmatchIndex(line)
		if loc == nil || loc[2] < 0 {
			continue
		}
		return line[loc[2]:loc[3]], true
	}
	return "", false
}

// File applies edits to the file at path in one atomic rewrite: the new
// content lands in a temp file in the same directory and is renamed over
// the original, preserving its mode. Content that comes out unchanged
// leaves the file untouched. Returns the number of lines that changed.
func File(path string, edits []Edit) (int, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", path, err)
	}
	original, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", path, err)
	}

	updated, changed, err := Apply(string(original), edits)
	if err != nil {
		return 0, err
	}
	if updated == string(original) {
		return 0, nil
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return 0, fmt.Errorf("writing %s: %w", path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(updated); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return 0, fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Chmod(info.Mode()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return 0, fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return 0, fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return 0, fmt.Errorf("writing %s: %w", path, err)
	}

	return changed, nil
}
