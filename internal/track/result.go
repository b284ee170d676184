package track

import "github.com/isoforge/isopin/internal/patch"

// Resolution represents the outcome of resolving a single tracked dependency.
type Resolution struct {
	// Name is the tracked dependency name
	Name string `json:"name"`
	// Current is the value currently pinned in the target file
	Current string `json:"current"`
	// Resolved is the version upstream reported
	Resolved string `json:"resolved"`
	// Checksum is the artifact digest resolved alongside the version, if any
	Checksum string `json:"checksum,omitempty"`
	// Changed is true when applying the plan would alter the target file
	Changed bool `json:"changed"`
}

// PlannedEdit is one pending rewrite of the target file, keyed by the
// variable (or line) it touches.
type PlannedEdit struct {
	// Label names the variable or line the edit rewrites
	Label string `json:"label"`
	// Value is the replacement text
	Value string `json:"value"`
}

// Report is the accumulated outcome of a run over every tracked dependency.
type Report struct {
	// File is the path of the target file
	File string `json:"file"`
	// Resolutions holds one entry per dependency, in run order
	Resolutions []Resolution `json:"resolutions"`
	// Planned holds the pending edits, in application order
	Planned []PlannedEdit `json:"planned_edits"`
	// RewrittenLines is the number of lines a sync actually changed
	RewrittenLines int `json:"rewritten_lines,omitempty"`

	// edits is the concrete plan a sync applies
	edits []patch.Edit
}

// Changed reports how many dependencies have pending changes.
func (r *Report) Changed() int {
	count := 0
	for _, res := range r.Resolutions {
		if res.Changed {
			count++
		}
	}
	return count
}

// HasChanges is true when at least one dependency has a pending change.
func (r *Report) HasChanges() bool {
	return r.Changed() > 0
}

// Pin is the value the target file currently holds for one tracked
// dependency, alongside the release line or exact pin holding it.
type Pin struct {
	// Name is the tracked dependency name
	Name string `json:"name"`
	// Label names the primary pinned variable
	Label string `json:"label"`
	// Current is the value pinned in the target file
	Current string `json:"current"`
	// Family is the release line for prefix-gated dependencies
	Family string `json:"family,omitempty"`
	// Expected is the exact pin for equality-gated dependencies
	Expected string `json:"expected,omitempty"`
}

// plan accumulates edits while dependencies resolve, pairing the concrete
// rewrite with the label the report shows.
type plan struct {
	report *Report
}

func (p *plan) add(label string, edit patch.Edit) {
	p.report.edits = append(p.report.edits, edit)
	p.report.Planned = append(p.report.Planned, PlannedEdit{Label: label, Value: edit.Value})
}
