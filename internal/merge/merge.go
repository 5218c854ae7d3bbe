// Package merge implements three-way merge for edited records.
//
// A three-way merge uses three versions of a record:
//   - Base: what the edit form started from
//   - Local: the values the user submitted
//   - Remote: what the backend holds now
//
// Every form field is classified on its own:
//   - Neither side changed → keep the remote value
//   - Only one side changed → take that side's value (auto-merge)
//   - Both sides changed identically → take either (they agree)
//   - Both sides changed differently → conflict
package merge

import (
	"fmt"
	"strings"

	"github.com/haulops/haulctl/internal/api"
)

// Result holds the outcome of a three-way merge.
type Result struct {
	// Merged is the remote record with the local edits applied. Conflicting
	// fields keep their remote value.
	Merged api.Record

	// Conflicts lists every field both sides changed differently.
	Conflicts []Conflict

	// AutoResolved is the number of fields only the remote side changed
	// that were kept without asking.
	AutoResolved int
}

// HasConflicts is true if any field could not be auto-merged.
func (r *Result) HasConflicts() bool {
	return len(r.Conflicts) > 0
}

// Conflict describes a single conflicting field.
type Conflict struct {
	Field  string
	Label  string
	Base   string
	Local  string
	Remote string
}

func (c Conflict) String() string {
	return fmt.Sprintf("%s: yours %q, now %q (was %q)", c.Label, c.Local, c.Remote, c.Base)
}

// ThreeWay merges the form fields of res. Values are compared as displayed
// text so 12 and "12" count as the same value.
func ThreeWay(res api.Resource, base, local, remote api.Record) *Result {
	result := &Result{Merged: remote.Clone()}

	for _, f := range res.Fields {
		b, l, r := base.Text(f.Name), local.Text(f.Name), remote.Text(f.Name)

		switch {
		case l == b:
			if r != b {
				result.AutoResolved++
			}
		case r == b || r == l:
			v, ok := local.Lookup(f.Name)
			if !ok {
				v = ""
			}
			result.Merged.Set(f.Name, v)
		default:
			result.Conflicts = append(result.Conflicts, Conflict{
				Field:  f.Name,
				Label:  f.Label,
				Base:   b,
				Local:  l,
				Remote: r,
			})
		}
	}

	return result
}

// Summary renders the conflicts one per line.
func (r *Result) Summary() string {
	lines := make([]string, len(r.Conflicts))
	for i, c := range r.Conflicts {
		lines[i] = c.String()
	}
	return strings.Join(lines, "\n")
}
