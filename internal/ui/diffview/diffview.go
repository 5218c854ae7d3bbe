// Package diffview shows what an edit changes before it is submitted.
package diffview

import (
	"fmt"
	"strings"

	"github.com/haulops/haulctl/internal/api"
	"github.com/haulops/haulctl/internal/ui/styles"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// LineType is the kind of a diff line.
type LineType int

const (
	LineSame LineType = iota
	LineAdd
	LineDrop
)

// Line is one "Label: value" row of the edit diff.
type Line struct {
	Type    LineType
	Content string
}

// Lines diffs the editable fields of before and after, one field per line.
func Lines(res api.Resource, before, after api.Record) []Line {
	dmp := diffmatchpatch.New()

	a, b, lineArray := dmp.DiffLinesToRunes(fieldText(res, before), fieldText(res, after))
	diffs := dmp.DiffCharsToLines(dmp.DiffMainRunes(a, b, false), lineArray)

	var out []Line
	for _, d := range diffs {
		var t LineType
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			t = LineAdd
		case diffmatchpatch.DiffDelete:
			t = LineDrop
		default:
			t = LineSame
		}
		for _, text := range strings.Split(strings.TrimSuffix(d.Text, "\n"), "\n") {
			out = append(out, Line{Type: t, Content: text})
		}
	}
	return out
}

// Changed returns the names of editable fields whose text differs.
func Changed(res api.Resource, before, after api.Record) []string {
	var names []string
	for _, f := range res.Fields {
		if before.Text(f.Name) != after.Text(f.Name) {
			names = append(names, f.Name)
		}
	}
	return names
}

// Render formats the diff for the terminal, skipping unchanged fields
// unless all is set.
func Render(lines []Line, all bool) string {
	var sb strings.Builder
	for _, l := range lines {
		switch l.Type {
		case LineAdd:
			sb.WriteString(styles.Render(styles.DiffAddLine, "+ "+l.Content))
		case LineDrop:
			sb.WriteString(styles.Render(styles.DiffDropLine, "- "+l.Content))
		default:
			if !all {
				continue
			}
			sb.WriteString(styles.Mute("  " + l.Content))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func fieldText(res api.Resource, rec api.Record) string {
	var sb strings.Builder
	for _, f := range res.Fields {
		fmt.Fprintf(&sb, "%s: %s\n", f.Label, rec.Text(f.Name))
	}
	return sb.String()
}
