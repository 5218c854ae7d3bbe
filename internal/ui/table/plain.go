package table

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/haulops/haulctl/internal/api"
	"gopkg.in/yaml.v3"
)

// Cells renders records into display rows following the resource columns.
func Cells(res api.Resource, recs []api.Record) [][]string {
	rows := make([][]string, len(recs))
	for i, rec := range recs {
		row := make([]string, len(res.Columns))
		for j, c := range res.Columns {
			row[j] = rec.Text(c.Field)
		}
		rows[i] = row
	}
	return rows
}

// PrintJSON writes records exactly as the backend sent them.
func PrintJSON(w io.Writer, recs []api.Record) error {
	if recs == nil {
		recs = []api.Record{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(recs)
}

// PrintYAML writes records as a YAML sequence.
func PrintYAML(w io.Writer, recs []api.Record) error {
	plain := make([]map[string]any, len(recs))
	for i, rec := range recs {
		plain[i] = yamlSafe(map[string]any(rec)).(map[string]any)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(plain); err != nil {
		return err
	}
	return enc.Close()
}

// yamlSafe converts json.Number and nested Records into types yaml.v3
// renders as plain scalars and mappings.
func yamlSafe(v any) any {
	switch val := v.(type) {
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i
		}
		if f, err := val.Float64(); err == nil {
			return f
		}
		return val.String()
	case api.Record:
		return yamlSafe(map[string]any(val))
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, inner := range val {
			out[k] = yamlSafe(inner)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, inner := range val {
			out[i] = yamlSafe(inner)
		}
		return out
	default:
		return val
	}
}

// PrintRaw writes tab-separated rows without a header, for piping.
func PrintRaw(w io.Writer, rows [][]string) {
	for _, row := range rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
}

// PrintPlain prints an aligned table for non-TTY output.
// Shows full content without truncation.
func PrintPlain(w io.Writer, colNames []string, rows [][]string) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "(no records)")
		return
	}

	colWidths := make([]int, len(colNames))
	for i, name := range colNames {
		colWidths[i] = lipgloss.Width(name)
	}
	for _, row := range rows {
		for i, val := range row {
			if i < len(colWidths) && lipgloss.Width(val) > colWidths[i] {
				colWidths[i] = lipgloss.Width(val)
			}
		}
	}

	line := func(cells []string) {
		parts := make([]string, len(colWidths))
		for i := range colWidths {
			val := ""
			if i < len(cells) {
				val = cells[i]
			}
			parts[i] = pad(val, colWidths[i])
		}
		fmt.Fprintln(w, strings.TrimRight(strings.Join(parts, "  "), " "))
	}

	line(colNames)
	seps := make([]string, len(colWidths))
	for i, cw := range colWidths {
		seps[i] = strings.Repeat("─", cw)
	}
	line(seps)
	for _, row := range rows {
		line(row)
	}
}

// pad adds spaces to reach the desired width (no truncation).
func pad(s string, width int) string {
	n := lipgloss.Width(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

// Truncate shortens a string to fit width, adding "…" if needed.
func Truncate(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	if width <= 1 {
		return string(runes[:max(width, 0)])
	}
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}

// PadOrTruncate pads or truncates to exact width.
func PadOrTruncate(s string, width int) string {
	return pad(Truncate(s, width), width)
}
