// Package table renders list views: an interactive paginated browser for
// terminals, and plain, JSON, YAML and raw printers for everything else.
package table

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/haulops/haulctl/internal/listview"
	"github.com/haulops/haulctl/internal/ui/styles"
	"golang.org/x/term"
)

// DisplayOptions controls how a view is rendered.
type DisplayOptions struct {
	// JSON outputs the current page as a JSON array of records.
	JSON bool
	// YAML outputs the current page as a YAML sequence.
	YAML bool
	// Raw outputs tab-separated rows (for piping).
	Raw bool
	// NoPager forces plain table output even on a TTY.
	NoPager bool

	Browse BrowseOptions
}

// Show picks the output mode from the options and the environment. The
// interactive browser takes over only when w is a terminal.
func Show(ctx context.Context, w io.Writer, v *listview.View, opts DisplayOptions) error {
	if Interactive(w, opts) {
		if opts.Browse.Output == nil {
			opts.Browse.Output = w
		}
		return Browse(ctx, v, opts.Browse)
	}
	return Print(w, v, opts)
}

// Interactive reports whether Show would start the browser for w.
func Interactive(w io.Writer, opts DisplayOptions) bool {
	if opts.JSON || opts.YAML || opts.Raw || opts.NoPager {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Print writes the view's current page without any interaction.
func Print(w io.Writer, v *listview.View, opts DisplayOptions) error {
	snap := v.Snapshot()
	res := v.Resource()

	switch {
	case opts.JSON:
		return PrintJSON(w, snap.Visible)
	case opts.YAML:
		return PrintYAML(w, snap.Visible)
	case opts.Raw:
		PrintRaw(w, Cells(res, snap.Visible))
		return nil
	}

	PrintPlain(w, res.ColumnTitles(), Cells(res, snap.Visible))
	if snap.Banner != "" {
		fmt.Fprintln(w, styles.Banner(snap.Banner))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, styles.MutedMsg(Footer(snap)))
	return nil
}

// Footer summarizes position in the filtered collection, e.g.
// "11-20 of 95 · page 2/10 · 1 [2] 3 4 5 … 10".
func Footer(s listview.Snapshot) string {
	if s.Matches == 0 {
		if s.Search != "" {
			return fmt.Sprintf("no %s match %q", strings.ToLower(s.Section), s.Search)
		}
		return fmt.Sprintf("no %s", strings.ToLower(s.Section))
	}

	parts := []string{fmt.Sprintf("%d-%d of %d", s.PageStart+1, s.PageEnd, s.Matches)}
	if s.Matches != s.Total {
		parts[0] += fmt.Sprintf(" (filtered from %d)", s.Total)
	}
	parts = append(parts, fmt.Sprintf("page %d/%d", s.Page+1, s.TotalPages))
	if s.TotalPages > 1 {
		parts = append(parts, PagerText(s.Window, s.Page+1, nil))
	}
	return strings.Join(parts, " · ")
}

// PagerText renders a page window with the current page bracketed, or
// passed through highlight when that is non-nil.
func PagerText(window []listview.PageLink, current int, highlight func(string) string) string {
	labels := make([]string, len(window))
	for i, l := range window {
		text := l.String()
		if !l.Gap && l.Page == current {
			if highlight != nil {
				text = highlight(text)
			} else {
				text = "[" + text + "]"
			}
		}
		labels[i] = text
	}
	return strings.Join(labels, " ")
}
