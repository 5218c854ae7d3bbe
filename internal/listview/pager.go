package listview

import (
	"strconv"
	"time"

	"github.com/haulops/haulctl/internal/api"
)

// windowSize is how many consecutive page numbers the pager shows.
const windowSize = 5

// Ellipsis marks a gap in the pager.
const Ellipsis = "…"

// PageLink is one pager entry: a 1-based page number, or a gap.
type PageLink struct {
	Page int
	Gap  bool
}

func (l PageLink) String() string {
	if l.Gap {
		return Ellipsis
	}
	return strconv.Itoa(l.Page)
}

// Window returns the pager entries for 0-based page p of total pages:
// up to five numbers centred on p+1, with "1 …" and "… total" added when
// the window does not reach the ends.
func Window(p, total int) []PageLink {
	if total <= 0 {
		return nil
	}
	current := p + 1
	start := max(1, current-2)
	end := min(total, start+windowSize-1)

	var links []PageLink
	if start > 1 {
		links = append(links, PageLink{Page: 1}, PageLink{Gap: true})
	}
	for n := start; n <= end; n++ {
		links = append(links, PageLink{Page: n})
	}
	if end < total {
		links = append(links, PageLink{Gap: true}, PageLink{Page: total})
	}
	return links
}

// Labels renders a window as strings, e.g. ["1", "…", "5", "6"].
func Labels(links []PageLink) []string {
	out := make([]string, len(links))
	for i, l := range links {
		out[i] = l.String()
	}
	return out
}

// Snapshot is a consistent copy of everything a renderer needs.
type Snapshot struct {
	Section     string
	Search      string
	Page        int // 0-based
	RowsPerPage int
	TotalPages  int
	Total       int // whole collection
	Matches     int // filtered collection
	PageStart   int
	PageEnd     int
	Visible     []api.Record
	Window      []PageLink
	Loading     bool
	Banner      string
	LoadedAt    time.Time
}

// Snapshot captures the view's state under one lock.
func (v *View) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	start, end := v.bounds()
	total := v.totalPages()
	return Snapshot{
		Section:     v.res.Section,
		Search:      v.search,
		Page:        v.page,
		RowsPerPage: v.rowsPerPage,
		TotalPages:  total,
		Total:       len(v.records),
		Matches:     len(v.filtered),
		PageStart:   start,
		PageEnd:     end,
		Visible:     append([]api.Record(nil), v.filtered[start:end]...),
		Window:      Window(v.page, total),
		Loading:     v.inFlight > 0,
		Banner:      v.banner,
		LoadedAt:    v.loadedAt,
	}
}
