// Package listview holds the state behind every roster screen: an
// in-memory collection loaded from the backend, a case-insensitive search
// over the resource's search fields, and page/rows-per-page bookkeeping.
//
// A View never patches its collection after a mutation. Create, Update and
// Remove only talk to the backend; the caller reloads with Load.
package listview

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/haulops/haulctl/internal/api"
	"github.com/haulops/haulctl/internal/util"
	"go.uber.org/zap"
)

// RowsPerPageOptions are the page sizes a View accepts.
var RowsPerPageOptions = []int{5, 10, 15, 20}

// DefaultRowsPerPage is used when no size is configured.
const DefaultRowsPerPage = 10

// ErrSuperseded is returned by Load when a newer load already landed and
// this response was discarded.
var ErrSuperseded = errors.New("load superseded by a newer response")

// Backend is the subset of the API client a View needs.
type Backend interface {
	List(ctx context.Context, res api.Resource) ([]api.Record, error)
	Create(ctx context.Context, res api.Resource, fields api.Record) error
	Update(ctx context.Context, res api.Resource, id string, fields api.Record) error
	Delete(ctx context.Context, res api.Resource, id string) error
}

// View is one screen's collection plus its filter and page state.
type View struct {
	res     api.Resource
	backend Backend
	log     *zap.Logger
	now     func() time.Time

	mu          sync.Mutex
	records     []api.Record
	filtered    []api.Record
	search      string
	page        int
	rowsPerPage int
	inFlight    int
	issued      uint64 // sequence of the newest Load started
	applied     uint64 // sequence of the response currently shown
	banner      string
	loadedAt    time.Time
}

// Option customizes a View.
type Option func(*View)

// WithLogger attaches a logger.
func WithLogger(l *zap.Logger) Option {
	return func(v *View) {
		if l != nil {
			v.log = l
		}
	}
}

// WithRowsPerPage sets the initial page size; invalid sizes are ignored.
func WithRowsPerPage(n int) Option {
	return func(v *View) {
		if validRows(n) {
			v.rowsPerPage = n
		}
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(v *View) { v.now = now }
}

// New creates an empty view of res backed by backend.
func New(res api.Resource, backend Backend, opts ...Option) *View {
	v := &View{
		res:         res,
		backend:     backend,
		log:         zap.NewNop(),
		now:         time.Now,
		rowsPerPage: DefaultRowsPerPage,
		records:     []api.Record{},
		filtered:    []api.Record{},
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Resource returns the resource the view shows.
func (v *View) Resource() api.Resource {
	return v.res
}

// ═══════════════════════════════════════════════════════════════════════════
// Loading
// ═══════════════════════════════════════════════════════════════════════════

// Load fetches the collection. On failure the previous collection stays in
// place and the banner holds the display message. A response older than the
// one already shown is dropped with ErrSuperseded.
func (v *View) Load(ctx context.Context) error {
	v.mu.Lock()
	v.issued++
	seq := v.issued
	v.inFlight++
	v.mu.Unlock()

	recs, err := v.backend.List(ctx, v.res)

	v.mu.Lock()
	defer v.mu.Unlock()
	v.inFlight--

	if seq < v.applied {
		v.log.Debug("discarding stale load",
			zap.String("resource", v.res.Name),
			zap.Uint64("seq", seq),
			zap.Uint64("applied", v.applied))
		return ErrSuperseded
	}
	if err != nil {
		v.banner = api.DisplayMessage(err)
		v.log.Warn("load failed", zap.String("resource", v.res.Name), zap.Error(err))
		return err
	}

	v.applied = seq
	v.records = recs
	v.loadedAt = v.now()
	v.banner = ""
	v.refilter()
	v.clamp()
	return nil
}

// Loading reports whether any Load is in flight.
func (v *View) Loading() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.inFlight > 0
}

// LoadedAt is when the shown collection arrived; zero before the first load.
func (v *View) LoadedAt() time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loadedAt
}

// ═══════════════════════════════════════════════════════════════════════════
// Search and paging
// ═══════════════════════════════════════════════════════════════════════════

// SetSearchTerm filters eagerly on the raw text and returns to page 0.
func (v *View) SetSearchTerm(text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.search = text
	v.refilter()
	v.page = 0
}

// SearchTerm returns the raw search text.
func (v *View) SearchTerm() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.search
}

// SetRowsPerPage changes the page size and returns to page 0.
func (v *View) SetRowsPerPage(n int) error {
	if !validRows(n) {
		return util.ErrInvalidRowsCount
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.rowsPerPage = n
	v.page = 0
	return nil
}

// RowsPerPage returns the page size.
func (v *View) RowsPerPage() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.rowsPerPage
}

// GotoPage moves to page n (0-based), clamped into the valid range.
func (v *View) GotoPage(n int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.page = n
	v.clamp()
}

// NextPage advances one page if there is one.
func (v *View) NextPage() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.page++
	v.clamp()
}

// PrevPage goes back one page if there is one.
func (v *View) PrevPage() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.page--
	v.clamp()
}

// Page returns the current page (0-based).
func (v *View) Page() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.page
}

// Len returns the size of the whole collection.
func (v *View) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.records)
}

// Filtered returns a copy of the records matching the search term.
func (v *View) Filtered() []api.Record {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]api.Record(nil), v.filtered...)
}

// Visible returns the current page of the filtered records.
func (v *View) Visible() []api.Record {
	v.mu.Lock()
	defer v.mu.Unlock()
	start, end := v.bounds()
	return append([]api.Record(nil), v.filtered[start:end]...)
}

// TotalPages is ceil(filtered/rowsPerPage); 0 for an empty result.
func (v *View) TotalPages() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.totalPages()
}

// PageStart is the index of the first visible filtered record.
func (v *View) PageStart() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	start, _ := v.bounds()
	return start
}

// PageEnd is one past the index of the last visible filtered record.
func (v *View) PageEnd() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	_, end := v.bounds()
	return end
}

// Find returns the loaded record with the given id.
func (v *View) Find(id string) (api.Record, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, r := range v.records {
		if r.ID(v.res) == id {
			return r, true
		}
	}
	return nil, false
}

// ═══════════════════════════════════════════════════════════════════════════
// Banner
// ═══════════════════════════════════════════════════════════════════════════

// Banner returns the message of the last failed operation, if any.
func (v *View) Banner() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.banner
}

// DismissBanner clears the banner.
func (v *View) DismissBanner() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.banner = ""
}

func (v *View) fail(op string, err error) error {
	msg := api.DisplayMessage(err)
	v.mu.Lock()
	v.banner = msg
	v.mu.Unlock()
	v.log.Warn(op+" failed", zap.String("resource", v.res.Name), zap.Error(err))
	return err
}

// ═══════════════════════════════════════════════════════════════════════════
// Mutations
// ═══════════════════════════════════════════════════════════════════════════

// Create adds a record. The local collection is untouched; call Load after.
func (v *View) Create(ctx context.Context, fields api.Record) error {
	if err := v.backend.Create(ctx, v.res, fields); err != nil {
		return v.fail("create", err)
	}
	return nil
}

// Update edits record id. The local collection is untouched; call Load after.
func (v *View) Update(ctx context.Context, id string, fields api.Record) error {
	if err := v.backend.Update(ctx, v.res, id, fields); err != nil {
		return v.fail("update", err)
	}
	return nil
}

// Remove deletes record id. The local collection is untouched; call Load after.
func (v *View) Remove(ctx context.Context, id string) error {
	if err := v.backend.Delete(ctx, v.res, id); err != nil {
		return v.fail("delete", err)
	}
	return nil
}

// ═══════════════════════════════════════════════════════════════════════════
// Internals (callers hold v.mu)
// ═══════════════════════════════════════════════════════════════════════════

func (v *View) refilter() {
	term := strings.ToLower(v.search)
	if term == "" {
		v.filtered = append([]api.Record(nil), v.records...)
		return
	}
	v.filtered = v.filtered[:0:0]
	for _, rec := range v.records {
		if matches(rec, v.res.SearchFields, term) {
			v.filtered = append(v.filtered, rec)
		}
	}
}

func matches(rec api.Record, fields []string, lowerTerm string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(rec.Text(f)), lowerTerm) {
			return true
		}
	}
	return false
}

func (v *View) totalPages() int {
	n := len(v.filtered)
	return (n + v.rowsPerPage - 1) / v.rowsPerPage
}

func (v *View) clamp() {
	last := v.totalPages() - 1
	if last < 0 {
		last = 0
	}
	if v.page > last {
		v.page = last
	}
	if v.page < 0 {
		v.page = 0
	}
}

func (v *View) bounds() (int, int) {
	n := len(v.filtered)
	start := v.page * v.rowsPerPage
	if start > n {
		start = n
	}
	end := start + v.rowsPerPage
	if end > n {
		end = n
	}
	return start, end
}

func validRows(n int) bool {
	for _, opt := range RowsPerPageOptions {
		if n == opt {
			return true
		}
	}
	return false
}
