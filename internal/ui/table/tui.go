package table

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/haulops/haulctl/internal/api"
	"github.com/haulops/haulctl/internal/listview"
	"github.com/haulops/haulctl/internal/ui/styles"
	"github.com/haulops/haulctl/internal/util"
)

// ═══════════════════════════════════════════════════════════════════════════
// Constants
// ═══════════════════════════════════════════════════════════════════════════

const (
	defaultColWidth = 24
	minColWidth     = 3
	hiddenColWidth  = 3

	// DefaultFlashDuration is how long a flash message stays in the footer.
	DefaultFlashDuration = 4 * time.Second
)

// Column display state
type colState int

const (
	colStateDefault  colState = iota // truncated to defaultColWidth
	colStateExpanded                 // full width
	colStateHidden                   // minimal width (just "…")
)

type browseMode int

const (
	modeNormal browseMode = iota
	modeSearch
	modeConfirmDelete
)

// Exit mode: what to print after quitting the browser
type exitMode int

const (
	exitNormal exitMode = iota
	exitJSON
	exitRaw
	exitPlain
)

// BrowseOptions configures the interactive browser.
type BrowseOptions struct {
	// FlashDuration is how long flash messages and error banners stay up.
	FlashDuration time.Duration
	// Export writes the filtered collection and reports where and how many
	// rows. Nil disables the export key.
	Export func(v *listview.View) (path string, rows int, err error)
	// Output receives J/R/P prints after the browser exits; nil = stdout.
	Output io.Writer
}

// ═══════════════════════════════════════════════════════════════════════════
// Model
// ═══════════════════════════════════════════════════════════════════════════

type browser struct {
	ctx  context.Context
	view *listview.View
	res  api.Resource
	opts BrowseOptions

	snap      listview.Snapshot
	colStates []colState
	cursor    int // row within the visible page
	colCursor int
	colOffset int // first rendered column
	width     int
	height    int
	ready     bool

	mode          browseMode
	searchInput   textinput.Model
	spin          spinner.Model
	pendingLoads  int
	pendingDelete string
	exit          exitMode

	flash    string
	flashErr bool
	flashSeq int
}

type loadedMsg struct{ err error }

type deletedMsg struct {
	id  string
	err error
}

type exportedMsg struct {
	path string
	rows int
	err  error
}

type flashClearMsg struct{ seq int }

// ═══════════════════════════════════════════════════════════════════════════
// Key Bindings
// ═══════════════════════════════════════════════════════════════════════════

type browseKeyMap struct {
	Up         key.Binding
	Down       key.Binding
	Left       key.Binding
	Right      key.Binding
	PrevPage   key.Binding
	NextPage   key.Binding
	FirstPage  key.Binding
	LastPage   key.Binding
	MoreRows   key.Binding
	FewerRows  key.Binding
	Expand     key.Binding
	Hide       key.Binding
	Search     key.Binding
	Reload     key.Binding
	Export     key.Binding
	Delete     key.Binding
	YankCell   key.Binding
	YankRow    key.Binding
	PrintJSON  key.Binding
	PrintRaw   key.Binding
	PrintPlain key.Binding
	Quit       key.Binding
}

var browseKeys = browseKeyMap{
	Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Left:       key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "prev column")),
	Right:      key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "next column")),
	PrevPage:   key.NewBinding(key.WithKeys("[", "pgup", "ctrl+u"), key.WithHelp("[", "prev page")),
	NextPage:   key.NewBinding(key.WithKeys("]", "pgdown", "ctrl+d"), key.WithHelp("]", "next page")),
	FirstPage:  key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "first page")),
	LastPage:   key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "last page")),
	MoreRows:   key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "more rows")),
	FewerRows:  key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "fewer rows")),
	Expand:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "expand/default")),
	Hide:       key.NewBinding(key.WithKeys("H"), key.WithHelp("H", "hide/default")),
	Search:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	Reload:     key.NewBinding(key.WithKeys("r", "ctrl+r"), key.WithHelp("r", "reload")),
	Export:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export csv")),
	Delete:     key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
	YankCell:   key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy cell")),
	YankRow:    key.NewBinding(key.WithKeys("Y"), key.WithHelp("Y", "copy row")),
	PrintJSON:  key.NewBinding(key.WithKeys("J"), key.WithHelp("J", "print as JSON")),
	PrintRaw:   key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "print raw")),
	PrintPlain: key.NewBinding(key.WithKeys("P"), key.WithHelp("P", "print table")),
	Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
}

// ═══════════════════════════════════════════════════════════════════════════
// Entry Point
// ═══════════════════════════════════════════════════════════════════════════

// Browse runs the interactive browser over v until the user quits. If the
// view has never loaded, the first load starts immediately.
func Browse(ctx context.Context, v *listview.View, opts BrowseOptions) error {
	m := newBrowser(ctx, v, opts)

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return err
	}

	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	if fm, ok := final.(browser); ok {
		recs := v.Filtered()
		switch fm.exit {
		case exitJSON:
			return PrintJSON(out, recs)
		case exitRaw:
			PrintRaw(out, Cells(v.Resource(), recs))
		case exitPlain:
			PrintPlain(out, v.Resource().ColumnTitles(), Cells(v.Resource(), recs))
		}
	}
	return nil
}

func newBrowser(ctx context.Context, v *listview.View, opts BrowseOptions) browser {
	if opts.FlashDuration <= 0 {
		opts.FlashDuration = DefaultFlashDuration
	}

	ti := textinput.New()
	ti.Placeholder = "search..."
	ti.CharLimit = 100
	ti.Width = 30

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.Accent)

	res := v.Resource()
	m := browser{
		ctx:         ctx,
		view:        v,
		res:         res,
		opts:        opts,
		colStates:   make([]colState, len(res.Columns)),
		searchInput: ti,
		spin:        sp,
	}
	if v.LoadedAt().IsZero() {
		m.pendingLoads = 1
	}
	m.refresh()
	return m
}

// ═══════════════════════════════════════════════════════════════════════════
// Bubble Tea Interface
// ═══════════════════════════════════════════════════════════════════════════

func (m browser) Init() tea.Cmd {
	if m.pendingLoads > 0 {
		return tea.Batch(m.loadCmd(), m.spin.Tick)
	}
	return nil
}

func (m browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case spinner.TickMsg:
		if m.pendingLoads == 0 {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case loadedMsg:
		if m.pendingLoads > 0 {
			m.pendingLoads--
		}
		m.refresh()
		if msg.err != nil && !errors.Is(msg.err, listview.ErrSuperseded) {
			return m, m.setFlash(api.DisplayMessage(msg.err), true)
		}

	case deletedMsg:
		m.refresh()
		if msg.err != nil {
			return m, m.setFlash(api.DisplayMessage(msg.err), true)
		}
		return m, m.setFlash("Deleted "+msg.id, false)

	case exportedMsg:
		if msg.err != nil {
			return m, m.setFlash("Export failed: "+msg.err.Error(), true)
		}
		return m, m.setFlash(fmt.Sprintf("Exported %d rows to %s", msg.rows, msg.path), false)

	case flashClearMsg:
		if msg.seq == m.flashSeq {
			if m.flashErr {
				m.view.DismissBanner()
			}
			m.flash, m.flashErr = "", false
			m.refresh()
		}

	case tea.KeyMsg:
		switch m.mode {
		case modeSearch:
			return m.updateSearch(msg)
		case modeConfirmDelete:
			return m.updateConfirm(msg)
		}
		return m.updateNormal(msg)
	}

	return m, nil
}

func (m browser) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, browseKeys.Quit):
		return m, tea.Quit

	case key.Matches(msg, browseKeys.Search):
		m.mode = modeSearch
		m.searchInput.SetValue(m.snap.Search)
		m.searchInput.CursorEnd()
		m.searchInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, browseKeys.Up):
		if m.cursor > 0 {
			m.cursor--
		} else if m.snap.Page > 0 {
			m.view.PrevPage()
			m.refresh()
			m.cursor = len(m.snap.Visible) - 1
		}

	case key.Matches(msg, browseKeys.Down):
		if m.cursor < len(m.snap.Visible)-1 {
			m.cursor++
		} else if m.snap.Page < m.snap.TotalPages-1 {
			m.view.NextPage()
			m.refresh()
			m.cursor = 0
		}

	case key.Matches(msg, browseKeys.Left):
		if m.colCursor > 0 {
			m.colCursor--
			m.ensureColVisible()
		}

	case key.Matches(msg, browseKeys.Right):
		if m.colCursor < len(m.res.Columns)-1 {
			m.colCursor++
			m.ensureColVisible()
		}

	case key.Matches(msg, browseKeys.PrevPage):
		m.view.PrevPage()
		m.cursor = 0
		m.refresh()

	case key.Matches(msg, browseKeys.NextPage):
		m.view.NextPage()
		m.cursor = 0
		m.refresh()

	case key.Matches(msg, browseKeys.FirstPage):
		m.view.GotoPage(0)
		m.cursor = 0
		m.refresh()

	case key.Matches(msg, browseKeys.LastPage):
		m.view.GotoPage(m.snap.TotalPages - 1)
		m.cursor = 0
		m.refresh()

	case key.Matches(msg, browseKeys.MoreRows):
		return m, m.stepRows(1)

	case key.Matches(msg, browseKeys.FewerRows):
		return m, m.stepRows(-1)

	case key.Matches(msg, browseKeys.Expand):
		m.toggleCol(colStateExpanded)

	case key.Matches(msg, browseKeys.Hide):
		m.toggleCol(colStateHidden)

	case key.Matches(msg, browseKeys.Reload):
		m.pendingLoads++
		return m, tea.Batch(m.loadCmd(), m.spin.Tick)

	case key.Matches(msg, browseKeys.Export):
		if m.opts.Export == nil {
			return m, m.setFlash("Export is not available here", true)
		}
		return m, m.exportCmd()

	case key.Matches(msg, browseKeys.Delete):
		rec, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.pendingDelete = rec.ID(m.res)
		m.mode = modeConfirmDelete

	case key.Matches(msg, browseKeys.YankCell):
		return m, m.yankCell()

	case key.Matches(msg, browseKeys.YankRow):
		return m, m.yankRow()

	case key.Matches(msg, browseKeys.PrintJSON):
		m.exit = exitJSON
		return m, tea.Quit

	case key.Matches(msg, browseKeys.PrintRaw):
		m.exit = exitRaw
		return m, tea.Quit

	case key.Matches(msg, browseKeys.PrintPlain):
		m.exit = exitPlain
		return m, tea.Quit
	}

	return m, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// Search
// ═══════════════════════════════════════════════════════════════════════════

func (m browser) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeNormal
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		m.view.SetSearchTerm("")
		m.cursor = 0
		m.refresh()
		return m, nil
	case tea.KeyEnter:
		m.mode = modeNormal
		m.searchInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)

	// Live filter as the user types
	if m.searchInput.Value() != m.snap.Search {
		m.view.SetSearchTerm(m.searchInput.Value())
		m.cursor = 0
		m.refresh()
	}
	return m, cmd
}

// ═══════════════════════════════════════════════════════════════════════════
// Delete confirmation
// ═══════════════════════════════════════════════════════════════════════════

func (m browser) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	id := m.pendingDelete
	m.mode = modeNormal
	m.pendingDelete = ""

	if msg.String() == "y" || msg.String() == "Y" {
		return m, m.deleteCmd(id)
	}
	return m, m.setFlash("Delete cancelled", false)
}

// ═══════════════════════════════════════════════════════════════════════════
// Commands
// ═══════════════════════════════════════════════════════════════════════════

func (m browser) loadCmd() tea.Cmd {
	v, ctx := m.view, m.ctx
	return func() tea.Msg {
		return loadedMsg{err: v.Load(ctx)}
	}
}

// deleteCmd removes the record and reloads; the view never patches itself.
func (m browser) deleteCmd(id string) tea.Cmd {
	v, ctx := m.view, m.ctx
	return func() tea.Msg {
		if err := v.Remove(ctx, id); err != nil {
			return deletedMsg{id: id, err: err}
		}
		err := v.Load(ctx)
		if errors.Is(err, listview.ErrSuperseded) {
			err = nil
		}
		return deletedMsg{id: id, err: err}
	}
}

func (m browser) exportCmd() tea.Cmd {
	v, export := m.view, m.opts.Export
	return func() tea.Msg {
		path, rows, err := export(v)
		return exportedMsg{path: path, rows: rows, err: err}
	}
}

// setFlash shows a footer message that clears itself after FlashDuration.
// Only the newest flash is cleared by its tick.
func (m *browser) setFlash(msg string, isErr bool) tea.Cmd {
	m.flashSeq++
	seq := m.flashSeq
	m.flash, m.flashErr = msg, isErr
	return tea.Tick(m.opts.FlashDuration, func(time.Time) tea.Msg {
		return flashClearMsg{seq: seq}
	})
}

func (m *browser) stepRows(dir int) tea.Cmd {
	opts := listview.RowsPerPageOptions
	i := slices.Index(opts, m.snap.RowsPerPage) + dir
	if i < 0 || i >= len(opts) {
		return nil
	}
	if err := m.view.SetRowsPerPage(opts[i]); err != nil {
		return m.setFlash(err.Error(), true)
	}
	m.cursor = 0
	m.refresh()
	return nil
}

// ═══════════════════════════════════════════════════════════════════════════
// Clipboard (yank)
// ═══════════════════════════════════════════════════════════════════════════

func (m *browser) yankCell() tea.Cmd {
	rec, ok := m.selected()
	if !ok {
		return nil
	}
	val := rec.Text(m.res.Columns[m.colCursor].Field)
	if err := clipboard.WriteAll(val); err != nil {
		return m.setFlash(fmt.Sprintf("clipboard error: %s", err), true)
	}
	return m.setFlash("Copied: "+Truncate(val, 40), false)
}

func (m *browser) yankRow() tea.Cmd {
	rec, ok := m.selected()
	if !ok {
		return nil
	}
	row := Cells(m.res, []api.Record{rec})[0]
	if err := clipboard.WriteAll(strings.Join(row, "\t")); err != nil {
		return m.setFlash(fmt.Sprintf("clipboard error: %s", err), true)
	}
	return m.setFlash(fmt.Sprintf("Copied row (%d columns)", len(row)), false)
}

// ═══════════════════════════════════════════════════════════════════════════
// Helpers
// ═══════════════════════════════════════════════════════════════════════════

// refresh re-reads the view and keeps the cursor on the page.
func (m *browser) refresh() {
	m.snap = m.view.Snapshot()
	if m.cursor >= len(m.snap.Visible) {
		m.cursor = len(m.snap.Visible) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m browser) selected() (api.Record, bool) {
	if m.cursor < 0 || m.cursor >= len(m.snap.Visible) {
		return nil, false
	}
	return m.snap.Visible[m.cursor], true
}

func (m *browser) toggleCol(state colState) {
	if m.colCursor >= len(m.colStates) {
		return
	}
	if m.colStates[m.colCursor] == state {
		m.colStates[m.colCursor] = colStateDefault
	} else {
		m.colStates[m.colCursor] = state
	}
	m.ensureColVisible()
}

func (m browser) colWidth(i int, rows [][]string) int {
	if m.colStates[i] == colStateHidden {
		return hiddenColWidth
	}
	w := lipgloss.Width(m.res.Columns[i].Title)
	for _, row := range rows {
		w = max(w, lipgloss.Width(row[i]))
	}
	if m.colStates[i] == colStateDefault {
		w = min(w, defaultColWidth)
	}
	return max(w, minColWidth)
}

// ensureColVisible scrolls whole columns so the cursor column fits.
func (m *browser) ensureColVisible() {
	if m.colCursor < m.colOffset {
		m.colOffset = m.colCursor
		return
	}
	if m.width <= 0 {
		return
	}
	rows := Cells(m.res, m.snap.Visible)
	for m.colOffset < m.colCursor {
		used := 0
		for i := m.colOffset; i <= m.colCursor; i++ {
			used += m.colWidth(i, rows) + 2
		}
		if used <= m.width {
			break
		}
		m.colOffset++
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// View
// ═══════════════════════════════════════════════════════════════════════════

func (m browser) View() string {
	if !m.ready {
		return "Loading..."
	}

	var sb strings.Builder
	s := m.snap

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(styles.Accent)
	if s.Matches != s.Total {
		sb.WriteString(headerStyle.Render(fmt.Sprintf("%s: %d/%d records", s.Section, s.Matches, s.Total)))
	} else {
		sb.WriteString(headerStyle.Render(fmt.Sprintf("%s: %d records", s.Section, s.Total)))
	}
	if m.pendingLoads > 0 {
		sb.WriteString("  " + m.spin.View() + styles.MutedMsg(" loading"))
	} else if !s.LoadedAt.IsZero() {
		sb.WriteString(styles.MutedMsg("  updated " + util.RelativeTime(s.LoadedAt)))
	}
	sb.WriteString("\n")

	switch {
	case m.mode == modeSearch:
		sb.WriteString(fmt.Sprintf("/%s\n", m.searchInput.View()))
	case s.Search != "":
		sb.WriteString(styles.MutedMsg(fmt.Sprintf("filter: %s", s.Search)) + "\n")
	default:
		sb.WriteString("\n")
	}

	sb.WriteString(m.renderTable())
	sb.WriteString("\n")
	sb.WriteString(m.renderPager())
	sb.WriteString("\n")

	switch {
	case m.mode == modeConfirmDelete:
		sb.WriteString(styles.WarningMsg(fmt.Sprintf("Delete %s? (y/N)", m.pendingDelete)))
	case m.flash != "" && m.flashErr:
		sb.WriteString(styles.Banner(m.flash))
	case m.flash != "":
		sb.WriteString(styles.SuccessMsg(m.flash))
	case s.Banner != "":
		sb.WriteString(styles.Banner(s.Banner))
	case m.mode == modeSearch:
		sb.WriteString(styles.MutedMsg("enter confirm  esc clear"))
	default:
		sb.WriteString(styles.MutedMsg("↑↓←→ nav  [ ] page  +/- rows  / search  r reload  e export  d delete  y copy  J json  q quit"))
	}

	return sb.String()
}

func (m browser) renderTable() string {
	var sb strings.Builder
	s := m.snap

	if len(s.Visible) == 0 {
		switch {
		case m.pendingLoads > 0:
			return styles.MutedMsg("fetching "+strings.ToLower(s.Section)+"...") + "\n"
		case s.Search != "":
			return styles.MutedMsg(fmt.Sprintf("nothing matches %q", s.Search)) + "\n"
		default:
			return styles.MutedMsg("no records") + "\n"
		}
	}

	rows := Cells(m.res, s.Visible)
	widths := make([]int, len(m.res.Columns))
	for i := range widths {
		widths[i] = m.colWidth(i, rows)
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(styles.Info)
	selectedHeaderStyle := lipgloss.NewStyle().Bold(true).Foreground(styles.Accent)
	selectedRowStyle := lipgloss.NewStyle().Background(styles.BgHighlight)
	selectedCellStyle := lipgloss.NewStyle().Background(styles.Accent).Foreground(lipgloss.Color("#000000"))
	highlightStyle := lipgloss.NewStyle().Foreground(styles.Warning)
	clip := lipgloss.NewStyle().MaxWidth(max(m.width, 1))

	var header, sep strings.Builder
	for i := m.colOffset; i < len(widths); i++ {
		title := m.res.Columns[i].Title
		if m.colStates[i] == colStateHidden {
			title = "…"
		}
		cell := PadOrTruncate(title, widths[i])
		if i == m.colCursor {
			header.WriteString(styles.Render(selectedHeaderStyle, cell))
		} else {
			header.WriteString(styles.Render(headerStyle, cell))
		}
		header.WriteString("  ")
		sep.WriteString(strings.Repeat("─", widths[i]) + "  ")
	}
	sb.WriteString(clip.Render(header.String()) + "\n")
	sb.WriteString(clip.Render(styles.Mute(sep.String())) + "\n")

	lowerTerm := strings.ToLower(s.Search)
	for r, row := range rows {
		var line strings.Builder
		for i := m.colOffset; i < len(widths); i++ {
			val := row[i]
			if m.colStates[i] == colStateHidden {
				val = "…"
			}
			cell := PadOrTruncate(val, widths[i])
			switch {
			case r == m.cursor && i == m.colCursor:
				cell = styles.Render(selectedCellStyle, cell)
			case r == m.cursor:
				cell = styles.Render(selectedRowStyle, cell)
			case lowerTerm != "" && strings.Contains(strings.ToLower(val), lowerTerm):
				cell = styles.Render(highlightStyle, cell)
			case m.res.Columns[i].Field == "status":
				cell = styles.Status(cell)
			}
			line.WriteString(cell)
			line.WriteString("  ")
		}
		sb.WriteString(clip.Render(line.String()) + "\n")
	}

	if m.colOffset > 0 {
		sb.WriteString(styles.MutedMsg("◀ more columns"))
	}
	return sb.String()
}

func (m browser) renderPager() string {
	s := m.snap
	if s.TotalPages == 0 {
		return styles.MutedMsg(fmt.Sprintf("rows %d", s.RowsPerPage))
	}
	pager := PagerText(s.Window, s.Page+1, func(t string) string {
		if styles.NoColor() {
			return "[" + t + "]"
		}
		return styles.CurrentPageStyle.Render(t)
	})
	prev, next := "‹", "›"
	if s.Page == 0 {
		prev = " "
	}
	if s.Page >= s.TotalPages-1 {
		next = " "
	}
	return fmt.Sprintf("%s %s %s   %s", prev, pager, next,
		styles.MutedMsg(fmt.Sprintf("%d-%d of %d · rows %d", s.PageStart+1, s.PageEnd, s.Matches, s.RowsPerPage)))
}
