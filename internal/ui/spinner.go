// Package ui holds small terminal widgets shared by commands.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/haulops/haulctl/internal/ui/styles"
	"golang.org/x/term"
)

// Spinner animates a one-line status on stderr while a request runs, so
// stdout stays clean for piped JSON or CSV.
type Spinner struct {
	message string
	out     io.Writer
	animate bool
	done    chan struct{}
	stopped sync.WaitGroup
	once    sync.Once
}

// NewSpinner creates a spinner writing to stderr.
func NewSpinner(message string) *Spinner {
	return NewSpinnerTo(os.Stderr, message, isTerminal(os.Stderr))
}

// NewSpinnerTo creates a spinner on w. Without animate it prints the
// message once and the result line on Success/Error.
func NewSpinnerTo(w io.Writer, message string, animate bool) *Spinner {
	return &Spinner{
		message: message,
		out:     w,
		animate: animate && !styles.IsAccessible(),
		done:    make(chan struct{}),
	}
}

// Start begins the spinner animation in the background
func (s *Spinner) Start() {
	if !s.animate {
		fmt.Fprintln(s.out, s.message+"...")
		return
	}

	s.stopped.Add(1)
	go func() {
		defer s.stopped.Done()
		frames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
		style := lipgloss.NewStyle().Foreground(styles.Accent)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-s.done:
				fmt.Fprint(s.out, "\r\033[K")
				return
			case <-ticker.C:
				fmt.Fprintf(s.out, "\r%s %s", styles.Render(style, frames[i%len(frames)]), s.message)
			}
		}
	}()
}

// Stop stops the spinner and waits for the line to be cleared.
func (s *Spinner) Stop() {
	s.once.Do(func() { close(s.done) })
	s.stopped.Wait()
}

// Success stops the spinner and shows a success message
func (s *Spinner) Success(msg string) {
	s.Stop()
	fmt.Fprintln(s.out, styles.SuccessMsg(msg))
}

// Error stops the spinner and shows an error message
func (s *Spinner) Error(msg string) {
	s.Stop()
	fmt.Fprintln(s.out, styles.ErrorMsg(msg))
}

// ══════════════════════════════════════════════════════════════════════════
// Progress bar for operations with known progress
// ══════════════════════════════════════════════════════════════════════════

// Progress is a bar for work with a known number of steps, such as
// mirroring several collections.
type Progress struct {
	mu      sync.Mutex
	out     io.Writer
	animate bool
	total   int
	current int
	label   string
	width   int
}

// NewProgress creates a progress bar on stderr.
func NewProgress(label string, total int) *Progress {
	return NewProgressTo(os.Stderr, label, total, isTerminal(os.Stderr))
}

// NewProgressTo creates a progress bar on w; without animate each step
// prints its own line.
func NewProgressTo(w io.Writer, label string, total int, animate bool) *Progress {
	return &Progress{
		out:     w,
		animate: animate && !styles.IsAccessible(),
		label:   label,
		total:   total,
		width:   30,
	}
}

// Increment advances by one step. Safe for concurrent use.
func (p *Progress) Increment() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current++
	p.render()
}

func (p *Progress) render() {
	if p.total <= 0 {
		return
	}
	if !p.animate {
		fmt.Fprintf(p.out, "%s: %d of %d\n", p.label, p.current, p.total)
		return
	}

	pct := float64(p.current) / float64(p.total)
	filled := int(pct * float64(p.width))
	bar := styles.Render(lipgloss.NewStyle().Foreground(styles.Success), strings.Repeat("█", filled)) +
		styles.Render(lipgloss.NewStyle().Foreground(styles.Muted), strings.Repeat("░", p.width-filled))

	fmt.Fprintf(p.out, "\r%s %s %3d%% [%d/%d]", p.label, bar, int(pct*100), p.current, p.total)
}

// Done finishes the progress bar
func (p *Progress) Done() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.animate {
		fmt.Fprintln(p.out)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
