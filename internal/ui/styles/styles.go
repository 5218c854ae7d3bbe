package styles

import (
	"fmt"
	"os"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/lipgloss"
)

// Symbols
const (
	SymbolSuccess = "✓"
	SymbolError   = "✗"
	SymbolWarning = "⚠"
	SymbolInfo    = "●"
	SymbolArrow   = "→"
)

var forceNoColor atomic.Bool

// SetNoColor disables colors regardless of the environment (--no-color).
func SetNoColor(v bool) {
	forceNoColor.Store(v)
}

// NoColor checks if colors should be disabled
func NoColor() bool {
	return forceNoColor.Load() || os.Getenv("NO_COLOR") != "" || os.Getenv("HAULCTL_NO_COLOR") != ""
}

// IsAccessible checks if accessibility mode is enabled.
// When enabled: no animations, no spinner, simplified output
func IsAccessible() bool {
	v := os.Getenv("HAULCTL_ACCESSIBLE")
	return v == "1" || v == "true"
}

// Base text styles
var (
	Bold = lipgloss.NewStyle().Bold(true)
	Dim  = lipgloss.NewStyle().Foreground(Muted)
)

var (
	SuccessStyle = lipgloss.NewStyle().Foreground(Success)
	ErrorStyle   = lipgloss.NewStyle().Foreground(Error)
	WarningStyle = lipgloss.NewStyle().Foreground(Warning)
	InfoStyle    = lipgloss.NewStyle().Foreground(Info)
	MutedStyle   = lipgloss.NewStyle().Foreground(Muted)

	IDStyle     = lipgloss.NewStyle().Foreground(ColorID)
	AmountStyle = lipgloss.NewStyle().Foreground(ColorAmount).Bold(true)
	LabelStyle  = lipgloss.NewStyle().Foreground(TextSecondary)

	DiffAddLine  = lipgloss.NewStyle().Foreground(ColorDiffAdd)
	DiffDropLine = lipgloss.NewStyle().Foreground(ColorDiffDrop)

	// Interactive TUI
	SelectedStyle = lipgloss.NewStyle().
			Background(BgHighlight).
			Foreground(TextPrimary)
	CurrentPageStyle = lipgloss.NewStyle().Bold(true).Foreground(Accent).Underline(true)
	BannerStyle      = lipgloss.NewStyle().Foreground(TextPrimary).Background(Error).Padding(0, 1)

	HelpKey = lipgloss.NewStyle().Foreground(Accent)
)

// ═══════════════════════════════════════════════════════════════════════════
// Render functions
// ═══════════════════════════════════════════════════════════════════════════

// Render applies a style if colors are enabled.
func Render(s lipgloss.Style, text string) string {
	if NoColor() {
		return text
	}
	return s.Render(text)
}

// ID formats a record identifier.
func ID(id string) string {
	return Render(IDStyle, id)
}

// Amount formats a money amount.
func Amount(text string) string {
	return Render(AmountStyle, text)
}

// Label formats a field label in detail views.
func Label(text string) string {
	return Render(LabelStyle, text)
}

// Status colors a record status by what it means for the dispatcher.
func Status(status string) string {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "accepted", "active", "picked up", "delivered", "assigned":
		return Render(lipgloss.NewStyle().Foreground(ColorDone), status)
	case "pending", "negotiating", "dropped", "maintenance", "countered":
		return Render(lipgloss.NewStyle().Foreground(ColorOpen), status)
	case "rejected", "inactive", "on hold", "cancelled":
		return Render(lipgloss.NewStyle().Foreground(ColorStopped), status)
	default:
		return status
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Message formatters
// ═══════════════════════════════════════════════════════════════════════════

// SuccessMsg formats a success message with checkmark
func SuccessMsg(msg string) string {
	symbol := SymbolSuccess
	if NoColor() {
		symbol = "+"
	}
	return fmt.Sprintf("%s %s", Render(SuccessStyle, symbol), msg)
}

// ErrorMsg formats an error message
func ErrorMsg(title string) string {
	return Render(ErrorStyle, "Error: "+title)
}

// WarningMsg formats a warning message
func WarningMsg(msg string) string {
	symbol := SymbolWarning
	if NoColor() {
		symbol = "!"
	}
	return fmt.Sprintf("%s %s", Render(WarningStyle, symbol), msg)
}

// InfoMsg formats an info message
func InfoMsg(msg string) string {
	return Render(InfoStyle, msg)
}

// MutedMsg formats muted/secondary text
func MutedMsg(msg string) string {
	return Render(MutedStyle, msg)
}

// Banner formats a backend error banner.
func Banner(msg string) string {
	if NoColor() {
		return "! " + msg
	}
	return BannerStyle.Render(msg)
}

// SectionHeader formats a section header
func SectionHeader(title string) string {
	return Render(Bold, title)
}

// HelpLine formats a help line (key description)
func HelpLine(key, description string) string {
	return fmt.Sprintf("  %s %s", Render(HelpKey, key), Render(MutedStyle, description))
}

// Indent returns text indented by n spaces
func Indent(text string, n int) string {
	prefix := strings.Repeat(" ", n)
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}

func Yellow(s string) string { return Render(WarningStyle, s) }
func Green(s string) string  { return Render(SuccessStyle, s) }
func Red(s string) string    { return Render(ErrorStyle, s) }
func Cyan(s string) string   { return Render(InfoStyle, s) }
func Mute(s string) string   { return Render(MutedStyle, s) }

func Boldf(format string, a ...any) string { return Render(Bold, fmt.Sprintf(format, a...)) }
func Mutef(format string, a ...any) string { return Mute(fmt.Sprintf(format, a...)) }
