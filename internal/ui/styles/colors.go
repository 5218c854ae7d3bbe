package styles

import "github.com/charmbracelet/lipgloss"

// Palette, tuned for dark terminals.
var (
	Accent  = lipgloss.Color("#7C3AED") // violet: highlights, interactive
	Success = lipgloss.Color("#10B981") // emerald: accepted, active
	Warning = lipgloss.Color("#F59E0B") // amber: pending, maintenance
	Error   = lipgloss.Color("#EF4444") // red: rejected, failures
	Info    = lipgloss.Color("#3B82F6") // blue: ids, links
	Muted   = lipgloss.Color("#6B7280") // gray: secondary text

	TextPrimary   = lipgloss.Color("#F9FAFB")
	TextSecondary = lipgloss.Color("#9CA3AF")

	BgHighlight = lipgloss.Color("#1F2937") // selected row
	BgBorder    = lipgloss.Color("#374151")
)

// Record status colors.
var (
	ColorOpen     = Warning // Pending, Negotiating, Dropped, Maintenance
	ColorDone     = Success // Accepted, Active, Picked Up
	ColorStopped  = Error   // Rejected, Inactive, On Hold
	ColorID       = Info
	ColorAmount   = Success
	ColorDiffAdd  = Success
	ColorDiffDrop = Error
)
