package tui

import "github.com/charmbracelet/lipgloss"

var (
	primary = lipgloss.AdaptiveColor{Light: "#1d4ed8", Dark: "#60a5fa"}
	muted   = lipgloss.AdaptiveColor{Light: "#6b7280", Dark: "#9ca3af"}
	danger  = lipgloss.AdaptiveColor{Light: "#b91c1c", Dark: "#f87171"}
	success = lipgloss.AdaptiveColor{Light: "#15803d", Dark: "#4ade80"}
	accent  = lipgloss.AdaptiveColor{Light: "#b45309", Dark: "#fbbf24"}
)

// Styles holds the styled components shared by every page.
type Styles struct {
	Header    lipgloss.Style
	Tab       lipgloss.Style
	ActiveTab lipgloss.Style
	Session   lipgloss.Style
	Footer    lipgloss.Style
	Content   lipgloss.Style

	Title    lipgloss.Style
	Label    lipgloss.Style
	Muted    lipgloss.Style
	Selected lipgloss.Style
	Favorite lipgloss.Style

	Error   lipgloss.Style
	Success lipgloss.Style
}

func NewStyles() Styles {
	return Styles{
		Header: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffffff")).
			Background(primary).
			Bold(true).
			Padding(0, 1),
		Tab: lipgloss.NewStyle().
			Foreground(muted).
			Padding(0, 1),
		ActiveTab: lipgloss.NewStyle().
			Foreground(primary).
			Bold(true).
			Underline(true).
			Padding(0, 1),
		Session: lipgloss.NewStyle().
			Foreground(muted).
			Italic(true).
			Padding(0, 1),
		Footer: lipgloss.NewStyle().
			Foreground(muted).
			Padding(0, 1),
		Content: lipgloss.NewStyle().
			Padding(1, 2),

		Title: lipgloss.NewStyle().
			Foreground(primary).
			Bold(true).
			MarginBottom(1),
		Label: lipgloss.NewStyle().
			Foreground(muted).
			Width(16),
		Muted: lipgloss.NewStyle().
			Foreground(muted),
		Selected: lipgloss.NewStyle().
			Foreground(primary).
			Bold(true),
		Favorite: lipgloss.NewStyle().
			Foreground(accent),

		Error: lipgloss.NewStyle().
			Foreground(danger).
			Bold(true),
		Success: lipgloss.NewStyle().
			Foreground(success),
	}
}
