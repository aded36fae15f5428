package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/existflow/ironlist/internal/model"
)

// Color palette based on TUI design
var (
	// Priority colors
	PriorityHigh   = lipgloss.Color("#FF6B6B") // Red
	PriorityMedium = lipgloss.Color("#FFB347") // Orange
	PriorityLow    = lipgloss.Color("#4ECDC4") // Blue

	// Status colors
	Completed = lipgloss.Color("#95E1A3") // Green
	Removing  = lipgloss.Color("#6C757D") // Gray
	Notice    = lipgloss.Color("#95E1A3") // Green
	Warning   = lipgloss.Color("#FF6B6B") // Red

	// UI colors
	Primary   = lipgloss.Color("#4ECDC4")
	Secondary = lipgloss.Color("#6C757D")
	Highlight = lipgloss.Color("#4ECDC4")
)

// palette holds the colors that change with the theme
type palette struct {
	Background lipgloss.Color
	Surface    lipgloss.Color
	Text       lipgloss.Color
	TextMuted  lipgloss.Color
	Border     lipgloss.Color
}

var (
	darkPalette = palette{
		Background: lipgloss.Color("#1a1a2e"),
		Surface:    lipgloss.Color("#16213e"),
		Text:       lipgloss.Color("#FFFFFF"),
		TextMuted:  lipgloss.Color("#888888"),
		Border:     lipgloss.Color("#333333"),
	}
	lightPalette = palette{
		Background: lipgloss.Color("#FAFAFA"),
		Surface:    lipgloss.Color("#E8EEF5"),
		Text:       lipgloss.Color("#1a1a2e"),
		TextMuted:  lipgloss.Color("#6C757D"),
		Border:     lipgloss.Color("#CCCCCC"),
	}
)

// Styles is the full style set for one theme
type Styles struct {
	palette palette

	App               lipgloss.Style
	Header            lipgloss.Style
	Sidebar           lipgloss.Style
	List              lipgloss.Style
	SectionItem       lipgloss.Style
	SectionSelected   lipgloss.Style
	Item              lipgloss.Style
	ItemSelected      lipgloss.Style
	ItemDone          lipgloss.Style
	ItemRemoving      lipgloss.Style
	StatusBar         lipgloss.Style
	Modal             lipgloss.Style
	Help              lipgloss.Style
	Rule              lipgloss.Style
	Notice            lipgloss.Style
	Warning           lipgloss.Style
	Match             lipgloss.Style
	PriorityHighStyle lipgloss.Style
	PriorityMedStyle  lipgloss.Style
	PriorityLowStyle  lipgloss.Style
}

// NewStyles builds the style set for the dark or light theme
func NewStyles(dark bool) Styles {
	p := lightPalette
	if dark {
		p = darkPalette
	}

	return Styles{
		palette: p,

		// App container
		App: lipgloss.NewStyle().
			Background(p.Background).
			Foreground(p.Text),

		// Header
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary),

		// Sidebar
		Sidebar: lipgloss.NewStyle().
			Width(20).
			BorderStyle(lipgloss.NormalBorder()).
			BorderRight(true).
			BorderForeground(p.Border).
			Padding(1, 1),

		// Main list
		List: lipgloss.NewStyle().
			Padding(1, 2),

		// Section item
		SectionItem: lipgloss.NewStyle().
			Padding(0, 1),

		SectionSelected: lipgloss.NewStyle().
			Padding(0, 1).
			Background(p.Surface).
			Bold(true),

		// List rows
		Item: lipgloss.NewStyle().
			Padding(0, 1),

		ItemSelected: lipgloss.NewStyle().
			Padding(0, 1).
			Background(p.Surface).
			Bold(true),

		ItemDone: lipgloss.NewStyle().
			Foreground(p.TextMuted).
			Strikethrough(true).
			Padding(0, 1),

		ItemRemoving: lipgloss.NewStyle().
			Foreground(Removing).
			Strikethrough(true).
			Faint(true).
			Padding(0, 1),

		// Status bar
		StatusBar: lipgloss.NewStyle().
			Foreground(p.TextMuted).
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(p.Border),

		// Input modal
		Modal: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(1, 2),

		// Help text
		Help: lipgloss.NewStyle().
			Foreground(p.TextMuted),

		Rule:    lipgloss.NewStyle().Foreground(p.Border),
		Notice:  lipgloss.NewStyle().Foreground(Notice).Bold(true),
		Warning: lipgloss.NewStyle().Foreground(Warning).Bold(true),
		Match:   lipgloss.NewStyle().Foreground(Highlight),

		// Priority badges
		PriorityHighStyle: lipgloss.NewStyle().Foreground(PriorityHigh).Bold(true),
		PriorityMedStyle:  lipgloss.NewStyle().Foreground(PriorityMedium),
		PriorityLowStyle:  lipgloss.NewStyle().Foreground(PriorityLow),
	}
}

// PriorityStyle returns the style for a given priority
func (s Styles) PriorityStyle(p model.Priority) lipgloss.Style {
	switch p {
	case model.PriorityHigh:
		return s.PriorityHighStyle
	case model.PriorityLow:
		return s.PriorityLowStyle
	default:
		return s.PriorityMedStyle
	}
}

// FormatPriority returns a formatted priority badge
func (s Styles) FormatPriority(p model.Priority) string {
	style := s.PriorityStyle(p)
	switch p {
	case model.PriorityHigh:
		return style.Render("▲ high")
	case model.PriorityLow:
		return style.Render("  low")
	default:
		return style.Render("  med")
	}
}
