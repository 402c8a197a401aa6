package render

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Color palette
var (
	ColorPrimary   = lipgloss.Color("#8B5CF6") // Violet
	ColorSecondary = lipgloss.Color("#06B6D4") // Cyan
	ColorSuccess   = lipgloss.Color("#10B981") // Emerald
	ColorWarning   = lipgloss.Color("#F59E0B") // Amber
	ColorError     = lipgloss.Color("#EF4444") // Red
	ColorMuted     = lipgloss.Color("#6B7280") // Gray
)

// Styles groups every style used when printing results.
type Styles struct {
	Header   lipgloss.Style
	Position lipgloss.Style
	Kind     lipgloss.Style
	Lexeme   lipgloss.Style
	Error    lipgloss.Style
	Warning  lipgloss.Style
	Success  lipgloss.Style
	Muted    lipgloss.Style
}

// NewStyles builds styles for output written to w. With noColor, or when
// w is not a color terminal, every style renders plain text.
func NewStyles(w io.Writer, noColor bool) Styles {
	r := lipgloss.NewRenderer(w)
	if noColor {
		r.SetColorProfile(termenv.Ascii)
	}

	return Styles{
		Header:   r.NewStyle().Foreground(ColorPrimary).Bold(true),
		Position: r.NewStyle().Foreground(ColorMuted),
		Kind:     r.NewStyle().Foreground(ColorSecondary),
		Lexeme:   r.NewStyle(),
		Error:    r.NewStyle().Foreground(ColorError).Bold(true),
		Warning:  r.NewStyle().Foreground(ColorWarning).Bold(true),
		Success:  r.NewStyle().Foreground(ColorSuccess).Bold(true),
		Muted:    r.NewStyle().Foreground(ColorMuted).Italic(true),
	}
}
