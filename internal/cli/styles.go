package cli

import (
	"io"

	"github.com/charmbracelet/lipgloss"

	"singletask/internal/services"
)

// StatusIndicator is the glyph coloured by the timer status
const StatusIndicator = "●"

var (
	colorIdle = lipgloss.AdaptiveColor{
		Light: "#f07171",
		Dark:  "#f07178",
	}
	colorRunning = lipgloss.AdaptiveColor{
		Light: "#86b300",
		Dark:  "#c2d94c",
	}
	colorMuted = lipgloss.AdaptiveColor{
		Light: "#828c99",
		Dark:  "#6c7680",
	}
)

// Styles renders coloured output for one writer. Colours are dropped when the
// writer is not a terminal.
type Styles struct {
	idle    lipgloss.Style
	running lipgloss.Style
	heading lipgloss.Style
	muted   lipgloss.Style
}

// NewStyles creates styles bound to w
func NewStyles(w io.Writer) *Styles {
	r := lipgloss.NewRenderer(w)
	return &Styles{
		idle:    r.NewStyle().Foreground(colorIdle),
		running: r.NewStyle().Foreground(colorRunning),
		heading: r.NewStyle().Bold(true),
		muted:   r.NewStyle().Foreground(colorMuted),
	}
}

// Indicator renders the status glyph: red when idle, green when running
func (s *Styles) Indicator(status services.TimerStatus) string {
	if status == services.TimerRunning {
		return s.running.Render(StatusIndicator)
	}
	return s.idle.Render(StatusIndicator)
}

// Heading renders a section title
func (s *Styles) Heading(text string) string {
	return s.heading.Render(text)
}

// Muted renders secondary text
func (s *Styles) Muted(text string) string {
	return s.muted.Render(text)
}
