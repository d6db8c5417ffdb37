package shell

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/nibzard/studyplan-go/internal/task"
)

// styles renders headings and status badges. Task text is never styled.
type styles struct {
	title    lipgloss.Style
	heading  lipgloss.Style
	pending  lipgloss.Style
	complete lipgloss.Style
	notice   lipgloss.Style
}

func newStyles(w io.Writer, color bool) styles {
	r := lipgloss.NewRenderer(w)
	if !color {
		r.SetColorProfile(termenv.Ascii)
	}
	return styles{
		title:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		heading:  r.NewStyle().Bold(true),
		pending:  r.NewStyle().Foreground(lipgloss.Color("9")),
		complete: r.NewStyle().Foreground(lipgloss.Color("10")),
		notice:   r.NewStyle().Foreground(lipgloss.Color("11")),
	}
}

// badge returns the bracketed status label for t.
func (s styles) badge(t task.Task) string {
	style := s.pending
	if t.Completed {
		style = s.complete
	}
	return "[" + style.Render(t.StatusLabel()) + "]"
}
