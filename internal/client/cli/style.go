package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/dmitrijs2005/postapp/internal/client/timeline"
)

// styles are bound to the output writer, so text written to a pipe or a
// buffer carries no escape sequences. NO_COLOR forces plain text as well.
type styles struct {
	title      lipgloss.Style
	menu       lipgloss.Style
	dayHeader  lipgloss.Style
	postHeader lipgloss.Style
	postText   lipgloss.Style
	notice     lipgloss.Style
	errorText  lipgloss.Style
}

var lookupEnv = os.Getenv

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	if lookupEnv("NO_COLOR") != "" {
		r.SetColorProfile(termenv.Ascii)
	}
	return styles{
		title:      r.NewStyle().Bold(true).Foreground(lipgloss.Color("86")),
		menu:       r.NewStyle().Foreground(lipgloss.Color("252")),
		dayHeader:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("63")),
		postHeader: r.NewStyle().Foreground(lipgloss.Color("214")),
		postText:   r.NewStyle(),
		notice:     r.NewStyle().Foreground(lipgloss.Color("42")),
		errorText:  r.NewStyle().Foreground(lipgloss.Color("196")),
	}
}

func (s styles) line(l timeline.Line) string {
	switch l.Kind {
	case timeline.DayHeader:
		return s.dayHeader.Render(l.Text)
	case timeline.PostHeader:
		return s.postHeader.Render(l.Text)
	default:
		return s.postText.Render(l.Text)
	}
}
