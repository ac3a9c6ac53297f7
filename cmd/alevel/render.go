package main

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

var (
	colorTitle = lipgloss.Color("#2CD7C7")
	colorLabel = lipgloss.Color("#20B9B4")
	colorMuted = lipgloss.Color("#2C4A54")
	colorWarn  = lipgloss.Color("#F4D03F")
	colorError = lipgloss.Color("#E74C3C")
)

// renderer styles output for a terminal and leaves it plain otherwise, so
// piped output and tests see exact text.
type renderer struct {
	styled bool

	title lipgloss.Style
	label lipgloss.Style
	muted lipgloss.Style
	warn  lipgloss.Style
	fail  lipgloss.Style
	box   lipgloss.Style
}

func styleFor(w io.Writer) renderer {
	f, ok := w.(*os.File)
	styled := ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
	return renderer{
		styled: styled,
		title:  lipgloss.NewStyle().Bold(true).Foreground(colorTitle),
		label:  lipgloss.NewStyle().Foreground(colorLabel),
		muted:  lipgloss.NewStyle().Foreground(colorMuted),
		warn:   lipgloss.NewStyle().Foreground(colorWarn),
		fail:   lipgloss.NewStyle().Bold(true).Foreground(colorError),
		box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorLabel).
			Padding(0, 1),
	}
}

func (r renderer) render(s lipgloss.Style, text string) string {
	if !r.styled {
		return text
	}
	return s.Render(text)
}

func (r renderer) heading(text string) string { return r.render(r.title, text) }
func (r renderer) note(text string) string    { return r.render(r.muted, text) }
func (r renderer) warning(text string) string { return r.render(r.warn, text) }
func (r renderer) err(text string) string     { return r.render(r.fail, "error: "+text) }

// line colours the "Label:" prefix of a report line.
func (r renderer) line(text string) string {
	if !r.styled {
		return text
	}
	if i := strings.Index(text, ":"); i > 0 {
		return r.label.Render(text[:i+1]) + text[i+1:]
	}
	return text
}

// panel renders a titled block of lines, boxed on a terminal.
func (r renderer) panel(title string, lines []string) string {
	body := make([]string, len(lines))
	for i, l := range lines {
		body[i] = r.line(l)
	}
	if !r.styled {
		return title + "\n" + strings.Join(body, "\n") + "\n"
	}
	return r.box.Render(r.heading(title)+"\n"+strings.Join(body, "\n")) + "\n"
}
