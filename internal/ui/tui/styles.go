package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/slok/todo/internal/model"
	"github.com/slok/todo/internal/ui"
)

type styles struct {
	renderer *lipgloss.Renderer

	title    lipgloss.Style
	item     lipgloss.Style
	selected lipgloss.Style
	hint     lipgloss.Style
	header   lipgloss.Style
	info     lipgloss.Style
	success  lipgloss.Style
	warn     lipgloss.Style
	err      lipgloss.Style
}

func newStyles(r *lipgloss.Renderer, noColor bool) styles {
	if noColor {
		r.SetColorProfile(termenv.Ascii)
	}

	return styles{
		renderer: r,
		title:    r.NewStyle().Foreground(lipgloss.Color("11")),
		item:     r.NewStyle().PaddingLeft(2),
		selected: r.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("12")).Bold(true),
		hint:     r.NewStyle().Faint(true),
		header:   r.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),
		info:     r.NewStyle().Faint(true),
		success:  r.NewStyle().Foreground(lipgloss.Color("10")),
		warn:     r.NewStyle().Foreground(lipgloss.Color("11")),
		err:      r.NewStyle().Foreground(lipgloss.Color("9")),
	}
}

func (s styles) state(st model.State) string {
	l := ui.StateLabel(st)
	if l.Color == "" {
		return l.Text
	}
	return s.renderer.NewStyle().Foreground(lipgloss.Color(l.Color)).Render(l.Text)
}
