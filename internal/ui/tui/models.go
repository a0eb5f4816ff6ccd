package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/slok/todo/internal/model"
	"github.com/slok/todo/internal/ui"
)

type selectModel struct {
	title    string
	choices  []ui.Choice
	pageSize int
	styles   styles

	cursor      int
	offset      int
	selected    bool
	interrupted bool
}

func newSelectModel(title string, choices []ui.Choice, pageSize int, s styles) selectModel {
	return selectModel{
		title:    title,
		choices:  choices,
		pageSize: pageSize,
		styles:   s,
	}
}

func (m selectModel) Init() tea.Cmd {
	return nil
}

func (m selectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.interrupted = true
			return m, tea.Quit

		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}

		case "down", "j":
			if m.cursor < len(m.choices)-1 {
				m.cursor++
			}

		case "home", "g":
			m.cursor = 0

		case "end", "G":
			m.cursor = len(m.choices) - 1

		case "enter":
			m.selected = true
			return m, tea.Quit
		}
	}

	// Keep the cursor inside the visible page.
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.pageSize {
		m.offset = m.cursor - m.pageSize + 1
	}

	return m, nil
}

func (m selectModel) View() string {
	if m.interrupted {
		return ""
	}

	if m.selected {
		return fmt.Sprintf("%s %s\n", m.styles.title.Render(m.title), m.choices[m.cursor].Label)
	}

	var s strings.Builder

	s.WriteString(m.styles.title.Render(m.title))
	s.WriteString("\n")

	end := min(m.offset+m.pageSize, len(m.choices))
	for i := m.offset; i < end; i++ {
		if m.cursor == i {
			s.WriteString(m.styles.selected.Render(fmt.Sprintf("> %s", m.choices[i].Label)))
		} else {
			s.WriteString(m.styles.item.Render(fmt.Sprintf("  %s", m.choices[i].Label)))
		}
		s.WriteString("\n")
	}

	if len(m.choices) > m.pageSize {
		s.WriteString(m.styles.hint.Render("(move up and down to reveal more choices)"))
		s.WriteString("\n")
	}
	s.WriteString(m.styles.hint.Render("(use arrow keys or j/k to navigate, enter to select)"))
	s.WriteString("\n")

	return s.String()
}

// Selected returns the selected tag, empty if nothing was selected.
func (m selectModel) Selected() ui.Tag {
	if !m.selected {
		return ""
	}
	return m.choices[m.cursor].Tag
}

type textModel struct {
	prompt string
	input  textinput.Model
	styles styles

	done        bool
	interrupted bool
}

func newTextModel(prompt string, s styles) textModel {
	ti := textinput.New()
	ti.CharLimit = model.MaxDescriptionLength
	ti.Width = 60
	ti.Focus()

	return textModel{
		prompt: prompt,
		input:  ti,
		styles: s,
	}
}

func (m textModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m textModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.Type {
		case tea.KeyCtrlC:
			m.interrupted = true
			return m, tea.Quit

		case tea.KeyEnter:
			m.done = true
			return m, tea.Quit

		case tea.KeyEsc:
			m.input.SetValue("")
			m.done = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m textModel) View() string {
	if m.interrupted {
		return ""
	}

	if m.done {
		return fmt.Sprintf("%s %s\n", m.styles.title.Render(m.prompt), m.input.Value())
	}

	return fmt.Sprintf("%s\n%s\n%s\n",
		m.styles.title.Render(m.prompt),
		m.input.View(),
		m.styles.hint.Render("(enter to confirm, esc to cancel)"),
	)
}

// Value returns the entered text.
func (m textModel) Value() string {
	return m.input.Value()
}

type ackModel struct {
	styles styles

	done        bool
	interrupted bool
}

func (m ackModel) Init() tea.Cmd {
	return nil
}

func (m ackModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.Type == tea.KeyCtrlC {
			m.interrupted = true
		}
		m.done = true
		return m, tea.Quit
	}

	return m, nil
}

func (m ackModel) View() string {
	if m.done {
		return ""
	}
	return m.styles.hint.Render("Press any key to continue...") + "\n"
}
