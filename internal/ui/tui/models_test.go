package tui

import (
	"bytes"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"github.com/slok/todo/internal/ui"
)

func testStyles() styles {
	return newStyles(lipgloss.NewRenderer(&bytes.Buffer{}), true)
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var testChoices = []ui.Choice{
	{Tag: "view", Label: "View all tasks"},
	{Tag: "add", Label: "Add new task"},
	{Tag: "update", Label: "Update task status"},
	{Tag: "delete", Label: "Delete task"},
	{Tag: "exit", Label: "Exit application"},
}

func sendKeys(m tea.Model, keys ...tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		m, cmd = m.Update(k)
	}
	return m, cmd
}

func TestSelectModel(t *testing.T) {
	tests := map[string]struct {
		keys           []tea.KeyMsg
		expTag         ui.Tag
		expInterrupted bool
		expQuit        bool
	}{
		"Enter without moving should select the first choice.": {
			keys:    []tea.KeyMsg{{Type: tea.KeyEnter}},
			expTag:  "view",
			expQuit: true,
		},
		"Moving down with j and arrows should select the next choices.": {
			keys:    []tea.KeyMsg{keyRunes("j"), {Type: tea.KeyDown}, {Type: tea.KeyEnter}},
			expTag:  "update",
			expQuit: true,
		},
		"Moving up should not go before the first choice.": {
			keys:    []tea.KeyMsg{keyRunes("k"), {Type: tea.KeyUp}, {Type: tea.KeyEnter}},
			expTag:  "view",
			expQuit: true,
		},
		"Moving down should not go after the last choice.": {
			keys:    []tea.KeyMsg{keyRunes("G"), keyRunes("j"), {Type: tea.KeyEnter}},
			expTag:  "exit",
			expQuit: true,
		},
		"Home should go to the first choice.": {
			keys:    []tea.KeyMsg{keyRunes("j"), keyRunes("j"), keyRunes("g"), {Type: tea.KeyEnter}},
			expTag:  "view",
			expQuit: true,
		},
		"Ctrl+C should interrupt.": {
			keys:           []tea.KeyMsg{keyRunes("j"), {Type: tea.KeyCtrlC}},
			expInterrupted: true,
			expQuit:        true,
		},
		"Other keys should be ignored.": {
			keys:   []tea.KeyMsg{keyRunes("x"), keyRunes("q")},
			expTag: "",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)

			m, cmd := sendKeys(newSelectModel("What would you like to do?", testChoices, 10, testStyles()), test.keys...)
			sm := m.(selectModel)

			assert.Equal(test.expTag, sm.Selected())
			assert.Equal(test.expInterrupted, sm.interrupted)
			if test.expQuit {
				assert.NotNil(cmd)
			} else {
				assert.Nil(cmd)
			}
		})
	}
}

func TestSelectModelView(t *testing.T) {
	assert := assert.New(t)

	m := newSelectModel("What would you like to do?", testChoices, 10, testStyles())
	view := m.View()
	assert.Contains(view, "What would you like to do?")
	assert.Contains(view, "> View all tasks")
	assert.Contains(view, "  Add new task")
	assert.NotContains(view, "reveal more choices")

	nm, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal("What would you like to do? View all tasks\n", nm.View())

	nm, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.Equal("", nm.View())
}

func TestSelectModelPaging(t *testing.T) {
	assert := assert.New(t)

	var m tea.Model = newSelectModel("Pick", testChoices, 2, testStyles())
	view := m.View()
	assert.Contains(view, "View all tasks")
	assert.Contains(view, "Add new task")
	assert.NotContains(view, "Update task status")
	assert.Contains(view, "reveal more choices")

	m, _ = sendKeys(m, keyRunes("j"), keyRunes("j"), keyRunes("j"))
	view = m.View()
	assert.NotContains(view, "Add new task")
	assert.Contains(view, "Update task status")
	assert.Contains(view, "> Delete task")

	m, _ = sendKeys(m, keyRunes("g"))
	view = m.View()
	assert.Contains(view, "> View all tasks")
	assert.Contains(view, "Add new task")
	assert.NotContains(view, "Delete task")
}

func TestTextModel(t *testing.T) {
	tests := map[string]struct {
		keys           []tea.KeyMsg
		expValue       string
		expDone        bool
		expInterrupted bool
	}{
		"Typing and enter should return the text.": {
			keys:     []tea.KeyMsg{keyRunes("Buy milk"), {Type: tea.KeyEnter}},
			expValue: "Buy milk",
			expDone:  true,
		},
		"Backspace should edit the text.": {
			keys:     []tea.KeyMsg{keyRunes("Buy milkk"), {Type: tea.KeyBackspace}, {Type: tea.KeyEnter}},
			expValue: "Buy milk",
			expDone:  true,
		},
		"Esc should cancel with empty text.": {
			keys:    []tea.KeyMsg{keyRunes("Buy milk"), {Type: tea.KeyEsc}},
			expDone: true,
		},
		"Ctrl+C should interrupt.": {
			keys:           []tea.KeyMsg{keyRunes("Buy"), {Type: tea.KeyCtrlC}},
			expValue:       "Buy",
			expInterrupted: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)

			m, _ := sendKeys(newTextModel("Task description:", testStyles()), test.keys...)
			tm := m.(textModel)

			assert.Equal(test.expValue, tm.Value())
			assert.Equal(test.expDone, tm.done)
			assert.Equal(test.expInterrupted, tm.interrupted)
		})
	}
}

func TestTextModelCharLimit(t *testing.T) {
	long := make([]rune, 300)
	for i := range long {
		long[i] = 'a'
	}

	m, _ := sendKeys(newTextModel("Task description:", testStyles()), tea.KeyMsg{Type: tea.KeyRunes, Runes: long})
	assert.Len(t, m.(textModel).Value(), 255)
}

func TestAckModel(t *testing.T) {
	m, cmd := ackModel{styles: testStyles()}.Update(keyRunes("x"))
	assert.True(t, m.(ackModel).done)
	assert.False(t, m.(ackModel).interrupted)
	assert.NotNil(t, cmd)
	assert.Equal(t, "", m.View())

	m, _ = ackModel{styles: testStyles()}.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.True(t, m.(ackModel).interrupted)

	assert.Contains(t, ackModel{styles: testStyles()}.View(), "Press any key to continue...")
}
