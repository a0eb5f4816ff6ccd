package printer

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/slok/todo/internal/model"
)

const columnPadding = 2

// TablePrinter prints the task list in a table format.
//
// Cells may contain ANSI styles, columns are aligned by their visible width.
type TablePrinter struct {
	writer      io.Writer
	renderState StateRenderer
}

// NewTablePrinter creates a new table printer. A nil renderer prints the
// plain state name.
func NewTablePrinter(w io.Writer, renderState StateRenderer) *TablePrinter {
	if renderState == nil {
		renderState = func(s model.State) string { return string(s) }
	}

	return &TablePrinter{
		writer:      w,
		renderState: renderState,
	}
}

// PrintTasks prints the rows in the given order.
func (t *TablePrinter) PrintTasks(rows []TaskRow) error {
	if len(rows) == 0 {
		return nil
	}

	table := [][]string{{"#", "STATE", "DESCRIPTION"}}
	for _, r := range rows {
		table = append(table, []string{strconv.Itoa(r.Number), t.renderState(r.State), r.Description})
	}

	widths := make([]int, len(table[0]))
	for _, cells := range table {
		for i, c := range cells {
			widths[i] = max(widths[i], lipgloss.Width(c))
		}
	}

	for _, cells := range table {
		var b strings.Builder
		for i, c := range cells {
			b.WriteString(c)
			// Last column is never padded.
			if i < len(cells)-1 {
				b.WriteString(strings.Repeat(" ", widths[i]-lipgloss.Width(c)+columnPadding))
			}
		}
		if _, err := fmt.Fprintln(t.writer, b.String()); err != nil {
			return fmt.Errorf("could not print task row: %w", err)
		}
	}

	return nil
}
