package shared

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// cellPadding is the horizontal padding bubbles/table puts around each cell.
const cellPadding = 2

type rendered[T any] struct {
	content Content[T]
	rows    []table.Row
}

// Table is a resource list drawn with bubbles/table. Row formatting goes
// through a Memo so unchanged props are not reformatted on every frame.
type Table[T any] struct {
	view    ListView[T]
	columns []table.Column
	model   table.Model
	memo    *Memo[T, rendered[T]]
	current rendered[T]
}

// NewTable creates a table for view. rowFunc must return one cell per column.
func NewTable[T any](view ListView[T], columns []table.Column, rowFunc func(Row[T]) table.Row) *Table[T] {
	view.ColSpan = len(columns)
	t := &Table[T]{
		view:    view,
		columns: columns,
		model: table.New(
			table.WithColumns(columns),
			table.WithFocused(true),
			table.WithHeight(10),
		),
	}
	t.model.SetStyles(TableStyles())
	t.model.SetWidth(t.Width())
	t.memo = NewMemo(func(p ListProps[T]) rendered[T] {
		content := t.view.Select(p)
		r := rendered[T]{content: content}
		if content.Kind == RenderRows {
			r.rows = make([]table.Row, len(content.Rows))
			for i, row := range content.Rows {
				r.rows[i] = rowFunc(row)
			}
		}
		return r
	})
	return t
}

// SetProps feeds new inputs to the table.
func (t *Table[T]) SetProps(p ListProps[T]) {
	next := t.memo.Render(p)
	t.model.SetRows(next.rows)
	// Placeholders leave the table without rows; the cursor is only
	// clamped once there is a row for it to land on.
	if n := len(next.rows); n > 0 {
		if c := t.model.Cursor(); c < 0 || c >= n {
			t.model.SetCursor(min(max(c, 0), n-1))
		}
	}
	t.current = next
}

// Content returns the current render state.
func (t *Table[T]) Content() Content[T] {
	return t.current.content
}

// Renders counts how many times the rows were actually formatted.
func (t *Table[T]) Renders() int {
	return t.memo.Renders()
}

// Selected returns the row under the cursor, if records are shown.
func (t *Table[T]) Selected() (Row[T], bool) {
	rows := t.current.content.Rows
	c := t.model.Cursor()
	if t.current.content.Kind != RenderRows || c < 0 || c >= len(rows) {
		return Row[T]{}, false
	}
	return rows[c], true
}

// Update forwards navigation keys to the underlying table.
func (t *Table[T]) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	t.model, cmd = t.model.Update(msg)
	return cmd
}

// SetHeight sets the number of visible rows.
func (t *Table[T]) SetHeight(h int) {
	t.model.SetHeight(max(h, 3))
}

// Width is the rendered width of all columns.
func (t *Table[T]) Width() int {
	w := 0
	for _, c := range t.columns {
		w += c.Width + cellPadding
	}
	return w
}

// View renders the table, or its header over a placeholder row.
func (t *Table[T]) View() string {
	content := t.current.content
	if content.Kind == RenderRows {
		return t.model.View()
	}
	return lipgloss.JoinVertical(lipgloss.Left, t.header(), RenderPlaceholder(content.Placeholder, t.Width()))
}

func (t *Table[T]) header() string {
	styles := TableStyles()
	cells := make([]string, 0, len(t.columns))
	for _, c := range t.columns {
		cell := lipgloss.NewStyle().Width(c.Width).MaxWidth(c.Width).Inline(true).Render(Truncate(c.Title, c.Width))
		cells = append(cells, styles.Header.Render(cell))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

// RenderPlaceholder draws a placeholder row width cells wide.
func RenderPlaceholder(ph Placeholder, width int) string {
	var text string
	var style lipgloss.Style
	switch ph.Kind {
	case RenderLoading:
		text, style = "Loading...", LoadingStyle
	case RenderError:
		text, style = "Error: "+ph.Message, ErrorStyle
	default:
		text, style = ph.Message, EmptyStyle
	}
	text = strings.TrimSpace(text)
	return style.Width(width).Padding(1, 1).Render(text)
}
