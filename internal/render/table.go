// Package render prints task collections as terminal tables.
package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/nullus/todo/internal/task"
)

// EmptyMessage is printed when a listing has no rows to show.
const EmptyMessage = "No active tasks found."

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	pinStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

// Table renders task listings. Plain disables all styling.
type Table struct {
	Plain bool
}

// column is one displayed column: a header plus a cell extractor.
type column struct {
	name string
	typ  string
	cell func(task.Task) string
}

// Listing prints the given (already filtered) rows in display order.
// The pin column appears only when some row is pinned; the scheduled
// and deadline columns appear only when some row has a value there.
// Both checks run over the rows passed in, not the full store, so a
// filter can change which columns show up.
func (r Table) Listing(w io.Writer, l task.List) {
	if len(l) == 0 {
		fmt.Fprintln(w, EmptyMessage)
		return
	}

	sorted := make(task.List, len(l))
	copy(sorted, l)
	task.SortForDisplay(sorted)

	var cols []column
	if sorted.AnyPinned() {
		cols = append(cols, column{name: "pin", typ: "str", cell: r.pinCell})
	}
	cols = append(cols,
		column{name: "id", typ: "i64", cell: func(t task.Task) string { return strconv.Itoa(t.ID) }},
		column{name: "status", typ: "enum", cell: func(t task.Task) string { return string(t.Status) }},
		column{name: "desc", typ: "str", cell: func(t task.Task) string { return t.Desc }},
	)
	if sorted.AnyScheduled() {
		cols = append(cols, column{name: "scheduled", typ: "date", cell: dateCell(func(t task.Task) *time.Time { return t.Scheduled })})
	}
	if sorted.AnyDeadline() {
		cols = append(cols, column{name: "deadline", typ: "date", cell: dateCell(func(t task.Task) *time.Time { return t.Deadline })})
	}

	r.writeGrid(w, cols, sorted, false)
}

// Dump prints every row and every column, hidden tasks included, with
// a column-type line under the header. This is the raw debug view of
// the backing store.
func (r Table) Dump(w io.Writer, l task.List) {
	cols := []column{
		{name: "id", typ: "i64", cell: func(t task.Task) string { return strconv.Itoa(t.ID) }},
		{name: "status", typ: "enum", cell: func(t task.Task) string { return string(t.Status) }},
		{name: "desc", typ: "str", cell: func(t task.Task) string { return t.Desc }},
		{name: "scheduled", typ: "date", cell: dateCell(func(t task.Task) *time.Time { return t.Scheduled })},
		{name: "deadline", typ: "date", cell: dateCell(func(t task.Task) *time.Time { return t.Deadline })},
		{name: "created", typ: "datetime[us]", cell: func(t task.Task) string { return t.Created.Format(task.DateTimeLayout) }},
		{name: "is_visible", typ: "bool", cell: func(t task.Task) string { return strconv.FormatBool(t.Visible) }},
		{name: "is_pin", typ: "bool", cell: func(t task.Task) string { return strconv.FormatBool(t.Pinned) }},
		{name: "done_date", typ: "date", cell: dateCell(func(t task.Task) *time.Time { return t.DoneDate })},
	}
	r.writeGrid(w, cols, l, true)
}

func (r Table) pinCell(t task.Task) string {
	if !t.Pinned {
		return ""
	}
	if r.Plain {
		return "*"
	}
	return pinStyle.Render("*")
}

// dateCell builds a nil-safe formatter for an optional date column;
// unset dates render as empty cells, not a null marker.
func dateCell(get func(task.Task) *time.Time) func(task.Task) string {
	return func(t task.Task) string {
		d := get(t)
		if d == nil {
			return ""
		}
		return d.Format(task.DateLayout)
	}
}

func (r Table) writeGrid(w io.Writer, cols []column, rows task.List, withTypes bool) {
	cells := make([][]string, len(rows))
	for i, t := range rows {
		cells[i] = make([]string, len(cols))
		for j, c := range cols {
			cells[i][j] = c.cell(t)
		}
	}

	widths := make([]int, len(cols))
	for j, c := range cols {
		widths[j] = lipgloss.Width(c.name)
		if withTypes && lipgloss.Width(c.typ) > widths[j] {
			widths[j] = lipgloss.Width(c.typ)
		}
		for i := range cells {
			if cw := lipgloss.Width(cells[i][j]); cw > widths[j] {
				widths[j] = cw
			}
		}
	}

	var line []string
	for j, c := range cols {
		line = append(line, pad(r.style(headerStyle, c.name), widths[j]-lipgloss.Width(c.name)))
	}
	fmt.Fprintln(w, strings.Join(line, "  "))

	if withTypes {
		line = line[:0]
		for j, c := range cols {
			line = append(line, pad(r.style(dimStyle, c.typ), widths[j]-lipgloss.Width(c.typ)))
		}
		fmt.Fprintln(w, strings.Join(line, "  "))
	}

	for i := range cells {
		line = line[:0]
		for j := range cols {
			line = append(line, pad(cells[i][j], widths[j]-lipgloss.Width(cells[i][j])))
		}
		fmt.Fprintln(w, strings.TrimRight(strings.Join(line, "  "), " "))
	}
}

func (r Table) style(s lipgloss.Style, text string) string {
	if r.Plain {
		return text
	}
	return s.Render(text)
}

func pad(s string, n int) string {
	if n <= 0 {
		return s
	}
	return s + strings.Repeat(" ", n)
}
