// Package ui provides an optional terminal interface over the store.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nullus/todo/internal/task"
)

// Run starts the interactive task browser. Mutations go through the
// same store as the flag commands, so every keypress is a full
// load-mutate-save round trip.
func Run(ctx context.Context, st *task.Store) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}
	model := newTUIModel(st)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	finalModel, err := program.Run()
	if err != nil {
		return err
	}
	if m, ok := finalModel.(*tuiModel); ok && m.storeErr != nil {
		return m.storeErr
	}
	return nil
}

type tuiModel struct {
	st       *task.Store
	tasks    task.List
	cursor   int
	loadErr  error
	storeErr error
	showHelp bool
}

func newTUIModel(st *task.Store) *tuiModel {
	return &tuiModel{st: st}
}

func (m *tuiModel) Init() tea.Cmd {
	m.refresh()
	return nil
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "j", "down":
			if m.cursor < len(m.tasks)-1 {
				m.cursor++
			}
			return m, nil
		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case "d":
			return m.mutate(func(id int) error {
				return m.st.ToggleDone([]int{id})
			})
		case "p":
			return m.mutate(func(id int) error {
				return m.st.TogglePin([]int{id})
			})
		case "r", "f5":
			m.refresh()
			return m, nil
		case "h", "?":
			m.showHelp = !m.showHelp
			return m, nil
		}
	}
	return m, nil
}

// mutate applies fn to the selected task id and reloads. A failed
// save aborts the session so the error reaches the caller.
func (m *tuiModel) mutate(fn func(id int) error) (tea.Model, tea.Cmd) {
	if m.loadErr != nil || len(m.tasks) == 0 {
		return m, nil
	}
	if err := fn(m.tasks[m.cursor].ID); err != nil {
		m.storeErr = err
		return m, tea.Quit
	}
	m.refresh()
	return m, nil
}

func (m *tuiModel) refresh() {
	tasks, err := m.st.Listing("")
	if err != nil {
		m.loadErr = err
		m.tasks = nil
		return
	}
	task.SortForDisplay(tasks)
	m.loadErr = nil
	m.tasks = tasks
	if m.cursor >= len(m.tasks) {
		m.cursor = len(m.tasks) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *tuiModel) View() string {
	var b strings.Builder
	writeTitle(&b)

	if m.showHelp {
		writeHelp(&b)
		writeFooter(&b)
		return b.String()
	}

	if m.loadErr != nil {
		b.WriteString("Error loading tasks file:\n")
		b.WriteString("  " + m.loadErr.Error() + "\n\n")
		writeFooter(&b)
		return b.String()
	}

	if len(m.tasks) == 0 {
		b.WriteString("  No active tasks found.\n\n")
		writeFooter(&b)
		return b.String()
	}

	for i, t := range m.tasks {
		marker := "  "
		if i == m.cursor {
			marker = "> "
		}
		b.WriteString(marker + formatTask(t) + "\n")
	}
	b.WriteString("\n")
	writeFooter(&b)
	return b.String()
}

func writeTitle(b *strings.Builder) {
	title := "todo"
	b.WriteString(title + "\n")
	b.WriteString(strings.Repeat("=", len(title)) + "\n\n")
}

func writeHelp(b *strings.Builder) {
	b.WriteString("Keyboard Shortcuts\n\n")
	b.WriteString("  q, ctrl+c    Quit\n")
	b.WriteString("  j/k, arrows  Move selection\n")
	b.WriteString("  d            Toggle done\n")
	b.WriteString("  p            Toggle pin\n")
	b.WriteString("  r, F5        Reload tasks\n")
	b.WriteString("  h, ?         Toggle this help screen\n\n")
}

func writeFooter(b *strings.Builder) {
	b.WriteString("d done | p pin | h help | q quit\n")
}

func formatTask(t task.Task) string {
	statusIcon := " "
	if t.Status == task.StatusDone {
		statusIcon = "x"
	}
	pin := " "
	if t.Pinned {
		pin = "*"
	}
	line := fmt.Sprintf("[%s]%s %3d  %s", statusIcon, pin, t.ID, t.Desc)
	if t.Scheduled != nil {
		line += "  s:" + t.Scheduled.Format(task.DateLayout)
	}
	if t.Deadline != nil {
		line += "  d:" + t.Deadline.Format(task.DateLayout)
	}
	return line
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, _ := f.Stat()
	return (info.Mode() & os.ModeCharDevice) != 0
}
