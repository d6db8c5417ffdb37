// Package ui provides optional terminal interfaces.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nibzard/studyplan-go/internal/store"
	"github.com/nibzard/studyplan-go/internal/task"
	"github.com/nibzard/studyplan-go/internal/utils"
)

// DefaultRefreshInterval is how often the board rereads the task file.
const DefaultRefreshInterval = 2 * time.Second

// TUIOption configures the TUI behavior.
type TUIOption func(*tuiModel)

// WithRefreshInterval sets how often the task file is reread.
func WithRefreshInterval(d time.Duration) TUIOption {
	return func(m *tuiModel) {
		m.tickInterval = d
	}
}

// WithShowAll starts the board on the all-tasks view.
func WithShowAll(enabled bool) TUIOption {
	return func(m *tuiModel) {
		m.showAll = enabled
	}
}

// RunTUI starts a read-only board over the task file at path.
func RunTUI(ctx context.Context, path string, opts ...TUIOption) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}

	model := newTUIModel(path, opts...)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

type tuiModel struct {
	path         string
	tickInterval time.Duration

	tasks   []task.Task
	loadErr error

	showAll  bool
	showHelp bool
	cursor   int
}

type tickMsg time.Time

func newTUIModel(path string, opts ...TUIOption) *tuiModel {
	m := &tuiModel{
		path:         path,
		tickInterval: DefaultRefreshInterval,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *tuiModel) Init() tea.Cmd {
	m.refresh()
	return tickCmd(m.tickInterval)
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "r", "f5":
			m.refresh()
		case "a":
			m.showAll = !m.showAll
			m.cursor = 0
		case "h", "?":
			m.showHelp = !m.showHelp
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.visible())-1 {
				m.cursor++
			}
		}
		return m, nil
	case tickMsg:
		m.refresh()
		return m, tickCmd(m.tickInterval)
	}
	return m, nil
}

// visible returns the tasks shown in the current view.
func (m *tuiModel) visible() []task.Task {
	if m.showAll {
		return m.tasks
	}
	return task.OrderedPending(m.tasks)
}

func (m *tuiModel) refresh() {
	tasks, err := store.Load(m.path, nil)
	if err != nil {
		m.loadErr = err
		return
	}
	m.loadErr = nil
	m.tasks = tasks
	if n := len(m.visible()); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
}

func (m *tuiModel) View() string {
	var b strings.Builder
	writeTitle(&b)

	if m.showHelp {
		writeHelp(&b)
		writeFooter(&b, m.tickInterval)
		return b.String()
	}

	if m.loadErr != nil {
		b.WriteString("Error loading task file:\n")
		b.WriteString("  " + m.loadErr.Error() + "\n\n")
		writeFooter(&b, m.tickInterval)
		return b.String()
	}

	writeOverview(&b, m.tasks)
	if m.showAll {
		b.WriteString("All Tasks\n\n")
	} else {
		b.WriteString("Pending Tasks (Sorted by Priority & Date)\n\n")
	}

	visible := m.visible()
	if len(visible) == 0 {
		if m.showAll {
			b.WriteString("  No tasks recorded yet.\n\n")
		} else {
			b.WriteString("  No pending tasks! Time for a break.\n\n")
		}
	}
	for i, t := range visible {
		b.WriteString(formatTask(i, t, i == m.cursor))
		b.WriteString("\n")
	}
	if len(visible) > 0 {
		b.WriteString("\n")
	}

	b.WriteString(fmt.Sprintf("Task File: %s\n\n", m.path))
	writeFooter(&b, m.tickInterval)
	return b.String()
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func writeTitle(b *strings.Builder) {
	title := "Smart Study Scheduler"
	b.WriteString(title + "\n")
	b.WriteString(strings.Repeat("=", len(title)) + "\n\n")
}

func writeOverview(b *strings.Builder, tasks []task.Task) {
	counts := make(map[task.Priority]int)
	pending := task.Pending(tasks)
	for _, t := range pending {
		counts[t.Priority]++
	}
	done := len(tasks) - len(pending)

	fmt.Fprintf(b, "  %d pending %s", len(pending), utils.Plural(len(pending), "task"))
	for _, p := range task.Priorities() {
		fmt.Fprintf(b, "  %s: %d", priorityLabel(p), counts[p])
	}
	fmt.Fprintf(b, "  Done: %d\n\n", done)
}

// priorityLabel returns "High" for HIGH.
func priorityLabel(p task.Priority) string {
	s := string(p)
	if s == "" {
		return s
	}
	return s[:1] + strings.ToLower(s[1:])
}

func writeHelp(b *strings.Builder) {
	b.WriteString("Keyboard Shortcuts\n\n")
	b.WriteString("  q, esc, ctrl+c  Quit\n")
	b.WriteString("  r, F5           Reload task file\n")
	b.WriteString("  a               Toggle pending/all tasks\n")
	b.WriteString("  up/k, down/j    Move cursor\n")
	b.WriteString("  h, ?            Toggle this help screen\n\n")
}

func writeFooter(b *strings.Builder, interval time.Duration) {
	b.WriteString(fmt.Sprintf("Press h for help | q to quit | Reloading every %s\n", interval))
}

func formatTask(i int, t task.Task, selected bool) string {
	cursor := " "
	if selected {
		cursor = ">"
	}
	return fmt.Sprintf("%s %d. %s", cursor, i+1, t)
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
