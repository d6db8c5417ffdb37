// Package shell implements the interactive menu for managing study tasks.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/studyplan-go/internal/logging"
	"github.com/nibzard/studyplan-go/internal/store"
	"github.com/nibzard/studyplan-go/internal/task"
)

// Menu choices.
const (
	ChoiceAdd      = "1"
	ChoicePending  = "2"
	ChoiceComplete = "3"
	ChoiceExit     = "4"
	ChoiceAll      = "5"
)

// Option configures a Shell.
type Option func(*Shell)

// WithColor enables or disables colored headings and badges.
func WithColor(enabled bool) Option {
	return func(s *Shell) {
		s.color = enabled
	}
}

// WithLogger sets the logger for diagnostics.
func WithLogger(logger *log.Logger) Option {
	return func(s *Shell) {
		s.logger = logger
	}
}

// Shell runs the menu loop over a task store.
type Shell struct {
	store  *store.Store
	prompt *Prompter
	out    io.Writer
	logger *log.Logger
	color  bool
	styles styles
}

// New creates a shell that reads answers from in and writes to out.
func New(st *store.Store, in io.Reader, out io.Writer, opts ...Option) *Shell {
	s := &Shell{
		store:  st,
		prompt: NewPrompter(in, out),
		out:    out,
		logger: logging.Discard(),
		color:  true,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.styles = newStyles(out, s.color)
	return s
}

// Run shows the menu until the user saves and exits. End of input is
// treated as save and exit. When ctx is done Run returns ctx.Err() at once,
// including from inside a prompt, and nothing is saved. Errors saving the
// task file are returned.
func (s *Shell) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		s.displayMenu()
		choice, err := s.prompt.Line(ctx, "Enter your choice (1-5): ")
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.logger.Debug("Input closed, saving and exiting")
				return s.SaveAndExit()
			}
			return err
		}

		switch strings.TrimSpace(choice) {
		case ChoiceAdd:
			err = s.AddTask(ctx)
		case ChoicePending:
			s.ViewPending()
		case ChoiceComplete:
			err = s.MarkComplete(ctx)
		case ChoiceAll:
			s.ViewAll()
		case ChoiceExit:
			return s.SaveAndExit()
		default:
			fmt.Fprintln(s.out, "Invalid choice. Please enter a number between 1 and 5.")
		}

		if err != nil {
			if errors.Is(err, io.EOF) {
				s.logger.Debug("Input closed, saving and exiting")
				return s.SaveAndExit()
			}
			return err
		}
	}
}

func (s *Shell) displayMenu() {
	fmt.Fprintf(s.out, "\n\n%s\n", s.styles.title.Render("=== Smart Study Scheduler ==="))
	fmt.Fprintln(s.out, "1. Add New Task")
	fmt.Fprintln(s.out, "2. View Pending Tasks (Sorted)")
	fmt.Fprintln(s.out, "3. Mark Task as Complete")
	fmt.Fprintln(s.out, "4. Save & Exit")
	fmt.Fprintln(s.out, "5. View All Tasks (Including Completed)")
}

// AddTask prompts for a new task and appends it to the store. The task is
// not written to disk until the next save.
func (s *Shell) AddTask(ctx context.Context) error {
	fmt.Fprintf(s.out, "\n%s\n", s.styles.heading.Render("--- Add New Task ---"))

	name, err := s.prompt.Line(ctx, "Task Name: ")
	if err != nil {
		return err
	}
	subject, err := s.prompt.Line(ctx, "Subject: ")
	if err != nil {
		return err
	}
	due, err := Ask(ctx, s.prompt, "Due Date (YYYY-MM-DD): ", parseDue)
	if err != nil {
		return err
	}
	priority, err := Ask(ctx, s.prompt, "Priority (HIGH, MEDIUM, LOW): ", parsePriority)
	if err != nil {
		return err
	}

	t := s.store.Add(task.Task{
		ID:       task.NewID(),
		Name:     name,
		Subject:  subject,
		Due:      due,
		Priority: priority,
	})
	s.logger.Debug("Added task", "id", t.ID, "name", t.Name)
	fmt.Fprintf(s.out, "Task '%s' added.\n", t.Name)
	return nil
}

// ViewPending lists pending tasks by priority and due date.
func (s *Shell) ViewPending() {
	pending := s.store.Ordered()
	if len(pending) == 0 {
		fmt.Fprintf(s.out, "\n%s\n", s.styles.notice.Render("🎉 No pending tasks! Time for a break. 🎉"))
		return
	}

	fmt.Fprintf(s.out, "\n%s\n", s.styles.heading.Render("--- PENDING TASKS (Sorted by Priority & Date) ---"))
	s.writeTasks(pending)
	fmt.Fprintf(s.out, "\nTotal Pending: %d\n", len(pending))
}

// ViewAll lists every task in file order.
func (s *Shell) ViewAll() {
	fmt.Fprintf(s.out, "\n%s\n", s.styles.heading.Render("--- ALL TASKS ---"))
	tasks := s.store.Tasks()
	if len(tasks) == 0 {
		fmt.Fprintln(s.out, s.styles.notice.Render("No tasks recorded yet."))
		return
	}
	s.writeTasks(tasks)
}

func (s *Shell) writeTasks(tasks []task.Task) {
	for i, t := range tasks {
		fmt.Fprintf(s.out, "%d. %s %s\n", i+1, s.styles.badge(t), t.Summary())
	}
}

// MarkComplete lets the user pick a pending task and completes it. The whole
// task list is saved immediately. Entering 0 cancels without changes.
func (s *Shell) MarkComplete(ctx context.Context) error {
	pending := s.store.Pending()
	if len(pending) == 0 {
		fmt.Fprintf(s.out, "\n%s\n", s.styles.notice.Render("No pending tasks to complete."))
		return nil
	}

	fmt.Fprintf(s.out, "\n%s\n", s.styles.heading.Render("--- Mark Task as Complete ---"))
	for i, t := range pending {
		fmt.Fprintf(s.out, "%d. %s (Due: %s)\n", i+1, t.Name, t.DueString())
	}

	n, err := Ask(ctx, s.prompt, "Enter the number of the task to complete (0 to cancel): ", selection(len(pending)))
	if errors.Is(err, ErrCancelled) {
		return nil
	}
	if err != nil {
		return err
	}

	t, err := s.store.Complete(pending[n-1].ID)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "\nTask '%s' marked as complete! Well done.\n", t.Name)
	return s.save()
}

// SaveAndExit saves every task and prints a goodbye.
func (s *Shell) SaveAndExit() error {
	if err := s.save(); err != nil {
		return err
	}
	fmt.Fprintln(s.out, "Exiting Scheduler. Goodbye!")
	return nil
}

func (s *Shell) save() error {
	if err := s.store.Save(); err != nil {
		return fmt.Errorf("save tasks: %w", err)
	}
	fmt.Fprintln(s.out, "\nTasks saved successfully.")
	return nil
}
