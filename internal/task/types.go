package task

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the textual form of a due date.
const DateLayout = "2006-01-02"

// parseLayout also accepts a month or day without its leading zero.
const parseLayout = "2006-1-2"

var (
	// ErrInvalidDate is returned when a due date is not a valid YYYY-MM-DD date.
	ErrInvalidDate = errors.New("invalid date format, use YYYY-MM-DD")
	// ErrInvalidPriority is returned for a priority other than HIGH, MEDIUM or LOW.
	ErrInvalidPriority = errors.New("invalid priority, choose HIGH, MEDIUM, or LOW")
)

// Priority is a task priority level.
type Priority string

const (
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"
)

// Priorities lists the valid priorities in rank order.
func Priorities() []Priority {
	return []Priority{PriorityHigh, PriorityMedium, PriorityLow}
}

// Rank returns the sort rank of the priority. Lower ranks sort first.
// Unknown priorities rank after LOW.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	default:
		return 3
	}
}

// Valid reports whether p is one of the enumerated priorities.
func (p Priority) Valid() bool {
	return p.Rank() < 3
}

// ParsePriority normalizes s to uppercase and checks it against the
// enumerated priorities.
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToUpper(s))
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidPriority, s)
	}
	return p, nil
}

// ParseDate parses a YYYY-MM-DD calendar date. Month and day may omit the
// leading zero, as in 2024-5-1; DueString always writes them padded.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(parseLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return d, nil
}

// Task is a single study task.
type Task struct {
	ID        string
	Name      string
	Subject   string
	Due       time.Time
	Priority  Priority
	Completed bool
}

// New builds a pending task from user supplied text, validating the due
// date and priority and assigning a fresh ID.
func New(name, subject, due, priority string) (Task, error) {
	d, err := ParseDate(due)
	if err != nil {
		return Task{}, err
	}
	p, err := ParsePriority(priority)
	if err != nil {
		return Task{}, err
	}
	return Task{
		ID:       NewID(),
		Name:     name,
		Subject:  subject,
		Due:      d,
		Priority: p,
	}, nil
}

// NewID returns a new task identifier.
func NewID() string {
	return uuid.NewString()
}

// DueString returns the due date in YYYY-MM-DD form.
func (t Task) DueString() string {
	return t.Due.Format(DateLayout)
}

// StatusLabel returns the completion label shown in listings.
func (t Task) StatusLabel() string {
	if t.Completed {
		return "✅ COMPLETE"
	}
	return "❌ PENDING"
}

// Summary describes the task without its status.
func (t Task) Summary() string {
	return fmt.Sprintf("%s (Subject: %s) | Due: %s | Priority: %s", t.Name, t.Subject, t.DueString(), t.Priority)
}

func (t Task) String() string {
	return fmt.Sprintf("[%s] %s", t.StatusLabel(), t.Summary())
}
