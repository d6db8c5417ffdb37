package task

import (
	"errors"
	"fmt"
	"strings"
)

// FieldCount is the number of columns in a task row.
const FieldCount = 5

// ErrFieldCount is returned for rows that do not have exactly FieldCount columns.
var ErrFieldCount = errors.New("wrong number of fields")

// RowError describes a row that could not be decoded.
type RowError struct {
	Line  int    // 1-based line in the task file, 0 if unknown
	Name  string // task name column, if present
	Field string // offending column
	Err   error
}

func (e *RowError) Error() string {
	var b strings.Builder
	if e.Line > 0 {
		fmt.Fprintf(&b, "line %d: ", e.Line)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, "%s: ", e.Field)
	}
	b.WriteString(e.Err.Error())
	return b.String()
}

// Unwrap returns the underlying error.
func (e *RowError) Unwrap() error {
	return e.Err
}

// Decode builds a Task from a row of name, subject, due date, priority and
// completion. Completion is true only when the column equals "true",
// ignoring case. The decoded task gets a fresh ID.
func Decode(row []string) (Task, error) {
	if len(row) != FieldCount {
		return Task{}, &RowError{
			Field: "row",
			Err:   fmt.Errorf("%w: got %d, want %d", ErrFieldCount, len(row), FieldCount),
		}
	}
	name, subject, dueStr, priorityStr, completedStr := row[0], row[1], row[2], row[3], row[4]

	due, err := ParseDate(dueStr)
	if err != nil {
		return Task{}, &RowError{Name: name, Field: "due", Err: err}
	}
	priority, err := ParsePriority(priorityStr)
	if err != nil {
		return Task{}, &RowError{Name: name, Field: "priority", Err: err}
	}

	return Task{
		ID:        NewID(),
		Name:      name,
		Subject:   subject,
		Due:       due,
		Priority:  priority,
		Completed: strings.EqualFold(completedStr, "true"),
	}, nil
}

// Encode renders t as a task row. Completion is written as "True" or "False".
func Encode(t Task) []string {
	completed := "False"
	if t.Completed {
		completed = "True"
	}
	return []string{
		t.Name,
		t.Subject,
		t.DueString(),
		string(t.Priority),
		completed,
	}
}
