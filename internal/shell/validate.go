package shell

import (
	"strconv"
	"strings"
	"time"

	"github.com/nibzard/studyplan-go/internal/task"
)

func parseDue(s string) (time.Time, error) {
	d, err := task.ParseDate(strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, Reject("Invalid date format. Please use YYYY-MM-DD.")
	}
	return d, nil
}

func parsePriority(s string) (task.Priority, error) {
	p, err := task.ParsePriority(strings.TrimSpace(s))
	if err != nil {
		return "", Reject("Invalid priority. Choose HIGH, MEDIUM, or LOW.")
	}
	return p, nil
}

// selection accepts a number in [1, count]; 0 cancels.
func selection(count int) func(string) (int, error) {
	return func(s string) (int, error) {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return 0, Reject("Invalid input. Please enter a number.")
		}
		if n == 0 {
			return 0, ErrCancelled
		}
		if n < 1 || n > count {
			return 0, Reject("Invalid task number.")
		}
		return n, nil
	}
}
