package task

import (
	"cmp"
	"slices"
)

// Pending returns the tasks that are not completed, in their original order.
// The input slice is not modified.
func Pending(tasks []Task) []Task {
	pending := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if !t.Completed {
			pending = append(pending, t)
		}
	}
	return pending
}

// OrderedPending returns the pending tasks sorted by priority rank and then
// by due date. Ties keep their original relative order.
func OrderedPending(tasks []Task) []Task {
	pending := Pending(tasks)
	slices.SortStableFunc(pending, Compare)
	return pending
}

// Compare orders two tasks by priority rank, then due date.
func Compare(a, b Task) int {
	if c := cmp.Compare(a.Priority.Rank(), b.Priority.Rank()); c != 0 {
		return c
	}
	return a.Due.Compare(b.Due)
}
