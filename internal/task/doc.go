// Package task defines study tasks, their flat row encoding, and the
// pending/ordering rules used when listing them.
//
// A task file is a comma-separated file with one row per task and no header:
//
//	Essay,History,2024-06-01,HIGH,False
//	Quiz,Math,2024-05-20,HIGH,True
//
// Columns are fixed: name, subject, due date (YYYY-MM-DD), priority
// (HIGH, MEDIUM or LOW) and completion. Completion is written as the literal
// True or False and compared case-insensitively on read.
//
// # Ordering
//
// Pending tasks are listed by priority rank (HIGH=0, MEDIUM=1, LOW=2) and
// then by due date, ascending. The sort is stable, so tasks that tie on both
// keys keep the order they had in the file.
//
// # Identity
//
// Every Task carries an ID generated when it is created or decoded. IDs are
// not written to the task file; they only distinguish otherwise identical
// tasks for the lifetime of a process.
package task
