// Package store loads, holds and saves the task list.
package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/nibzard/studyplan-go/internal/logging"
	"github.com/nibzard/studyplan-go/internal/task"
)

var (
	// ErrNotFound is returned when no task has the requested ID.
	ErrNotFound = errors.New("task not found")
	// ErrAlreadyComplete is returned when completing a task that is already complete.
	ErrAlreadyComplete = errors.New("task already complete")
)

// Store owns the in-memory task list for the lifetime of a process.
// The task file is only touched by Load and Save.
type Store struct {
	path   string
	tasks  []task.Task
	logger *log.Logger
}

// Open creates a store for path and loads it. A missing file yields an
// empty store.
func Open(path string, logger *log.Logger) (*Store, error) {
	s := New(path, logger)
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// New creates an empty store for path without reading it.
func New(path string, logger *log.Logger) *Store {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Store{path: path, logger: logger}
}

// Path returns the task file path.
func (s *Store) Path() string {
	return s.path
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	return len(s.tasks)
}

// Load replaces the in-memory list with the contents of the task file.
func (s *Store) Load() error {
	tasks, err := Load(s.path, s.logger)
	if err != nil {
		return err
	}
	s.tasks = tasks
	return nil
}

// Save overwrites the task file with every task in the store.
func (s *Store) Save() error {
	if err := Save(s.path, s.tasks); err != nil {
		return err
	}
	s.logger.Debug("Saved tasks", "path", s.path, "count", len(s.tasks))
	return nil
}

// Tasks returns a copy of every task, in file order.
func (s *Store) Tasks() []task.Task {
	out := make([]task.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Pending returns the incomplete tasks in file order.
func (s *Store) Pending() []task.Task {
	return task.Pending(s.tasks)
}

// Ordered returns the incomplete tasks by priority and due date.
func (s *Store) Ordered() []task.Task {
	return task.OrderedPending(s.tasks)
}

// Get returns the task with the given ID.
func (s *Store) Get(id string) (task.Task, bool) {
	for _, t := range s.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return task.Task{}, false
}

// Add appends t to the list and returns it. A task without an ID is given
// one. The task is not written until Save.
func (s *Store) Add(t task.Task) task.Task {
	if t.ID == "" {
		t.ID = task.NewID()
	}
	s.tasks = append(s.tasks, t)
	return t
}

// Complete marks the task with the given ID complete and returns it.
// The change is not written until Save.
func (s *Store) Complete(id string) (task.Task, error) {
	for i := range s.tasks {
		if s.tasks[i].ID != id {
			continue
		}
		if s.tasks[i].Completed {
			return s.tasks[i], fmt.Errorf("%w: %s", ErrAlreadyComplete, s.tasks[i].Name)
		}
		s.tasks[i].Completed = true
		return s.tasks[i], nil
	}
	return task.Task{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Load reads every row of the task file at path and returns the tasks that
// decode, in file order. Rows with the wrong number of fields are dropped;
// rows with a bad date or priority are skipped with a warning. A missing file
// is not an error.
func Load(path string, logger *log.Logger) ([]task.Task, error) {
	if logger == nil {
		logger = logging.Discard()
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Info("Task file not found. Starting with an empty task list.", "path", path)
			return []task.Task{}, nil
		}
		return nil, fmt.Errorf("open task file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	tasks := make([]task.Task, 0)
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				logger.Warn("Skipping unreadable row", "line", parseErr.Line, "err", parseErr.Err)
				continue
			}
			return nil, fmt.Errorf("read task file: %w", err)
		}

		line, _ := r.FieldPos(0)
		t, err := task.Decode(row)
		if err != nil {
			var rowErr *task.RowError
			if errors.As(err, &rowErr) {
				rowErr.Line = line
			}
			if errors.Is(err, task.ErrFieldCount) {
				logger.Debug("Dropping row", "line", line, "fields", len(row))
				continue
			}
			logger.Warn("Skipping task", "name", row[0], "err", err)
			continue
		}
		tasks = append(tasks, t)
	}

	logger.Debug("Loaded tasks", "path", path, "count", len(tasks))
	return tasks, nil
}

// Save writes every task to the task file at path, replacing its contents.
// Rows are written to a temporary file in the same directory which is then
// renamed over path. An existing file keeps its permission bits; a new file
// is created 0644.
func Save(path string, tasks []task.Task) error {
	mode, err := fileMode(path)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create task dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp task file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	w := csv.NewWriter(tmp)
	for _, t := range tasks {
		if err := w.Write(task.Encode(t)); err != nil {
			tmp.Close()
			return fmt.Errorf("write task file: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("write task file: %w", err)
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod task file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close task file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("replace task file: %w", err)
	}
	return nil
}

// fileMode returns the permission bits of the file at path, or 0644 if it
// does not exist yet.
func fileMode(path string) (fs.FileMode, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0644, nil
		}
		return 0, fmt.Errorf("stat task file: %w", err)
	}
	return info.Mode().Perm(), nil
}
