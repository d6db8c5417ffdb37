// Package exchange exports tasks as JSON and imports them back, validating
// imported documents against an embedded JSON Schema.
//
// The document format:
//
//	{
//	  "schema_version": 1,
//	  "exported_at": "2024-05-01T10:00:00Z",
//	  "tasks": [
//	    {"name": "Quiz", "subject": "Math", "due": "2024-05-20", "priority": "HIGH", "completed": false}
//	  ]
//	}
package exchange

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nibzard/studyplan-go/internal/task"
	"github.com/nibzard/studyplan-go/internal/utils"
)

// SchemaVersion is the document version written by Export.
const SchemaVersion = 1

//go:embed schema.json
var schemaJSON []byte

const schemaURL = "studyplan-tasks.schema.json"

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

// Document is the exported form of a task list.
type Document struct {
	SchemaVersion int        `json:"schema_version"`
	ExportedAt    *time.Time `json:"exported_at,omitempty"`
	Tasks         []Record   `json:"tasks"`
}

// Record is a single exported task.
type Record struct {
	Name      string `json:"name"`
	Subject   string `json:"subject"`
	Due       string `json:"due"`
	Priority  string `json:"priority"`
	Completed bool   `json:"completed"`
}

// ValidationError represents a validation error with context.
type ValidationError struct {
	Path string // dot path to the error location
	Err  error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// InvalidDocumentError collects every validation failure of a document.
type InvalidDocumentError struct {
	Errors []*ValidationError
}

func (e *InvalidDocumentError) Error() string {
	if len(e.Errors) == 1 {
		return "invalid task document: " + e.Errors[0].Error()
	}
	return fmt.Sprintf("invalid task document: %s (and %d more)", e.Errors[0], len(e.Errors)-1)
}

// NewDocument builds a document from tasks.
func NewDocument(tasks []task.Task, now time.Time) Document {
	doc := Document{
		SchemaVersion: SchemaVersion,
		Tasks:         make([]Record, 0, len(tasks)),
	}
	if !now.IsZero() {
		ts := now.UTC().Truncate(time.Second)
		doc.ExportedAt = &ts
	}
	for _, t := range tasks {
		doc.Tasks = append(doc.Tasks, Record{
			Name:      t.Name,
			Subject:   t.Subject,
			Due:       t.DueString(),
			Priority:  string(t.Priority),
			Completed: t.Completed,
		})
	}
	return doc
}

// Export writes tasks to w as an indented JSON document with a trailing
// newline.
func Export(w io.Writer, tasks []task.Task, now time.Time) error {
	data, err := json.MarshalIndent(NewDocument(tasks, now), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal tasks: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write tasks: %w", err)
	}
	return nil
}

// Import reads a document from r, validates it and returns its tasks with
// fresh IDs, in document order.
func Import(r io.Reader) ([]task.Task, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read task document: %w", err)
	}
	if err := Validate(data); err != nil {
		return nil, err
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse task document: %w", err)
	}

	tasks := make([]task.Task, 0, len(doc.Tasks))
	for i, rec := range doc.Tasks {
		t, err := task.New(rec.Name, rec.Subject, rec.Due, rec.Priority)
		if err != nil {
			return nil, &InvalidDocumentError{Errors: []*ValidationError{{
				Path: fmt.Sprintf("tasks[%d]", i),
				Err:  err,
			}}}
		}
		t.Completed = rec.Completed
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// Validate checks a JSON document against the task document schema.
func Validate(data []byte) error {
	schema, err := compileSchema()
	if err != nil {
		return err
	}

	v, err := unmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("parse task document: %w", err)
	}

	if err := schema.Validate(v); err != nil {
		var ve *jsonschema.ValidationError
		if !errors.As(err, &ve) {
			return fmt.Errorf("validate task document: %w", err)
		}
		invalid := &InvalidDocumentError{}
		collectSchemaErrors(invalid, ve)
		return invalid
	}
	return nil
}

// unmarshalJSON decodes a JSON instance in the form jsonschema/v5 expects
// (numbers as json.Number) and rejects trailing data after the value.
func unmarshalJSON(r io.Reader) (any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("invalid character after top-level value")
	}
	return v, nil
}

func compileSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.AssertFormat = true
		if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
			compileErr = fmt.Errorf("load task schema: %w", err)
			return
		}
		compiled, compileErr = compiler.Compile(schemaURL)
		if compileErr != nil {
			compileErr = fmt.Errorf("compile task schema: %w", compileErr)
		}
	})
	return compiled, compileErr
}

func collectSchemaErrors(invalid *InvalidDocumentError, err *jsonschema.ValidationError) {
	if err == nil {
		return
	}

	if len(err.Causes) == 0 {
		invalid.Errors = append(invalid.Errors, &ValidationError{
			Path: utils.JSONPointerToPath(err.InstanceLocation),
			Err:  errors.New(err.Message),
		})
		return
	}

	for _, cause := range err.Causes {
		collectSchemaErrors(invalid, cause)
	}
}
