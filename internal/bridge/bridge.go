// Package bridge converts between the task store and JSON text.
package bridge

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sandeepkv93/taskrank/internal/model"
	"github.com/sandeepkv93/taskrank/internal/store"
)

// RequiredFields are checked, in this order, on every element.
var RequiredFields = []string{"task_id", "title", "due_date", "estimated_hours", "importance"}

var (
	ErrEmpty        = errors.New("bridge: empty input")
	ErrInvalidJSON  = errors.New("bridge: invalid JSON")
	ErrNotArray     = errors.New("bridge: not an array")
	ErrNotObject    = errors.New("bridge: element is not an object")
	ErrMissingField = errors.New("bridge: missing required field")
)

// ValidationError explains why text cannot be loaded. Index is zero based;
// messages number elements from 1.
type ValidationError struct {
	Kind  error
	Index int
	Field string
	Cause error
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case ErrEmpty:
		return "JSON input is empty"
	case ErrInvalidJSON:
		return fmt.Sprintf("Invalid JSON: %v", e.Cause)
	case ErrNotArray:
		return "JSON must be an array of tasks"
	case ErrNotObject:
		return fmt.Sprintf("Task %d is not an object", e.Index+1)
	case ErrMissingField:
		return fmt.Sprintf("Task %d is missing required field: %s", e.Index+1, e.Field)
	default:
		return "invalid task JSON"
	}
}

func (e *ValidationError) Is(target error) bool {
	return target == e.Kind
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// Serialize pretty-prints tasks with two-space indentation. A nil slice is
// written as [].
func Serialize(tasks []model.Task) (string, error) {
	if tasks == nil {
		tasks = []model.Task{}
	}
	raw, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// Validate checks that text is a JSON array whose elements all carry the
// required fields. It returns the element count. Field types, date format,
// importance range and id uniqueness are not checked.
func Validate(text string) (int, error) {
	elems, err := parseElements(text)
	if err != nil {
		return 0, err
	}
	return len(elems), nil
}

// Decode validates text and decodes it into tasks without touching a store.
// Each task keeps its element verbatim; see model.Task.
func Decode(text string) ([]model.Task, error) {
	elems, err := parseElements(text)
	if err != nil {
		return nil, err
	}
	tasks := make([]model.Task, 0, len(elems))
	for i, raw := range elems {
		var t model.Task
		if err := json.Unmarshal(raw, &t); err != nil {
			return nil, &ValidationError{Kind: ErrNotObject, Index: i, Cause: err}
		}
		if t.Dependencies == nil {
			t.Dependencies = []string{}
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// Load replaces the whole store with the tasks in text. On any error the
// store is left untouched.
func Load(s *store.Store, text string) (int, error) {
	tasks, err := Decode(text)
	if err != nil {
		return 0, err
	}
	s.ReplaceAll(tasks)
	return len(tasks), nil
}

func parseElements(text string) ([]json.RawMessage, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, &ValidationError{Kind: ErrEmpty}
	}
	var root any
	if err := json.Unmarshal([]byte(trimmed), &root); err != nil {
		return nil, &ValidationError{Kind: ErrInvalidJSON, Cause: err}
	}
	if _, ok := root.([]any); !ok {
		return nil, &ValidationError{Kind: ErrNotArray}
	}
	var elems []json.RawMessage
	if err := json.Unmarshal([]byte(trimmed), &elems); err != nil {
		return nil, &ValidationError{Kind: ErrInvalidJSON, Cause: err}
	}
	for i, raw := range elems {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, &ValidationError{Kind: ErrNotObject, Index: i, Cause: err}
		}
		for _, name := range RequiredFields {
			if _, ok := fields[name]; !ok {
				return nil, &ValidationError{Kind: ErrMissingField, Index: i, Field: name}
			}
		}
	}
	return elems, nil
}
