// Package store holds the in-memory, ordered list of tasks for one session.
package store

import (
	"errors"
	"fmt"

	"github.com/sandeepkv93/taskrank/internal/model"
)

var (
	ErrDuplicateID = errors.New("store: duplicate task id")
	ErrOutOfRange  = errors.New("store: index out of range")
)

// Stats are the derived counters shown in the header.
type Stats struct {
	Count      int
	TotalHours float64
}

// Listener is called after every mutation with the new stats.
type Listener func(Stats)

// Store is an ordered task list. It is not safe for concurrent use; the
// UI controller owns it and mutates it from its event loop only.
type Store struct {
	tasks     []model.Task
	listeners []Listener
}

func New() *Store {
	return &Store{tasks: make([]model.Task, 0)}
}

// OnChange registers fn to run after each mutation.
func (s *Store) OnChange(fn Listener) {
	if fn != nil {
		s.listeners = append(s.listeners, fn)
	}
}

// Append adds task at the end unless its task_id is already present.
func (s *Store) Append(task model.Task) error {
	if s.Contains(task.TaskID) {
		return fmt.Errorf("%w: %s", ErrDuplicateID, task.TaskID)
	}
	s.Push(task)
	return nil
}

// Push adds task at the end without the uniqueness check. Only the
// generated-id quick-add path uses it.
func (s *Store) Push(task model.Task) {
	s.tasks = append(s.tasks, task)
	s.changed()
}

// RemoveAt deletes the task at index, preserving the order of the rest.
func (s *Store) RemoveAt(index int) (model.Task, error) {
	if index < 0 || index >= len(s.tasks) {
		return model.Task{}, fmt.Errorf("%w: %d (len %d)", ErrOutOfRange, index, len(s.tasks))
	}
	removed := s.tasks[index]
	s.tasks = append(s.tasks[:index:index], s.tasks[index+1:]...)
	s.changed()
	return removed, nil
}

func (s *Store) Clear() {
	s.tasks = make([]model.Task, 0)
	s.changed()
}

// ReplaceAll swaps the whole list. No uniqueness or schema check happens
// here; duplicates in tasks are kept as given.
func (s *Store) ReplaceAll(tasks []model.Task) {
	next := make([]model.Task, len(tasks))
	copy(next, tasks)
	s.tasks = next
	s.changed()
}

func (s *Store) Contains(taskID string) bool {
	for _, t := range s.tasks {
		if t.TaskID == taskID {
			return true
		}
	}
	return false
}

func (s *Store) Len() int {
	return len(s.tasks)
}

func (s *Store) At(index int) (model.Task, bool) {
	if index < 0 || index >= len(s.tasks) {
		return model.Task{}, false
	}
	return s.tasks[index], true
}

// Tasks returns a copy of the current list.
func (s *Store) Tasks() []model.Task {
	out := make([]model.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

func (s *Store) Stats() Stats {
	st := Stats{Count: len(s.tasks)}
	for _, t := range s.tasks {
		st.TotalHours += t.EstimatedHours
	}
	return st
}

func (s *Store) changed() {
	if len(s.listeners) == 0 {
		return
	}
	st := s.Stats()
	for _, fn := range s.listeners {
		fn(st)
	}
}
