// Package form turns raw form field text into task store mutations and
// computes the small derived widgets shown next to the inputs.
package form

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sandeepkv93/taskrank/internal/model"
	"github.com/sandeepkv93/taskrank/internal/store"
)

const DefaultImportance = 5

var (
	ErrRequired      = errors.New("form: field is required")
	ErrInvalidNumber = errors.New("form: invalid number")
)

// Detail is the raw text of the detailed task form.
type Detail struct {
	TaskID       string
	Title        string
	DueDate      string
	Hours        string
	Importance   string
	Dependencies string
}

// Quick is the state of the quick-add form.
type Quick struct {
	Title   string
	Urgency model.Urgency
	Effort  model.Effort
}

func DefaultQuick() Quick {
	return Quick{Urgency: model.UrgencyMedium, Effort: model.EffortMedium}
}

// Build parses the detailed form into a task.
func (d Detail) Build() (model.Task, error) {
	id := strings.TrimSpace(d.TaskID)
	if id == "" {
		return model.Task{}, fmt.Errorf("%w: task id", ErrRequired)
	}
	title := strings.TrimSpace(d.Title)
	if title == "" {
		return model.Task{}, fmt.Errorf("%w: title", ErrRequired)
	}
	if strings.TrimSpace(d.DueDate) == "" {
		return model.Task{}, fmt.Errorf("%w: due date", ErrRequired)
	}
	if strings.TrimSpace(d.Hours) == "" {
		return model.Task{}, fmt.Errorf("%w: estimated hours", ErrRequired)
	}
	hours, err := strconv.ParseFloat(strings.TrimSpace(d.Hours), 64)
	if err != nil {
		return model.Task{}, fmt.Errorf("%w: estimated hours %q", ErrInvalidNumber, d.Hours)
	}
	importance := DefaultImportance
	if raw := strings.TrimSpace(d.Importance); raw != "" {
		importance, err = strconv.Atoi(raw)
		if err != nil {
			return model.Task{}, fmt.Errorf("%w: importance %q", ErrInvalidNumber, d.Importance)
		}
	}
	t := model.Task{
		TaskID:         id,
		Title:          title,
		DueDate:        strings.TrimSpace(d.DueDate),
		EstimatedHours: hours,
		Importance:     importance,
		Dependencies:   ParseDependencies(d.Dependencies),
	}
	if err := t.Validate(); err != nil {
		return model.Task{}, err
	}
	return t, nil
}

// ParseDependencies splits a comma separated id list, dropping blanks.
func ParseDependencies(raw string) []string {
	out := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Controller applies form submissions to a store. It owns the quick-add
// sequence, which starts at 1 and only advances on a successful add.
type Controller struct {
	store    *store.Store
	quickSeq int
	now      func() time.Time
}

func NewController(s *store.Store, now func() time.Time) *Controller {
	if now == nil {
		now = time.Now
	}
	return &Controller{store: s, quickSeq: 1, now: now}
}

// SubmitDetail validates the form and appends it. A duplicate id returns
// store.ErrDuplicateID and leaves the store unchanged.
func (c *Controller) SubmitDetail(d Detail) (model.Task, error) {
	t, err := d.Build()
	if err != nil {
		return model.Task{}, err
	}
	if err := c.store.Append(t); err != nil {
		return model.Task{}, err
	}
	return t, nil
}

// SubmitQuick derives a task from the coarse categories and appends it.
func (c *Controller) SubmitQuick(q Quick) (model.Task, error) {
	title := strings.TrimSpace(q.Title)
	if title == "" {
		return model.Task{}, fmt.Errorf("%w: title", ErrRequired)
	}
	t := model.NewQuickTask(c.quickSeq, title, q.Urgency, q.Effort, c.now())
	c.store.Push(t)
	c.quickSeq++
	return t, nil
}

// NextQuickID is the id the next quick-add will receive.
func (c *Controller) NextQuickID() string {
	return model.QuickTaskID(c.quickSeq)
}

// ImportanceBadge labels the raw importance text. Unparseable text falls
// back to the form default.
func ImportanceBadge(raw string) (int, model.ImportanceLevel) {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		v = DefaultImportance
	}
	return v, model.ImportanceBadge(v)
}

// DueHint computes the hint for the raw due date text. ok is false while the
// text is not a complete date.
func DueHint(raw string, today time.Time) (model.DueHint, bool) {
	due, err := model.ParseDueDate(raw)
	if err != nil {
		return model.DueHint{}, false
	}
	return model.HintForDays(model.DaysUntil(due, today)), true
}

// TaskUrgencyIcon is the preview-list marker for a stored task. Tasks with
// an unreadable due date get no icon.
func TaskUrgencyIcon(t model.Task, today time.Time) string {
	due, err := model.ParseDueDate(t.DueDate)
	if err != nil {
		return ""
	}
	return model.UrgencyIcon(model.DaysUntil(due, today))
}
