package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the wire format of due_date: a calendar date with no clock.
const DateLayout = "2006-01-02"

const (
	MinImportance = 1
	MaxImportance = 10
)

var (
	ErrInvalidDueDate    = errors.New("model: invalid due date")
	ErrInvalidHours      = errors.New("model: invalid estimated hours")
	ErrInvalidImportance = errors.New("model: invalid importance")
)

// Task is one unit of work as exchanged with the analysis service.
//
// A task decoded from JSON keeps the element it came from and is encoded
// back as that element, so unknown fields and odd value types reach the
// service untouched. The typed fields are a best-effort reading for display.
type Task struct {
	TaskID         string   `json:"task_id"`
	Title          string   `json:"title"`
	DueDate        string   `json:"due_date"`
	EstimatedHours float64  `json:"estimated_hours"`
	Importance     int      `json:"importance"`
	Dependencies   []string `json:"dependencies"`

	raw json.RawMessage
}

// Raw is the JSON element the task was decoded from, or nil.
func (t Task) Raw() json.RawMessage {
	return t.raw
}

func (t Task) MarshalJSON() ([]byte, error) {
	if len(t.raw) > 0 {
		return t.raw, nil
	}
	type plain Task
	return json.Marshal(plain(t))
}

// UnmarshalJSON never fails on a JSON object: numbers given as strings,
// ids given as numbers and fractional importance are read loosely.
func (t *Task) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	*t = Task{
		TaskID:         looseString(fields["task_id"]),
		Title:          looseString(fields["title"]),
		DueDate:        looseString(fields["due_date"]),
		EstimatedHours: looseNumber(fields["estimated_hours"]),
		Importance:     int(math.Round(looseNumber(fields["importance"]))),
		Dependencies:   looseStrings(fields["dependencies"]),
		raw:            append(json.RawMessage(nil), data...),
	}
	return nil
}

func looseString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	text := strings.TrimSpace(string(raw))
	if text == "null" {
		return ""
	}
	return text
}

func looseNumber(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return v
		}
	}
	return 0
}

func looseStrings(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		if s := looseString(raw); s != "" {
			return []string{s}
		}
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, looseString(item))
	}
	return out
}

// Validate checks the contract the manual form enforces before insertion.
// Tasks loaded from JSON are never passed through it.
func (t Task) Validate() error {
	if strings.TrimSpace(t.TaskID) == "" {
		return errors.New("model: task_id is required")
	}
	if strings.TrimSpace(t.Title) == "" {
		return errors.New("model: title is required")
	}
	if _, err := ParseDueDate(t.DueDate); err != nil {
		return err
	}
	if t.EstimatedHours < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidHours, t.EstimatedHours)
	}
	if t.Importance < MinImportance || t.Importance > MaxImportance {
		return fmt.Errorf("%w: %d", ErrInvalidImportance, t.Importance)
	}
	return nil
}

// ParseDueDate parses a YYYY-MM-DD date into midnight UTC of that calendar day.
func ParseDueDate(raw string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDueDate, raw)
	}
	return d, nil
}

// FormatDueDate renders the calendar day of t in its own location.
func FormatDueDate(t time.Time) string {
	return t.Format(DateLayout)
}

// AnalyzedTask is a task as returned by the analysis service.
type AnalyzedTask struct {
	Task
	PriorityScore float64 `json:"priority_score"`
	Explanation   string  `json:"explanation"`
}

func (a *AnalyzedTask) UnmarshalJSON(data []byte) error {
	if err := a.Task.UnmarshalJSON(data); err != nil {
		return err
	}
	var scored struct {
		PriorityScore float64 `json:"priority_score"`
		Explanation   string  `json:"explanation"`
	}
	if err := json.Unmarshal(data, &scored); err != nil {
		return err
	}
	a.PriorityScore = scored.PriorityScore
	a.Explanation = scored.Explanation
	return nil
}

func (a AnalyzedTask) MarshalJSON() ([]byte, error) {
	base, err := a.Task.MarshalJSON()
	if err != nil {
		return nil, err
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(base, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]json.RawMessage{}
	}
	score, err := json.Marshal(a.PriorityScore)
	if err != nil {
		return nil, err
	}
	explanation, err := json.Marshal(a.Explanation)
	if err != nil {
		return nil, err
	}
	fields["priority_score"] = score
	fields["explanation"] = explanation
	return json.Marshal(fields)
}

// AnalysisRequest is the body of POST <base>/analyze/ and <base>/suggest/.
type AnalysisRequest struct {
	Tasks    []Task   `json:"tasks"`
	Strategy Strategy `json:"strategy"`
}

// AnalysisResponse is a successful analyze body. Tasks are already rank ordered.
type AnalysisResponse struct {
	Strategy   Strategy       `json:"strategy"`
	TotalTasks int            `json:"total_tasks"`
	Tasks      []AnalyzedTask `json:"tasks"`
}

// SuggestionResponse is a successful suggest body.
type SuggestionResponse struct {
	SuggestedTasks []AnalyzedTask `json:"suggested_tasks"`
	Strategy       Strategy       `json:"strategy"`
	Message        string         `json:"message"`
}

// HealthStatus is the body of GET <base>/health/.
type HealthStatus struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
