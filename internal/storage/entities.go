package storage

import "time"

// Run is one successful analysis of the session.
type Run struct {
	ID         string
	Strategy   string
	TotalTasks int
	CreatedAt  time.Time
	Tasks      []RunTask
}

// RunTask is a ranked task inside a run. Position 0 is the top rank.
type RunTask struct {
	Position       int
	TaskID         string
	Title          string
	DueDate        string
	EstimatedHours float64
	Importance     int
	Dependencies   []string
	PriorityScore  float64
	Explanation    string
}

type RunListFilter struct {
	Strategy string
	Limit    int
	Offset   int
}
