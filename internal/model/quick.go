package model

import (
	"fmt"
	"time"
)

type Urgency string

const (
	UrgencyHigh   Urgency = "high"
	UrgencyMedium Urgency = "medium"
	UrgencyLow    Urgency = "low"
)

func Urgencies() []Urgency {
	return []Urgency{UrgencyHigh, UrgencyMedium, UrgencyLow}
}

// Schedule maps an urgency to days-until-due and importance.
// Anything other than high or medium is treated as low.
func (u Urgency) Schedule() (days int, importance int) {
	switch u {
	case UrgencyHigh:
		return 2, 9
	case UrgencyMedium:
		return 5, 6
	default:
		return 14, 4
	}
}

type Effort string

const (
	EffortQuick  Effort = "quick"
	EffortMedium Effort = "medium"
	EffortLong   Effort = "long"
)

func Efforts() []Effort {
	return []Effort{EffortQuick, EffortMedium, EffortLong}
}

// Hours maps an effort category to an estimate; unknown values get 3h.
func (e Effort) Hours() float64 {
	switch e {
	case EffortQuick:
		return 1
	case EffortLong:
		return 6
	default:
		return 3
	}
}

// QuickTaskID renders the generated id for the n-th quick-add, e.g. QUICK-007.
func QuickTaskID(n int) string {
	return fmt.Sprintf("QUICK-%03d", n)
}

// NewQuickTask derives a full task from coarse categories.
func NewQuickTask(seq int, title string, urgency Urgency, effort Effort, today time.Time) Task {
	days, importance := urgency.Schedule()
	return Task{
		TaskID:         QuickTaskID(seq),
		Title:          title,
		DueDate:        FormatDueDate(today.AddDate(0, 0, days)),
		EstimatedHours: effort.Hours(),
		Importance:     importance,
		Dependencies:   []string{},
	}
}

// cycle helpers for selector widgets

func (u Urgency) Next() Urgency {
	return cycle(Urgencies(), u, 1)
}

func (u Urgency) Prev() Urgency {
	return cycle(Urgencies(), u, -1)
}

func (e Effort) Next() Effort {
	return cycle(Efforts(), e, 1)
}

func (e Effort) Prev() Effort {
	return cycle(Efforts(), e, -1)
}

func cycle[T comparable](all []T, cur T, step int) T {
	for i, item := range all {
		if item == cur {
			return all[(i+step+len(all))%len(all)]
		}
	}
	return all[0]
}
