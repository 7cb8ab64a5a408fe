package model

import (
	"fmt"
	"time"
)

type ImportanceLevel string

const (
	ImportanceLow    ImportanceLevel = "Low"
	ImportanceMedium ImportanceLevel = "Medium"
	ImportanceHigh   ImportanceLevel = "High"
)

// ImportanceBadge labels an importance value: <=3 Low, >=8 High, Medium otherwise.
func ImportanceBadge(importance int) ImportanceLevel {
	switch {
	case importance <= 3:
		return ImportanceLow
	case importance >= 8:
		return ImportanceHigh
	default:
		return ImportanceMedium
	}
}

// DueTier buckets the whole-day distance to a due date.
type DueTier string

const (
	DueTierOverdue DueTier = "overdue"
	DueTierToday   DueTier = "today"
	DueTierUrgent  DueTier = "urgent"
	DueTierSoon    DueTier = "soon"
	DueTierLater   DueTier = "later"
)

// DaysUntil is the number of calendar days from today to due. Clock and
// location are ignored; only the calendar dates are compared.
func DaysUntil(due, today time.Time) int {
	dy, dm, dd := due.Date()
	ty, tm, td := today.Date()
	d := time.Date(dy, dm, dd, 0, 0, 0, 0, time.UTC)
	t := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int(d.Sub(t).Hours() / 24)
}

func TierForDays(days int) DueTier {
	switch {
	case days < 0:
		return DueTierOverdue
	case days == 0:
		return DueTierToday
	case days <= 3:
		return DueTierUrgent
	case days <= 7:
		return DueTierSoon
	default:
		return DueTierLater
	}
}

// DueHint is the text shown next to the due date input.
type DueHint struct {
	Days int
	Tier DueTier
	Text string
}

func HintForDays(days int) DueHint {
	tier := TierForDays(days)
	var text string
	switch tier {
	case DueTierOverdue:
		text = fmt.Sprintf("⚠️ Past due by %d days!", -days)
	case DueTierToday:
		text = "🚨 Due today!"
	case DueTierUrgent:
		text = fmt.Sprintf("⏰ Due in %d %s - Urgent!", days, plural(days, "day", "days"))
	case DueTierSoon:
		text = fmt.Sprintf("📅 Due in %d days", days)
	default:
		text = fmt.Sprintf("📆 Due in %d days", days)
	}
	return DueHint{Days: days, Tier: tier, Text: text}
}

// UrgencyIcon is the compact marker used in the task preview list.
func UrgencyIcon(days int) string {
	switch TierForDays(days) {
	case DueTierOverdue:
		return "🚨"
	case DueTierToday:
		return "⚠️"
	case DueTierUrgent:
		return "⏰"
	case DueTierSoon:
		return "📅"
	default:
		return "📆"
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
