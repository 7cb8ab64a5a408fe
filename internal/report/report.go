// Package report turns an analysis response into a read-only view model.
// It never re-sorts: the response order is the rank.
package report

import (
	"strings"

	"github.com/sandeepkv93/taskrank/internal/model"
)

type Tier string

const (
	TierHigh   Tier = "high"
	TierMedium Tier = "medium"
	TierLow    Tier = "low"
)

// TierForScore buckets a priority score: >=7 high, >=5 medium, else low.
func TierForScore(score float64) Tier {
	switch {
	case score >= 7:
		return TierHigh
	case score >= 5:
		return TierMedium
	default:
		return TierLow
	}
}

func (t Tier) Label() string {
	switch t {
	case TierHigh:
		return "HIGH PRIORITY"
	case TierMedium:
		return "MEDIUM"
	default:
		return "LOW"
	}
}

type RankBadge string

const (
	BadgeGold   RankBadge = "gold"
	BadgeSilver RankBadge = "silver"
	BadgeBronze RankBadge = "bronze"
	BadgePin    RankBadge = "pin"
)

// BadgeForPosition decorates the first three positions; the rest get a pin.
func BadgeForPosition(pos int) RankBadge {
	switch pos {
	case 0:
		return BadgeGold
	case 1:
		return BadgeSilver
	case 2:
		return BadgeBronze
	default:
		return BadgePin
	}
}

func (b RankBadge) Icon() string {
	switch b {
	case BadgeGold:
		return "🥇"
	case BadgeSilver:
		return "🥈"
	case BadgeBronze:
		return "🥉"
	default:
		return "📌"
	}
}

// Card is one ranked task.
type Card struct {
	Position         int
	Rank             int
	Badge            RankBadge
	Tier             Tier
	Score            float64
	TaskID           string
	Title            string
	DueDate          string
	EstimatedHours   float64
	Importance       int
	Dependencies     []string
	ShowDependencies bool
	Explanation      string
}

// Report is the whole results panel.
type Report struct {
	Strategy      model.Strategy
	StrategyTitle string
	StrategyIcon  string
	TotalTasks    int
	Cards         []Card
}

func Build(resp model.AnalysisResponse) Report {
	r := Report{
		Strategy:      resp.Strategy,
		StrategyTitle: resp.Strategy.Title(),
		StrategyIcon:  resp.Strategy.Icon(),
		TotalTasks:    resp.TotalTasks,
		Cards:         make([]Card, 0, len(resp.Tasks)),
	}
	for i, t := range resp.Tasks {
		deps := make([]string, len(t.Dependencies))
		copy(deps, t.Dependencies)
		r.Cards = append(r.Cards, Card{
			Position:         i,
			Rank:             i + 1,
			Badge:            BadgeForPosition(i),
			Tier:             TierForScore(t.PriorityScore),
			Score:            t.PriorityScore,
			TaskID:           t.TaskID,
			Title:            t.Title,
			DueDate:          t.DueDate,
			EstimatedHours:   t.EstimatedHours,
			Importance:       t.Importance,
			Dependencies:     deps,
			ShowDependencies: len(deps) > 0,
			Explanation:      t.Explanation,
		})
	}
	return r
}

// DependencyLine joins a card's dependencies for display.
func (c Card) DependencyLine() string {
	return strings.Join(c.Dependencies, ", ")
}
