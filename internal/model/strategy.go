package model

import "strings"

// Strategy selects a prioritization policy on the analysis service.
// The meaning of each value belongs to the service.
type Strategy string

const (
	StrategySmartBalance   Strategy = "smart_balance"
	StrategyFastestWins    Strategy = "fastest_wins"
	StrategyHighImpact     Strategy = "high_impact"
	StrategyDeadlineDriven Strategy = "deadline_driven"
)

var strategyDescriptions = map[Strategy]string{
	StrategySmartBalance:   "Balanced approach considering urgency, importance, effort, and dependencies equally",
	StrategyFastestWins:    "Prioritizes quick, low-effort tasks for momentum building",
	StrategyHighImpact:     "Focuses on high-value tasks that unlock other work",
	StrategyDeadlineDriven: "Time-sensitive approach for deadline pressure scenarios",
}

var strategyIcons = map[Strategy]string{
	StrategySmartBalance:   "⚖️",
	StrategyFastestWins:    "⚡",
	StrategyHighImpact:     "🎯",
	StrategyDeadlineDriven: "⏰",
}

// Strategies lists the known identifiers in selector order.
func Strategies() []Strategy {
	return []Strategy{StrategySmartBalance, StrategyFastestWins, StrategyHighImpact, StrategyDeadlineDriven}
}

func (s Strategy) IsValid() bool {
	_, ok := strategyDescriptions[s]
	return ok
}

// Description is the help text shown under the strategy selector.
func (s Strategy) Description() string {
	if d, ok := strategyDescriptions[s]; ok {
		return d
	}
	return "Select a strategy"
}

// Title turns smart_balance into SMART BALANCE.
func (s Strategy) Title() string {
	return strings.ToUpper(strings.ReplaceAll(string(s), "_", " "))
}

func (s Strategy) Icon() string {
	if icon, ok := strategyIcons[s]; ok {
		return icon
	}
	return "📊"
}

// Next cycles through Strategies; unknown values restart at the first one.
func (s Strategy) Next() Strategy {
	return cycle(Strategies(), s, 1)
}

func (s Strategy) Prev() Strategy {
	return cycle(Strategies(), s, -1)
}
