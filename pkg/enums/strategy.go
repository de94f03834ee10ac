package enums

import (
	"fmt"
	"strings"
)

// Strategy identifies a batch consumption policy.
type Strategy string

const (
	// StrategyFIFO consumes the oldest expiry first.
	StrategyFIFO Strategy = "FIFO"
	// StrategyLIFO consumes the newest expiry first.
	StrategyLIFO Strategy = "LIFO"
	// StrategyLocationBased consumes from the nearest warehouse first.
	// Declared for forward compatibility; no implementation ships yet.
	StrategyLocationBased Strategy = "LOCATION_BASED"
	// StrategyPriority consumes according to business priority rules.
	// Declared for forward compatibility; no implementation ships yet.
	StrategyPriority Strategy = "PRIORITY"
)

// DefaultStrategy is the policy used when a request does not name one.
func DefaultStrategy() Strategy {
	return StrategyFIFO
}

// Strategies returns the closed set of declared policy identifiers.
func Strategies() []Strategy {
	return []Strategy{StrategyFIFO, StrategyLIFO, StrategyLocationBased, StrategyPriority}
}

// IsValid reports whether the value is a declared strategy.
func (s Strategy) IsValid() bool {
	switch s {
	case StrategyFIFO, StrategyLIFO, StrategyLocationBased, StrategyPriority:
		return true
	}
	return false
}

// ParseStrategy converts user input to a Strategy. Blank input resolves to
// the default; matching is case-insensitive.
func ParseStrategy(value string) (Strategy, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return DefaultStrategy(), nil
	}
	candidate := Strategy(strings.ToUpper(trimmed))
	if !candidate.IsValid() {
		return "", fmt.Errorf("invalid inventory strategy %q", value)
	}
	return candidate, nil
}
