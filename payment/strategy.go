// Package payment decides how a cost is covered by coins, reagents, or both.
//
// Resolve only computes a Result. It never touches the payer's inventory;
// the caller applies the result when, and only when, CanPay is true.
package payment

import (
	"errors"
	"fmt"
)

// ErrUnknownStrategy is returned for a strategy tag outside the closed set.
var ErrUnknownStrategy = errors.New("payment: unknown strategy")

// Strategy selects how a cost is funded. The tags match the values stored
// as an owner's preferred payment method.
type Strategy string

const (
	// StrategyCurrencyOnly pays entirely from coins.
	StrategyCurrencyOnly Strategy = "fullCoin"
	// StrategyPreferCurrency pays from coins and funds any shortfall from reagents.
	StrategyPreferCurrency Strategy = "preferCoin"
	// StrategyPreferReagent pays from reagents and funds any shortfall from coins.
	StrategyPreferReagent Strategy = "preferReagent"
	// StrategyReagentOnly pays entirely from reagents.
	StrategyReagentOnly Strategy = "fullReagent"
	// StrategyFree pays nothing.
	StrategyFree Strategy = "free"
)

// DefaultStrategy is used when an owner has no stored preference.
const DefaultStrategy = StrategyCurrencyOnly

// Strategies returns every supported strategy in display order.
func Strategies() []Strategy {
	return []Strategy{
		StrategyCurrencyOnly,
		StrategyPreferCurrency,
		StrategyPreferReagent,
		StrategyReagentOnly,
		StrategyFree,
	}
}

// ParseStrategy validates a strategy tag.
func ParseStrategy(s string) (Strategy, error) {
	st := Strategy(s)
	if _, ok := handlers[st]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
	}
	return st, nil
}

// Valid reports whether s is one of the supported strategies.
func (s Strategy) Valid() bool {
	_, ok := handlers[s]
	return ok
}

func (s Strategy) String() string { return string(s) }
