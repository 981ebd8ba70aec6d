package crafting

import (
	"github.com/xraph/crafting/payment"
	"github.com/xraph/crafting/types"
)

// Re-export common types for convenience so users don't have to import types package.

// Coins is re-exported from types package.
type Coins = types.Coins

// Entity is re-exported from types package.
type Entity = types.Entity

// Strategy is re-exported from payment package.
type Strategy = payment.Strategy

// Re-export Coins constructors
var (
	Copper     = types.Copper
	Silver     = types.Silver
	Gold       = types.Gold
	Platinum   = types.Platinum
	NoCoins    = types.NoCoins
	Sum        = types.Sum
	ParseCoins = types.ParseCoins
)

// Re-export payment strategies
const (
	StrategyCurrencyOnly   = payment.StrategyCurrencyOnly
	StrategyPreferCurrency = payment.StrategyPreferCurrency
	StrategyPreferReagent  = payment.StrategyPreferReagent
	StrategyReagentOnly    = payment.StrategyReagentOnly
	StrategyFree           = payment.StrategyFree
)

// Re-export Entity constructor
var NewEntity = types.NewEntity
