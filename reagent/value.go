package reagent

import "github.com/xraph/crafting/types"

// Valid source levels for reagents.
const (
	MinLevel = 0
	MaxLevel = 20
)

// bulkValueTable is the value of one Bulk of reagent by source level,
// starting at level -1.
var bulkValueTable = [...]types.Coins{
	types.Gold(1), types.Gold(2), types.Gold(4), types.Gold(7), types.Gold(12),
	types.Gold(20), types.Gold(30), types.Gold(50), types.Gold(70), types.Gold(110),
	types.Gold(150), types.Gold(180), types.Gold(300), types.Gold(420), types.Gold(600),
	types.Gold(950), types.Gold(1300), types.Gold(1800), types.Gold(2500), types.Gold(5000),
	types.Gold(7500), types.Gold(10000),
}

// BulkValue returns the value of one Bulk at the given level. Levels
// outside [MinLevel, MaxLevel] hold no value.
func BulkValue(level int) types.Coins {
	if level < MinLevel || level > MaxLevel {
		return types.NoCoins()
	}
	return bulkValueTable[level+1]
}

// UnitValue returns the value of one quantity unit (one light bulk) at the
// given level.
func UnitValue(level int) types.Coins {
	return types.Copper(BulkValue(level).Copper / LightUnitsPerBulk)
}
