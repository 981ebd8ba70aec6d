package crafting

import "github.com/xraph/crafting/id"

// ID is the primary identifier type for all crafting records.
type ID = id.ID

// Prefix identifies the record type encoded in a TypeID.
type Prefix = id.Prefix
