// Package types provides common types used across the crafting engine.
package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Denomination values expressed in copper.
const (
	CopperPerSilver   int64 = 10
	CopperPerGold     int64 = 100
	CopperPerPlatinum int64 = 1000
)

// ErrMalformedCoins is returned by ParseCoinsStrict for input that is not a
// list of "<amount> <denomination>" pairs.
var ErrMalformedCoins = errors.New("coins: malformed amount")

// Coins is a money quantity held in copper, the smallest denomination.
// All arithmetic is integer-only. Intermediate values may be negative
// (a difference); persisted amounts are never below zero.
//
// Examples:
//   - Gold(5) = "5 gp" (500 copper)
//   - Copper(1234) = "12 gp, 3 sp, 4 cp"
type Coins struct {
	Copper int64 `json:"copper"`
}

// Copper creates a Coins value from copper pieces.
func Copper(cp int64) Coins { return Coins{Copper: cp} }

// Silver creates a Coins value from silver pieces.
func Silver(sp int64) Coins { return Coins{Copper: sp * CopperPerSilver} }

// Gold creates a Coins value from gold pieces.
func Gold(gp int64) Coins { return Coins{Copper: gp * CopperPerGold} }

// Platinum creates a Coins value from platinum pieces.
func Platinum(pp int64) Coins { return Coins{Copper: pp * CopperPerPlatinum} }

// NoCoins returns the zero amount.
func NoCoins() Coins { return Coins{} }

// Arithmetic operations

// Add adds two amounts.
func (c Coins) Add(other Coins) Coins {
	return Coins{Copper: c.Copper + other.Copper}
}

// Subtract returns c minus other. The result is positive when c exceeds other.
func (c Coins) Subtract(other Coins) Coins {
	return Coins{Copper: c.Copper - other.Copper}
}

// Scale multiplies the amount by an integer quantity.
func (c Coins) Scale(n int64) Coins {
	return Coins{Copper: c.Copper * n}
}

// Difference returns cost minus available. A positive result is the
// shortfall; zero or negative means available covers cost.
func Difference(cost, available Coins) Coins {
	return cost.Subtract(available)
}

// Comparison methods

// IsZero returns true if the amount is zero.
func (c Coins) IsZero() bool { return c.Copper == 0 }

// IsPositive returns true if the amount is greater than zero.
func (c Coins) IsPositive() bool { return c.Copper > 0 }

// IsNegative returns true if the amount is less than zero.
func (c Coins) IsNegative() bool { return c.Copper < 0 }

// Equal returns true if both amounts are equal.
func (c Coins) Equal(other Coins) bool { return c.Copper == other.Copper }

// LessThan returns true if c is less than other.
func (c Coins) LessThan(other Coins) bool { return c.Copper < other.Copper }

// GreaterThan returns true if c is greater than other.
func (c Coins) GreaterThan(other Coins) bool { return c.Copper > other.Copper }

// Min returns the smaller of two amounts.
func (c Coins) Min(other Coins) Coins {
	if c.Copper < other.Copper {
		return c
	}
	return other
}

// Max returns the larger of two amounts.
func (c Coins) Max(other Coins) Coins {
	if c.Copper > other.Copper {
		return c
	}
	return other
}

// Formatting

// String renders the amount as "X gp, Y sp, Z cp", omitting zero
// denominations. Gold is the largest unit printed; platinum is only
// accepted on input. The zero amount renders as "0 gp".
func (c Coins) String() string {
	if c.Copper == 0 {
		return "0 gp"
	}

	amount := c.Copper
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	gp := amount / CopperPerGold
	sp := (amount % CopperPerGold) / CopperPerSilver
	cp := amount % CopperPerSilver

	parts := make([]string, 0, 3)
	if gp > 0 {
		parts = append(parts, strconv.FormatInt(gp, 10)+" gp")
	}
	if sp > 0 {
		parts = append(parts, strconv.FormatInt(sp, 10)+" sp")
	}
	if cp > 0 {
		parts = append(parts, strconv.FormatInt(cp, 10)+" cp")
	}

	return sign + strings.Join(parts, ", ")
}

// MarshalJSON implements json.Marshaler.
func (c Coins) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Copper  int64  `json:"copper"`
		Display string `json:"display"`
	}{
		Copper:  c.Copper,
		Display: c.String(),
	})
}

// Parsing

// ParseCoins parses a denominated string such as "5 gp, 4 sp" or "1pp 3cp".
// Malformed input yields the zero amount; display paths degrade instead of
// failing. Use ParseCoinsStrict when the caller needs the error.
func ParseCoins(s string) Coins {
	c, err := ParseCoinsStrict(s)
	if err != nil {
		return NoCoins()
	}
	return c
}

// ParseCoinsStrict parses a denominated string and reports malformed input.
// Tokens may be separated by commas and/or whitespace, the amount and the
// denomination may be joined ("5gp") and repeated denominations are summed.
// An empty string is the zero amount.
func ParseCoinsStrict(s string) (Coins, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})

	var total int64
	for i := 0; i < len(fields); i++ {
		numPart, denomPart := splitAmount(fields[i])
		if numPart == "" {
			return NoCoins(), fmt.Errorf("%w: %q: expected a number, got %q", ErrMalformedCoins, s, fields[i])
		}
		if denomPart == "" {
			if i+1 >= len(fields) {
				return NoCoins(), fmt.Errorf("%w: %q: missing denomination after %q", ErrMalformedCoins, s, numPart)
			}
			i++
			denomPart = fields[i]
		}

		n, err := strconv.ParseInt(numPart, 10, 64)
		if err != nil {
			return NoCoins(), fmt.Errorf("%w: %q: %v", ErrMalformedCoins, s, err)
		}
		unit, ok := denominationValue(denomPart)
		if !ok {
			return NoCoins(), fmt.Errorf("%w: %q: unknown denomination %q", ErrMalformedCoins, s, denomPart)
		}
		if n > (math.MaxInt64-total)/unit {
			return NoCoins(), fmt.Errorf("%w: %q: amount overflows", ErrMalformedCoins, s)
		}
		total += n * unit
	}

	return Coins{Copper: total}, nil
}

// splitAmount splits "12gp" into ("12", "gp") and "12" into ("12", "").
func splitAmount(token string) (string, string) {
	end := 0
	for end < len(token) && token[end] >= '0' && token[end] <= '9' {
		end++
	}
	return token[:end], token[end:]
}

func denominationValue(denom string) (int64, bool) {
	switch strings.ToLower(denom) {
	case "pp":
		return CopperPerPlatinum, true
	case "gp":
		return CopperPerGold, true
	case "sp":
		return CopperPerSilver, true
	case "cp":
		return 1, true
	default:
		return 0, false
	}
}

// Sum calculates the sum of multiple amounts.
func Sum(values ...Coins) Coins {
	var result Coins
	for _, v := range values {
		result = result.Add(v)
	}
	return result
}
