package types

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
	"testing/quick"
)

func TestCoinsConstructors(t *testing.T) {
	tests := []struct {
		name    string
		coins   Coins
		copper  int64
		display string
	}{
		{"Copper", Copper(7), 7, "7 cp"},
		{"Silver", Silver(3), 30, "3 sp"},
		{"Gold", Gold(5), 500, "5 gp"},
		{"Platinum", Platinum(2), 2000, "20 gp"},
		{"Mixed", Copper(1234), 1234, "12 gp, 3 sp, 4 cp"},
		{"Gold and copper", Copper(502), 502, "5 gp, 2 cp"},
		{"Zero", NoCoins(), 0, "0 gp"},
		{"Negative", Copper(-510), -510, "-5 gp, 1 sp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.coins.Copper != tt.copper {
				t.Errorf("Copper: got %d, want %d", tt.coins.Copper, tt.copper)
			}
			if tt.coins.String() != tt.display {
				t.Errorf("Display: got %q, want %q", tt.coins.String(), tt.display)
			}
		})
	}
}

func TestCoinsArithmetic(t *testing.T) {
	tests := []struct {
		name     string
		op       func() Coins
		expected Coins
	}{
		{"Add", func() Coins { return Gold(1).Add(Silver(5)) }, Copper(150)},
		{"Subtract", func() Coins { return Gold(5).Subtract(Gold(2)) }, Gold(3)},
		{"Subtract signed", func() Coins { return Gold(2).Subtract(Gold(5)) }, Gold(-3)},
		{"Scale", func() Coins { return Gold(3).Scale(4) }, Gold(12)},
		{"Difference shortfall", func() Coins { return Difference(Gold(50), Gold(30)) }, Gold(20)},
		{"Difference surplus", func() Coins { return Difference(Gold(30), Gold(50)) }, Gold(-20)},
		{"Sum", func() Coins { return Sum(Gold(1), Silver(1), Copper(1)) }, Copper(111)},
		{"Sum empty", func() Coins { return Sum() }, NoCoins()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.op(); !got.Equal(tt.expected) {
				t.Errorf("got %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCoinsComparison(t *testing.T) {
	if !Gold(1).LessThan(Gold(2)) || Gold(2).LessThan(Gold(1)) {
		t.Error("LessThan mismatch")
	}
	if !Gold(2).GreaterThan(Silver(19)) {
		t.Error("GreaterThan mismatch")
	}
	if got := Gold(1).Min(Silver(3)); !got.Equal(Silver(3)) {
		t.Errorf("Min: got %v", got)
	}
	if got := Gold(1).Max(Silver(3)); !got.Equal(Gold(1)) {
		t.Errorf("Max: got %v", got)
	}
	if !NoCoins().IsZero() || !Copper(1).IsPositive() || !Copper(-1).IsNegative() {
		t.Error("predicate mismatch")
	}
}

func TestParseCoins(t *testing.T) {
	tests := []struct {
		input    string
		expected Coins
	}{
		{"5 gp", Gold(5)},
		{"5 gp, 4 sp", Copper(540)},
		{"1 pp, 2 gp, 3 sp, 4 cp", Copper(1234)},
		{"1pp 3cp", Copper(1003)},
		{"10 GP", Gold(10)},
		{"2 gp, 2 gp", Gold(4)},
		{"", NoCoins()},
		{"  ", NoCoins()},
		{"0 gp", NoCoins()},
		{"1 gp ", Gold(1)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseCoins(tt.input); !got.Equal(tt.expected) {
				t.Errorf("ParseCoins(%q): got %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParseCoinsMalformed(t *testing.T) {
	inputs := []string{"gp", "5", "5 gold", "five gp", "-5 gp", "5 gp, sp", "1.5 gp"}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			if got := ParseCoins(in); !got.IsZero() {
				t.Errorf("ParseCoins(%q): got %v, want zero", in, got)
			}
			if _, err := ParseCoinsStrict(in); !errors.Is(err, ErrMalformedCoins) {
				t.Errorf("ParseCoinsStrict(%q): got %v, want ErrMalformedCoins", in, err)
			}
		})
	}
}

func TestCoinsRoundTrip(t *testing.T) {
	amounts := []int64{0, 1, 9, 10, 99, 100, 101, 999, 1000, 1234, 50000, 987654321}

	for _, cp := range amounts {
		c := Copper(cp)
		if got := ParseCoins(c.String()); !got.Equal(c) {
			t.Errorf("round trip %d: %q parsed to %v", cp, c.String(), got)
		}
	}
}

func TestCoinsRoundTripProperty(t *testing.T) {
	roundTrips := func(raw int64) bool {
		c := Copper(raw & math.MaxInt64)
		got, err := ParseCoinsStrict(c.String())
		return err == nil && got.Equal(c)
	}
	if err := quick.Check(roundTrips, &quick.Config{MaxCount: 5000}); err != nil {
		t.Error(err)
	}

	for _, cp := range []int64{math.MaxInt64, math.MaxInt64 - 1, math.MaxInt64 / 100 * 100} {
		if !roundTrips(cp) {
			t.Errorf("round trip %d failed for %q", cp, Copper(cp).String())
		}
	}
}

func TestParseCoinsOverflow(t *testing.T) {
	inputs := []string{
		"9223372036854775807 cp, 1 cp",
		"92233720368547759 gp",
		"9223372036854775807 pp",
		"9223372036854775808 cp",
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			got, err := ParseCoinsStrict(in)
			if !errors.Is(err, ErrMalformedCoins) {
				t.Errorf("ParseCoinsStrict(%q) = %v, %v; want ErrMalformedCoins", in, got, err)
			}
			if got.IsNegative() {
				t.Errorf("ParseCoinsStrict(%q) went negative: %v", in, got)
			}
		})
	}
}

func TestCoinsJSON(t *testing.T) {
	c := Copper(540)

	data, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}

	expected := `{"copper":540,"display":"5 gp, 4 sp"}`
	if string(data) != expected {
		t.Errorf("JSON: got %s, want %s", string(data), expected)
	}

	var back Coins
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if !back.Equal(c) {
		t.Errorf("Unmarshal: got %v, want %v", back, c)
	}
}

func BenchmarkCoinsString(b *testing.B) {
	c := Copper(1234)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = c.String()
	}
}

func BenchmarkParseCoins(b *testing.B) {
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = ParseCoins("12 gp, 3 sp, 4 cp")
	}
}
