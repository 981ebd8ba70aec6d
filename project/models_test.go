package project

import (
	"testing"

	"github.com/xraph/crafting/types"
)

func TestFraction(t *testing.T) {
	tests := []struct {
		progress types.Coins
		cost     types.Coins
		want     float64
	}{
		{types.Gold(25), types.Gold(100), 0.25},
		{types.NoCoins(), types.Gold(100), 0},
		{types.Gold(150), types.Gold(100), 1},
		{types.Gold(-5), types.Gold(100), 0},
		{types.Gold(5), types.NoCoins(), 1},
	}

	for _, tt := range tests {
		if got := Fraction(tt.progress, tt.cost); got != tt.want {
			t.Errorf("Fraction(%v, %v) = %v, want %v", tt.progress, tt.cost, got, tt.want)
		}
	}
}

func TestRemaining(t *testing.T) {
	p := &Project{Progress: types.Gold(60)}

	if got := p.Remaining(types.Gold(100)); !got.Equal(types.Gold(40)) {
		t.Errorf("Remaining = %v, want 40 gp", got)
	}
	if got := p.Remaining(types.Gold(50)); !got.IsZero() {
		t.Errorf("Remaining past cost = %v, want zero", got)
	}
	if !p.Complete(types.Gold(60)) || p.Complete(types.Gold(61)) {
		t.Error("Complete threshold is progress >= cost")
	}
}
