package payment

import (
	"fmt"

	"github.com/xraph/crafting/reagent"
	"github.com/xraph/crafting/types"
)

// Result is what the caller must apply to settle a payment.
type Result struct {
	CanPay         bool             `json:"can_pay"`
	RemoveCurrency types.Coins      `json:"remove_currency"`
	ReagentUpdates []reagent.Update `json:"reagent_updates"`
}

type handler func(available types.Coins, reagents []reagent.Reagent, cost types.Coins) Result

var handlers = map[Strategy]handler{
	StrategyCurrencyOnly:   payCurrencyOnly,
	StrategyPreferCurrency: payPreferCurrency,
	StrategyPreferReagent:  payPreferReagent,
	StrategyReagentOnly:    payReagentOnly,
	StrategyFree:           payFree,
}

// Resolve computes how cost is paid from available coins and reagents under
// strategy. A declined result carries no removal and no updates.
func Resolve(strategy Strategy, available types.Coins, reagents []reagent.Reagent, cost types.Coins) (Result, error) {
	h, ok := handlers[strategy]
	if !ok {
		return declined(), fmt.Errorf("%w: %q", ErrUnknownStrategy, string(strategy))
	}

	res := h(available, reagents, cost)
	if !res.CanPay {
		return declined(), nil
	}
	if res.ReagentUpdates == nil {
		res.ReagentUpdates = []reagent.Update{}
	}
	return res, nil
}

func declined() Result {
	return Result{ReagentUpdates: []reagent.Update{}}
}

func payFree(types.Coins, []reagent.Reagent, types.Coins) Result {
	return Result{CanPay: true}
}

func payCurrencyOnly(available types.Coins, _ []reagent.Reagent, cost types.Coins) Result {
	if !cost.IsPositive() {
		return Result{CanPay: true}
	}
	if types.Difference(cost, available).IsPositive() {
		return declined()
	}
	return Result{CanPay: true, RemoveCurrency: cost}
}

func payReagentOnly(_ types.Coins, reagents []reagent.Reagent, cost types.Coins) Result {
	funded := reagent.Fund(reagents, cost, true)
	if !funded.CanPay {
		return declined()
	}
	return Result{CanPay: true, ReagentUpdates: funded.Updates}
}

func payPreferCurrency(available types.Coins, reagents []reagent.Reagent, cost types.Coins) Result {
	if !cost.IsPositive() {
		return Result{CanPay: true}
	}

	shortfall := types.Difference(cost, available)
	if !shortfall.IsPositive() {
		return Result{CanPay: true, RemoveCurrency: cost}
	}

	funded := reagent.Fund(reagents, shortfall, true)
	if !funded.CanPay {
		return declined()
	}
	return Result{
		CanPay:         true,
		RemoveCurrency: available.Max(types.NoCoins()),
		ReagentUpdates: funded.Updates,
	}
}

// payPreferReagent values the reagents once and derives both the reagent
// updates and the coin remainder from that single snapshot.
func payPreferReagent(available types.Coins, reagents []reagent.Reagent, cost types.Coins) Result {
	if !cost.IsPositive() {
		return Result{CanPay: true}
	}

	snapshot := reagent.TotalValue(reagents)
	if !snapshot.LessThan(cost) {
		funded := reagent.Fund(reagents, cost, true)
		return Result{CanPay: funded.CanPay, ReagentUpdates: funded.Updates}
	}

	remainder := types.Difference(cost, snapshot)
	if types.Difference(remainder, available).IsPositive() {
		return declined()
	}

	funded := reagent.Fund(reagents, snapshot, false)
	return Result{
		CanPay:         true,
		RemoveCurrency: remainder,
		ReagentUpdates: funded.Updates,
	}
}
