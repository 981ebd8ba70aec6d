package crafting

import (
	"context"
	"fmt"
	"slices"

	"github.com/xraph/crafting/announce"
	"github.com/xraph/crafting/payment"
	"github.com/xraph/crafting/reagent"
	"github.com/xraph/crafting/types"
)

// pay resolves cost against the payer's coins and reagents and applies the
// result. Nothing is mutated unless the whole cost can be paid.
func (e *Engine) pay(ctx context.Context, payerID string, strategy payment.Strategy, cost types.Coins) (payment.Result, error) {
	available, err := e.inventory.Coins(ctx, payerID)
	if err != nil {
		return payment.Result{}, fmt.Errorf("crafting: read coins: %w", err)
	}
	reagents, err := e.inventory.Reagents(ctx, payerID)
	if err != nil {
		return payment.Result{}, fmt.Errorf("crafting: read reagents: %w", err)
	}

	res, err := payment.Resolve(strategy, available, reagents, cost)
	if err != nil {
		return res, fmt.Errorf("%w: %w", ErrUnknownStrategy, err)
	}

	if !res.CanPay {
		e.notify(ctx, payerID, announce.LevelWarning, announce.MsgCannotPay, e.displayName(ctx, payerID))
		e.plugins.EmitPaymentDeclined(ctx, payerID, strategy, cost)
		e.logger.Debug("crafting: payment declined",
			"payer_id", payerID,
			"strategy", strategy,
			"cost", cost.String(),
			"available", available.String(),
		)
		return res, fmt.Errorf("%w: %s cannot pay %s", ErrInsufficientFunds, payerID, cost)
	}

	// Reagents first; they are restored from the snapshot if coins fail.
	if len(res.ReagentUpdates) > 0 {
		if err := e.inventory.ApplyReagentUpdates(ctx, payerID, res.ReagentUpdates); err != nil {
			return res, fmt.Errorf("crafting: update reagents: %w", err)
		}
	}
	if res.RemoveCurrency.IsPositive() {
		if err := e.inventory.RemoveCoins(ctx, payerID, res.RemoveCurrency); err != nil {
			e.restoreReagents(ctx, payerID, reagents, res.ReagentUpdates)
			return res, fmt.Errorf("crafting: remove coins: %w", err)
		}
	}

	e.plugins.EmitPaymentSettled(ctx, payerID, strategy, cost, res)
	return res, nil
}

// restoreReagents reverts applied updates to the packed state in before.
func (e *Engine) restoreReagents(ctx context.Context, payerID string, before []reagent.Reagent, applied []reagent.Update) {
	if len(applied) == 0 {
		return
	}
	undo := make([]reagent.Update, 0, len(applied))
	for _, u := range applied {
		i := slices.IndexFunc(before, func(r reagent.Reagent) bool { return r.ID == u.ReagentID })
		if i < 0 {
			continue
		}
		undo = append(undo, reagent.Update{
			ReagentID: u.ReagentID,
			Quantity:  before[i].Quantity,
			Leftovers: before[i].Leftovers,
		})
	}
	if err := e.inventory.ApplyReagentUpdates(ctx, payerID, undo); err != nil {
		e.logger.Error("crafting: restore reagents after failed payment",
			"payer_id", payerID,
			"error", err,
		)
	}
}

