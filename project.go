package crafting

import (
	"context"
	"errors"
	"fmt"

	"github.com/xraph/crafting/announce"
	"github.com/xraph/crafting/catalog"
	"github.com/xraph/crafting/id"
	"github.com/xraph/crafting/inventory"
	"github.com/xraph/crafting/payment"
	"github.com/xraph/crafting/project"
	"github.com/xraph/crafting/types"
)

// State is where a project stands after an operation.
type State string

const (
	// StateActive means the project is persisted below its cost.
	StateActive State = "active"
	// StateAwaitingGrant means progress reached cost but the items could
	// not be granted. The project stays persisted and the next advance
	// retries completion.
	StateAwaitingGrant State = "awaiting_grant"
	// StateCompleted means the items were granted and the project removed.
	StateCompleted State = "completed"
	// StateAbandoned means the project was removed without granting items.
	StateAbandoned State = "abandoned"
)

// Outcome describes the project after a ledger operation.
type Outcome struct {
	Project *project.Project `json:"project"`
	State   State            `json:"state"`
	Cost    types.Coins      `json:"cost"`
}

// BeginRequest starts a new project.
type BeginRequest struct {
	OwnerID          string
	ItemID           string
	BatchSize        int
	StartingProgress types.Coins
	// Strategy defaults to the owner's preferred strategy.
	Strategy payment.Strategy
}

// CraftRequest spends value on an existing project. CrafterID pays and may
// differ from OwnerID, the project's owner; it defaults to OwnerID.
type CraftRequest struct {
	CrafterID      string
	OwnerID        string
	ProjectID      id.ProjectID
	SpendingAmount types.Coins
	// Toggles are extra costs paid on top of SpendingAmount that do not
	// count toward progress.
	Toggles []types.Coins
	// Strategy defaults to the crafter's preferred strategy.
	Strategy payment.Strategy
}

// EditRequest overrides project fields. A nil or negative Progress and a
// non-positive BatchSize leave the field unchanged.
type EditRequest struct {
	Progress  *types.Coins
	BatchSize int
}

// ──────────────────────────────────────────────────
// Ledger operations
// ──────────────────────────────────────────────────

// Begin pays the starting progress and creates a project. A project whose
// starting progress already meets its cost completes in the same call.
func (e *Engine) Begin(ctx context.Context, req BeginRequest) (*Outcome, error) {
	switch {
	case req.OwnerID == "":
		return nil, e.invalid("Begin", "owner_id", "missing owner")
	case req.ItemID == "":
		return nil, e.invalid("Begin", "item_id", "missing item")
	case req.BatchSize < 1:
		return nil, e.invalid("Begin", "batch_size", "must be positive")
	case req.StartingProgress.IsNegative():
		return nil, e.invalid("Begin", "starting_progress", "must not be negative")
	}
	if err := e.configured(); err != nil {
		return nil, err
	}

	item, err := e.lookup(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}

	unlock := e.locks.lock(req.OwnerID)
	defer unlock()

	strategy, err := e.strategyFor(ctx, req.OwnerID, req.Strategy)
	if err != nil {
		return nil, err
	}
	e.rememberStrategy(ctx, req.OwnerID, strategy)

	p := &project.Project{
		Entity:    types.NewEntity(),
		ID:        id.NewProjectID(),
		OwnerID:   req.OwnerID,
		ItemID:    req.ItemID,
		BatchSize: req.BatchSize,
		Progress:  req.StartingProgress,
	}
	cost := item.BatchCost(p.BatchSize)

	// Written before charging; removed again if the payment fails.
	if err := e.store.UpsertProject(ctx, p); err != nil {
		return nil, fmt.Errorf("crafting: save project: %w", err)
	}
	if _, err := e.pay(ctx, req.OwnerID, strategy, req.StartingProgress); err != nil {
		e.discard(ctx, p)
		return nil, err
	}

	name := e.displayName(ctx, req.OwnerID)
	e.announce(ctx, p.OwnerID, name, announce.KindStarted,
		e.printer.Sprintf(announce.MsgStarted, name, item.Name, p.Progress.String()))
	e.plugins.EmitProjectBegun(ctx, p, cost)

	e.logger.Info("crafting: project begun",
		"owner_id", p.OwnerID,
		"project_id", p.ID.String(),
		"item_id", p.ItemID,
		"batch_size", p.BatchSize,
		"progress", p.Progress.String(),
		"strategy", strategy,
	)

	if p.Complete(cost) {
		return e.complete(ctx, p, item, cost, name)
	}
	return &Outcome{Project: p, State: StateActive, Cost: cost}, nil
}

// Craft charges the crafter for SpendingAmount plus toggles and advances
// the owner's project by SpendingAmount.
func (e *Engine) Craft(ctx context.Context, req CraftRequest) (*Outcome, error) {
	if req.CrafterID == "" {
		req.CrafterID = req.OwnerID
	}
	switch {
	case req.OwnerID == "":
		return nil, e.invalid("Craft", "owner_id", "missing owner")
	case req.ProjectID.IsNil():
		return nil, e.invalid("Craft", "project_id", "missing project")
	case req.SpendingAmount.IsNegative():
		return nil, e.invalid("Craft", "spending_amount", "must not be negative")
	}
	for _, t := range req.Toggles {
		if t.IsNegative() {
			return nil, e.invalid("Craft", "toggles", "must not be negative")
		}
	}
	if err := e.configured(); err != nil {
		return nil, err
	}

	unlock := e.locks.lock(req.OwnerID, req.CrafterID)
	defer unlock()

	p, err := e.store.GetProject(ctx, req.OwnerID, req.ProjectID)
	if err != nil {
		if IsNotFound(err) {
			return nil, e.projectNotFound(ctx, req.CrafterID, req.OwnerID, req.ProjectID, announce.MsgProjectNotFound)
		}
		return nil, err
	}

	item, err := e.lookup(ctx, p.ItemID)
	if err != nil {
		return nil, err
	}
	cost := item.BatchCost(p.BatchSize)

	if req.SpendingAmount.IsZero() && p.Remaining(cost).IsPositive() {
		e.notify(ctx, req.CrafterID, announce.LevelWarning, announce.MsgMeaninglessSpend)
		return nil, ErrMeaninglessSpend
	}

	strategy, err := e.strategyFor(ctx, req.CrafterID, req.Strategy)
	if err != nil {
		return nil, err
	}
	e.rememberStrategy(ctx, req.CrafterID, strategy)

	// Progress is persisted before charging and rolled back if payment fails.
	before := *p
	p.Progress = p.Progress.Add(req.SpendingAmount)
	p.Touch()
	if err := e.store.UpsertProject(ctx, p); err != nil {
		return nil, fmt.Errorf("crafting: save project: %w", err)
	}

	total := req.SpendingAmount.Add(types.Sum(req.Toggles...))
	if _, err := e.pay(ctx, req.CrafterID, strategy, total); err != nil {
		if rerr := e.store.UpsertProject(ctx, &before); rerr != nil {
			e.logger.Error("crafting: roll back project progress",
				"owner_id", p.OwnerID,
				"project_id", p.ID.String(),
				"error", rerr,
			)
		}
		return nil, err
	}

	return e.progressed(ctx, p, item, cost, req.SpendingAmount, e.displayName(ctx, req.CrafterID))
}

// Advance adds amount to a project's progress when hasProgressed is true,
// and removes it otherwise. Reaching cost completes the project; falling
// to zero or below destroys it.
func (e *Engine) Advance(ctx context.Context, ownerID string, projectID id.ProjectID, hasProgressed bool, amount types.Coins) (*Outcome, error) {
	switch {
	case ownerID == "":
		return nil, e.invalid("Advance", "owner_id", "missing owner")
	case projectID.IsNil():
		return nil, e.invalid("Advance", "project_id", "missing project")
	case amount.IsNegative():
		return nil, e.invalid("Advance", "amount", "must not be negative")
	}
	if err := e.configured(); err != nil {
		return nil, err
	}

	unlock := e.locks.lock(ownerID)
	defer unlock()

	p, err := e.store.GetProject(ctx, ownerID, projectID)
	if err != nil {
		if IsNotFound(err) {
			return nil, e.projectNotFound(ctx, ownerID, ownerID, projectID, announce.MsgProjectNotFound)
		}
		return nil, err
	}

	item, err := e.lookup(ctx, p.ItemID)
	if err != nil {
		return nil, err
	}

	return e.advance(ctx, p, item, item.BatchCost(p.BatchSize), hasProgressed, amount, e.displayName(ctx, ownerID))
}

// Abandon removes a project without granting anything. Abandoning a
// missing project is not an error.
func (e *Engine) Abandon(ctx context.Context, ownerID string, projectID id.ProjectID) error {
	switch {
	case ownerID == "":
		return e.invalid("Abandon", "owner_id", "missing owner")
	case projectID.IsNil():
		return e.invalid("Abandon", "project_id", "missing project")
	}

	unlock := e.locks.lock(ownerID)
	defer unlock()

	if err := e.store.DeleteProject(ctx, ownerID, projectID); err != nil {
		if IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("crafting: delete project: %w", err)
	}

	e.logger.Info("crafting: project abandoned",
		"owner_id", ownerID,
		"project_id", projectID.String(),
	)
	e.plugins.EmitProjectAbandoned(ctx, ownerID, projectID)
	return nil
}

// Edit overrides a project's progress and batch size. Malformed values
// are ignored per field. An edit that lifts progress to cost completes the
// project in the same call.
func (e *Engine) Edit(ctx context.Context, ownerID string, projectID id.ProjectID, req EditRequest) (*Outcome, error) {
	switch {
	case ownerID == "":
		return nil, e.invalid("Edit", "owner_id", "missing owner")
	case projectID.IsNil():
		return nil, e.invalid("Edit", "project_id", "missing project")
	}
	if err := e.configured(); err != nil {
		return nil, err
	}

	unlock := e.locks.lock(ownerID)
	defer unlock()

	p, err := e.store.GetProject(ctx, ownerID, projectID)
	if err != nil {
		if IsNotFound(err) {
			return nil, e.projectNotFound(ctx, ownerID, ownerID, projectID, announce.MsgProjectNotEditable)
		}
		return nil, err
	}
	before := *p

	if req.Progress != nil && !req.Progress.IsNegative() {
		p.Progress = *req.Progress
	}
	if req.BatchSize > 0 {
		p.BatchSize = req.BatchSize
	}
	p.Touch()

	item, err := e.lookup(ctx, p.ItemID)
	if err != nil {
		return nil, err
	}
	cost := item.BatchCost(p.BatchSize)

	e.plugins.EmitProjectEdited(ctx, &before, p)

	if p.Complete(cost) {
		return e.complete(ctx, p, item, cost, e.displayName(ctx, ownerID))
	}

	if err := e.store.UpsertProject(ctx, p); err != nil {
		return nil, fmt.Errorf("crafting: save project: %w", err)
	}
	return &Outcome{Project: p, State: StateActive, Cost: cost}, nil
}

// ListProjects returns display views of every project the owner holds.
func (e *Engine) ListProjects(ctx context.Context, ownerID string) ([]project.View, error) {
	if ownerID == "" {
		return nil, e.invalid("ListProjects", "owner_id", "missing owner")
	}
	if err := e.configured(); err != nil {
		return nil, err
	}

	projects, err := e.store.ListProjects(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	views := make([]project.View, 0, len(projects))
	for _, p := range projects {
		v := project.View{
			ProjectID:       p.ID,
			ItemID:          p.ItemID,
			Name:            p.ItemID,
			BatchSize:       p.BatchSize,
			CurrentProgress: p.Progress,
		}

		item, err := e.lookup(ctx, p.ItemID)
		switch {
		case err == nil:
			v.Name = item.Name
			v.Image = item.Image
			v.Cost = item.BatchCost(p.BatchSize)
		case errors.Is(err, ErrItemNotFound):
			// listed with its raw item reference
		default:
			return nil, err
		}

		v.ProgressFraction = project.Fraction(v.CurrentProgress, v.Cost)
		views = append(views, v)
	}
	return views, nil
}

// ──────────────────────────────────────────────────
// Transitions
// ──────────────────────────────────────────────────

// advance applies a progress change to p. Callers hold the owner lock.
func (e *Engine) advance(ctx context.Context, p *project.Project, item *catalog.Item, cost types.Coins, hasProgressed bool, amount types.Coins, speaker string) (*Outcome, error) {
	if !hasProgressed {
		return e.setback(ctx, p, item, cost, amount, speaker)
	}

	p.Progress = p.Progress.Add(amount)
	p.Touch()
	if !p.Complete(cost) {
		if err := e.store.UpsertProject(ctx, p); err != nil {
			return nil, fmt.Errorf("crafting: save project: %w", err)
		}
	}
	return e.progressed(ctx, p, item, cost, amount, speaker)
}

// progressed reports an advance of p that is already persisted and
// completes it once progress reaches cost.
func (e *Engine) progressed(ctx context.Context, p *project.Project, item *catalog.Item, cost, amount types.Coins, speaker string) (*Outcome, error) {
	e.plugins.EmitProjectProgressed(ctx, p, amount)

	if p.Complete(cost) {
		return e.complete(ctx, p, item, cost, speaker)
	}

	e.announce(ctx, p.OwnerID, speaker, announce.KindProgress,
		e.printer.Sprintf(announce.MsgProgress, speaker, p.BatchSize, item.Name,
			amount.String(), p.Progress.String(), cost.String()))

	return &Outcome{Project: p, State: StateActive, Cost: cost}, nil
}

func (e *Engine) setback(ctx context.Context, p *project.Project, item *catalog.Item, cost, amount types.Coins, speaker string) (*Outcome, error) {
	p.Progress = p.Progress.Subtract(amount)
	p.Touch()

	if !p.Progress.IsPositive() {
		if err := e.store.DeleteProject(ctx, p.OwnerID, p.ID); err != nil && !IsNotFound(err) {
			return nil, fmt.Errorf("crafting: delete project: %w", err)
		}

		e.announce(ctx, p.OwnerID, speaker, announce.KindFatalSetback,
			e.printer.Sprintf(announce.MsgFatalSetback, speaker, p.BatchSize, item.Name))
		e.plugins.EmitProjectSetback(ctx, p, amount, true)

		e.logger.Info("crafting: project lost to setback",
			"owner_id", p.OwnerID,
			"project_id", p.ID.String(),
		)
		return &Outcome{Project: p, State: StateAbandoned, Cost: cost}, nil
	}

	if err := e.store.UpsertProject(ctx, p); err != nil {
		return nil, fmt.Errorf("crafting: save project: %w", err)
	}

	e.announce(ctx, p.OwnerID, speaker, announce.KindSetback,
		e.printer.Sprintf(announce.MsgSetback, speaker, p.BatchSize, item.Name,
			amount.String(), p.Progress.String(), cost.String()))
	e.plugins.EmitProjectSetback(ctx, p, amount, false)

	return &Outcome{Project: p, State: StateActive, Cost: cost}, nil
}

// complete grants the batch to the owner. Only a successful grant removes
// the project; otherwise it is kept with its progress so a later advance
// retries.
func (e *Engine) complete(ctx context.Context, p *project.Project, item *catalog.Item, cost types.Coins, speaker string) (*Outcome, error) {
	outcome, grantErr := e.inventory.GrantItem(ctx, p.OwnerID, p.ItemID, p.BatchSize)
	if grantErr != nil {
		outcome = inventory.Failed
	}

	finished := e.printer.Sprintf(announce.MsgFinished, speaker, p.BatchSize, item.Name)

	switch outcome {
	case inventory.Granted:
		if err := e.store.DeleteProject(ctx, p.OwnerID, p.ID); err != nil && !IsNotFound(err) {
			return nil, fmt.Errorf("crafting: delete project: %w", err)
		}
		e.announce(ctx, p.OwnerID, speaker, announce.KindFinished, finished)
		e.plugins.EmitProjectCompleted(ctx, p, outcome)

		e.logger.Info("crafting: project completed",
			"owner_id", p.OwnerID,
			"project_id", p.ID.String(),
			"item_id", p.ItemID,
			"batch_size", p.BatchSize,
		)
		return &Outcome{Project: p, State: StateCompleted, Cost: cost}, nil

	case inventory.PermissionLacking:
		if err := e.store.UpsertProject(ctx, p); err != nil {
			return nil, fmt.Errorf("crafting: save project: %w", err)
		}
		e.announce(ctx, p.OwnerID, speaker, announce.KindFinishDegraded,
			finished+e.printer.Sprintf(announce.MsgLacksPermission, speaker))
		e.plugins.EmitProjectCompleted(ctx, p, outcome)
		return &Outcome{Project: p, State: StateAwaitingGrant, Cost: cost}, nil

	default:
		if err := e.store.UpsertProject(ctx, p); err != nil {
			return nil, fmt.Errorf("crafting: save project: %w", err)
		}
		e.notify(ctx, p.OwnerID, announce.LevelWarning, announce.MsgGrantFailed, e.displayName(ctx, p.OwnerID))
		e.plugins.EmitProjectCompleted(ctx, p, outcome)

		e.logger.Warn("crafting: grant failed",
			"owner_id", p.OwnerID,
			"project_id", p.ID.String(),
			"item_id", p.ItemID,
			"error", grantErr,
		)
		if grantErr != nil {
			return &Outcome{Project: p, State: StateAwaitingGrant, Cost: cost}, fmt.Errorf("%w: %w", ErrGrantFailed, grantErr)
		}
		return &Outcome{Project: p, State: StateAwaitingGrant, Cost: cost}, ErrGrantFailed
	}
}

// discard removes a project whose creation was not paid for.
func (e *Engine) discard(ctx context.Context, p *project.Project) {
	if err := e.store.DeleteProject(ctx, p.OwnerID, p.ID); err != nil && !IsNotFound(err) {
		e.logger.Error("crafting: remove unpaid project",
			"owner_id", p.OwnerID,
			"project_id", p.ID.String(),
			"error", err,
		)
	}
}

// rememberStrategy stores the strategy the payer chose, whether or not the
// payment then succeeds. Failures are logged.
func (e *Engine) rememberStrategy(ctx context.Context, payerID string, s payment.Strategy) {
	if err := e.store.SetPreferredStrategy(ctx, payerID, s); err != nil {
		e.logger.Warn("crafting: store preferred strategy",
			"owner_id", payerID,
			"strategy", s,
			"error", err,
		)
	}
}
