// Package audithook bridges crafting lifecycle events to an audit trail
// backend.
//
// It defines a local Recorder interface so the package carries no audit
// backend dependency. Callers inject a RecorderFunc adapter at wiring time.
package audithook

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xraph/crafting/id"
	"github.com/xraph/crafting/inventory"
	"github.com/xraph/crafting/payment"
	"github.com/xraph/crafting/plugin"
	"github.com/xraph/crafting/project"
	"github.com/xraph/crafting/types"
)

// Compile-time interface checks.
var (
	_ plugin.Plugin              = (*Extension)(nil)
	_ plugin.OnProjectBegun      = (*Extension)(nil)
	_ plugin.OnProjectProgressed = (*Extension)(nil)
	_ plugin.OnProjectSetback    = (*Extension)(nil)
	_ plugin.OnProjectCompleted  = (*Extension)(nil)
	_ plugin.OnProjectAbandoned  = (*Extension)(nil)
	_ plugin.OnProjectEdited     = (*Extension)(nil)
	_ plugin.OnPaymentSettled    = (*Extension)(nil)
	_ plugin.OnPaymentDeclined   = (*Extension)(nil)
)

// Recorder is the interface that audit backends must implement.
type Recorder interface {
	Record(ctx context.Context, event *AuditEvent) error
}

// AuditEvent is a single audited crafting action.
type AuditEvent struct {
	ID         id.ID          `json:"id"`
	Action     string         `json:"action"`
	Resource   string         `json:"resource"`
	Category   string         `json:"category"`
	ResourceID string         `json:"resource_id,omitempty"`
	ActorID    string         `json:"actor_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Outcome    string         `json:"outcome"`
	Severity   string         `json:"severity"`
	Reason     string         `json:"reason,omitempty"`
	Timestamp  time.Time      `json:"timestamp"`
}

// RecorderFunc is an adapter to use a plain function as a Recorder.
type RecorderFunc func(ctx context.Context, event *AuditEvent) error

// Record implements Recorder.
func (f RecorderFunc) Record(ctx context.Context, event *AuditEvent) error {
	return f(ctx, event)
}

// Extension bridges crafting lifecycle events to an audit trail backend.
type Extension struct {
	recorder Recorder
	enabled  map[string]bool // nil = all enabled
	logger   *slog.Logger
}

// New creates an Extension that emits audit events through the provided Recorder.
func New(r Recorder, opts ...Option) *Extension {
	e := &Extension{
		recorder: r,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name implements plugin.Plugin.
func (e *Extension) Name() string { return "audit-hook" }

// ──────────────────────────────────────────────────
// Project lifecycle hooks
// ──────────────────────────────────────────────────

// OnProjectBegun implements plugin.OnProjectBegun.
func (e *Extension) OnProjectBegun(ctx context.Context, p *project.Project, cost types.Coins) error {
	return e.record(ctx, ActionProjectBegun, SeverityInfo, OutcomeSuccess,
		ResourceProject, p.ID.String(), p.OwnerID, CategoryCrafting, nil,
		"item_id", p.ItemID,
		"batch_size", p.BatchSize,
		"cost", cost.String(),
		"progress", p.Progress.String(),
	)
}

// OnProjectProgressed implements plugin.OnProjectProgressed.
func (e *Extension) OnProjectProgressed(ctx context.Context, p *project.Project, amount types.Coins) error {
	return e.record(ctx, ActionProjectProgressed, SeverityInfo, OutcomeSuccess,
		ResourceProject, p.ID.String(), p.OwnerID, CategoryCrafting, nil,
		"amount", amount.String(),
		"progress", p.Progress.String(),
	)
}

// OnProjectSetback implements plugin.OnProjectSetback. A fatal setback is
// recorded as a failure.
func (e *Extension) OnProjectSetback(ctx context.Context, p *project.Project, amount types.Coins, fatal bool) error {
	action, severity, outcome := ActionProjectSetback, SeverityInfo, OutcomeSuccess
	if fatal {
		action, severity, outcome = ActionProjectFailed, SeverityWarning, OutcomeFailure
	}
	return e.record(ctx, action, severity, outcome,
		ResourceProject, p.ID.String(), p.OwnerID, CategoryCrafting, nil,
		"amount", amount.String(),
		"progress", p.Progress.String(),
	)
}

// OnProjectCompleted implements plugin.OnProjectCompleted.
func (e *Extension) OnProjectCompleted(ctx context.Context, p *project.Project, outcome inventory.GrantOutcome) error {
	action, severity, result := ActionProjectCompleted, SeverityInfo, OutcomeSuccess
	var err error
	switch outcome {
	case inventory.PermissionLacking:
		action, severity, result = ActionProjectDegraded, SeverityWarning, OutcomePartial
	case inventory.Failed:
		action, severity, result = ActionGrantFailed, SeverityError, OutcomeFailure
		err = fmt.Errorf("grant %s", outcome)
	}
	return e.record(ctx, action, severity, result,
		ResourceProject, p.ID.String(), p.OwnerID, CategoryCrafting, err,
		"item_id", p.ItemID,
		"batch_size", p.BatchSize,
		"grant", outcome.String(),
	)
}

// OnProjectAbandoned implements plugin.OnProjectAbandoned.
func (e *Extension) OnProjectAbandoned(ctx context.Context, ownerID string, projectID id.ProjectID) error {
	return e.record(ctx, ActionProjectAbandoned, SeverityInfo, OutcomeSuccess,
		ResourceProject, projectID.String(), ownerID, CategoryCrafting, nil,
	)
}

// OnProjectEdited implements plugin.OnProjectEdited.
func (e *Extension) OnProjectEdited(ctx context.Context, before, after *project.Project) error {
	return e.record(ctx, ActionProjectEdited, SeverityInfo, OutcomeSuccess,
		ResourceProject, after.ID.String(), after.OwnerID, CategoryCrafting, nil,
		"progress_before", before.Progress.String(),
		"progress_after", after.Progress.String(),
		"batch_before", before.BatchSize,
		"batch_after", after.BatchSize,
	)
}

// ──────────────────────────────────────────────────
// Payment hooks
// ──────────────────────────────────────────────────

// OnPaymentSettled implements plugin.OnPaymentSettled.
func (e *Extension) OnPaymentSettled(ctx context.Context, payerID string, strategy payment.Strategy, cost types.Coins, res payment.Result) error {
	return e.record(ctx, ActionPaymentSettled, SeverityInfo, OutcomeSuccess,
		ResourcePayment, "", payerID, CategoryPayment, nil,
		"strategy", strategy.String(),
		"cost", cost.String(),
		"currency", res.RemoveCurrency.String(),
		"reagent_updates", len(res.ReagentUpdates),
	)
}

// OnPaymentDeclined implements plugin.OnPaymentDeclined.
func (e *Extension) OnPaymentDeclined(ctx context.Context, payerID string, strategy payment.Strategy, cost types.Coins) error {
	return e.record(ctx, ActionPaymentDeclined, SeverityWarning, OutcomeFailure,
		ResourcePayment, "", payerID, CategoryPayment, nil,
		"strategy", strategy.String(),
		"cost", cost.String(),
	)
}

// ──────────────────────────────────────────────────
// Internal helpers
// ──────────────────────────────────────────────────

// record builds and sends an audit event if the action is enabled.
// Recorder failures are logged, never returned.
func (e *Extension) record(
	ctx context.Context,
	action, severity, outcome string,
	resource, resourceID, actorID, category string,
	err error,
	kvPairs ...any,
) error {
	if e.enabled != nil && !e.enabled[action] {
		return nil
	}

	meta := make(map[string]any, len(kvPairs)/2+1)
	for i := 0; i+1 < len(kvPairs); i += 2 {
		key, ok := kvPairs[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", kvPairs[i])
		}
		meta[key] = kvPairs[i+1]
	}

	var reason string
	if err != nil {
		reason = err.Error()
		meta["error"] = err.Error()
	}

	evt := &AuditEvent{
		ID:         id.NewAuditEventID(),
		Action:     action,
		Resource:   resource,
		Category:   category,
		ResourceID: resourceID,
		ActorID:    actorID,
		Metadata:   meta,
		Outcome:    outcome,
		Severity:   severity,
		Reason:     reason,
		Timestamp:  time.Now().UTC(),
	}

	if recErr := e.recorder.Record(ctx, evt); recErr != nil {
		e.logger.Warn("audit_hook: failed to record audit event",
			"action", action,
			"resource_id", resourceID,
			"error", recErr,
		)
	}
	return nil
}
