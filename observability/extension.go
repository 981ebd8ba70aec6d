// Package observability provides a metrics plugin for the crafting engine
// that records project and payment lifecycle counts.
package observability

import (
	"context"

	"github.com/xraph/crafting/id"
	"github.com/xraph/crafting/inventory"
	"github.com/xraph/crafting/payment"
	"github.com/xraph/crafting/plugin"
	"github.com/xraph/crafting/project"
	"github.com/xraph/crafting/types"
)

// Ensure MetricsExtension implements required interfaces.
var (
	_ plugin.Plugin              = (*MetricsExtension)(nil)
	_ plugin.OnProjectBegun      = (*MetricsExtension)(nil)
	_ plugin.OnProjectProgressed = (*MetricsExtension)(nil)
	_ plugin.OnProjectSetback    = (*MetricsExtension)(nil)
	_ plugin.OnProjectCompleted  = (*MetricsExtension)(nil)
	_ plugin.OnProjectAbandoned  = (*MetricsExtension)(nil)
	_ plugin.OnProjectEdited     = (*MetricsExtension)(nil)
	_ plugin.OnPaymentSettled    = (*MetricsExtension)(nil)
	_ plugin.OnPaymentDeclined   = (*MetricsExtension)(nil)
)

// Counter interface for metric counters.
type Counter interface {
	Inc()
	Add(float64)
}

// Histogram interface for metric histograms.
type Histogram interface {
	Observe(float64)
}

// MetricFactory creates metrics.
type MetricFactory interface {
	Counter(name string) Counter
	Histogram(name string) Histogram
}

// MetricsExtension records crafting lifecycle metrics.
// Register it as a crafting plugin to track project activity.
type MetricsExtension struct {
	// Project metrics
	ProjectBegun      Counter
	ProjectProgressed Counter
	ProjectSetback    Counter
	ProjectFailed     Counter
	ProjectCompleted  Counter
	ProjectDegraded   Counter
	GrantFailed       Counter
	ProjectAbandoned  Counter
	ProjectEdited     Counter
	ProjectCost       Histogram
	ProgressAmount    Histogram

	// Payment metrics
	PaymentSettled  Counter
	PaymentDeclined Counter
	PaymentReagents Counter
	PaymentCurrency Histogram
}

// NewMetricsExtension creates a MetricsExtension with the provided MetricFactory.
func NewMetricsExtension(factory MetricFactory) *MetricsExtension {
	return &MetricsExtension{
		ProjectBegun:      factory.Counter("crafting.project.begun"),
		ProjectProgressed: factory.Counter("crafting.project.progressed"),
		ProjectSetback:    factory.Counter("crafting.project.setback"),
		ProjectFailed:     factory.Counter("crafting.project.failed"),
		ProjectCompleted:  factory.Counter("crafting.project.completed"),
		ProjectDegraded:   factory.Counter("crafting.project.completed.degraded"),
		GrantFailed:       factory.Counter("crafting.project.grant.failed"),
		ProjectAbandoned:  factory.Counter("crafting.project.abandoned"),
		ProjectEdited:     factory.Counter("crafting.project.edited"),
		ProjectCost:       factory.Histogram("crafting.project.cost_cp"),
		ProgressAmount:    factory.Histogram("crafting.project.progress_cp"),

		PaymentSettled:  factory.Counter("crafting.payment.settled"),
		PaymentDeclined: factory.Counter("crafting.payment.declined"),
		PaymentReagents: factory.Counter("crafting.payment.reagent_updates"),
		PaymentCurrency: factory.Histogram("crafting.payment.currency_cp"),
	}
}

// Name implements plugin.Plugin.
func (m *MetricsExtension) Name() string { return "observability-metrics" }

// ──────────────────────────────────────────────────
// Project lifecycle hooks
// ──────────────────────────────────────────────────

// OnProjectBegun implements plugin.OnProjectBegun.
func (m *MetricsExtension) OnProjectBegun(_ context.Context, _ *project.Project, cost types.Coins) error {
	m.ProjectBegun.Inc()
	m.ProjectCost.Observe(float64(cost.Copper))
	return nil
}

// OnProjectProgressed implements plugin.OnProjectProgressed.
func (m *MetricsExtension) OnProjectProgressed(_ context.Context, _ *project.Project, amount types.Coins) error {
	m.ProjectProgressed.Inc()
	m.ProgressAmount.Observe(float64(amount.Copper))
	return nil
}

// OnProjectSetback implements plugin.OnProjectSetback.
func (m *MetricsExtension) OnProjectSetback(_ context.Context, _ *project.Project, _ types.Coins, fatal bool) error {
	m.ProjectSetback.Inc()
	if fatal {
		m.ProjectFailed.Inc()
	}
	return nil
}

// OnProjectCompleted implements plugin.OnProjectCompleted.
func (m *MetricsExtension) OnProjectCompleted(_ context.Context, _ *project.Project, outcome inventory.GrantOutcome) error {
	switch outcome {
	case inventory.Granted:
		m.ProjectCompleted.Inc()
	case inventory.PermissionLacking:
		m.ProjectDegraded.Inc()
	case inventory.Failed:
		m.GrantFailed.Inc()
	}
	return nil
}

// OnProjectAbandoned implements plugin.OnProjectAbandoned.
func (m *MetricsExtension) OnProjectAbandoned(_ context.Context, _ string, _ id.ProjectID) error {
	m.ProjectAbandoned.Inc()
	return nil
}

// OnProjectEdited implements plugin.OnProjectEdited.
func (m *MetricsExtension) OnProjectEdited(_ context.Context, _, _ *project.Project) error {
	m.ProjectEdited.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Payment hooks
// ──────────────────────────────────────────────────

// OnPaymentSettled implements plugin.OnPaymentSettled.
func (m *MetricsExtension) OnPaymentSettled(_ context.Context, _ string, _ payment.Strategy, _ types.Coins, res payment.Result) error {
	m.PaymentSettled.Inc()
	m.PaymentCurrency.Observe(float64(res.RemoveCurrency.Copper))
	if n := len(res.ReagentUpdates); n > 0 {
		m.PaymentReagents.Add(float64(n))
	}
	return nil
}

// OnPaymentDeclined implements plugin.OnPaymentDeclined.
func (m *MetricsExtension) OnPaymentDeclined(_ context.Context, _ string, _ payment.Strategy, _ types.Coins) error {
	m.PaymentDeclined.Inc()
	return nil
}
