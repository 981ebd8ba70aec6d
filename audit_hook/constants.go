package audithook

// Action constants for audit events.
const (
	// Project actions
	ActionProjectBegun      = "project.begun"
	ActionProjectProgressed = "project.progressed"
	ActionProjectSetback    = "project.setback"
	ActionProjectFailed     = "project.failed"
	ActionProjectCompleted  = "project.completed"
	ActionProjectDegraded   = "project.completed_degraded"
	ActionGrantFailed       = "project.grant_failed"
	ActionProjectAbandoned  = "project.abandoned"
	ActionProjectEdited     = "project.edited"

	// Payment actions
	ActionPaymentSettled  = "payment.settled"
	ActionPaymentDeclined = "payment.declined"
)

// Resource constants for audit events.
const (
	ResourceProject = "project"
	ResourcePayment = "payment"
)

// Category constants for audit events.
const (
	CategoryCrafting = "crafting"
	CategoryPayment  = "payment"
)

// Severity levels for audit events.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityError    = "error"
	SeverityCritical = "critical"
)

// Outcome values for audit events.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomePartial = "partial"
)
