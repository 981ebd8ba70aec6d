package crafting

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure scenarios.
var (
	// General errors
	ErrInvalidInput = errors.New("crafting: invalid input")

	// Project errors
	ErrProjectNotFound   = errors.New("crafting: project not found")
	ErrItemNotFound      = errors.New("crafting: item not found")
	ErrMeaninglessSpend  = errors.New("crafting: spending amount must be positive while cost remains")
	ErrInsufficientFunds = errors.New("crafting: insufficient funds")
	ErrGrantFailed       = errors.New("crafting: could not grant crafted items")

	// Payment errors
	ErrUnknownStrategy = errors.New("crafting: unknown payment strategy")

	// Store errors
	ErrStoreClosed     = errors.New("crafting: store is closed")
	ErrMigrationFailed = errors.New("crafting: migration failed")

	// Engine errors
	ErrNotConfigured = errors.New("crafting: engine not configured")
)

// ValidationError represents a validation failure with details.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("crafting: validation failed for %s: %s", e.Field, e.Message)
}

// Unwrap lets errors.Is match ErrInvalidInput.
func (e ValidationError) Unwrap() error { return ErrInvalidInput }

// MultiError represents multiple errors that occurred.
type MultiError struct {
	Errors []error
}

func (e MultiError) Error() string {
	if len(e.Errors) == 0 {
		return "crafting: no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("crafting: %d errors occurred", len(e.Errors))
}

// Unwrap exposes the collected errors to errors.Is and errors.As.
func (e MultiError) Unwrap() []error { return e.Errors }

// Add adds an error to the multi-error.
func (e *MultiError) Add(err error) {
	if err != nil {
		e.Errors = append(e.Errors, err)
	}
}

// HasErrors returns true if there are any errors.
func (e MultiError) HasErrors() bool {
	return len(e.Errors) > 0
}

// First returns the first error or nil.
func (e MultiError) First() error {
	if len(e.Errors) > 0 {
		return e.Errors[0]
	}
	return nil
}

// ErrOrNil returns e when it holds errors and nil otherwise.
func (e MultiError) ErrOrNil() error {
	if !e.HasErrors() {
		return nil
	}
	return e
}

// IsNotFound returns true if the error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrProjectNotFound) ||
		errors.Is(err, ErrItemNotFound)
}

// IsUserFacing returns true for failures that were already reported to the
// acting user through a notice.
func IsUserFacing(err error) bool {
	return errors.Is(err, ErrProjectNotFound) ||
		errors.Is(err, ErrMeaninglessSpend) ||
		errors.Is(err, ErrInsufficientFunds) ||
		errors.Is(err, ErrGrantFailed) ||
		errors.Is(err, ErrUnknownStrategy)
}

