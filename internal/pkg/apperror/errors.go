// Package apperror defines the error taxonomy the HTTP layer maps onto
// response statuses. Generation-side components downgrade capability and
// parse failures to deterministic fallbacks; only validation failures and
// detection-side capability failures cross a component boundary.
package apperror

import "fmt"

// ValidationError means a required input was missing or unusable. Raised
// before any external call and surfaced as 400.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// ExternalCapabilityError means a generative, embedding or entailment call
// failed. Surfaced as 502 where no fallback exists.
type ExternalCapabilityError struct {
	Capability string // "generative", "embedding", "entailment"
	Err        error
}

func (e *ExternalCapabilityError) Error() string {
	return fmt.Sprintf("%s capability failed: %v", e.Capability, e.Err)
}

func (e *ExternalCapabilityError) Unwrap() error {
	return e.Err
}

func NewExternalCapabilityError(capability string, err error) *ExternalCapabilityError {
	return &ExternalCapabilityError{Capability: capability, Err: err}
}

// MalformedResponseError means a capability responded but the structured
// output could not be parsed into the expected shape.
type MalformedResponseError struct {
	Capability string
	Err        error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("%s returned malformed output: %v", e.Capability, e.Err)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

func NewMalformedResponseError(capability string, err error) *MalformedResponseError {
	return &MalformedResponseError{Capability: capability, Err: err}
}
