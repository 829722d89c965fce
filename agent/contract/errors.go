package contract

import "errors"

var (
	// Client-facing order errors.
	ErrInvalidQuantity = errors.New("quantity cannot be negative")
	ErrItemNotFound    = errors.New("item not found in menu")

	// Routing failures are absorbed into the Default destination and
	// only ever appear in logs.
	ErrRoutingFailure = errors.New("router output unusable")

	// Model and validation failures surfaced as opaque internal errors.
	ErrModelInvoke     = errors.New("model invoke failed")
	ErrSchemaViolation = errors.New("model response violates schema")
	ErrValidation      = errors.New("validation failed")
)
