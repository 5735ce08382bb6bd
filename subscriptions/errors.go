package subscriptions

import (
	"errors"
	"fmt"
)

// Messages returned to callers for client-side validation failures.
const (
	MsgMissingFields   = "userName, planName, and durationMonths are required"
	MsgInvalidDuration = "durationMonths must be a positive number"
	MsgInvalidJSON     = "invalid JSON body"
	MsgServerError     = "Server error"
)

var (
	// ErrNotFound is returned when no subscription matches a lookup.
	ErrNotFound = errors.New("subscription not found")

	// ErrDuplicateEmail is returned when a subscription already exists for the email.
	ErrDuplicateEmail = errors.New("subscription with this email already exists")

	// ErrSchemaValidation is wrapped by every SchemaError.
	ErrSchemaValidation = errors.New("subscription schema validation failed")
)

// ValidationError is a client input problem found before the store is touched.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// SchemaError is a value the store refuses to persist.
type SchemaError struct {
	Field   string
	Message string
}

func (e *SchemaError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("schema validation: %s", e.Message)
	}
	return fmt.Sprintf("schema validation: %s: %s", e.Field, e.Message)
}

func (e *SchemaError) Unwrap() error { return ErrSchemaValidation }
