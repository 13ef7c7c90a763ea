// Package apperr defines the error taxonomy shared by services and the
// HTTP boundary. Services return these; the boundary maps them to status
// codes and never leaks anything else to the client.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnauthenticated means no verified identity accompanies the request.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden means the actor is known but not allowed.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidCredentials is the single login failure; it never says
	// whether the email or the password was wrong.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotFound  = errors.New("not found")
	// ErrConflict marks unique-constraint violations (duplicate email).
	ErrConflict = errors.New("conflict")
	// ErrSelfDeletion rejects an admin deleting their own account.
	ErrSelfDeletion = errors.New("cannot delete own account")
	// ErrInternal is the catch-all for storage/upload failures; details are
	// logged server-side, never surfaced to the caller.
	ErrInternal = errors.New("internal error")
)

// FieldError is one per-field validation message.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries structural input failures, one entry per field.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return "invalid input"
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

// Add appends a field message and returns the error for chaining.
func (e *ValidationError) Add(field, message string) *ValidationError {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
	return e
}

// OrNil returns nil when no field failed, so callers can build up an error
// and return it unconditionally.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

// AsValidation extracts a *ValidationError from err's chain, if any.
func AsValidation(err error) (*ValidationError, bool) {
	var v *ValidationError
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}

// NotFoundf wraps ErrNotFound with context about the missing resource.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
}
