package domain

import (
	"errors"
	"strings"
)

var (
	// ErrAuthenticationFailed is the single outcome for a bad email or a bad password.
	ErrAuthenticationFailed = errors.New("login unsuccessful, please check email and password")
	// ErrUnauthenticated is returned when an operation needs an identity and none was given.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrAuthorizationDenied means the caller is authenticated but does not own the resource.
	ErrAuthorizationDenied = errors.New("you are not allowed to modify this resource")

	ErrAlreadyAuthenticated = errors.New("already authenticated")
	ErrNotFound             = errors.New("not found")
	ErrConflict             = errors.New("conflicting record")

	// ErrTokenInvalid and ErrTokenExpired stay distinguishable for logs and tests,
	// but both surface to callers wrapped in ErrResetTokenRejected.
	ErrTokenInvalid       = errors.New("reset token invalid")
	ErrTokenExpired       = errors.New("reset token expired")
	ErrResetTokenRejected = errors.New("that is an invalid or expired token")
)

// FieldError describes one rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects every field problem found for one request.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString("validation failed")
	for i, f := range e.Fields {
		if i == 0 {
			b.WriteString(": ")
		} else {
			b.WriteString("; ")
		}
		b.WriteString(f.Field + ": " + f.Message)
	}
	return b.String()
}

// Add appends a field error.
func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// Has reports whether field has at least one error.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// FieldNames lists the distinct fields that failed, in first-seen order.
func (e *ValidationError) FieldNames() []string {
	var names []string
	seen := map[string]bool{}
	for _, f := range e.Fields {
		if !seen[f.Field] {
			seen[f.Field] = true
			names = append(names, f.Field)
		}
	}
	return names
}

// ErrOrNil returns nil when no field failed, so callers can `return v.ErrOrNil()`.
func (e *ValidationError) ErrOrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

// NewValidationError builds a ValidationError holding a single field.
func NewValidationError(field, message string) *ValidationError {
	v := &ValidationError{}
	v.Add(field, message)
	return v
}
