// Package apperr defines the user-facing error taxonomy and turns any error
// into the message a screen shows.
package apperr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/five82/learnai/internal/learnapi"
)

// ValidationError means a required input was missing or unusable. No request
// was sent.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Invalid builds a ValidationError.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// AuthError means a secret did not match. Err holds the server response when
// the rejection came from the backend rather than the local gate.
type AuthError struct {
	Action string
	Err    error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: secret rejected: %v", e.Action, e.Err)
	}
	return fmt.Sprintf("%s: secret rejected", e.Action)
}

func (e *AuthError) Unwrap() error { return e.Err }

// Denied builds an AuthError for action.
func Denied(action string, cause error) error {
	return &AuthError{Action: action, Err: cause}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsAuth reports whether err is an AuthError.
func IsAuth(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}

// Message converts err into a single line suitable for the status bar.
// Callers pass a fallback that names the failed operation ("Upload failed.").
func Message(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Reason
	}
	var ae *AuthError
	if errors.As(err, &ae) {
		return "Incorrect password!"
	}
	if te, ok := learnapi.AsTransportError(err); ok {
		detail := strings.TrimSpace(te.Message)
		if te.Status == 0 {
			detail = "server unreachable"
		}
		if fallback == "" {
			return detail
		}
		return fmt.Sprintf("%s (%s)", fallback, detail)
	}
	if fallback != "" {
		return fallback
	}
	return err.Error()
}
