package learnapi

import (
	"errors"
	"fmt"
	"net/http"
)

// TransportError reports a failed request. Status is zero when no HTTP
// response was received (dial failure, cancelled context).
type TransportError struct {
	Op        string
	Status    int
	Message   string
	RequestID string
	Err       error
}

func (e *TransportError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Op, e.Status, e.Message)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Unauthorized reports whether the server rejected the supplied secret.
func (e *TransportError) Unauthorized() bool {
	return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
}

// AsTransportError unwraps err into a *TransportError when possible.
func AsTransportError(err error) (*TransportError, bool) {
	var te *TransportError
	if errors.As(err, &te) {
		return te, true
	}
	return nil, false
}

// IsUnauthorized reports whether err is a server-side secret rejection.
func IsUnauthorized(err error) bool {
	te, ok := AsTransportError(err)
	return ok && te.Unauthorized()
}
