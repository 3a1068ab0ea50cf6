package api

import (
	"errors"
	"fmt"
)

// Error taxonomy for upstream calls.  Handlers and the session resolver
// branch on these: auth errors force re-authentication, business rejections
// carry a server message for the guest, and everything else is a transport
// fault that callers treat as transient (fail-open, retry next tick).
var (
	// ErrUnauthorized means the bearer token was missing, expired or revoked.
	ErrUnauthorized = errors.New("api: unauthorized")
	// ErrNotFound means the server explicitly reported the resource gone.
	ErrNotFound = errors.New("api: not found")
	// ErrMalformed means the response body did not match the expected shape.
	ErrMalformed = errors.New("api: malformed response")
)

// BusinessError is a rejection the server expressed with a message meant for
// the guest ("booking inactive", "assistance request invalid").  It is not
// retried; the message is surfaced as-is.
type BusinessError struct {
	Status  int
	Message string
}

func (e *BusinessError) Error() string {
	return fmt.Sprintf("api: rejected (%d): %s", e.Status, e.Message)
}

// IsBusiness reports whether err is a server-side business rejection and, if
// so, returns the guest-facing message.
func IsBusiness(err error) (string, bool) {
	var be *BusinessError
	if errors.As(err, &be) {
		return be.Message, true
	}
	return "", false
}

// IsTransport reports whether err should be treated as a transient
// network/transport fault.  Anything that is not an explicit server verdict
// (auth, not-found, business rejection, malformed body) qualifies.
func IsTransport(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrNotFound) || errors.Is(err, ErrMalformed) {
		return false
	}
	var be *BusinessError
	return !errors.As(err, &be)
}
