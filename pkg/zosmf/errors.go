package zosmf

import (
	"errors"
	"fmt"
)

// Error taxonomy of the remote service. Providers wrap one of these in *Error.
var (
	// ErrConnection means the service could not be reached or the transport failed.
	ErrConnection = errors.New("zosmf: connection failure")

	// ErrNotFound means the addressed job, dataset or member does not exist.
	ErrNotFound = errors.New("zosmf: not found")

	// ErrAlreadyExists means a create targeted an existing object.
	ErrAlreadyExists = errors.New("zosmf: already exists")

	// ErrValidation means a request was rejected before reaching the service.
	ErrValidation = errors.New("zosmf: validation failure")
)

// Error is a failed remote call. Payload keeps the raw response body so it
// can be turned into a diagnostic later.
type Error struct {
	Op         string // remote primitive, e.g. "delete"
	Target     string // job, dataset or path the call addressed
	StatusCode int    // HTTP status if the provider has one
	Payload    string // raw error body returned by the service
	Err        error  // one of the sentinels above, or a transport error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("zosmf: %s", e.Op)
	if e.Target != "" {
		msg += " " + e.Target
	}
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	return fmt.Sprintf("%s: %v", msg, e.Err)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error { return e.Err }

// NewError wraps err as a remote failure of op on target.
func NewError(op, target string, err error) error {
	return &Error{Op: op, Target: target, Err: err}
}

// NewPayloadError wraps err together with the raw body the service returned.
func NewPayloadError(op, target string, status int, payload string, err error) error {
	return &Error{Op: op, Target: target, StatusCode: status, Payload: payload, Err: err}
}

// PayloadOf returns the raw service payload carried by err, if any.
func PayloadOf(err error) (string, bool) {
	var e *Error
	if errors.As(err, &e) && e.Payload != "" {
		return e.Payload, true
	}
	return "", false
}

func IsNotFound(err error) bool      { return errors.Is(err, ErrNotFound) }
func IsAlreadyExists(err error) bool { return errors.Is(err, ErrAlreadyExists) }
func IsConnection(err error) bool    { return errors.Is(err, ErrConnection) }
func IsValidation(err error) bool    { return errors.Is(err, ErrValidation) }
