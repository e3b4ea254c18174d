package domain

import (
	"errors"
	"fmt"
)

// ErrGhost is matched by every failure raised by the Admin API client.
var ErrGhost = errors.New("ghost admin api error")

// Error kinds. Use errors.Is against these to branch on the failure class.
var (
	ErrAuth       = errors.New("authentication error")
	ErrNotFound   = errors.New("resource not found")
	ErrValidation = errors.New("validation error")
	ErrConnection = errors.New("connection error")
	ErrAPI        = errors.New("api error")
)

// ErrConfig is returned when a client is constructed with unusable settings.
var ErrConfig = errors.New("invalid client configuration")

// Error is the concrete failure returned by the client. Kind is one of the
// kind sentinels above; Status is the HTTP status when one was received.
type Error struct {
	Kind    error
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is this error's kind or the ErrGhost base.
func (e *Error) Is(target error) bool {
	return target == e.Kind || target == ErrGhost
}

// NewAuthError covers malformed credentials (Status 0) and remote 401s.
func NewAuthError(status int, msg string) *Error {
	return &Error{Kind: ErrAuth, Status: status, Message: msg}
}

func NewNotFoundError(path string) *Error {
	return &Error{Kind: ErrNotFound, Status: 404, Message: "resource not found: " + path}
}

// NewValidationError carries the first message reported by the remote side.
func NewValidationError(msg string) *Error {
	return &Error{Kind: ErrValidation, Status: 422, Message: msg}
}

func NewConnectionError(cause error) *Error {
	return &Error{Kind: ErrConnection, Message: fmt.Sprintf("connection failed: %v", cause), Err: cause}
}

// NewAPIError is the catch-all for any other status >= 400.
func NewAPIError(status int, body string) *Error {
	return &Error{Kind: ErrAPI, Status: status, Message: fmt.Sprintf("api error %d: %s", status, body)}
}
