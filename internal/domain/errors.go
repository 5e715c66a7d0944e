package domain

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidState is returned when an operation is attempted outside the
	// state that permits it. No transition happens.
	ErrInvalidState = errors.New("invalid state")
	// ErrUnsupportedKind is returned for any relay payload kind other than card_data.
	ErrUnsupportedKind = errors.New("unsupported payload kind")
	// ErrEmptySessionID is returned when a scan produced no identifier.
	ErrEmptySessionID = errors.New("session id is empty")
	// ErrEmptyPayload is returned when a payload has no non-empty field.
	ErrEmptyPayload = errors.New("payload is empty")
	// ErrEmptyCode is returned when a verification code is blank.
	ErrEmptyCode = errors.New("verification code is empty")
)

// TransportErrorKind separates server rejections from connectivity failures.
type TransportErrorKind int

const (
	// ServerRejected means the relay answered with a non-2xx status.
	ServerRejected TransportErrorKind = iota + 1
	// NetworkFailure means no usable answer arrived (dial, timeout, cancel).
	NetworkFailure
)

func (k TransportErrorKind) String() string {
	switch k {
	case ServerRejected:
		return "server_rejected"
	case NetworkFailure:
		return "network_failure"
	default:
		return "unknown"
	}
}

// TransportError is the only error kind a Transport returns.
type TransportError struct {
	Kind       TransportErrorKind
	Path       string
	StatusCode int    // set for ServerRejected
	Message    string // server-supplied text, or the HTTP status text
	Err        error  // underlying cause for NetworkFailure
}

func (e *TransportError) Error() string {
	if e.Kind == ServerRejected {
		return fmt.Sprintf("relay %s: rejected with %d: %s", e.Path, e.StatusCode, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("relay %s: network failure: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("relay %s: network failure", e.Path)
}

func (e *TransportError) Unwrap() error { return e.Err }

func NewServerRejected(path string, status int, message string) *TransportError {
	return &TransportError{Kind: ServerRejected, Path: path, StatusCode: status, Message: message}
}

func NewNetworkFailure(path string, err error) *TransportError {
	return &TransportError{Kind: NetworkFailure, Path: path, Err: err}
}

// ServerMessage returns the server-supplied rejection text carried by err, if any.
func ServerMessage(err error) (string, bool) {
	var te *TransportError
	if !errors.As(err, &te) || te.Kind != ServerRejected || te.Message == "" {
		return "", false
	}
	return te.Message, true
}

// IsNetworkFailure reports whether err is a connectivity failure.
func IsNetworkFailure(err error) bool {
	var te *TransportError
	return errors.As(err, &te) && te.Kind == NetworkFailure
}
