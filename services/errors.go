package services

import (
	"errors"
)

// ErrorKind classifies failures so handlers can map them to a status code
// without inspecting messages.
type ErrorKind int

const (
	ErrConfig ErrorKind = iota + 1
	ErrConnectivity
	ErrValidation
	ErrClientInput
)

func (k ErrorKind) String() string {
	switch k {
	case ErrConfig:
		return "config"
	case ErrConnectivity:
		return "connectivity"
	case ErrValidation:
		return "validation"
	case ErrClientInput:
		return "client_input"
	default:
		return "unknown"
	}
}

var (
	ErrNoQuestions        = errors.New("no questions provided")
	ErrStoreNotConfigured = errors.New("MONGODB_URI is missing")
)

// Error is returned by the question service and stores. Error() yields the
// underlying message only; Op is for logs.
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf reports the kind of err. Errors that did not come through this
// package count as connectivity failures.
func KindOf(err error) ErrorKind {
	var serr *Error
	if errors.As(err, &serr) {
		return serr.Kind
	}
	return ErrConnectivity
}

func wrapError(kind ErrorKind, op string, err error) error {
	var serr *Error
	if errors.As(err, &serr) {
		return err
	}
	return &Error{Kind: kind, Op: op, Err: err}
}
