// Package failure is the error model shared by the window, the GPU context
// and the application loop. Every fallible operation in those packages returns
// an error that carries one of the Kind values below, so callers can branch on
// what went wrong without parsing messages.
package failure

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Kind discriminates the failures the bootstrap can report.
type Kind int

const (
	None Kind = iota
	InitializationFailed
	WindowCreationFailed
	InstanceCreationFailed
	DeviceNotFound
	DeviceCreationFailed
	SurfaceCreationFailed
	ValidationLayersUnavailable
	DebugMessengerCreationFailed
	Unknown
)

var kindNames = [...]string{
	None:                         "none",
	InitializationFailed:         "initialization failed",
	WindowCreationFailed:         "window creation failed",
	InstanceCreationFailed:       "instance creation failed",
	DeviceNotFound:               "device not found",
	DeviceCreationFailed:         "device creation failed",
	SurfaceCreationFailed:        "surface creation failed",
	ValidationLayersUnavailable:  "validation layers unavailable",
	DebugMessengerCreationFailed: "debug messenger creation failed",
	Unknown:                      "unknown",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Error is a Kind plus a human readable message. The zero value means "no
// error" and is only useful where a typed value is needed anyway.
type Error struct {
	Kind    Kind
	Message string

	cause error
}

// IsError reports whether e describes an actual failure.
func (e *Error) IsError() bool {
	return e != nil && e.Kind != None
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// New returns an error of the given kind with a stack trace attached at the
// call site.
func New(kind Kind, message string) error {
	return errors.WithStackDepth(&Error{Kind: kind, Message: message}, 1)
}

// Newf is New with a formatted message.
func Newf(kind Kind, format string, args ...interface{}) error {
	return errors.WithStackDepth(&Error{Kind: kind, Message: fmt.Sprintf(format, args...)}, 1)
}

// Wrap classifies cause as kind. A nil cause yields a nil error.
func Wrap(kind Kind, cause error, message string) error {
	if cause == nil {
		return nil
	}
	return errors.WithStackDepth(&Error{Kind: kind, Message: message, cause: cause}, 1)
}

// KindOf returns the kind of the outermost *Error in err's chain. Nil maps to
// None and errors that never went through this package map to Unknown.
func KindOf(err error) Kind {
	if err == nil {
		return None
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unknown
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
