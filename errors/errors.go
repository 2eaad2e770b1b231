// Package errors provides error handling for batchtop.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - Hints and details for user-facing messages
//
// Usage:
//
//	// Create new error
//	err := errors.New("something went wrong")
//
//	// Wrap with context
//	if err := doSomething(); err != nil {
//	    return errors.Wrap(err, "failed to do something")
//	}
//
//	// Check errors
//	if errors.Is(err, errors.ErrLogUnavailable) {
//	    // handle expired log artifact
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is             = crdb.Is
	IsAny          = crdb.IsAny
	As             = crdb.As
	Unwrap         = crdb.Unwrap
	UnwrapAll      = crdb.UnwrapAll
	GetAllHints    = crdb.GetAllHints
	GetAllDetails  = crdb.GetAllDetails
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
)

// Sentinel errors covering the console's failure taxonomy.
// Use these with errors.Is() for type-safe error checking.
// Wrap these with errors.Wrap() to add context while preserving the type.
var (
	// ErrServerRejected indicates the platform answered with {success:false}.
	// The wrapped message carries the server-supplied error or message text.
	ErrServerRejected = New("server rejected request")

	// ErrValidation indicates locally-detected invalid input (for example
	// malformed schedule parameters text). Validation errors never reach
	// the network.
	ErrValidation = New("validation failed")

	// ErrLogUnavailable indicates an execution log artifact is not
	// available or has expired on the server.
	ErrLogUnavailable = New("log not available or expired")

	// ErrNotFound indicates the requested resource does not exist
	ErrNotFound = New("not found")

	// ErrFormClosed indicates a schedule editor operation was attempted
	// while no edit session is open.
	ErrFormClosed = New("schedule editor is not open")
)

// IsServerRejection checks if an error is or wraps ErrServerRejected
func IsServerRejection(err error) bool {
	return err != nil && Is(err, ErrServerRejected)
}

// IsValidation checks if an error is or wraps ErrValidation
func IsValidation(err error) bool {
	return err != nil && Is(err, ErrValidation)
}

// NewValidationError creates a validation error with a formatted message
func NewValidationError(format string, args ...interface{}) error {
	return Wrap(ErrValidation, Newf(format, args...).Error())
}

// NewServerRejection wraps the server-supplied failure text so callers can
// both display it and branch on the error class.
func NewServerRejection(serverText string) error {
	return Wrap(ErrServerRejected, serverText)
}
