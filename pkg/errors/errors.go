// Package errors provides structured error types for the product cache service.
// It defines error categories (Permanent, Temporary, NotFound, InvalidInput)
// so that callers can react to the kind of failure rather than its message.
//
// The cache layer maps every backend failure to a TemporaryError internally;
// those never cross the service boundary. Store failures and NotFound do.
//
// Example usage:
//
//	if err := store.Put(ctx, id, rec); err != nil {
//	    return errors.NewTemporary("store write failed", err)
//	}
//
//	if rec == nil {
//	    return errors.NewNotFound("product", strconv.FormatInt(id, 10))
//	}
package errors

import (
	stderrors "errors"
	"fmt"
)

// PermanentError represents an error that won't succeed even if retried.
// Examples: invalid configuration, programming errors, corrupt data.
type PermanentError struct {
	msg   string
	cause error
}

// NewPermanent creates a new permanent error with the given message and optional cause.
func NewPermanent(msg string, cause error) error {
	return &PermanentError{msg: msg, cause: cause}
}

func (e *PermanentError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.cause)
	}
	return e.msg
}

func (e *PermanentError) Unwrap() error {
	return e.cause
}

// TemporaryError represents an error that might succeed if retried.
// Examples: cache backend unreachable, network timeouts, store connection loss.
type TemporaryError struct {
	msg   string
	cause error
}

// NewTemporary creates a new temporary error with the given message and optional cause.
func NewTemporary(msg string, cause error) error {
	return &TemporaryError{msg: msg, cause: cause}
}

func (e *TemporaryError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.cause)
	}
	return e.msg
}

func (e *TemporaryError) Unwrap() error {
	return e.cause
}

// NotFoundError represents an error when a requested resource doesn't exist.
// A missing product yields this regardless of cache health.
type NotFoundError struct {
	resource string
	id       string
	cause    error
}

// NewNotFound creates a new not found error for the given resource and ID.
func NewNotFound(resource, id string) error {
	return &NotFoundError{resource: resource, id: id}
}

// NewNotFoundWithCause creates a new not found error with an underlying cause.
func NewNotFoundWithCause(resource, id string, cause error) error {
	return &NotFoundError{resource: resource, id: id, cause: cause}
}

func (e *NotFoundError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s not found: %s (%v)", e.resource, e.id, e.cause)
	}
	return fmt.Sprintf("%s not found: %s", e.resource, e.id)
}

func (e *NotFoundError) Unwrap() error {
	return e.cause
}

// Resource returns the type of resource that wasn't found.
func (e *NotFoundError) Resource() string {
	return e.resource
}

// ID returns the identifier of the resource that wasn't found.
func (e *NotFoundError) ID() string {
	return e.id
}

// InvalidInputError represents an error due to invalid caller input.
// Examples: non-numeric product id in the URL, malformed update body.
type InvalidInputError struct {
	field string
	msg   string
	cause error
}

// NewInvalidInput creates a new invalid input error for the given field and message.
func NewInvalidInput(field, msg string) error {
	return &InvalidInputError{field: field, msg: msg}
}

// NewInvalidInputWithCause creates a new invalid input error with an underlying cause.
func NewInvalidInputWithCause(field, msg string, cause error) error {
	return &InvalidInputError{field: field, msg: msg, cause: cause}
}

func (e *InvalidInputError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("invalid input for %s: %s (%v)", e.field, e.msg, e.cause)
	}
	return fmt.Sprintf("invalid input for %s: %s", e.field, e.msg)
}

func (e *InvalidInputError) Unwrap() error {
	return e.cause
}

// Field returns the field name that had invalid input.
func (e *InvalidInputError) Field() string {
	return e.field
}

// Message returns the validation error message.
func (e *InvalidInputError) Message() string {
	return e.msg
}

// As and Is re-export their standard library counterparts so callers
// working with typed errors only need this package imported.
func As(err error, target interface{}) bool { return stderrors.As(err, target) }

func Is(err, target error) bool { return stderrors.Is(err, target) }

// IsPermanent reports whether err is or wraps a PermanentError.
func IsPermanent(err error) bool {
	var pe *PermanentError
	return stderrors.As(err, &pe)
}

// IsTemporary reports whether err is or wraps a TemporaryError.
func IsTemporary(err error) bool {
	var te *TemporaryError
	return stderrors.As(err, &te)
}

// IsNotFound reports whether err is or wraps a NotFoundError.
func IsNotFound(err error) bool {
	var nfe *NotFoundError
	return stderrors.As(err, &nfe)
}

// IsInvalidInput reports whether err is or wraps an InvalidInputError.
func IsInvalidInput(err error) bool {
	var iie *InvalidInputError
	return stderrors.As(err, &iie)
}

// Wrap adds context to err without changing its category. A wrapped
// NotFoundError stays NotFound, a TemporaryError stays Temporary, and
// anything untyped becomes a PermanentError. Nil passes through.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}

	var (
		nfe *NotFoundError
		iie *InvalidInputError
	)
	switch {
	case stderrors.As(err, &nfe):
		return NewNotFoundWithCause(nfe.resource, nfe.id, err)
	case stderrors.As(err, &iie):
		return NewInvalidInputWithCause(iie.field, msg, err)
	case IsTemporary(err):
		return NewTemporary(msg, err)
	default:
		return NewPermanent(msg, err)
	}
}

// Wrapf is Wrap with a formatted message.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}
