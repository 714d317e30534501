// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package builder

import "fmt"

// ErrorKind categorizes build-time faults.
//
// ErrorKind implements error so that errors.Is(err, builder.ErrScopeViolation)
// matches any *Error of that kind.
type ErrorKind uint8

const (
	// ErrBindingCollision indicates a (group, index) pair declared twice.
	ErrBindingCollision ErrorKind = iota

	// ErrNameCollision indicates a name re-declared under a different
	// declaration, or a struct name used for two different shapes.
	ErrNameCollision

	// ErrFieldCollision indicates two fields of one struct share a name.
	ErrFieldCollision

	// ErrFieldLookup indicates a struct field that does not exist.
	ErrFieldLookup

	// ErrTypeMismatch indicates an operand, argument or target type that
	// does not agree with the expected type.
	ErrTypeMismatch

	// ErrScopeViolation indicates a handle used outside the block that
	// produced it, or a call on a sealed or suspended block builder.
	ErrScopeViolation

	// ErrInvalidName indicates a malformed or reserved identifier.
	ErrInvalidName

	// ErrInvalidOperation indicates an operation the model cannot express,
	// such as a disallowed buffer access or a non-finite literal.
	ErrInvalidOperation

	// ErrInvalidModule indicates the module cannot be finished.
	ErrInvalidModule
)

// String returns a human-readable error kind name.
func (k ErrorKind) String() string {
	switch k {
	case ErrBindingCollision:
		return "BindingCollision"
	case ErrNameCollision:
		return "NameCollision"
	case ErrFieldCollision:
		return "FieldCollision"
	case ErrFieldLookup:
		return "FieldLookup"
	case ErrTypeMismatch:
		return "TypeMismatch"
	case ErrScopeViolation:
		return "ScopeViolation"
	case ErrInvalidName:
		return "InvalidName"
	case ErrInvalidOperation:
		return "InvalidOperation"
	case ErrInvalidModule:
		return "InvalidModule"
	default:
		return "Unknown"
	}
}

// Error implements the error interface.
func (k ErrorKind) Error() string {
	return k.String()
}

// Error represents a build-time fault.
type Error struct {
	// Kind categorizes the error.
	Kind ErrorKind

	// Message provides details about the error.
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("shade %s: %s", e.Kind, e.Message)
}

// Is reports whether target is this error's kind.
func (e *Error) Is(target error) bool {
	k, ok := target.(ErrorKind)
	return ok && k == e.Kind
}

// NewError creates a new build error.
func NewError(kind ErrorKind, message string) *Error {
	return &Error{
		Kind:    kind,
		Message: message,
	}
}

func errorf(kind ErrorKind, format string, args ...any) *Error {
	return NewError(kind, fmt.Sprintf(format, args...))
}

// IsScopeViolation returns true if the error is ErrScopeViolation.
func (e *Error) IsScopeViolation() bool {
	return e.Kind == ErrScopeViolation
}

// IsTypeMismatch returns true if the error is ErrTypeMismatch.
func (e *Error) IsTypeMismatch() bool {
	return e.Kind == ErrTypeMismatch
}
