// Package kverrors provides the structured error type the store facade and
// segment manager use to classify failures that must be swallowed
// (SegmentUnreadable, SegmentMissing, EmptyInput) from the one kind that
// must be surfaced to the caller (DirectoryUnwritable). It is a reduced
// form of ignite's pkg/errors builder, scoped to this store's vocabulary.
package kverrors

import (
	"errors"
	"fmt"
)

// Code categorizes a kverrors.Error programmatically, without parsing its
// message.
type Code int

const (
	// CodeEmptyInput marks a flush attempted against an empty buffer. Not
	// surfaced to callers; logged at warning level and treated as a no-op.
	CodeEmptyInput Code = iota
	// CodeSegmentUnreadable marks an I/O or deserialization failure while
	// scanning a segment. The segment is skipped, not surfaced.
	CodeSegmentUnreadable
	// CodeSegmentMissing marks a segment file the manager expected that is
	// absent from disk. Same policy as CodeSegmentUnreadable.
	CodeSegmentMissing
	// CodeDirectoryUnwritable marks a failure to create or write the
	// segment directory. Always surfaced to the caller.
	CodeDirectoryUnwritable
)

func (c Code) String() string {
	switch c {
	case CodeEmptyInput:
		return "empty_input"
	case CodeSegmentUnreadable:
		return "segment_unreadable"
	case CodeSegmentMissing:
		return "segment_missing"
	case CodeDirectoryUnwritable:
		return "directory_unwritable"
	default:
		return "unknown"
	}
}

// Error is a structured error carrying a Code, a message, an optional
// wrapped cause, and an optional file path for context.
type Error struct {
	code    Code
	message string
	cause   error
	path    string
}

// New constructs an Error of the given code wrapping cause, which may be
// nil.
func New(code Code, message string, cause error) *Error {
	return &Error{code: code, message: message, cause: cause}
}

// WithPath attaches the file or directory path relevant to this error.
func (e *Error) WithPath(path string) *Error {
	e.path = path
	return e
}

// Code returns the error's classification.
func (e *Error) Code() Code {
	return e.code
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.path != "" {
		if e.cause != nil {
			return fmt.Sprintf("%s (%s) [path=%s]: %v", e.message, e.code, e.path, e.cause)
		}
		return fmt.Sprintf("%s (%s) [path=%s]", e.message, e.code, e.path)
	}
	if e.cause != nil {
		return fmt.Sprintf("%s (%s): %v", e.message, e.code, e.cause)
	}
	return fmt.Sprintf("%s (%s)", e.message, e.code)
}

// Unwrap exposes the wrapped cause for errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether err is a *kverrors.Error carrying code.
func Is(err error, code Code) bool {
	var kerr *Error
	if !errors.As(err, &kerr) {
		return false
	}
	return kerr.code == code
}
