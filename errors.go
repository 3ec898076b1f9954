// Package nvmesim implements the deterministic host/device command-queue
// simulator: a fixed workload plus a fixed set of scheduling parameters in,
// a byte-identical event log out. See internal/runner for the step loop
// that owns this guarantee.
package nvmesim

import (
	"errors"
	"fmt"
)

// Error represents a structured input error: file not found, malformed
// JSON/YAML, an unknown enum value, or an out-of-range integer (spec
// section 7). Logical errors inside a run — unknown command type,
// out-of-bounds LBA — are never represented this way; those are
// command-level outcomes handled entirely inside internal/model.
type Error struct {
	Op    string // the CLI operation that failed, e.g. "run-one", "run-matrix"
	Field string // the offending file or field name, if any
	Code  ErrorCode
	Msg   string
	Inner error
}

func (e *Error) Error() string {
	var parts []string
	if e.Op != "" {
		parts = append(parts, fmt.Sprintf("op=%s", e.Op))
	}
	if e.Field != "" {
		parts = append(parts, fmt.Sprintf("field=%s", e.Field))
	}

	msg := e.Msg
	if msg == "" {
		msg = string(e.Code)
	}

	if len(parts) > 0 {
		return fmt.Sprintf("nvmesim: %s (%s)", msg, parts[0])
	}
	return fmt.Sprintf("nvmesim: %s", msg)
}

func (e *Error) Unwrap() error {
	return e.Inner
}

func (e *Error) Is(target error) bool {
	if target == nil {
		return false
	}
	te, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == te.Code
}

// ErrorCode is a high-level input-error category.
type ErrorCode string

const (
	ErrCodeFileNotFound      ErrorCode = "file not found"
	ErrCodeMalformedJSON     ErrorCode = "malformed json"
	ErrCodeMalformedYAML     ErrorCode = "malformed yaml"
	ErrCodeUnknownEnumValue  ErrorCode = "unknown enum value"
	ErrCodeOutOfRangeInteger ErrorCode = "out of range integer"
	ErrCodeRunFailed         ErrorCode = "run failed"
)

// NewError creates a new structured error.
func NewError(op string, code ErrorCode, msg string) *Error {
	return &Error{Op: op, Code: code, Msg: msg}
}

// NewFieldError creates a new error naming the offending field or file.
func NewFieldError(op, field string, code ErrorCode, msg string) *Error {
	return &Error{Op: op, Field: field, Code: code, Msg: msg}
}

// WrapError wraps an existing error with nvmesim context.
func WrapError(op string, code ErrorCode, inner error) *Error {
	if inner == nil {
		return nil
	}
	if ne, ok := inner.(*Error); ok {
		return &Error{Op: op, Field: ne.Field, Code: ne.Code, Msg: ne.Msg, Inner: ne.Inner}
	}
	return &Error{Op: op, Code: code, Msg: inner.Error(), Inner: inner}
}

// IsCode reports whether err is (or wraps) an *Error with the given code.
func IsCode(err error, code ErrorCode) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}
