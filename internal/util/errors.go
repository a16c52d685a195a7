package util

import (
	"errors"
	"fmt"
)

type ErrorCode int

const (
	ErrOK ErrorCode = iota
	ErrInternal
	ErrNotFound
	ErrInvalidArgument
	ErrIO
	ErrCorrupted
	ErrInvalidPageType
	ErrOverflow
	ErrUnknownType
	ErrDecode
	ErrReadOnly
)

func (c ErrorCode) String() string {
	switch c {
	case ErrOK:
		return "ok"
	case ErrInternal:
		return "internal"
	case ErrNotFound:
		return "not-found"
	case ErrInvalidArgument:
		return "invalid-argument"
	case ErrIO:
		return "io"
	case ErrCorrupted:
		return "corrupted"
	case ErrInvalidPageType:
		return "invalid-page-type"
	case ErrOverflow:
		return "overflow"
	case ErrUnknownType:
		return "unknown-type"
	case ErrDecode:
		return "decode"
	case ErrReadOnly:
		return "read-only"
	default:
		return fmt.Sprintf("code-%d", int(c))
	}
}

// FdbError is the error type returned by every package of the reader. The
// Cause carries the structured detail (one of the *Error types below) or the
// underlying error from the byte source.
type FdbError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

func (e *FdbError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *FdbError) Unwrap() error {
	return e.Cause
}

func NewError(code ErrorCode, message string, cause error) *FdbError {
	return &FdbError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// CodeOf returns the code of the first FdbError in err's chain, or ErrOK when
// there is none.
func CodeOf(err error) ErrorCode {
	var fe *FdbError
	if errors.As(err, &fe) {
		return fe.Code
	}
	if err != nil {
		return ErrInternal
	}
	return ErrOK
}

// HasCode reports whether any FdbError in err's chain carries code.
func HasCode(err error, code ErrorCode) bool {
	for err != nil {
		var fe *FdbError
		if !errors.As(err, &fe) {
			return false
		}
		if fe.Code == code {
			return true
		}
		err = fe.Cause
	}
	return false
}

// PageTypeError records a page tag that did not match the expected one.
type PageTypeError struct {
	Page     string
	Found    uint8
	Expected uint8
}

func (e *PageTypeError) Error() string {
	return fmt.Sprintf("expected type 0x%02x, found 0x%02x", e.Expected, e.Found)
}

// OverflowError records a declared quantity that exceeds what the container holds.
type OverflowError struct {
	What  string
	Limit int
	Value int
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("%s: %d > %d", e.What, e.Value, e.Limit)
}

// TypeError records a catalog type code that could not be mapped for a column.
type TypeError struct {
	Column  string
	Source  string
	Code    int16
	Missing bool
}

func (e *TypeError) Error() string {
	if e.Missing {
		return fmt.Sprintf("column %s: no field definition for source %s", e.Column, e.Source)
	}
	return fmt.Sprintf("column %s: source %s has type code %d", e.Column, e.Source, e.Code)
}

// DecodeError records a column value that could not be interpreted.
type DecodeError struct {
	Column string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("column %s: %v", e.Column, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func InvalidPageType(page string, found, expected uint8) *FdbError {
	return NewError(ErrInvalidPageType, fmt.Sprintf("invalid %s page", page),
		&PageTypeError{Page: page, Found: found, Expected: expected})
}

func Overflow(what string, limit, value int) *FdbError {
	return NewError(ErrOverflow, "overflow", &OverflowError{What: what, Limit: limit, Value: value})
}

func UnknownType(column, source string, code int16) *FdbError {
	return NewError(ErrUnknownType, "unknown type", &TypeError{Column: column, Source: source, Code: code})
}

func MissingType(column, source string) *FdbError {
	return NewError(ErrUnknownType, "unknown type", &TypeError{Column: column, Source: source, Missing: true})
}

func DecodeFailure(column string, cause error) *FdbError {
	return NewError(ErrDecode, "failed to decode row", &DecodeError{Column: column, Err: cause})
}
