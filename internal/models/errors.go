package models

import (
	"errors"
	"fmt"
)

var (
	ErrValidation  = errors.New("validation failed")
	ErrIndex       = errors.New("index out of range")
	ErrPersistence = errors.New("persistence failed")
	ErrNotFound    = errors.New("not found")
)

// Error carries one of the sentinel kinds above plus context.
type Error struct {
	Kind error
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Kind.Error()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Msg != "" {
		msg += ": " + e.Msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the kind and the underlying cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func Validationf(op, format string, args ...any) error {
	return &Error{Kind: ErrValidation, Op: op, Msg: fmt.Sprintf(format, args...)}
}

func Indexf(op, format string, args ...any) error {
	return &Error{Kind: ErrIndex, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// Persistence wraps a storage failure so callers never see driver errors directly.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: ErrPersistence, Op: op, Err: err}
}
