package identity

import (
	"errors"
	"fmt"
)

// OpError is a typed operation error with a stable Op + Kind contract.
// Kind is one of the sentinel kinds; Msg may add human-readable context and
// must never include secrets.
type OpError struct {
	Op   string
	Kind error
	Msg  string
}

func (e OpError) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %s", e.Op, e.Kind, e.Msg)
}

func (e OpError) Unwrap() error { return e.Kind }

// ConflictError reports a uniqueness conflict for a specific logical field.
// Field is a stable logical name: "username" or "email".
type ConflictError struct {
	Op    string
	Field string
}

func (e ConflictError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %v", e.Op, ErrConflict)
	}
	return fmt.Sprintf("%s: %v: %s", e.Op, ErrConflict, e.Field)
}

func (e ConflictError) Unwrap() error { return ErrConflict }

// NotFoundError reports a missing account.
type NotFoundError struct {
	Op string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, ErrNotFound)
}

func (e NotFoundError) Unwrap() error { return ErrNotFound }

func invalid(op, msg string) error {
	return OpError{Op: op, Kind: ErrInvalidInput, Msg: msg}
}

// IsConflict reports whether err represents ErrConflict.
func IsConflict(err error) bool { return errors.Is(err, ErrConflict) }

// IsNotFound reports whether err represents ErrNotFound.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsInvalidInput reports whether err represents ErrInvalidInput.
func IsInvalidInput(err error) bool { return errors.Is(err, ErrInvalidInput) }

// IsTokenMismatch reports whether err represents ErrTokenMismatch.
func IsTokenMismatch(err error) bool { return errors.Is(err, ErrTokenMismatch) }
