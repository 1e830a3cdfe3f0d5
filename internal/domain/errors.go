package domain

import (
	"errors"
	"fmt"
)

// Error kinds shared by every layer. Wrap them with fmt.Errorf("...: %w", ErrX)
// and test with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrInvalidState = errors.New("invalid state")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrUpstream     = errors.New("upstream failure")
)

var (
	ErrEmptyCart         = KindError(ErrInvalidState, "cart is empty, nothing to order")
	ErrIllegalTransition = KindError(ErrInvalidState, "illegal transition of order status")
	ErrInvalidServings   = KindError(ErrInvalidInput, "servings must be a positive integer")
	ErrZeroServings      = KindError(ErrInvalidInput, "recipe has no base servings")
)

type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

// KindError returns an error with its own message that still matches kind
// under errors.Is.
func KindError(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

// KindErrorf is KindError with formatting.
func KindErrorf(kind error, format string, args ...any) error {
	return &kindError{kind: kind, msg: fmt.Sprintf(format, args...)}
}
