package models

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across the store and service layers. Callers match
// with errors.Is after the layers have wrapped them with context.
var (
	ErrNotFound          = errors.New("not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrDuplicateRef      = errors.New("ref no already exists")
	ErrStoreUnavailable  = errors.New("store unavailable")
)

// ValidationError reports a malformed field caught at a boundary, before
// any atomic unit of work is opened.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// StockError identifies the medicine whose conditional decrement did not
// apply. Unwraps to ErrInsufficientStock.
type StockError struct {
	RefNo string
	Name  string
}

func (e *StockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s (%s)", e.Name, e.RefNo)
}

func (e *StockError) Unwrap() error { return ErrInsufficientStock }

// BillingError is the single failure surfaced by a commit attempt. RefNo is
// set when a specific medicine caused the abort, so the caller can message
// the user without inspecting storage internals.
type BillingError struct {
	RefNo string
	Err   error
}

func (e *BillingError) Error() string {
	if e.RefNo != "" {
		return fmt.Sprintf("billing failed on %s: %v", e.RefNo, e.Err)
	}
	return fmt.Sprintf("billing failed: %v", e.Err)
}

func (e *BillingError) Unwrap() error { return e.Err }
