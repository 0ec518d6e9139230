package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidLineItem is returned when an item cannot be priced.
	ErrInvalidLineItem = errors.New("invalid line item")
	// ErrMissingRequiredField is returned before any drawing when a required field is absent.
	ErrMissingRequiredField = errors.New("missing required field")
	// ErrInvalidTaxRate is returned when tax_rate falls outside [0, 1].
	ErrInvalidTaxRate = errors.New("invalid tax rate")
	// ErrAssetUnavailable marks a missing optional asset such as the logo.
	// It is recovered by the caller and never surfaced to the user.
	ErrAssetUnavailable = errors.New("asset unavailable")
	// ErrRenderIO is returned when the output document cannot be written.
	ErrRenderIO = errors.New("render io failure")
	// ErrUnknownTemplate is returned for a template preset name that does not exist.
	ErrUnknownTemplate = errors.New("unknown template")
)

// LineItemError describes why the item at Index could not be priced.
type LineItemError struct {
	Index  int
	Reason string
}

func (e *LineItemError) Error() string {
	return fmt.Sprintf("%s: item %d: %s", ErrInvalidLineItem, e.Index+1, e.Reason)
}

func (e *LineItemError) Unwrap() error { return ErrInvalidLineItem }

// FieldError names a required field that is absent or empty.
type FieldError struct {
	Field string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingRequiredField, e.Field)
}

func (e *FieldError) Unwrap() error { return ErrMissingRequiredField }
