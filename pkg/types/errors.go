package types

import (
	"errors"
	"fmt"
)

// Lookup and validation errors.
var (
	ErrNotFound         = errors.New("card not found")
	ErrItemNotFound     = errors.New("line item not found")
	ErrInvalidID        = errors.New("invalid card ID")
	ErrInvalidSet       = errors.New("invalid diameter set")
	ErrDiameterNotInSet = errors.New("diameter not in declared set")
)

// Store lifecycle errors.
var (
	ErrStoreDetached   = errors.New("store is detached")
	ErrAlreadyAttached = errors.New("store is already attached")
	ErrTimezoneUnknown = errors.New("unknown timezone")
)

// Rendering errors.
var (
	ErrTableOverflow  = errors.New("line items do not fit on the card")
	ErrBarcodeTooLong = errors.New("identifier too long for the barcode area")
	ErrBarcodeEncode  = errors.New("identifier cannot be encoded as Code 128")
	ErrEmptyCardID    = errors.New("card ID must not be empty")
)

// StorageError reports a connectivity or schema failure in the record store.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// RenderError reports a card or label that cannot be laid out.
type RenderError struct {
	Part string
	Err  error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s: %v", e.Part, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// IsStorageError reports whether err wraps a *StorageError.
func IsStorageError(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}

// IsRenderError reports whether err wraps a *RenderError.
func IsRenderError(err error) bool {
	var re *RenderError
	return errors.As(err, &re)
}
