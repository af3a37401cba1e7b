package repository

import "errors"

var (
	// ErrNotFound is returned when no record matches the lookup.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when an insert violates a uniqueness constraint.
	ErrDuplicate = errors.New("duplicate record")
	// ErrAlreadySettled is returned by Settler when the order is already paid
	// or the product already sold; no state was changed.
	ErrAlreadySettled = errors.New("settlement already applied")
)
