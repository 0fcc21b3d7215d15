package lp

import "errors"

var (
	// ErrShape is returned when an operation assumes a structural property
	// the value doesn't have, e.g. calling Atom on a non-atomic expression
	// or constructing a Binary variable with incompatible bounds.
	ErrShape = errors.New("lp: shape error")

	// ErrNotAssigned is returned by strict value accessors and by evaluation
	// when a referenced variable has no assigned value.
	ErrNotAssigned = errors.New("lp: value not assigned")
)
