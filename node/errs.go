package node

import (
	"errors"
)

var (
	// ErrNoField reports access to a field that is neither declared nor
	// present as an extra.
	ErrNoField = errors.New("no such field")

	// ErrRelax reports an Unrelax without a matching Relax.
	ErrRelax = errors.New("not in a relaxed window")

	// ErrBadValue reports an assigned value the view cannot represent.
	ErrBadValue = errors.New("unsupported value")
)
