package maker

import (
	"errors"
)

var (
	// ErrShape reports a caller-supplied target shape with fewer dimensions
	// than the schema declares. This is a usage error, never silently fixed.
	ErrShape = errors.New("shape mismatch")

	// ErrBuild reports a schema or override the builder cannot satisfy.
	ErrBuild = errors.New("build error")
)
