package registry

import "errors"

var (
	// ErrRegistry reports a duplicate tag-to-type binding. Detected during
	// registry population; not recoverable.
	ErrRegistry = errors.New("registry error")

	// ErrUnknownTag reports a tag with no registered resolver. Recoverable:
	// readers may opt in to tolerant mode and keep the raw subtree.
	ErrUnknownTag = errors.New("unknown tag")
)
