package ir

import "errors"

var (
	ErrBadTree = errors.New("malformed tree")
)
