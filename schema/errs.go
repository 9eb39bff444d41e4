package schema

import "errors"

var (
	ErrSchemaParse = errors.New("schema parse error")
	ErrNoSchema    = errors.New("no such schema")
)
