package node

import (
	"github.com/skyarc-format/skyarc/ir"
)

// Scalar is a primitive value that round-trips with its tag attached,
// distinguishing it from a plain primitive.
type Scalar struct {
	tag  string
	tree *ir.Node
}

// NewScalar tags a primitive value. v must lower to a scalar fragment.
func NewScalar(tag string, v any) (*Scalar, error) {
	y, err := toNode(v)
	if err != nil {
		return nil, err
	}
	return &Scalar{tag: tag, tree: y.WithTag(tag)}, nil
}

// Tag returns the tag fixed at construction.
func (s *Scalar) Tag() string {
	return s.tag
}

// Tree returns the underlying tree fragment.
func (s *Scalar) Tree() *ir.Node {
	return s.tree
}

// Value returns the wrapped primitive as a plain Go value.
func (s *Scalar) Value() any {
	return s.tree.Any()
}
