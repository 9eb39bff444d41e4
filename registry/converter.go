package registry

import (
	"math/rand"

	"github.com/skyarc-format/skyarc/ir"
	"github.com/skyarc-format/skyarc/schema"
)

// LeafDefaults carries the options a leaf converter may honor when
// synthesizing a default payload.
type LeafDefaults struct {
	// Shape, when non-nil, overrides the zero shape of array-backed
	// payloads. Must have at least as many dimensions as the schema's
	// ndim; the builder rejects shorter shapes before delegating here.
	Shape []int

	// Rand, when non-nil, selects the randomized-fake variant.
	Rand *rand.Rand
}

// BlockWriter is provided by the container when writing: bulk binary
// payloads are stored as numbered blocks outside the document tree.
type BlockWriter interface {
	// AddBlock stores data and returns its block index.
	AddBlock(data []byte) int
}

// BlockReader is provided by the container when reading. Loaders returned
// by Block defer the actual read until first use.
type BlockReader interface {
	Block(index int) func() ([]byte, error)
}

// BlockedConverter is implemented by converters whose payloads carry bulk
// binary data. The container prefers these entry points over the inline
// ToTree/FromTree forms.
type BlockedConverter interface {
	LeafConverter
	ToTreeBlocks(leaf ir.Leaf, w BlockWriter) (*ir.Node, error)
	FromTreeBlocks(node *ir.Node, tag string, r BlockReader) (ir.Leaf, error)
}

// LeafConverter serializes one externally tagged leaf kind. Converters are
// registered by tag pattern exactly like node types and share the same
// pattern matcher.
type LeafConverter interface {
	// Pattern is the tag pattern the converter handles.
	Pattern() string

	// ToTree reduces the payload to its raw generic form.
	ToTree(leaf ir.Leaf) (*ir.Node, error)

	// FromTree reconstructs the payload from its raw generic form.
	FromTree(node *ir.Node, tag string) (ir.Leaf, error)

	// Default synthesizes a payload satisfying sch.
	Default(sch *schema.Schema, opts *LeafDefaults) (ir.Leaf, error)
}
