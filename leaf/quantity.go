package leaf

import (
	"github.com/skyarc-format/skyarc/ir"
)

// Quantity pairs an array value with a physical unit.
type Quantity struct {
	Value *NDArray
	Unit  string
}

func (q *Quantity) LeafTag() string {
	return QuantityTag
}

// NDim returns the dimensionality of the underlying array.
func (q *Quantity) NDim() int {
	if q.Value == nil {
		return 0
	}
	return q.Value.NDim()
}

// DatatypeName returns the element type of the underlying array.
func (q *Quantity) DatatypeName() string {
	if q.Value == nil {
		return ""
	}
	return q.Value.Datatype
}

func (q *Quantity) CloneLeaf() ir.Leaf {
	cl := &Quantity{Unit: q.Unit}
	if q.Value != nil {
		cl.Value = q.Value.CloneLeaf().(*NDArray)
	}
	return cl
}

func (q *Quantity) EqualLeaf(other ir.Leaf) bool {
	o, ok := other.(*Quantity)
	if !ok {
		return false
	}
	if q.Unit != o.Unit {
		return false
	}
	if q.Value == nil || o.Value == nil {
		return q.Value == o.Value
	}
	return q.Value.EqualLeaf(o.Value)
}
