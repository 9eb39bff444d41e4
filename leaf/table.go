package leaf

import (
	"github.com/skyarc-format/skyarc/ir"
)

// Column is one named column of a Table.
type Column struct {
	Name string
	Unit string
	Data *NDArray
}

// Table is tabular data: ordered named columns of equal length.
type Table struct {
	Columns []Column
}

func (t *Table) LeafTag() string {
	return TableTag
}

func (t *Table) CloneLeaf() ir.Leaf {
	cl := &Table{Columns: make([]Column, len(t.Columns))}
	for i, c := range t.Columns {
		cl.Columns[i] = Column{Name: c.Name, Unit: c.Unit}
		if c.Data != nil {
			cl.Columns[i].Data = c.Data.CloneLeaf().(*NDArray)
		}
	}
	return cl
}

func (t *Table) EqualLeaf(other ir.Leaf) bool {
	o, ok := other.(*Table)
	if !ok {
		return false
	}
	if len(t.Columns) != len(o.Columns) {
		return false
	}
	for i, c := range t.Columns {
		oc := o.Columns[i]
		if c.Name != oc.Name || c.Unit != oc.Unit {
			return false
		}
		if (c.Data == nil) != (oc.Data == nil) {
			return false
		}
		if c.Data != nil && !c.Data.EqualLeaf(oc.Data) {
			return false
		}
	}
	return true
}
