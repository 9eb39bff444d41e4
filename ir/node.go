package ir

import (
	"maps"
	"slices"
)

// Leaf is implemented by externally tagged leaf payloads (arrays, physical
// quantities, time instants, coordinate transforms, tables). The payload's
// serialization is delegated to a registered converter; the tree walk treats
// it as opaque.
type Leaf interface {
	// LeafTag returns the tag the payload serializes under.
	LeafTag() string
	// CloneLeaf returns a value independent of the receiver. Mutating the
	// clone must never mutate the original.
	CloneLeaf() Leaf
}

// LeafEqualer is optionally implemented by leaf payloads with meaningful
// equality. Payloads without it (coordinate transforms) compare by type
// identity only.
type LeafEqualer interface {
	EqualLeaf(other Leaf) bool
}

type Node struct {
	Type        Type
	Parent      *Node
	ParentIndex int
	ParentField string
	Fields      []*Node
	Values      []*Node

	// Tag names the schema-defined type this subtree round-trips under.
	Tag string

	String  string
	Bool    bool
	Number  string
	Float64 *float64
	Int64   *int64
	Leaf    Leaf
}

func (y *Node) WithTag(tag string) *Node {
	y.Tag = tag
	return y
}

func (y *Node) Clone() *Node {
	res := &Node{}
	return y.CloneTo(res)
}

func (y *Node) CloneTo(dst *Node) *Node {
	dst.Parent = y.Parent
	dst.ParentIndex = y.ParentIndex
	dst.ParentField = y.ParentField
	dst.Type = y.Type
	dst.Tag = y.Tag
	dst.Values = make([]*Node, len(y.Values))
	dst.Fields = make([]*Node, len(y.Fields))
	for i, yv := range y.Values {
		dstI := &Node{}
		yv.CloneTo(dstI)
		dstI.Parent = dst
		dstI.ParentIndex = i
		dstI.ParentField = yv.ParentField
		dst.Values[i] = dstI
	}
	for i, yf := range y.Fields {
		dstI := &Node{}
		yf.CloneTo(dstI)
		dstI.Parent = dst
		dstI.ParentIndex = i
		dstI.ParentField = yf.String
		dst.Fields[i] = dstI
	}
	dst.String = y.String
	dst.Number = y.Number
	if y.Float64 != nil {
		f := *y.Float64
		dst.Float64 = &f
	}
	if y.Int64 != nil {
		i := *y.Int64
		dst.Int64 = &i
	}
	dst.Bool = y.Bool
	if y.Leaf != nil {
		dst.Leaf = y.Leaf.CloneLeaf()
	}
	return dst
}

func FromString(v string) *Node {
	return FromStringAt(&Node{}, v)
}

func FromStringAt(p *Node, v string) *Node {
	p.Type = StringType
	p.String = v
	return p
}

func FromInt(v int64) *Node {
	return &Node{
		Type:  NumberType,
		Int64: &v,
	}
}

func FromFloat(f float64) *Node {
	return &Node{
		Type:    NumberType,
		Float64: &f,
	}
}

func FromBool(v bool) *Node {
	return &Node{
		Type: BoolType,
		Bool: v,
	}
}

func FromLeaf(v Leaf) *Node {
	return &Node{
		Type: LeafType,
		Tag:  v.LeafTag(),
		Leaf: v,
	}
}

func Null() *Node {
	return &Node{Type: NullType}
}

// ToMap returns the object fields of node keyed by field name, or nil when
// node is not an object.
func ToMap(node *Node) map[string]*Node {
	if node.Type != ObjectType {
		return nil
	}
	res := make(map[string]*Node, len(node.Fields))
	for i := range node.Fields {
		res[node.Fields[i].String] = node.Values[i]
	}
	return res
}

// FromMap builds an object node with fields in sorted key order.
func FromMap(yMap map[string]*Node) *Node {
	res := &Node{}
	res.Type = ObjectType
	res.Fields = make([]*Node, len(yMap))
	res.Values = make([]*Node, len(yMap))
	keys := slices.Sorted(maps.Keys(yMap))
	for i, key := range keys {
		y := yMap[key]
		y.Parent = res
		y.ParentIndex = i
		y.ParentField = key
		yField := &Node{
			Parent:      res,
			ParentIndex: i,
			ParentField: key,
			Type:        StringType,
			String:      key,
		}
		res.Fields[i] = yField
		res.Values[i] = y
	}
	return res
}

type KeyVal struct {
	Key string
	Val *Node
}

// FromKeyVals builds an object node preserving the given field order.
func FromKeyVals(kvs []KeyVal) *Node {
	res := &Node{}
	res.Type = ObjectType
	res.Fields = make([]*Node, len(kvs))
	res.Values = make([]*Node, len(kvs))
	for i := range kvs {
		kv := &kvs[i]
		kv.Val.Parent = res
		kv.Val.ParentIndex = i
		kv.Val.ParentField = kv.Key
		res.Fields[i] = &Node{
			Parent:      res,
			ParentIndex: i,
			ParentField: kv.Key,
			Type:        StringType,
			String:      kv.Key,
		}
		res.Values[i] = kv.Val
	}
	return res
}

func FromSlice(ySlice []*Node) *Node {
	res := &Node{
		Type: ArrayType,
	}
	res.Values = make([]*Node, len(ySlice))
	for i, y := range ySlice {
		res.Values[i] = y
		y.Parent = res
		y.ParentIndex = i
	}
	return res
}

// Get returns the value of the named object field, or nil.
func Get(y *Node, field string) *Node {
	n := len(y.Fields)
	for i := range n {
		if y.Fields[i].String == field {
			return y.Values[i]
		}
	}
	return nil
}

// Set replaces the named object field's value, appending the field when it
// is not present.
func Set(y *Node, field string, v *Node) {
	for i := range y.Fields {
		if y.Fields[i].String != field {
			continue
		}
		v.Parent = y
		v.ParentIndex = i
		v.ParentField = field
		y.Values[i] = v
		return
	}
	i := len(y.Fields)
	v.Parent = y
	v.ParentIndex = i
	v.ParentField = field
	y.Fields = append(y.Fields, &Node{
		Parent:      y,
		ParentIndex: i,
		ParentField: field,
		Type:        StringType,
		String:      field,
	})
	y.Values = append(y.Values, v)
}

// Delete removes the named object field, reporting whether it was present.
func Delete(y *Node, field string) bool {
	for i := range y.Fields {
		if y.Fields[i].String != field {
			continue
		}
		y.Fields = slices.Delete(y.Fields, i, i+1)
		y.Values = slices.Delete(y.Values, i, i+1)
		for j := i; j < len(y.Fields); j++ {
			y.Fields[j].ParentIndex = j
			y.Values[j].ParentIndex = j
		}
		return true
	}
	return false
}

func (y *Node) Visit(f func(y *Node, isPost bool) (bool, error)) error {
	dive, err := f(y, false)
	if err != nil {
		return err
	}
	if dive {
		for _, yy := range y.Values {
			if err := yy.Visit(f); err != nil {
				return err
			}
		}
	}
	if _, err := f(y, true); err != nil {
		return err
	}
	return nil
}

func (y *Node) Root() *Node {
	res := y
	for res.Parent != nil {
		res = res.Parent
	}
	return res
}
