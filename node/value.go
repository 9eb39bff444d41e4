package node

import (
	"fmt"

	"github.com/skyarc-format/skyarc/ir"
	"github.com/skyarc-format/skyarc/registry"
	"github.com/skyarc-format/skyarc/schema"
	"github.com/skyarc-format/skyarc/validate"
)

// Wrap views a generic tree fragment as a typed value. Objects, arrays and
// tagged scalars come back as *Object, *List and *Scalar; plain scalars as
// Go primitives; leaf payloads as ir.Leaf. Tagged subtrees still in
// generic form are resolved against reg; unresolvable tags fail with the
// registry's unknown-tag error so tolerant readers surface the problem at
// access time, not read time.
func Wrap(reg *registry.Registry, y *ir.Node) (any, error) {
	switch y.Type {
	case ir.NullType:
		return nil, nil
	case ir.BoolType:
		return y.Bool, nil
	case ir.StringType:
		if y.Tag != "" {
			return &Scalar{tag: y.Tag, tree: y}, nil
		}
		return y.String, nil
	case ir.NumberType:
		if y.Tag != "" {
			return &Scalar{tag: y.Tag, tree: y}, nil
		}
		if y.Int64 != nil {
			return *y.Int64, nil
		}
		if f, ok := y.AsFloat(); ok {
			return f, nil
		}
		return y.Number, nil
	case ir.LeafType:
		return y.Leaf, nil
	case ir.ArrayType:
		return wrapList(reg, y)
	case ir.ObjectType:
		return wrapObject(reg, y)
	}
	return nil, fmt.Errorf("%w: node type %s", ErrBadValue, y.Type)
}

func wrapObject(reg *registry.Registry, y *ir.Node) (*Object, error) {
	o := &Object{tag: y.Tag, tree: y, reg: reg}
	if y.Tag != "" && reg != nil {
		t, err := reg.ResolveRead(y.Tag)
		if err != nil {
			return nil, err
		}
		o.typ = t
		if sch, err := reg.SchemaForTag(y.Tag); err == nil {
			o.sch = sch
		} else if sch, err := reg.SchemaForType(t); err == nil {
			o.sch = sch
		}
	}
	return o, nil
}

func wrapList(reg *registry.Registry, y *ir.Node) (*List, error) {
	l := &List{tag: y.Tag, tree: y, reg: reg}
	if y.Tag != "" && reg != nil {
		t, err := reg.ResolveRead(y.Tag)
		if err != nil {
			return nil, err
		}
		l.typ = t
		if sch, err := reg.SchemaForTag(y.Tag); err == nil {
			l.sch = sch
		}
	}
	return l, nil
}

// toNode lowers an assigned value to a tree fragment. Typed views
// contribute their underlying tree; plain Go containers are converted.
func toNode(v any) (*ir.Node, error) {
	switch x := v.(type) {
	case nil:
		return ir.Null(), nil
	case *ir.Node:
		return x, nil
	case *Object:
		return x.tree, nil
	case *List:
		return x.tree, nil
	case *Scalar:
		return x.tree, nil
	case ir.Leaf:
		return ir.FromLeaf(x), nil
	case bool:
		return ir.FromBool(x), nil
	case string:
		return ir.FromString(x), nil
	case int:
		return ir.FromInt(int64(x)), nil
	case int64:
		return ir.FromInt(x), nil
	case float64:
		return ir.FromFloat(x), nil
	case map[string]any, []any:
		return schema.FromAny(x)
	}
	return nil, fmt.Errorf("%w: %T", ErrBadValue, v)
}

// relaxState is the per-instance validation pause. Entering composes as a
// reference count so only the outermost exit revalidates.
type relaxState struct {
	depth int
}

func (r *relaxState) enter() {
	r.depth++
}

func (r *relaxState) exit() error {
	if r.depth == 0 {
		return ErrRelax
	}
	r.depth--
	return nil
}

func (r *relaxState) relaxed() bool {
	return r.depth > 0
}

func validateFragment(reg *registry.Registry, y *ir.Node, sch *schema.Schema) error {
	if sch == nil || !validate.Enabled() {
		return nil
	}
	return validate.New(reg).Validate(y, sch)
}
