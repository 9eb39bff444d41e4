package convert

import (
	"fmt"

	"github.com/skyarc-format/skyarc/debug"
	"github.com/skyarc-format/skyarc/ir"
	"github.com/skyarc-format/skyarc/node"
	"github.com/skyarc-format/skyarc/registry"
	"github.com/skyarc-format/skyarc/schema"
)

// Engine converts between generic trees and typed values against one
// registry. The zero tolerance mode is strict: unresolvable tags abort.
type Engine struct {
	reg      *registry.Registry
	tolerant bool
}

func New(reg *registry.Registry) *Engine {
	return &Engine{reg: reg}
}

// Tolerant returns an engine that degrades unresolvable tags to raw
// fragments instead of failing; promotion is re-attempted when the
// fragment is accessed through a typed view.
func (e *Engine) Tolerant() *Engine {
	return &Engine{reg: e.reg, tolerant: true}
}

// Promote lifts, in place, every tagged subtree handled by a leaf
// converter into its payload form. Bulk data referenced by block index is
// wired to r and stays unloaded until first access. Tagged subtrees backed
// by node types stay generic; unknown tags fail unless the engine is
// tolerant.
func (e *Engine) Promote(y *ir.Node, r registry.BlockReader) error {
	for _, v := range y.Values {
		if err := e.Promote(v, r); err != nil {
			return err
		}
	}
	if y.Tag == "" || y.Type == ir.LeafType {
		return nil
	}
	conv, ok := e.reg.ConverterForTag(y.Tag)
	if !ok {
		if _, err := e.reg.ResolveRead(y.Tag); err != nil {
			if e.tolerant {
				debug.Warnf("leaving unresolvable tag raw", "tag", y.Tag, "path", y.Path())
				return nil
			}
			return fmt.Errorf("%s: %w", y.Path(), err)
		}
		return nil
	}
	var (
		l   ir.Leaf
		err error
	)
	if bc, blocked := conv.(registry.BlockedConverter); blocked && r != nil {
		l, err = bc.FromTreeBlocks(y, y.Tag, r)
	} else {
		l, err = conv.FromTree(y, y.Tag)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", y.Path(), err)
	}
	if debug.Convert() {
		debug.Debugf("promoted leaf", "tag", y.Tag, "path", y.Path())
	}
	becomeLeaf(y, l)
	return nil
}

// Lower reduces, in place, every leaf payload to its raw generic form.
// With a block writer, bulk payloads are stored as container blocks and
// referenced by index; without one they are carried inline.
func (e *Engine) Lower(y *ir.Node, w registry.BlockWriter) error {
	if y.Type == ir.LeafType {
		tag := y.Leaf.LeafTag()
		conv, ok := e.reg.ConverterForTag(tag)
		if !ok {
			return fmt.Errorf("%s: %w: no converter for %q",
				y.Path(), registry.ErrUnknownTag, tag)
		}
		var (
			frag *ir.Node
			err  error
		)
		if bc, blocked := conv.(registry.BlockedConverter); blocked && w != nil {
			frag, err = bc.ToTreeBlocks(y.Leaf, w)
		} else {
			frag, err = conv.ToTree(y.Leaf)
		}
		if err != nil {
			return fmt.Errorf("%s: %w", y.Path(), err)
		}
		becomeNode(y, frag)
	}
	for _, v := range y.Values {
		if err := e.Lower(v, w); err != nil {
			return err
		}
	}
	return nil
}

// FromTree promotes a tree fragment to a typed value under expectedTag.
// Unknown tags fail in strict mode; the tolerant engine hands back the raw
// fragment, deferring resolution to first typed access.
func (e *Engine) FromTree(y *ir.Node, expectedTag string) (any, error) {
	t, err := e.reg.ResolveRead(expectedTag)
	if err != nil {
		if e.tolerant {
			debug.Warnf("deferring unresolvable tag", "tag", expectedTag)
			return y, nil
		}
		return nil, err
	}
	if y.Tag == "" {
		y.WithTag(expectedTag)
	}
	v, err := node.Wrap(e.reg, y)
	if err != nil {
		return nil, err
	}
	switch t.Kind {
	case registry.ObjectKind:
		if _, ok := v.(*node.Object); !ok {
			return nil, fmt.Errorf("tag %q expects an object, fragment is %s",
				expectedTag, y.Type)
		}
	case registry.ListKind:
		if _, ok := v.(*node.List); !ok {
			return nil, fmt.Errorf("tag %q expects a list, fragment is %s",
				expectedTag, y.Type)
		}
	case registry.ScalarKind:
		if _, ok := v.(*node.Scalar); !ok {
			return nil, fmt.Errorf("tag %q expects a tagged scalar, fragment is %s",
				expectedTag, y.Type)
		}
	}
	return v, nil
}

// ToTree reduces a typed value to its generic form. Typed views contribute
// their underlying tree; raw fragments pass through unchanged, which is
// what lets unrecognized extra values round-trip.
func (e *Engine) ToTree(v any) (*ir.Node, error) {
	switch x := v.(type) {
	case *ir.Node:
		return x, nil
	case *node.Object:
		return x.Tree(), nil
	case *node.List:
		return x.Tree(), nil
	case *node.Scalar:
		return x.Tree(), nil
	case ir.Leaf:
		return ir.FromLeaf(x), nil
	}
	return schema.FromAny(v)
}

// becomeLeaf rewrites y in place as a leaf payload, keeping its identity
// and parent linkage.
func becomeLeaf(y *ir.Node, l ir.Leaf) {
	y.Type = ir.LeafType
	y.Leaf = l
	y.Fields = nil
	y.Values = nil
	y.String = ""
	y.Number = ""
	y.Bool = false
	y.Float64 = nil
	y.Int64 = nil
}

// becomeNode rewrites y in place with the shape of src, keeping parent
// linkage.
func becomeNode(y *ir.Node, src *ir.Node) {
	y.Type = src.Type
	y.Tag = src.Tag
	y.Fields = src.Fields
	y.Values = src.Values
	y.String = src.String
	y.Number = src.Number
	y.Bool = src.Bool
	y.Float64 = src.Float64
	y.Int64 = src.Int64
	y.Leaf = src.Leaf
	for i, f := range y.Fields {
		f.Parent = y
		f.ParentIndex = i
	}
	for i, v := range y.Values {
		v.Parent = y
		v.ParentIndex = i
	}
}
