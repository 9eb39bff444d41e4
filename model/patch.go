package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strconv"

	jsonpatch "github.com/evanphx/json-patch"

	"github.com/skyarc-format/skyarc/ir"
)

// ApplyPatch applies an RFC 6902 JSON patch to the model inside a relaxed
// window: the whole patched document is adopted at once and revalidated on
// exit, so a patch that breaks the schema is rejected and the model keeps
// its previous state. Leaf payloads (arrays, quantities, times) are opaque
// to the patch: they are nulled out for the duration and reattached at the
// path they occupied, so a patch can delete or replace them but not edit
// or relocate their contents. Nested tags ride along the same way and are
// reattached wherever the subtree kind is unchanged.
func (m *Model) ApplyPatch(patchJSON []byte) error {
	p, err := jsonpatch.DecodePatch(patchJSON)
	if err != nil {
		return fmt.Errorf("decoding patch: %w", err)
	}

	leaves := map[string]ir.Leaf{}
	tags := map[string]taggedAt{}
	docJSON, err := json.Marshal(stripLeaves(m.obj.Tree(), "", leaves, tags))
	if err != nil {
		return err
	}
	patched, err := p.Apply(docJSON)
	if err != nil {
		return fmt.Errorf("applying patch: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(patched))
	dec.UseNumber()
	var decoded any
	if err := dec.Decode(&decoded); err != nil {
		return err
	}
	tree, err := fromJSON(decoded)
	if err != nil {
		return err
	}
	if tree.Type != ir.ObjectType {
		return fmt.Errorf("patched document is %s, want an object", tree.Type)
	}
	for path, l := range leaves {
		n, err := tree.GetPath(path)
		if err != nil || n == nil || n.Type != ir.NullType {
			continue
		}
		n.Type = ir.LeafType
		n.Leaf = l
		n.Tag = l.LeafTag()
	}
	for path, ta := range tags {
		n, err := tree.GetPath(path)
		if err != nil || n == nil || n.Type != ta.typ {
			continue
		}
		n.Tag = ta.tag
	}

	backup := m.obj.Tree().Clone()
	if err := m.adopt(tree); err != nil {
		if restoreErr := m.adoptUnchecked(backup); restoreErr != nil {
			return fmt.Errorf("%w (restore also failed: %v)", err, restoreErr)
		}
		return err
	}
	return nil
}

// adopt replaces the model's fields with tree's inside a relaxed window,
// revalidating on exit.
func (m *Model) adopt(tree *ir.Node) error {
	o := m.obj
	o.Relax()
	for _, k := range o.Keys() {
		o.Delete(k)
	}
	for i := range tree.Fields {
		if err := o.Set(tree.Fields[i].String, tree.Values[i]); err != nil {
			o.Unrelax(false)
			return err
		}
	}
	return o.Unrelax(true)
}

func (m *Model) adoptUnchecked(tree *ir.Node) error {
	o := m.obj
	o.Relax()
	for _, k := range o.Keys() {
		o.Delete(k)
	}
	for i := range tree.Fields {
		if err := o.Set(tree.Fields[i].String, tree.Values[i]); err != nil {
			o.Unrelax(false)
			return err
		}
	}
	return o.Unrelax(false)
}

// taggedAt remembers a subtree's tag and kind so the tag can be
// reattached after the JSON round trip, which has no place to carry it.
type taggedAt struct {
	tag string
	typ ir.Type
}

// stripLeaves converts the tree to JSON-encodable values, nulling out leaf
// payloads and recording them, plus every nested tag, by path for
// reinsertion after the patch.
func stripLeaves(y *ir.Node, path string, leaves map[string]ir.Leaf, tags map[string]taggedAt) any {
	if y.Tag != "" && y.Type != ir.LeafType && path != "" {
		tags[path] = taggedAt{tag: y.Tag, typ: y.Type}
	}
	switch y.Type {
	case ir.NullType:
		return nil
	case ir.BoolType:
		return y.Bool
	case ir.StringType:
		return y.String
	case ir.NumberType:
		if y.Int64 != nil {
			return *y.Int64
		}
		if f, ok := y.AsFloat(); ok {
			return f
		}
		return y.Number
	case ir.LeafType:
		leaves[path] = y.Leaf
		return nil
	case ir.ArrayType:
		res := make([]any, len(y.Values))
		for i, v := range y.Values {
			res[i] = stripLeaves(v, path+"["+strconv.Itoa(i)+"]", leaves, tags)
		}
		return res
	case ir.ObjectType:
		res := orderedMap{keys: make([]string, 0, len(y.Fields))}
		res.vals = make(map[string]any, len(y.Fields))
		for i := range y.Fields {
			name := y.Fields[i].String
			sub := name
			if path != "" {
				sub = path + "." + name
			}
			res.keys = append(res.keys, name)
			res.vals[name] = stripLeaves(y.Values[i], sub, leaves, tags)
		}
		return res
	}
	return nil
}

// orderedMap marshals object fields in their tree order.
type orderedMap struct {
	keys []string
	vals map[string]any
}

func (o orderedMap) MarshalJSON() ([]byte, error) {
	buf := []byte{'{'}
	for i, k := range o.keys {
		if i > 0 {
			buf = append(buf, ',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(o.vals[k])
		if err != nil {
			return nil, err
		}
		buf = append(buf, kb...)
		buf = append(buf, ':')
		buf = append(buf, vb...)
	}
	return append(buf, '}'), nil
}

// fromJSON rebuilds a tree from a decoded JSON value. Object keys come
// back sorted; json.Number keeps integers integral.
func fromJSON(v any) (*ir.Node, error) {
	switch x := v.(type) {
	case nil:
		return ir.Null(), nil
	case bool:
		return ir.FromBool(x), nil
	case string:
		return ir.FromString(x), nil
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return ir.FromInt(i), nil
		}
		f, err := x.Float64()
		if err != nil {
			return nil, err
		}
		return ir.FromFloat(f), nil
	case []any:
		vals := make([]*ir.Node, 0, len(x))
		for _, e := range x {
			n, err := fromJSON(e)
			if err != nil {
				return nil, err
			}
			vals = append(vals, n)
		}
		return ir.FromSlice(vals), nil
	case map[string]any:
		kvs := make([]ir.KeyVal, 0, len(x))
		for _, k := range slices.Sorted(maps.Keys(x)) {
			n, err := fromJSON(x[k])
			if err != nil {
				return nil, err
			}
			kvs = append(kvs, ir.KeyVal{Key: k, Val: n})
		}
		return ir.FromKeyVals(kvs), nil
	}
	return nil, fmt.Errorf("cannot decode value %T", v)
}
