package node

import (
	"fmt"
	"slices"

	"github.com/skyarc-format/skyarc/ir"
	"github.com/skyarc-format/skyarc/registry"
	"github.com/skyarc-format/skyarc/schema"
)

// Object is a typed mapping view over a generic tree fragment. The tag is
// fixed at construction; mutation goes through Set and is validated unless
// the instance sits inside a relaxed window.
type Object struct {
	typ *registry.Type
	tag string

	tree *ir.Node
	reg  *registry.Registry
	sch  *schema.Schema

	relax relaxState
}

// NewObject builds an empty typed object for the given tag. The tag must
// resolve in reg.
func NewObject(reg *registry.Registry, tag string) (*Object, error) {
	tree := ir.FromKeyVals(nil).WithTag(tag)
	return wrapObject(reg, tree)
}

// Tag returns the tag fixed at construction, empty for plain mappings.
func (o *Object) Tag() string {
	return o.tag
}

// Type returns the registered node type, nil for plain mappings.
func (o *Object) Type() *registry.Type {
	return o.typ
}

// Schema returns the schema the instance validates against, nil when none
// is bound.
func (o *Object) Schema() *schema.Schema {
	return o.sch
}

// Tree returns the underlying generic tree fragment, shared with the view.
func (o *Object) Tree() *ir.Node {
	return o.tree
}

// schemaName maps an access name to the name stored in the tree, looking
// through keyword-collision aliases both ways.
func (o *Object) schemaName(name string) string {
	if o.typ == nil {
		return name
	}
	return o.typ.SchemaName(name)
}

// Get returns the named field as a typed value. Nested tagged subtrees are
// resolved on access; an unresolvable tag fails here rather than at read
// time.
func (o *Object) Get(name string) (any, error) {
	y := ir.Get(o.tree, o.schemaName(name))
	if y == nil {
		return nil, fmt.Errorf("%w: %q", ErrNoField, name)
	}
	return Wrap(o.reg, y)
}

// GetRaw returns the named field's tree fragment without promotion.
func (o *Object) GetRaw(name string) (*ir.Node, error) {
	y := ir.Get(o.tree, o.schemaName(name))
	if y == nil {
		return nil, fmt.Errorf("%w: %q", ErrNoField, name)
	}
	return y, nil
}

// Has reports whether the field is present, declared or extra.
func (o *Object) Has(name string) bool {
	return ir.Get(o.tree, o.schemaName(name)) != nil
}

// Set assigns the named field. Outside a relaxed window the value is
// checked against the field's declared schema before the tree is touched;
// a failed check leaves the instance unchanged.
func (o *Object) Set(name string, v any) error {
	y, err := toNode(v)
	if err != nil {
		return fmt.Errorf("field %q: %w", name, err)
	}
	schemaName := o.schemaName(name)
	if !o.relax.relaxed() && o.sch != nil {
		if p := o.sch.GetProperty(schemaName); p != nil {
			if err := validateFragment(o.reg, y, p); err != nil {
				return fmt.Errorf("field %q: %w", name, err)
			}
		}
	}
	ir.Set(o.tree, schemaName, y)
	return nil
}

// Delete removes the named field, reporting whether it was present.
func (o *Object) Delete(name string) bool {
	return ir.Delete(o.tree, o.schemaName(name))
}

// Keys returns the field names in tree order, under their schema names.
func (o *Object) Keys() []string {
	res := make([]string, len(o.tree.Fields))
	for i, f := range o.tree.Fields {
		res[i] = f.String
	}
	return res
}

// Len returns the number of fields.
func (o *Object) Len() int {
	return len(o.tree.Fields)
}

// Relax enters a relaxed window: assignments bypass checking until the
// matching Unrelax. Nested windows compose as a reference count.
func (o *Object) Relax() {
	o.relax.enter()
}

// Unrelax exits the innermost relaxed window. When the outermost window
// exits with revalidate set, the whole instance is re-checked and the
// failure surfaces here; with revalidate unset the instance may be left
// invalid, with checking re-armed for future assignments only.
func (o *Object) Unrelax(revalidate bool) error {
	if err := o.relax.exit(); err != nil {
		return err
	}
	if o.relax.relaxed() || !revalidate {
		return nil
	}
	return o.Validate()
}

// Validate re-checks the whole instance against its schema.
func (o *Object) Validate() error {
	return validateFragment(o.reg, o.tree, o.sch)
}

// DeepCopy clones the instance and every nested value; the copy shares
// nothing with the original.
func (o *Object) DeepCopy() *Object {
	return &Object{
		typ:  o.typ,
		tag:  o.tag,
		tree: o.tree.Clone(),
		reg:  o.reg,
		sch:  o.sch,
	}
}

// ShallowCopy copies the top-level field table but shares nested values.
// Assigning a field on the copy never touches the original; mutating a
// shared nested node through either view is visible in both.
func (o *Object) ShallowCopy() *Object {
	tree := &ir.Node{
		Type:   ir.ObjectType,
		Tag:    o.tree.Tag,
		Fields: slices.Clone(o.tree.Fields),
		Values: slices.Clone(o.tree.Values),
	}
	return &Object{typ: o.typ, tag: o.tag, tree: tree, reg: o.reg, sch: o.sch}
}
