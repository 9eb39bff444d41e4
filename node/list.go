package node

import (
	"fmt"

	"github.com/skyarc-format/skyarc/ir"
	"github.com/skyarc-format/skyarc/registry"
	"github.com/skyarc-format/skyarc/schema"
)

// List is a typed sequence view over a generic tree fragment.
type List struct {
	typ *registry.Type
	tag string

	tree *ir.Node
	reg  *registry.Registry
	sch  *schema.Schema

	relax relaxState
}

// NewList builds an empty typed list for the given tag. An empty tag makes
// a plain untagged sequence.
func NewList(reg *registry.Registry, tag string) (*List, error) {
	tree := ir.FromSlice(nil).WithTag(tag)
	return wrapList(reg, tree)
}

// Tag returns the tag fixed at construction, empty for plain sequences.
func (l *List) Tag() string {
	return l.tag
}

// Tree returns the underlying generic tree fragment, shared with the view.
func (l *List) Tree() *ir.Node {
	return l.tree
}

// Len returns the element count.
func (l *List) Len() int {
	return len(l.tree.Values)
}

// At returns the element at index i as a typed value.
func (l *List) At(i int) (any, error) {
	if i < 0 || i >= len(l.tree.Values) {
		return nil, fmt.Errorf("index %d out of range [0,%d)", i, len(l.tree.Values))
	}
	return Wrap(l.reg, l.tree.Values[i])
}

// itemSchema returns the declared schema of element i, nil when unknown.
func (l *List) itemSchema(i int) *schema.Schema {
	if l.sch == nil {
		return nil
	}
	if it := l.sch.GetItems(); it != nil {
		return it
	}
	if tuple := l.sch.GetTupleItems(); len(tuple) > 0 {
		return tuple[min(i, len(tuple)-1)]
	}
	return nil
}

// SetAt replaces the element at index i, validated against the declared
// element schema unless the instance is relaxed.
func (l *List) SetAt(i int, v any) error {
	if i < 0 || i >= len(l.tree.Values) {
		return fmt.Errorf("index %d out of range [0,%d)", i, len(l.tree.Values))
	}
	y, err := toNode(v)
	if err != nil {
		return fmt.Errorf("index %d: %w", i, err)
	}
	if !l.relax.relaxed() {
		if err := validateFragment(l.reg, y, l.itemSchema(i)); err != nil {
			return fmt.Errorf("index %d: %w", i, err)
		}
	}
	y.Parent = l.tree
	y.ParentIndex = i
	l.tree.Values[i] = y
	return nil
}

// Append adds an element at the end, validated like SetAt.
func (l *List) Append(v any) error {
	y, err := toNode(v)
	if err != nil {
		return err
	}
	i := len(l.tree.Values)
	if !l.relax.relaxed() {
		if err := validateFragment(l.reg, y, l.itemSchema(i)); err != nil {
			return err
		}
	}
	y.Parent = l.tree
	y.ParentIndex = i
	l.tree.Values = append(l.tree.Values, y)
	return nil
}

// Relax enters a relaxed window, composing as a reference count.
func (l *List) Relax() {
	l.relax.enter()
}

// Unrelax exits the innermost relaxed window, revalidating on the
// outermost exit when asked.
func (l *List) Unrelax(revalidate bool) error {
	if err := l.relax.exit(); err != nil {
		return err
	}
	if l.relax.relaxed() || !revalidate {
		return nil
	}
	return l.Validate()
}

// Validate re-checks the whole sequence against its schema.
func (l *List) Validate() error {
	return validateFragment(l.reg, l.tree, l.sch)
}

// DeepCopy clones the sequence and every element.
func (l *List) DeepCopy() *List {
	return &List{typ: l.typ, tag: l.tag, tree: l.tree.Clone(), reg: l.reg, sch: l.sch}
}
