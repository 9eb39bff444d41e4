package model

import (
	"fmt"
	"path/filepath"

	"github.com/skyarc-format/skyarc/container"
	"github.com/skyarc-format/skyarc/convert"
	"github.com/skyarc-format/skyarc/ir"
	"github.com/skyarc-format/skyarc/maker"
	"github.com/skyarc-format/skyarc/node"
	"github.com/skyarc-format/skyarc/registry"
	"github.com/skyarc-format/skyarc/validate"
)

// RootKey is the well-known document key the model tree lives under.
const RootKey = "skyarc"

// Model wraps one typed root object together with the container handle it
// was read from, when any.
type Model struct {
	obj *node.Object
	reg *registry.Registry
	eng *convert.Engine

	handle *container.Handle
	owns   bool
}

// Open reads the container at path into a typed model. The model owns the
// handle and closes it on Close.
func Open(reg *registry.Registry, path string) (*Model, error) {
	h, err := container.Open(path)
	if err != nil {
		return nil, err
	}
	m, err := FromHandle(reg, h)
	if err != nil {
		h.Close()
		return nil, err
	}
	m.owns = true
	return m, nil
}

// FromHandle builds a typed model over an already-open handle. Ownership
// of the handle stays with the caller; Close on the model leaves it open.
func FromHandle(reg *registry.Registry, h *container.Handle) (*Model, error) {
	doc := h.Tree()
	tree := ir.Get(doc, RootKey)
	if tree == nil {
		return nil, fmt.Errorf("%s: document has no %q root key", h.Path(), RootKey)
	}
	eng := convert.New(reg)
	if !validate.StrictRead() {
		eng = eng.Tolerant()
	}
	if err := eng.Promote(tree, h); err != nil {
		return nil, fmt.Errorf("%s: %w", h.Path(), err)
	}
	if tree.Tag == "" {
		return nil, fmt.Errorf("%s: root object carries no tag", h.Path())
	}
	obj, err := node.Wrap(reg, tree)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", h.Path(), err)
	}
	root, ok := obj.(*node.Object)
	if !ok {
		return nil, fmt.Errorf("%s: root is %T, want an object", h.Path(), obj)
	}
	return &Model{obj: root, reg: reg, eng: eng, handle: h}, nil
}

// MakeOption adjusts default synthesis.
type MakeOption func(*makeConfig)

type makeConfig struct {
	shape []int
	fake  bool
	seed  int64
}

// WithShape targets array-backed payloads at the given shape.
func WithShape(shape ...int) MakeOption {
	return func(c *makeConfig) { c.shape = shape }
}

// WithFake switches to the randomized-fake builder, seeded for
// reproducibility.
func WithFake(seed int64) MakeOption {
	return func(c *makeConfig) { c.fake = true; c.seed = seed }
}

// MakeDefault synthesizes a minimal valid model of the named registered
// type, with overrides merged in.
func MakeDefault(reg *registry.Registry, typeName string, overrides map[string]any, opts ...MakeOption) (*Model, error) {
	cfg := &makeConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	t, ok := reg.TypeByName(typeName)
	if !ok {
		return nil, fmt.Errorf("%w: no type named %q", registry.ErrUnknownTag, typeName)
	}
	sch, err := reg.SchemaForType(t)
	if err != nil {
		return nil, err
	}
	b := maker.New(reg)
	if cfg.fake {
		b = maker.NewFake(reg, cfg.seed)
	}
	if cfg.shape != nil {
		b = b.WithShape(cfg.shape...)
	}
	tree, err := b.Build(sch, overrides)
	if err != nil {
		return nil, err
	}
	tag, ok := reg.WriteTag(t)
	if !ok {
		return nil, fmt.Errorf("no manifest tag for type %q", typeName)
	}
	tree.WithTag(tag)
	obj, err := node.Wrap(reg, tree)
	if err != nil {
		return nil, err
	}
	return &Model{obj: obj.(*node.Object), reg: reg, eng: convert.New(reg)}, nil
}

// Object returns the typed root.
func (m *Model) Object() *node.Object {
	return m.obj
}

// Tag returns the root tag.
func (m *Model) Tag() string {
	return m.obj.Tag()
}

// Validate re-checks the whole model against its schema.
func (m *Model) Validate() error {
	return m.obj.Validate()
}

// FlatItems yields every terminal value as (path, value) pairs, with paths
// prefixed by the document root key.
func (m *Model) FlatItems(flattenLists bool) ([]node.FlatItem, error) {
	items, err := m.obj.FlatItems(flattenLists)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].Path = RootKey + "." + items[i].Path
	}
	return items, nil
}

// Clone copies the model. A deep clone shares nothing with the original;
// a shallow clone shares nested nodes. Either way the clone never owns the
// original's handle.
func (m *Model) Clone(deep bool) *Model {
	obj := m.obj.ShallowCopy()
	if deep {
		obj = m.obj.DeepCopy()
	}
	return &Model{obj: obj, reg: m.reg, eng: m.eng, handle: m.handle}
}

// Save validates the model and writes it to path atomically. The written
// document's meta.filename is synced to the destination name for the
// duration of the write only, and a validation failure leaves the
// destination untouched.
func (m *Model) Save(path string) error {
	restore := m.syncFilename(filepath.Base(path))
	defer restore()
	if err := m.Validate(); err != nil {
		return err
	}
	lowered := m.obj.Tree().Clone()
	blocks := &container.BlockBuffer{}
	if err := m.eng.Lower(lowered, blocks); err != nil {
		return err
	}
	doc := ir.FromKeyVals([]ir.KeyVal{{Key: RootKey, Val: lowered}})
	return container.Write(path, doc, blocks)
}

// syncFilename records the destination filename under meta.filename when
// the model carries a meta block. The returned func puts the previous
// value back, so the rewrite is scoped to the write.
func (m *Model) syncFilename(name string) func() {
	raw, err := m.obj.GetRaw("meta")
	if err != nil || raw.Type != ir.ObjectType {
		return func() {}
	}
	prev := ir.Get(raw, "filename")
	ir.Set(raw, "filename", ir.FromString(name))
	return func() {
		if prev == nil {
			ir.Delete(raw, "filename")
			return
		}
		ir.Set(raw, "filename", prev)
	}
}

// Close releases the container handle if this model opened it; handles
// passed in by the caller stay open. Close is idempotent.
func (m *Model) Close() error {
	if !m.owns || m.handle == nil {
		return nil
	}
	h := m.handle
	m.handle = nil
	return h.Close()
}
