package maker

import (
	"fmt"
	"maps"
	"math/rand"
	"slices"

	"github.com/skyarc-format/skyarc/debug"
	"github.com/skyarc-format/skyarc/ir"
	"github.com/skyarc-format/skyarc/registry"
	"github.com/skyarc-format/skyarc/schema"
)

// Scalar sentinels of the deterministic variant.
const (
	SentinelString = "?"
	SentinelInt    = int64(-999999)
	SentinelFloat  = float64(-999999.0)
)

// Builder synthesizes instances from schemas. A Builder with a nil rand is
// deterministic: building the same schema twice yields equal, never
// aliased, values.
type Builder struct {
	reg   *registry.Registry
	rand  *rand.Rand
	shape []int
}

// New returns a deterministic-default builder.
func New(reg *registry.Registry) *Builder {
	return &Builder{reg: reg}
}

// NewFake returns a randomized-fake builder seeded for reproducibility.
func NewFake(reg *registry.Registry, seed int64) *Builder {
	return &Builder{reg: reg, rand: rand.New(rand.NewSource(seed))}
}

// WithShape returns a builder that targets the given array shape. The shape
// applies to every array-backed leaf built from schemas declaring ndim; a
// shape with fewer dimensions than a schema's ndim fails with ErrShape.
func (b *Builder) WithShape(shape ...int) *Builder {
	cl := *b
	cl.shape = slices.Clone(shape)
	return &cl
}

// Build synthesizes an instance of sch. Overrides are plain Go values:
// map[string]any merges key-by-key into built objects, []any covers array
// indices outright, scalars and ir.Leaf payloads substitute wholesale. A
// nil override builds pure defaults.
func (b *Builder) Build(sch *schema.Schema, overrides any) (*ir.Node, error) {
	if sch == nil {
		if overrides != nil {
			return schema.FromAny(overrides)
		}
		return ir.Null(), nil
	}
	if enum := sch.GetEnum(); len(enum) > 0 && sch.Kind() != schema.Object {
		if overrides != nil {
			return schema.FromAny(overrides)
		}
		pick := enum[0]
		if b.rand != nil && len(enum) > 1 {
			pick = enum[b.rand.Intn(len(enum))]
		}
		return pick.Clone(), nil
	}
	switch k := sch.Kind(); k {
	case schema.Tagged:
		return b.buildTagged(sch, overrides)
	case schema.Object:
		return b.buildObject(sch, overrides)
	case schema.Array:
		return b.buildArray(sch, overrides)
	default:
		return b.buildScalar(k, overrides)
	}
}

func (b *Builder) buildObject(sch *schema.Schema, overrides any) (*ir.Node, error) {
	var ovMap map[string]any
	if overrides != nil {
		switch ov := overrides.(type) {
		case map[string]any:
			ovMap = ov
		case *ir.Node:
			// rebuilding from an existing instance
			m, ok := ov.Any().(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%w: object override node is %s",
					ErrBuild, ov.Type)
			}
			ovMap = m
		default:
			return nil, fmt.Errorf("%w: object override must be a map, got %T",
				ErrBuild, overrides)
		}
	}
	var kvs []ir.KeyVal
	seen := map[string]bool{}
	for _, name := range sch.GetRequired() {
		ovVal, has := ovMap[name]
		p := sch.GetProperty(name)
		var (
			v   *ir.Node
			err error
		)
		switch {
		case p != nil && has:
			v, err = b.Build(p, ovVal)
		case p != nil:
			v, err = b.Build(p, nil)
		case has:
			v, err = schema.FromAny(ovVal)
		default:
			v = ir.Null()
		}
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}
		kvs = append(kvs, ir.KeyVal{Key: name, Val: v})
		seen[name] = true
	}
	// override keys beyond the required set extend the result
	for _, name := range slices.Sorted(maps.Keys(ovMap)) {
		if seen[name] {
			continue
		}
		var (
			v   *ir.Node
			err error
		)
		if p := sch.GetProperty(name); p != nil {
			v, err = b.Build(p, ovMap[name])
		} else {
			v, err = schema.FromAny(ovMap[name])
		}
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}
		kvs = append(kvs, ir.KeyVal{Key: name, Val: v})
	}
	return ir.FromKeyVals(kvs), nil
}

func (b *Builder) buildArray(sch *schema.Schema, overrides any) (*ir.Node, error) {
	var ovSeq []any
	if overrides != nil {
		seq, ok := overrides.([]any)
		if !ok {
			return nil, fmt.Errorf("%w: array override must be a sequence, got %T",
				ErrBuild, overrides)
		}
		ovSeq = seq
	}
	minItems := 0
	if m := sch.GetMinItems(); m != nil {
		minItems = *m
	}
	if tuple := sch.GetTupleItems(); len(tuple) > 0 {
		// override indices win outright; the last positional schema pads
		// the remainder up to minItems
		n := max(minItems, len(tuple), len(ovSeq))
		vals := make([]*ir.Node, 0, n)
		for i := 0; i < n; i++ {
			var (
				v   *ir.Node
				err error
			)
			if i < len(ovSeq) {
				v, err = schema.FromAny(ovSeq[i])
			} else {
				v, err = b.Build(tuple[min(i, len(tuple)-1)], nil)
			}
			if err != nil {
				return nil, fmt.Errorf("item %d: %w", i, err)
			}
			vals = append(vals, v)
		}
		return ir.FromSlice(vals), nil
	}
	if ovSeq != nil {
		return schema.FromAny(ovSeq)
	}
	n := minItems
	if sch.GetMinItems() == nil && b.rand != nil {
		n = b.rand.Intn(2)
	}
	items := sch.GetItems()
	vals := make([]*ir.Node, 0, n)
	for i := 0; i < n; i++ {
		v, err := b.Build(items, nil)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		vals = append(vals, v)
	}
	return ir.FromSlice(vals), nil
}

func (b *Builder) buildScalar(k schema.Kind, overrides any) (*ir.Node, error) {
	if overrides != nil {
		return schema.FromAny(overrides)
	}
	switch k {
	case schema.String:
		if b.rand != nil {
			return ir.FromString(b.fakeString()), nil
		}
		return ir.FromString(SentinelString), nil
	case schema.Integer:
		if b.rand != nil {
			return ir.FromInt(b.rand.Int63n(1000)), nil
		}
		return ir.FromInt(SentinelInt), nil
	case schema.Number:
		if b.rand != nil {
			return ir.FromFloat(b.rand.Float64() * 1000), nil
		}
		return ir.FromFloat(SentinelFloat), nil
	case schema.Boolean:
		if b.rand != nil {
			return ir.FromBool(b.rand.Intn(2) == 1), nil
		}
		return ir.FromBool(false), nil
	default:
		return ir.Null(), nil
	}
}

func (b *Builder) buildTagged(sch *schema.Schema, overrides any) (*ir.Node, error) {
	tag := sch.GetTag()
	switch ov := overrides.(type) {
	case nil:
	case ir.Leaf:
		return ir.FromLeaf(ov.CloneLeaf()), nil
	case *ir.Node:
		return ov.Clone(), nil
	}
	if b.reg == nil {
		return nil, fmt.Errorf("%w: tagged schema %q needs a registry", ErrBuild, tag)
	}
	if conv, ok := b.reg.ConverterForTag(tag); ok {
		if err := b.checkShape(sch); err != nil {
			return nil, err
		}
		if debug.Maker() {
			debug.Debugf("building leaf default", "tag", tag)
		}
		l, err := conv.Default(sch, &registry.LeafDefaults{Shape: b.shape, Rand: b.rand})
		if err != nil {
			return nil, err
		}
		return ir.FromLeaf(l), nil
	}
	t, err := b.reg.ResolveRead(tag)
	if err != nil {
		return nil, err
	}
	sub, err := b.reg.SchemaForType(t)
	if err != nil {
		return nil, err
	}
	node, err := b.Build(sub, overrides)
	if err != nil {
		return nil, err
	}
	if wt, ok := b.reg.WriteTag(t); ok {
		node.WithTag(wt)
	} else {
		node.WithTag(tag)
	}
	return node, nil
}

// checkShape rejects a caller-supplied target shape with fewer dimensions
// than the schema requires.
func (b *Builder) checkShape(sch *schema.Schema) error {
	if b.shape == nil {
		return nil
	}
	ndim := sch.GetNDim()
	if ndim == nil {
		if p := sch.GetProperty("value"); p != nil {
			ndim = p.GetNDim()
		}
	}
	if ndim != nil && len(b.shape) < *ndim {
		return fmt.Errorf("%w: shape %v has %d dimensions, schema requires %d",
			ErrShape, b.shape, len(b.shape), *ndim)
	}
	return nil
}

func (b *Builder) fakeString() string {
	const letters = "abcdefghijklmnopqrstuvwxyz"
	buf := make([]byte, 4+b.rand.Intn(8))
	for i := range buf {
		buf[i] = letters[b.rand.Intn(len(letters))]
	}
	return string(buf)
}
