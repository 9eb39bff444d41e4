package convert

import (
	"errors"
	"testing"

	"github.com/skyarc-format/skyarc/ir"
	"github.com/skyarc-format/skyarc/leaf"
	"github.com/skyarc-format/skyarc/maker"
	"github.com/skyarc-format/skyarc/node"
	"github.com/skyarc-format/skyarc/registry"
	"github.com/skyarc-format/skyarc/schema"
)

const exposureTag = "tag:skyarc.dev:obs/exposure-1.0.0"

func testRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	lib := schema.NewLibrary()
	if _, err := lib.Add([]byte(`
id: asdf://skyarc.dev/schemas/exposure-1.0.0
type: object
properties:
  mode:
    type: string
    enum: [imaging, spectroscopy]
  start:
    tag: ` + leaf.TimePattern + `
  data:
    tag: ` + leaf.QuantityPattern + `
    properties:
      value:
        tag: ` + leaf.NDArrayPattern + `
        ndim: 2
        datatype: float32
      unit:
        enum: [electron]
required: [mode, start, data]
`)); err != nil {
		t.Fatal(err)
	}
	r := registry.New(lib)
	if err := r.Register(&registry.Type{
		Name:    "Exposure",
		Pattern: "tag:skyarc.dev:obs/exposure-1.*",
		Kind:    registry.ObjectKind,
	}); err != nil {
		t.Fatal(err)
	}
	m, err := registry.ParseManifest([]byte(`
id: asdf://skyarc.dev/manifests/datamodels-1.0.0
tags:
- tag_uri: tag:skyarc.dev:obs/exposure-1.0.0
  schema_uri: asdf://skyarc.dev/schemas/exposure-1.0.0
`))
	if err != nil {
		t.Fatal(err)
	}
	r.AddManifest(m)
	if err := leaf.RegisterConverters(r); err != nil {
		t.Fatal(err)
	}
	return r
}

func defaultExposure(t *testing.T, r *registry.Registry) *ir.Node {
	t.Helper()
	sch, err := r.Library().Get("asdf://skyarc.dev/schemas/exposure-1.0.0")
	if err != nil {
		t.Fatal(err)
	}
	tree, err := maker.New(r).Build(sch, nil)
	if err != nil {
		t.Fatal(err)
	}
	return tree.WithTag(exposureTag)
}

func TestRoundTripLaw(t *testing.T) {
	r := testRegistry(t)
	e := New(r)
	tree := defaultExposure(t, r)

	x, err := e.FromTree(tree, exposureTag)
	if err != nil {
		t.Fatal(err)
	}
	obj, ok := x.(*node.Object)
	if !ok {
		t.Fatalf("instance = %T", x)
	}
	out, err := e.ToTree(obj)
	if err != nil {
		t.Fatal(err)
	}
	back, err := e.FromTree(out, exposureTag)
	if err != nil {
		t.Fatal(err)
	}
	if !ir.Equal(obj.Tree(), back.(*node.Object).Tree()) {
		t.Error("round trip changed the instance")
	}
}

func TestPromoteLowerInline(t *testing.T) {
	r := testRegistry(t)
	e := New(r)
	tree := defaultExposure(t, r)

	lowered := tree.Clone()
	if err := e.Lower(lowered, nil); err != nil {
		t.Fatal(err)
	}
	// the lowered form carries no payload values anywhere
	err := lowered.Visit(func(y *ir.Node, isPost bool) (bool, error) {
		if !isPost && y.Type == ir.LeafType {
			return false, errors.New("leaf survived lowering")
		}
		return true, nil
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := e.Promote(lowered, nil); err != nil {
		t.Fatal(err)
	}
	if !ir.Equal(tree, lowered) {
		t.Error("promote(lower(tree)) differs from tree")
	}
}

type memBlocks struct {
	blocks [][]byte
	reads  int
}

func (m *memBlocks) AddBlock(data []byte) int {
	m.blocks = append(m.blocks, data)
	return len(m.blocks) - 1
}

func (m *memBlocks) Block(i int) func() ([]byte, error) {
	return func() ([]byte, error) {
		m.reads++
		return m.blocks[i], nil
	}
}

func TestPromoteLowerBlocked(t *testing.T) {
	r := testRegistry(t)
	e := New(r)
	tree := defaultExposure(t, r)

	blocks := &memBlocks{}
	lowered := tree.Clone()
	if err := e.Lower(lowered, blocks); err != nil {
		t.Fatal(err)
	}
	if len(blocks.blocks) == 0 {
		t.Fatal("no blocks written")
	}
	valueN := ir.Get(ir.Get(lowered, "data"), "value")
	if ir.Get(valueN, "source") == nil {
		t.Fatal("blocked form should reference a block index")
	}

	if err := e.Promote(lowered, blocks); err != nil {
		t.Fatal(err)
	}
	if blocks.reads != 0 {
		t.Fatal("promotion forced block payloads")
	}
	q := ir.Get(lowered, "data").Leaf.(*leaf.Quantity)
	if q.Value.Materialized() {
		t.Fatal("lazy array materialized without access")
	}
	if _, err := q.Value.Data(); err != nil {
		t.Fatal(err)
	}
	if blocks.reads != 1 {
		t.Errorf("reads = %d, want 1", blocks.reads)
	}
	if !ir.Equal(tree, lowered) {
		t.Error("blocked round trip changed the tree")
	}
}

func TestStrictUnknownTag(t *testing.T) {
	r := testRegistry(t)
	e := New(r)
	raw := ir.FromKeyVals(nil).WithTag("tag:skyarc.dev:obs/hologram-1.0.0")
	if _, err := e.FromTree(raw, raw.Tag); !errors.Is(err, registry.ErrUnknownTag) {
		t.Errorf("err = %v, want ErrUnknownTag", err)
	}
	if err := e.Promote(raw.Clone(), nil); !errors.Is(err, registry.ErrUnknownTag) {
		t.Errorf("promote err = %v, want ErrUnknownTag", err)
	}
}

func TestTolerantUnknownTag(t *testing.T) {
	r := testRegistry(t)
	e := New(r).Tolerant()
	raw := ir.FromKeyVals([]ir.KeyVal{
		{Key: "future", Val: ir.FromBool(true)},
	}).WithTag("tag:skyarc.dev:obs/hologram-1.0.0")

	if err := e.Promote(raw, nil); err != nil {
		t.Fatalf("tolerant promote failed: %v", err)
	}
	v, err := e.FromTree(raw, raw.Tag)
	if err != nil {
		t.Fatalf("tolerant read failed: %v", err)
	}
	got, ok := v.(*ir.Node)
	if !ok {
		t.Fatalf("tolerant read = %T, want raw fragment", v)
	}
	if !ir.Equal(got, raw) {
		t.Error("raw fragment was altered")
	}
}

func TestNestedTaggedObjectStaysOpaque(t *testing.T) {
	r := testRegistry(t)
	e := New(r)
	inner := defaultExposure(t, r)
	outer := ir.FromKeyVals([]ir.KeyVal{
		{Key: "first", Val: inner},
	})
	out, err := e.ToTree(outer)
	if err != nil {
		t.Fatal(err)
	}
	got := ir.Get(out, "first")
	if got.Tag != exposureTag {
		t.Errorf("nested tag = %q", got.Tag)
	}
}
