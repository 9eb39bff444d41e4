package maker

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/skyarc-format/skyarc/ir"
	"github.com/skyarc-format/skyarc/leaf"
	"github.com/skyarc-format/skyarc/registry"
	"github.com/skyarc-format/skyarc/schema"
)

func mustParse(t *testing.T, src string) *schema.Schema {
	t.Helper()
	s, err := schema.Parse([]byte(src))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func leafRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	r := registry.New(schema.NewLibrary())
	if err := leaf.RegisterConverters(r); err != nil {
		t.Fatal(err)
	}
	return r
}

func TestEnumDefault(t *testing.T) {
	sch := mustParse(t, `
type: string
enum: [a, b]
`)
	b := New(nil)
	v, err := b.Build(sch, nil)
	if err != nil {
		t.Fatal(err)
	}
	if v.Type != ir.StringType || v.String != "a" {
		t.Errorf("deterministic enum = %v %q", v.Type, v.String)
	}

	fake := NewFake(nil, 7)
	sawB := false
	for i := 0; i < 100; i++ {
		v, err := fake.Build(sch, nil)
		if err != nil {
			t.Fatal(err)
		}
		switch v.String {
		case "a":
		case "b":
			sawB = true
		default:
			t.Fatalf("sampled %q outside the enum", v.String)
		}
	}
	if !sawB {
		t.Error("100 samples never picked the second enum value")
	}
}

func TestPositionalArrayPad(t *testing.T) {
	sch := mustParse(t, `
items:
  - enum: [0]
  - enum: [1]
minItems: 3
`)
	v, err := New(nil).Build(sch, nil)
	if err != nil {
		t.Fatal(err)
	}
	want := ir.FromSlice([]*ir.Node{ir.FromInt(0), ir.FromInt(1), ir.FromInt(1)})
	if !ir.Equal(v, want) {
		t.Errorf("padded array = %v", v.Any())
	}
}

func TestPositionalArrayOverride(t *testing.T) {
	sch := mustParse(t, `
items:
  - enum: [0]
  - enum: [1]
minItems: 3
`)
	v, err := New(nil).Build(sch, []any{9})
	if err != nil {
		t.Fatal(err)
	}
	// index 0 comes from the override, the rest from the pad policy
	want := ir.FromSlice([]*ir.Node{ir.FromInt(9), ir.FromInt(1), ir.FromInt(1)})
	if !ir.Equal(v, want) {
		t.Errorf("array = %v", v.Any())
	}
}

func TestObjectRequiredSubset(t *testing.T) {
	sch := mustParse(t, `
properties:
  a:
    type: string
  b:
    type: integer
required: [a]
`)
	b := New(nil)
	v, err := b.Build(sch, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := ir.Get(v, "a"); got == nil || got.String != SentinelString {
		t.Errorf("a = %v", got)
	}
	if ir.Get(v, "b") != nil {
		t.Error("non-required field b was built without an override")
	}

	v, err = b.Build(sch, map[string]any{"a": "x"})
	if err != nil {
		t.Fatal(err)
	}
	if got := ir.Get(v, "a"); got == nil || got.String != "x" {
		t.Errorf("a = %v", got)
	}
}

func TestOverrideMergeRecursive(t *testing.T) {
	sch := mustParse(t, `
type: object
properties:
  meta:
    type: object
    properties:
      origin:
        type: string
      telescope:
        type: string
    required: [origin, telescope]
required: [meta]
`)
	v, err := New(nil).Build(sch, map[string]any{
		"meta": map[string]any{"origin": "STSCI"},
	})
	if err != nil {
		t.Fatal(err)
	}
	meta := ir.Get(v, "meta")
	if got := ir.Get(meta, "origin"); got.String != "STSCI" {
		t.Errorf("origin = %q", got.String)
	}
	// sibling keys the override does not mention keep their defaults
	if got := ir.Get(meta, "telescope"); got.String != SentinelString {
		t.Errorf("telescope = %q", got.String)
	}
}

func TestBuildIdempotentNoAliasing(t *testing.T) {
	sch := mustParse(t, `
type: object
properties:
  names:
    type: array
    items:
      type: string
    minItems: 2
required: [names]
`)
	b := New(nil)
	v1, err := b.Build(sch, nil)
	if err != nil {
		t.Fatal(err)
	}
	v2, err := b.Build(sch, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !ir.Equal(v1, v2) {
		t.Fatal("two deterministic builds differ")
	}
	ir.Get(v1, "names").Values[0].String = "mutated"
	if ir.Equal(v1, v2) {
		t.Error("mutating one build leaked into the other")
	}
}

func TestTaggedLeafDefault(t *testing.T) {
	r := leafRegistry(t)
	sch := mustParse(t, `
tag: `+leaf.NDArrayPattern+`
ndim: 3
datatype: uint16
`)
	v, err := New(r).Build(sch, nil)
	if err != nil {
		t.Fatal(err)
	}
	a, ok := v.Leaf.(*leaf.NDArray)
	if !ok {
		t.Fatalf("leaf = %T", v.Leaf)
	}
	if a.NDim() != 3 || a.Datatype != "uint16" {
		t.Errorf("array = %s %v", a.Datatype, a.Shape)
	}
}

func TestShapeMismatch(t *testing.T) {
	r := leafRegistry(t)
	sch := mustParse(t, `
tag: `+leaf.NDArrayPattern+`
ndim: 3
datatype: float32
`)
	_, err := New(r).WithShape(4, 5).Build(sch, nil)
	if !errors.Is(err, ErrShape) {
		t.Fatalf("err = %v, want ErrShape", err)
	}
	v, err := New(r).WithShape(4, 5, 6).Build(sch, nil)
	if err != nil {
		t.Fatal(err)
	}
	a := v.Leaf.(*leaf.NDArray)
	if diff := cmp.Diff([]int{4, 5, 6}, a.Shape); diff != "" {
		t.Errorf("shape mismatch (-want +got):\n%s", diff)
	}
}

func TestRebuildFromNode(t *testing.T) {
	sch := mustParse(t, `
type: object
properties:
  name:
    type: string
  count:
    type: integer
required: [name, count]
`)
	b := New(nil)
	existing := ir.FromKeyVals([]ir.KeyVal{
		{Key: "name", Val: ir.FromString("prior")},
	})
	got, err := b.Build(sch, existing)
	if err != nil {
		t.Fatal(err)
	}
	if ir.Get(got, "name").String != "prior" {
		t.Errorf("name = %q", ir.Get(got, "name").String)
	}
	// fields the node does not carry fall back to sentinels
	if *ir.Get(got, "count").Int64 != SentinelInt {
		t.Errorf("count = %d", *ir.Get(got, "count").Int64)
	}
}

func TestMergeOverrides(t *testing.T) {
	base := map[string]any{
		"meta": map[string]any{"origin": "STSCI", "telescope": "SKYARC"},
		"mode": "imaging",
	}
	extra := map[string]any{
		"meta": map[string]any{"origin": "IPAC"},
	}
	merged, err := MergeOverrides(base, extra)
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]any{
		"meta": map[string]any{"origin": "IPAC", "telescope": "SKYARC"},
		"mode": "imaging",
	}
	if diff := cmp.Diff(want, merged); diff != "" {
		t.Errorf("merge mismatch (-want +got):\n%s", diff)
	}
	if base["meta"].(map[string]any)["origin"] != "STSCI" {
		t.Error("merge mutated the base layer")
	}
}
