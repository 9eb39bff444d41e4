package node

import (
	"errors"
	"testing"

	"github.com/skyarc-format/skyarc/ir"
	"github.com/skyarc-format/skyarc/registry"
	"github.com/skyarc-format/skyarc/schema"
	"github.com/skyarc-format/skyarc/validate"
)

const (
	programTag     = "tag:skyarc.dev:obs/program-1.0.0"
	programPattern = "tag:skyarc.dev:obs/program-1.*"
)

func testRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	lib := schema.NewLibrary()
	if _, err := lib.Add([]byte(`
id: asdf://skyarc.dev/schemas/program-1.0.0
type: object
properties:
  title:
    type: string
  mode:
    type: string
    enum: [imaging, spectroscopy]
  range:
    type: integer
    minimum: 0
  meta:
    type: object
    properties:
      origin:
        type: string
required: [title]
`)); err != nil {
		t.Fatal(err)
	}
	r := registry.New(lib)
	if err := r.Register(&registry.Type{
		Name:         "Program",
		Pattern:      programPattern,
		Kind:         registry.ObjectKind,
		FieldAliases: map[string]string{"range_": "range"},
	}); err != nil {
		t.Fatal(err)
	}
	m, err := registry.ParseManifest([]byte(`
id: asdf://skyarc.dev/manifests/datamodels-1.0.0
tags:
- tag_uri: tag:skyarc.dev:obs/program-1.0.0
  schema_uri: asdf://skyarc.dev/schemas/program-1.0.0
`))
	if err != nil {
		t.Fatal(err)
	}
	r.AddManifest(m)
	return r
}

func testProgram(t *testing.T) *Object {
	t.Helper()
	o, err := NewObject(testRegistry(t), programTag)
	if err != nil {
		t.Fatal(err)
	}
	if err := o.Set("title", "cal program"); err != nil {
		t.Fatal(err)
	}
	return o
}

func TestGetSetRoundTrip(t *testing.T) {
	o := testProgram(t)
	v, err := o.Get("title")
	if err != nil {
		t.Fatal(err)
	}
	if v != "cal program" {
		t.Errorf("title = %v", v)
	}
	if _, err := o.Get("absent"); !errors.Is(err, ErrNoField) {
		t.Errorf("err = %v, want ErrNoField", err)
	}
}

func TestSetValidates(t *testing.T) {
	o := testProgram(t)
	err := o.Set("mode", "guiding")
	iss, ok := validate.AsIssues(err)
	if !ok {
		t.Fatalf("err = %v, want Issues", err)
	}
	if len(iss) == 0 {
		t.Fatal("no issues reported")
	}
	if o.Has("mode") {
		t.Error("failed assignment mutated the instance")
	}
	if err := o.Set("mode", "imaging"); err != nil {
		t.Fatal(err)
	}
}

func TestAliasTransparency(t *testing.T) {
	o := testProgram(t)
	if err := o.Set("range_", 5); err != nil {
		t.Fatal(err)
	}
	// the tree stores the schema name, never the alias
	if got := ir.Get(o.Tree(), "range"); got == nil || *got.Int64 != 5 {
		t.Fatalf("tree range = %v", got)
	}
	if ir.Get(o.Tree(), "range_") != nil {
		t.Error("alias name leaked into the tree")
	}
	v, err := o.Get("range")
	if err != nil {
		t.Fatal(err)
	}
	if v != int64(5) {
		t.Errorf("range = %v", v)
	}
	if !o.Has("range_") || !o.Has("range") {
		t.Error("membership should see both names")
	}
}

func TestExtraFieldsPreserved(t *testing.T) {
	o := testProgram(t)
	if err := o.Set("x_pipeline", map[string]any{"step": "dark"}); err != nil {
		t.Fatal(err)
	}
	if !o.Has("x_pipeline") {
		t.Error("extra field not present")
	}
	v, err := o.Get("x_pipeline")
	if err != nil {
		t.Fatal(err)
	}
	sub, ok := v.(*Object)
	if !ok {
		t.Fatalf("extra field = %T", v)
	}
	got, err := sub.Get("step")
	if err != nil {
		t.Fatal(err)
	}
	if got != "dark" {
		t.Errorf("step = %v", got)
	}
}

func TestRelaxWindow(t *testing.T) {
	o := testProgram(t)
	o.Relax()
	if err := o.Set("mode", "guiding"); err != nil {
		t.Fatalf("relaxed assignment failed: %v", err)
	}
	err := o.Unrelax(true)
	if _, ok := validate.AsIssues(err); !ok {
		t.Fatalf("exit err = %v, want Issues", err)
	}
}

func TestRelaxExitWithoutRevalidate(t *testing.T) {
	o := testProgram(t)
	o.Relax()
	if err := o.Set("mode", "guiding"); err != nil {
		t.Fatal(err)
	}
	if err := o.Unrelax(false); err != nil {
		t.Fatalf("exit without revalidate reported: %v", err)
	}
	// checking is re-armed for future assignments only
	if err := o.Set("mode", "parallel"); err == nil {
		t.Error("strict mode not restored after exit")
	}
}

func TestRelaxNesting(t *testing.T) {
	o := testProgram(t)
	o.Relax()
	o.Relax()
	if err := o.Set("mode", "guiding"); err != nil {
		t.Fatal(err)
	}
	// inner exit must not revalidate
	if err := o.Unrelax(true); err != nil {
		t.Fatalf("inner exit reported: %v", err)
	}
	if err := o.Set("mode", "still-relaxed"); err != nil {
		t.Fatalf("window closed early: %v", err)
	}
	if err := o.Unrelax(true); err == nil {
		t.Error("outer exit did not revalidate")
	}
}

func TestUnrelaxUnbalanced(t *testing.T) {
	o := testProgram(t)
	if err := o.Unrelax(true); !errors.Is(err, ErrRelax) {
		t.Errorf("err = %v, want ErrRelax", err)
	}
}

func TestDeepCopyIndependence(t *testing.T) {
	o := testProgram(t)
	if err := o.Set("meta", map[string]any{"origin": "STSCI"}); err != nil {
		t.Fatal(err)
	}
	cl := o.DeepCopy()
	sub, err := cl.Get("meta")
	if err != nil {
		t.Fatal(err)
	}
	if err := sub.(*Object).Set("origin", "IPAC"); err != nil {
		t.Fatal(err)
	}
	orig, err := o.Get("meta")
	if err != nil {
		t.Fatal(err)
	}
	got, err := orig.(*Object).Get("origin")
	if err != nil {
		t.Fatal(err)
	}
	if got != "STSCI" {
		t.Error("deep copy shares nested structure")
	}
}

func TestShallowCopySemantics(t *testing.T) {
	o := testProgram(t)
	if err := o.Set("meta", map[string]any{"origin": "STSCI"}); err != nil {
		t.Fatal(err)
	}
	cl := o.ShallowCopy()
	// assigning the copy's own slot never touches the original
	if err := cl.Set("title", "changed"); err != nil {
		t.Fatal(err)
	}
	v, err := o.Get("title")
	if err != nil {
		t.Fatal(err)
	}
	if v != "cal program" {
		t.Error("shallow copy assignment leaked into the original")
	}
	// nested nodes are shared
	sub, err := cl.Get("meta")
	if err != nil {
		t.Fatal(err)
	}
	if err := sub.(*Object).Set("origin", "IPAC"); err != nil {
		t.Fatal(err)
	}
	orig, err := o.Get("meta")
	if err != nil {
		t.Fatal(err)
	}
	got, err := orig.(*Object).Get("origin")
	if err != nil {
		t.Fatal(err)
	}
	if got != "IPAC" {
		t.Error("shallow copy should share nested nodes")
	}
}

func TestFlatItems(t *testing.T) {
	o := testProgram(t)
	if err := o.Set("meta", map[string]any{"origin": "STSCI"}); err != nil {
		t.Fatal(err)
	}
	if err := o.Set("filters", []any{"F158", "F213"}); err != nil {
		t.Fatal(err)
	}
	items, err := o.FlatItems(true)
	if err != nil {
		t.Fatal(err)
	}
	got := map[string]any{}
	for _, it := range items {
		got[it.Path] = it.Value
	}
	if got["meta.origin"] != "STSCI" || got["filters.1"] != "F213" {
		t.Errorf("flat items = %v", got)
	}

	items, err = o.FlatItems(false)
	if err != nil {
		t.Fatal(err)
	}
	got = map[string]any{}
	for _, it := range items {
		got[it.Path] = it.Value
	}
	if _, ok := got["filters"].(*List); !ok {
		t.Errorf("filters = %T, want *List", got["filters"])
	}
}

func TestUnknownNestedTagFailsAtAccess(t *testing.T) {
	o := testProgram(t)
	o.Relax()
	raw := ir.FromKeyVals([]ir.KeyVal{
		{Key: "future", Val: ir.FromBool(true)},
	}).WithTag("tag:skyarc.dev:obs/hologram-1.0.0")
	if err := o.Set("extra", raw); err != nil {
		t.Fatal(err)
	}
	if err := o.Unrelax(false); err != nil {
		t.Fatal(err)
	}
	// the raw fragment is stored; promotion fails only when accessed
	if _, err := o.GetRaw("extra"); err != nil {
		t.Fatal(err)
	}
	if _, err := o.Get("extra"); !errors.Is(err, registry.ErrUnknownTag) {
		t.Errorf("err = %v, want ErrUnknownTag", err)
	}
}

func TestTaggedScalar(t *testing.T) {
	s, err := NewScalar("tag:skyarc.dev:obs/epoch-1.0.0", "J2000")
	if err != nil {
		t.Fatal(err)
	}
	if s.Value() != "J2000" || s.Tag() != "tag:skyarc.dev:obs/epoch-1.0.0" {
		t.Errorf("scalar = %v %q", s.Value(), s.Tag())
	}
	v, err := Wrap(nil, s.Tree())
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := v.(*Scalar); !ok {
		t.Errorf("wrapped = %T, want *Scalar", v)
	}
}

func TestListMutationValidates(t *testing.T) {
	r := testRegistry(t)
	l, err := NewList(r, "")
	if err != nil {
		t.Fatal(err)
	}
	if err := l.Append("F158"); err != nil {
		t.Fatal(err)
	}
	v, err := l.At(0)
	if err != nil {
		t.Fatal(err)
	}
	if v != "F158" {
		t.Errorf("at(0) = %v", v)
	}
}
