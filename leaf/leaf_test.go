package leaf

import (
	"testing"

	"github.com/skyarc-format/skyarc/ir"
	"github.com/skyarc-format/skyarc/registry"
	"github.com/skyarc-format/skyarc/schema"
)

func TestNDArrayRoundTrip(t *testing.T) {
	a, err := NewNDArray("int16", []int{2, 3}, []byte{1, 0, 2, 0, 3, 0, 4, 0, 5, 0, 6, 0})
	if err != nil {
		t.Fatal(err)
	}
	conv := &NDArrayConverter{}
	node, err := conv.ToTree(a)
	if err != nil {
		t.Fatal(err)
	}
	if node.Tag != NDArrayTag {
		t.Errorf("tag = %q", node.Tag)
	}
	back, err := conv.FromTree(node, NDArrayTag)
	if err != nil {
		t.Fatal(err)
	}
	if !a.EqualLeaf(back) {
		t.Error("round trip changed the array")
	}
}

func TestNDArrayLazy(t *testing.T) {
	loads := 0
	a := NewLazyNDArray("uint8", []int{4}, func() ([]byte, error) {
		loads++
		return []byte{9, 8, 7, 6}, nil
	})
	if a.Materialized() {
		t.Fatal("lazy array claims to be materialized")
	}
	if loads != 0 {
		t.Fatal("constructing a lazy array forced the payload")
	}
	data, err := a.Data()
	if err != nil {
		t.Fatal(err)
	}
	if data[0] != 9 {
		t.Errorf("data = %v", data)
	}
	if _, err := a.Data(); err != nil {
		t.Fatal(err)
	}
	if loads != 1 {
		t.Errorf("loader ran %d times, want once", loads)
	}
}

func TestNDArrayCloneIndependence(t *testing.T) {
	a, err := Zeros("uint8", []int{2})
	if err != nil {
		t.Fatal(err)
	}
	cl := a.CloneLeaf().(*NDArray)
	data, _ := cl.Data()
	data[0] = 0xff
	orig, _ := a.Data()
	if orig[0] != 0 {
		t.Error("clone shares its buffer with the original")
	}
}

func TestQuantityRoundTrip(t *testing.T) {
	value, _ := Zeros("float32", []int{2, 2})
	q := &Quantity{Value: value, Unit: "electron"}
	conv := &QuantityConverter{}
	node, err := conv.ToTree(q)
	if err != nil {
		t.Fatal(err)
	}
	back, err := conv.FromTree(node, QuantityTag)
	if err != nil {
		t.Fatal(err)
	}
	if !q.EqualLeaf(back) {
		t.Error("round trip changed the quantity")
	}
}

func TestQuantityCloneWithoutValue(t *testing.T) {
	q := &Quantity{Unit: "dn"}
	cl := q.CloneLeaf().(*Quantity)
	if cl.Value != nil || cl.Unit != "dn" {
		t.Errorf("clone = %+v", cl)
	}
	if !q.EqualLeaf(cl) {
		t.Error("clone differs from original")
	}
	filled := &Quantity{Unit: "dn"}
	filled.Value, _ = Zeros("uint8", []int{2})
	if q.EqualLeaf(filled) || filled.EqualLeaf(q) {
		t.Error("value-less quantity equals filled quantity")
	}
}

func TestTimeRoundTrip(t *testing.T) {
	tm, err := ParseTime("2027-03-14T01:59:26.535")
	if err != nil {
		t.Fatal(err)
	}
	conv := &TimeConverter{}
	node, err := conv.ToTree(tm)
	if err != nil {
		t.Fatal(err)
	}
	if node.Type != ir.StringType || node.String != "2027-03-14T01:59:26.535" {
		t.Errorf("node = %v %q", node.Type, node.String)
	}
	back, err := conv.FromTree(node, TimeTag)
	if err != nil {
		t.Fatal(err)
	}
	if !tm.EqualLeaf(back) {
		t.Error("round trip changed the time")
	}
}

func TestTableRoundTrip(t *testing.T) {
	col, _ := NewNDArray("int32", []int{2}, []byte{1, 0, 0, 0, 2, 0, 0, 0})
	tbl := &Table{Columns: []Column{{Name: "flux", Unit: "dn", Data: col}}}
	conv := &TableConverter{}
	node, err := conv.ToTree(tbl)
	if err != nil {
		t.Fatal(err)
	}
	back, err := conv.FromTree(node, TableTag)
	if err != nil {
		t.Fatal(err)
	}
	if !tbl.EqualLeaf(back) {
		t.Error("round trip changed the table")
	}
}

func TestWCSTypeIdentityEquality(t *testing.T) {
	a := ir.FromLeaf(&WCS{Name: "a"})
	b := ir.FromLeaf(&WCS{Name: "b"})
	// WCS has no meaningful equality: type identity only
	if !ir.Equal(a, b) {
		t.Error("two WCS values should compare equal by type identity")
	}
}

func TestNDArrayDefaultShape(t *testing.T) {
	sch, err := schema.Parse([]byte("tag: " + NDArrayPattern + "\nndim: 3\ndatatype: uint16"))
	if err != nil {
		t.Fatal(err)
	}
	conv := &NDArrayConverter{}

	l, err := conv.Default(sch, nil)
	if err != nil {
		t.Fatal(err)
	}
	a := l.(*NDArray)
	if a.NDim() != 3 || a.Len() != 0 || a.Datatype != "uint16" {
		t.Errorf("default array = %s %v", a.Datatype, a.Shape)
	}

	l, err = conv.Default(sch, &registry.LeafDefaults{Shape: []int{4, 5, 6}})
	if err != nil {
		t.Fatal(err)
	}
	a = l.(*NDArray)
	if a.Shape[0] != 4 || a.Shape[1] != 5 || a.Shape[2] != 6 {
		t.Errorf("shaped array = %v", a.Shape)
	}
}

func TestQuantityDefaultUnit(t *testing.T) {
	sch, err := schema.Parse([]byte(`
tag: ` + QuantityPattern + `
properties:
  value:
    tag: ` + NDArrayPattern + `
    ndim: 2
    datatype: float32
  unit:
    enum: [electron]
`))
	if err != nil {
		t.Fatal(err)
	}
	conv := &QuantityConverter{}
	l, err := conv.Default(sch, nil)
	if err != nil {
		t.Fatal(err)
	}
	q := l.(*Quantity)
	if q.Unit != "electron" {
		t.Errorf("unit = %q", q.Unit)
	}
	if q.Value.NDim() != 2 {
		t.Errorf("value ndim = %d", q.Value.NDim())
	}
}
