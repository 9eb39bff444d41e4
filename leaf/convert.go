package leaf

import (
	"encoding/base64"
	"fmt"

	"github.com/skyarc-format/skyarc/ir"
	"github.com/skyarc-format/skyarc/registry"
	"github.com/skyarc-format/skyarc/schema"
)

// RegisterConverters registers all leaf-kind converters with r.
func RegisterConverters(r *registry.Registry) error {
	for _, c := range []registry.LeafConverter{
		&NDArrayConverter{},
		&QuantityConverter{},
		&TimeConverter{},
		&WCSConverter{},
		&TableConverter{},
	} {
		if err := r.RegisterConverter(c); err != nil {
			return err
		}
	}
	return nil
}

// NDArrayConverter serializes NDArray payloads. The inline form carries
// the buffer base64-encoded; the block form stores it as a container
// block and records the block index under "source".
type NDArrayConverter struct{}

func (c *NDArrayConverter) Pattern() string {
	return NDArrayPattern
}

func (c *NDArrayConverter) ToTree(l ir.Leaf) (*ir.Node, error) {
	a, ok := l.(*NDArray)
	if !ok {
		return nil, fmt.Errorf("ndarray converter got %T", l)
	}
	data, err := a.Data()
	if err != nil {
		return nil, err
	}
	return arrayNode(a, ir.KeyVal{
		Key: "data", Val: ir.FromString(base64.StdEncoding.EncodeToString(data)),
	}), nil
}

func (c *NDArrayConverter) ToTreeBlocks(l ir.Leaf, w registry.BlockWriter) (*ir.Node, error) {
	a, ok := l.(*NDArray)
	if !ok {
		return nil, fmt.Errorf("ndarray converter got %T", l)
	}
	data, err := a.Data()
	if err != nil {
		return nil, err
	}
	return arrayNode(a, ir.KeyVal{
		Key: "source", Val: ir.FromInt(int64(w.AddBlock(data))),
	}), nil
}

func arrayNode(a *NDArray, payload ir.KeyVal) *ir.Node {
	shape := make([]*ir.Node, len(a.Shape))
	for i, d := range a.Shape {
		shape[i] = ir.FromInt(int64(d))
	}
	return ir.FromKeyVals([]ir.KeyVal{
		{Key: "datatype", Val: ir.FromString(a.Datatype)},
		{Key: "byteorder", Val: ir.FromString("little")},
		{Key: "shape", Val: ir.FromSlice(shape)},
		payload,
	}).WithTag(NDArrayTag)
}

func (c *NDArrayConverter) FromTree(node *ir.Node, tag string) (ir.Leaf, error) {
	datatype, shape, err := arrayHeader(node)
	if err != nil {
		return nil, err
	}
	dataN := ir.Get(node, "data")
	if dataN == nil {
		return nil, fmt.Errorf("ndarray node has no inline data; block form needs a block reader")
	}
	data, err := base64.StdEncoding.DecodeString(dataN.String)
	if err != nil {
		return nil, fmt.Errorf("ndarray inline data: %w", err)
	}
	return NewNDArray(datatype, shape, data)
}

func (c *NDArrayConverter) FromTreeBlocks(node *ir.Node, tag string, r registry.BlockReader) (ir.Leaf, error) {
	srcN := ir.Get(node, "source")
	if srcN == nil {
		return c.FromTree(node, tag)
	}
	datatype, shape, err := arrayHeader(node)
	if err != nil {
		return nil, err
	}
	if srcN.Int64 == nil {
		return nil, fmt.Errorf("ndarray source must be a block index")
	}
	return NewLazyNDArray(datatype, shape, r.Block(int(*srcN.Int64))), nil
}

func arrayHeader(node *ir.Node) (string, []int, error) {
	if node.Type != ir.ObjectType {
		return "", nil, fmt.Errorf("ndarray node must be an object, got %s", node.Type)
	}
	dtN := ir.Get(node, "datatype")
	if dtN == nil {
		return "", nil, fmt.Errorf("ndarray node has no datatype")
	}
	shapeN := ir.Get(node, "shape")
	if shapeN == nil || shapeN.Type != ir.ArrayType {
		return "", nil, fmt.Errorf("ndarray node has no shape")
	}
	shape := make([]int, len(shapeN.Values))
	for i, v := range shapeN.Values {
		if v.Int64 == nil {
			return "", nil, fmt.Errorf("ndarray shape[%d] is not an integer", i)
		}
		shape[i] = int(*v.Int64)
	}
	return dtN.String, shape, nil
}

// Default synthesizes an array shaped per the schema's ndim, zero in every
// dimension unless opts.Shape overrides the leading dimensions.
func (c *NDArrayConverter) Default(sch *schema.Schema, opts *registry.LeafDefaults) (ir.Leaf, error) {
	datatype := "float32"
	ndim := 0
	if sch != nil {
		if dt := sch.GetDatatype(); dt != "" {
			datatype = dt
		}
		if n := sch.GetNDim(); n != nil {
			ndim = *n
		}
	}
	shape := make([]int, ndim)
	if opts != nil && opts.Shape != nil {
		for i := range shape {
			if i == len(opts.Shape) {
				break
			}
			shape[i] = opts.Shape[i]
		}
	}
	return Zeros(datatype, shape)
}

// QuantityConverter serializes Quantity payloads; the value array nests as
// its own tagged leaf.
type QuantityConverter struct{}

func (c *QuantityConverter) Pattern() string {
	return QuantityPattern
}

func (c *QuantityConverter) ToTree(l ir.Leaf) (*ir.Node, error) {
	q, ok := l.(*Quantity)
	if !ok {
		return nil, fmt.Errorf("quantity converter got %T", l)
	}
	return ir.FromKeyVals([]ir.KeyVal{
		{Key: "value", Val: ir.FromLeaf(q.Value)},
		{Key: "unit", Val: ir.FromString(q.Unit)},
	}).WithTag(QuantityTag), nil
}

func (c *QuantityConverter) FromTree(node *ir.Node, tag string) (ir.Leaf, error) {
	if node.Type != ir.ObjectType {
		return nil, fmt.Errorf("quantity node must be an object, got %s", node.Type)
	}
	unitN := ir.Get(node, "unit")
	if unitN == nil {
		return nil, fmt.Errorf("quantity node has no unit")
	}
	valueN := ir.Get(node, "value")
	if valueN == nil {
		return nil, fmt.Errorf("quantity node has no value")
	}
	value, err := leafArray(valueN)
	if err != nil {
		return nil, err
	}
	return &Quantity{Value: value, Unit: unitN.String}, nil
}

func leafArray(node *ir.Node) (*NDArray, error) {
	if node.Type == ir.LeafType {
		a, ok := node.Leaf.(*NDArray)
		if !ok {
			return nil, fmt.Errorf("expected ndarray leaf, got %T", node.Leaf)
		}
		return a, nil
	}
	l, err := (&NDArrayConverter{}).FromTree(node, NDArrayTag)
	if err != nil {
		return nil, err
	}
	return l.(*NDArray), nil
}

// Default synthesizes a quantity: the unit property's first enum value
// (falling back to "dn") and an array built from the value property. The
// randomized-fake variant widens every dimension to at least 2 so the
// value stays an array under downstream validation.
func (c *QuantityConverter) Default(sch *schema.Schema, opts *registry.LeafDefaults) (ir.Leaf, error) {
	unit := "dn"
	var valueSchema *schema.Schema
	if sch != nil {
		if unitSchema := sch.GetProperty("unit"); unitSchema != nil {
			if enum := unitSchema.GetEnum(); len(enum) > 0 {
				unit = enum[0].String
			}
		}
		valueSchema = sch.GetProperty("value")
	}
	l, err := (&NDArrayConverter{}).Default(valueSchema, opts)
	if err != nil {
		return nil, err
	}
	value := l.(*NDArray)
	if opts != nil && opts.Rand != nil && value.Len() < 2 {
		ndim := max(value.NDim(), 1)
		shape := make([]int, ndim)
		for i := range shape {
			shape[i] = 2
		}
		value, err = Zeros(value.Datatype, shape)
		if err != nil {
			return nil, err
		}
	}
	return &Quantity{Value: value, Unit: unit}, nil
}

// TimeConverter serializes Time payloads as isot strings.
type TimeConverter struct{}

func (c *TimeConverter) Pattern() string {
	return TimePattern
}

func (c *TimeConverter) ToTree(l ir.Leaf) (*ir.Node, error) {
	t, ok := l.(*Time)
	if !ok {
		return nil, fmt.Errorf("time converter got %T", l)
	}
	return ir.FromString(t.Isot()).WithTag(TimeTag), nil
}

func (c *TimeConverter) FromTree(node *ir.Node, tag string) (ir.Leaf, error) {
	if node.Type != ir.StringType {
		return nil, fmt.Errorf("time node must be a string, got %s", node.Type)
	}
	return ParseTime(node.String)
}

func (c *TimeConverter) Default(sch *schema.Schema, opts *registry.LeafDefaults) (ir.Leaf, error) {
	t, err := ParseTime("2020-01-01T00:00:00.0")
	if err != nil {
		return nil, err
	}
	return t, nil
}

// WCSConverter serializes coordinate transforms, keeping the pipeline
// steps opaque.
type WCSConverter struct{}

func (c *WCSConverter) Pattern() string {
	return WCSPattern
}

func (c *WCSConverter) ToTree(l ir.Leaf) (*ir.Node, error) {
	w, ok := l.(*WCS)
	if !ok {
		return nil, fmt.Errorf("wcs converter got %T", l)
	}
	steps := w.Steps
	if steps == nil {
		steps = ir.FromSlice(nil)
	}
	return ir.FromKeyVals([]ir.KeyVal{
		{Key: "name", Val: ir.FromString(w.Name)},
		{Key: "steps", Val: steps.Clone()},
	}).WithTag(WCSTag), nil
}

func (c *WCSConverter) FromTree(node *ir.Node, tag string) (ir.Leaf, error) {
	if node.Type != ir.ObjectType {
		return nil, fmt.Errorf("wcs node must be an object, got %s", node.Type)
	}
	w := &WCS{}
	if nameN := ir.Get(node, "name"); nameN != nil {
		w.Name = nameN.String
	}
	if stepsN := ir.Get(node, "steps"); stepsN != nil {
		w.Steps = stepsN.Clone()
	}
	return w, nil
}

func (c *WCSConverter) Default(sch *schema.Schema, opts *registry.LeafDefaults) (ir.Leaf, error) {
	return &WCS{
		Name: "default",
		Steps: ir.FromSlice([]*ir.Node{
			ir.FromKeyVals([]ir.KeyVal{
				{Key: "frame", Val: ir.FromString("detector")},
			}),
			ir.FromKeyVals([]ir.KeyVal{
				{Key: "frame", Val: ir.FromString("icrs")},
			}),
		}),
	}, nil
}

// TableConverter serializes tabular payloads; column data nests as tagged
// array leaves.
type TableConverter struct{}

func (c *TableConverter) Pattern() string {
	return TablePattern
}

func (c *TableConverter) ToTree(l ir.Leaf) (*ir.Node, error) {
	t, ok := l.(*Table)
	if !ok {
		return nil, fmt.Errorf("table converter got %T", l)
	}
	cols := make([]*ir.Node, len(t.Columns))
	for i, col := range t.Columns {
		kvs := []ir.KeyVal{
			{Key: "name", Val: ir.FromString(col.Name)},
		}
		if col.Unit != "" {
			kvs = append(kvs, ir.KeyVal{Key: "unit", Val: ir.FromString(col.Unit)})
		}
		if col.Data != nil {
			kvs = append(kvs, ir.KeyVal{Key: "data", Val: ir.FromLeaf(col.Data)})
		}
		cols[i] = ir.FromKeyVals(kvs)
	}
	return ir.FromKeyVals([]ir.KeyVal{
		{Key: "columns", Val: ir.FromSlice(cols)},
	}).WithTag(TableTag), nil
}

func (c *TableConverter) FromTree(node *ir.Node, tag string) (ir.Leaf, error) {
	if node.Type != ir.ObjectType {
		return nil, fmt.Errorf("table node must be an object, got %s", node.Type)
	}
	t := &Table{}
	colsN := ir.Get(node, "columns")
	if colsN == nil {
		return t, nil
	}
	for i, colN := range colsN.Values {
		col := Column{}
		if nameN := ir.Get(colN, "name"); nameN != nil {
			col.Name = nameN.String
		}
		if unitN := ir.Get(colN, "unit"); unitN != nil {
			col.Unit = unitN.String
		}
		if dataN := ir.Get(colN, "data"); dataN != nil {
			data, err := leafArray(dataN)
			if err != nil {
				return nil, fmt.Errorf("table column %d: %w", i, err)
			}
			col.Data = data
		}
		t.Columns = append(t.Columns, col)
	}
	return t, nil
}

func (c *TableConverter) Default(sch *schema.Schema, opts *registry.LeafDefaults) (ir.Leaf, error) {
	return &Table{}, nil
}
