package ir

import (
	"strconv"
)

// Any converts the node to plain Go values: map[string]any for objects,
// []any for arrays, scalars as themselves, leaf payloads untouched. Field
// order is lost; use this for expression environments and diagnostics, not
// for round-tripping.
func (y *Node) Any() any {
	switch y.Type {
	case NullType:
		return nil
	case BoolType:
		return y.Bool
	case StringType:
		return y.String
	case NumberType:
		if y.Int64 != nil {
			return *y.Int64
		}
		if y.Float64 != nil {
			return *y.Float64
		}
		if f, err := strconv.ParseFloat(y.Number, 64); err == nil {
			return f
		}
		return y.Number
	case ArrayType:
		res := make([]any, len(y.Values))
		for i, v := range y.Values {
			res[i] = v.Any()
		}
		return res
	case ObjectType:
		res := make(map[string]any, len(y.Fields))
		for i := range y.Fields {
			res[y.Fields[i].String] = y.Values[i].Any()
		}
		return res
	case LeafType:
		return y.Leaf
	}
	return nil
}

// AsFloat returns the node's numeric value as a float64 when it has one.
func (y *Node) AsFloat() (float64, bool) {
	if y.Type != NumberType {
		return 0, false
	}
	if y.Float64 != nil {
		return *y.Float64, true
	}
	if y.Int64 != nil {
		return float64(*y.Int64), true
	}
	f, err := strconv.ParseFloat(y.Number, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
