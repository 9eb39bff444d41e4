package container

import (
	"fmt"
	"strconv"

	"github.com/goccy/go-yaml"

	"github.com/skyarc-format/skyarc/ir"
)

// Tags ride inside the document under reserved keys, so the tree survives
// any YAML implementation untouched.
const (
	tagKey   = "$tag"
	valueKey = "$value"
	itemsKey = "$items"
)

// toYAML converts a lowered tree to the value handed to the YAML encoder.
// Leaf payloads must have been lowered first.
func toYAML(y *ir.Node) (any, error) {
	switch y.Type {
	case ir.NullType:
		return wrapTag(y.Tag, nil), nil
	case ir.BoolType:
		return wrapTag(y.Tag, y.Bool), nil
	case ir.StringType:
		return wrapTag(y.Tag, y.String), nil
	case ir.NumberType:
		switch {
		case y.Int64 != nil:
			return wrapTag(y.Tag, *y.Int64), nil
		case y.Float64 != nil:
			return wrapTag(y.Tag, *y.Float64), nil
		default:
			if f, err := strconv.ParseFloat(y.Number, 64); err == nil {
				return wrapTag(y.Tag, f), nil
			}
			return wrapTag(y.Tag, y.Number), nil
		}
	case ir.ArrayType:
		seq := make([]any, len(y.Values))
		for i, v := range y.Values {
			ev, err := toYAML(v)
			if err != nil {
				return nil, err
			}
			seq[i] = ev
		}
		if y.Tag == "" {
			return seq, nil
		}
		return yaml.MapSlice{
			{Key: tagKey, Value: y.Tag},
			{Key: itemsKey, Value: seq},
		}, nil
	case ir.ObjectType:
		ms := yaml.MapSlice{}
		if y.Tag != "" {
			ms = append(ms, yaml.MapItem{Key: tagKey, Value: y.Tag})
		}
		for i := range y.Fields {
			fv, err := toYAML(y.Values[i])
			if err != nil {
				return nil, err
			}
			ms = append(ms, yaml.MapItem{Key: y.Fields[i].String, Value: fv})
		}
		return ms, nil
	case ir.LeafType:
		return nil, fmt.Errorf("leaf payload %q was not lowered before writing", y.Tag)
	}
	return nil, fmt.Errorf("cannot encode node type %s", y.Type)
}

func wrapTag(tag string, v any) any {
	if tag == "" {
		return v
	}
	return yaml.MapSlice{
		{Key: tagKey, Value: tag},
		{Key: valueKey, Value: v},
	}
}

// fromYAML rebuilds the generic tree from a decoded YAML value.
func fromYAML(v any) (*ir.Node, error) {
	switch x := v.(type) {
	case nil:
		return ir.Null(), nil
	case bool:
		return ir.FromBool(x), nil
	case string:
		return ir.FromString(x), nil
	case int:
		return ir.FromInt(int64(x)), nil
	case int64:
		return ir.FromInt(x), nil
	case uint64:
		return ir.FromInt(int64(x)), nil
	case float64:
		return ir.FromFloat(x), nil
	case []any:
		vals := make([]*ir.Node, 0, len(x))
		for _, e := range x {
			node, err := fromYAML(e)
			if err != nil {
				return nil, err
			}
			vals = append(vals, node)
		}
		return ir.FromSlice(vals), nil
	case yaml.MapSlice:
		return fromYAMLMap(x)
	}
	return nil, fmt.Errorf("cannot decode value %T", v)
}

func fromYAMLMap(ms yaml.MapSlice) (*ir.Node, error) {
	tag := ""
	var tagged any
	hasTagged := false
	kvs := make([]ir.KeyVal, 0, len(ms))
	for _, item := range ms {
		key, ok := item.Key.(string)
		if !ok {
			return nil, fmt.Errorf("object key must be a string, got %T", item.Key)
		}
		switch key {
		case tagKey:
			s, ok := item.Value.(string)
			if !ok {
				return nil, fmt.Errorf("%s must be a string, got %T", tagKey, item.Value)
			}
			tag = s
		case valueKey, itemsKey:
			tagged = item.Value
			hasTagged = true
		default:
			node, err := fromYAML(item.Value)
			if err != nil {
				return nil, err
			}
			kvs = append(kvs, ir.KeyVal{Key: key, Val: node})
		}
	}
	if hasTagged {
		node, err := fromYAML(tagged)
		if err != nil {
			return nil, err
		}
		return node.WithTag(tag), nil
	}
	return ir.FromKeyVals(kvs).WithTag(tag), nil
}
