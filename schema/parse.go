package schema

import (
	"fmt"
	"maps"
	"slices"

	"github.com/goccy/go-yaml"

	"github.com/skyarc-format/skyarc/ir"
)

// Parse parses one schema document. Property order follows the document.
func Parse(data []byte) (*Schema, error) {
	var doc any
	if err := yaml.UnmarshalWithOptions(data, &doc, yaml.UseOrderedMap()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSchemaParse, err)
	}
	s, err := fromDoc(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSchemaParse, err)
	}
	return s, nil
}

func fromDoc(doc any) (*Schema, error) {
	ms, ok := doc.(yaml.MapSlice)
	if !ok {
		return nil, fmt.Errorf("schema fragment must be a mapping, got %T", doc)
	}
	s := &Schema{}
	for _, item := range ms {
		key, ok := item.Key.(string)
		if !ok {
			return nil, fmt.Errorf("schema key must be a string, got %T", item.Key)
		}
		if err := s.setKeyword(key, item.Value); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Schema) setKeyword(key string, val any) error {
	var err error
	switch key {
	case "id", "$id":
		s.ID, err = asString(key, val)
	case "title":
		s.Title, err = asString(key, val)
	case "type":
		var name string
		if name, err = asString(key, val); err == nil {
			s.typ, err = kindFromTypeName(name)
		}
	case "properties":
		err = s.setProperties(val)
	case "required":
		s.Required, err = asStringSlice(key, val)
	case "items":
		err = s.setItems(val)
	case "minItems":
		s.MinItems, err = asIntPtr(key, val)
	case "maxItems":
		s.MaxItems, err = asIntPtr(key, val)
	case "enum":
		err = s.setEnum(val)
	case "tag":
		s.Tag, err = asString(key, val)
	case "pattern":
		s.Pattern, err = asString(key, val)
	case "check":
		s.Check, err = asString(key, val)
	case "minimum":
		s.Minimum, err = asFloatPtr(key, val)
	case "maximum":
		s.Maximum, err = asFloatPtr(key, val)
	case "ndim":
		s.NDim, err = asIntPtr(key, val)
	case "datatype":
		s.Datatype, err = asString(key, val)
	case "allOf":
		s.AllOf, err = asSchemaSlice(key, val)
	case "anyOf":
		s.AnyOf, err = asSchemaSlice(key, val)
	case "archive_catalog":
		err = s.setArchive(val)
	default:
		// unknown keywords are permitted and ignored, mirroring the
		// forward-compatibility rule for instance data
	}
	return err
}

func (s *Schema) setProperties(val any) error {
	ms, ok := val.(yaml.MapSlice)
	if !ok {
		return fmt.Errorf("properties must be a mapping, got %T", val)
	}
	s.Properties = make([]Property, 0, len(ms))
	for _, item := range ms {
		name, ok := item.Key.(string)
		if !ok {
			return fmt.Errorf("property name must be a string, got %T", item.Key)
		}
		sub, err := fromDoc(item.Value)
		if err != nil {
			return fmt.Errorf("property %q: %w", name, err)
		}
		s.Properties = append(s.Properties, Property{Name: name, Schema: sub})
	}
	return nil
}

func (s *Schema) setItems(val any) error {
	if seq, ok := val.([]any); ok {
		s.TupleItems = make([]*Schema, 0, len(seq))
		for i, v := range seq {
			sub, err := fromDoc(v)
			if err != nil {
				return fmt.Errorf("items[%d]: %w", i, err)
			}
			s.TupleItems = append(s.TupleItems, sub)
		}
		return nil
	}
	sub, err := fromDoc(val)
	if err != nil {
		return fmt.Errorf("items: %w", err)
	}
	s.Items = sub
	return nil
}

func (s *Schema) setEnum(val any) error {
	seq, ok := val.([]any)
	if !ok {
		return fmt.Errorf("enum must be a sequence, got %T", val)
	}
	s.Enum = make([]*ir.Node, 0, len(seq))
	for i, v := range seq {
		node, err := FromAny(v)
		if err != nil {
			return fmt.Errorf("enum[%d]: %w", i, err)
		}
		s.Enum = append(s.Enum, node)
	}
	return nil
}

func (s *Schema) setArchive(val any) error {
	ms, ok := val.(yaml.MapSlice)
	if !ok {
		return fmt.Errorf("archive_catalog must be a mapping, got %T", val)
	}
	entry := &ArchiveEntry{}
	for _, item := range ms {
		key, _ := item.Key.(string)
		switch key {
		case "datatype":
			v, err := asString(key, item.Value)
			if err != nil {
				return err
			}
			entry.Datatype = v
		case "origin":
			v, err := asString(key, item.Value)
			if err != nil {
				return err
			}
			entry.Origin = v
		case "destination":
			v, err := asStringSlice(key, item.Value)
			if err != nil {
				return err
			}
			entry.Destination = v
		}
	}
	s.Archive = entry
	return nil
}

func asSchemaSlice(key string, val any) ([]*Schema, error) {
	seq, ok := val.([]any)
	if !ok {
		return nil, fmt.Errorf("%s must be a sequence, got %T", key, val)
	}
	res := make([]*Schema, 0, len(seq))
	for i, v := range seq {
		sub, err := fromDoc(v)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", key, i, err)
		}
		res = append(res, sub)
	}
	return res, nil
}

func asString(key string, val any) (string, error) {
	s, ok := val.(string)
	if !ok {
		return "", fmt.Errorf("%s must be a string, got %T", key, val)
	}
	return s, nil
}

func asStringSlice(key string, val any) ([]string, error) {
	seq, ok := val.([]any)
	if !ok {
		return nil, fmt.Errorf("%s must be a sequence, got %T", key, val)
	}
	res := make([]string, 0, len(seq))
	for i, v := range seq {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%s[%d] must be a string, got %T", key, i, v)
		}
		res = append(res, s)
	}
	return res, nil
}

func asIntPtr(key string, val any) (*int, error) {
	switch x := val.(type) {
	case int:
		return &x, nil
	case int64:
		v := int(x)
		return &v, nil
	case uint64:
		v := int(x)
		return &v, nil
	}
	return nil, fmt.Errorf("%s must be an integer, got %T", key, val)
}

func asFloatPtr(key string, val any) (*float64, error) {
	switch x := val.(type) {
	case float64:
		return &x, nil
	case int:
		v := float64(x)
		return &v, nil
	case int64:
		v := float64(x)
		return &v, nil
	case uint64:
		v := float64(x)
		return &v, nil
	}
	return nil, fmt.Errorf("%s must be a number, got %T", key, val)
}

// FromAny converts a decoded YAML value into a generic tree node.
func FromAny(v any) (*ir.Node, error) {
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
			node, err := FromAny(e)
			if err != nil {
				return nil, err
			}
			vals = append(vals, node)
		}
		return ir.FromSlice(vals), nil
	case yaml.MapSlice:
		kvs := make([]ir.KeyVal, 0, len(x))
		for _, item := range x {
			key, ok := item.Key.(string)
			if !ok {
				return nil, fmt.Errorf("object key must be a string, got %T", item.Key)
			}
			node, err := FromAny(item.Value)
			if err != nil {
				return nil, err
			}
			kvs = append(kvs, ir.KeyVal{Key: key, Val: node})
		}
		return ir.FromKeyVals(kvs), nil
	case map[string]any:
		kvs := make([]ir.KeyVal, 0, len(x))
		for _, key := range slices.Sorted(maps.Keys(x)) {
			node, err := FromAny(x[key])
			if err != nil {
				return nil, err
			}
			kvs = append(kvs, ir.KeyVal{Key: key, Val: node})
		}
		return ir.FromKeyVals(kvs), nil
	case ir.Leaf:
		return ir.FromLeaf(x.CloneLeaf()), nil
	case *ir.Node:
		return x.Clone(), nil
	}
	return nil, fmt.Errorf("unsupported value %T", v)
}
