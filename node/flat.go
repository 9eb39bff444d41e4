package node

import (
	"fmt"

	"github.com/skyarc-format/skyarc/ir"
	"github.com/skyarc-format/skyarc/registry"
)

// FlatItem is one terminal value of a flattened view, addressed by its
// dotted path from the instance root.
type FlatItem struct {
	Path  string
	Value any
}

// FlatItems yields every terminal value of the instance as (path, value)
// pairs. With flattenLists set, list indices join the path ("a.2.b");
// otherwise lists stay intact as single terminal values.
func (o *Object) FlatItems(flattenLists bool) ([]FlatItem, error) {
	var res []FlatItem
	err := flatten(o.reg, o.tree, "", flattenLists, &res)
	return res, err
}

func flatten(reg *registry.Registry, y *ir.Node, prefix string, flattenLists bool, res *[]FlatItem) error {
	switch y.Type {
	case ir.ObjectType:
		for i := range y.Fields {
			path := join(prefix, y.Fields[i].String)
			if err := flatten(reg, y.Values[i], path, flattenLists, res); err != nil {
				return err
			}
		}
		return nil
	case ir.ArrayType:
		if flattenLists {
			for i, elem := range y.Values {
				path := join(prefix, fmt.Sprintf("%d", i))
				if err := flatten(reg, elem, path, flattenLists, res); err != nil {
					return err
				}
			}
			return nil
		}
	}
	v, err := Wrap(reg, y)
	if err != nil {
		return fmt.Errorf("%s: %w", prefix, err)
	}
	*res = append(*res, FlatItem{Path: prefix, Value: v})
	return nil
}

func join(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}
