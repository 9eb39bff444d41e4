package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/skyarc-format/skyarc/leaf"
	"github.com/skyarc-format/skyarc/node"
)

// renderValue formats a flattened terminal value on one line. Array
// payloads are summarized rather than materialized.
func renderValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return strconv.Quote(x)
	case *leaf.NDArray:
		return fmt.Sprintf("ndarray(%s, shape=%v)", x.Datatype, x.Shape)
	case *leaf.Quantity:
		if x.Value == nil {
			return fmt.Sprintf("quantity(%s)", x.Unit)
		}
		return fmt.Sprintf("quantity(%s, %s, shape=%v)", x.Unit, x.Value.Datatype, x.Value.Shape)
	case *leaf.Time:
		return "time(" + x.Isot() + ")"
	case *leaf.Table:
		names := make([]string, len(x.Columns))
		for i, c := range x.Columns {
			names[i] = c.Name
		}
		return "table(" + strings.Join(names, ", ") + ")"
	case *leaf.WCS:
		return "wcs(" + x.Name + ")"
	case *node.Scalar:
		return renderValue(x.Value()) + "  " + x.Tag()
	case *node.List:
		parts := make([]string, x.Len())
		for i := 0; i < x.Len(); i++ {
			e, err := x.At(i)
			if err != nil {
				parts[i] = "?"
				continue
			}
			parts[i] = renderValue(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}
	return fmt.Sprint(v)
}
