package ir

import (
	"fmt"
	"strconv"
	"strings"
)

// Path returns the dotted path of this node's position in the tree.
//
// Examples:
//   - Root node → ""
//   - Object field "a" → "a"
//   - Array element at index 0 → "[0]"
//   - Nested "a.b[2].c" → object a, field b, index 2, field c
func (node *Node) Path() string {
	if node.Parent == nil {
		return ""
	}
	switch node.Parent.Type {
	case ObjectType:
		prefix := node.Parent.Path()
		if prefix == "" {
			return node.ParentField
		}
		return prefix + "." + node.ParentField

	case ArrayType:
		return node.Parent.Path() + "[" + strconv.Itoa(node.ParentIndex) + "]"

	default:
		panic("parent but not in container")
	}
}

// GetPath navigates the tree using a dotted path with optional [i] index
// segments. A nil result with nil error means the path does not exist.
func (node *Node) GetPath(path string) (*Node, error) {
	if path == "" {
		return node, nil
	}
	res := node
	for _, seg := range splitPath(path) {
		if seg.index >= 0 {
			if res.Type != ArrayType {
				return nil, fmt.Errorf("expected array at %q, got %s", seg.text, res.Type)
			}
			if seg.index >= len(res.Values) {
				return nil, fmt.Errorf("index out of bounds %d (len %d)", seg.index, len(res.Values))
			}
			res = res.Values[seg.index]
			continue
		}
		if res.Type != ObjectType {
			return nil, fmt.Errorf("expected object at %q, got %s", seg.text, res.Type)
		}
		next := Get(res, seg.text)
		if next == nil {
			return nil, nil
		}
		res = next
	}
	return res, nil
}

type pathSeg struct {
	text  string
	index int
}

func splitPath(path string) []pathSeg {
	var segs []pathSeg
	for _, part := range strings.Split(path, ".") {
		for {
			open := strings.IndexByte(part, '[')
			if open < 0 {
				if part != "" {
					segs = append(segs, pathSeg{text: part, index: -1})
				}
				break
			}
			if open > 0 {
				segs = append(segs, pathSeg{text: part[:open], index: -1})
			}
			close_ := strings.IndexByte(part, ']')
			if close_ < 0 {
				segs = append(segs, pathSeg{text: part[open:], index: -1})
				break
			}
			idx, err := strconv.Atoi(part[open+1 : close_])
			if err != nil {
				idx = -1
			}
			segs = append(segs, pathSeg{text: part[open : close_+1], index: idx})
			part = part[close_+1:]
			if part == "" {
				break
			}
		}
	}
	return segs
}
