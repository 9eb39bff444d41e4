package leaf

import (
	"github.com/skyarc-format/skyarc/ir"
)

// WCS is a world-coordinate-system transform. The pipeline steps are kept
// as an opaque generic subtree; WCS values have no meaningful equality and
// compare by type identity only.
type WCS struct {
	Name  string
	Steps *ir.Node
}

func (w *WCS) LeafTag() string {
	return WCSTag
}

func (w *WCS) CloneLeaf() ir.Leaf {
	cl := &WCS{Name: w.Name}
	if w.Steps != nil {
		cl.Steps = w.Steps.Clone()
	}
	return cl
}
