package leaf

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/skyarc-format/skyarc/ir"
)

var itemSizes = map[string]int{
	"int8":    1,
	"uint8":   1,
	"int16":   2,
	"uint16":  2,
	"int32":   4,
	"uint32":  4,
	"int64":   8,
	"uint64":  8,
	"float32": 4,
	"float64": 8,
}

// ItemSize returns the byte width of a datatype name.
func ItemSize(datatype string) (int, error) {
	n, ok := itemSizes[datatype]
	if !ok {
		return 0, fmt.Errorf("unrecognized datatype %q", datatype)
	}
	return n, nil
}

// NDArray is an n-dimensional numeric array stored as a little-endian
// buffer. The buffer may be backed by a deferred loader so that reading a
// document never forces bulk payloads into memory.
type NDArray struct {
	Datatype string
	Shape    []int

	mu   sync.Mutex
	data []byte
	load func() ([]byte, error)
}

// NewNDArray builds a materialized array over data.
func NewNDArray(datatype string, shape []int, data []byte) (*NDArray, error) {
	size, err := ItemSize(datatype)
	if err != nil {
		return nil, err
	}
	if want := numElems(shape) * size; len(data) != want {
		return nil, fmt.Errorf("ndarray buffer is %d bytes, shape %v of %s needs %d",
			len(data), shape, datatype, want)
	}
	return &NDArray{Datatype: datatype, Shape: append([]int(nil), shape...), data: data}, nil
}

// Zeros builds a zero-filled array.
func Zeros(datatype string, shape []int) (*NDArray, error) {
	size, err := ItemSize(datatype)
	if err != nil {
		return nil, err
	}
	return &NDArray{
		Datatype: datatype,
		Shape:    append([]int(nil), shape...),
		data:     make([]byte, numElems(shape)*size),
	}, nil
}

// NewLazyNDArray builds an array whose buffer is produced by load on first
// access.
func NewLazyNDArray(datatype string, shape []int, load func() ([]byte, error)) *NDArray {
	return &NDArray{Datatype: datatype, Shape: append([]int(nil), shape...), load: load}
}

func numElems(shape []int) int {
	n := 1
	for _, d := range shape {
		n *= d
	}
	return n
}

// Len returns the total element count.
func (a *NDArray) Len() int {
	return numElems(a.Shape)
}

// NDim returns the number of dimensions.
func (a *NDArray) NDim() int {
	return len(a.Shape)
}

// DatatypeName returns the element type name.
func (a *NDArray) DatatypeName() string {
	return a.Datatype
}

// Materialized reports whether the buffer is resident.
func (a *NDArray) Materialized() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.data != nil
}

// Data returns the raw little-endian buffer, loading it on first access.
func (a *NDArray) Data() ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.data != nil {
		return a.data, nil
	}
	if a.load == nil {
		return nil, fmt.Errorf("ndarray has no data and no loader")
	}
	data, err := a.load()
	if err != nil {
		return nil, err
	}
	size, err := ItemSize(a.Datatype)
	if err != nil {
		return nil, err
	}
	if want := numElems(a.Shape) * size; len(data) != want {
		return nil, fmt.Errorf("lazy ndarray loaded %d bytes, shape %v of %s needs %d",
			len(data), a.Shape, a.Datatype, want)
	}
	a.data = data
	a.load = nil
	return a.data, nil
}

func (a *NDArray) LeafTag() string {
	return NDArrayTag
}

func (a *NDArray) CloneLeaf() ir.Leaf {
	a.mu.Lock()
	defer a.mu.Unlock()
	cl := &NDArray{
		Datatype: a.Datatype,
		Shape:    append([]int(nil), a.Shape...),
		load:     a.load,
	}
	if a.data != nil {
		cl.data = bytes.Clone(a.data)
	}
	return cl
}

func (a *NDArray) EqualLeaf(other ir.Leaf) bool {
	b, ok := other.(*NDArray)
	if !ok {
		return false
	}
	if a.Datatype != b.Datatype {
		return false
	}
	if len(a.Shape) != len(b.Shape) {
		return false
	}
	for i := range a.Shape {
		if a.Shape[i] != b.Shape[i] {
			return false
		}
	}
	ad, err := a.Data()
	if err != nil {
		return false
	}
	bd, err := b.Data()
	if err != nil {
		return false
	}
	return bytes.Equal(ad, bd)
}
