package leaf

import (
	"time"

	"github.com/skyarc-format/skyarc/ir"
)

// Time is a tagged time instant.
type Time struct {
	Time   time.Time
	Format string // "isot"
	Scale  string // "utc", "tai"
}

// NewTime builds a UTC isot-formatted instant.
func NewTime(t time.Time) *Time {
	return &Time{Time: t.UTC(), Format: "isot", Scale: "utc"}
}

// ParseTime parses an isot timestamp.
func ParseTime(s string) (*Time, error) {
	t, err := time.Parse("2006-01-02T15:04:05.999999999", s)
	if err != nil {
		return nil, err
	}
	return NewTime(t), nil
}

// Isot renders the instant in isot form.
func (t *Time) Isot() string {
	return t.Time.Format("2006-01-02T15:04:05.000")
}

func (t *Time) LeafTag() string {
	return TimeTag
}

func (t *Time) CloneLeaf() ir.Leaf {
	cl := *t
	return &cl
}

func (t *Time) EqualLeaf(other ir.Leaf) bool {
	o, ok := other.(*Time)
	if !ok {
		return false
	}
	return t.Time.Equal(o.Time) && t.Format == o.Format && t.Scale == o.Scale
}
