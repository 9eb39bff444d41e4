package maker

import (
	"fmt"

	"dario.cat/mergo"
)

// MergeOverrides layers extra on top of base and returns the combined map,
// leaving both inputs untouched. Nested maps merge key-by-key; scalar and
// sequence values from extra win wholesale. Use this to stack override
// layers before handing them to Build.
func MergeOverrides(base, extra map[string]any) (map[string]any, error) {
	res := map[string]any{}
	if err := mergo.Merge(&res, base, mergo.WithOverride); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuild, err)
	}
	if err := mergo.Merge(&res, extra, mergo.WithOverride); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuild, err)
	}
	return res, nil
}
