package registry

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
)

// TagDef associates one concrete tag with the schema that validates it.
type TagDef struct {
	TagURI    string `yaml:"tag_uri"`
	SchemaURI string `yaml:"schema_uri"`
	Title     string `yaml:"title"`
}

// Manifest is a versioned bundle of tag definitions. The set of tags in
// the newest loaded manifests defines what is "current" for writing.
type Manifest struct {
	ID   string   `yaml:"id"`
	Tags []TagDef `yaml:"tags"`

	version []int
}

// ParseManifest parses a manifest document.
func ParseManifest(data []byte) (*Manifest, error) {
	m := &Manifest{}
	if err := yaml.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("manifest parse error: %w", err)
	}
	if m.ID == "" {
		return nil, fmt.Errorf("manifest has no id")
	}
	m.version = versionOf(m.ID)
	return m, nil
}

// versionOf extracts the trailing -X.Y.Z version from an identifier.
// Missing segments compare as zero.
func versionOf(id string) []int {
	dash := strings.LastIndexByte(id, '-')
	if dash < 0 {
		return nil
	}
	parts := strings.Split(id[dash+1:], ".")
	res := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			break
		}
		res = append(res, n)
	}
	return res
}

// compareVersions orders version slices; longer wins ties of the shared
// prefix.
func compareVersions(a, b []int) int {
	n := min(len(a), len(b))
	for i := range n {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return 0
}
