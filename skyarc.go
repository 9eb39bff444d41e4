// Package skyarc ties the pieces together: it builds registries with the
// built-in leaf converters installed, loads schema and manifest documents
// from directories, and re-exports the common open/make entry points.
package skyarc

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/skyarc-format/skyarc/leaf"
	"github.com/skyarc-format/skyarc/model"
	"github.com/skyarc-format/skyarc/registry"
	"github.com/skyarc-format/skyarc/schema"
)

// NewRegistry builds a registry over lib with the built-in leaf
// converters (ndarray, quantity, time, table, wcs) installed.
func NewRegistry(lib *schema.Library) (*registry.Registry, error) {
	r := registry.New(lib)
	if err := leaf.RegisterConverters(r); err != nil {
		return nil, err
	}
	return r, nil
}

// LoadDir walks dir and loads every .yaml/.yml document found: documents
// with a tag table are added as manifests, everything else as schemas.
func LoadDir(r *registry.Registry, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch filepath.Ext(path) {
		case ".yaml", ".yml":
		default:
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if m, err := registry.ParseManifest(data); err == nil && len(m.Tags) > 0 {
			r.AddManifest(m)
			return nil
		}
		if _, err := r.Library().Add(data); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		return nil
	})
}

// RegisterManifestTypes registers a generic object node type for every
// manifest tag not already covered by a registered type. The type name is
// derived from the tag's last path segment and its pattern widens the tag
// to its major version.
func RegisterManifestTypes(r *registry.Registry) error {
	for _, tag := range r.WriteTags() {
		if _, err := r.ResolveRead(tag); err == nil {
			continue
		}
		t := &registry.Type{
			Name:    nameFromTag(tag),
			Pattern: majorPattern(tag),
			Kind:    registry.ObjectKind,
		}
		if err := r.Register(t); err != nil {
			return err
		}
	}
	return nil
}

// nameFromTag turns "tag:skyarc.dev:obs/image-1.0.0" into "Image".
func nameFromTag(tag string) string {
	seg := tag
	if i := strings.LastIndexByte(seg, '/'); i >= 0 {
		seg = seg[i+1:]
	} else if i := strings.LastIndexByte(seg, ':'); i >= 0 {
		seg = seg[i+1:]
	}
	if i := strings.LastIndexByte(seg, '-'); i >= 0 {
		seg = seg[:i]
	}
	parts := strings.FieldsFunc(seg, func(r rune) bool { return r == '_' || r == '.' })
	var b strings.Builder
	for _, p := range parts {
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
	}
	return b.String()
}

// majorPattern widens "...-1.0.0" to "...-1.*".
func majorPattern(tag string) string {
	dash := strings.LastIndexByte(tag, '-')
	if dash < 0 {
		return tag
	}
	ver := tag[dash+1:]
	dot := strings.IndexByte(ver, '.')
	if dot < 0 {
		return tag
	}
	return tag[:dash+1] + ver[:dot] + ".*"
}

// SchemaPathEnv names the search path consulted by Default, a list of
// directories separated by the OS path list separator.
const SchemaPathEnv = "SKYARC_SCHEMA_PATH"

var (
	defaultOnce sync.Once
	defaultReg  *registry.Registry
	defaultErr  error
)

// Default returns the process-wide registry, built on first use from the
// directories named by SKYARC_SCHEMA_PATH. Every later call returns the
// same registry.
func Default() (*registry.Registry, error) {
	defaultOnce.Do(func() {
		r, err := NewRegistry(schema.NewLibrary())
		if err != nil {
			defaultErr = err
			return
		}
		for _, dir := range filepath.SplitList(os.Getenv(SchemaPathEnv)) {
			if dir == "" {
				continue
			}
			if err := LoadDir(r, dir); err != nil {
				defaultErr = err
				return
			}
		}
		if err := RegisterManifestTypes(r); err != nil {
			defaultErr = err
			return
		}
		defaultReg = r
	})
	return defaultReg, defaultErr
}

// Open reads the container at path into a typed model.
func Open(r *registry.Registry, path string) (*model.Model, error) {
	return model.Open(r, path)
}

// MakeDefault synthesizes a minimal valid model of the named type.
func MakeDefault(r *registry.Registry, typeName string, overrides map[string]any, opts ...model.MakeOption) (*model.Model, error) {
	return model.MakeDefault(r, typeName, overrides, opts...)
}
