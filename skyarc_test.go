package skyarc

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/skyarc-format/skyarc/registry"
	"github.com/skyarc-format/skyarc/schema"
)

const testSchema = `
id: asdf://skyarc.dev/schemas/guide_star-1.0.0
type: object
properties:
  gs_id:
    type: string
required: [gs_id]
`

const testManifest = `
id: asdf://skyarc.dev/manifests/datamodels-1.0.0
tags:
- tag_uri: tag:skyarc.dev:obs/guide_star-1.0.0
  schema_uri: asdf://skyarc.dev/schemas/guide_star-1.0.0
`

func writeDocs(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "guide_star-1.0.0.yaml"), []byte(testSchema), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "manifests"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "manifests", "datamodels-1.0.0.yaml"), []byte(testManifest), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func newLoaded(t *testing.T) *registry.Registry {
	t.Helper()
	r, err := NewRegistry(schema.NewLibrary())
	if err != nil {
		t.Fatal(err)
	}
	if err := LoadDir(r, writeDocs(t)); err != nil {
		t.Fatal(err)
	}
	if err := RegisterManifestTypes(r); err != nil {
		t.Fatal(err)
	}
	return r
}

func TestLoadDirAndManifestTypes(t *testing.T) {
	reg := newLoaded(t)
	typ, err := reg.ResolveRead("tag:skyarc.dev:obs/guide_star-1.0.0")
	if err != nil {
		t.Fatal(err)
	}
	if typ.Name != "GuideStar" {
		t.Errorf("type name = %q", typ.Name)
	}
	// the widened pattern covers later patch versions
	if _, err := reg.ResolveRead("tag:skyarc.dev:obs/guide_star-1.2.0"); err != nil {
		t.Errorf("patch version not covered: %v", err)
	}
}

func TestMakeDefaultFromLoadedDocs(t *testing.T) {
	reg := newLoaded(t)
	m, err := MakeDefault(reg, "GuideStar", nil)
	if err != nil {
		t.Fatal(err)
	}
	gs, err := m.Object().Get("gs_id")
	if err != nil {
		t.Fatal(err)
	}
	if gs != "?" {
		t.Errorf("gs_id = %v", gs)
	}
	path := filepath.Join(t.TempDir(), "gs.skyarc")
	if err := m.Save(path); err != nil {
		t.Fatal(err)
	}
	got, err := Open(reg, path)
	if err != nil {
		t.Fatal(err)
	}
	defer got.Close()
	if got.Tag() != "tag:skyarc.dev:obs/guide_star-1.0.0" {
		t.Errorf("tag = %q", got.Tag())
	}
}

func TestNameFromTag(t *testing.T) {
	tests := []struct {
		tag  string
		want string
	}{
		{"tag:skyarc.dev:obs/guide_star-1.0.0", "GuideStar"},
		{"tag:skyarc.dev:obs/image-2.3.1", "Image"},
		{"tag:skyarc.dev:wfi_mode-1.0.0", "WfiMode"},
	}
	for _, tc := range tests {
		if got := nameFromTag(tc.tag); got != tc.want {
			t.Errorf("nameFromTag(%q) = %q, want %q", tc.tag, got, tc.want)
		}
	}
}

func TestMajorPattern(t *testing.T) {
	if got := majorPattern("tag:skyarc.dev:obs/image-1.0.0"); got != "tag:skyarc.dev:obs/image-1.*" {
		t.Errorf("pattern = %q", got)
	}
}
