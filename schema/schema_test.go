package schema

import (
	"testing"

	"github.com/skyarc-format/skyarc/ir"
)

const programSchema = `
id: asdf://skyarc.dev/schemas/program-1.0.0
title: Program information
type: object
properties:
  title:
    type: string
    archive_catalog:
      datatype: nvarchar(200)
      destination: [ScienceCommon.program_title]
  category:
    type: string
    enum: [GO, CAL, ENG]
  subcategory:
    type: string
required: [title, category]
`

func TestParseObject(t *testing.T) {
	s, err := Parse([]byte(programSchema))
	if err != nil {
		t.Fatal(err)
	}
	if s.ID != "asdf://skyarc.dev/schemas/program-1.0.0" {
		t.Errorf("ID = %q", s.ID)
	}
	if s.Kind() != Object {
		t.Errorf("Kind = %s, want object", s.Kind())
	}
	props := s.GetProperties()
	wantOrder := []string{"title", "category", "subcategory"}
	if len(props) != len(wantOrder) {
		t.Fatalf("got %d properties", len(props))
	}
	for i, p := range props {
		if p.Name != wantOrder[i] {
			t.Errorf("property %d = %q, want %q", i, p.Name, wantOrder[i])
		}
	}
	if got := s.GetRequired(); len(got) != 2 || got[0] != "title" || got[1] != "category" {
		t.Errorf("GetRequired = %v", got)
	}
	cat := s.GetProperty("category")
	if cat == nil || len(cat.GetEnum()) != 3 {
		t.Fatalf("category enum missing: %v", cat)
	}
	if cat.GetEnum()[0].String != "GO" {
		t.Errorf("first enum = %q", cat.GetEnum()[0].String)
	}
	title := s.GetProperty("title")
	if title.Archive == nil || title.Archive.Datatype != "nvarchar(200)" {
		t.Errorf("archive entry not parsed: %+v", title.Archive)
	}
}

type kindTest struct {
	name string
	doc  string
	kind Kind
}

func TestKindInference(t *testing.T) {
	tests := []kindTest{
		{name: "explicit type", doc: "type: integer", kind: Integer},
		{name: "properties imply object", doc: "properties:\n  a:\n    type: string", kind: Object},
		{name: "required implies object", doc: "required: [a]", kind: Object},
		{name: "items imply array", doc: "items:\n  type: string", kind: Array},
		{name: "minItems implies array", doc: "minItems: 2", kind: Array},
		{name: "pattern implies string", doc: "pattern: '^a'", kind: String},
		{name: "minimum implies number", doc: "minimum: 0", kind: Number},
		{name: "tag overrides type", doc: "type: object\ntag: tag:skyarc.dev:core/ndarray-1.*", kind: Tagged},
		{name: "bare enum", doc: "enum: [1, 2]", kind: Unknown},
		{name: "allOf type", doc: "allOf:\n- type: string", kind: String},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Parse([]byte(tt.doc))
			if err != nil {
				t.Fatal(err)
			}
			if got := s.Kind(); got != tt.kind {
				t.Errorf("Kind = %s, want %s", got, tt.kind)
			}
		})
	}
}

func TestCombinatorKeywordLookup(t *testing.T) {
	doc := `
allOf:
- type: object
  properties:
    a:
      type: string
  required: [a]
- properties:
    b:
      tag: tag:skyarc.dev:core/time-1.*
  required: [b]
`
	s, err := Parse([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}
	if s.Kind() != Object {
		t.Fatalf("Kind = %s", s.Kind())
	}
	req := s.GetRequired()
	if len(req) != 2 {
		t.Fatalf("GetRequired = %v", req)
	}
	if s.GetProperty("b").Kind() != Tagged {
		t.Errorf("b should be tagged")
	}
}

func TestPositionalItems(t *testing.T) {
	doc := `
items:
- enum: [0]
- enum: [1]
minItems: 3
`
	s, err := Parse([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}
	if len(s.TupleItems) != 2 {
		t.Fatalf("TupleItems = %d", len(s.TupleItems))
	}
	if s.GetMinItems() == nil || *s.GetMinItems() != 3 {
		t.Errorf("MinItems = %v", s.GetMinItems())
	}
	if *s.TupleItems[1].GetEnum()[0].Int64 != 1 {
		t.Errorf("TupleItems[1] enum wrong")
	}
}

func TestLibrary(t *testing.T) {
	lib := NewLibrary()
	if _, err := lib.Add([]byte(programSchema)); err != nil {
		t.Fatal(err)
	}
	// re-adding the same id is a no-op
	if _, err := lib.Add([]byte(programSchema)); err != nil {
		t.Fatal(err)
	}
	s, err := lib.Get("asdf://skyarc.dev/schemas/program-1.0.0")
	if err != nil {
		t.Fatal(err)
	}
	if s.Title != "Program information" {
		t.Errorf("Title = %q", s.Title)
	}
	if _, err := lib.Get("asdf://skyarc.dev/schemas/nope-1.0.0"); err == nil {
		t.Error("expected error for unknown schema")
	}
}

func TestFromAny(t *testing.T) {
	node, err := FromAny([]any{"a", uint64(1), -2.5, true, nil})
	if err != nil {
		t.Fatal(err)
	}
	if node.Type != ir.ArrayType || len(node.Values) != 5 {
		t.Fatalf("bad node: %v", node)
	}
	if node.Values[0].String != "a" || *node.Values[1].Int64 != 1 {
		t.Error("scalar conversion wrong")
	}
	if *node.Values[2].Float64 != -2.5 || node.Values[3].Bool != true {
		t.Error("scalar conversion wrong")
	}
	if node.Values[4].Type != ir.NullType {
		t.Error("nil should map to null")
	}
}
