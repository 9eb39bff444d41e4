package schema

import (
	"github.com/skyarc-format/skyarc/ir"
)

// Property is one named member of an object schema. Order follows the
// source document.
type Property struct {
	Name   string
	Schema *Schema
}

// ArchiveEntry carries the archive side-channel annotation of a field:
// catalog destinations and provenance origin. Downstream archival systems
// consume these; they do not affect validation.
type ArchiveEntry struct {
	Datatype    string   `yaml:"datatype"`
	Destination []string `yaml:"destination"`
	Origin      string   `yaml:"origin"`
}

// Schema is one node of a parsed schema tree. Constructed by Parse and
// immutable afterward.
type Schema struct {
	// ID is the schema identifier when this fragment is a document root.
	ID    string
	Title string

	// typ is the explicit "type" keyword, Unknown when absent.
	typ Kind

	Properties []Property
	Required   []string

	// Items describes homogeneous array elements; TupleItems positional
	// ones. At most one is set.
	Items      *Schema
	TupleItems []*Schema
	MinItems   *int
	MaxItems   *int

	Enum []*ir.Node

	// Tag marks the fragment as externally tagged; a pattern such as
	// "tag:skyarc.dev:core/ndarray-1.*".
	Tag string

	Pattern string
	// Check is an expression evaluated against the instance value during
	// validation, with the value bound to "value".
	Check string

	Minimum *float64
	Maximum *float64

	// NDim and Datatype constrain externally tagged array values.
	NDim     *int
	Datatype string

	AllOf []*Schema
	AnyOf []*Schema

	Archive *ArchiveEntry
}

// Kind derives the fragment's kind. A tag keyword overrides all other
// signals, then the explicit type, then fuzzy keyword signals.
func (s *Schema) Kind() Kind {
	if s.GetTag() != "" {
		return Tagged
	}
	if t := s.getType(); t != Unknown {
		return t
	}
	if s.hasObjectKeywords() {
		return Object
	}
	if s.hasArrayKeywords() {
		return Array
	}
	if s.hasStringKeywords() {
		return String
	}
	// anything numeric is a number, not an integer
	if s.hasNumericKeywords() {
		return Number
	}
	return Unknown
}

// ExplicitKind returns the type keyword declared directly on this fragment,
// Unknown when absent. Combinator branches are not consulted.
func (s *Schema) ExplicitKind() Kind {
	return s.typ
}

func (s *Schema) getType() Kind {
	if s.typ != Unknown {
		return s.typ
	}
	for _, sub := range s.AllOf {
		if t := sub.getType(); t != Unknown {
			return t
		}
	}
	if len(s.AnyOf) > 0 {
		return s.AnyOf[0].getType()
	}
	return Unknown
}

func (s *Schema) hasObjectKeywords() bool {
	if len(s.Properties) > 0 || len(s.Required) > 0 {
		return true
	}
	for _, sub := range s.AllOf {
		if sub.hasObjectKeywords() {
			return true
		}
	}
	return len(s.AnyOf) > 0 && s.AnyOf[0].hasObjectKeywords()
}

func (s *Schema) hasArrayKeywords() bool {
	if s.Items != nil || len(s.TupleItems) > 0 || s.MinItems != nil || s.MaxItems != nil {
		return true
	}
	for _, sub := range s.AllOf {
		if sub.hasArrayKeywords() {
			return true
		}
	}
	return len(s.AnyOf) > 0 && s.AnyOf[0].hasArrayKeywords()
}

func (s *Schema) hasStringKeywords() bool {
	if s.Pattern != "" {
		return true
	}
	for _, sub := range s.AllOf {
		if sub.hasStringKeywords() {
			return true
		}
	}
	return len(s.AnyOf) > 0 && s.AnyOf[0].hasStringKeywords()
}

func (s *Schema) hasNumericKeywords() bool {
	if s.Minimum != nil || s.Maximum != nil {
		return true
	}
	for _, sub := range s.AllOf {
		if sub.hasNumericKeywords() {
			return true
		}
	}
	return len(s.AnyOf) > 0 && s.AnyOf[0].hasNumericKeywords()
}

// GetTag looks up the tag keyword through combinators.
func (s *Schema) GetTag() string {
	if s.Tag != "" {
		return s.Tag
	}
	for _, sub := range s.AllOf {
		if t := sub.GetTag(); t != "" {
			return t
		}
	}
	if len(s.AnyOf) > 0 {
		return s.AnyOf[0].GetTag()
	}
	return ""
}

// GetEnum looks up the enum keyword through combinators.
func (s *Schema) GetEnum() []*ir.Node {
	if len(s.Enum) > 0 {
		return s.Enum
	}
	for _, sub := range s.AllOf {
		if e := sub.GetEnum(); len(e) > 0 {
			return e
		}
	}
	if len(s.AnyOf) > 0 {
		return s.AnyOf[0].GetEnum()
	}
	return nil
}

// GetRequired returns the union of required property names across allOf
// branches (and the first anyOf branch).
func (s *Schema) GetRequired() []string {
	seen := map[string]bool{}
	var res []string
	add := func(names []string) {
		for _, n := range names {
			if seen[n] {
				continue
			}
			seen[n] = true
			res = append(res, n)
		}
	}
	add(s.Required)
	for _, sub := range s.AllOf {
		add(sub.GetRequired())
	}
	if len(s.AnyOf) > 0 {
		add(s.AnyOf[0].GetRequired())
	}
	return res
}

// GetProperties yields all declared properties, in order, walking allOf
// branches and the first anyOf branch.
func (s *Schema) GetProperties() []Property {
	if len(s.AllOf) > 0 {
		var res []Property
		res = append(res, s.Properties...)
		for _, sub := range s.AllOf {
			res = append(res, sub.GetProperties()...)
		}
		return res
	}
	if len(s.Properties) > 0 {
		return s.Properties
	}
	if len(s.AnyOf) > 0 {
		return s.AnyOf[0].GetProperties()
	}
	return nil
}

// GetProperty returns the schema of the named property, or nil.
func (s *Schema) GetProperty(name string) *Schema {
	for _, p := range s.GetProperties() {
		if p.Name == name {
			return p.Schema
		}
	}
	return nil
}

// GetNDim looks up the ndim constraint through combinators.
func (s *Schema) GetNDim() *int {
	if s.NDim != nil {
		return s.NDim
	}
	for _, sub := range s.AllOf {
		if n := sub.GetNDim(); n != nil {
			return n
		}
	}
	if len(s.AnyOf) > 0 {
		return s.AnyOf[0].GetNDim()
	}
	return nil
}

// GetDatatype looks up the datatype constraint through combinators.
func (s *Schema) GetDatatype() string {
	if s.Datatype != "" {
		return s.Datatype
	}
	for _, sub := range s.AllOf {
		if d := sub.GetDatatype(); d != "" {
			return d
		}
	}
	if len(s.AnyOf) > 0 {
		return s.AnyOf[0].GetDatatype()
	}
	return ""
}

// GetPattern looks up the pattern keyword through combinators.
func (s *Schema) GetPattern() string {
	if s.Pattern != "" {
		return s.Pattern
	}
	for _, sub := range s.AllOf {
		if p := sub.GetPattern(); p != "" {
			return p
		}
	}
	if len(s.AnyOf) > 0 {
		return s.AnyOf[0].GetPattern()
	}
	return ""
}

// GetCheck looks up the check expression through combinators.
func (s *Schema) GetCheck() string {
	if s.Check != "" {
		return s.Check
	}
	for _, sub := range s.AllOf {
		if c := sub.GetCheck(); c != "" {
			return c
		}
	}
	if len(s.AnyOf) > 0 {
		return s.AnyOf[0].GetCheck()
	}
	return ""
}

// GetMinimum looks up the minimum keyword through combinators.
func (s *Schema) GetMinimum() *float64 {
	if s.Minimum != nil {
		return s.Minimum
	}
	for _, sub := range s.AllOf {
		if m := sub.GetMinimum(); m != nil {
			return m
		}
	}
	if len(s.AnyOf) > 0 {
		return s.AnyOf[0].GetMinimum()
	}
	return nil
}

// GetMaximum looks up the maximum keyword through combinators.
func (s *Schema) GetMaximum() *float64 {
	if s.Maximum != nil {
		return s.Maximum
	}
	for _, sub := range s.AllOf {
		if m := sub.GetMaximum(); m != nil {
			return m
		}
	}
	if len(s.AnyOf) > 0 {
		return s.AnyOf[0].GetMaximum()
	}
	return nil
}

// GetItems looks up the homogeneous items schema through combinators.
func (s *Schema) GetItems() *Schema {
	if s.Items != nil {
		return s.Items
	}
	for _, sub := range s.AllOf {
		if it := sub.GetItems(); it != nil {
			return it
		}
	}
	if len(s.AnyOf) > 0 {
		return s.AnyOf[0].GetItems()
	}
	return nil
}

// GetTupleItems looks up positional item schemas through combinators.
func (s *Schema) GetTupleItems() []*Schema {
	if len(s.TupleItems) > 0 {
		return s.TupleItems
	}
	for _, sub := range s.AllOf {
		if it := sub.GetTupleItems(); len(it) > 0 {
			return it
		}
	}
	if len(s.AnyOf) > 0 {
		return s.AnyOf[0].GetTupleItems()
	}
	return nil
}

// GetMaxItems looks up maxItems through combinators.
func (s *Schema) GetMaxItems() *int {
	if s.MaxItems != nil {
		return s.MaxItems
	}
	for _, sub := range s.AllOf {
		if n := sub.GetMaxItems(); n != nil {
			return n
		}
	}
	if len(s.AnyOf) > 0 {
		return s.AnyOf[0].GetMaxItems()
	}
	return nil
}

// GetMinItems looks up minItems through combinators.
func (s *Schema) GetMinItems() *int {
	if s.MinItems != nil {
		return s.MinItems
	}
	for _, sub := range s.AllOf {
		if n := sub.GetMinItems(); n != nil {
			return n
		}
	}
	if len(s.AnyOf) > 0 {
		return s.AnyOf[0].GetMinItems()
	}
	return nil
}
