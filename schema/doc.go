// Package schema provides the normalized in-memory representation of one
// schema fragment: its kind, properties, required set, enum candidates,
// array constraints, tag reference, and nested sub-schemas.
//
// Schemas are parsed once from YAML documents and are immutable afterward.
// Keyword lookup understands the allOf/anyOf combinators: allOf branches
// are all consulted, anyOf lookups use the first branch.
//
// The fragment's kind is never stored in the source document redundantly;
// it is derived from the explicit "type" keyword or, failing that, from
// fuzzy keyword signals (properties implies an object, items implies an
// array, pattern implies a string, minimum implies a number). A "tag"
// keyword overrides everything: the fragment describes an externally
// tagged value.
package schema
