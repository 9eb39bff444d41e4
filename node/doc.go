// Package node exposes typed, schema-validated views over generic trees:
// Object for mappings, List for sequences, Scalar for tag-carrying
// primitives. Views share the underlying tree; field access promotes
// nested tagged subtrees on demand, and mutation is validated unless the
// instance is inside a relaxed window.
package node
