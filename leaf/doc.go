// Package leaf implements the externally tagged leaf kinds: n-dimensional
// arrays, physical quantities, time instants, coordinate transforms, and
// tables.
//
// Leaf payloads are terminal values in the generic tree; the recursive
// tree walk treats them as opaque and delegates their serialization to the
// converters defined here, registered by tag pattern exactly like node
// types.
//
// Array-backed payloads may be lazily materialized: constructing one from
// a read document does not force the bulk numeric payload into memory;
// only accessing the data triggers the load.
package leaf
