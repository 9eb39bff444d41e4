// Package ir provides the generic tree representation for skyarc documents.
//
// The generic tree is the lowest common denominator understood by the
// container format: nested ordered objects, ordered arrays, scalars, and a
// closed set of externally tagged leaf payloads (arrays, quantities, time
// instants, coordinate transforms, tables).
//
// A Node is a recursive tagged union. The Type field selects which of the
// value fields is meaningful:
//
//   - NullType: null
//   - BoolType: Bool
//   - NumberType: Int64 or Float64 (Number preserves the source numeral)
//   - StringType: String
//   - ArrayType: Values
//   - ObjectType: Fields[i] keys Values[i]
//   - LeafType: Leaf, an externally tagged payload handled by a converter
//
// Every node carries an optional Tag naming the schema-defined type the
// subtree round-trips under. Typed node graphs (package node) reduce to
// this form losslessly for writing and are reconstructed from it on read.
package ir
