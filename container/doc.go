// Package container reads and writes the on-disk form: a YAML document
// holding the generic tree, followed by an optional section of binary
// blocks for bulk payloads. Writes publish atomically through a temporary
// file; reads keep the file open so block payloads load lazily.
package container
