package registry

// NodeKind is the flavor of a registered node type.
type NodeKind int

const (
	// ObjectKind types are mapping-like.
	ObjectKind NodeKind = iota
	// ListKind types are sequence-like.
	ListKind
	// ScalarKind types wrap a single primitive that round-trips with its
	// tag attached.
	ScalarKind
)

func (k NodeKind) String() string {
	switch k {
	case ObjectKind:
		return "object"
	case ListKind:
		return "list"
	case ScalarKind:
		return "scalar"
	}
	return "<unknown kind>"
}

// Type describes one registered node type: the declarative replacement for
// a generated per-product class. A Type carries everything the conversion
// engine and the default builder need; no per-product code exists.
type Type struct {
	// Name is the unique product name, e.g. "Program".
	Name string

	// Pattern is the canonical tag pattern the type serializes under,
	// e.g. "tag:skyarc.dev:obs/program-1.*".
	Pattern string

	Kind NodeKind

	// DeprecatedAliases are older tag strings that must stay readable but
	// are never written.
	DeprecatedAliases []string

	// FieldAliases maps an internal field name to its true schema name,
	// for fields whose schema name collides with a Go keyword
	// (e.g. "range_" → "range"). Serialization always writes the schema
	// name.
	FieldAliases map[string]string
}

// SchemaName returns the schema name a field serializes under, resolving
// keyword-collision aliases.
func (t *Type) SchemaName(field string) string {
	if t.FieldAliases == nil {
		return field
	}
	if name, ok := t.FieldAliases[field]; ok {
		return name
	}
	return field
}

// InternalName returns the internal field name for a schema name,
// inverting FieldAliases.
func (t *Type) InternalName(schemaName string) string {
	for internal, name := range t.FieldAliases {
		if name == schemaName {
			return internal
		}
	}
	return schemaName
}
