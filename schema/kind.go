package schema

import "fmt"

type Kind int

const (
	Unknown Kind = iota
	Object
	Array
	String
	Integer
	Number
	Boolean
	Null
	Tagged
)

func (k Kind) String() string {
	s, ok := map[Kind]string{
		Unknown: "unknown",
		Object:  "object",
		Array:   "array",
		String:  "string",
		Integer: "integer",
		Number:  "number",
		Boolean: "boolean",
		Null:    "null",
		Tagged:  "tagged",
	}[k]
	if ok {
		return s
	}
	return "<unknown kind>"
}

func kindFromTypeName(name string) (Kind, error) {
	k, ok := map[string]Kind{
		"object":  Object,
		"array":   Array,
		"string":  String,
		"integer": Integer,
		"number":  Number,
		"boolean": Boolean,
		"null":    Null,
	}[name]
	if !ok {
		return Unknown, fmt.Errorf("unrecognized schema type %q", name)
	}
	return k, nil
}
