// Package contract compiles a schema tree into an immutable structural
// type description. The same contract drives the generation request (as a
// JSON Schema) and the structural validation of the response.
package contract

// FieldType is the primitive type of a compiled scalar field.
type FieldType string

const (
	TypeString  FieldType = "string"
	TypeInteger FieldType = "integer"
)

// Hint carries presentation intent that has no effect on validation.
type Hint string

const (
	HintNone Hint = ""
	HintDate Hint = "date"
)

// Field describes one compiled field. Exactly one of Type or Object is
// meaningful: Object is non-nil for nested object fields.
type Field struct {
	Name     string
	Type     FieldType
	Hint     Hint
	Repeated bool
	Object   *Contract
}

// ElementName names the field's element type for diagnostics.
func (f Field) ElementName() string {
	if f.Object != nil {
		return "objects"
	}
	return string(f.Type)
}

// Contract is the compiled structural description of a schema tree.
// It is immutable once produced; schema edits produce a new contract.
type Contract struct {
	Name   string
	Fields []Field
}

// Degenerate reports whether the contract has no usable fields at all.
// Compiling an empty or fully unnamed tree is legal, but callers must
// guard against issuing a pointless generation request.
func (c *Contract) Degenerate() bool {
	return len(c.Fields) == 0
}

// Field returns the named top-level field, if present.
func (c *Contract) Field(name string) (Field, bool) {
	for _, f := range c.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// FieldNames returns the top-level field names in contract order.
func (c *Contract) FieldNames() []string {
	names := make([]string, len(c.Fields))
	for i, f := range c.Fields {
		names[i] = f.Name
	}
	return names
}
