package contract

// JSONSchema returns the contract as a JSON Schema document. Every field
// is optional and nullable: the generation step is not guaranteed to
// populate every requested field, and absence is handled downstream, not
// rejected here. Unknown keys are allowed for the same reason.
func (c *Contract) JSONSchema() map[string]any {
	properties := make(map[string]any, len(c.Fields))
	for _, f := range c.Fields {
		properties[f.Name] = f.jsonSchema()
	}
	return map[string]any{
		"type":                 "object",
		"properties":           properties,
		"additionalProperties": true,
	}
}

func (f Field) jsonSchema() map[string]any {
	var elem map[string]any
	if f.Object != nil {
		elem = f.Object.JSONSchema()
	} else {
		elem = map[string]any{"type": string(f.Type)}
	}

	if f.Repeated {
		return map[string]any{
			"type":  []string{"array", "null"},
			"items": elem,
		}
	}

	return nullable(elem)
}

// nullable widens a schema's type to accept null.
func nullable(s map[string]any) map[string]any {
	out := make(map[string]any, len(s))
	for k, v := range s {
		out[k] = v
	}
	switch t := out["type"].(type) {
	case string:
		out["type"] = []string{t, "null"}
	}
	return out
}
