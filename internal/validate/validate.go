package validate

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/caselens/caselens/internal/contract"
)

// Failure describes one structural mismatch between the response and the
// contract.
type Failure struct {
	// Path is the dotted path from the contract root, with list indices
	// in brackets (e.g. "legal_holdings[2].category"). Empty for the
	// response root.
	Path     string `json:"path"`
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
}

func (f Failure) String() string {
	path := f.Path
	if path == "" {
		path = "(root)"
	}
	return fmt.Sprintf("%s: expected %s, got %s", path, f.Expected, f.Actual)
}

// Error carries every failure found in one validation pass, along with
// the offending raw response for inspection. Validation never stops at
// the first mismatch: a single failed request should surface every
// defect at once.
type Error struct {
	Failures []Failure
	Raw      json.RawMessage
}

func (e *Error) Error() string {
	msgs := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		msgs[i] = f.String()
	}
	return fmt.Sprintf("response does not match contract (%d failures): %s",
		len(e.Failures), strings.Join(msgs, "; "))
}

// Validate checks a raw JSON response against a contract. On success it
// returns the typed value tree; otherwise it returns an *Error holding
// the complete failure list.
//
// Fields absent from the response (or explicitly null) are recorded as
// absent, never as failures. Keys in the response that the contract does
// not mention are ignored.
func Validate(raw json.RawMessage, c *contract.Contract) (*Value, error) {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("response is not valid JSON: %w", err)
	}

	// A zero-field contract has nothing to check: any response passes.
	if c.Degenerate() {
		return &Value{Kind: KindObject}, nil
	}

	var failures []Failure
	value := validateObject(doc, c, "", &failures)
	if len(failures) > 0 {
		return nil, &Error{Failures: failures, Raw: raw}
	}
	return value, nil
}

func validateObject(doc any, c *contract.Contract, path string, failures *[]Failure) *Value {
	obj, ok := doc.(map[string]any)
	if !ok {
		*failures = append(*failures, Failure{
			Path:     path,
			Expected: "object",
			Actual:   describeShape(doc),
		})
		return nil
	}

	out := &Value{Kind: KindObject, Fields: make([]FieldValue, 0, len(c.Fields))}
	for _, f := range c.Fields {
		raw, present := obj[f.Name]
		fv := FieldValue{Name: f.Name, Hint: f.Hint}
		if !present || raw == nil {
			fv.Value = &Value{Kind: KindAbsent}
		} else {
			fv.Value = validateField(raw, f, joinPath(path, f.Name), failures)
		}
		out.Fields = append(out.Fields, fv)
	}
	return out
}

// validateField checks sequence-ness first, then the element type.
func validateField(raw any, f contract.Field, path string, failures *[]Failure) *Value {
	if f.Repeated {
		items, ok := raw.([]any)
		if !ok {
			*failures = append(*failures, Failure{
				Path:     path,
				Expected: "sequence of " + f.ElementName(),
				Actual:   describeShape(raw),
			})
			return nil
		}
		out := &Value{Kind: KindList, Items: make([]*Value, 0, len(items))}
		for i, item := range items {
			elemPath := fmt.Sprintf("%s[%d]", path, i)
			out.Items = append(out.Items, validateElement(item, f, elemPath, failures))
		}
		return out
	}
	return validateElement(raw, f, path, failures)
}

func validateElement(raw any, f contract.Field, path string, failures *[]Failure) *Value {
	if raw == nil {
		return &Value{Kind: KindAbsent}
	}
	if f.Object != nil {
		return validateObject(raw, f.Object, path, failures)
	}
	return validateScalar(raw, f, path, failures)
}

func validateScalar(raw any, f contract.Field, path string, failures *[]Failure) *Value {
	switch f.Type {
	case contract.TypeInteger:
		// encoding/json decodes all numbers as float64; accept only
		// integral values.
		if n, ok := raw.(float64); ok && n == math.Trunc(n) {
			return &Value{Kind: KindScalar, Scalar: int64(n)}
		}
	default:
		if s, ok := raw.(string); ok {
			return &Value{Kind: KindScalar, Scalar: s}
		}
	}
	*failures = append(*failures, Failure{
		Path:     path,
		Expected: string(f.Type),
		Actual:   describeShape(raw),
	})
	return nil
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

func describeShape(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return "scalar (string)"
	case float64:
		if t == math.Trunc(t) {
			return "scalar (integer)"
		}
		return "scalar (number)"
	case bool:
		return "scalar (boolean)"
	case []any:
		return "sequence"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
