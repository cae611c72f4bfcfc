// Package validate checks a raw generation response against a compiled
// contract and produces a typed value tree, or the complete list of
// structural mismatches.
package validate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/caselens/caselens/internal/contract"
)

// ValueKind discriminates the shape of a validated value.
type ValueKind int

const (
	// KindAbsent marks a contract field the response did not populate
	// (missing key or explicit null).
	KindAbsent ValueKind = iota
	KindScalar
	KindList
	KindObject
)

// Value is one node of a validated response. It is immutable after
// validation; a new extraction replaces the whole tree.
type Value struct {
	Kind   ValueKind
	Scalar any          // string or int64 when Kind == KindScalar
	Items  []*Value     // when Kind == KindList
	Fields []FieldValue // when Kind == KindObject, in contract order
}

// FieldValue is a named child of an object value. Order follows the
// contract, not the raw response, so downstream rendering is
// deterministic regardless of response key order.
type FieldValue struct {
	Name  string
	Hint  contract.Hint
	Value *Value
}

// Absent reports whether the value is the absent placeholder.
func (v *Value) Absent() bool {
	return v == nil || v.Kind == KindAbsent
}

// Field returns the named child of an object value, if present.
func (v *Value) Field(name string) (*Value, bool) {
	if v == nil || v.Kind != KindObject {
		return nil, false
	}
	for _, f := range v.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// Text renders a scalar value for display. Absent values render empty.
func (v *Value) Text() string {
	if v == nil || v.Kind != KindScalar {
		return ""
	}
	switch s := v.Scalar.(type) {
	case string:
		return s
	case int64:
		return strconv.FormatInt(s, 10)
	default:
		return fmt.Sprintf("%v", s)
	}
}

// MarshalJSON writes the value as plain JSON. Object fields are emitted
// in contract order and absent fields as null, matching the shape of the
// raw response the value was validated from.
func (v *Value) MarshalJSON() ([]byte, error) {
	if v.Absent() {
		return []byte("null"), nil
	}

	switch v.Kind {
	case KindScalar:
		return json.Marshal(v.Scalar)
	case KindList:
		if len(v.Items) == 0 {
			return []byte("[]"), nil
		}
		return json.Marshal(v.Items)
	case KindObject:
		var buf bytes.Buffer
		buf.WriteByte('{')
		for i, f := range v.Fields {
			if i > 0 {
				buf.WriteByte(',')
			}
			name, err := json.Marshal(f.Name)
			if err != nil {
				return nil, err
			}
			buf.Write(name)
			buf.WriteByte(':')
			val, err := json.Marshal(f.Value)
			if err != nil {
				return nil, err
			}
			buf.Write(val)
		}
		buf.WriteByte('}')
		return buf.Bytes(), nil
	}
	return []byte("null"), nil
}
