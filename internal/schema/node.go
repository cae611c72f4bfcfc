// Package schema implements the user-editable output schema: an ordered
// forest of field definitions that describes the shape of the structured
// data an extraction request should return.
package schema

import (
	"github.com/google/uuid"
)

// Kind is the declared type of a field.
type Kind string

const (
	KindText   Kind = "text"
	KindDate   Kind = "date"
	KindNumber Kind = "number"
	KindObject Kind = "object"
)

// Valid reports whether k is a known field kind.
func (k Kind) Valid() bool {
	switch k {
	case KindText, KindDate, KindNumber, KindObject:
		return true
	}
	return false
}

// Node is one user-defined field in the requested output shape.
//
// A node's ID is stable across edits and is the only handle used for
// mutation; position is never used to address a node. Children are only
// meaningful for KindObject and are always created as fresh nodes, so a
// tree cannot contain cycles.
type Node struct {
	ID       string `yaml:"id" json:"id"`
	Name     string `yaml:"name" json:"name"`
	Kind     Kind   `yaml:"kind" json:"kind"`
	Repeated bool   `yaml:"repeated,omitempty" json:"repeated,omitempty"`

	// Children holds sub-fields in insertion order. Nil for non-object
	// kinds, non-nil (possibly empty) for objects.
	Children []*Node `yaml:"children,omitempty" json:"children,omitempty"`
}

// newNode creates a fresh unnamed text field.
func newNode() *Node {
	return &Node{
		ID:   uuid.New().String(),
		Kind: KindText,
	}
}

// IsObject reports whether the node is an object field.
func (n *Node) IsObject() bool {
	return n.Kind == KindObject
}

// find returns the node with the given id in n's subtree, or nil.
func (n *Node) find(id string) *Node {
	if n.ID == id {
		return n
	}
	for _, c := range n.Children {
		if found := c.find(id); found != nil {
			return found
		}
	}
	return nil
}

// Patch is a partial update to a node. Nil fields are left unchanged.
type Patch struct {
	Name     *string
	Kind     *Kind
	Repeated *bool
}

// apply mutates n in place. Switching kind away from object drops the
// entire child subtree immediately; switching to object initializes an
// empty child list.
func (p Patch) apply(n *Node) {
	if p.Name != nil {
		n.Name = *p.Name
	}
	if p.Kind != nil && *p.Kind != n.Kind {
		n.Kind = *p.Kind
		if n.Kind == KindObject {
			n.Children = []*Node{}
		} else {
			n.Children = nil
		}
	}
	if p.Repeated != nil {
		n.Repeated = *p.Repeated
	}
}
