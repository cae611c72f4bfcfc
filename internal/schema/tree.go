package schema

import (
	"errors"
	"fmt"
	"iter"
)

// ErrNotFound is returned when a node id does not resolve in the tree.
var ErrNotFound = errors.New("field not found")

// ErrNotObject is returned when a child is added to a non-object field.
var ErrNotObject = errors.New("field is not an object")

// ErrInvalidKind is returned when an update carries an unknown field kind.
var ErrInvalidKind = errors.New("invalid field kind")

// Tree is the full forest of field definitions for one extraction schema.
// It owns every node transitively; callers mutate it only through the
// methods below and never retain node references across edits.
type Tree struct {
	Fields []*Node `yaml:"fields" json:"fields"`
}

// NewTree returns an empty schema tree.
func NewTree() *Tree {
	return &Tree{}
}

// AddRootField appends a fresh unnamed text field at the top level and
// returns it.
func (t *Tree) AddRootField() *Node {
	n := newNode()
	t.Fields = append(t.Fields, n)
	return n
}

// AddChildField appends a fresh unnamed text field under the object node
// with the given id. It fails with ErrNotFound if the id does not resolve
// and ErrNotObject if the target is not an object field.
func (t *Tree) AddChildField(parentID string) (*Node, error) {
	parent := t.Find(parentID)
	if parent == nil {
		return nil, fmt.Errorf("add child to %s: %w", parentID, ErrNotFound)
	}
	if !parent.IsObject() {
		return nil, fmt.Errorf("add child to %s: %w", parentID, ErrNotObject)
	}
	n := newNode()
	parent.Children = append(parent.Children, n)
	return n, nil
}

// RemoveField deletes the node with the given id and its entire subtree.
// Deletion is id-based so concurrent reordering in an editor cannot
// remove the wrong node.
func (t *Tree) RemoveField(id string) error {
	if removeFrom(&t.Fields, id) {
		return nil
	}
	return fmt.Errorf("remove %s: %w", id, ErrNotFound)
}

func removeFrom(nodes *[]*Node, id string) bool {
	for i, n := range *nodes {
		if n.ID == id {
			*nodes = append((*nodes)[:i], (*nodes)[i+1:]...)
			return true
		}
		if removeFrom(&n.Children, id) {
			return true
		}
	}
	return false
}

// UpdateField applies a partial update to the node with the given id.
// A patch carrying an unknown kind is rejected before anything is
// applied; the store refuses to load such a tree, so it must never be
// writable either.
func (t *Tree) UpdateField(id string, patch Patch) error {
	n := t.Find(id)
	if n == nil {
		return fmt.Errorf("update %s: %w", id, ErrNotFound)
	}
	if patch.Kind != nil && !patch.Kind.Valid() {
		return fmt.Errorf("update %s: kind %q: %w", id, *patch.Kind, ErrInvalidKind)
	}
	patch.apply(n)
	return nil
}

// Find returns the node with the given id, or nil.
func (t *Tree) Find(id string) *Node {
	for _, n := range t.Fields {
		if found := n.find(id); found != nil {
			return found
		}
	}
	return nil
}

// Len returns the total number of nodes in the tree.
func (t *Tree) Len() int {
	count := 0
	for range t.Walk() {
		count++
	}
	return count
}

// Walk yields (path, node) pairs depth-first in insertion order. The path
// is the list of ancestor ids ending with the node's own id, giving
// editors a stable key per node position. The sequence is lazy and can be
// ranged over multiple times.
func (t *Tree) Walk() iter.Seq2[[]string, *Node] {
	return func(yield func([]string, *Node) bool) {
		walk(t.Fields, nil, yield)
	}
}

func walk(nodes []*Node, prefix []string, yield func([]string, *Node) bool) bool {
	for _, n := range nodes {
		path := append(append([]string{}, prefix...), n.ID)
		if !yield(path, n) {
			return false
		}
		if !walk(n.Children, path, yield) {
			return false
		}
	}
	return true
}
