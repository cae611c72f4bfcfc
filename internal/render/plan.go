// Package render derives a display plan from a validated value. The plan
// is the sole contract with any presentation layer: a flat or nested
// sequence of instructions (text, bulleted list, table, titled panel,
// empty placeholder) mirroring the schema's shape.
package render

import (
	"encoding/json"
	"iter"

	"github.com/caselens/caselens/internal/contract"
	"github.com/caselens/caselens/internal/validate"
)

// Kind is the type of one display instruction.
type Kind string

const (
	// KindText displays a single scalar under its field title.
	KindText Kind = "text"
	// KindList displays a bulleted list of scalars.
	KindList Kind = "list"
	// KindTable displays a sequence of objects as a grid.
	KindTable Kind = "table"
	// KindPanel wraps a nested object's own instructions.
	KindPanel Kind = "panel"
	// KindEmpty marks a field the extraction returned empty. It is never
	// omitted, so an empty result is distinguishable from a field that
	// was never requested.
	KindEmpty Kind = "empty"
	// KindAbsent marks a requested field the response did not populate.
	KindAbsent Kind = "absent"
)

// Node is one instruction in the display plan.
type Node struct {
	Kind    Kind
	Title   string
	Hint    contract.Hint
	Text    string     // KindText
	Items   []string   // KindList
	Columns []string   // KindTable
	Rows    [][]string // KindTable
	Children []Node    // KindPanel
}

// Plan yields one instruction per contract field, in contract order. The
// value's own field order already follows the contract, so the plan is
// deterministic regardless of how the response was serialized. The
// sequence is lazy and restartable.
func Plan(v *validate.Value) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		if v == nil || v.Kind != validate.KindObject {
			return
		}
		for _, f := range v.Fields {
			if !yield(planField(f)) {
				return
			}
		}
	}
}

func planField(f validate.FieldValue) Node {
	n := Node{Title: f.Name, Hint: f.Hint}
	v := f.Value

	switch {
	case v.Absent():
		n.Kind = KindAbsent

	case v.Kind == validate.KindScalar:
		n.Kind = KindText
		n.Text = v.Text()

	case v.Kind == validate.KindList:
		planList(&n, v)

	case v.Kind == validate.KindObject:
		planObject(&n, v)
	}

	return n
}

func planList(n *Node, v *validate.Value) {
	if len(v.Items) == 0 {
		n.Kind = KindEmpty
		return
	}

	if allObjects(v.Items) {
		n.Kind = KindTable
		n.Columns, n.Rows = tabulate(v.Items)
		return
	}

	n.Kind = KindList
	for _, item := range v.Items {
		n.Items = append(n.Items, itemText(item))
	}
}

// planObject renders a nested object as a titled panel. An object whose
// fields are all absent collapses to the empty placeholder so the
// operator can tell "returned nothing" from "returned something".
func planObject(n *Node, v *validate.Value) {
	present := false
	for _, f := range v.Fields {
		if !f.Value.Absent() {
			present = true
			break
		}
	}
	if !present {
		n.Kind = KindEmpty
		return
	}

	n.Kind = KindPanel
	for _, f := range v.Fields {
		n.Children = append(n.Children, planField(f))
	}
}

func allObjects(items []*validate.Value) bool {
	for _, item := range items {
		if item == nil || item.Kind != validate.KindObject {
			return false
		}
	}
	return len(items) > 0
}

// tabulate builds the column set as the union of keys seen across rows,
// in first-seen order, and one row of cells per element.
func tabulate(items []*validate.Value) ([]string, [][]string) {
	var columns []string
	seen := make(map[string]int)
	for _, item := range items {
		for _, f := range item.Fields {
			if f.Value.Absent() {
				continue
			}
			if _, ok := seen[f.Name]; !ok {
				seen[f.Name] = len(columns)
				columns = append(columns, f.Name)
			}
		}
	}

	rows := make([][]string, 0, len(items))
	for _, item := range items {
		row := make([]string, len(columns))
		for _, f := range item.Fields {
			idx, ok := seen[f.Name]
			if !ok || f.Value.Absent() {
				continue
			}
			row[idx] = itemText(f.Value)
		}
		rows = append(rows, row)
	}
	return columns, rows
}

// itemText flattens a value to a single cell or bullet. Non-scalar
// values fall back to compact JSON.
func itemText(v *validate.Value) string {
	if v.Absent() {
		return ""
	}
	if v.Kind == validate.KindScalar {
		return v.Text()
	}
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}
