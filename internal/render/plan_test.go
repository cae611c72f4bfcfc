package render

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/caselens/caselens/internal/contract"
	"github.com/caselens/caselens/internal/schema"
	"github.com/caselens/caselens/internal/validate"
)

// validated compiles a tree, validates raw against it, and fails the
// test on any error.
func validated(t *testing.T, tree *schema.Tree, raw string) *validate.Value {
	t.Helper()
	c := contract.Compile("case", tree)
	v, err := validate.Validate(json.RawMessage(raw), c)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	return v
}

func caseTree(t *testing.T) *schema.Tree {
	t.Helper()
	tree := schema.NewTree()

	reason := tree.AddRootField()
	reason.Name = "case_reason"

	parties := tree.AddRootField()
	parties.Name = "parties"
	parties.Repeated = true

	holdings := tree.AddRootField()
	holdings.Name = "holdings"
	object := schema.KindObject
	repeated := true
	if err := tree.UpdateField(holdings.ID, schema.Patch{Kind: &object, Repeated: &repeated}); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"category", "text"} {
		child, err := tree.AddChildField(holdings.ID)
		if err != nil {
			t.Fatal(err)
		}
		child.Name = name
	}
	return tree
}

func collect(v *validate.Value) []Node {
	var nodes []Node
	for n := range Plan(v) {
		nodes = append(nodes, n)
	}
	return nodes
}

func TestPlanShapes(t *testing.T) {
	v := validated(t, caseTree(t), `{
		"case_reason": "breach of contract",
		"parties": ["Acme Corp", "Jane Roe"],
		"holdings": [
			{"category": "liability", "text": "seller is liable"},
			{"category": "damages", "text": "damages awarded"}
		]
	}`)

	nodes := collect(v)
	if len(nodes) != 3 {
		t.Fatalf("plan has %d nodes, want 3", len(nodes))
	}

	if nodes[0].Kind != KindText || nodes[0].Title != "case_reason" || nodes[0].Text != "breach of contract" {
		t.Errorf("node 0 = %+v", nodes[0])
	}

	if nodes[1].Kind != KindList {
		t.Fatalf("node 1 kind = %v, want list", nodes[1].Kind)
	}
	if diff := cmp.Diff([]string{"Acme Corp", "Jane Roe"}, nodes[1].Items); diff != "" {
		t.Errorf("list items mismatch:\n%s", diff)
	}

	if nodes[2].Kind != KindTable {
		t.Fatalf("node 2 kind = %v, want table", nodes[2].Kind)
	}
	if diff := cmp.Diff([]string{"category", "text"}, nodes[2].Columns); diff != "" {
		t.Errorf("columns mismatch:\n%s", diff)
	}
	wantRows := [][]string{
		{"liability", "seller is liable"},
		{"damages", "damages awarded"},
	}
	if diff := cmp.Diff(wantRows, nodes[2].Rows); diff != "" {
		t.Errorf("rows mismatch:\n%s", diff)
	}
}

func TestPlanEmptyVersusAbsent(t *testing.T) {
	v := validated(t, caseTree(t), `{"parties": []}`)

	nodes := collect(v)
	if nodes[0].Kind != KindAbsent {
		t.Errorf("missing field plans as %v, want absent", nodes[0].Kind)
	}
	if nodes[1].Kind != KindEmpty {
		t.Errorf("empty list plans as %v, want empty", nodes[1].Kind)
	}
	if nodes[2].Kind != KindAbsent {
		t.Errorf("missing list plans as %v, want absent", nodes[2].Kind)
	}
}

func TestPlanTableColumnUnion(t *testing.T) {
	// Rows with different present keys: columns are the union in
	// first-seen order, gaps left blank.
	v := validated(t, caseTree(t), `{
		"holdings": [
			{"category": "liability"},
			{"text": "damages awarded"}
		]
	}`)

	nodes := collect(v)
	table := nodes[2]
	if diff := cmp.Diff([]string{"category", "text"}, table.Columns); diff != "" {
		t.Fatalf("columns mismatch:\n%s", diff)
	}
	wantRows := [][]string{
		{"liability", ""},
		{"", "damages awarded"},
	}
	if diff := cmp.Diff(wantRows, table.Rows); diff != "" {
		t.Errorf("rows mismatch:\n%s", diff)
	}
}

func TestPlanNestedObjectPanel(t *testing.T) {
	tree := schema.NewTree()
	court := tree.AddRootField()
	court.Name = "court"
	object := schema.KindObject
	if err := tree.UpdateField(court.ID, schema.Patch{Kind: &object}); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"name", "level"} {
		child, err := tree.AddChildField(court.ID)
		if err != nil {
			t.Fatal(err)
		}
		child.Name = name
	}

	t.Run("populated", func(t *testing.T) {
		v := validated(t, tree, `{"court": {"name": "Supreme Court", "level": "final"}}`)
		nodes := collect(v)
		if nodes[0].Kind != KindPanel || len(nodes[0].Children) != 2 {
			t.Fatalf("node = %+v, want panel with 2 children", nodes[0])
		}
		if nodes[0].Children[0].Text != "Supreme Court" {
			t.Errorf("child 0 = %+v", nodes[0].Children[0])
		}
	})

	t.Run("all fields absent collapses to empty", func(t *testing.T) {
		v := validated(t, tree, `{"court": {}}`)
		nodes := collect(v)
		if nodes[0].Kind != KindEmpty {
			t.Errorf("node kind = %v, want empty", nodes[0].Kind)
		}
	})
}

func TestPlanRestartable(t *testing.T) {
	v := validated(t, caseTree(t), `{"case_reason": "x", "parties": ["a"], "holdings": []}`)

	seq := Plan(v)
	first := 0
	for range seq {
		first++
	}
	second := 0
	for range seq {
		second++
	}
	if first != 3 || second != 3 {
		t.Errorf("plan counts = %d, %d, want 3, 3", first, second)
	}
}
