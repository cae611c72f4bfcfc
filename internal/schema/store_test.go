package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestStoreRoundTrip(t *testing.T) {
	store := NewStore(t.TempDir(), nil)

	tree := DefaultTree()
	if err := store.Save("default", tree); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := store.Load("default")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if diff := cmp.Diff(tree, loaded); diff != "" {
		t.Errorf("round-trip mismatch (-saved +loaded):\n%s", diff)
	}
}

func TestStoreRoundTripAfterRejectedEdit(t *testing.T) {
	store := NewStore(t.TempDir(), nil)

	tree := NewTree()
	n := tree.AddRootField()
	n.Name = "summary"

	bad := Kind("blob")
	if err := tree.UpdateField(n.ID, Patch{Kind: &bad}); err == nil {
		t.Fatal("expected rejection of unknown kind")
	}

	// The rejected edit must leave the tree in a state the store will
	// accept back.
	if err := store.Save("default", tree); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if _, err := store.Load("default"); err != nil {
		t.Errorf("Load() error = %v, tree must stay loadable after a rejected edit", err)
	}
}

func TestStoreLoadRejectsBadFiles(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir, nil)

	write := func(t *testing.T, name, content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name+".yaml"), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	t.Run("duplicate ids", func(t *testing.T) {
		write(t, "dup", `fields:
  - id: a
    name: one
    kind: text
  - id: a
    name: two
    kind: text
`)
		if _, err := store.Load("dup"); err == nil {
			t.Error("expected error for duplicate ids")
		}
	})

	t.Run("unknown kind", func(t *testing.T) {
		write(t, "kind", `fields:
  - id: a
    name: one
    kind: blob
`)
		if _, err := store.Load("kind"); err == nil {
			t.Error("expected error for unknown kind")
		}
	})

	t.Run("children on leaf", func(t *testing.T) {
		write(t, "leaf", `fields:
  - id: a
    name: one
    kind: text
    children:
      - id: b
        name: two
        kind: text
`)
		if _, err := store.Load("leaf"); err == nil {
			t.Error("expected error for children on non-object")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := store.Load("nope"); err == nil {
			t.Error("expected error for missing schema")
		}
	})
}

func TestStoreList(t *testing.T) {
	store := NewStore(t.TempDir(), nil)

	names, err := store.List()
	if err != nil {
		t.Fatalf("List() on empty store error = %v", err)
	}
	if len(names) != 0 {
		t.Errorf("names = %v, want empty", names)
	}

	for _, name := range []string{"b", "a"} {
		if err := store.Save(name, NewTree()); err != nil {
			t.Fatal(err)
		}
	}

	names, err = store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Errorf("names = %v, want [a b]", names)
	}
}

func TestDefaultTree(t *testing.T) {
	tree := DefaultTree()

	if len(tree.Fields) != 7 {
		t.Fatalf("default tree has %d roots, want 7", len(tree.Fields))
	}

	var holdings *Node
	for _, n := range tree.Fields {
		if n.Name == "legal_holdings" {
			holdings = n
		}
	}
	if holdings == nil {
		t.Fatal("legal_holdings field missing")
	}
	if !holdings.IsObject() || !holdings.Repeated {
		t.Error("legal_holdings must be a repeated object")
	}
	if len(holdings.Children) != 3 {
		t.Errorf("legal_holdings has %d children, want 3", len(holdings.Children))
	}
}
