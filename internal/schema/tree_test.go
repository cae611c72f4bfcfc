package schema

import (
	"errors"
	"testing"
)

func TestAddRootField(t *testing.T) {
	tree := NewTree()

	a := tree.AddRootField()
	b := tree.AddRootField()

	if a.ID == "" || b.ID == "" {
		t.Fatal("new fields must have ids")
	}
	if a.ID == b.ID {
		t.Fatal("new fields must have distinct ids")
	}
	if a.Name != "" {
		t.Errorf("new field name = %q, want empty", a.Name)
	}
	if a.Kind != KindText {
		t.Errorf("new field kind = %q, want %q", a.Kind, KindText)
	}
	if len(tree.Fields) != 2 {
		t.Errorf("tree has %d roots, want 2", len(tree.Fields))
	}
}

func TestAddChildField(t *testing.T) {
	t.Run("under object", func(t *testing.T) {
		tree := NewTree()
		parent := tree.AddRootField()
		kind := KindObject
		if err := tree.UpdateField(parent.ID, Patch{Kind: &kind}); err != nil {
			t.Fatal(err)
		}

		child, err := tree.AddChildField(parent.ID)
		if err != nil {
			t.Fatalf("AddChildField() error = %v", err)
		}
		if got := tree.Find(child.ID); got != child {
			t.Error("child not reachable from tree")
		}
	})

	t.Run("under non-object", func(t *testing.T) {
		tree := NewTree()
		leaf := tree.AddRootField()

		_, err := tree.AddChildField(leaf.ID)
		if err == nil {
			t.Fatal("expected error adding child to text field")
		}
		if !errors.Is(err, ErrNotObject) {
			t.Errorf("error = %v, want ErrNotObject", err)
		}
	})

	t.Run("missing parent", func(t *testing.T) {
		tree := NewTree()
		_, err := tree.AddChildField("nope")
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})
}

func TestRemoveField(t *testing.T) {
	t.Run("removes entire subtree", func(t *testing.T) {
		tree := NewTree()
		root := tree.AddRootField()
		kind := KindObject
		if err := tree.UpdateField(root.ID, Patch{Kind: &kind}); err != nil {
			t.Fatal(err)
		}
		child, err := tree.AddChildField(root.ID)
		if err != nil {
			t.Fatal(err)
		}
		if err := tree.UpdateField(child.ID, Patch{Kind: &kind}); err != nil {
			t.Fatal(err)
		}
		grandchild, err := tree.AddChildField(child.ID)
		if err != nil {
			t.Fatal(err)
		}
		keeper := tree.AddRootField()

		if err := tree.RemoveField(root.ID); err != nil {
			t.Fatalf("RemoveField() error = %v", err)
		}

		for _, id := range []string{root.ID, child.ID, grandchild.ID} {
			if tree.Find(id) != nil {
				t.Errorf("id %s still resolves after subtree removal", id)
			}
		}
		if tree.Find(keeper.ID) == nil {
			t.Error("sibling was removed")
		}
	})

	t.Run("missing id", func(t *testing.T) {
		tree := NewTree()
		if err := tree.RemoveField("nope"); !errors.Is(err, ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})
}

func TestUpdateField(t *testing.T) {
	t.Run("partial patch", func(t *testing.T) {
		tree := NewTree()
		n := tree.AddRootField()
		name := "case_number"
		if err := tree.UpdateField(n.ID, Patch{Name: &name}); err != nil {
			t.Fatal(err)
		}
		if n.Name != "case_number" {
			t.Errorf("name = %q", n.Name)
		}
		if n.Kind != KindText {
			t.Errorf("kind changed to %q by name-only patch", n.Kind)
		}
	})

	t.Run("kind change away from object drops children", func(t *testing.T) {
		tree := NewTree()
		n := tree.AddRootField()
		object := KindObject
		text := KindText
		if err := tree.UpdateField(n.ID, Patch{Kind: &object}); err != nil {
			t.Fatal(err)
		}
		if _, err := tree.AddChildField(n.ID); err != nil {
			t.Fatal(err)
		}
		if _, err := tree.AddChildField(n.ID); err != nil {
			t.Fatal(err)
		}

		if err := tree.UpdateField(n.ID, Patch{Kind: &text}); err != nil {
			t.Fatal(err)
		}
		if n.Children != nil {
			t.Errorf("children = %v, want nil after kind change", n.Children)
		}

		// Switching back to object must not resurrect anything.
		if err := tree.UpdateField(n.ID, Patch{Kind: &object}); err != nil {
			t.Fatal(err)
		}
		if len(n.Children) != 0 {
			t.Errorf("children resurrected: %v", n.Children)
		}
	})

	t.Run("unknown kind rejected", func(t *testing.T) {
		tree := NewTree()
		n := tree.AddRootField()
		bad := Kind("blob")

		err := tree.UpdateField(n.ID, Patch{Kind: &bad})
		if !errors.Is(err, ErrInvalidKind) {
			t.Fatalf("error = %v, want ErrInvalidKind", err)
		}
		if n.Kind != KindText {
			t.Errorf("kind = %q, rejected patch must not apply", n.Kind)
		}
	})

	t.Run("same kind keeps children", func(t *testing.T) {
		tree := NewTree()
		n := tree.AddRootField()
		object := KindObject
		if err := tree.UpdateField(n.ID, Patch{Kind: &object}); err != nil {
			t.Fatal(err)
		}
		if _, err := tree.AddChildField(n.ID); err != nil {
			t.Fatal(err)
		}

		if err := tree.UpdateField(n.ID, Patch{Kind: &object}); err != nil {
			t.Fatal(err)
		}
		if len(n.Children) != 1 {
			t.Errorf("children dropped by no-op kind patch")
		}
	})
}

func TestWalk(t *testing.T) {
	tree := NewTree()
	a := tree.AddRootField()
	object := KindObject
	if err := tree.UpdateField(a.ID, Patch{Kind: &object}); err != nil {
		t.Fatal(err)
	}
	b, err := tree.AddChildField(a.ID)
	if err != nil {
		t.Fatal(err)
	}
	c := tree.AddRootField()

	t.Run("insertion order with paths", func(t *testing.T) {
		var ids []string
		var depths []int
		for path, n := range tree.Walk() {
			ids = append(ids, n.ID)
			depths = append(depths, len(path))
			if path[len(path)-1] != n.ID {
				t.Errorf("path %v does not end with node id %s", path, n.ID)
			}
		}

		want := []string{a.ID, b.ID, c.ID}
		for i := range want {
			if ids[i] != want[i] {
				t.Fatalf("walk order = %v, want %v", ids, want)
			}
		}
		if depths[0] != 1 || depths[1] != 2 || depths[2] != 1 {
			t.Errorf("depths = %v", depths)
		}
	})

	t.Run("restartable", func(t *testing.T) {
		first := 0
		for range tree.Walk() {
			first++
		}
		second := 0
		for range tree.Walk() {
			second++
		}
		if first != second || first != 3 {
			t.Errorf("walk counts = %d, %d, want 3, 3", first, second)
		}
	})

	t.Run("early stop", func(t *testing.T) {
		count := 0
		for range tree.Walk() {
			count++
			break
		}
		if count != 1 {
			t.Errorf("count = %d after break", count)
		}
	})
}
