package schema

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Store persists named schema trees as YAML files in a directory.
type Store struct {
	dir    string
	logger *slog.Logger
}

// NewStore creates a schema store rooted at dir.
func NewStore(dir string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{dir: dir, logger: logger}
}

// Path returns the file path for a named schema.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name+".yaml")
}

// Exists reports whether a named schema has been saved.
func (s *Store) Exists(name string) bool {
	_, err := os.Stat(s.Path(name))
	return err == nil
}

// Load reads a named schema tree. Node ids and kinds are checked so a
// hand-edited file cannot introduce duplicate ids or unknown kinds.
func (s *Store) Load(name string) (*Tree, error) {
	data, err := os.ReadFile(s.Path(name))
	if err != nil {
		return nil, fmt.Errorf("failed to read schema %q: %w", name, err)
	}

	var tree Tree
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("failed to parse schema %q: %w", name, err)
	}

	seen := make(map[string]struct{})
	for path, n := range tree.Walk() {
		if n.ID == "" {
			return nil, fmt.Errorf("schema %q: node %q has no id", name, strings.Join(path, "."))
		}
		if _, dup := seen[n.ID]; dup {
			return nil, fmt.Errorf("schema %q: duplicate node id %s", name, n.ID)
		}
		seen[n.ID] = struct{}{}
		if !n.Kind.Valid() {
			return nil, fmt.Errorf("schema %q: node %s has unknown kind %q", name, n.ID, n.Kind)
		}
		if !n.IsObject() && len(n.Children) > 0 {
			return nil, fmt.Errorf("schema %q: non-object node %s has children", name, n.ID)
		}
	}

	return &tree, nil
}

// Save writes a named schema tree, creating the store directory if needed.
func (s *Store) Save(name string, tree *Tree) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create schema directory: %w", err)
	}

	data, err := yaml.Marshal(tree)
	if err != nil {
		return fmt.Errorf("failed to marshal schema %q: %w", name, err)
	}
	if err := os.WriteFile(s.Path(name), data, 0o644); err != nil {
		return fmt.Errorf("failed to write schema %q: %w", name, err)
	}

	s.logger.Debug("saved schema", "name", name, "fields", tree.Len())
	return nil
}

// List returns the names of all saved schemas, sorted.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list schemas: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names, nil
}

// DefaultTree returns the seeded starter schema for legal decisions:
// bibliographic fields plus repeated issue and holding entries.
func DefaultTree() *Tree {
	t := NewTree()

	named := func(name string, kind Kind, repeated bool) *Node {
		n := t.AddRootField()
		n.Name = name
		n.Kind = kind
		n.Repeated = repeated
		if kind == KindObject {
			n.Children = []*Node{}
		}
		return n
	}

	named("case_number", KindText, false)
	named("decision_date", KindDate, false)
	named("case_reason", KindText, false)
	named("parties", KindText, true)
	named("summary", KindText, false)
	named("factual_issues", KindText, true)

	holdings := named("legal_holdings", KindObject, true)
	for _, child := range []string{"category", "granularity", "text"} {
		c, _ := t.AddChildField(holdings.ID)
		c.Name = child
	}

	return t
}
