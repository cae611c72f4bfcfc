package prompts

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Store resolves prompts against a directory of operator overrides.
//
// Resolution order:
//  1. Override file in the prompts directory, if it exists
//  2. Embedded default
type Store struct {
	dir    string
	logger *slog.Logger
}

// NewStore creates a prompt store rooted at dir.
func NewStore(dir string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{dir: dir, logger: logger}
}

// System returns the system prompt, preferring an operator override.
func (s *Store) System() string {
	return s.resolve(SystemFileName, defaultSystemPrompt)
}

// UserTemplate returns the user prompt template text, preferring an
// operator override.
func (s *Store) UserTemplate() string {
	return s.resolve(UserFileName, defaultUserTmpl)
}

// SaveSystem persists an operator override for the system prompt.
func (s *Store) SaveSystem(text string) error {
	return s.save(SystemFileName, text)
}

// SaveUserTemplate persists an operator override for the user template.
func (s *Store) SaveUserTemplate(text string) error {
	return s.save(UserFileName, text)
}

// IsOverridden reports whether an override file exists for the given
// prompt file name.
func (s *Store) IsOverridden(name string) bool {
	_, err := os.Stat(filepath.Join(s.dir, name))
	return err == nil
}

func (s *Store) resolve(name, fallback string) string {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("failed to read prompt override, using default",
				"file", name, "error", err)
		}
		return fallback
	}
	return string(data)
}

func (s *Store) save(name, text string) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create prompts directory: %w", err)
	}
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("failed to write prompt %s: %w", name, err)
	}
	s.logger.Debug("saved prompt override", "file", name)
	return nil
}
