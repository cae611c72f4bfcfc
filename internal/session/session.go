// Package session owns the mutable state of one editing session: the
// schema tree, the prompt store, and the generation client. It runs the
// extraction cycle (compile, generate, validate) as one synchronous
// request/response pass.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/caselens/caselens/internal/contract"
	"github.com/caselens/caselens/internal/prompts"
	"github.com/caselens/caselens/internal/providers"
	"github.com/caselens/caselens/internal/schema"
	"github.com/caselens/caselens/internal/validate"
)

// ErrDegenerateSchema is returned when the schema compiles to a contract
// with no usable fields. Issuing a generation request for it would be
// pointless, so the cycle refuses to start.
var ErrDegenerateSchema = errors.New("schema compiles to a contract with no fields")

// Session holds the state of one editing session. The tree is mutated
// only through its owner; compiled contracts and validated values are
// derived snapshots that never reference the tree.
type Session struct {
	Name   string
	Tree   *schema.Tree
	Prompt *prompts.Store

	// Model overrides the client's default model when non-empty.
	Model string

	mu     sync.RWMutex
	client providers.Client

	logger *slog.Logger
}

// New creates a session around an existing schema tree.
func New(name string, tree *schema.Tree, prompt *prompts.Store, client providers.Client, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		Name:   name,
		Tree:   tree,
		Prompt: prompt,
		client: client,
		logger: logger,
	}
}

// Client returns the session's current generation client.
func (s *Session) Client() providers.Client {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.client
}

// SetClient replaces the generation client. Safe to call while a batch
// run is in flight; the next cycle picks up the new client.
func (s *Session) SetClient(c providers.Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.client = c
}

// Result is the outcome of one successful extraction cycle.
type Result struct {
	Contract *contract.Contract
	Raw      json.RawMessage
	Value    *validate.Value
	Usage    *providers.GenerateResult
}

// Compile compiles the session's current tree, guarding against a
// degenerate contract.
func (s *Session) Compile() (*contract.Contract, error) {
	c := contract.Compile(s.Name, s.Tree)
	if c.Degenerate() {
		return nil, ErrDegenerateSchema
	}
	return c, nil
}

// Extract runs one extraction cycle over the given document text.
//
// Generation and validation failures are terminal for this cycle only:
// the tree is untouched, so the operator can adjust the schema or prompt
// and retry. A *validate.Error preserves the offending raw response.
func (s *Session) Extract(ctx context.Context, document string) (*Result, error) {
	c, err := s.Compile()
	if err != nil {
		return nil, err
	}

	schemaJSON, err := json.MarshalIndent(c.JSONSchema(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize contract: %w", err)
	}

	userPrompt, err := prompts.BuildUserPrompt(s.Prompt.UserTemplate(), prompts.UserPromptData{
		Document: document,
		Schema:   string(schemaJSON),
	})
	if err != nil {
		return nil, err
	}

	req := &providers.GenerateRequest{
		SystemPrompt: s.Prompt.System(),
		UserPrompt:   userPrompt,
		Model:        s.Model,
		SchemaName:   c.Name,
		Schema:       c.JSONSchema(),
	}

	client := s.Client()
	s.logger.Debug("starting extraction cycle",
		"schema", s.Name,
		"fields", len(c.Fields),
		"provider", client.Name())

	gen, err := client.Generate(ctx, req)
	if err != nil {
		return nil, err
	}

	// Second opinion from the schema library; mismatches here are also
	// caught structurally below, so only log.
	if err := providers.ValidateStructured(c.JSONSchema(), gen.ParsedJSON); err != nil {
		s.logger.Warn("structured output failed schema pre-check", "error", err)
	}

	value, err := validate.Validate(gen.ParsedJSON, c)
	if err != nil {
		return nil, err
	}

	s.logger.Info("extraction cycle complete",
		"schema", s.Name,
		"provider", gen.Provider,
		"model", gen.ModelUsed,
		"tokens", gen.TotalTokens,
		"duration", gen.ExecutionTime)

	return &Result{
		Contract: c,
		Raw:      gen.ParsedJSON,
		Value:    value,
		Usage:    gen,
	}, nil
}
