package session

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/caselens/caselens/internal/prompts"
	"github.com/caselens/caselens/internal/providers"
	"github.com/caselens/caselens/internal/schema"
	"github.com/caselens/caselens/internal/validate"
)

func caseTree(t *testing.T) *schema.Tree {
	t.Helper()
	tree := schema.NewTree()

	reason := tree.AddRootField()
	reason.Name = "case_reason"

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

func newSession(t *testing.T, client providers.Client) *Session {
	t.Helper()
	store := prompts.NewStore(t.TempDir(), nil)
	return New("case", caseTree(t), store, client, nil)
}

func TestExtract(t *testing.T) {
	mock := providers.NewMockClient(`{
		"case_reason": "breach of contract",
		"holdings": [{"category": "liability", "text": "seller is liable"}]
	}`)
	sess := newSession(t, mock)

	res, err := sess.Extract(context.Background(), "the judgment text")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	reason, _ := res.Value.Field("case_reason")
	if reason.Text() != "breach of contract" {
		t.Errorf("case_reason = %q", reason.Text())
	}
	if res.Contract == nil || res.Contract.Name != "case" {
		t.Errorf("contract = %+v", res.Contract)
	}
	if res.Usage == nil || res.Usage.Provider != "mock" {
		t.Errorf("usage = %+v", res.Usage)
	}

	// The request carries the document, the serialized contract, and a
	// system prompt.
	req := mock.Requests[0]
	if req.SystemPrompt == "" {
		t.Error("system prompt missing from request")
	}
	if !strings.Contains(req.UserPrompt, "the judgment text") {
		t.Error("document missing from user prompt")
	}
	if !strings.Contains(req.UserPrompt, "holdings") {
		t.Error("contract schema missing from user prompt")
	}
	if req.Schema == nil || req.SchemaName != "case" {
		t.Errorf("schema attachment = %q %v", req.SchemaName, req.Schema)
	}
}

func TestExtractModelOverride(t *testing.T) {
	mock := providers.NewMockClient(`{"case_reason": "x", "holdings": []}`)
	sess := newSession(t, mock)
	sess.Model = "gpt-4o"

	if _, err := sess.Extract(context.Background(), "doc"); err != nil {
		t.Fatal(err)
	}
	if mock.Requests[0].Model != "gpt-4o" {
		t.Errorf("request model = %q, want gpt-4o", mock.Requests[0].Model)
	}
}

func TestExtractDegenerateSchema(t *testing.T) {
	mock := providers.NewMockClient(`{}`)
	store := prompts.NewStore(t.TempDir(), nil)
	sess := New("case", schema.NewTree(), store, mock, nil)

	_, err := sess.Extract(context.Background(), "doc")
	if !errors.Is(err, ErrDegenerateSchema) {
		t.Errorf("error = %v, want ErrDegenerateSchema", err)
	}
	if mock.CallCount() != 0 {
		t.Error("degenerate schema must not reach the provider")
	}
}

func TestExtractValidationFailure(t *testing.T) {
	mock := providers.NewMockClient(`{"holdings": "not a list"}`)
	sess := newSession(t, mock)

	_, err := sess.Extract(context.Background(), "doc")
	var verr *validate.Error
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v, want *validate.Error", err)
	}
	if len(verr.Failures) != 1 || verr.Failures[0].Path != "holdings" {
		t.Errorf("failures = %v", verr.Failures)
	}
	if len(verr.Raw) == 0 {
		t.Error("offending raw response not preserved")
	}
}

func TestExtractUnparseableOutput(t *testing.T) {
	mock := providers.NewMockClient("the model rambled instead of answering")
	sess := newSession(t, mock)

	_, err := sess.Extract(context.Background(), "doc")
	var uerr *providers.UnparseableError
	if !errors.As(err, &uerr) {
		t.Fatalf("error = %v, want *UnparseableError", err)
	}
	if uerr.Raw != "the model rambled instead of answering" {
		t.Errorf("raw = %q", uerr.Raw)
	}
}

func TestSetClientSwapsProvider(t *testing.T) {
	first := providers.NewMockClient(`{"case_reason": "from first", "holdings": []}`)
	sess := newSession(t, first)

	res, err := sess.Extract(context.Background(), "doc")
	if err != nil {
		t.Fatal(err)
	}
	reason, _ := res.Value.Field("case_reason")
	if reason.Text() != "from first" {
		t.Fatalf("case_reason = %q", reason.Text())
	}

	second := providers.NewMockClient(`{"case_reason": "from second", "holdings": []}`)
	sess.SetClient(second)

	res, err = sess.Extract(context.Background(), "doc")
	if err != nil {
		t.Fatal(err)
	}
	reason, _ = res.Value.Field("case_reason")
	if reason.Text() != "from second" {
		t.Errorf("case_reason = %q, swap did not take effect", reason.Text())
	}
	if first.CallCount() != 1 || second.CallCount() != 1 {
		t.Errorf("call counts = %d, %d, want 1, 1", first.CallCount(), second.CallCount())
	}
}

func TestTreeSurvivesFailedCycle(t *testing.T) {
	mock := providers.NewMockClient(
		`{"holdings": 42}`,
		`{"case_reason": "x", "holdings": []}`,
	)
	sess := newSession(t, mock)
	before := sess.Tree.Len()

	if _, err := sess.Extract(context.Background(), "doc"); err == nil {
		t.Fatal("first cycle should fail validation")
	}
	if sess.Tree.Len() != before {
		t.Error("failed cycle mutated the tree")
	}

	if _, err := sess.Extract(context.Background(), "doc"); err != nil {
		t.Errorf("retry after failure error = %v", err)
	}
}
