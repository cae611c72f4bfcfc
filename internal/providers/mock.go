package providers

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MockClient is a canned-response generation client for tests and dry
// runs. Responses are consumed in order; the last one repeats.
type MockClient struct {
	mu        sync.Mutex
	Responses []string
	Err       error

	// Requests records every request received, in order.
	Requests []*GenerateRequest

	calls int
}

// NewMockClient creates a mock client returning the given responses.
func NewMockClient(responses ...string) *MockClient {
	return &MockClient{Responses: responses}
}

// Name returns the provider identifier.
func (m *MockClient) Name() string {
	return "mock"
}

// Generate returns the next canned response.
func (m *MockClient) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.Requests = append(m.Requests, req)
	idx := m.calls
	m.calls++
	m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	if len(m.Responses) == 0 {
		return nil, fmt.Errorf("mock client has no responses configured")
	}
	if idx >= len(m.Responses) {
		idx = len(m.Responses) - 1
	}

	content := m.Responses[idx]
	result := &GenerateResult{
		Content:       content,
		ExecutionTime: time.Millisecond,
		Provider:      "mock",
		ModelUsed:     "mock",
		RequestID:     req.RequestID,
		Attempts:      1,
	}

	parsed, err := ParseStructured(content)
	if err != nil {
		return result, &UnparseableError{Raw: content, Err: err}
	}
	result.ParsedJSON = parsed
	return result, nil
}

// CallCount returns how many requests the mock has served.
func (m *MockClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

var _ Client = (*MockClient)(nil)
