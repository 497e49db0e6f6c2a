package insight

import (
	"context"
	"sync"
	"time"

	"github.com/Veraticus/parayon/internal/llm"
)

// MockGenerator is a test implementation of the Generator interface.
// It returns Reply (or Err) for every request and records what it was asked.
type MockGenerator struct {
	Err   error
	Reply string
	Delay time.Duration
	calls []llm.Request
	mu    sync.Mutex
}

// NewMockGenerator creates a mock that answers with reply.
func NewMockGenerator(reply string) *MockGenerator {
	return &MockGenerator{Reply: reply}
}

// Generate records the request and returns the scripted answer.
func (m *MockGenerator) Generate(ctx context.Context, req llm.Request) (llm.Response, error) {
	m.mu.Lock()
	m.calls = append(m.calls, req)
	reply, err, delay := m.Reply, m.Err, m.Delay
	m.mu.Unlock()

	if delay > 0 {
		select {
		case <-ctx.Done():
			return llm.Response{}, ctx.Err()
		case <-time.After(delay):
		}
	}
	if err != nil {
		return llm.Response{}, err
	}
	return llm.Response{Text: reply, Model: "mock"}, nil
}

// Calls returns the recorded requests.
func (m *MockGenerator) Calls() []llm.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]llm.Request, len(m.calls))
	copy(out, m.calls)
	return out
}
