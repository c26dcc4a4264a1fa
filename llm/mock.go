package llm

import (
	"context"
	"sync"
)

// MockClient replays a scripted sequence of responses. Once the script is
// exhausted it keeps returning the last entry, or plain prose when the script
// is empty, so downstream fallbacks stay reachable in tests and demo runs.
type MockClient struct {
	mu      sync.Mutex
	Script  []string
	Err     error
	Calls   []Prompt
	pos     int
}

func NewMockClient(script ...string) *MockClient {
	return &MockClient{Script: script}
}

func (m *MockClient) Complete(ctx context.Context, prompt Prompt) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, prompt)
	if m.Err != nil {
		return "", m.Err
	}
	if len(m.Script) == 0 {
		return "mock model output", nil
	}
	i := m.pos
	if i >= len(m.Script) {
		i = len(m.Script) - 1
	}
	m.pos++
	return m.Script[i], nil
}

// CallCount reports how many completions were requested.
func (m *MockClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
