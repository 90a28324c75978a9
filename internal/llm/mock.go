package llm

import "context"

// MockProvider is a scripted provider for tests. Responses are returned in
// order; once exhausted, Err (or an empty response) is returned.
type MockProvider struct {
	Responses []string
	Err       error
	Calls     []Request

	idx int
}

// Name returns the provider name
func (m *MockProvider) Name() string { return "mock" }

// IsAvailable always reports true
func (m *MockProvider) IsAvailable(ctx context.Context) bool { return true }

// Generate returns the next scripted response.
func (m *MockProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	m.Calls = append(m.Calls, req)
	if m.Err != nil {
		return nil, m.Err
	}
	if m.idx >= len(m.Responses) {
		return &Response{Text: "", Model: "mock"}, nil
	}
	text := m.Responses[m.idx]
	m.idx++
	return &Response{Text: text, Model: "mock", TokensUsed: len(text) / 4}, nil
}
