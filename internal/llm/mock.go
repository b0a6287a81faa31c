// internal/llm/mock.go
package llm

import (
	"context"
	"strings"
	"sync"
)

// MockAdapter returns deterministic responses for tests. Responses are keyed
// by prompt substring; the first matching key wins.
type MockAdapter struct {
	mu              sync.Mutex
	responses       map[string]string
	defaultResponse string
	Err             error
	Calls           []string
}

// NewMockAdapter creates a mock adapter with a default response.
func NewMockAdapter() *MockAdapter {
	return &MockAdapter{
		responses:       make(map[string]string),
		defaultResponse: "mock response",
	}
}

// NewMockAdapterWithResponses creates a mock adapter with substring-keyed responses.
func NewMockAdapterWithResponses(responses map[string]string, defaultResponse string) *MockAdapter {
	if defaultResponse == "" {
		defaultResponse = "mock response"
	}
	if responses == nil {
		responses = make(map[string]string)
	}
	return &MockAdapter{responses: responses, defaultResponse: defaultResponse}
}

// Name returns the adapter identifier.
func (a *MockAdapter) Name() string {
	return "mock"
}

// SetResponse registers a response for prompts containing the given substring.
func (a *MockAdapter) SetResponse(promptSubstring, response string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.responses[promptSubstring] = response
}

// CallCount returns how many times Generate has been invoked.
func (a *MockAdapter) CallCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.Calls)
}

// Generate records the prompt and returns a deterministic response.
func (a *MockAdapter) Generate(_ context.Context, _ string, prompt string, _ Options) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.Calls = append(a.Calls, prompt)

	if a.Err != nil {
		return "", a.Err
	}

	for key, response := range a.responses {
		if strings.Contains(prompt, key) {
			return response, nil
		}
	}
	return a.defaultResponse, nil
}
