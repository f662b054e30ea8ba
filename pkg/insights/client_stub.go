package insights

import (
	"context"
	"sync"
)

// StubClient is a controllable Client for tests. Calls answer immediately
// with the configured response unless a gate was registered for their call
// index, in which case they block until the test releases them. Per-call
// gates let tests order in-flight responses deliberately.
type StubClient struct {
	mu       sync.Mutex
	response string
	err      error
	calls    int
	prompts  []string
	gates    []chan string
}

func NewStubClient(response string) *StubClient {
	return &StubClient{response: response}
}

func (s *StubClient) GenerateAdvice(ctx context.Context, prompt string) (string, error) {
	s.mu.Lock()
	call := s.calls
	s.calls++
	s.prompts = append(s.prompts, prompt)
	response, err := s.response, s.err
	var gate chan string
	if call < len(s.gates) {
		gate = s.gates[call]
	}
	s.mu.Unlock()

	if gate != nil {
		select {
		case text := <-gate:
			return text, nil
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return response, err
}

// GateNext registers a gate for the next not-yet-gated call and returns the
// channel the test must send that call's response on.
func (s *StubClient) GateNext() chan string {
	s.mu.Lock()
	defer s.mu.Unlock()
	gate := make(chan string)
	s.gates = append(s.gates, gate)
	return gate
}

func (s *StubClient) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *StubClient) Respond(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.response = text
	s.err = nil
}

func (s *StubClient) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *StubClient) LastPrompt() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.prompts) == 0 {
		return ""
	}
	return s.prompts[len(s.prompts)-1]
}
