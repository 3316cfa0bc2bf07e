package gemini

import (
	"context"
	"fmt"
	"sync"

	"github.com/nhut0902/landingchat/internal/chat"
)

// MockCapability is an in-memory chat.Capability for tests and offline demos
type MockCapability struct {
	mu sync.Mutex

	// Mock return values
	LoadErr    error
	SessionErr error
	// Replies are returned in order; once exhausted the prompt is echoed.
	Replies []string
	// SendErrs are returned per call in order; nil entries succeed.
	SendErrs []error
	// Gate, when set, holds every Send until it is closed or ctx ends.
	Gate chan struct{}

	// Call counters/recorders
	LoadCalls    int
	SessionCalls int
	SendCalls    int
	LastSpec     chat.SessionSpec
	Prompts      []string
}

var _ chat.Capability = (*MockCapability)(nil)

func (m *MockCapability) Load(ctx context.Context) (chat.Library, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LoadCalls++
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	return mockLibrary{m}, nil
}

// Counts returns the load, session and send call counts
func (m *MockCapability) Counts() (load, session, send int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.LoadCalls, m.SessionCalls, m.SendCalls
}

type mockLibrary struct {
	m *MockCapability
}

func (l mockLibrary) NewSession(ctx context.Context, spec chat.SessionSpec) (chat.Session, error) {
	l.m.mu.Lock()
	defer l.m.mu.Unlock()
	l.m.SessionCalls++
	l.m.LastSpec = spec
	if l.m.SessionErr != nil {
		return nil, l.m.SessionErr
	}
	return mockSession{l.m}, nil
}

type mockSession struct {
	m *MockCapability
}

func (s mockSession) Send(ctx context.Context, text string) (string, error) {
	s.m.mu.Lock()
	call := s.m.SendCalls
	s.m.SendCalls++
	s.m.Prompts = append(s.m.Prompts, text)
	gate := s.m.Gate
	var err error
	if call < len(s.m.SendErrs) {
		err = s.m.SendErrs[call]
	}
	reply := fmt.Sprintf("echo: %s", text)
	if call < len(s.m.Replies) {
		reply = s.m.Replies[call]
	}
	s.m.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if err != nil {
		return "", err
	}
	return reply, nil
}
