package chat

import (
	"context"
	"sync"
)

// fakeCapability records how often each remote step runs
type fakeCapability struct {
	mu sync.Mutex

	loadErr    error
	sessionErr error
	sendErrs   []error
	replies    []string
	// gate holds Load (when loadGate) or Send until closed
	gate     chan struct{}
	loadGate bool

	loads    int
	sessions int
	sends    int
	prompts  []string
	spec     SessionSpec
}

func (f *fakeCapability) Load(ctx context.Context) (Library, error) {
	f.mu.Lock()
	f.loads++
	gate, wait := f.gate, f.loadGate
	err := f.loadErr
	f.mu.Unlock()

	if wait && gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return fakeLibrary{f}, nil
}

func (f *fakeCapability) counts() (loads, sessions, sends int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loads, f.sessions, f.sends
}

type fakeLibrary struct{ f *fakeCapability }

func (l fakeLibrary) NewSession(ctx context.Context, spec SessionSpec) (Session, error) {
	l.f.mu.Lock()
	defer l.f.mu.Unlock()
	l.f.sessions++
	l.f.spec = spec
	if l.f.sessionErr != nil {
		return nil, l.f.sessionErr
	}
	return fakeSession{l.f}, nil
}

type fakeSession struct{ f *fakeCapability }

func (s fakeSession) Send(ctx context.Context, text string) (string, error) {
	s.f.mu.Lock()
	call := s.f.sends
	s.f.sends++
	s.f.prompts = append(s.f.prompts, text)
	gate, wait := s.f.gate, !s.f.loadGate
	var err error
	if call < len(s.f.sendErrs) {
		err = s.f.sendErrs[call]
	}
	reply := "reply to " + text
	if call < len(s.f.replies) {
		reply = s.f.replies[call]
	}
	s.f.mu.Unlock()

	if wait && gate != nil {
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
