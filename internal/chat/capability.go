// Package chat implements the assistant panel's session controller: lazy
// creation of one remote session, the transcript, and the send/receive cycle.
package chat

import "context"

// Capability is the remote conversational capability. Load fails with a
// capability load error when the capability cannot be reached at all.
type Capability interface {
	Load(ctx context.Context) (Library, error)
}

// Library constructs authenticated sessions. NewSession fails with a client
// configuration error when the credential or model is unusable.
type Library interface {
	NewSession(ctx context.Context, spec SessionSpec) (Session, error)
}

// Session is an established remote conversation
type Session interface {
	Send(ctx context.Context, text string) (string, error)
}

// SessionSpec carries what a session is created with
type SessionSpec struct {
	APIKey            string
	Model             string
	SystemInstruction string
}
