package chat

import "time"

// Role identifies who authored a transcript entry
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one transcript entry. Entries are never modified after append.
type Message struct {
	Role Role
	Text string
	At   time.Time
}

// Reply is the outcome of one exchange: either the assistant's Text or the
// Err that prevented it.
type Reply struct {
	Text string
	Err  error
}

// OK reports whether the exchange produced a reply
func (r Reply) OK() bool {
	return r.Err == nil
}

// message converts the outcome into the assistant entry to append. Failed
// exchanges become the fixed fallback text.
func (r Reply) message(fallback string, at time.Time) Message {
	if r.Err != nil {
		return Message{Role: RoleAssistant, Text: fallback, At: at}
	}
	return Message{Role: RoleAssistant, Text: r.Text, At: at}
}

// State is a snapshot of the presentation-facing controller state
type State struct {
	PanelOpen bool
	Input     string
	Busy      bool
	// LastError is the localized fatal initialization message, empty if none.
	LastError  string
	HasSession bool
}

// InputEnabled reports whether the input field accepts typing
func (s State) InputEnabled() bool {
	return !s.Busy && s.LastError == ""
}
