package core

import "github.com/google/uuid"

type SessionID string

// NewSessionID generates an id for sessions the orchestrator did not
// name itself.
func NewSessionID() SessionID {
	return SessionID(uuid.NewString())
}

func (s SessionID) String() string { return string(s) }

// SessionState is the session lifecycle position. Negotiating and
// Connected count against capacity; Closed and Failed are terminal
// and differ only for observability.
type SessionState int32

const (
	StateNegotiating SessionState = iota
	StateConnected
	StateClosed
	StateFailed
)

func (s SessionState) String() string {
	switch s {
	case StateNegotiating:
		return "negotiating"
	case StateConnected:
		return "connected"
	case StateClosed:
		return "closed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether the state is an exit state.
func (s SessionState) Terminal() bool {
	return s == StateClosed || s == StateFailed
}
