package core

import "errors"

var (
	// ErrCapacity: admission rejected, registry full. The session is
	// never created and no transport work happens.
	ErrCapacity = errors.New("session capacity reached")

	// ErrNegotiation wraps transport failures during offer/answer.
	ErrNegotiation = errors.New("negotiation failed")

	// ErrDuplicateSession: the id is already present, or was used by a
	// session that has since been removed. Ids are never reused.
	ErrDuplicateSession = errors.New("session id already used")

	// ErrSessionClosed: the session reached a terminal state before
	// its transport could be attached (evicted or removed while
	// negotiation was still in flight).
	ErrSessionClosed = errors.New("session already closed")
)
