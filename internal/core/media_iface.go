package core

import (
	"context"

	"github.com/dkeye/Morph/internal/media"
)

// ConnState is the transport connection state as seen by a session.
type ConnState int

const (
	ConnConnected ConnState = iota
	ConnDisconnected
	ConnFailed
	ConnClosed
)

func (s ConnState) String() string {
	switch s {
	case ConnConnected:
		return "connected"
	case ConnDisconnected:
		return "disconnected"
	case ConnFailed:
		return "failed"
	case ConnClosed:
		return "closed"
	default:
		return "unknown"
	}
}

type EventKind int

const (
	EventTrack EventKind = iota
	EventState
)

// TransportEvent is delivered by a MediaConnection into the session's
// state machine. Track is set for EventTrack, State for EventState.
// Keeping transitions on a channel (instead of inline callbacks)
// keeps the whole transition table in Session.run.
type TransportEvent struct {
	Kind  EventKind
	Track TrackSource
	State ConnState
}

// TrackSource yields decoded frames from the remote peer. Recv blocks
// until a frame arrives, the track ends (any error), or ctx is done.
type TrackSource interface {
	Recv(ctx context.Context) (*media.Frame, error)
}

// MediaConnection abstracts the ICE/DTLS/SRTP stack. Owned by the
// session; the session must Close() it on any terminal transition.
// The Events channel is closed when the transport shuts down cleanly.
type MediaConnection interface {
	// Negotiate applies the remote offer and returns the local answer
	// SDP, ICE gathering included.
	Negotiate(ctx context.Context, offerSDP string) (string, error)
	Events() <-chan TransportEvent
	// Send hands one processed frame to the transport for delivery.
	Send(ctx context.Context, f *media.Frame) error
	Close()
}

// ConnectionFactory creates a transport per admitted session, so the
// app layer never imports the WebRTC stack directly.
type ConnectionFactory interface {
	New(sid SessionID) (MediaConnection, error)
}
