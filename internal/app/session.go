package app

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Morph/internal/core"
)

// Session binds one media connection to one frame pipeline and owns
// the lifecycle state machine:
//
//	Negotiating -> Connected -> Closed
//	Negotiating -> Failed, Connected -> Failed
//
// Transitions are driven by transport events and by the registry's
// idle sweep. A single failed frame never terminates a session.
type Session struct {
	ID core.SessionID

	state        atomic.Int32
	createdAt    time.Time
	lastActivity atomic.Int64 // unix nanos
	frameCount   atomic.Uint64

	identity *identityCache

	// mu orders attach against the terminal transition, so a session
	// evicted mid-negotiation can never adopt a transport.
	mu     sync.Mutex
	conn   core.MediaConnection
	cancel context.CancelFunc

	termOnce   sync.Once
	onTerminal func(*Session)

	logger zerolog.Logger
}

func newSession(sid core.SessionID, now time.Time) *Session {
	s := &Session{
		ID:        sid,
		createdAt: now,
		identity:  &identityCache{},
		logger: log.With().
			Str("module", "app.session").
			Str("sid", string(sid)).
			Logger(),
	}
	s.state.Store(int32(core.StateNegotiating))
	s.lastActivity.Store(now.UnixNano())
	return s
}

func (s *Session) State() core.SessionState {
	return core.SessionState(s.state.Load())
}

func (s *Session) CreatedAt() time.Time { return s.createdAt }

func (s *Session) LastActivity() time.Time {
	return time.Unix(0, s.lastActivity.Load())
}

func (s *Session) FrameCount() uint64 { return s.frameCount.Load() }

// touch records one processed frame and returns the new count.
func (s *Session) touch() uint64 {
	s.lastActivity.Store(time.Now().UnixNano())
	return s.frameCount.Add(1)
}

// attach binds a negotiated connection and starts the event loop. The
// pipeline is spawned when the transport reports its media track. If
// the session went terminal while negotiation was in flight (idle
// sweep, explicit removal), the connection is released here and
// core.ErrSessionClosed returned instead of attaching.
func (s *Session) attach(ctx context.Context, conn core.MediaConnection, pl *pipeline) error {
	s.mu.Lock()
	if s.State().Terminal() {
		s.mu.Unlock()
		conn.Close()
		return core.ErrSessionClosed
	}
	ctx, cancel := context.WithCancel(ctx)
	s.conn = conn
	s.cancel = cancel
	s.mu.Unlock()
	go s.run(ctx, pl)
	return nil
}

func (s *Session) run(ctx context.Context, pl *pipeline) {
	for {
		select {
		case <-ctx.Done():
			s.terminate(core.StateClosed)
			return
		case ev, ok := <-s.conn.Events():
			if !ok {
				s.terminate(core.StateClosed)
				return
			}
			switch ev.Kind {
			case core.EventTrack:
				s.logger.Info().Msg("media track available, starting pipeline")
				go pl.loop(ctx, ev.Track, s.conn, &s.logger)
			case core.EventState:
				s.logger.Info().Str("conn_state", ev.State.String()).Msg("transport state")
				switch ev.State {
				case core.ConnConnected:
					// Connected only moves forward from Negotiating.
					s.state.CompareAndSwap(
						int32(core.StateNegotiating), int32(core.StateConnected))
				case core.ConnDisconnected, core.ConnFailed:
					s.terminate(core.StateFailed)
					return
				case core.ConnClosed:
					s.terminate(core.StateClosed)
					return
				}
			}
		}
	}
}

// Close transitions the session to Closed and releases the transport.
// Idempotent; the first terminal transition wins.
func (s *Session) Close() { s.terminate(core.StateClosed) }

// fail is the error exit, used when negotiation never completes.
func (s *Session) fail() { s.terminate(core.StateFailed) }

func (s *Session) terminate(final core.SessionState) {
	s.termOnce.Do(func() {
		// State flips terminal inside the lock: any concurrent attach
		// either sees it and backs off, or completed first and its
		// connection is picked up here.
		s.mu.Lock()
		s.state.Store(int32(final))
		cancel, conn := s.cancel, s.conn
		s.mu.Unlock()
		if cancel != nil {
			cancel()
		}
		if conn != nil {
			conn.Close()
		}
		s.logger.Info().
			Str("state", final.String()).
			Uint64("frames", s.frameCount.Load()).
			Msg("session terminated")
		if s.onTerminal != nil {
			s.onTerminal(s)
		}
	})
}
