package app

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Morph/internal/core"
)

// Registry owns every live session. Capacity counts sessions in
// Negotiating or Connected; terminal sessions free their slot on
// removal. Removed ids are tombstoned and never admitted again.
type Registry struct {
	mu        sync.RWMutex
	sessions  map[core.SessionID]*Session
	tombstone map[core.SessionID]struct{}

	capacity    int
	idleTimeout time.Duration
}

func NewRegistry(capacity int, idleTimeout time.Duration) *Registry {
	return &Registry{
		sessions:    make(map[core.SessionID]*Session),
		tombstone:   make(map[core.SessionID]struct{}),
		capacity:    capacity,
		idleTimeout: idleTimeout,
	}
}

// Admit creates a session in Negotiating state, or rejects it with
// core.ErrCapacity before any transport work begins. An empty sid
// gets a generated id.
func (r *Registry) Admit(sid core.SessionID) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if sid == "" {
		sid = core.NewSessionID()
	}
	if _, ok := r.sessions[sid]; ok {
		return nil, core.ErrDuplicateSession
	}
	if _, ok := r.tombstone[sid]; ok {
		return nil, core.ErrDuplicateSession
	}
	if r.nonTerminalLocked() >= r.capacity {
		return nil, core.ErrCapacity
	}

	s := newSession(sid, time.Now())
	s.onTerminal = func(sess *Session) { r.detach(sess.ID) }
	r.sessions[sid] = s
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("session admitted")
	return s, nil
}

// Remove closes the session (releasing its transport) and deletes it.
// No-op if the id is absent.
func (r *Registry) Remove(sid core.SessionID) {
	r.mu.RLock()
	s, ok := r.sessions[sid]
	r.mu.RUnlock()
	if !ok {
		return
	}
	// Close triggers onTerminal, which detaches from the map.
	s.Close()
}

// detach drops a terminated session from the map. Called from the
// session's terminal transition; must not call back into the session.
func (r *Registry) detach(sid core.SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[sid]; ok {
		delete(r.sessions, sid)
		r.tombstone[sid] = struct{}{}
		log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("session removed")
	}
}

// ActiveCount counts Connected sessions, for health reporting.
func (r *Registry) ActiveCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, s := range r.sessions {
		if s.State() == core.StateConnected {
			n++
		}
	}
	return n
}

// Count counts non-terminal sessions (the capacity figure).
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.nonTerminalLocked()
}

func (r *Registry) nonTerminalLocked() int {
	n := 0
	for _, s := range r.sessions {
		if !s.State().Terminal() {
			n++
		}
	}
	return n
}

// SweepIdle evicts sessions with no frame activity for longer than
// the idle timeout. A session that never processed a frame is exempt
// until the same timeout elapses from its creation (the negotiation
// deadline). Returns the number of sessions evicted.
func (r *Registry) SweepIdle(now time.Time) int {
	r.mu.RLock()
	var stale []*Session
	for _, s := range r.sessions {
		if s.State().Terminal() {
			stale = append(stale, s)
			continue
		}
		if s.FrameCount() == 0 {
			if now.Sub(s.CreatedAt()) > r.idleTimeout {
				stale = append(stale, s)
			}
			continue
		}
		if now.Sub(s.LastActivity()) > r.idleTimeout {
			stale = append(stale, s)
		}
	}
	r.mu.RUnlock()

	for _, s := range stale {
		log.Info().
			Str("module", "app.registry").
			Str("sid", string(s.ID)).
			Str("state", s.State().String()).
			Msg("evicting idle session")
		s.Close()
	}
	return len(stale)
}

// CloseAll tears down every session, for process shutdown.
func (r *Registry) CloseAll() {
	r.mu.RLock()
	all := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		all = append(all, s)
	}
	r.mu.RUnlock()
	for _, s := range all {
		s.Close()
	}
}
