package app

import (
	"sync"

	"github.com/dkeye/Morph/internal/core"
	"github.com/dkeye/Morph/internal/domain"
	"github.com/dkeye/Morph/internal/media"
)

// identityCache holds the captured source identity for one session.
// The first successfully detected face defines the source for the
// whole session; later captures are no-ops.
type identityCache struct {
	mu  sync.Mutex
	id  domain.Identity
	set bool
}

// Capture runs the detector once and stores the best candidate
// (highest score, first-detected tie-break). Returns true if the
// cache holds an identity afterwards. A detector error or an empty
// result leaves the cache empty; capture is retried on the next frame.
func (c *identityCache) Capture(eng core.Engine, f *media.Frame) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.set {
		return true
	}
	faces, err := eng.Detect(f)
	if err != nil {
		return false
	}
	best, ok := domain.BestIdentity(faces)
	if !ok {
		return false
	}
	c.id = best
	c.set = true
	return true
}

func (c *identityCache) Get() (domain.Identity, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.id, c.set
}
