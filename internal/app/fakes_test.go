package app

import (
	"context"
	"io"
	"sync"

	"github.com/dkeye/Morph/internal/core"
	"github.com/dkeye/Morph/internal/domain"
	"github.com/dkeye/Morph/internal/media"
)

type fakeEngine struct {
	mu      sync.Mutex
	faces   []domain.Identity
	detects int
	swapErr error
	swaps   int
}

func (e *fakeEngine) Detect(_ *media.Frame) ([]domain.Identity, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.detects++
	return e.faces, nil
}

func (e *fakeEngine) Swap(_ domain.Identity, target *media.Frame) (*media.Tensor, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.swaps++
	if e.swapErr != nil {
		return nil, e.swapErr
	}
	return media.FromFrame(target), nil
}

func (e *fakeEngine) ModelType() string { return "fake" }

type fakeTrack struct {
	frames []*media.Frame
	idx    int
}

func (t *fakeTrack) Recv(ctx context.Context) (*media.Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if t.idx >= len(t.frames) {
		return nil, io.EOF
	}
	f := t.frames[t.idx]
	t.idx++
	return f, nil
}

type fakeConn struct {
	events chan core.TransportEvent

	mu        sync.Mutex
	sent      []*media.Frame
	closed    bool
	closeOnce sync.Once

	answer       string
	negotiateErr error

	// Optional hooks for tests that interleave with negotiation:
	// negotiateStarted is closed when Negotiate begins, and Negotiate
	// blocks until negotiateGate is closed.
	negotiateStarted chan struct{}
	negotiateGate    chan struct{}
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		events: make(chan core.TransportEvent, 16),
		answer: "v=0 answer",
	}
}

func (c *fakeConn) Negotiate(_ context.Context, _ string) (string, error) {
	if c.negotiateStarted != nil {
		select {
		case <-c.negotiateStarted:
			// already closed by a previous conn sharing the channel
		default:
			close(c.negotiateStarted)
		}
	}
	if c.negotiateGate != nil {
		<-c.negotiateGate
	}
	if c.negotiateErr != nil {
		return "", c.negotiateErr
	}
	return c.answer, nil
}

func (c *fakeConn) Events() <-chan core.TransportEvent { return c.events }

func (c *fakeConn) Send(_ context.Context, f *media.Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, f)
	return nil
}

func (c *fakeConn) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	c.closeOnce.Do(func() { close(c.events) })
}

func (c *fakeConn) sentFrames() []*media.Frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*media.Frame, len(c.sent))
	copy(out, c.sent)
	return out
}

func (c *fakeConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

type fakeFactory struct {
	mu    sync.Mutex
	conns []*fakeConn
	next  func() *fakeConn
	err   error
}

func (f *fakeFactory) New(_ core.SessionID) (core.MediaConnection, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	c := newFakeConn()
	if f.next != nil {
		c = f.next()
	}
	f.conns = append(f.conns, c)
	return c, nil
}

func testFrame(pts int64) *media.Frame {
	return &media.Frame{
		Data:     []byte{1, 2, 3, 4, 5, 6},
		Width:    2,
		Height:   1,
		Channels: 3,
		PTS:      pts,
		TimeBase: media.Rational{Num: 1, Den: 90000},
	}
}
