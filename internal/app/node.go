package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Morph/internal/core"
	"github.com/dkeye/Morph/internal/domain"
	"github.com/dkeye/Morph/internal/signaling"
)

// Node ties the registry, the engine and the signaling client
// together. Both offer ingress paths (the inline control request and
// the orchestrator poll loop) funnel through HandleOffer, so capacity
// is enforced identically for both.
type Node struct {
	ID        string
	Registry  *Registry
	Engine    core.Engine
	Factory   core.ConnectionFactory
	Signaling *signaling.Client
	Probe     core.ResourceProbe

	// BaseCtx bounds session lifetimes to the process, not to the
	// request that admitted them. Defaults to context.Background().
	BaseCtx context.Context

	PollInterval   time.Duration
	HealthInterval time.Duration
	FallbackWidth  int
	FallbackHeight int

	// Optional working size for the pipeline; zero means frames are
	// processed at their native resolution.
	TargetWidth  int
	TargetHeight int
}

// HandleOffer runs the full admit -> negotiate -> attach sequence and
// returns the answer SDP plus the (possibly generated) session id.
// Capacity rejection happens before any transport work.
func (n *Node) HandleOffer(ctx context.Context, sid core.SessionID, offerSDP string) (string, core.SessionID, error) {
	sess, err := n.Registry.Admit(sid)
	if err != nil {
		return "", "", err
	}

	conn, err := n.Factory.New(sess.ID)
	if err != nil {
		sess.fail()
		return "", "", fmt.Errorf("%w: %v", core.ErrNegotiation, err)
	}

	answer, err := conn.Negotiate(ctx, offerSDP)
	if err != nil {
		conn.Close()
		sess.fail()
		return "", "", fmt.Errorf("%w: %v", core.ErrNegotiation, err)
	}

	pl := &pipeline{
		engine:    n.Engine,
		sess:      sess,
		fallbackW: n.FallbackWidth,
		fallbackH: n.FallbackHeight,
		targetW:   n.TargetWidth,
		targetH:   n.TargetHeight,
	}
	base := n.BaseCtx
	if base == nil {
		base = context.Background()
	}
	if err := sess.attach(base, conn, pl); err != nil {
		// Evicted while negotiating; the transport is already released.
		return "", "", err
	}

	log.Info().
		Str("module", "app.node").
		Str("sid", string(sess.ID)).
		Msg("session negotiated")
	return answer, sess.ID, nil
}

// Health builds the snapshot served by the control surface and
// reported to the orchestrator.
func (n *Node) Health() domain.Health {
	return domain.Health{
		Status:         "ok",
		Model:          n.Engine.ModelType(),
		GPU:            n.Probe.GPUName(),
		MemoryUsed:     n.Probe.MemoryUsedGB(),
		ActiveSessions: n.Registry.ActiveCount(),
		NodeID:         n.ID,
	}
}

// Register announces the node to the orchestrator once, best-effort.
// Failure never prevents the node from serving sessions.
func (n *Node) Register(ctx context.Context, port int) {
	if n.Signaling == nil {
		return
	}
	info := domain.NodeInfo{
		NodeID: n.ID,
		GPU:    n.Probe.GPUName(),
		Status: "ready",
		Port:   port,
	}
	if err := n.Signaling.Register(ctx, info); err != nil {
		log.Error().Err(err).Str("module", "app.node").Msg("node registration failed")
		return
	}
	log.Info().Str("module", "app.node").Str("node_id", n.ID).Msg("registered with orchestrator")
}

// PollLoop pulls pending offers from the orchestrator at a fixed
// cadence. Each offer goes through the same HandleOffer path as the
// inline one; the answer is dispatched back asynchronously, tagged
// with the offer's session id. Errors are dropped for the cycle.
func (n *Node) PollLoop(ctx context.Context) {
	if n.Signaling == nil {
		return
	}
	t := time.NewTicker(n.PollInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n.pollOnce(ctx)
		}
	}
}

func (n *Node) pollOnce(ctx context.Context) {
	offer, err := n.Signaling.PollOffer(ctx)
	if err != nil {
		log.Error().Err(err).Str("module", "app.node").Msg("offer poll failed")
		return
	}
	if offer == nil || offer.Offer == "" {
		return
	}

	answer, sid, err := n.HandleOffer(ctx, core.SessionID(offer.SessionID), offer.Offer)
	if err != nil {
		log.Error().Err(err).
			Str("module", "app.node").
			Str("sid", offer.SessionID).
			Msg("polled offer rejected")
		return
	}
	if err := n.Signaling.SendAnswer(ctx, string(sid), answer); err != nil {
		log.Error().Err(err).
			Str("module", "app.node").
			Str("sid", string(sid)).
			Msg("answer dispatch failed")
	}
}

// HealthLoop reports health snapshots at the configured interval and
// drives the idle sweep on the same tick. A missed report is lost;
// the next tick is independent.
func (n *Node) HealthLoop(ctx context.Context) {
	t := time.NewTicker(n.HealthInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			if evicted := n.Registry.SweepIdle(now); evicted > 0 {
				log.Info().Str("module", "app.node").Int("evicted", evicted).Msg("idle sweep")
			}
			if n.Signaling == nil {
				continue
			}
			if err := n.Signaling.ReportHealth(ctx, n.Health()); err != nil {
				log.Error().Err(err).Str("module", "app.node").Msg("health report failed")
			}
		}
	}
}
