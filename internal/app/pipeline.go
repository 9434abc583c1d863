package app

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/dkeye/Morph/internal/core"
	"github.com/dkeye/Morph/internal/media"
)

// pipeline consumes raw frames from one track, applies the swap stage
// and hands the result back to the transport. One instance per
// session; frames are strictly sequential, one output per input, no
// buffering and no retry.
type pipeline struct {
	engine    core.Engine
	sess      *Session
	fallbackW int
	fallbackH int

	// Optional working size; zero keeps the native resolution.
	targetW int
	targetH int
}

// loop runs until the track ends, the transport rejects a send in a
// way Recv then surfaces, or ctx is canceled. Frame-level failures
// never escape: a failed swap degrades to the original frame.
func (p *pipeline) loop(ctx context.Context, track core.TrackSource, conn core.MediaConnection, logger *zerolog.Logger) {
	for {
		frame, err := track.Recv(ctx)
		if err != nil {
			if ctx.Err() == nil {
				logger.Info().Err(err).Msg("track ended")
			}
			return
		}

		out := p.process(frame, logger)

		if err := conn.Send(ctx, out); err != nil {
			// Degrade: drop this frame, keep the stream going.
			logger.Error().Err(err).Msg("send frame")
		}

		n := p.sess.touch()
		if n%30 == 0 {
			logger.Debug().Uint64("frames", n).Msg("processed frames")
		}
	}
}

// process is one iteration of the per-frame algorithm: resize to the
// working size if one is set, normalize layout, capture the source
// identity if still missing, swap against the cached identity,
// quantize, re-attach timing.
func (p *pipeline) process(frame *media.Frame, logger *zerolog.Logger) *media.Frame {
	if p.targetW > 0 && p.targetH > 0 {
		frame = media.Resize(frame, p.targetW, p.targetH)
	}
	img := media.NormalizeLayout(frame)

	cache := p.sess.identity
	if _, ok := cache.Get(); !ok {
		if cache.Capture(p.engine, img) {
			logger.Info().Msg("source face detected and stored")
		}
	}

	src, ok := cache.Get()
	if !ok {
		// No source yet: pass the frame through unmodified.
		return img
	}

	t, err := p.engine.Swap(src, img)
	if err != nil {
		logger.Error().Err(err).Msg("face swap failed, passing frame through")
		return img
	}
	return media.Quantize(t, img, p.fallbackW, p.fallbackH)
}
