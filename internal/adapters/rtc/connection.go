package rtc

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/pion/interceptor"
	"github.com/pion/rtp"
	"github.com/pion/webrtc/v4"
	pionmedia "github.com/pion/webrtc/v4/pkg/media"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Morph/internal/core"
	"github.com/dkeye/Morph/internal/media"
)

var errNoOutTrack = errors.New("no outgoing track negotiated")

// Connection implements core.MediaConnection on a pion
// PeerConnection. Transport callbacks are bridged onto the Events
// channel so the session state machine stays callback-free.
type Connection struct {
	pc  *webrtc.PeerConnection
	sid core.SessionID

	decoder Decoder
	encoder Encoder

	events chan core.TransportEvent

	mu     sync.Mutex
	out    *webrtc.TrackLocalStaticSample
	closed bool
}

func WebRTCConfig(stunServer string) webrtc.Configuration {
	return webrtc.Configuration{
		ICEServers: []webrtc.ICEServer{
			{URLs: []string{stunServer}},
		},
	}
}

func NewConnection(cfg webrtc.Configuration, sid core.SessionID, dec Decoder, enc Encoder) (*Connection, error) {
	pc, err := webrtc.NewPeerConnection(cfg)
	if err != nil {
		return nil, err
	}
	c := &Connection{
		pc:      pc,
		sid:     sid,
		decoder: dec,
		encoder: enc,
		events:  make(chan core.TransportEvent, 16),
	}

	pc.OnTrack(func(track *webrtc.TrackRemote, _ *webrtc.RTPReceiver) {
		log.Info().
			Str("module", "rtc").
			Str("sid", string(sid)).
			Str("kind", track.Kind().String()).
			Str("track_id", track.ID()).
			Msg("remote track")
		if track.Kind() != webrtc.RTPCodecTypeVideo {
			return
		}
		if err := c.prepareOutTrack(track); err != nil {
			log.Error().Err(err).Str("module", "rtc").Str("sid", string(sid)).Msg("out track setup")
			return
		}
		c.emit(core.TransportEvent{
			Kind:  core.EventTrack,
			Track: &remoteTrack{src: track, decoder: c.decoder},
		})
	})

	pc.OnConnectionStateChange(func(s webrtc.PeerConnectionState) {
		log.Info().
			Str("module", "rtc").
			Str("sid", string(sid)).
			Str("peer_connection_state", s.String()).
			Msg("peer state")
		switch s {
		case webrtc.PeerConnectionStateConnected:
			c.emit(core.TransportEvent{Kind: core.EventState, State: core.ConnConnected})
		case webrtc.PeerConnectionStateDisconnected:
			c.emit(core.TransportEvent{Kind: core.EventState, State: core.ConnDisconnected})
		case webrtc.PeerConnectionStateFailed:
			c.emit(core.TransportEvent{Kind: core.EventState, State: core.ConnFailed})
			c.shutdown()
		case webrtc.PeerConnectionStateClosed:
			c.emit(core.TransportEvent{Kind: core.EventState, State: core.ConnClosed})
			c.shutdown()
		}
	})

	return c, nil
}

// prepareOutTrack mirrors the incoming video track with a local
// sample track the pipeline writes processed frames to.
func (c *Connection) prepareOutTrack(src *webrtc.TrackRemote) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.out != nil {
		return nil
	}
	out, err := webrtc.NewTrackLocalStaticSample(
		src.Codec().RTPCodecCapability, "processed", "morph")
	if err != nil {
		return err
	}
	if _, err := c.pc.AddTrack(out); err != nil {
		return err
	}
	c.out = out
	return nil
}

// emit never blocks: transport callbacks must not wait on the session
// loop. Events arriving after shutdown are dropped.
func (c *Connection) emit(ev core.TransportEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.events <- ev:
	default:
		log.Warn().
			Str("module", "rtc").
			Str("sid", string(c.sid)).
			Msg("event channel full, dropping transport event")
	}
}

// Negotiate applies the remote offer and returns the local answer
// after ICE gathering completes (non-trickle).
func (c *Connection) Negotiate(ctx context.Context, offerSDP string) (string, error) {
	offer := webrtc.SessionDescription{
		Type: webrtc.SDPTypeOffer,
		SDP:  offerSDP,
	}
	if err := c.pc.SetRemoteDescription(offer); err != nil {
		return "", err
	}
	answer, err := c.pc.CreateAnswer(nil)
	if err != nil {
		return "", err
	}
	gatherComplete := webrtc.GatheringCompletePromise(c.pc)
	if err := c.pc.SetLocalDescription(answer); err != nil {
		return "", err
	}
	select {
	case <-gatherComplete:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	return c.pc.LocalDescription().SDP, nil
}

func (c *Connection) Events() <-chan core.TransportEvent { return c.events }

// Send encodes one processed frame and writes it to the outgoing
// track.
func (c *Connection) Send(_ context.Context, f *media.Frame) error {
	c.mu.Lock()
	out := c.out
	c.mu.Unlock()
	if out == nil {
		return errNoOutTrack
	}
	payload, dur, err := c.encoder.Encode(f)
	if err != nil {
		return err
	}
	return out.WriteSample(pionmedia.Sample{Data: payload, Duration: dur})
}

func (c *Connection) Close() {
	if err := c.pc.Close(); err != nil {
		log.Error().Err(err).Str("module", "rtc").Str("sid", string(c.sid)).Msg("close error")
	}
	c.shutdown()
}

func (c *Connection) shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.events)
}

// rtpTrack is the slice of *webrtc.TrackRemote the pump needs.
type rtpTrack interface {
	SetReadDeadline(t time.Time) error
	ReadRTP() (*rtp.Packet, interceptor.Attributes, error)
}

// remoteTrack adapts a pion TrackRemote plus a Decoder into the
// core.TrackSource the pipeline consumes.
type remoteTrack struct {
	src     rtpTrack
	decoder Decoder
}

// Recv reads RTP packets until the decoder yields a full frame. The
// read deadline keeps cancellation responsive; pion reads have no
// ctx. A track that cannot take a deadline would otherwise block
// Recv indefinitely, so that failure ends the track.
func (t *remoteTrack) Recv(ctx context.Context) (*media.Frame, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := t.src.SetReadDeadline(time.Now().Add(time.Second)); err != nil {
			return nil, fmt.Errorf("set read deadline: %w", err)
		}
		pkt, _, err := t.src.ReadRTP()
		if err != nil {
			var nerr interface{ Timeout() bool }
			if errors.As(err, &nerr) && nerr.Timeout() {
				continue
			}
			return nil, err
		}
		frame, err := t.decoder.Decode(pkt)
		if err != nil {
			return nil, err
		}
		if frame != nil {
			return frame, nil
		}
	}
}
