package rtc

import (
	"github.com/pion/webrtc/v4"

	"github.com/dkeye/Morph/internal/core"
)

// Factory builds one Connection per admitted session, sharing the
// ICE config and codec collaborators.
type Factory struct {
	cfg     webrtc.Configuration
	decoder Decoder
	encoder Encoder
}

func NewFactory(stunServer string, dec Decoder, enc Encoder) *Factory {
	return &Factory{
		cfg:     WebRTCConfig(stunServer),
		decoder: dec,
		encoder: enc,
	}
}

func (f *Factory) New(sid core.SessionID) (core.MediaConnection, error) {
	return NewConnection(f.cfg, sid, f.decoder, f.encoder)
}
