package rtc

import (
	"time"

	"github.com/pion/rtp"

	"github.com/dkeye/Morph/internal/media"
)

// PassCodec is the codec used when no real decoder/encoder binding is
// registered: each RTP payload is treated as one opaque sample, so
// the node still relays media (unswapped) end to end. PTS carries the
// RTP timestamp on the standard 90 kHz video clock.
type PassCodec struct{}

func (PassCodec) Decode(pkt *rtp.Packet) (*media.Frame, error) {
	data := make([]byte, len(pkt.Payload))
	copy(data, pkt.Payload)
	return &media.Frame{
		Data:     data,
		PTS:      int64(pkt.Timestamp),
		TimeBase: media.Rational{Num: 1, Den: 90000},
	}, nil
}

func (PassCodec) Encode(f *media.Frame) ([]byte, time.Duration, error) {
	return f.Data, time.Second / 30, nil
}
