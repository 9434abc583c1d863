package rtc

import (
	"time"

	"github.com/pion/rtp"

	"github.com/dkeye/Morph/internal/media"
)

// Decoder turns RTP payloads into raw frames. Returns (nil, nil)
// while it is still accumulating packets for the current frame.
// Implementations wrap a real video codec and live outside this
// module.
type Decoder interface {
	Decode(pkt *rtp.Packet) (*media.Frame, error)
}

// Encoder turns a raw frame into an encoded sample payload plus its
// duration, ready for the outgoing track.
type Encoder interface {
	Encode(f *media.Frame) (payload []byte, duration time.Duration, err error)
}
