package rtc

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/pion/interceptor"
	"github.com/pion/rtp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "read timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

type stubRTPTrack struct {
	deadlineErr error
	deadlines   int
	results     []func() (*rtp.Packet, error)
	idx         int
}

func (t *stubRTPTrack) SetReadDeadline(_ time.Time) error {
	t.deadlines++
	return t.deadlineErr
}

func (t *stubRTPTrack) ReadRTP() (*rtp.Packet, interceptor.Attributes, error) {
	if t.idx >= len(t.results) {
		return nil, nil, io.EOF
	}
	next := t.results[t.idx]
	t.idx++
	pkt, err := next()
	return pkt, nil, err
}

func TestRecvFailsWhenDeadlineCannotBeSet(t *testing.T) {
	track := &remoteTrack{
		src:     &stubRTPTrack{deadlineErr: errors.New("deadline unsupported")},
		decoder: PassCodec{},
	}
	_, err := track.Recv(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "set read deadline")
}

func TestRecvSkipsTimeoutsAndDecodes(t *testing.T) {
	src := &stubRTPTrack{results: []func() (*rtp.Packet, error){
		func() (*rtp.Packet, error) { return nil, timeoutErr{} },
		func() (*rtp.Packet, error) {
			return &rtp.Packet{
				Header:  rtp.Header{Timestamp: 90000},
				Payload: []byte{1, 2, 3},
			}, nil
		},
	}}
	track := &remoteTrack{src: src, decoder: PassCodec{}}

	f, err := track.Recv(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, f.Data)
	assert.Equal(t, int64(90000), f.PTS)
	assert.Equal(t, 2, src.deadlines, "deadline re-armed before every read")
}

func TestRecvSurfacesTrackEnd(t *testing.T) {
	track := &remoteTrack{src: &stubRTPTrack{}, decoder: PassCodec{}}
	_, err := track.Recv(context.Background())
	assert.ErrorIs(t, err, io.EOF)
}

func TestRecvHonorsContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	track := &remoteTrack{src: &stubRTPTrack{}, decoder: PassCodec{}}
	_, err := track.Recv(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
