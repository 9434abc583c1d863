package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeLayoutGray(t *testing.T) {
	f := &Frame{
		Data:     []byte{10, 20, 30, 40},
		Width:    2,
		Height:   2,
		Channels: 1,
		PTS:      9000,
		TimeBase: Rational{1, 90000},
	}
	out := NormalizeLayout(f)
	require.Equal(t, 3, out.Channels)
	assert.Equal(t, []byte{10, 10, 10, 20, 20, 20, 30, 30, 30, 40, 40, 40}, out.Data)
	assert.Equal(t, f.PTS, out.PTS)
	assert.Equal(t, f.TimeBase, out.TimeBase)
}

func TestNormalizeLayoutDropsAlpha(t *testing.T) {
	f := &Frame{
		Data:     []byte{1, 2, 3, 255, 4, 5, 6, 255},
		Width:    2,
		Height:   1,
		Channels: 4,
	}
	out := NormalizeLayout(f)
	require.Equal(t, 3, out.Channels)
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6}, out.Data)
}

func TestNormalizeLayoutThreeChannelNoop(t *testing.T) {
	f := &Frame{Data: []byte{1, 2, 3}, Width: 1, Height: 1, Channels: 3}
	assert.Same(t, f, NormalizeLayout(f))
}

func TestQuantizeClampsAndRounds(t *testing.T) {
	ref := &Frame{PTS: 1234, TimeBase: Rational{1, 90000}}
	tensor := &Tensor{
		Data:     []float32{-5, 0, 127.6, 255, 300, 42.2},
		Width:    2,
		Height:   1,
		Channels: 3,
	}
	out := Quantize(tensor, ref, 640, 480)
	assert.Equal(t, []byte{0, 0, 128, 255, 255, 42}, out.Data)
	assert.Equal(t, int64(1234), out.PTS)
	assert.Equal(t, Rational{1, 90000}, out.TimeBase)
}

func TestQuantizeEmptyTensorFallsBackToBlack(t *testing.T) {
	ref := &Frame{PTS: 77, TimeBase: Rational{1, 90000}}
	for _, tensor := range []*Tensor{
		nil,
		{},
		{Data: []float32{1}, Width: 0, Height: 1, Channels: 1},
	} {
		out := Quantize(tensor, ref, 4, 2)
		assert.Equal(t, 4, out.Width)
		assert.Equal(t, 2, out.Height)
		assert.Equal(t, 3, out.Channels)
		assert.Len(t, out.Data, 4*2*3)
		for _, b := range out.Data {
			assert.Zero(t, b)
		}
		assert.Equal(t, int64(77), out.PTS)
		assert.Equal(t, ref.TimeBase, out.TimeBase)
	}
}

func TestFromFrameRoundTrip(t *testing.T) {
	f := &Frame{Data: []byte{0, 128, 255}, Width: 1, Height: 1, Channels: 3, PTS: 5}
	out := Quantize(FromFrame(f), f, 640, 480)
	assert.Equal(t, f.Data, out.Data)
	assert.Equal(t, f.PTS, out.PTS)
}

func TestResize(t *testing.T) {
	f := &Frame{
		Data:     []byte{1, 2, 3, 4},
		Width:    2,
		Height:   2,
		Channels: 1,
		PTS:      10,
	}
	out := Resize(f, 1, 1)
	require.Equal(t, 1, out.Width)
	require.Equal(t, 1, out.Height)
	assert.Equal(t, []byte{1}, out.Data)
	assert.Equal(t, int64(10), out.PTS)

	up := Resize(f, 4, 4)
	assert.Len(t, up.Data, 16)
	assert.Equal(t, byte(1), up.Data[0])
	assert.Equal(t, byte(4), up.Data[15])

	assert.Same(t, f, Resize(f, 2, 2))
	assert.Same(t, f, Scale(f, 1))
}
