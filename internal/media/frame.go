// Package media holds raw video frame types and the pure pixel
// transforms the pipeline applies around the swap stage. Nothing here
// touches transport or sessions.
package media

// Rational is a frame time base (seconds per tick = Num/Den).
type Rational struct {
	Num int
	Den int
}

// Frame is one decoded video frame: interleaved 8-bit samples,
// Channels per pixel, row-major. PTS and TimeBase travel with the
// pixel data and must survive the pipeline untouched.
type Frame struct {
	Data     []byte
	Width    int
	Height   int
	Channels int
	PTS      int64
	TimeBase Rational
}

// Size returns the expected length of Data.
func (f *Frame) Size() int {
	return f.Width * f.Height * f.Channels
}

// Clone deep-copies the frame, metadata included.
func (f *Frame) Clone() *Frame {
	out := *f
	out.Data = make([]byte, len(f.Data))
	copy(out.Data, f.Data)
	return &out
}

// Tensor is a float32 sample block as produced by a swap model,
// before clamping and quantization back to 8-bit.
type Tensor struct {
	Data     []float32
	Width    int
	Height   int
	Channels int
}

// NormalizeLayout fixes the channel layout up to 3-channel: a
// single-channel frame is replicated across three channels, a
// 4-channel frame drops its last (alpha) channel. 3-channel frames
// pass through unchanged (same pointer). PTS and TimeBase are kept.
func NormalizeLayout(f *Frame) *Frame {
	switch f.Channels {
	case 3:
		return f
	case 1:
		out := &Frame{
			Data:     make([]byte, f.Width*f.Height*3),
			Width:    f.Width,
			Height:   f.Height,
			Channels: 3,
			PTS:      f.PTS,
			TimeBase: f.TimeBase,
		}
		for i, v := range f.Data {
			out.Data[i*3] = v
			out.Data[i*3+1] = v
			out.Data[i*3+2] = v
		}
		return out
	case 4:
		out := &Frame{
			Data:     make([]byte, f.Width*f.Height*3),
			Width:    f.Width,
			Height:   f.Height,
			Channels: 3,
			PTS:      f.PTS,
			TimeBase: f.TimeBase,
		}
		n := f.Width * f.Height
		for i := 0; i < n; i++ {
			out.Data[i*3] = f.Data[i*4]
			out.Data[i*3+1] = f.Data[i*4+1]
			out.Data[i*3+2] = f.Data[i*4+2]
		}
		return out
	default:
		return f
	}
}

// BlackFrame returns an all-zero 3-channel frame of the given size.
func BlackFrame(w, h int) *Frame {
	return &Frame{
		Data:     make([]byte, w*h*3),
		Width:    w,
		Height:   h,
		Channels: 3,
	}
}

// Quantize clamps tensor samples to [0,255], rounds them back to
// 8-bit and re-attaches ref's PTS and TimeBase. A nil, empty or
// zero-size tensor yields a black fallback frame instead of an error.
func Quantize(t *Tensor, ref *Frame, fallbackW, fallbackH int) *Frame {
	if t == nil || len(t.Data) == 0 || t.Width <= 0 || t.Height <= 0 {
		out := BlackFrame(fallbackW, fallbackH)
		out.PTS = ref.PTS
		out.TimeBase = ref.TimeBase
		return out
	}
	out := &Frame{
		Data:     make([]byte, len(t.Data)),
		Width:    t.Width,
		Height:   t.Height,
		Channels: t.Channels,
		PTS:      ref.PTS,
		TimeBase: ref.TimeBase,
	}
	for i, v := range t.Data {
		switch {
		case v <= 0:
			out.Data[i] = 0
		case v >= 255:
			out.Data[i] = 255
		default:
			out.Data[i] = byte(v + 0.5)
		}
	}
	return out
}

// FromFrame lifts an 8-bit frame into a float tensor. Used by engines
// that hand the original pixels back on a swap miss.
func FromFrame(f *Frame) *Tensor {
	t := &Tensor{
		Data:     make([]float32, len(f.Data)),
		Width:    f.Width,
		Height:   f.Height,
		Channels: f.Channels,
	}
	for i, v := range f.Data {
		t.Data[i] = float32(v)
	}
	return t
}
