package media

// Resize scales a frame to w×h with nearest-neighbor sampling. Good
// enough for detector input shrinking; the swap model does its own
// alignment. Metadata is preserved.
func Resize(f *Frame, w, h int) *Frame {
	if w <= 0 || h <= 0 || (w == f.Width && h == f.Height) {
		return f
	}
	out := &Frame{
		Data:     make([]byte, w*h*f.Channels),
		Width:    w,
		Height:   h,
		Channels: f.Channels,
		PTS:      f.PTS,
		TimeBase: f.TimeBase,
	}
	for y := 0; y < h; y++ {
		sy := y * f.Height / h
		for x := 0; x < w; x++ {
			sx := x * f.Width / w
			src := (sy*f.Width + sx) * f.Channels
			dst := (y*w + x) * f.Channels
			copy(out.Data[dst:dst+f.Channels], f.Data[src:src+f.Channels])
		}
	}
	return out
}

// Scale resizes by a factor, keeping aspect ratio.
func Scale(f *Frame, factor float64) *Frame {
	if factor <= 0 || factor == 1 {
		return f
	}
	return Resize(f, int(float64(f.Width)*factor), int(float64(f.Height)*factor))
}
