package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/Morph/internal/domain"
	"github.com/dkeye/Morph/internal/media"
)

func TestPassthroughDetectsNothing(t *testing.T) {
	faces, err := Passthrough{}.Detect(&media.Frame{})
	require.NoError(t, err)
	assert.Empty(t, faces)
}

func TestPassthroughSwapReturnsInput(t *testing.T) {
	f := &media.Frame{Data: []byte{9, 8, 7}, Width: 1, Height: 1, Channels: 3}
	out, err := Passthrough{}.Swap(domain.Identity{}, f)
	require.NoError(t, err)
	q := media.Quantize(out, f, 640, 480)
	assert.Equal(t, f.Data, q.Data)
}

func TestHostProbeDefaults(t *testing.T) {
	assert.Equal(t, "CPU", HostProbe{}.GPUName())
	assert.Equal(t, "A100", HostProbe{Name: "A100"}.GPUName())
	assert.GreaterOrEqual(t, HostProbe{}.MemoryUsedGB(), 0.0)
}
