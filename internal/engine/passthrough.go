// Package engine hosts detector/swap implementations. Real model
// backends (insightface, deepfacelive) implement core.Engine against
// an inference runtime; Passthrough is the end of the original
// fallback chain and the engine used when no model is loadable.
package engine

import (
	"github.com/dkeye/Morph/internal/domain"
	"github.com/dkeye/Morph/internal/media"
)

// Passthrough detects nothing and swaps nothing: every frame comes
// back unmodified. Useful for transport bring-up and CPU-only nodes.
type Passthrough struct{}

func (Passthrough) Detect(_ *media.Frame) ([]domain.Identity, error) {
	return nil, nil
}

func (Passthrough) Swap(_ domain.Identity, target *media.Frame) (*media.Tensor, error) {
	return media.FromFrame(target), nil
}

func (Passthrough) ModelType() string { return "passthrough" }
