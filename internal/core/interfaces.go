package core

import (
	"github.com/dkeye/Morph/internal/domain"
	"github.com/dkeye/Morph/internal/media"
)

// Engine is the detector/swap collaborator. Detect returns zero or
// more faces; an empty result is a normal miss, not an error. Swap
// produces the model's raw float output for the target frame with the
// source identity applied; any failure is recoverable by the caller
// (the original frame is sent instead).
type Engine interface {
	Detect(f *media.Frame) ([]domain.Identity, error)
	Swap(src domain.Identity, target *media.Frame) (*media.Tensor, error)
	ModelType() string
}

// ResourceProbe supplies opaque resource-usage figures for health
// reports. GPU implementations live outside this module.
type ResourceProbe interface {
	GPUName() string
	MemoryUsedGB() float64
}
