package engine

import "runtime"

// HostProbe reports process memory in place of GPU telemetry. Nodes
// with CUDA hardware swap in a probe backed by the driver's NVML
// bindings; the health report schema is the same either way.
type HostProbe struct {
	// Name overrides the reported device name; defaults to "CPU".
	Name string
}

func (p HostProbe) GPUName() string {
	if p.Name != "" {
		return p.Name
	}
	return "CPU"
}

func (p HostProbe) MemoryUsedGB() float64 {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return float64(m.Alloc) / (1 << 30)
}
