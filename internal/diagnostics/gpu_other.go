//go:build !windows

package diagnostics

import "context"

// stubGPUProber stands in on platforms without a GPU query facility.
type stubGPUProber struct{}

// newGPUProber returns the unsupported-platform prober.
func newGPUProber() gpuProber {
	return stubGPUProber{}
}

// Probe always reports the unsupported-platform sentinel.
func (stubGPUProber) Probe(context.Context) ([]gpuInfo, error) {
	return nil, errGPUUnsupported
}
