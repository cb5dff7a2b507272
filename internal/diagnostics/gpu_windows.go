//go:build windows

package diagnostics

import (
	"context"

	"github.com/StackExchange/wmi"
	"github.com/cockroachdb/errors"
)

// win32VideoController mirrors the WMI class columns the probe selects.
// Name is a pointer because WMI may report controllers without one.
type win32VideoController struct {
	Name *string
}

// wmiGPUProber enumerates video controllers through WMI. The class exposes
// no live utilization counters, so usage stays unknown.
type wmiGPUProber struct{}

// newGPUProber returns the WMI-backed prober on Windows.
func newGPUProber() gpuProber {
	return wmiGPUProber{}
}

// Probe queries Win32_VideoController inside the GPU query timeout.
func (wmiGPUProber) Probe(ctx context.Context) ([]gpuInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, gpuQueryTimeout)
	defer cancel()

	var controllers []win32VideoController
	query := "SELECT Name FROM Win32_VideoController"
	if err := wmi.QueryWithContext(ctx, query, &controllers); err != nil {
		return nil, errors.Wrap(err, "query video controllers")
	}

	gpus := make([]gpuInfo, 0, len(controllers))
	for _, vc := range controllers {
		if vc.Name == nil || *vc.Name == "" {
			continue
		}
		gpus = append(gpus, gpuInfo{name: *vc.Name})
	}
	return gpus, nil
}
