package diagnostics

import (
	"context"
	"fmt"

	"opencode-diag/internal/domain"
)

// Resource pressure thresholds as whole percentages.
const (
	cpuWarnPercent  = 70
	cpuErrorPercent = 90
	memWarnPercent  = 85
	memErrorPercent = 95
)

// checkLocalResources samples CPU and memory utilization and grades them
// against the pressure thresholds. The CPU number is an average across
// cores over a short sampling window.
func (c *Checker) checkLocalResources(ctx context.Context) domain.CheckResult {
	const name = "LOCAL RESOURCES"

	percents, err := c.cpuPercent(ctx, cpuSampleInterval)
	if err != nil {
		return domain.NewCheckResult(name, domain.CheckStatusWarning, fmt.Sprintf("Could not sample CPU: %v", err))
	}
	var cpuUsage float64
	if len(percents) > 0 {
		cpuUsage = percents[0]
	}

	vm, err := c.virtualMemory(ctx)
	if err != nil {
		return domain.NewCheckResult(name, domain.CheckStatusWarning, fmt.Sprintf("Could not sample memory: %v", err))
	}
	memUsage := vm.UsedPercent

	status := domain.CheckStatusOk
	switch {
	case cpuUsage > cpuErrorPercent || memUsage > memErrorPercent:
		status = domain.CheckStatusError
	case cpuUsage > cpuWarnPercent || memUsage > memWarnPercent:
		status = domain.CheckStatusWarning
	}
	return domain.NewCheckResult(name, status, fmt.Sprintf("CPU: %d%% :: RAM: %d%%", int(cpuUsage), int(memUsage)))
}
