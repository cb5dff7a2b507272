package diagnostics

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/shirou/gopsutil/v4/process"

	"opencode-diag/internal/domain"
)

// Process probe thresholds.
const (
	processMemoryWarnMB = 2000
	terminalWarnCount   = 10
)

// openCodeProcessName is the lowercase substring that identifies the
// monitored process.
const openCodeProcessName = "opencode"

// processInfo is the minimal per-process sample the process probes consume.
type processInfo struct {
	pid      int32
	name     string
	memBytes uint64
}

// listProcesses samples the name, PID, and resident memory of every visible
// process. Processes that disappear mid-scan are skipped.
func listProcesses(ctx context.Context) ([]processInfo, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, err
	}

	infos := make([]processInfo, 0, len(procs))
	for _, p := range procs {
		name, err := p.NameWithContext(ctx)
		if err != nil || name == "" {
			continue
		}
		info := processInfo{pid: p.Pid, name: name}
		if mi, err := p.MemoryInfoWithContext(ctx); err == nil && mi != nil {
			info.memBytes = mi.RSS
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// checkOpenCodeProcess looks for the monitored process by name substring
// and reports its memory footprint.
func (c *Checker) checkOpenCodeProcess(ctx context.Context) domain.CheckResult {
	const name = "OPENCODE"

	procs, err := c.processes(ctx)
	if err != nil {
		return domain.NewCheckResult(name, domain.CheckStatusWarning, fmt.Sprintf("Could not list processes: %v", err))
	}

	var matches []processInfo
	for _, p := range procs {
		if strings.Contains(strings.ToLower(p.name), openCodeProcessName) {
			matches = append(matches, p)
		}
	}
	if len(matches) == 0 {
		return domain.NewCheckResult(name, domain.CheckStatusInactive, "Process not detected")
	}

	var total uint64
	for _, p := range matches {
		total += p.memBytes
	}
	memMB := total / (1 << 20)

	details := fmt.Sprintf("PID %d :: %dMB", matches[0].pid, memMB)
	if len(matches) > 1 {
		details += fmt.Sprintf(" (%d instances)", len(matches))
	}

	status := domain.CheckStatusOk
	if memMB > processMemoryWarnMB {
		status = domain.CheckStatusWarning
	}
	return domain.NewCheckResult(name, status, details)
}

// checkTerminals counts known terminal emulator processes and their
// combined memory.
func (c *Checker) checkTerminals(ctx context.Context) domain.CheckResult {
	const name = "TERMINALS"

	procs, err := c.processes(ctx)
	if err != nil {
		return domain.NewCheckResult(name, domain.CheckStatusWarning, fmt.Sprintf("Could not list processes: %v", err))
	}

	var cmdCount, psCount, wtCount int
	var total uint64
	for _, p := range procs {
		lower := strings.ToLower(p.name)
		switch {
		case lower == "cmd.exe":
			cmdCount++
		case strings.Contains(lower, "powershell"):
			psCount++
		case lower == "windowsterminal.exe" || lower == "wt.exe":
			wtCount++
		default:
			continue
		}
		total += p.memBytes
	}

	count := cmdCount + psCount + wtCount
	if count == 0 {
		return domain.NewCheckResult(name, domain.CheckStatusInactive, "No terminals detected")
	}

	var parts []string
	if cmdCount > 0 {
		parts = append(parts, fmt.Sprintf("cmd:%d", cmdCount))
	}
	if psCount > 0 {
		parts = append(parts, fmt.Sprintf("ps:%d", psCount))
	}
	if wtCount > 0 {
		parts = append(parts, fmt.Sprintf("wt:%d", wtCount))
	}
	details := fmt.Sprintf("%s :: %dMB", strings.Join(parts, " "), total/(1<<20))

	status := domain.CheckStatusOk
	if count > terminalWarnCount {
		status = domain.CheckStatusWarning
	}
	return domain.NewCheckResult(name, status, details)
}

// ProcessUsage is one entry in the top-memory process listing.
type ProcessUsage struct {
	Name     string `json:"name"`
	MemoryMB uint64 `json:"memoryMb"`
}

// TopProcesses returns the heaviest processes by resident memory.
func (c *Checker) TopProcesses(ctx context.Context, limit int) ([]ProcessUsage, error) {
	procs, err := c.processes(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list processes")
	}

	sort.Slice(procs, func(i, j int) bool { return procs[i].memBytes > procs[j].memBytes })
	if limit > 0 && len(procs) > limit {
		procs = procs[:limit]
	}

	top := make([]ProcessUsage, 0, len(procs))
	for _, p := range procs {
		top = append(top, ProcessUsage{Name: p.name, MemoryMB: p.memBytes / (1 << 20)})
	}
	return top, nil
}
