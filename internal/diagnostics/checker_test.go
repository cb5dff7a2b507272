package diagnostics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/shirou/gopsutil/v4/mem"

	"opencode-diag/internal/domain"
)

func cpuAt(percent float64) func(context.Context, time.Duration) ([]float64, error) {
	return func(context.Context, time.Duration) ([]float64, error) {
		return []float64{percent}, nil
	}
}

func memAt(percent float64) func(context.Context) (*mem.VirtualMemoryStat, error) {
	return func(context.Context) (*mem.VirtualMemoryStat, error) {
		return &mem.VirtualMemoryStat{UsedPercent: percent}, nil
	}
}

func procList(procs ...processInfo) func(context.Context) ([]processInfo, error) {
	return func(context.Context) ([]processInfo, error) {
		return procs, nil
	}
}

func mb(n uint64) uint64 { return n << 20 }

// healthyChecker assembles a checker whose OS samplers all report a quiet
// machine.
func healthyChecker() *Checker {
	return NewCheckerForTests(
		cpuAt(10),
		memAt(40),
		procList(
			processInfo{pid: 4242, name: "opencode.exe", memBytes: mb(150)},
			processInfo{pid: 77, name: "cmd.exe", memBytes: mb(10)},
		),
		fakeGPUProber{gpus: []gpuInfo{{name: "NVIDIA GeForce RTX 4080", usagePercent: 30, hasUsage: true}}},
	)
}

// TestCheckLocalResourcesThresholds verifies CPU and RAM pressure grading.
func TestCheckLocalResourcesThresholds(t *testing.T) {
	cases := []struct {
		cpu, mem float64
		want     domain.CheckStatus
	}{
		{10, 40, domain.CheckStatusOk},
		{75, 40, domain.CheckStatusWarning},
		{10, 90, domain.CheckStatusWarning},
		{95, 40, domain.CheckStatusError},
		{10, 97, domain.CheckStatusError},
	}
	for _, tc := range cases {
		c := healthyChecker()
		c.cpuPercent = cpuAt(tc.cpu)
		c.virtualMemory = memAt(tc.mem)

		got := c.checkLocalResources(context.Background())
		if got.Status != tc.want {
			t.Fatalf("cpu %.0f mem %.0f: status = %s, want %s", tc.cpu, tc.mem, got.Status, tc.want)
		}
	}

	c := healthyChecker()
	got := c.checkLocalResources(context.Background())
	if got.Details != "CPU: 10% :: RAM: 40%" {
		t.Fatalf("details = %q", got.Details)
	}
}

// TestCheckLocalResourcesSampleFailures verifies sampler errors degrade to
// warnings instead of failing the run.
func TestCheckLocalResourcesSampleFailures(t *testing.T) {
	c := healthyChecker()
	c.cpuPercent = func(context.Context, time.Duration) ([]float64, error) {
		return nil, errors.New("perf counters unavailable")
	}
	got := c.checkLocalResources(context.Background())
	if got.Status != domain.CheckStatusWarning || !strings.Contains(got.Details, "Could not sample CPU") {
		t.Fatalf("cpu failure = %s %q", got.Status, got.Details)
	}

	c = healthyChecker()
	c.virtualMemory = func(context.Context) (*mem.VirtualMemoryStat, error) {
		return nil, errors.New("perf counters unavailable")
	}
	got = c.checkLocalResources(context.Background())
	if got.Status != domain.CheckStatusWarning || !strings.Contains(got.Details, "Could not sample memory") {
		t.Fatalf("memory failure = %s %q", got.Status, got.Details)
	}
}

// TestCheckInternetFallbackChain verifies the primary/fallback/down ladder.
func TestCheckInternetFallbackChain(t *testing.T) {
	up := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	t.Cleanup(up.Close)
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(down.Close)

	c := healthyChecker()
	c.primaryURL = up.URL
	c.fallbackURL = down.URL
	got := c.checkInternet(context.Background())
	if got.Status != domain.CheckStatusOk || !strings.Contains(got.Details, "google.com reachable") {
		t.Fatalf("primary up = %s %q", got.Status, got.Details)
	}
	if !strings.HasPrefix(got.Details, "PING: ") {
		t.Fatalf("details = %q, want ping prefix", got.Details)
	}

	c.primaryURL = down.URL
	c.fallbackURL = up.URL
	got = c.checkInternet(context.Background())
	if got.Status != domain.CheckStatusWarning || got.Details != "google.com unreachable, cloudflare OK" {
		t.Fatalf("fallback only = %s %q", got.Status, got.Details)
	}

	c.fallbackURL = down.URL
	got = c.checkInternet(context.Background())
	if got.Status != domain.CheckStatusError || got.Details != "No internet connection" {
		t.Fatalf("both down = %s %q", got.Status, got.Details)
	}
}

// TestCheckOpenCodeProcess verifies detection, instance counting, and the
// memory warning threshold.
func TestCheckOpenCodeProcess(t *testing.T) {
	c := healthyChecker()
	got := c.checkOpenCodeProcess(context.Background())
	if got.Status != domain.CheckStatusOk || got.Details != "PID 4242 :: 150MB" {
		t.Fatalf("single instance = %s %q", got.Status, got.Details)
	}

	c.processes = procList(
		processInfo{pid: 10, name: "OpenCode.exe", memBytes: mb(1200)},
		processInfo{pid: 11, name: "opencode-helper", memBytes: mb(900)},
	)
	got = c.checkOpenCodeProcess(context.Background())
	if got.Status != domain.CheckStatusWarning || got.Details != "PID 10 :: 2100MB (2 instances)" {
		t.Fatalf("two instances = %s %q", got.Status, got.Details)
	}

	c.processes = procList(processInfo{pid: 1, name: "explorer.exe"})
	got = c.checkOpenCodeProcess(context.Background())
	if got.Status != domain.CheckStatusInactive || got.Details != "Process not detected" {
		t.Fatalf("not running = %s %q", got.Status, got.Details)
	}

	c.processes = func(context.Context) ([]processInfo, error) {
		return nil, errors.New("access denied")
	}
	got = c.checkOpenCodeProcess(context.Background())
	if got.Status != domain.CheckStatusWarning || !strings.Contains(got.Details, "Could not list processes") {
		t.Fatalf("list failure = %s %q", got.Status, got.Details)
	}
}

// TestCheckTerminals verifies per-kind counting and the shell-count warning.
func TestCheckTerminals(t *testing.T) {
	c := healthyChecker()
	c.processes = procList(
		processInfo{pid: 1, name: "cmd.exe", memBytes: mb(10)},
		processInfo{pid: 2, name: "powershell.exe", memBytes: mb(20)},
		processInfo{pid: 3, name: "PowerShell.exe", memBytes: mb(20)},
		processInfo{pid: 4, name: "WindowsTerminal.exe", memBytes: mb(30)},
		processInfo{pid: 5, name: "explorer.exe", memBytes: mb(500)},
	)
	got := c.checkTerminals(context.Background())
	if got.Status != domain.CheckStatusOk || got.Details != "cmd:1 ps:2 wt:1 :: 80MB" {
		t.Fatalf("mixed terminals = %s %q", got.Status, got.Details)
	}

	many := make([]processInfo, 0, 11)
	for i := 0; i < 11; i++ {
		many = append(many, processInfo{pid: int32(100 + i), name: "powershell.exe", memBytes: mb(15)})
	}
	c.processes = procList(many...)
	got = c.checkTerminals(context.Background())
	if got.Status != domain.CheckStatusWarning || got.Details != "ps:11 :: 165MB" {
		t.Fatalf("many shells = %s %q", got.Status, got.Details)
	}

	c.processes = procList(processInfo{pid: 1, name: "explorer.exe"})
	got = c.checkTerminals(context.Background())
	if got.Status != domain.CheckStatusInactive || got.Details != "No terminals detected" {
		t.Fatalf("no terminals = %s %q", got.Status, got.Details)
	}
}

// TestTopProcesses verifies descending memory order and the limit.
func TestTopProcesses(t *testing.T) {
	c := healthyChecker()
	c.processes = procList(
		processInfo{pid: 1, name: "small.exe", memBytes: mb(50)},
		processInfo{pid: 2, name: "huge.exe", memBytes: mb(900)},
		processInfo{pid: 3, name: "medium.exe", memBytes: mb(300)},
	)

	top, err := c.TopProcesses(context.Background(), 2)
	if err != nil {
		t.Fatalf("top processes: %v", err)
	}
	if len(top) != 2 {
		t.Fatalf("len = %d, want 2", len(top))
	}
	if top[0].Name != "huge.exe" || top[0].MemoryMB != 900 {
		t.Fatalf("top[0] = %+v", top[0])
	}
	if top[1].Name != "medium.exe" || top[1].MemoryMB != 300 {
		t.Fatalf("top[1] = %+v", top[1])
	}
}

// TestRunHonorsSettings verifies disabled probes leave their report slots
// nil and enabled ones fill them.
func TestRunHonorsSettings(t *testing.T) {
	c := healthyChecker()
	report := c.Run(context.Background(), domain.Settings{})
	for i, check := range report.Checks() {
		if check != nil {
			t.Fatalf("slot %d populated with all checks disabled: %+v", i, check)
		}
	}
	if report.Diagnosis != "All systems operational." {
		t.Fatalf("diagnosis = %q", report.Diagnosis)
	}

	report = c.Run(context.Background(), domain.Settings{
		CheckCPURAM:   true,
		CheckGPU:      true,
		CheckOpenCode: true,
	})
	if report.LocalResources == nil || report.GPU == nil || report.OpenCode == nil {
		t.Fatalf("enabled slots missing: %+v", report)
	}
	if report.Internet != nil || report.ClaudeAPI != nil || report.OpenAIAPI != nil ||
		report.GoogleAI != nil || report.Terminals != nil {
		t.Fatalf("disabled slots populated: %+v", report)
	}
}

// TestRunFullReport verifies an all-enabled run stamps the timestamp,
// reaches every endpoint, and streams results in report order.
func TestRunFullReport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	t.Cleanup(srv.Close)

	c := healthyChecker()
	c.anthropicURL = srv.URL
	c.openaiURL = srv.URL
	c.googleURL = srv.URL
	c.primaryURL = srv.URL
	c.fallbackURL = srv.URL
	c.now = func() time.Time {
		return time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC)
	}

	var seen []string
	c.SetResultObserver(func(result domain.CheckResult) {
		seen = append(seen, result.Name)
	})

	settings := domain.Settings{
		CheckCPURAM:    true,
		CheckGPU:       true,
		CheckInternet:  true,
		CheckClaude:    true,
		CheckOpenAI:    true,
		CheckGoogleAI:  true,
		CheckOpenCode:  true,
		CheckTerminals: true,
	}
	report := c.Run(context.Background(), settings)

	if report.Timestamp != "2026-03-01 10:30:00" {
		t.Fatalf("timestamp = %q", report.Timestamp)
	}
	for i, check := range report.Checks() {
		if check == nil {
			t.Fatalf("slot %d empty on full run", i)
		}
	}
	if report.Diagnosis != "All systems operational." {
		t.Fatalf("diagnosis = %q", report.Diagnosis)
	}

	wantOrder := []string{
		"LOCAL RESOURCES", "GPU", "INTERNET", "CLAUDE API",
		"OPENAI API", "GOOGLE AI", "OPENCODE", "TERMINALS",
	}
	if len(seen) != len(wantOrder) {
		t.Fatalf("observer saw %d results, want %d", len(seen), len(wantOrder))
	}
	for i, name := range wantOrder {
		if seen[i] != name {
			t.Fatalf("observer order[%d] = %q, want %q", i, seen[i], name)
		}
	}
}
