package diagnostics

import (
	"context"
	"net/http"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"

	"opencode-diag/internal/domain"
)

// Production endpoints probed by the API and connectivity checks.
const (
	anthropicEndpoint        = "https://api.anthropic.com"
	openaiModelsEndpoint     = "https://api.openai.com/v1/models"
	googleModelsEndpoint     = "https://generativelanguage.googleapis.com/v1beta/models"
	internetPrimaryEndpoint  = "https://www.google.com"
	internetFallbackEndpoint = "https://1.1.1.1"
)

// Probe timing limits.
const (
	defaultAPITimeout      = 10 * time.Second
	defaultInternetTimeout = 5 * time.Second
	gpuQueryTimeout        = 5 * time.Second
	cpuSampleInterval      = 200 * time.Millisecond

	apiSlowAfter      = 3 * time.Second
	internetSlowAfter = 2 * time.Second
)

// Checker executes the enabled probes one at a time and assembles a
// diagnostic report.
type Checker struct {
	client *http.Client

	anthropicURL string
	openaiURL    string
	googleURL    string
	primaryURL   string
	fallbackURL  string

	apiTimeout      time.Duration
	internetTimeout time.Duration

	cpuPercent    func(ctx context.Context, interval time.Duration) ([]float64, error)
	virtualMemory func(ctx context.Context) (*mem.VirtualMemoryStat, error)
	processes     func(ctx context.Context) ([]processInfo, error)
	gpu           gpuProber
	now           func() time.Time

	onResult func(result domain.CheckResult)
}

// NewChecker builds a checker against the production endpoints and the
// real OS samplers.
func NewChecker() *Checker {
	return &Checker{
		client:          &http.Client{},
		anthropicURL:    anthropicEndpoint,
		openaiURL:       openaiModelsEndpoint,
		googleURL:       googleModelsEndpoint,
		primaryURL:      internetPrimaryEndpoint,
		fallbackURL:     internetFallbackEndpoint,
		apiTimeout:      defaultAPITimeout,
		internetTimeout: defaultInternetTimeout,
		cpuPercent: func(ctx context.Context, interval time.Duration) ([]float64, error) {
			return cpu.PercentWithContext(ctx, interval, false)
		},
		virtualMemory: mem.VirtualMemoryWithContext,
		processes:     listProcesses,
		gpu:           newGPUProber(),
		now:           time.Now,
	}
}

// SetResultObserver registers a callback invoked with each probe result as
// it lands, before the run finishes. Call before Run; the checker does not
// synchronize the field.
func (c *Checker) SetResultObserver(fn func(result domain.CheckResult)) {
	c.onResult = fn
}

// Run executes every enabled probe in fixed order and returns the finished
// report. Disabled probes leave their report slot nil.
func (c *Checker) Run(ctx context.Context, settings domain.Settings) domain.DiagnosticReport {
	report := domain.DiagnosticReport{
		Timestamp: c.now().Format(domain.ReportTimeLayout),
	}

	if settings.CheckCPURAM {
		r := c.checkLocalResources(ctx)
		report.LocalResources = &r
		c.observe(r)
	}
	if settings.CheckGPU {
		r := c.checkGPU(ctx)
		report.GPU = &r
		c.observe(r)
	}
	if settings.CheckInternet {
		r := c.checkInternet(ctx)
		report.Internet = &r
		c.observe(r)
	}
	if settings.CheckClaude {
		r := c.checkClaudeAPI(ctx)
		report.ClaudeAPI = &r
		c.observe(r)
	}
	if settings.CheckOpenAI {
		r := c.checkOpenAIAPI(ctx)
		report.OpenAIAPI = &r
		c.observe(r)
	}
	if settings.CheckGoogleAI {
		r := c.checkGoogleAI(ctx)
		report.GoogleAI = &r
		c.observe(r)
	}
	if settings.CheckOpenCode {
		r := c.checkOpenCodeProcess(ctx)
		report.OpenCode = &r
		c.observe(r)
	}
	if settings.CheckTerminals {
		r := c.checkTerminals(ctx)
		report.Terminals = &r
		c.observe(r)
	}

	report.Diagnosis = Diagnose(&report)
	return report
}

// observe forwards a probe result when an observer is configured.
func (c *Checker) observe(result domain.CheckResult) {
	if c.onResult != nil {
		c.onResult(result)
	}
}

// NewCheckerForTests creates a checker with injectable OS samplers; tests
// point the endpoint fields at local servers.
func NewCheckerForTests(
	cpuPercent func(context.Context, time.Duration) ([]float64, error),
	virtualMemory func(context.Context) (*mem.VirtualMemoryStat, error),
	processes func(context.Context) ([]processInfo, error),
	gpu gpuProber,
) *Checker {
	c := NewChecker()
	c.cpuPercent = cpuPercent
	c.virtualMemory = virtualMemory
	c.processes = processes
	c.gpu = gpu
	return c
}
