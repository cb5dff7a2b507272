// Package session owns the diagnostics run lifecycle: one run at a time,
// with finished reports handed from the run goroutine to the foreground
// through a single-slot channel.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/cockroachdb/errors"

	"opencode-diag/internal/domain"
	"opencode-diag/internal/errlog"
)

// ErrRunInProgress is returned when a run is requested while one is active.
var ErrRunInProgress = errors.New("diagnostics run already in progress")

// Runner executes one full diagnostics pass over the enabled probes.
type Runner interface {
	Run(ctx context.Context, settings domain.Settings) domain.DiagnosticReport
}

// Controller tracks the single allowed active run, hands each finished
// report to the foreground, and feeds the error log exactly once per
// report.
type Controller struct {
	runner Runner
	errLog *errlog.Log
	bus    *EventBus

	mu            sync.RWMutex
	running       bool
	report        *domain.DiagnosticReport
	lastCompleted time.Time
	onRedraw      func()

	completed chan *domain.DiagnosticReport
	now       func() time.Time
}

// NewController creates an idle controller around the given runner.
func NewController(runner Runner, errLog *errlog.Log, bus *EventBus) *Controller {
	return &Controller{
		runner:    runner,
		errLog:    errLog,
		bus:       bus,
		completed: make(chan *domain.DiagnosticReport, 1),
		now:       time.Now,
	}
}

// SetRedrawFunc registers the callback the run goroutine invokes after
// delivering a report, so the foreground knows to poll for completions.
func (c *Controller) SetRedrawFunc(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onRedraw = fn
}

// RequestRun starts one background run over the given settings snapshot.
// While another run holds the slot it returns ErrRunInProgress and the
// request is dropped, not queued.
func (c *Controller) RequestRun(settings domain.Settings) error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return ErrRunInProgress
	}
	c.running = true
	c.mu.Unlock()

	c.bus.Publish(Event{Type: EventTypeRunStarted})
	slog.Debug("diagnostics run started", "enabled_checks", settings.EnabledCount())

	go c.run(settings)
	return nil
}

// run executes the probes off the foreground and delivers the finished
// report. The send comes before clearing the running flag so the flag
// stays honest while the slot is occupied; with at most one run active
// the single-slot channel never holds more than one unconsumed report.
func (c *Controller) run(settings domain.Settings) {
	report := c.runner.Run(context.Background(), settings)

	c.completed <- &report

	c.mu.Lock()
	c.running = false
	onRedraw := c.onRedraw
	c.mu.Unlock()

	if onRedraw != nil {
		onRedraw()
	}
}

// ProcessCompletions absorbs a finished report if one is waiting: it
// installs the report, stamps the completion time, and feeds the error
// log. It never blocks and returns nil when no run has finished since the
// last call. The foreground calls this on its redraw cadence, so each
// report passes through exactly once.
func (c *Controller) ProcessCompletions() *domain.DiagnosticReport {
	select {
	case report := <-c.completed:
		c.mu.Lock()
		c.report = report
		c.lastCompleted = c.now()
		c.mu.Unlock()

		c.errLog.ProcessReport(report)
		c.bus.Publish(Event{Type: EventTypeRunCompleted, Diagnosis: report.Diagnosis})
		slog.Debug("diagnostics run completed", "diagnosis", report.Diagnosis)
		return report
	default:
		return nil
	}
}

// Tick drives one foreground cycle: it absorbs any finished report, then
// starts a cooperative auto-refresh run when the configured interval has
// elapsed since the last completion. The refresh resolution is therefore
// tied to how often the foreground ticks.
func (c *Controller) Tick(settings domain.Settings, now time.Time) *domain.DiagnosticReport {
	report := c.ProcessCompletions()
	if c.autoRefreshDue(settings, now) {
		// A concurrent manual run losing this race is fine; the refresh
		// retries on a later tick.
		_ = c.RequestRun(settings)
	}
	return report
}

// autoRefreshDue stays false until a first run has completed, while a run
// is active, and while the interval has not elapsed.
func (c *Controller) autoRefreshDue(settings domain.Settings, now time.Time) bool {
	if !settings.AutoRefresh {
		return false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.running || c.lastCompleted.IsZero() {
		return false
	}
	interval := time.Duration(settings.RefreshIntervalSecs) * time.Second
	return now.Sub(c.lastCompleted) >= interval
}

// IsRunning reports whether a run currently holds the slot.
func (c *Controller) IsRunning() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.running
}

// Report returns the most recently absorbed report, or nil before the
// first run finishes. Completed reports are never mutated.
func (c *Controller) Report() *domain.DiagnosticReport {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.report
}

// LastCompleted returns when the latest report was absorbed by the
// foreground, or the zero time before the first completion.
func (c *Controller) LastCompleted() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastCompleted
}
