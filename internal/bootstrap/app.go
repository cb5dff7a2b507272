package bootstrap

import (
	"context"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"

	"opencode-diag/internal/config"
	"opencode-diag/internal/diagnostics"
	"opencode-diag/internal/domain"
	"opencode-diag/internal/errlog"
	"opencode-diag/internal/session"

	wailsruntime "github.com/wailsapp/wails/v2/pkg/runtime"
)

// App wires configuration, the checker, the run session, and UI runtime
// callbacks.
type App struct {
	Settings domain.Settings
	Store    config.Store
	Checker  *diagnostics.Checker
	Session  *session.Controller
	ErrorLog *errlog.Log

	mu         sync.Mutex
	assets     fs.FS
	events     *session.EventBus
	runtimeCtx context.Context
}

// New builds the application with persisted settings.
func New() *App {
	return NewWithAssets(nil)
}

// NewWithAssets builds the application and optionally configures embedded
// frontend assets. An unreadable settings file is logged and replaced by
// the defaults so the app always comes up.
func NewWithAssets(assets fs.FS) *App {
	store := config.NewJSONStore(config.DefaultPath())
	settings, err := store.Load()
	if err != nil {
		slog.Warn("falling back to default settings", "error", err)
	}
	settings = normalizeSettings(settings)

	checker := diagnostics.NewChecker()
	errorLog := errlog.New()
	events := session.NewEventBus(1000)

	app := &App{
		Settings: settings,
		Store:    store,
		Checker:  checker,
		Session:  session.NewController(checker, errorLog, events),
		ErrorLog: errorLog,
		assets:   assets,
		events:   events,
	}
	app.wirePushChannels()
	return app
}

// wirePushChannels forwards per-check results into the event feed and event
// feed entries to the frontend.
func (a *App) wirePushChannels() {
	a.Checker.SetResultObserver(func(result domain.CheckResult) {
		a.events.Publish(session.Event{
			Type:    session.EventTypeCheck,
			Check:   result.Name,
			Status:  result.Status,
			Message: result.Details,
		})
	})
	a.events.SetNotify(a.emitEvent)
	a.Session.SetRedrawFunc(a.requestRedraw)
}

// Run starts the Wails desktop application and binds backend methods.
func (a *App) Run() error {
	assetOptions := &assetserver.Options{}
	if a.assets != nil {
		assetOptions.Assets = a.assets
	} else {
		assetOptions.Handler = http.FileServer(http.Dir("./frontend"))
	}

	return wails.Run(&options.App{
		Title:       "OpenCode Diagnostics",
		Width:       550,
		Height:      580,
		MinWidth:    450,
		MinHeight:   450,
		AssetServer: assetOptions,
		OnStartup:   a.Startup,
		OnShutdown: func(ctx context.Context) {
			a.mu.Lock()
			defer a.mu.Unlock()
			a.runtimeCtx = nil
		},
		Bind: []interface{}{a},
	})
}

// Startup stores the Wails runtime context for push events. The first
// diagnostics run waits for the user, matching the empty report the UI
// shows on launch.
func (a *App) Startup(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.runtimeCtx = ctx
}

// RunDiagnostics starts one background diagnostics run over the current
// settings. While a run is active it returns session.ErrRunInProgress.
func (a *App) RunDiagnostics() error {
	return a.Session.RequestRun(a.currentSettings())
}

// Tick absorbs a finished run and drives the cooperative auto-refresh; the
// frontend calls it on its render timer. Returns the freshly completed
// report, or nil when nothing finished since the last tick.
func (a *App) Tick() *domain.DiagnosticReport {
	return a.Session.Tick(a.currentSettings(), time.Now())
}

// GetReport returns the most recent completed report, or nil before the
// first run finishes.
func (a *App) GetReport() *domain.DiagnosticReport {
	return a.Session.Report()
}

// IsRunning reports whether a diagnostics run is in flight.
func (a *App) IsRunning() bool {
	return a.Session.IsRunning()
}

// GetTextReport renders the latest report as clipboard-ready text, or an
// empty string before the first run.
func (a *App) GetTextReport() string {
	report := a.Session.Report()
	if report == nil {
		return ""
	}
	return report.TextReport()
}

// CopyReport places the rendered text report on the system clipboard.
func (a *App) CopyReport() error {
	report := a.Session.Report()
	if report == nil {
		return errors.New("no report to copy")
	}

	ctx, err := a.runtimeContext()
	if err != nil {
		return err
	}
	return wailsruntime.ClipboardSetText(ctx, report.TextReport())
}

// GetErrorLog returns the deduplicated failure history for this session.
func (a *App) GetErrorLog() []errlog.Entry {
	return a.ErrorLog.Entries()
}

// ClearErrorLog wipes the failure history.
func (a *App) ClearErrorLog() {
	a.ErrorLog.Clear()
}

// GetSettings loads and returns the latest persisted settings.
func (a *App) GetSettings() (domain.Settings, error) {
	settings, err := a.Store.Load()
	if err != nil {
		return domain.Settings{}, errors.Wrap(err, "load settings")
	}
	settings = normalizeSettings(settings)

	a.mu.Lock()
	a.Settings = settings
	a.mu.Unlock()

	return settings, nil
}

// SaveSettings normalizes and persists settings. The next run picks them
// up; an in-flight run keeps its snapshot.
func (a *App) SaveSettings(settings domain.Settings) (domain.Settings, error) {
	normalized := normalizeSettings(settings)
	if err := a.Store.Save(normalized); err != nil {
		slog.Warn("save settings failed", "error", err)
		a.events.Publish(session.Event{
			Type:    session.EventTypeError,
			Message: "save settings: " + err.Error(),
		})
		return domain.Settings{}, errors.Wrap(err, "save settings")
	}

	a.mu.Lock()
	a.Settings = normalized
	a.mu.Unlock()

	return normalized, nil
}

// TopProcesses lists the heaviest local processes for the memory panel.
func (a *App) TopProcesses(limit int) ([]diagnostics.ProcessUsage, error) {
	return a.Checker.TopProcesses(context.Background(), limit)
}

// Events returns all run events with sequence greater than sinceSeq.
func (a *App) Events(sinceSeq int64) []session.Event {
	return a.events.Since(sinceSeq)
}

// emitEvent pushes one published event to the frontend while the runtime
// is up.
func (a *App) emitEvent(event session.Event) {
	a.mu.Lock()
	ctx := a.runtimeCtx
	a.mu.Unlock()
	if ctx != nil {
		wailsruntime.EventsEmit(ctx, "diagnostics:event", event)
	}
}

// requestRedraw nudges the frontend to tick outside its timer cadence so a
// finished run shows up without waiting for the next interval.
func (a *App) requestRedraw() {
	a.mu.Lock()
	ctx := a.runtimeCtx
	a.mu.Unlock()
	if ctx != nil {
		wailsruntime.EventsEmit(ctx, "diagnostics:redraw")
	}
}

// currentSettings snapshots the cached settings.
func (a *App) currentSettings() domain.Settings {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.Settings
}

// runtimeContext returns the Wails runtime context for runtime APIs.
func (a *App) runtimeContext() (context.Context, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.runtimeCtx == nil {
		return nil, errors.New("runtime context is not initialized")
	}
	return a.runtimeCtx, nil
}

// normalizeSettings replaces out-of-range values so a hand-edited settings
// file cannot break the UI.
func normalizeSettings(settings domain.Settings) domain.Settings {
	if settings.RefreshIntervalSecs <= 0 {
		settings.RefreshIntervalSecs = 60
	}
	if settings.UIScale < domain.MinUIScale || settings.UIScale > domain.MaxUIScale {
		settings.UIScale = 1.0
	}
	if settings.MaxHistoryEntries <= 0 {
		settings.MaxHistoryEntries = 10
	}
	return settings
}
