// Package workspace bundles one user's navigation controller, simulation
// explorer and deep link inbox, and applies the host rules that tie them
// together. The web UI keeps one workspace per browser session; the shell
// and the TUI each own a single one.
package workspace

import (
	"log/slog"
	"sync"
	"time"

	"github.com/leapstack-labs/bomscope/internal/dataset"
	"github.com/leapstack-labs/bomscope/internal/navigation"
	"github.com/leapstack-labs/bomscope/internal/simexplorer"
	"github.com/leapstack-labs/bomscope/pkg/core"
)

// Config holds what a workspace is built from.
type Config struct {
	ID          string
	Dataset     *dataset.Dataset
	Preferences core.TabPreferences
	// InitialBomType defaults to solution.
	InitialBomType core.BomType
	PageSize       int
	ToastDelay     time.Duration
	// OnToastDismiss runs on the toast timer goroutine.
	OnToastDismiss func(simexplorer.CompareEvent)
	Logger         *slog.Logger
}

// Workspace serialises every event of one user behind a mutex, so callers
// from HTTP handlers or timers get the single event loop the controller and
// store expect.
type Workspace struct {
	ID string

	mu    sync.Mutex
	nav   *navigation.Controller
	sim   *simexplorer.Store
	inbox *navigation.Inbox

	logger *slog.Logger
	unsub  []func()
}

// New builds a workspace over cfg.Dataset.
func New(cfg Config) *Workspace {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger = logger.With("workspace", cfg.ID)

	var source core.TreeSource
	var catalog *core.Catalog
	if cfg.Dataset != nil {
		source = cfg.Dataset.Forest
		catalog = cfg.Dataset.Catalog
	}

	w := &Workspace{
		ID:     cfg.ID,
		inbox:  &navigation.Inbox{},
		logger: logger,
		nav: navigation.New(navigation.Config{
			Source:         source,
			Preferences:    cfg.Preferences,
			InitialBomType: cfg.InitialBomType,
			Logger:         logger,
		}),
		sim: simexplorer.NewStore(simexplorer.Config{
			Catalog:        catalog,
			PageSize:       cfg.PageSize,
			ToastDelay:     cfg.ToastDelay,
			OnToastDismiss: cfg.OnToastDismiss,
			Logger:         logger,
		}),
	}

	// Leaving the simulation view discards explorer state.
	w.unsub = append(w.unsub, w.nav.Subscribe(func(ch navigation.Change) {
		if ch.LeftBomType(core.BomSimulation) {
			w.sim.Dispatch(simexplorer.Reset{})
		}
	}))
	return w
}

// Do runs fn with exclusive access to the controller and the store.
func (w *Workspace) Do(fn func(nav *navigation.Controller, sim *simexplorer.Store)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fn(w.nav, w.sim)
}

// Subscribe registers listeners on the controller and the store. Either may
// be nil. Listeners run while the workspace lock is held and must not call
// back into Do.
func (w *Workspace) Subscribe(onNav func(navigation.Change), onSim func(simexplorer.Action, simexplorer.State)) func() {
	w.mu.Lock()
	defer w.mu.Unlock()

	var cancels []func()
	if onNav != nil {
		cancels = append(cancels, w.nav.Subscribe(onNav))
	}
	if onSim != nil {
		cancels = append(cancels, w.sim.Subscribe(onSim))
	}
	return func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		for _, c := range cancels {
			c()
		}
	}
}

// OpenLink posts a deep link and lets the controller consume it. It reports
// whether the link was applied; links for other modules stay pending.
func (w *Workspace) OpenLink(link core.DeepLink) bool {
	w.inbox.Post(link)

	w.mu.Lock()
	defer w.mu.Unlock()
	return w.nav.ConsumeDeepLink(w.inbox)
}

// PendingLink returns a deep link nobody has consumed yet.
func (w *Workspace) PendingLink() (core.DeepLink, bool) {
	return w.inbox.Pending()
}

// Repoint switches the workspace to a reloaded dataset.
func (w *Workspace) Repoint(ds *dataset.Dataset) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.nav.Repoint(ds.Forest)
	w.sim.Repoint(ds.Catalog)
	w.logger.Debug("workspace repointed", "source", ds.Source)
}

// Close releases subscriptions and stops the toast timer.
func (w *Workspace) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, c := range w.unsub {
		c()
	}
	w.unsub = nil
	w.sim.Close()
}
