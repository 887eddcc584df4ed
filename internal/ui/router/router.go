// Package router sets up HTTP routes for the UI server.
package router

import (
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/bomscope/internal/ui/features/common"
	homeFeature "github.com/leapstack-labs/bomscope/internal/ui/features/home"
	navigationFeature "github.com/leapstack-labs/bomscope/internal/ui/features/navigation"
	simulationFeature "github.com/leapstack-labs/bomscope/internal/ui/features/simulation"
	"github.com/leapstack-labs/bomscope/internal/ui/notifier"
	"github.com/leapstack-labs/bomscope/internal/ui/resources"
)

// SetupRoutes configures all routes for the UI server. metrics may be nil.
func SetupRoutes(
	router chi.Router,
	resolver common.WorkspaceResolver,
	notify *notifier.Notifier,
	metrics http.Handler,
	isDev bool,
) error {
	// Hot reload endpoint for dev mode
	if isDev {
		setupReload(router)
	}

	// Static assets
	router.Handle("/static/*", resources.Handler())

	if metrics != nil {
		router.Handle("/metrics", metrics)
	}

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Feature routes
	if err := homeFeature.SetupRoutes(router, resolver, notify); err != nil {
		return err
	}

	if err := navigationFeature.SetupRoutes(router, resolver); err != nil {
		return err
	}

	if err := simulationFeature.SetupRoutes(router, resolver); err != nil {
		return err
	}

	return nil
}

func setupReload(router chi.Router) {
	reloadChan := make(chan struct{}, 1)
	var hotReloadOnce sync.Once

	router.Get("/reload", func(w http.ResponseWriter, r *http.Request) {
		sse := datastar.NewSSE(w, r)
		reload := func() { _ = sse.ExecuteScript("window.location.reload()") }
		hotReloadOnce.Do(reload)
		select {
		case <-reloadChan:
			reload()
		case <-r.Context().Done():
		}
	})

	router.Get("/hotreload", func(w http.ResponseWriter, _ *http.Request) {
		select {
		case reloadChan <- struct{}{}:
		default:
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
}
