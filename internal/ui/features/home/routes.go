// Package home serves the page shell, the live update stream and the JSON
// snapshot of a session's workspace.
package home

import (
	"github.com/go-chi/chi/v5"

	"github.com/leapstack-labs/bomscope/internal/ui/features/common"
	"github.com/leapstack-labs/bomscope/internal/ui/notifier"
)

// SetupRoutes configures routes for the home feature.
func SetupRoutes(router chi.Router, resolver common.WorkspaceResolver, notify *notifier.Notifier) error {
	handlers := NewHandlers(resolver, notify)

	router.Get("/", handlers.HomePage)
	router.Get("/updates", handlers.HomePageUpdates)
	router.Get("/api/view", handlers.View)

	return nil
}
