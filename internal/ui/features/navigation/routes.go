// Package navigation exposes the BOM navigation controller over HTTP.
package navigation

import (
	"github.com/go-chi/chi/v5"

	"github.com/leapstack-labs/bomscope/internal/ui/features/common"
)

// SetupRoutes configures routes for the navigation feature.
func SetupRoutes(router chi.Router, resolver common.WorkspaceResolver) error {
	router.Route("/api/nav", func(r chi.Router) {
		r.Post("/bom-type", SelectBomType(resolver))
		r.Post("/tab", SelectTab(resolver))
		r.Post("/select", SelectNode(resolver))
		r.Post("/toggle", ToggleExpand(resolver))
		r.Post("/jump", Jump(resolver))
		r.Post("/back", JumpBack(resolver))
		r.Post("/clear-history", ClearHistory(resolver))
		r.Post("/focus-ack", AckFocus(resolver))
		r.Post("/deeplink", DeepLink(resolver))
	})
	return nil
}
