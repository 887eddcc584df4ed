// Package simulation exposes the simulation explorer store over HTTP.
package simulation

import (
	"github.com/go-chi/chi/v5"

	"github.com/leapstack-labs/bomscope/internal/ui/features/common"
)

// SetupRoutes configures routes for the simulation feature.
func SetupRoutes(router chi.Router, resolver common.WorkspaceResolver) error {
	router.Route("/api/sim", func(r chi.Router) {
		r.Post("/select", Select(resolver))
		r.Post("/toggle", Toggle(resolver))
		r.Post("/search", Search(resolver))
		r.Post("/filters", Filters(resolver))
		r.Post("/page", Page(resolver))
		r.Post("/page-size", PageSize(resolver))
		r.Post("/compare", AddFile(resolver))
		r.Post("/compare-instance", AddInstance(resolver))
		r.Delete("/compare/{fileID}", RemoveFile(resolver))
		r.Delete("/compare", Clear(resolver))
	})
	return nil
}
