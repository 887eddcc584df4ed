package home

import (
	"encoding/json"
	"net/http"

	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/bomscope/internal/ui/features/common"
	"github.com/leapstack-labs/bomscope/internal/ui/notifier"
	"github.com/leapstack-labs/bomscope/internal/ui/resources"
)

// Handlers provides HTTP handlers for the home feature.
type Handlers struct {
	resolver common.WorkspaceResolver
	notifier *notifier.Notifier
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(resolver common.WorkspaceResolver, notify *notifier.Notifier) *Handlers {
	return &Handlers{
		resolver: resolver,
		notifier: notify,
	}
}

// HomePage serves the page shell and starts the session.
func (h *Handlers) HomePage(w http.ResponseWriter, r *http.Request) {
	if _, err := h.resolver.Workspace(w, r); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	page, err := resources.Index()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

// HomePageUpdates is the long-lived SSE endpoint of a session. It sends the
// current view, then a fresh one every time the workspace changes.
func (h *Handlers) HomePageUpdates(w http.ResponseWriter, r *http.Request) {
	ws, err := h.resolver.Workspace(w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	sse := datastar.NewSSE(w, r)

	updates := h.notifier.Subscribe(ws.ID)
	defer h.notifier.Unsubscribe(ws.ID, updates)

	if err := common.SendView(sse, ws.Snapshot()); err != nil {
		_ = sse.ConsoleError(err)
	}

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-updates:
			if err := common.SendView(sse, ws.Snapshot()); err != nil {
				_ = sse.ConsoleError(err)
				// Don't return - keep trying on next update
			}
		}
	}
}

// View returns the session's snapshot as JSON.
func (h *Handlers) View(w http.ResponseWriter, r *http.Request) {
	ws, err := h.resolver.Workspace(w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(ws.Snapshot()); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
