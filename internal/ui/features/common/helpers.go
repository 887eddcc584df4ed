package common

import (
	"net/http"

	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/bomscope/internal/workspace"
)

// Action reads the request signals into T, resolves the session workspace,
// runs apply and answers with the updated view over SSE. apply returns a
// client error message to reject the request before anything is sent.
func Action[T any](resolver WorkspaceResolver, apply func(ws *workspace.Workspace, signals T) string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Read signals BEFORE creating SSE (SSE consumes the request body)
		var signals T
		if r.Method == http.MethodGet || r.ContentLength != 0 {
			if err := datastar.ReadSignals(r, &signals); err != nil {
				http.Error(w, "failed to read signals: "+err.Error(), http.StatusBadRequest)
				return
			}
		}

		ws, err := resolver.Workspace(w, r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		if msg := apply(ws, signals); msg != "" {
			http.Error(w, msg, http.StatusBadRequest)
			return
		}

		sse := datastar.NewSSE(w, r)
		if err := SendView(sse, ws.Snapshot()); err != nil {
			_ = sse.ConsoleError(err)
		}
	}
}

// SendView patches the app fragment and the signals for v.
func SendView(sse *datastar.ServerSentEventGenerator, v workspace.View) error {
	html, err := RenderApp(v)
	if err != nil {
		return err
	}
	if err := sse.PatchElements(html); err != nil {
		return err
	}
	return sse.MarshalAndPatchSignals(SignalsFrom(v))
}
