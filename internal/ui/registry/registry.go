// Package registry maps browser sessions to workspaces.
package registry

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"github.com/leapstack-labs/bomscope/internal/workspace"
)

// Session cookie name and the key holding the workspace id.
const (
	SessionName  = "bomscope"
	workspaceKey = "workspace"
)

// Factory builds a workspace for a new session id.
type Factory func(id string) *workspace.Workspace

// Registry owns one workspace per browser session.
type Registry struct {
	sessions sessions.Store
	factory  Factory
	logger   *slog.Logger

	mu         sync.Mutex
	workspaces map[string]*workspace.Workspace
	onClose    func(*workspace.Workspace)
}

// New creates a registry. onClose, when set, runs for every workspace the
// registry closes.
func New(store sessions.Store, factory Factory, onClose func(*workspace.Workspace), logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Registry{
		sessions:   store,
		factory:    factory,
		logger:     logger,
		workspaces: make(map[string]*workspace.Workspace),
		onClose:    onClose,
	}
}

// Workspace returns the workspace of the request's session, creating the
// session and the workspace on first use. It must be called before any
// response body is written, since it may set the session cookie.
func (reg *Registry) Workspace(w http.ResponseWriter, r *http.Request) (*workspace.Workspace, error) {
	sess, err := reg.sessions.Get(r, SessionName)
	if err != nil {
		// A cookie signed with another secret decodes to a fresh session.
		reg.logger.Debug("discarding unreadable session", "error", err)
	}

	if id, ok := sess.Values[workspaceKey].(string); ok && id != "" {
		if ws, ok := reg.Lookup(id); ok {
			return ws, nil
		}
		// Known session, server restarted: rebuild under the same id.
		return reg.create(id), nil
	}

	id := uuid.NewString()
	sess.Values[workspaceKey] = id
	if err := sess.Save(r, w); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return reg.create(id), nil
}

func (reg *Registry) create(id string) *workspace.Workspace {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	if ws, ok := reg.workspaces[id]; ok {
		return ws
	}
	ws := reg.factory(id)
	reg.workspaces[id] = ws
	reg.logger.Debug("workspace created", "workspace", id, "open", len(reg.workspaces))
	return ws
}

// Lookup returns an existing workspace.
func (reg *Registry) Lookup(id string) (*workspace.Workspace, bool) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	ws, ok := reg.workspaces[id]
	return ws, ok
}

// Each calls fn for every open workspace. fn must not call back into the
// registry.
func (reg *Registry) Each(fn func(*workspace.Workspace)) {
	reg.mu.Lock()
	list := make([]*workspace.Workspace, 0, len(reg.workspaces))
	for _, ws := range reg.workspaces {
		list = append(list, ws)
	}
	reg.mu.Unlock()

	for _, ws := range list {
		fn(ws)
	}
}

// Len returns the number of open workspaces.
func (reg *Registry) Len() int {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	return len(reg.workspaces)
}

// Close closes every workspace and empties the registry.
func (reg *Registry) Close() {
	reg.mu.Lock()
	list := reg.workspaces
	reg.workspaces = make(map[string]*workspace.Workspace)
	reg.mu.Unlock()

	for _, ws := range list {
		ws.Close()
		if reg.onClose != nil {
			reg.onClose(ws)
		}
	}
}
