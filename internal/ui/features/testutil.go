// Package features provides shared test utilities for UI feature tests.
package features

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/bomscope/internal/dataset"
	"github.com/leapstack-labs/bomscope/internal/navigation"
	"github.com/leapstack-labs/bomscope/internal/simexplorer"
	"github.com/leapstack-labs/bomscope/internal/testutil"
	"github.com/leapstack-labs/bomscope/internal/ui/notifier"
	"github.com/leapstack-labs/bomscope/internal/ui/registry"
	"github.com/leapstack-labs/bomscope/internal/workspace"
)

// TestFixture holds all dependencies needed for UI handler tests.
type TestFixture struct {
	Dataset      *dataset.Dataset
	Registry     *registry.Registry
	Notifier     *notifier.Notifier
	SessionStore *sessions.CookieStore

	// cookies carries the session across requests made with Do.
	cookies []*http.Cookie
}

// SetupTestFixture builds a registry over the embedded sample dataset.
// Workspaces ping the notifier on every change, like the server's do.
func SetupTestFixture(t *testing.T) *TestFixture {
	t.Helper()

	ds, err := dataset.LoadSample()
	require.NoError(t, err)

	logger := testutil.NewTestLogger(t)
	notify := notifier.New()
	sessionStore := NewTestSessionStore()

	reg := registry.New(sessionStore, func(id string) *workspace.Workspace {
		ws := workspace.New(workspace.Config{
			ID:             id,
			Dataset:        ds,
			ToastDelay:     time.Hour,
			OnToastDismiss: func(simexplorer.CompareEvent) { notify.Notify(id) },
			Logger:         logger,
		})
		ws.Subscribe(
			func(navigation.Change) { notify.Notify(id) },
			func(simexplorer.Action, simexplorer.State) { notify.Notify(id) },
		)
		return ws
	}, nil, logger)
	t.Cleanup(reg.Close)

	return &TestFixture{
		Dataset:      ds,
		Registry:     reg,
		Notifier:     notify,
		SessionStore: sessionStore,
	}
}

// Do sends a request through h, reusing the fixture's session cookie so
// consecutive calls hit the same workspace. A non-empty body is sent as
// datastar signals.
func (f *TestFixture) Do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range f.cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if cookies := rec.Result().Cookies(); len(cookies) > 0 {
		f.cookies = cookies
	}
	return rec
}

// Workspace returns the fixture session's workspace, creating it if needed.
func (f *TestFixture) Workspace(t *testing.T) *workspace.Workspace {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range f.cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	ws, err := f.Registry.Workspace(rec, req)
	require.NoError(t, err)
	if cookies := rec.Result().Cookies(); len(cookies) > 0 {
		f.cookies = cookies
	}
	return ws
}

// RequestWithPathParam wraps a request with chi URL params.
func RequestWithPathParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// RequestWithTimeout wraps a request with a context timeout.
func RequestWithTimeout(r *http.Request, timeout time.Duration) *http.Request {
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	_ = cancel // the timeout cancels the context
	return r.WithContext(ctx)
}

// NewTestSessionStore creates a session store for testing.
func NewTestSessionStore() *sessions.CookieStore {
	return sessions.NewCookieStore([]byte("test-secret-key-32-bytes-long!!"))
}
