package home

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/bomscope/internal/navigation"
	"github.com/leapstack-labs/bomscope/internal/simexplorer"
	"github.com/leapstack-labs/bomscope/internal/ui/features"
	"github.com/leapstack-labs/bomscope/internal/workspace"
	"github.com/leapstack-labs/bomscope/pkg/core"
)

// =============================================================================
// Test Setup Helpers
// =============================================================================

func setupTestHandlers(t *testing.T) (*Handlers, *features.TestFixture) {
	t.Helper()
	fixture := features.SetupTestFixture(t)
	return NewHandlers(fixture.Registry, fixture.Notifier), fixture
}

// =============================================================================
// HomePage Tests
// =============================================================================

func TestHomePage(t *testing.T) {
	h, fixture := setupTestHandlers(t)

	rec := fixture.Do(t, http.HandlerFunc(h.HomePage), http.MethodGet, "/", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	for _, want := range []string{"<!doctype html>", "<title>bomscope</title>", "data-init", "/updates", `id="app"`} {
		assert.Contains(t, body, want)
	}
	assert.NotEmpty(t, rec.Result().Cookies(), "session cookie set")
	assert.Equal(t, 1, fixture.Registry.Len())
}

// =============================================================================
// View Tests
// =============================================================================

func TestView(t *testing.T) {
	h, fixture := setupTestHandlers(t)

	rec := fixture.Do(t, http.HandlerFunc(h.View), http.MethodGet, "/api/view", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var v workspace.View
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	assert.Equal(t, core.BomSolution, v.Nav.BomType)
	assert.Equal(t, "001", v.Nav.SelectedNodeID)
	assert.Len(t, v.Tree, 4)
}

// =============================================================================
// HomePageUpdates Tests - long-lived SSE stream
// =============================================================================

func TestHomePageUpdates_InitialView(t *testing.T) {
	h, fixture := setupTestHandlers(t)
	fixture.Workspace(t)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	rec := fixture.Do(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.HomePageUpdates(w, r.WithContext(ctx))
	}), http.MethodGet, "/updates", "")

	body := rec.Body.String()
	assert.Contains(t, body, "datastar-patch-elements")
	assert.Contains(t, body, "datastar-patch-signals")
	assert.Contains(t, body, `"bomType":"solution"`)
	assert.Contains(t, body, `<main id="app">`)
}

func TestHomePageUpdates_PushesChanges(t *testing.T) {
	h, fixture := setupTestHandlers(t)
	ws := fixture.Workspace(t)

	ctx, cancel := context.WithCancel(context.Background())
	rec := newSyncRecorder()

	done := make(chan struct{})
	go func() {
		defer close(done)
		fixture.Do(t, http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			h.HomePageUpdates(rec, r.WithContext(ctx))
		}), http.MethodGet, "/updates", "")
	}()

	require.Eventually(t, func() bool {
		return fixture.Notifier.Listeners(ws.ID) == 1
	}, time.Second, 5*time.Millisecond)

	ws.Do(func(nav *navigation.Controller, _ *simexplorer.Store) {
		nav.SelectBomType(core.BomRequirement)
	})

	assert.Eventually(t, func() bool {
		return strings.Contains(rec.String(), `"bomType":"requirement"`)
	}, time.Second, 5*time.Millisecond)

	cancel()
	<-done
	assert.Equal(t, 0, fixture.Notifier.Listeners(ws.ID), "unsubscribed on disconnect")
}

// syncRecorder is a ResponseWriter safe to read while a handler streams.
type syncRecorder struct {
	mu  sync.Mutex
	rec *httptest.ResponseRecorder
}

func newSyncRecorder() *syncRecorder {
	return &syncRecorder{rec: httptest.NewRecorder()}
}

func (s *syncRecorder) Header() http.Header { return s.rec.Header() }

func (s *syncRecorder) WriteHeader(code int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec.WriteHeader(code)
}

func (s *syncRecorder) Write(b []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rec.Write(b)
}

func (s *syncRecorder) Flush() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec.Flush()
}

func (s *syncRecorder) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rec.Body.String()
}
