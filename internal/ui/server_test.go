package ui

import (
	"bytes"
	"context"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/bomscope/internal/cli/testutil"
	"github.com/leapstack-labs/bomscope/internal/dataset"
	"github.com/leapstack-labs/bomscope/internal/navigation"
	"github.com/leapstack-labs/bomscope/internal/simexplorer"
	logtest "github.com/leapstack-labs/bomscope/internal/testutil"
	"github.com/leapstack-labs/bomscope/internal/workspace"
	"github.com/leapstack-labs/bomscope/pkg/core"
)

// =============================================================================
// Test Setup Helpers
// =============================================================================

func setupTestServer(t *testing.T, watch bool) (*Server, string) {
	t.Helper()

	dir := testutil.SetupTestDataDir(t)
	ds, err := dataset.Load(dir)
	require.NoError(t, err)

	s := NewServer(Config{
		DataDir:       dir,
		Dataset:       ds,
		Watch:         watch,
		ToastDelay:    time.Hour,
		SessionSecret: "test-secret",
		Logger:        logtest.NewTestLogger(t),
	})
	t.Cleanup(s.registry.Close)
	return s, dir
}

func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

func onlyWorkspace(t *testing.T, s *Server) *workspace.Workspace {
	t.Helper()
	var found *workspace.Workspace
	s.Registry().Each(func(ws *workspace.Workspace) { found = ws })
	require.NotNil(t, found)
	return found
}

// =============================================================================
// HTTP Tests
// =============================================================================

func TestServer_SessionRoundTrip(t *testing.T) {
	s, _ := setupTestServer(t, false)
	h, err := s.Handler()
	require.NoError(t, err)

	srv := httptest.NewServer(h)
	defer srv.Close()
	client := newClient(t)

	resp, err := client.Get(srv.URL + "/")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = client.Post(srv.URL+"/api/nav/bom-type", "application/json", strings.NewReader(`{"bomType":"requirement"}`))
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, 1, s.Registry().Len(), "cookie jar keeps one session")
	assert.Equal(t, core.BomRequirement, onlyWorkspace(t, s).Snapshot().Nav.BomType)

	// A second browser gets its own workspace
	other := newClient(t)
	resp, err = other.Get(srv.URL + "/api/view")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, 2, s.Registry().Len())
}

func TestServer_Metrics(t *testing.T) {
	s, _ := setupTestServer(t, false)
	h, err := s.Handler()
	require.NoError(t, err)

	srv := httptest.NewServer(h)
	defer srv.Close()
	client := newClient(t)

	for _, body := range []string{`{"fileId":"a"}`, `{"fileId":"a"}`, `{"fileId":"b"}`} {
		resp, err := client.Post(srv.URL+"/api/sim/compare", "application/json", strings.NewReader(body))
		require.NoError(t, err)
		_ = resp.Body.Close()
	}
	resp, err := client.Post(srv.URL+"/api/nav/select", "application/json", strings.NewReader(`{"nodeId":"S-1-1"}`))
	require.NoError(t, err)
	_ = resp.Body.Close()

	resp, err = client.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	raw := new(bytes.Buffer)
	_, err = raw.ReadFrom(resp.Body)
	require.NoError(t, err)

	out := raw.String()
	assert.Contains(t, out, `bomscope_compare_events_total{type="file"} 2`)
	assert.Contains(t, out, `bomscope_explorer_actions_total{action="add_compare"} 3`)
	assert.Contains(t, out, `bomscope_navigation_transitions_total{kind="manual",op="select_node"} 1`)
	assert.Contains(t, out, "bomscope_workspaces 1")
}

// =============================================================================
// Reload Tests
// =============================================================================

const reloadedBom = `trees:
  solution:
    - id: S-1
      name: Demonstrator
  requirement:
    - id: REQ-ROOT
      name: Requirements
`

func TestServer_ReloadRepointsWorkspaces(t *testing.T) {
	s, dir := setupTestServer(t, false)

	_, err := s.registry.Workspace(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	ws := onlyWorkspace(t, s)
	ws.Do(func(nav *navigation.Controller, _ *simexplorer.Store) {
		nav.SelectBomType(core.BomRequirement)
		nav.ToggleExpand("REQ-AERO")
		nav.SelectNode("REQ-AERO-BLADE")
	})

	require.NoError(t, os.WriteFile(filepath.Join(dir, dataset.BomFile), []byte(reloadedBom), 0o600))
	require.NoError(t, os.Remove(filepath.Join(dir, dataset.SimulationFile)))

	require.NoError(t, s.Reload())

	v := ws.Snapshot()
	assert.Equal(t, core.BomRequirement, v.Nav.BomType)
	assert.Empty(t, v.Nav.SelectedNodeID, "removed node dropped")
	assert.NotContains(t, v.Nav.Expanded, "REQ-AERO")
	assert.Equal(t, 0, s.Dataset().Stats().Files)

	// New sessions start on the reloaded dataset
	fresh := s.newWorkspace("fresh")
	defer fresh.Close()
	assert.Len(t, fresh.Snapshot().Tree, 1)
}

func TestServer_ReloadKeepsDatasetOnError(t *testing.T) {
	s, dir := setupTestServer(t, false)
	before := s.Dataset()

	require.NoError(t, os.WriteFile(filepath.Join(dir, dataset.BomFile), []byte("trees: ["), 0o600))

	err := s.Reload()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to reload dataset")
	assert.Same(t, before, s.Dataset())
}

func TestServer_WatchReloads(t *testing.T) {
	s, dir := setupTestServer(t, true)
	before := s.Dataset()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.watchData(ctx) }()

	// Give the watcher time to register before writing
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, dataset.BomFile), []byte(reloadedBom), 0o600))

	assert.Eventually(t, func() bool {
		return s.Dataset() != before
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

func TestServer_WatchDisabledForSample(t *testing.T) {
	ds, err := dataset.LoadSample()
	require.NoError(t, err)

	s := NewServer(Config{Dataset: ds, Watch: true})
	defer s.registry.Close()

	assert.False(t, s.watch)
	assert.Equal(t, "http://localhost:0", s.URL())
}
