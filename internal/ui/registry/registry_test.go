package registry

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/bomscope/internal/dataset"
	"github.com/leapstack-labs/bomscope/internal/workspace"
)

func newTestRegistry(t *testing.T) (*Registry, *atomic.Int32) {
	t.Helper()

	ds, err := dataset.LoadSample()
	require.NoError(t, err)

	var closed atomic.Int32
	store := sessions.NewCookieStore([]byte("test-secret"))
	reg := New(store, func(id string) *workspace.Workspace {
		return workspace.New(workspace.Config{ID: id, Dataset: ds})
	}, func(*workspace.Workspace) { closed.Add(1) }, nil)
	t.Cleanup(reg.Close)
	return reg, &closed
}

func TestWorkspace_NewSessionSetsCookie(t *testing.T) {
	reg, _ := newTestRegistry(t)

	rec := httptest.NewRecorder()
	ws, err := reg.Workspace(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	assert.NotEmpty(t, ws.ID)
	assert.Equal(t, 1, reg.Len())

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionName, cookies[0].Name)
}

func TestWorkspace_SameSessionSameWorkspace(t *testing.T) {
	reg, _ := newTestRegistry(t)

	rec := httptest.NewRecorder()
	first, err := reg.Workspace(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	second, err := reg.Workspace(httptest.NewRecorder(), req)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, reg.Len())
}

func TestWorkspace_DistinctSessions(t *testing.T) {
	reg, _ := newTestRegistry(t)

	a, err := reg.Workspace(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	b, err := reg.Workspace(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, 2, reg.Len())
}

func TestWorkspace_KnownSessionAfterRestart(t *testing.T) {
	reg, _ := newTestRegistry(t)

	rec := httptest.NewRecorder()
	ws, err := reg.Workspace(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	id := ws.ID

	// Same secret, empty registry
	other, _ := newTestRegistry(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	rebuilt, err := other.Workspace(httptest.NewRecorder(), req)
	require.NoError(t, err)
	assert.Equal(t, id, rebuilt.ID)
}

func TestEachAndClose(t *testing.T) {
	reg, closed := newTestRegistry(t)

	for range 3 {
		_, err := reg.Workspace(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		require.NoError(t, err)
	}

	var seen int
	reg.Each(func(*workspace.Workspace) { seen++ })
	assert.Equal(t, 3, seen)

	reg.Close()
	assert.Equal(t, 0, reg.Len())
	assert.Equal(t, int32(3), closed.Load())

	_, ok := reg.Lookup("missing")
	assert.False(t, ok)
}
