package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/klondike/game/service"
	"github.com/wricardo/klondike/transport/mcp"
)

// withFlags points the storage flags at a temp dir for one test
func withFlags(t *testing.T, configs, storeKind string) {
	t.Helper()
	origConfig, origSessions, origStore := *configDir, *sessionsDir, *store
	*configDir = configs
	*sessionsDir = t.TempDir()
	*store = storeKind
	t.Cleanup(func() {
		*configDir, *sessionsDir, *store = origConfig, origSessions, origStore
	})
}

func TestConstants(t *testing.T) {
	assert.Equal(t, "1.0.0", Version)
	assert.Equal(t, "Klondike Solitaire Server", AppName)
}

func TestFlagDefaults(t *testing.T) {
	assert.Greater(t, *port, 0)
	assert.LessOrEqual(t, *port, 65535)
	assert.NotEmpty(t, *host)
	assert.NotEmpty(t, *configDir)
	assert.NotEmpty(t, *sessionsDir)
	assert.Positive(t, *sessionTTL)
}

func TestInitializeServices(t *testing.T) {
	withFlags(t, "configs", storeFile)

	svcs, err := initializeServices(context.Background())
	require.NoError(t, err)
	defer svcs.Close()

	require.NotNil(t, svcs.game)
	require.NotNil(t, svcs.sessions)

	configs, err := svcs.game.ListConfigs(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, configs)
}

func TestInitializeServices_InvalidConfigDir(t *testing.T) {
	withFlags(t, "/non/existent/path", storeFile)

	_, err := initializeServices(context.Background())
	assert.Error(t, err)
}

func TestInitializeServices_UnknownStore(t *testing.T) {
	withFlags(t, "configs", "mongo")

	_, err := initializeServices(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown session store")
}

func TestInitializeServices_ReloadsSessions(t *testing.T) {
	withFlags(t, "configs", storeFile)
	ctx := context.Background()

	first, err := initializeServices(ctx)
	require.NoError(t, err)
	info, err := first.game.CreateSession(ctx, service.CreateOptions{ConfigID: "draw3"})
	require.NoError(t, err)
	require.NoError(t, first.sessions.SaveAllSessions())

	second, err := initializeServices(ctx)
	require.NoError(t, err)

	reloaded, err := second.game.GetSession(ctx, info.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, reloaded.DrawCount)
	require.NotNil(t, reloaded.State)
	assert.Equal(t, info.State.Draw, reloaded.State.Draw)
	assert.Equal(t, info.State.Tableau(), reloaded.State.Tableau())
}

func TestPruneOrphans(t *testing.T) {
	withFlags(t, "configs", storeFile)
	ctx := context.Background()

	svcs, err := initializeServices(ctx)
	require.NoError(t, err)

	kept, err := svcs.game.CreateSession(ctx, service.CreateOptions{})
	require.NoError(t, err)
	orphan, err := svcs.game.CreateSession(ctx, service.CreateOptions{})
	require.NoError(t, err)

	assert.Equal(t, 0, svcs.pruneOrphans())

	require.NoError(t, svcs.persistence.Delete(orphan.ID))
	assert.Equal(t, 1, svcs.pruneOrphans())

	assert.Equal(t, 1, svcs.sessions.Count())
	_, err = svcs.game.GetSession(ctx, kept.ID)
	assert.NoError(t, err)
}

func TestRouterMCPEndpoint(t *testing.T) {
	api := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	router := newRouter(api, mcp.NewClient("http://localhost:0").GetMCPServer())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/mcp", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = httptest.NewRecorder()
	body := strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"ping"}`)
	router.ServeHTTP(rec, httptest.NewRequest("POST", "/mcp", body))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"jsonrpc":"2.0"`)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/sessions", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}
