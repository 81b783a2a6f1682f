package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/netpersona/popcorn/internal/config"
	"github.com/netpersona/popcorn/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()

	libraryPath := filepath.Join(dir, "library.yaml")
	library := `
- source_id: "1"
  title: Airplane!
  genres: [Comedy]
  duration: 88
- source_id: "2"
  title: Halloween
  genres: [Horror]
  duration: 91
`
	require.NoError(t, os.WriteFile(libraryPath, []byte(library), 0o644))

	return &config.Config{
		Server:   config.ServerConfig{Port: 0, Host: "127.0.0.1", ReadTimeout: time.Second, WriteTimeout: time.Second},
		Database: config.DatabaseConfig{Path: filepath.Join(dir, "popcorn.db"), MigrationsPath: "file://../../migrations"},
		Logging:  config.LoggingConfig{Level: "info"},
		Schedule: config.ScheduleConfig{
			Frequency:           "weekly",
			CheckInterval:       time.Hour,
			RegenerateOnStart:   true,
			SeedDefaultChannels: true,
		},
		Catalog: config.CatalogConfig{Path: libraryPath, SyncOnStart: true},
		LiveTV:  config.LiveTVConfig{DeviceID: "TEST", FriendlyName: "Popcorn", TunerCount: 1},
		Cache:   config.CacheConfig{PosterSize: 10},
	}
}

func setupTestServer(t *testing.T, cfg *config.Config) *Server {
	t.Helper()
	database, err := db.Open(cfg.Database.Path, cfg.Database.MigrationsPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	srv, err := New(cfg, database)
	require.NoError(t, err)
	return srv
}

func TestPrepare_SyncsSeedsAndRegenerates(t *testing.T) {
	cfg := testConfig(t)
	srv := setupTestServer(t, cfg)
	ctx := context.Background()

	require.NoError(t, srv.Prepare(ctx))

	entries, err := srv.repos.Catalog.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), entries)

	themed, err := srv.repos.ThemedChannels.List(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, themed)

	slots, err := srv.repos.Schedules.Count(ctx)
	require.NoError(t, err)
	assert.Positive(t, slots)

	// A second start does not reseed or rebuild fresh schedules
	before, err := srv.repos.Schedules.ListDay(ctx, "Comedy", 0)
	require.NoError(t, err)
	require.NoError(t, srv.Prepare(ctx))
	after, err := srv.repos.Schedules.ListDay(ctx, "Comedy", 0)
	require.NoError(t, err)
	require.Equal(t, len(before), len(after))
	assert.Equal(t, before[0].ID, after[0].ID)

	again, err := srv.repos.ThemedChannels.List(ctx)
	require.NoError(t, err)
	assert.Len(t, again, len(themed))
}

func TestPrepare_WithoutCatalogSource(t *testing.T) {
	cfg := testConfig(t)
	cfg.Catalog.Path = ""
	cfg.Schedule.SeedDefaultChannels = false
	srv := setupTestServer(t, cfg)

	require.NoError(t, srv.Prepare(context.Background()))

	slots, err := srv.repos.Schedules.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, slots)
}

func TestRouter_RegistersRoutes(t *testing.T) {
	cfg := testConfig(t)
	srv := setupTestServer(t, cfg)
	require.NoError(t, srv.Prepare(context.Background()))
	srv.setupRouter()

	tests := []struct {
		path string
		want int
	}{
		{"/api/health", http.StatusOK},
		{"/api/channels", http.StatusOK},
		{"/api/themed-channels", http.StatusOK},
		{"/api/schedule/settings", http.StatusOK},
		{"/api/catalog", http.StatusOK},
		{"/discover.json", http.StatusOK},
		{"/lineup.json", http.StatusOK},
		{"/epg.xml", http.StatusOK},
		{"/metrics", http.StatusOK},
		{"/api/does-not-exist", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			w := httptest.NewRecorder()
			srv.router.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestShutdown_BeforeStart(t *testing.T) {
	srv := setupTestServer(t, testConfig(t))
	assert.NoError(t, srv.Shutdown(context.Background()))
}
