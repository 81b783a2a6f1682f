package api

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/netpersona/popcorn/internal/catalog"
	"github.com/netpersona/popcorn/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogAPI(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.yaml")
	content := `
- source_id: "101"
  title: Alien
  genres: [Horror, Sci-Fi]
  duration: 117
  year: 1979
- source_id: "102"
  title: Airplane!
  genres: Comedy
  duration: 88
- source_id: "103"
  title: Broken Export
  genres: Drama
  duration: 0
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	env := setupTestEnv(t, catalog.NewFileSource(path))

	t.Run("Sync", func(t *testing.T) {
		w := env.do(http.MethodPost, "/api/catalog/sync", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		result := decode[catalog.SyncResult](t, w.Body.Bytes())
		assert.Equal(t, 3, result.Items)
		assert.Equal(t, 3, result.Rows)
		assert.Equal(t, 1, result.Skipped)
	})

	t.Run("List", func(t *testing.T) {
		w := env.do(http.MethodGet, "/api/catalog", nil)
		require.Equal(t, http.StatusOK, w.Code)

		response := decode[CatalogListResponse](t, w.Body.Bytes())
		assert.Equal(t, 3, response.Count)
	})

	t.Run("List_ByGenre", func(t *testing.T) {
		w := env.do(http.MethodGet, "/api/catalog?genre=Sci-Fi", nil)
		require.Equal(t, http.StatusOK, w.Code)

		response := decode[CatalogListResponse](t, w.Body.Bytes())
		require.Equal(t, 1, response.Count)
		assert.Equal(t, "Alien", response.Entries[0].Title)
	})

	t.Run("Genres", func(t *testing.T) {
		w := env.do(http.MethodGet, "/api/catalog/genres", nil)
		require.Equal(t, http.StatusOK, w.Code)

		response := decode[GenreListResponse](t, w.Body.Bytes())
		assert.Equal(t, []string{"Comedy", "Horror", "Sci-Fi"}, response.Genres)
	})
}

func TestCatalogAPI_NoSource(t *testing.T) {
	env := setupTestEnv(t, nil)

	w := env.do(http.MethodPost, "/api/catalog/sync", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "no_source", decode[ErrorResponse](t, w.Body.Bytes()).Error)
}

func TestCatalogAPI_ResyncAfterRemovalKeepsDaysCovered(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.yaml")
	both := `
- source_id: "201"
  title: Airplane!
  genres: Comedy
  duration: 90
- source_id: "202"
  title: Short Film
  genres: Comedy
  duration: 45
`
	require.NoError(t, os.WriteFile(path, []byte(both), 0o644))

	env := setupTestEnv(t, catalog.NewFileSource(path))

	w := env.do(http.MethodPost, "/api/catalog/sync", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	env.regenerate(t)

	only := `
- source_id: "201"
  title: Airplane!
  genres: Comedy
  duration: 90
`
	require.NoError(t, os.WriteFile(path, []byte(only), 0o644))

	w = env.do(http.MethodPost, "/api/catalog/sync", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	result := decode[catalog.SyncResult](t, w.Body.Bytes())
	assert.Equal(t, int64(1), result.Pruned)
	assert.True(t, result.Rebuilt)

	for day := 0; day < models.DaysPerWeek; day++ {
		w := env.do(http.MethodGet, fmt.Sprintf("/api/channels/Comedy/schedule?day=%d", day), nil)
		require.Equal(t, http.StatusOK, w.Code)

		response := decode[ScheduleResponse](t, w.Body.Bytes())
		require.NotEmpty(t, response.Slots)
		cursor := 0
		for _, slot := range response.Slots {
			assert.Equal(t, cursor, slot.StartMin)
			require.NotNil(t, slot.Entry)
			assert.Equal(t, "201", slot.Entry.SourceID)
			cursor = slot.EndMin
		}
		assert.Equal(t, models.MinutesPerDay, cursor)
	}
}
