package api

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/netpersona/popcorn/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createThemed(t *testing.T, env *testEnv, body map[string]interface{}) *models.ThemedChannel {
	t.Helper()
	w := env.do(http.MethodPost, "/api/themed-channels", mustJSON(t, body))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	ch := decode[models.ThemedChannel](t, w.Body.Bytes())
	return &ch
}

func TestThemedChannelAPI(t *testing.T) {
	env := setupTestEnv(t, nil)

	t.Run("Create_Success", func(t *testing.T) {
		ch := createThemed(t, env, map[string]interface{}{
			"name":         "Creature Feature",
			"start_month":  9,
			"end_month":    11,
			"genre_filter": "horror",
			"filter_mode":  "or",
		})
		assert.NotEqual(t, uuid.Nil, ch.ID)
		assert.Equal(t, "Creature Feature", ch.Name)
		assert.Equal(t, models.FilterModeAny, ch.FilterMode)
	})

	t.Run("Create_DuplicateName", func(t *testing.T) {
		w := env.do(http.MethodPost, "/api/themed-channels", mustJSON(t, map[string]interface{}{
			"name":        "creature feature",
			"start_month": 1,
			"end_month":   12,
		}))
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "duplicate_name", decode[ErrorResponse](t, w.Body.Bytes()).Error)
	})

	t.Run("Create_InvalidMonth", func(t *testing.T) {
		w := env.do(http.MethodPost, "/api/themed-channels", mustJSON(t, map[string]interface{}{
			"name":        "Bad Month",
			"start_month": 13,
			"end_month":   2,
		}))
		assert.Equal(t, http.StatusBadRequest, w.Code)

		response := decode[ErrorResponse](t, w.Body.Bytes())
		assert.Equal(t, "validation_failed", response.Error)
		assert.Contains(t, response.Message, "months")
	})

	t.Run("Create_MissingName", func(t *testing.T) {
		w := env.do(http.MethodPost, "/api/themed-channels", mustJSON(t, map[string]interface{}{
			"start_month": 1,
			"end_month":   2,
		}))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "invalid_request", decode[ErrorResponse](t, w.Body.Bytes()).Error)
	})

	t.Run("Get_InvalidID", func(t *testing.T) {
		w := env.do(http.MethodGet, "/api/themed-channels/not-a-uuid", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "invalid_id", decode[ErrorResponse](t, w.Body.Bytes()).Error)
	})

	t.Run("Get_NotFound", func(t *testing.T) {
		w := env.do(http.MethodGet, "/api/themed-channels/"+uuid.New().String(), nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Update_PartialKeepsOtherFields", func(t *testing.T) {
		ch := createThemed(t, env, map[string]interface{}{
			"name":          "Date Night",
			"start_month":   2,
			"end_month":     2,
			"genre_filter":  "romance",
			"rating_filter": "PG,PG-13",
		})

		w := env.do(http.MethodPut, "/api/themed-channels/"+ch.ID.String(), mustJSON(t, map[string]interface{}{
			"name": "Valentine Classics",
		}))
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		updated := decode[models.ThemedChannel](t, w.Body.Bytes())
		assert.Equal(t, "Valentine Classics", updated.Name)
		assert.Equal(t, "romance", updated.GenreFilter)
		assert.Equal(t, "PG,PG-13", updated.RatingFilter)
		assert.Equal(t, 2, updated.StartMonth)
	})

	t.Run("Update_InvalidMode", func(t *testing.T) {
		ch := createThemed(t, env, map[string]interface{}{
			"name":        "Mode Test",
			"start_month": 1,
			"end_month":   1,
		})

		w := env.do(http.MethodPut, "/api/themed-channels/"+ch.ID.String(), mustJSON(t, map[string]interface{}{
			"filter_mode": "XOR",
		}))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Delete_Success", func(t *testing.T) {
		ch := createThemed(t, env, map[string]interface{}{
			"name":        "Short Lived",
			"start_month": 6,
			"end_month":   8,
		})

		w := env.do(http.MethodDelete, "/api/themed-channels/"+ch.ID.String(), nil)
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = env.do(http.MethodGet, "/api/themed-channels/"+ch.ID.String(), nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("List", func(t *testing.T) {
		w := env.do(http.MethodGet, "/api/themed-channels", nil)
		require.Equal(t, http.StatusOK, w.Code)

		response := decode[ThemedChannelListResponse](t, w.Body.Bytes())
		assert.Len(t, response.Channels, 3)
	})
}

func TestThemedChannelEligibleAndOverrides(t *testing.T) {
	env := setupTestEnv(t, nil)
	env.addEntry(t, "10", "The Thing", "Horror", 109)
	env.addEntry(t, "11", "Halloween", "Horror", 91)
	env.addEntry(t, "12", "Airplane!", "Comedy", 88)

	ch := createThemed(t, env, map[string]interface{}{
		"name":         "Fright Night",
		"start_month":  1,
		"end_month":    12,
		"genre_filter": "horror",
		"filter_mode":  "ANY",
	})
	base := "/api/themed-channels/" + ch.ID.String()

	t.Run("Eligible_ByGenre", func(t *testing.T) {
		w := env.do(http.MethodGet, base+"/eligible", nil)
		require.Equal(t, http.StatusOK, w.Code)

		response := decode[EligibleResponse](t, w.Body.Bytes())
		assert.Equal(t, "Fright Night", response.Channel)
		assert.Equal(t, 2, response.Count)
		assert.Empty(t, response.Decisions)
	})

	t.Run("Eligible_Explain", func(t *testing.T) {
		w := env.do(http.MethodGet, base+"/eligible?explain=true", nil)
		require.Equal(t, http.StatusOK, w.Code)

		response := decode[EligibleResponse](t, w.Body.Bytes())
		assert.Len(t, response.Decisions, 3)
	})

	t.Run("SetOverride_Blacklist", func(t *testing.T) {
		w := env.do(http.MethodPut, base+"/overrides/10", mustJSON(t, map[string]string{"type": "blacklist"}))
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = env.do(http.MethodGet, base+"/eligible", nil)
		response := decode[EligibleResponse](t, w.Body.Bytes())
		require.Equal(t, 1, response.Count)
		assert.Equal(t, "Halloween", response.Entries[0].Title)
	})

	t.Run("SetOverride_Whitelist", func(t *testing.T) {
		w := env.do(http.MethodPut, base+"/overrides/12", mustJSON(t, map[string]string{"type": "whitelist"}))
		require.Equal(t, http.StatusOK, w.Code)

		w = env.do(http.MethodGet, base+"/overrides", nil)
		require.Equal(t, http.StatusOK, w.Code)
		response := decode[OverrideListResponse](t, w.Body.Bytes())
		assert.Len(t, response.Overrides, 2)
	})

	t.Run("SetOverride_InvalidType", func(t *testing.T) {
		w := env.do(http.MethodPut, base+"/overrides/12", mustJSON(t, map[string]string{"type": "greylist"}))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("SetOverride_UnknownEntry", func(t *testing.T) {
		w := env.do(http.MethodPut, base+"/overrides/999", mustJSON(t, map[string]string{"type": "whitelist"}))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("DeleteOverride", func(t *testing.T) {
		w := env.do(http.MethodDelete, base+"/overrides/10", nil)
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = env.do(http.MethodDelete, base+"/overrides/10", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
