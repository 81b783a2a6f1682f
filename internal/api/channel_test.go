package api

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/netpersona/popcorn/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelDirectoryAPI(t *testing.T) {
	env := setupTestEnv(t, nil)
	env.addEntry(t, "1", "Airplane!", "Comedy", 88)
	env.addEntry(t, "2", "Heat", "Action", 170)
	env.regenerate(t)

	t.Run("ListChannels_NumberedAndSorted", func(t *testing.T) {
		w := env.do(http.MethodGet, "/api/channels", nil)
		require.Equal(t, http.StatusOK, w.Code)

		response := decode[ChannelListResponse](t, w.Body.Bytes())
		require.Len(t, response.Channels, 2)
		assert.Equal(t, "Action", response.Channels[0].Name)
		assert.Equal(t, 201, response.Channels[0].Number)
		assert.Equal(t, "Heat", response.Channels[0].Current)
		assert.Equal(t, "Comedy", response.Channels[1].Name)
		assert.Equal(t, 301, response.Channels[1].Number)
	})

	t.Run("GetSchedule_CoversDay", func(t *testing.T) {
		w := env.do(http.MethodGet, "/api/channels/Comedy/schedule?day=0", nil)
		require.Equal(t, http.StatusOK, w.Code)

		response := decode[ScheduleResponse](t, w.Body.Bytes())
		assert.Equal(t, "Comedy", response.Channel)
		assert.Equal(t, 0, response.Day)
		require.Len(t, response.Slots, 17)
		assert.Equal(t, "00:00", response.Slots[0].Start)
		assert.Equal(t, "24:00", response.Slots[len(response.Slots)-1].End)
		assert.Equal(t, models.MinutesPerDay, response.Slots[len(response.Slots)-1].EndMin)
		require.NotNil(t, response.Slots[0].Entry)
		assert.Equal(t, "Airplane!", response.Slots[0].Entry.Title)
	})

	t.Run("GetSchedule_DefaultsToToday", func(t *testing.T) {
		w := env.do(http.MethodGet, "/api/channels/Action/schedule", nil)
		require.Equal(t, http.StatusOK, w.Code)

		response := decode[ScheduleResponse](t, w.Body.Bytes())
		assert.NotEmpty(t, response.Slots)
	})

	t.Run("GetSchedule_InvalidDay", func(t *testing.T) {
		for _, day := range []string{"7", "-1", "monday"} {
			w := env.do(http.MethodGet, "/api/channels/Comedy/schedule?day="+day, nil)
			assert.Equal(t, http.StatusBadRequest, w.Code, "day %s", day)

			response := decode[ErrorResponse](t, w.Body.Bytes())
			assert.Equal(t, "invalid_day", response.Error)
		}
	})

	t.Run("GetSchedule_UnknownChannelIsEmpty", func(t *testing.T) {
		w := env.do(http.MethodGet, "/api/channels/"+url.PathEscape("Film Noir")+"/schedule?day=3", nil)
		require.Equal(t, http.StatusOK, w.Code)

		response := decode[ScheduleResponse](t, w.Body.Bytes())
		assert.Empty(t, response.Slots)
	})

	t.Run("GetCurrentProgram_Airing", func(t *testing.T) {
		w := env.do(http.MethodGet, "/api/channels/Comedy/current", nil)
		require.Equal(t, http.StatusOK, w.Code)

		response := decode[CurrentProgramResponse](t, w.Body.Bytes())
		assert.True(t, response.Airing)
		require.NotNil(t, response.Position)
		assert.Equal(t, "Airplane!", response.Position.Title)
		require.NotNil(t, response.Slot)
	})

	t.Run("GetCurrentProgram_NothingAiring", func(t *testing.T) {
		w := env.do(http.MethodGet, "/api/channels/Western/current", nil)
		require.Equal(t, http.StatusOK, w.Code)

		response := decode[CurrentProgramResponse](t, w.Body.Bytes())
		assert.False(t, response.Airing)
		assert.Nil(t, response.Position)
	})
}
