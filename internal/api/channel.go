package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/netpersona/popcorn/internal/channel"
	"github.com/netpersona/popcorn/internal/logger"
	"github.com/netpersona/popcorn/internal/models"
	"github.com/netpersona/popcorn/internal/numbering"
	"github.com/netpersona/popcorn/internal/timeline"
)

// ChannelSummary is one row of the channel guide
type ChannelSummary struct {
	Name    string `json:"name"`
	Number  int    `json:"number"`
	Current string `json:"current,omitempty"`
}

// ChannelListResponse represents the channel guide
type ChannelListResponse struct {
	Channels []*ChannelSummary `json:"channels"`
}

// SlotResponse represents a schedule slot in API responses
type SlotResponse struct {
	Start    string               `json:"start"`
	End      string               `json:"end"`
	StartMin int                  `json:"start_minute"`
	EndMin   int                  `json:"end_minute"`
	Entry    *models.CatalogEntry `json:"entry,omitempty"`
}

// ScheduleResponse represents a channel's slots for one day
type ScheduleResponse struct {
	Channel string          `json:"channel"`
	Day     int             `json:"day"`
	Slots   []*SlotResponse `json:"slots"`
}

// CurrentProgramResponse represents what a channel is airing now
type CurrentProgramResponse struct {
	Channel  string                    `json:"channel"`
	Airing   bool                      `json:"airing"`
	Position *timeline.ProgramPosition `json:"position,omitempty"`
	Slot     *SlotResponse             `json:"slot,omitempty"`
}

// ChannelHandler handles channel directory requests
type ChannelHandler struct {
	channelService *channel.ChannelService
	numbers        *numbering.Service
}

// NewChannelHandler creates a new channel handler instance
func NewChannelHandler(channelService *channel.ChannelService, numbers *numbering.Service) *ChannelHandler {
	return &ChannelHandler{
		channelService: channelService,
		numbers:        numbers,
	}
}

func toSlotResponse(s *models.ScheduleSlot) *SlotResponse {
	return &SlotResponse{
		Start:    s.StartTime(),
		End:      s.EndTime(),
		StartMin: s.StartMinute,
		EndMin:   s.EndMinute,
		Entry:    s.Entry,
	}
}

// ListChannels handles GET /api/channels
func (h *ChannelHandler) ListChannels(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	now := time.Now()
	names, err := h.channelService.AllChannelNames(ctx, now)
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to list channels")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "query_failed",
			Message: "Failed to retrieve channels",
		})
		return
	}

	numbers, err := h.numbers.Numbers(ctx, names)
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to assign channel numbers")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "query_failed",
			Message: "Failed to retrieve channel numbers",
		})
		return
	}

	channels := make([]*ChannelSummary, 0, len(names))
	for _, name := range names {
		summary := &ChannelSummary{Name: name, Number: numbers[name]}
		slot, err := h.channelService.CurrentProgram(ctx, name, now)
		if err != nil {
			logger.Log.Warn().
				Err(err).
				Str("channel", name).
				Msg("Failed to look up current program")
		} else if slot != nil && slot.Entry != nil {
			summary.Current = slot.Entry.Title
		}
		channels = append(channels, summary)
	}

	c.JSON(http.StatusOK, ChannelListResponse{Channels: channels})
}

// GetSchedule handles GET /api/channels/:name/schedule?day=
// The day defaults to today (0 = Monday).
func (h *ChannelHandler) GetSchedule(c *gin.Context) {
	name := c.Param("name")

	day := timeline.DayOfWeek(time.Now())
	if raw := c.Query("day"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_day",
				Message: "Day must be a number between 0 and 6",
			})
			return
		}
		day = parsed
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	slots, err := h.channelService.ChannelSchedule(ctx, name, day)
	if err != nil {
		if errors.Is(err, channel.ErrInvalidDay) {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_day",
				Message: "Day must be a number between 0 and 6",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "query_failed",
			Message: "Failed to retrieve schedule",
		})
		return
	}

	response := ScheduleResponse{
		Channel: name,
		Day:     day,
		Slots:   make([]*SlotResponse, 0, len(slots)),
	}
	for _, s := range slots {
		response.Slots = append(response.Slots, toSlotResponse(s))
	}

	c.JSON(http.StatusOK, response)
}

// GetCurrentProgram handles GET /api/channels/:name/current
func (h *ChannelHandler) GetCurrentProgram(c *gin.Context) {
	name := c.Param("name")

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	now := time.Now()
	slot, err := h.channelService.CurrentProgram(ctx, name, now)
	if err != nil {
		logger.Log.Error().
			Err(err).
			Str("channel", name).
			Msg("Failed to get current program")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "query_failed",
			Message: "Failed to retrieve current program",
		})
		return
	}

	response := CurrentProgramResponse{Channel: name}
	if slot != nil {
		response.Airing = true
		response.Position = timeline.Position(slot, now)
		response.Slot = toSlotResponse(slot)
	}

	c.JSON(http.StatusOK, response)
}

// SetupChannelRoutes registers channel directory routes
func SetupChannelRoutes(apiGroup *gin.RouterGroup, channelService *channel.ChannelService, numbers *numbering.Service) {
	handler := NewChannelHandler(channelService, numbers)

	apiGroup.GET("/channels", handler.ListChannels)
	apiGroup.GET("/channels/:name/schedule", handler.GetSchedule)
	apiGroup.GET("/channels/:name/current", handler.GetCurrentProgram)
}
