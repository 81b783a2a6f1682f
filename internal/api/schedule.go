package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/netpersona/popcorn/internal/db"
	"github.com/netpersona/popcorn/internal/logger"
	"github.com/netpersona/popcorn/internal/schedule"
)

// regenerateTimeout bounds a full rebuild triggered over HTTP
const regenerateTimeout = 2 * time.Minute

// RegenerateRequest represents a request to rebuild schedules
type RegenerateRequest struct {
	Force bool `json:"force"`
}

// ScheduleSettingsResponse represents the regeneration cadence and state
type ScheduleSettingsResponse struct {
	Frequency         string     `json:"frequency"`
	ThresholdDays     int        `json:"threshold_days"`
	LastRegeneratedOn *time.Time `json:"last_regenerated_on,omitempty"`
	DaysSince         *int       `json:"days_since,omitempty"`
	Due               bool       `json:"due"`
}

// UpdateScheduleSettingsRequest represents a cadence change
type UpdateScheduleSettingsRequest struct {
	Frequency string `json:"frequency" binding:"required"`
}

// ScheduleHandler handles regeneration triggers and settings
type ScheduleHandler struct {
	runner           *schedule.Runner
	repos            *db.Repositories
	defaultFrequency string
}

// NewScheduleHandler creates a new schedule handler instance
func NewScheduleHandler(runner *schedule.Runner, repos *db.Repositories, defaultFrequency string) *ScheduleHandler {
	return &ScheduleHandler{
		runner:           runner,
		repos:            repos,
		defaultFrequency: defaultFrequency,
	}
}

// Regenerate handles POST /api/schedule/regenerate
// An empty body performs a staleness-checked run.
func (h *ScheduleHandler) Regenerate(c *gin.Context) {
	var req RegenerateRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_request",
				Message: "Invalid request body: " + err.Error(),
			})
			return
		}
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), regenerateTimeout)
	defer cancel()

	result, err := h.runner.Regenerate(ctx, req.Force)
	if err != nil {
		logger.Log.Error().
			Err(err).
			Bool("forced", req.Force).
			Msg("Schedule regeneration failed")

		message := "Failed to regenerate schedules"
		if schedule.IsClearFailed(err) {
			message = "Failed to clear existing schedules"
		} else if schedule.IsStateCommit(err) {
			message = "Schedules were rebuilt but the run could not be recorded"
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "regenerate_failed",
			Message: message,
		})
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetSettings handles GET /api/schedule/settings
func (h *ScheduleHandler) GetSettings(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	h.writeSettings(ctx, c)
}

// UpdateSettings handles PUT /api/schedule/settings
func (h *ScheduleHandler) UpdateSettings(c *gin.Context) {
	var req UpdateScheduleSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	// Make sure the singleton row exists before updating it
	if _, err := h.repos.Regeneration.Get(ctx, h.defaultFrequency); err != nil {
		h.settingsError(c, err)
		return
	}

	if err := h.repos.Regeneration.SetFrequency(ctx, req.Frequency); err != nil {
		if db.IsInvalidInput(err) {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_frequency",
				Message: "Frequency must be daily, weekly or monthly",
			})
			return
		}
		h.settingsError(c, err)
		return
	}

	logger.Log.Info().
		Str("frequency", req.Frequency).
		Msg("Regeneration frequency updated")

	h.writeSettings(ctx, c)
}

func (h *ScheduleHandler) writeSettings(ctx context.Context, c *gin.Context) {
	state, err := h.repos.Regeneration.Get(ctx, h.defaultFrequency)
	if err != nil {
		h.settingsError(c, err)
		return
	}

	due, days := schedule.IsDue(state, time.Now())
	response := ScheduleSettingsResponse{
		Frequency:         state.Frequency,
		ThresholdDays:     schedule.ThresholdDays(state.Frequency),
		LastRegeneratedOn: state.LastRegeneratedOn,
		Due:               due,
	}
	if days >= 0 {
		response.DaysSince = &days
	}

	c.JSON(http.StatusOK, response)
}

func (h *ScheduleHandler) settingsError(c *gin.Context, err error) {
	logger.Log.Error().
		Err(err).
		Msg("Failed to access regeneration settings")
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error:   "settings_failed",
		Message: "Failed to access schedule settings",
	})
}

// SetupScheduleRoutes registers schedule administration routes
func SetupScheduleRoutes(apiGroup *gin.RouterGroup, runner *schedule.Runner, repos *db.Repositories, defaultFrequency string) {
	handler := NewScheduleHandler(runner, repos, defaultFrequency)

	apiGroup.POST("/schedule/regenerate", handler.Regenerate)
	apiGroup.GET("/schedule/settings", handler.GetSettings)
	apiGroup.PUT("/schedule/settings", handler.UpdateSettings)
}
