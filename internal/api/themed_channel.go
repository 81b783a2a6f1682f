package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/netpersona/popcorn/internal/channel"
	"github.com/netpersona/popcorn/internal/logger"
	"github.com/netpersona/popcorn/internal/models"
	"github.com/netpersona/popcorn/internal/schedule"
)

// CreateThemedChannelRequest represents a request to create a themed channel
type CreateThemedChannelRequest struct {
	Name               string `json:"name" binding:"required"`
	StartMonth         int    `json:"start_month" binding:"required"`
	EndMonth           int    `json:"end_month" binding:"required"`
	GenreFilter        string `json:"genre_filter"`
	Keywords           string `json:"keywords"`
	RatingFilter       string `json:"rating_filter"`
	FilterMode         string `json:"filter_mode"`
	CollectionIDs      string `json:"collection_ids"`
	ExternalKeywordIDs string `json:"external_keyword_ids"`
	MinScore           string `json:"min_score"`
	MinPopularity      string `json:"min_popularity"`
}

// UpdateThemedChannelRequest represents a partial update of a themed channel
type UpdateThemedChannelRequest struct {
	Name               *string `json:"name,omitempty"`
	StartMonth         *int    `json:"start_month,omitempty"`
	EndMonth           *int    `json:"end_month,omitempty"`
	GenreFilter        *string `json:"genre_filter,omitempty"`
	Keywords           *string `json:"keywords,omitempty"`
	RatingFilter       *string `json:"rating_filter,omitempty"`
	FilterMode         *string `json:"filter_mode,omitempty"`
	CollectionIDs      *string `json:"collection_ids,omitempty"`
	ExternalKeywordIDs *string `json:"external_keyword_ids,omitempty"`
	MinScore           *string `json:"min_score,omitempty"`
	MinPopularity      *string `json:"min_popularity,omitempty"`
}

// ThemedChannelListResponse represents a list of themed channels
type ThemedChannelListResponse struct {
	Channels []*models.ThemedChannel `json:"channels"`
}

// EligibleResponse lists what a themed channel would air
type EligibleResponse struct {
	Channel   string                 `json:"channel"`
	Count     int                    `json:"count"`
	Entries   []*models.CatalogEntry `json:"entries"`
	Decisions []schedule.Explanation `json:"decisions,omitempty"`
}

// SetOverrideRequest represents a whitelist/blacklist decision
type SetOverrideRequest struct {
	Type string `json:"type" binding:"required"`
}

// OverrideListResponse represents a channel's overrides
type OverrideListResponse struct {
	Overrides []*models.MovieOverride `json:"overrides"`
}

// ThemedChannelHandler handles themed channel administration
type ThemedChannelHandler struct {
	channelService  *channel.ChannelService
	overrideService *channel.OverrideService
	generator       *schedule.Generator
}

// NewThemedChannelHandler creates a new themed channel handler instance
func NewThemedChannelHandler(channelService *channel.ChannelService, overrideService *channel.OverrideService, generator *schedule.Generator) *ThemedChannelHandler {
	return &ThemedChannelHandler{
		channelService:  channelService,
		overrideService: overrideService,
		generator:       generator,
	}
}

// writeServiceError maps channel service errors to HTTP responses
func writeServiceError(c *gin.Context, err error, action string) {
	switch {
	case channel.IsChannelNotFound(err):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "not_found", Message: "Channel not found"})
	case channel.IsOverrideNotFound(err):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "not_found", Message: "Override not found"})
	case channel.IsEntryNotFound(err):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "not_found", Message: "Catalog entry not found"})
	case channel.IsDuplicateName(err):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "duplicate_name", Message: "A channel with this name already exists"})
	case channel.IsValidationError(err):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation_failed", Message: validationMessage(err)})
	default:
		logger.Log.Error().
			Err(err).
			Str("action", action).
			Msg("Themed channel request failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: action + "_failed", Message: "Failed to " + action + " themed channel"})
	}
}

func validationMessage(err error) string {
	for _, sentinel := range []error{
		channel.ErrInvalidName, channel.ErrInvalidMonth, channel.ErrInvalidFilterMode,
		channel.ErrInvalidDay, channel.ErrInvalidOverrideType,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return err.Error()
}

// parseChannelID reads the :id parameter, writing a 400 when malformed
func parseChannelID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_id",
			Message: "Invalid channel ID format",
		})
		return uuid.Nil, false
	}
	return id, true
}

// ListThemedChannels handles GET /api/themed-channels
func (h *ThemedChannelHandler) ListThemedChannels(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	channels, err := h.channelService.ListThemedChannels(ctx)
	if err != nil {
		writeServiceError(c, err, "list")
		return
	}
	c.JSON(http.StatusOK, ThemedChannelListResponse{Channels: channels})
}

// CreateThemedChannel handles POST /api/themed-channels
func (h *ThemedChannelHandler) CreateThemedChannel(c *gin.Context) {
	var req CreateThemedChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	ch := models.NewThemedChannel(req.Name, req.StartMonth, req.EndMonth)
	ch.GenreFilter = req.GenreFilter
	ch.Keywords = req.Keywords
	ch.RatingFilter = req.RatingFilter
	if req.FilterMode != "" {
		ch.FilterMode = req.FilterMode
	}
	ch.CollectionIDs = req.CollectionIDs
	ch.ExternalKeywordIDs = req.ExternalKeywordIDs
	ch.MinScore = req.MinScore
	ch.MinPopularity = req.MinPopularity

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	created, err := h.channelService.CreateThemedChannel(ctx, ch)
	if err != nil {
		writeServiceError(c, err, "create")
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GetThemedChannel handles GET /api/themed-channels/:id
func (h *ThemedChannelHandler) GetThemedChannel(c *gin.Context) {
	id, ok := parseChannelID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	ch, err := h.channelService.GetThemedChannel(ctx, id)
	if err != nil {
		writeServiceError(c, err, "get")
		return
	}
	c.JSON(http.StatusOK, ch)
}

// UpdateThemedChannel handles PUT /api/themed-channels/:id (partial update)
func (h *ThemedChannelHandler) UpdateThemedChannel(c *gin.Context) {
	id, ok := parseChannelID(c)
	if !ok {
		return
	}

	var req UpdateThemedChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	ch, err := h.channelService.GetThemedChannel(ctx, id)
	if err != nil {
		writeServiceError(c, err, "update")
		return
	}

	applyString := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	applyString(&ch.Name, req.Name)
	applyString(&ch.GenreFilter, req.GenreFilter)
	applyString(&ch.Keywords, req.Keywords)
	applyString(&ch.RatingFilter, req.RatingFilter)
	applyString(&ch.FilterMode, req.FilterMode)
	applyString(&ch.CollectionIDs, req.CollectionIDs)
	applyString(&ch.ExternalKeywordIDs, req.ExternalKeywordIDs)
	applyString(&ch.MinScore, req.MinScore)
	applyString(&ch.MinPopularity, req.MinPopularity)
	if req.StartMonth != nil {
		ch.StartMonth = *req.StartMonth
	}
	if req.EndMonth != nil {
		ch.EndMonth = *req.EndMonth
	}

	if err := h.channelService.UpdateThemedChannel(ctx, ch); err != nil {
		writeServiceError(c, err, "update")
		return
	}
	c.JSON(http.StatusOK, ch)
}

// DeleteThemedChannel handles DELETE /api/themed-channels/:id
func (h *ThemedChannelHandler) DeleteThemedChannel(c *gin.Context) {
	id, ok := parseChannelID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	if err := h.channelService.DeleteThemedChannel(ctx, id); err != nil {
		writeServiceError(c, err, "delete")
		return
	}
	c.Status(http.StatusNoContent)
}

// GetEligible handles GET /api/themed-channels/:id/eligible
// With ?explain=true every catalog row is returned with its decision.
func (h *ThemedChannelHandler) GetEligible(c *gin.Context) {
	id, ok := parseChannelID(c)
	if !ok {
		return
	}

	// Enrichment lookups may run here, so allow more than a plain query
	ctx, cancel := context.WithTimeout(c.Request.Context(), 6*requestTimeout)
	defer cancel()

	ch, err := h.channelService.GetThemedChannel(ctx, id)
	if err != nil {
		writeServiceError(c, err, "test")
		return
	}

	entries, err := h.generator.EligibleEntriesForChannel(ctx, ch)
	if err != nil {
		writeServiceError(c, err, "test")
		return
	}

	response := EligibleResponse{
		Channel: ch.Name,
		Count:   len(entries),
		Entries: entries,
	}
	if c.Query("explain") == "true" {
		decisions, err := h.generator.Explain(ctx, ch)
		if err != nil {
			writeServiceError(c, err, "test")
			return
		}
		response.Decisions = decisions
	}

	c.JSON(http.StatusOK, response)
}

// ListOverrides handles GET /api/themed-channels/:id/overrides
func (h *ThemedChannelHandler) ListOverrides(c *gin.Context) {
	id, ok := parseChannelID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	ch, err := h.channelService.GetThemedChannel(ctx, id)
	if err != nil {
		writeServiceError(c, err, "list")
		return
	}
	overrides, err := h.overrideService.ListOverrides(ctx, ch.Name)
	if err != nil {
		writeServiceError(c, err, "list")
		return
	}
	c.JSON(http.StatusOK, OverrideListResponse{Overrides: overrides})
}

// SetOverride handles PUT /api/themed-channels/:id/overrides/:source_id
func (h *ThemedChannelHandler) SetOverride(c *gin.Context) {
	id, ok := parseChannelID(c)
	if !ok {
		return
	}

	var req SetOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	ch, err := h.channelService.GetThemedChannel(ctx, id)
	if err != nil {
		writeServiceError(c, err, "override")
		return
	}
	override, err := h.overrideService.SetOverride(ctx, ch.Name, c.Param("source_id"), req.Type)
	if err != nil {
		writeServiceError(c, err, "override")
		return
	}
	c.JSON(http.StatusOK, override)
}

// DeleteOverride handles DELETE /api/themed-channels/:id/overrides/:source_id
func (h *ThemedChannelHandler) DeleteOverride(c *gin.Context) {
	id, ok := parseChannelID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	ch, err := h.channelService.GetThemedChannel(ctx, id)
	if err != nil {
		writeServiceError(c, err, "override")
		return
	}
	if err := h.overrideService.RemoveOverride(ctx, ch.Name, c.Param("source_id")); err != nil {
		writeServiceError(c, err, "override")
		return
	}
	c.Status(http.StatusNoContent)
}

// SetupThemedChannelRoutes registers themed channel administration routes
func SetupThemedChannelRoutes(apiGroup *gin.RouterGroup, channelService *channel.ChannelService, overrideService *channel.OverrideService, generator *schedule.Generator) {
	handler := NewThemedChannelHandler(channelService, overrideService, generator)

	apiGroup.GET("/themed-channels", handler.ListThemedChannels)
	apiGroup.POST("/themed-channels", handler.CreateThemedChannel)
	apiGroup.GET("/themed-channels/:id", handler.GetThemedChannel)
	apiGroup.PUT("/themed-channels/:id", handler.UpdateThemedChannel)
	apiGroup.DELETE("/themed-channels/:id", handler.DeleteThemedChannel)

	apiGroup.GET("/themed-channels/:id/eligible", handler.GetEligible)
	apiGroup.GET("/themed-channels/:id/overrides", handler.ListOverrides)
	apiGroup.PUT("/themed-channels/:id/overrides/:source_id", handler.SetOverride)
	apiGroup.DELETE("/themed-channels/:id/overrides/:source_id", handler.DeleteOverride)
}
