package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/netpersona/popcorn/internal/channel"
	"github.com/netpersona/popcorn/internal/config"
	"github.com/netpersona/popcorn/internal/livetv"
	"github.com/netpersona/popcorn/internal/logger"
	"github.com/netpersona/popcorn/internal/timeline"
)

// NowPlayingResponse describes what a tuner channel is airing
type NowPlayingResponse struct {
	Channel  livetv.Channel            `json:"channel"`
	Airing   bool                      `json:"airing"`
	Position *timeline.ProgramPosition `json:"position,omitempty"`
}

// LiveTVHandler serves tuner emulation and guide exports
type LiveTVHandler struct {
	service *livetv.Service
	cfg     config.LiveTVConfig
}

// NewLiveTVHandler creates a new live TV handler instance
func NewLiveTVHandler(service *livetv.Service, cfg config.LiveTVConfig) *LiveTVHandler {
	return &LiveTVHandler{
		service: service,
		cfg:     cfg,
	}
}

// Discover handles GET /discover.json
func (h *LiveTVHandler) Discover(c *gin.Context) {
	c.JSON(http.StatusOK, livetv.Discover(h.cfg, requestBaseURL(c, h.cfg.BaseURL)))
}

// LineupStatus handles GET /lineup_status.json
func (h *LiveTVHandler) LineupStatus(c *gin.Context) {
	c.JSON(http.StatusOK, livetv.Status())
}

// Lineup handles GET /lineup.json
func (h *LiveTVHandler) Lineup(c *gin.Context) {
	channels, ok := h.channels(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, livetv.Lineup(channels, requestBaseURL(c, h.cfg.BaseURL)))
}

// Playlist handles GET /playlist.m3u
func (h *LiveTVHandler) Playlist(c *gin.Context) {
	channels, ok := h.channels(c)
	if !ok {
		return
	}
	c.Data(http.StatusOK, "audio/x-mpegurl; charset=utf-8",
		[]byte(livetv.M3U(channels, requestBaseURL(c, h.cfg.BaseURL))))
}

// Guide handles GET /epg.xml
func (h *LiveTVHandler) Guide(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	tv, err := h.service.Guide(ctx, time.Now(), requestBaseURL(c, h.cfg.BaseURL))
	if err != nil {
		logger.Log.Error().
			Err(err).
			Msg("Failed to build XMLTV guide")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "guide_failed",
			Message: "Failed to build guide",
		})
		return
	}

	c.Header("Content-Type", "application/xml; charset=utf-8")
	c.Status(http.StatusOK)
	if err := livetv.WriteXML(c.Writer, tv); err != nil {
		logger.Log.Error().
			Err(err).
			Msg("Failed to write XMLTV guide")
	}
}

// NowPlaying handles GET /livetv/stream/:number
// Returns the program position rather than a media stream.
func (h *LiveTVHandler) NowPlaying(c *gin.Context) {
	number, err := strconv.Atoi(c.Param("number"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_number",
			Message: "Channel number must be an integer",
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	ch, position, err := h.service.NowPlaying(ctx, number, time.Now())
	if err != nil {
		if channel.IsChannelNotFound(err) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "not_found",
				Message: "Channel not found",
			})
			return
		}
		logger.Log.Error().
			Err(err).
			Int("number", number).
			Msg("Failed to resolve now playing")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "lookup_failed",
			Message: "Failed to resolve current program",
		})
		return
	}

	c.JSON(http.StatusOK, NowPlayingResponse{
		Channel:  *ch,
		Airing:   position != nil,
		Position: position,
	})
}

func (h *LiveTVHandler) channels(c *gin.Context) ([]livetv.Channel, bool) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	channels, err := h.service.Channels(ctx, time.Now())
	if err != nil {
		logger.Log.Error().
			Err(err).
			Msg("Failed to list live TV channels")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "lineup_failed",
			Message: "Failed to build lineup",
		})
		return nil, false
	}
	return channels, true
}

// SetupLiveTVRoutes registers tuner emulation routes on the root router
func SetupLiveTVRoutes(router gin.IRouter, service *livetv.Service, cfg config.LiveTVConfig) {
	handler := NewLiveTVHandler(service, cfg)

	router.GET("/discover.json", handler.Discover)
	router.GET("/lineup.json", handler.Lineup)
	router.GET("/lineup_status.json", handler.LineupStatus)
	router.GET("/playlist.m3u", handler.Playlist)
	router.GET("/epg.xml", handler.Guide)
	router.GET("/livetv/stream/:number", handler.NowPlaying)
}
