package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/netpersona/popcorn/internal/catalog"
	"github.com/netpersona/popcorn/internal/db"
	"github.com/netpersona/popcorn/internal/logger"
	"github.com/netpersona/popcorn/internal/models"
)

// syncTimeout bounds a catalog sync triggered over HTTP
const syncTimeout = time.Minute

// CatalogListResponse represents catalog rows
type CatalogListResponse struct {
	Entries []*models.CatalogEntry `json:"entries"`
	Count   int                    `json:"count"`
}

// GenreListResponse represents the distinct catalog genres
type GenreListResponse struct {
	Genres []string `json:"genres"`
}

// CatalogHandler handles catalog browsing and sync
type CatalogHandler struct {
	repos  *db.Repositories
	syncer *catalog.Syncer
}

// NewCatalogHandler creates a new catalog handler instance
func NewCatalogHandler(repos *db.Repositories, syncer *catalog.Syncer) *CatalogHandler {
	return &CatalogHandler{
		repos:  repos,
		syncer: syncer,
	}
}

// ListEntries handles GET /api/catalog
// Supports optional ?genre= filter.
func (h *CatalogHandler) ListEntries(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	var (
		entries []*models.CatalogEntry
		err     error
	)
	if genre := c.Query("genre"); genre != "" {
		entries, err = h.repos.Catalog.ListByGenre(ctx, genre)
	} else {
		entries, err = h.repos.Catalog.List(ctx)
	}
	if err != nil {
		logger.Log.Error().
			Err(err).
			Msg("Failed to list catalog entries")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "list_failed",
			Message: "Failed to retrieve catalog",
		})
		return
	}

	c.JSON(http.StatusOK, CatalogListResponse{
		Entries: entries,
		Count:   len(entries),
	})
}

// ListGenres handles GET /api/catalog/genres
func (h *CatalogHandler) ListGenres(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	genres, err := h.repos.Catalog.DistinctGenres(ctx)
	if err != nil {
		logger.Log.Error().
			Err(err).
			Msg("Failed to list genres")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "list_failed",
			Message: "Failed to retrieve genres",
		})
		return
	}

	c.JSON(http.StatusOK, GenreListResponse{Genres: genres})
}

// Sync handles POST /api/catalog/sync
func (h *CatalogHandler) Sync(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), syncTimeout)
	defer cancel()

	result, err := h.syncer.Sync(ctx)
	if err != nil {
		if errors.Is(err, catalog.ErrNoSource) {
			c.JSON(http.StatusServiceUnavailable, ErrorResponse{
				Error:   "no_source",
				Message: "No catalog source is configured",
			})
			return
		}
		if catalog.IsRebuildFailed(err) {
			c.JSON(http.StatusInternalServerError, ErrorResponse{
				Error:   "rebuild_failed",
				Message: "Catalog synced but schedules could not be rebuilt; regenerate with force",
			})
			return
		}
		logger.Log.Error().
			Err(err).
			Msg("Catalog sync failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "sync_failed",
			Message: "Failed to sync catalog",
		})
		return
	}

	c.JSON(http.StatusOK, result)
}

// SetupCatalogRoutes registers catalog routes
func SetupCatalogRoutes(apiGroup *gin.RouterGroup, repos *db.Repositories, syncer *catalog.Syncer) {
	handler := NewCatalogHandler(repos, syncer)

	apiGroup.GET("/catalog", handler.ListEntries)
	apiGroup.GET("/catalog/genres", handler.ListGenres)
	apiGroup.POST("/catalog/sync", handler.Sync)
}
