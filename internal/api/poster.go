package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/netpersona/popcorn/internal/cache"
	"github.com/netpersona/popcorn/internal/db"
	"github.com/netpersona/popcorn/internal/logger"
	"golang.org/x/sync/singleflight"
)

const (
	posterFetchTimeout = 10 * time.Second
	maxPosterBytes     = 10 << 20
	posterCacheControl = "public, max-age=2592000"
	defaultPosterType  = "image/jpeg"
)

// Poster is a cached image body
type Poster struct {
	Data        []byte
	ContentType string
}

// PosterHandler proxies catalog artwork through a bounded LRU
type PosterHandler struct {
	repos  *db.Repositories
	cache  *cache.LRU[string, *Poster]
	client *http.Client
	group  singleflight.Group
}

// NewPosterHandler creates a poster proxy holding at most cacheSize images
func NewPosterHandler(repos *db.Repositories, cacheSize int, client *http.Client) (*PosterHandler, error) {
	posters, err := cache.New[string, *Poster](cacheSize, func(sourceID string, _ *Poster) {
		logger.Log.Debug().
			Str("source_id", sourceID).
			Msg("Evicted cached poster")
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create poster cache: %w", err)
	}
	if client == nil {
		client = &http.Client{Timeout: posterFetchTimeout}
	}
	return &PosterHandler{
		repos:  repos,
		cache:  posters,
		client: client,
	}, nil
}

// GetPoster handles GET /api/posters/:source_id
func (h *PosterHandler) GetPoster(c *gin.Context) {
	sourceID := c.Param("source_id")

	if poster, ok := h.cache.Get(sourceID); ok {
		writePoster(c, poster)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), posterFetchTimeout)
	defer cancel()

	v, err, _ := h.group.Do(sourceID, func() (interface{}, error) {
		return h.fetch(ctx, sourceID)
	})
	if err != nil {
		if db.IsNotFound(err) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "not_found",
				Message: "No poster for this entry",
			})
			return
		}
		logger.Log.Warn().
			Err(err).
			Str("source_id", sourceID).
			Msg("Failed to fetch poster")
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Error:   "upstream_failed",
			Message: "Failed to fetch poster",
		})
		return
	}

	writePoster(c, v.(*Poster))
}

func (h *PosterHandler) fetch(ctx context.Context, sourceID string) (*Poster, error) {
	entry, err := h.repos.Catalog.GetBySourceID(ctx, sourceID)
	if err != nil {
		return nil, err
	}
	if entry.PosterURL == nil || *entry.PosterURL == "" {
		return nil, db.ErrNotFound
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, *entry.PosterURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build poster request: %w", err)
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("poster request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("poster upstream returned %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPosterBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read poster: %w", err)
	}

	poster := &Poster{Data: data, ContentType: resp.Header.Get("Content-Type")}
	if poster.ContentType == "" {
		poster.ContentType = defaultPosterType
	}
	h.cache.Put(sourceID, poster)

	logger.Log.Info().
		Str("source_id", sourceID).
		Int("bytes", len(data)).
		Int("cache_size", h.cache.Len()).
		Msg("Cached poster")

	return poster, nil
}

func writePoster(c *gin.Context, poster *Poster) {
	c.Header("Cache-Control", posterCacheControl)
	c.Header("Content-Length", strconv.Itoa(len(poster.Data)))
	c.Data(http.StatusOK, poster.ContentType, poster.Data)
}

// SetupPosterRoutes registers the poster proxy
func SetupPosterRoutes(apiGroup *gin.RouterGroup, handler *PosterHandler) {
	apiGroup.GET("/posters/:source_id", handler.GetPoster)
}
