package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/netpersona/popcorn/internal/db"
)

// HealthResponse represents the response from the health check endpoint
type HealthResponse struct {
	Status   string                 `json:"status"`
	Database string                 `json:"database"`
	Time     string                 `json:"time"`
	Details  map[string]interface{} `json:"details,omitempty"`
}

// HealthHandler handles health check requests
type HealthHandler struct {
	db    *db.DB
	repos *db.Repositories
}

// NewHealthHandler creates a new health check handler
func NewHealthHandler(database *db.DB, repos *db.Repositories) *HealthHandler {
	return &HealthHandler{db: database, repos: repos}
}

// Check handles the health check endpoint
func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	response := HealthResponse{
		Status:  "ok",
		Time:    time.Now().UTC().Format(time.RFC3339),
		Details: make(map[string]interface{}),
	}

	// Check database connectivity
	if err := h.db.Health(ctx); err != nil {
		response.Status = "degraded"
		response.Database = "unhealthy"
		response.Details["database_error"] = err.Error()
		c.JSON(http.StatusServiceUnavailable, response)
		return
	}
	response.Database = "healthy"

	if count, err := h.repos.Catalog.Count(ctx); err == nil {
		response.Details["catalog_entries"] = count
	}
	if count, err := h.repos.Schedules.Count(ctx); err == nil {
		response.Details["schedule_slots"] = count
		if count == 0 {
			response.Status = "empty"
		}
	}

	c.JSON(http.StatusOK, response)
}

// SetupHealthRoutes registers health check routes
func SetupHealthRoutes(apiGroup *gin.RouterGroup, database *db.DB, repos *db.Repositories) {
	handler := NewHealthHandler(database, repos)
	apiGroup.GET("/health", handler.Check)
}
