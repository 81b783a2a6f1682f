package api

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// requestTimeout bounds the database work of a single request
const requestTimeout = 5 * time.Second

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// requestBaseURL returns the configured external address, or one derived
// from the request when none is configured
func requestBaseURL(c *gin.Context, configured string) string {
	if configured != "" {
		return strings.TrimRight(configured, "/")
	}
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if forwarded := c.GetHeader("X-Forwarded-Proto"); forwarded != "" {
		scheme = forwarded
	}
	return fmt.Sprintf("%s://%s", scheme, c.Request.Host)
}
