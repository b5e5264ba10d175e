package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/graphein-app/termhub/internal/infrastructure/monitoring"
	"github.com/graphein-app/termhub/internal/service"
	term "github.com/graphein-app/termhub/internal/terminal"
	"github.com/graphein-app/termhub/internal/types"
)

// Version reported by the health endpoints.
const Version = "0.1.0"

// Handlers contains all HTTP handlers
type Handlers struct {
	registry *service.Registry
	sessions *term.Registry
	metrics  *monitoring.Metrics
}

// NewHandlers creates a new handler set
func NewHandlers(registry *service.Registry, sessions *term.Registry, metrics *monitoring.Metrics) *Handlers {
	return &Handlers{
		registry: registry,
		sessions: sessions,
		metrics:  metrics,
	}
}

// Root handles health check
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "termhub",
		"version": Version,
	})
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":           "healthy",
		"sessions_active":  h.sessions.Count(),
		"service_registry": h.registry.Stats(),
	})
}

// ListServices lists all available services
func (h *Handlers) ListServices(c *gin.Context) {
	var category *types.Category
	if categoryStr := c.Query("category"); categoryStr != "" {
		cat := types.Category(categoryStr)
		category = &cat
	}

	c.JSON(http.StatusOK, gin.H{
		"services": h.registry.List(category),
		"stats":    h.registry.Stats(),
	})
}

// ExecuteService runs a service tool
func (h *Handlers) ExecuteService(c *gin.Context) {
	var req types.ExecuteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Params == nil {
		req.Params = map[string]interface{}{}
	}

	serviceID, toolName, _ := strings.Cut(req.ToolID, ".")
	timer := monitoring.NewTimer(h.metrics, serviceID, toolName)

	result, err := h.registry.Execute(c.Request.Context(), req.ToolID, req.Params, &types.Context{})
	if err != nil && result == nil {
		timer.Stop("not_found")
		// Unknown tool or malformed id.
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		timer.Stop("error")
		// Execution reached the provider but failed hard (e.g. spawn
		// failure); the result carries the message for the client.
		c.JSON(http.StatusInternalServerError, result)
		return
	}

	timer.Stop("ok")
	c.JSON(http.StatusOK, result)
}

// ListSessions snapshots the live PTY sessions
func (h *Handlers) ListSessions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"sessions": h.sessions.List(),
		"count":    h.sessions.Count(),
	})
}
