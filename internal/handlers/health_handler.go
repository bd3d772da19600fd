package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/reposcope/reposcope/internal/services"
)

type HealthHandler struct {
	projectService *services.ProjectService
	syncService    *services.SyncService
}

func NewHealthHandler(projectService *services.ProjectService, syncService *services.SyncService) *HealthHandler {
	return &HealthHandler{
		projectService: projectService,
		syncService:    syncService,
	}
}

// Health reports service status, cache size and the current rate budget
func (h *HealthHandler) Health(c *gin.Context) {
	projects, err := h.projectService.Count()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": "database unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"projects":   projects,
		"rate_limit": h.syncService.RateLimit(),
	})
}
