package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/reposcope/reposcope/internal/github"
	"github.com/reposcope/reposcope/internal/models"
	"github.com/reposcope/reposcope/internal/services"
)

type SyncHandler struct {
	syncService *services.SyncService
	jobService  *services.JobService
}

func NewSyncHandler(syncService *services.SyncService, jobService *services.JobService) *SyncHandler {
	return &SyncHandler{
		syncService: syncService,
		jobService:  jobService,
	}
}

type syncRepoRequest struct {
	Repo    string             `json:"repo" binding:"required"`
	Async   bool               `json:"async"`
	Options models.SyncOptions `json:"options"`
}

type syncListingRequest struct {
	Target  string             `json:"target" binding:"required"`
	Async   bool               `json:"async"`
	Options models.SyncOptions `json:"options"`
}

// SyncRepo syncs one repository, inline or queued
func (h *SyncHandler) SyncRepo(c *gin.Context) {
	var req syncRepoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "repo is required"})
		return
	}

	if req.Async {
		job, err := h.jobService.Enqueue(models.JobTypeSyncRepo, req.Repo, req.Options)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to enqueue sync job"})
			return
		}
		c.JSON(http.StatusAccepted, job)
		return
	}

	result, err := h.syncService.SyncRepository(c.Request.Context(), req.Repo, req.Options)
	if err != nil {
		c.JSON(syncErrorStatus(err), result)
		return
	}
	c.JSON(http.StatusOK, result)
}

// SyncUser syncs the repositories of a user
func (h *SyncHandler) SyncUser(c *gin.Context) {
	h.syncListing(c, models.JobTypeSyncUser, h.syncService.SyncUser)
}

// SyncOrg syncs the repositories of an organization
func (h *SyncHandler) SyncOrg(c *gin.Context) {
	h.syncListing(c, models.JobTypeSyncOrg, h.syncService.SyncOrg)
}

func (h *SyncHandler) syncListing(
	c *gin.Context,
	jobType string,
	run func(ctx context.Context, target string, opts models.SyncOptions) (*models.BatchSummary, error),
) {
	var req syncListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "target is required"})
		return
	}

	if req.Async {
		job, err := h.jobService.Enqueue(jobType, req.Target, req.Options)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to enqueue sync job"})
			return
		}
		c.JSON(http.StatusAccepted, job)
		return
	}

	summary, err := run(c.Request.Context(), req.Target, req.Options)
	if err != nil {
		c.JSON(syncErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, summary)
}

func syncErrorStatus(err error) int {
	switch {
	case github.IsRateLimited(err):
		return http.StatusTooManyRequests
	case github.IsNotFound(err):
		return http.StatusNotFound
	default:
		var authErr *github.AuthError
		var validationErr *github.ValidationError
		if errors.As(err, &authErr) {
			return http.StatusUnauthorized
		}
		if errors.As(err, &validationErr) {
			return http.StatusBadRequest
		}
		return http.StatusBadGateway
	}
}

// Search runs a repository search for candidates to sync
func (h *SyncHandler) Search(c *gin.Context) {
	query := c.Query("q")
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = n
	}

	results, err := h.syncService.Search(c.Request.Context(), query, limit)
	if err != nil {
		c.JSON(syncErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results, "count": len(results)})
}

// RateLimit reports the tracked call budget
func (h *SyncHandler) RateLimit(c *gin.Context) {
	c.JSON(http.StatusOK, h.syncService.RateLimit())
}
