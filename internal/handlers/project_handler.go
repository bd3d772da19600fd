package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/reposcope/reposcope/internal/repositories"
	"github.com/reposcope/reposcope/internal/services"
)

type ProjectHandler struct {
	projectService *services.ProjectService
}

func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
	}
}

// ListProjects retrieves cached projects with optional filters
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	filter := repositories.ProjectFilter{
		Language:  c.Query("language"),
		SkipForks: c.Query("skip_forks") == "true",
	}
	if limit := c.Query("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		filter.Limit = n
	}

	projects, err := h.projectService.List(filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list projects"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": projects, "count": len(projects)})
}

// GetProject retrieves a project with all cached sections
func (h *ProjectHandler) GetProject(c *gin.Context) {
	name := projectNameFromParams(c)

	detail, err := h.projectService.GetDetail(name)
	if err == services.ErrProjectNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get project"})
		return
	}
	c.JSON(http.StatusOK, detail)
}

type createProjectRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// CreateProject adds a project without syncing it
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var req createProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	project, err := h.projectService.Create(req.Name, req.Description)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, project)
}

// DeleteProject removes a project and its cached data
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	name := projectNameFromParams(c)

	err := h.projectService.Delete(name)
	if err == services.ErrProjectNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete project"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": name})
}

// GetComponents retrieves the child projects of a parent
func (h *ProjectHandler) GetComponents(c *gin.Context) {
	name := c.Query("parent")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "parent is required"})
		return
	}

	components, err := h.projectService.GetComponents(name)
	if err == services.ErrProjectNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get components"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"components": components, "count": len(components)})
}

type componentRequest struct {
	Parent string `json:"parent" binding:"required"`
	Child  string `json:"child" binding:"required"`
	Type   string `json:"type"`
}

// AddComponent attaches a child project under a parent
func (h *ProjectHandler) AddComponent(c *gin.Context) {
	var req componentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "parent and child are required"})
		return
	}

	err := h.projectService.AddComponent(req.Parent, req.Child, req.Type)
	if err == services.ErrProjectNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"parent": req.Parent, "child": req.Child})
}

// RemoveComponent detaches a child project from a parent
func (h *ProjectHandler) RemoveComponent(c *gin.Context) {
	var req componentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "parent and child are required"})
		return
	}

	err := h.projectService.RemoveComponent(req.Parent, req.Child, req.Type)
	if err == services.ErrProjectNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"parent": req.Parent, "child": req.Child})
}

// projectNameFromParams rebuilds a project name from route params. GitHub
// projects are addressed as owner/repo, manual projects by bare name.
func projectNameFromParams(c *gin.Context) string {
	owner := c.Param("owner")
	repo := c.Param("repo")
	if repo == "" {
		return owner
	}
	return owner + "/" + repo
}
