package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/reposcope/reposcope/internal/repositories"
	"github.com/reposcope/reposcope/internal/services"
)

type GraphHandler struct {
	linkerService *services.LinkerService
	entityRepo    *repositories.EntityRepository
	linkRepo      *repositories.LinkRepository
}

func NewGraphHandler(
	linkerService *services.LinkerService,
	entityRepo *repositories.EntityRepository,
	linkRepo *repositories.LinkRepository,
) *GraphHandler {
	return &GraphHandler{
		linkerService: linkerService,
		entityRepo:    entityRepo,
		linkRepo:      linkRepo,
	}
}

type buildGraphRequest struct {
	Project string                  `json:"project"`
	Rebuild bool                    `json:"rebuild"`
	Options *services.LinkerOptions `json:"options"`
}

// BuildGraph derives the entity layer from the cache. project narrows
// the build to one project; rebuild clears the whole layer first,
// otherwise the build merges into what is already there.
func (h *GraphHandler) BuildGraph(c *gin.Context) {
	req := buildGraphRequest{}
	// An empty body means a default full build
	_ = c.ShouldBindJSON(&req)

	opts := services.DefaultLinkerOptions()
	if req.Options != nil {
		opts = *req.Options
	}

	var stats *services.GraphStats
	var err error
	switch {
	case req.Project != "" && req.Rebuild:
		c.JSON(http.StatusBadRequest, gin.H{"error": "rebuild applies to the whole graph"})
		return
	case req.Project != "":
		stats, err = h.linkerService.BuildProjectGraph(req.Project, opts)
	case req.Rebuild:
		stats, err = h.linkerService.RebuildGraph(opts)
	default:
		stats, err = h.linkerService.BuildGraph(opts)
	}
	if err == services.ErrProjectNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build graph"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ListEntities retrieves entities, optionally narrowed by scope and type
func (h *GraphHandler) ListEntities(c *gin.Context) {
	entities, err := h.entityRepo.List(c.Query("scope"), c.Query("type"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list entities"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"entities": entities, "count": len(entities)})
}

// GetEntity retrieves one entity by name
func (h *GraphHandler) GetEntity(c *gin.Context) {
	name := c.Query("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	entity, err := h.entityRepo.GetByName(name)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Entity not found"})
		return
	}
	c.JSON(http.StatusOK, entity)
}

// GetEntityLinks retrieves an entity's links. direction selects outgoing
// (default), incoming, or both.
func (h *GraphHandler) GetEntityLinks(c *gin.Context) {
	name := c.Query("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	entity, err := h.entityRepo.GetByName(name)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Entity not found"})
		return
	}

	response := gin.H{"entity": entity}
	direction := c.DefaultQuery("direction", "out")
	if direction == "out" || direction == "both" {
		outgoing, err := h.linkRepo.GetBySource(entity.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get links"})
			return
		}
		response["outgoing"] = outgoing
	}
	if direction == "in" || direction == "both" {
		incoming, err := h.linkRepo.GetByTarget(entity.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get links"})
			return
		}
		response["incoming"] = incoming
	}
	c.JSON(http.StatusOK, response)
}
