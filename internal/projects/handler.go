package projects

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"docvault-backend/internal/shared/server/middleware"
	"docvault-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches project routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/projects", h.create)
	rg.GET("/projects", h.list)
	rg.GET("/projects/:projectId", h.get)
	rg.PUT("/projects/:projectId", h.update)
	rg.DELETE("/projects/:projectId", h.remove)
}

type projectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *Handler) create(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	project, err := h.Svc.Create(c.Request.Context(), userID, req.Name, req.Description)
	if err != nil {
		respondProjectError(c, err, "failed to create project")
		return
	}
	respond.JSON(c, http.StatusCreated, toResponse(project))
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	out, err := h.Svc.List(c.Request.Context(), userID)
	if err != nil {
		respondProjectError(c, err, "failed to list projects")
		return
	}

	resp := make([]gin.H, 0, len(out))
	for _, project := range out {
		resp = append(resp, toResponse(project))
	}
	respond.JSON(c, http.StatusOK, resp)
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	projectID := c.Param("projectId")
	c.Set("projectId", projectID)

	project, err := h.Svc.Get(c.Request.Context(), userID, projectID)
	if err != nil {
		respondProjectError(c, err, "failed to fetch project")
		return
	}
	respond.JSON(c, http.StatusOK, toResponse(project))
}

func (h *Handler) update(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	projectID := c.Param("projectId")
	c.Set("projectId", projectID)

	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	project, err := h.Svc.Update(c.Request.Context(), userID, projectID, req.Name, req.Description)
	if err != nil {
		respondProjectError(c, err, "failed to update project")
		return
	}
	respond.JSON(c, http.StatusOK, toResponse(project))
}

func (h *Handler) remove(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	projectID := c.Param("projectId")
	c.Set("projectId", projectID)

	if err := h.Svc.Delete(c.Request.Context(), userID, projectID); err != nil {
		respondProjectError(c, err, "failed to delete project")
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"deleted": true})
}

func respondProjectError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "project not found", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}

func toResponse(project Project) gin.H {
	return gin.H{
		"id":          project.ID,
		"name":        project.Name,
		"description": project.Description,
		"createdAt":   project.CreatedAt,
		"updatedAt":   project.UpdatedAt,
	}
}
