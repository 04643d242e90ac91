package folders

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

// RegisterRoutes attaches folder routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/projects/:projectId/folders", h.create)
	rg.GET("/projects/:projectId/folders", h.list)
	rg.GET("/folders/:folderId", h.get)
	rg.PATCH("/folders/:folderId", h.rename)
	rg.DELETE("/folders/:folderId", h.remove)
}

type folderRequest struct {
	Name           string `json:"name"`
	ParentFolderID string `json:"parentFolderId"`
}

func (h *Handler) create(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	projectID := c.Param("projectId")
	c.Set("projectId", projectID)

	var req folderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	folder, err := h.Svc.Create(c.Request.Context(), userID, projectID, req.ParentFolderID, req.Name)
	if err != nil {
		respondFolderError(c, err, "failed to create folder")
		return
	}
	respond.JSON(c, http.StatusCreated, toResponse(folder))
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	projectID := c.Param("projectId")
	c.Set("projectId", projectID)

	out, err := h.Svc.List(c.Request.Context(), userID, projectID)
	if err != nil {
		respondFolderError(c, err, "failed to list folders")
		return
	}

	resp := make([]gin.H, 0, len(out))
	for _, folder := range out {
		resp = append(resp, toResponse(folder))
	}
	respond.JSON(c, http.StatusOK, resp)
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	folder, err := h.Svc.Get(c.Request.Context(), userID, c.Param("folderId"))
	if err != nil {
		respondFolderError(c, err, "failed to fetch folder")
		return
	}
	respond.JSON(c, http.StatusOK, toResponse(folder))
}

func (h *Handler) rename(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req folderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	folder, err := h.Svc.Rename(c.Request.Context(), userID, c.Param("folderId"), req.Name)
	if err != nil {
		respondFolderError(c, err, "failed to rename folder")
		return
	}
	respond.JSON(c, http.StatusOK, toResponse(folder))
}

func (h *Handler) remove(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	if err := h.Svc.Delete(c.Request.Context(), userID, c.Param("folderId")); err != nil {
		respondFolderError(c, err, "failed to delete folder")
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"deleted": true})
}

func respondFolderError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "folder not found", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}

func toResponse(folder Folder) gin.H {
	return gin.H{
		"id":             folder.ID,
		"projectId":      folder.ProjectID,
		"parentFolderId": folder.ParentFolderID,
		"name":           folder.Name,
		"createdAt":      folder.CreatedAt,
		"updatedAt":      folder.UpdatedAt,
	}
}
