package fields

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

// RegisterRoutes attaches extraction field routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/projects/:projectId/fields", h.create)
	rg.GET("/projects/:projectId/fields", h.list)
	rg.GET("/fields/:fieldId", h.get)
	rg.PUT("/fields/:fieldId", h.update)
	rg.DELETE("/fields/:fieldId", h.remove)
}

type fieldRequest struct {
	Name        string   `json:"name"`
	DataType    string   `json:"dataType"`
	Description string   `json:"description"`
	FolderIDs   []string `json:"folderIds"`
}

func (h *Handler) create(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	projectID := c.Param("projectId")
	c.Set("projectId", projectID)

	var req fieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	field, err := h.Svc.Create(c.Request.Context(), userID, CreateInput{
		ProjectID:   projectID,
		Name:        req.Name,
		DataType:    req.DataType,
		Description: req.Description,
		FolderIDs:   req.FolderIDs,
	})
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to create field", nil)
		return
	}

	respond.JSON(c, http.StatusCreated, toResponse(field))
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	projectID := c.Param("projectId")
	c.Set("projectId", projectID)

	var out []Field
	var err error
	if folderID := c.Query("folderId"); folderID != "" {
		out, err = h.Svc.ListApplicable(c.Request.Context(), userID, projectID, FolderContext(folderID))
	} else if c.Query("scope") == "root" {
		out, err = h.Svc.ListApplicable(c.Request.Context(), userID, projectID, RootContext())
	} else {
		out, err = h.Svc.List(c.Request.Context(), userID, projectID)
	}
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list fields", nil)
		return
	}

	resp := make([]gin.H, 0, len(out))
	for _, field := range out {
		resp = append(resp, toResponse(field))
	}
	respond.JSON(c, http.StatusOK, resp)
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	field, err := h.Svc.Get(c.Request.Context(), userID, c.Param("fieldId"))
	if err != nil {
		respondFieldError(c, err, "failed to fetch field")
		return
	}
	respond.JSON(c, http.StatusOK, toResponse(field))
}

func (h *Handler) update(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req fieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	field, err := h.Svc.Update(c.Request.Context(), userID, c.Param("fieldId"), UpdateInput{
		Name:        req.Name,
		DataType:    req.DataType,
		Description: req.Description,
		FolderIDs:   req.FolderIDs,
	})
	if err != nil {
		respondFieldError(c, err, "failed to update field")
		return
	}
	respond.JSON(c, http.StatusOK, toResponse(field))
}

func (h *Handler) remove(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	if err := h.Svc.Delete(c.Request.Context(), userID, c.Param("fieldId")); err != nil {
		respondFieldError(c, err, "failed to delete field")
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"deleted": true})
}

func respondFieldError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "field not found", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}

func toResponse(field Field) gin.H {
	folderIDs := field.Scope.FolderIDs()
	if folderIDs == nil {
		folderIDs = []string{}
	}
	return gin.H{
		"id":          field.ID,
		"projectId":   field.ProjectID,
		"name":        field.Name,
		"dataType":    string(field.DataType),
		"description": field.Description,
		"folderIds":   folderIDs,
		"global":      field.Scope.IsGlobal(),
		"createdAt":   field.CreatedAt,
		"updatedAt":   field.UpdatedAt,
	}
}
