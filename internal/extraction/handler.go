package extraction

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"docvault-backend/internal/documents"
	"docvault-backend/internal/fields"
	"docvault-backend/internal/folders"
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

// RegisterRoutes attaches extraction routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/extractions/documents/:documentId", h.extractDocument)
	rg.POST("/extractions/folders/:folderId", h.extractFolder)
	rg.POST("/extractions/folders/:folderId/async", h.extractFolderAsync)
	rg.GET("/documents/:documentId/results", h.documentResults)
	rg.GET("/folders/:folderId/results", h.folderResults)
}

type extractRequest struct {
	FieldIDs []string `json:"fieldIds"`
}

func (h *Handler) extractDocument(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	documentID := c.Param("documentId")
	c.Set("documentId", documentID)

	var req extractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	out, err := h.Svc.ExtractDocument(c.Request.Context(), userID, documentID, req.FieldIDs, nil)
	if err != nil {
		respondRunError(c, err)
		return
	}
	respond.JSON(c, http.StatusOK, toRunResponse(out))
}

func (h *Handler) extractFolder(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	folderID := c.Param("folderId")

	var req extractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	out, err := h.Svc.ExtractFolder(c.Request.Context(), userID, folderID, req.FieldIDs, nil)
	if err != nil {
		respondRunError(c, err)
		return
	}
	respond.JSON(c, http.StatusOK, toRunResponse(out))
}

func (h *Handler) extractFolderAsync(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	folderID := c.Param("folderId")

	var req extractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	runID, err := h.Svc.EnqueueFolder(c.Request.Context(), userID, folderID, req.FieldIDs, middleware.RequestIDFromContext(c))
	if err != nil {
		if errors.Is(err, ErrJobQueueNotConfigured) {
			respond.Error(c, http.StatusServiceUnavailable, "queue_unavailable", "background extraction is not configured", nil)
			return
		}
		respondRunError(c, err)
		return
	}
	respond.JSON(c, http.StatusAccepted, gin.H{"runId": runID, "status": "queued"})
}

func (h *Handler) documentResults(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	documentID := c.Param("documentId")
	c.Set("documentId", documentID)

	rows, err := h.Svc.DocumentResults(c.Request.Context(), userID, documentID)
	if err != nil {
		respondRunError(c, err)
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"results": rows})
}

func (h *Handler) folderResults(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	folderID := c.Param("folderId")

	rows, summary, err := h.Svc.FolderResults(c.Request.Context(), userID, folderID)
	if err != nil {
		respondRunError(c, err)
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"results": rows, "summary": summary})
}

func respondRunError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, documents.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
	case errors.Is(err, folders.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "folder not found", nil)
	case errors.Is(err, fields.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "field not found", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "extraction failed", nil)
	}
}

func toRunResponse(out RunOutput) gin.H {
	rows := make([]gin.H, 0, len(out.Results))
	for _, res := range out.Results {
		rows = append(rows, gin.H{
			"id":                res.ID,
			"documentId":        res.DocumentID,
			"extractionFieldId": res.ExtractionFieldID,
			"extractedValue":    res.ExtractedValue,
			"confidenceScore":   res.ConfidenceScore,
			"extractedAt":       res.ExtractedAt,
		})
	}
	resp := gin.H{
		"results":   rows,
		"attempted": out.Attempted,
		"succeeded": out.Succeeded,
	}
	if len(out.Warnings) > 0 {
		resp["warnings"] = out.Warnings
	}
	return resp
}
