package documents

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"docvault-backend/internal/shared/server/middleware"
	"docvault-backend/internal/shared/server/respond"
	"docvault-backend/internal/usage"
)

const maxUploadSize = 50 << 20 // 50MB

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches document routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/projects/:projectId/documents", h.upload)
	rg.GET("/projects/:projectId/documents", h.list)
	rg.GET("/documents/:documentId", h.get)
	rg.GET("/documents/:documentId/download", h.download)
	rg.PATCH("/documents/:documentId", h.update)
	rg.DELETE("/documents/:documentId", h.remove)
}

func (h *Handler) upload(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	projectID := c.Param("projectId")
	c.Set("projectId", projectID)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	folderID := c.PostForm("folderId")

	doc, err := h.Svc.Upload(c.Request.Context(), userID, projectID, folderID, fileHeader.Filename, file)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		case errors.Is(err, usage.ErrQuotaExceeded):
			respond.Error(c, http.StatusForbidden, "quota_exceeded", "storage quota exceeded", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to upload document", nil)
		}
		return
	}

	respond.JSON(c, http.StatusCreated, toResponse(doc))
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	projectID := c.Param("projectId")
	c.Set("projectId", projectID)

	var docs []Document
	var err error
	if folderID, ok := c.GetQuery("folderId"); ok {
		docs, err = h.Svc.ListByFolder(c.Request.Context(), userID, projectID, folderID)
	} else {
		docs, err = h.Svc.ListByProject(c.Request.Context(), userID, projectID)
	}
	if err != nil {
		respondDocError(c, err, "failed to list documents")
		return
	}

	resp := make([]gin.H, 0, len(docs))
	for _, doc := range docs {
		resp = append(resp, toResponse(doc))
	}
	respond.JSON(c, http.StatusOK, resp)
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	documentID := c.Param("documentId")
	c.Set("documentId", documentID)

	doc, err := h.Svc.Get(c.Request.Context(), userID, documentID)
	if err != nil {
		respondDocError(c, err, "failed to fetch document")
		return
	}
	respond.JSON(c, http.StatusOK, toResponse(doc))
}

func (h *Handler) download(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	documentID := c.Param("documentId")
	c.Set("documentId", documentID)

	url, err := h.Svc.DownloadURL(c.Request.Context(), userID, documentID, 15*time.Minute)
	if err != nil {
		respondDocError(c, err, "failed to mint download url")
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"url": url})
}

type updateRequest struct {
	Name     *string `json:"name"`
	FolderID *string `json:"folderId"`
}

func (h *Handler) update(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	documentID := c.Param("documentId")
	c.Set("documentId", documentID)

	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if req.Name == nil && req.FolderID == nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "nothing to update", nil)
		return
	}

	var doc Document
	var err error
	if req.Name != nil {
		doc, err = h.Svc.Rename(c.Request.Context(), userID, documentID, *req.Name)
		if err != nil {
			respondDocError(c, err, "failed to rename document")
			return
		}
	}
	if req.FolderID != nil {
		doc, err = h.Svc.Move(c.Request.Context(), userID, documentID, *req.FolderID)
		if err != nil {
			respondDocError(c, err, "failed to move document")
			return
		}
	}

	respond.JSON(c, http.StatusOK, toResponse(doc))
}

func (h *Handler) remove(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	documentID := c.Param("documentId")
	c.Set("documentId", documentID)

	if err := h.Svc.Delete(c.Request.Context(), userID, documentID); err != nil {
		respondDocError(c, err, "failed to delete document")
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"deleted": true})
}

func respondDocError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}

func toResponse(doc Document) gin.H {
	return gin.H{
		"id":             doc.ID,
		"projectId":      doc.ProjectID,
		"folderId":       doc.FolderID,
		"name":           doc.Name,
		"fileType":       doc.FileType,
		"fileSize":       doc.FileSize,
		"lastAnalyzedAt": doc.LastAnalyzedAt,
		"createdAt":      doc.CreatedAt,
	}
}
