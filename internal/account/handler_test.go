package account

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"docvault-backend/internal/documents"
	"docvault-backend/internal/fields"
	"docvault-backend/internal/folders"
	"docvault-backend/internal/projects"
)

func claimRouter(svc *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("userId", "user-1")
		c.Set("isGuest", false)
		c.Next()
	})
	api := router.Group("/api/v1")
	NewHandler(svc).RegisterRoutes(api)
	return router
}

func TestClaimGuestMigratesData(t *testing.T) {
	projectRepo := projects.NewMemoryRepo()
	folderRepo := folders.NewMemoryRepo()
	docRepo := documents.NewMemoryRepo()
	fieldRepo := fields.NewMemoryRepo()
	router := claimRouter(NewService(projectRepo, folderRepo, docRepo, fieldRepo))

	guestID := "11111111-1111-1111-1111-111111111111"
	guestUserID := "guest:" + guestID
	ctx := context.Background()

	if err := projectRepo.Create(ctx, projects.Project{
		ID:        "project-1",
		UserID:    guestUserID,
		Name:      "Invoices",
		CreatedAt: time.Now().UTC(),
	}); err != nil {
		t.Fatalf("create project: %v", err)
	}
	if err := docRepo.Create(ctx, documents.Document{
		ID:        "doc-1",
		UserID:    guestUserID,
		ProjectID: "project-1",
		Name:      "invoice.pdf",
		FileType:  "application/pdf",
		FileSize:  123,
		CreatedAt: time.Now().UTC(),
	}); err != nil {
		t.Fatalf("create document: %v", err)
	}
	if err := fieldRepo.Create(ctx, fields.Field{
		ID:        "field-1",
		UserID:    guestUserID,
		ProjectID: "project-1",
		Name:      "Total",
		DataType:  fields.DataTypeNumber,
		Scope:     fields.GlobalScope(),
		CreatedAt: time.Now().UTC(),
	}); err != nil {
		t.Fatalf("create field: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/account/claim-guest", nil)
	req.Header.Set("X-Guest-Id", guestID)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	claimed, err := projectRepo.ListByUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("list projects: %v", err)
	}
	if len(claimed) != 1 {
		t.Fatalf("expected 1 migrated project, got %d", len(claimed))
	}
	if _, err := docRepo.GetByID(ctx, "user-1", "doc-1"); err != nil {
		t.Fatalf("claimed document not reachable: %v", err)
	}
	if _, err := fieldRepo.GetByID(ctx, "user-1", "field-1"); err != nil {
		t.Fatalf("claimed field not reachable: %v", err)
	}
}

func TestClaimGuestIdempotentAndIsolated(t *testing.T) {
	projectRepo := projects.NewMemoryRepo()
	folderRepo := folders.NewMemoryRepo()
	docRepo := documents.NewMemoryRepo()
	fieldRepo := fields.NewMemoryRepo()
	router := claimRouter(NewService(projectRepo, folderRepo, docRepo, fieldRepo))

	guestID := "22222222-2222-2222-2222-222222222222"
	guestUserID := "guest:" + guestID
	ctx := context.Background()

	if err := projectRepo.Create(ctx, projects.Project{
		ID:        "project-2",
		UserID:    guestUserID,
		Name:      "Receipts",
		CreatedAt: time.Now().UTC(),
	}); err != nil {
		t.Fatalf("create project: %v", err)
	}

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/account/claim-guest", nil)
		req.Header.Set("X-Guest-Id", guestID)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("call %d: expected 200, got %d", i, resp.Code)
		}
	}

	other, err := projectRepo.ListByUser(ctx, "user-2")
	if err != nil {
		t.Fatalf("list projects: %v", err)
	}
	if len(other) != 0 {
		t.Fatalf("expected no projects for other user, got %d", len(other))
	}
}

func TestClaimGuestRequiresGuestHeader(t *testing.T) {
	router := claimRouter(NewService(
		projects.NewMemoryRepo(),
		folders.NewMemoryRepo(),
		documents.NewMemoryRepo(),
		fields.NewMemoryRepo(),
	))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/account/claim-guest", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}
