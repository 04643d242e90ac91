package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"docvault-backend/internal/account"
	googleauth "docvault-backend/internal/auth"
	"docvault-backend/internal/documents"
	"docvault-backend/internal/extraction"
	"docvault-backend/internal/fields"
	"docvault-backend/internal/folders"
	"docvault-backend/internal/projects"
	"docvault-backend/internal/services/health"
	"docvault-backend/internal/shared/config"
	"docvault-backend/internal/shared/metrics"
	"docvault-backend/internal/shared/server/middleware"
	"docvault-backend/internal/shared/server/respond"
	"docvault-backend/internal/usage"
	"docvault-backend/internal/users"
)

// RouterDeps carries the handlers the router wires up.
type RouterDeps struct {
	Config            config.Config
	GoogleAuth        *googleauth.GoogleService
	UsersHandler      *users.Handler
	ProjectsHandler   *projects.Handler
	FoldersHandler    *folders.Handler
	DocumentsHandler  *documents.Handler
	FieldsHandler     *fields.Handler
	ExtractionHandler *extraction.Handler
	UsageHandler      *usage.Handler
	AccountHandler    *account.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Auth(deps.Config.Env),
		middleware.RateLimit(extractionRateLimits()),
	)

	healthSvc := health.NewService()

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, healthSvc.Status())
	})
	api.GET("/metrics", metrics.Handler())

	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(api)
	}
	deps.UsersHandler.RegisterRoutes(api)
	deps.ProjectsHandler.RegisterRoutes(api)
	deps.FoldersHandler.RegisterRoutes(api)
	deps.DocumentsHandler.RegisterRoutes(api)
	deps.FieldsHandler.RegisterRoutes(api)
	deps.ExtractionHandler.RegisterRoutes(api)
	deps.UsageHandler.RegisterRoutes(api)
	if deps.AccountHandler != nil {
		deps.AccountHandler.RegisterRoutes(api)
	}

	return r
}

// extractionRateLimits throttles extraction runs and uploads, which are
// the expensive endpoints. Everything else passes through.
func extractionRateLimits() middleware.RateLimitConfig {
	return middleware.RateLimitConfig{
		GroupFor: func(c *gin.Context) string {
			path := c.FullPath()
			switch {
			case c.Request.Method == http.MethodPost && strings.HasPrefix(path, "/api/v1/extractions/"):
				return "EXTRACT"
			case c.Request.Method == http.MethodPost && path == "/api/v1/projects/:projectId/documents":
				return "UPLOAD"
			default:
				return "DEFAULT"
			}
		},
		Rules: map[string]middleware.RateLimitRule{
			"EXTRACT": {Rate: 0.5, Burst: 5},
			"UPLOAD":  {Rate: 2, Burst: 10},
		},
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
