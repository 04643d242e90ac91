package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"docvault-backend/internal/account"
	googleauth "docvault-backend/internal/auth"
	"docvault-backend/internal/documents"
	"docvault-backend/internal/extraction"
	"docvault-backend/internal/fields"
	"docvault-backend/internal/folders"
	"docvault-backend/internal/llm"
	openai "docvault-backend/internal/llm/openai"
	"docvault-backend/internal/projects"
	"docvault-backend/internal/queue"
	"docvault-backend/internal/shared/config"
	"docvault-backend/internal/shared/server"
	"docvault-backend/internal/shared/storage/db"
	"docvault-backend/internal/shared/storage/object"
	localstore "docvault-backend/internal/shared/storage/object/local"
	s3store "docvault-backend/internal/shared/storage/object/s3"
	"docvault-backend/internal/usage"
	"docvault-backend/internal/users"
)

// App holds shared dependencies for the API server and the worker.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore
	Queue  queue.Client

	UsersRepo     users.Repo
	ProjectsRepo  projects.Repo
	FoldersRepo   folders.Repo
	DocumentsRepo documents.Repo
	FieldsRepo    fields.Repo
	ResultStore   extraction.ResultStore

	UsersService      *users.Service
	ProjectsService   *projects.Service
	FoldersService    *folders.Service
	DocumentsService  *documents.Service
	FieldsService     *fields.Service
	ExtractionService *extraction.Service
	UsageService      *usage.Service
	AccountService    *account.Service

	UsersHandler      *users.Handler
	ProjectsHandler   *projects.Handler
	FoldersHandler    *folders.Handler
	DocumentsHandler  *documents.Handler
	FieldsHandler     *fields.Handler
	ExtractionHandler *extraction.Handler
	UsageHandler      *usage.Handler
	AccountHandler    *account.Handler
	GoogleAuth        *googleauth.GoogleService
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	queueClient, err := buildQueue(ctx)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
		Queue:  queueClient,
	}

	if err := buildServices(app); err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:            app.Config,
		GoogleAuth:        app.GoogleAuth,
		UsersHandler:      app.UsersHandler,
		ProjectsHandler:   app.ProjectsHandler,
		FoldersHandler:    app.FoldersHandler,
		DocumentsHandler:  app.DocumentsHandler,
		FieldsHandler:     app.FieldsHandler,
		ExtractionHandler: app.ExtractionHandler,
		UsageHandler:      app.UsageHandler,
		AccountHandler:    app.AccountHandler,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildQueue(ctx context.Context) (queue.Client, error) {
	if strings.TrimSpace(os.Getenv("DV_SQS_QUEUE_URL")) == "" {
		return nil, nil
	}
	return queue.NewSQSClient(ctx)
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

func buildServices(app *App) error {
	var (
		userRepo    users.Repo
		projectRepo projects.Repo
		folderRepo  folders.Repo
		docRepo     documents.Repo
		fieldRepo   fields.Repo
		resultStore extraction.ResultStore
	)

	if app.DB != nil {
		userRepo = &users.PGRepo{DB: app.DB}
		projectRepo = &projects.PGRepo{DB: app.DB}
		folderRepo = &folders.PGRepo{DB: app.DB}
		docRepo = &documents.PGRepo{DB: app.DB}
		fieldRepo = &fields.PGRepo{DB: app.DB}
		resultStore = &extraction.PGStore{DB: app.DB}
	} else {
		userRepo = users.NewMemoryRepo()
		projectRepo = projects.NewMemoryRepo()
		folderRepo = folders.NewMemoryRepo()
		memDocRepo := documents.NewMemoryRepo()
		docRepo = memDocRepo
		fieldRepo = fields.NewMemoryRepo()
		memResults := extraction.NewMemoryStore()
		memResults.Marker = memDocRepo
		resultStore = memResults
	}

	var usageSvc *usage.Service
	if app.DB != nil {
		usageSvc = usage.NewPostgresService(usage.NewPGStore(app.DB, app.Config.StorageQuotaBytes))
	} else {
		usageSvc = usage.NewService(app.Config.StorageQuotaBytes)
	}

	llmClient := llm.Client(llm.PlaceholderClient{})
	if app.Config.ExtractionProvider == "openai" && strings.TrimSpace(os.Getenv("OPENAI_API_KEY")) != "" {
		openaiClient, err := openai.NewClient(os.Getenv("OPENAI_API_KEY"), app.Config.ExtractionModel)
		if err != nil {
			return err
		}
		llmClient = openaiClient
	}

	docSvc := &documents.Service{
		Store:   app.Store,
		Repo:    docRepo,
		Results: resultStore,
		Quota:   usageSvc,
	}
	fieldSvc := &fields.Service{
		Repo:    fieldRepo,
		Results: resultStore,
	}
	folderSvc := &folders.Service{
		Repo:      folderRepo,
		Documents: docRepo,
		Scopes:    fieldRepo,
	}
	projectSvc := &projects.Service{
		Repo:      projectRepo,
		Documents: docSvc,
		Fields:    fieldRepo,
		Folders:   folderRepo,
	}
	extractionSvc := &extraction.Service{
		Store:       resultStore,
		Fields:      fieldRepo,
		Docs:        docRepo,
		Folders:     folderRepo,
		Objects:     app.Store,
		LLM:         llmClient,
		JobQueue:    app.Queue,
		CallTimeout: parseTimeout(app.Config.ExtractionTimeout),
	}

	accountSvc := account.NewService(projectRepo, folderRepo, docRepo, fieldRepo)

	userSvc := users.NewService(userRepo)
	googleAuthSvc := googleauth.NewGoogleService(
		app.Config.GoogleClientID,
		app.Config.GoogleClientSecret,
		app.Config.GoogleRedirectURL,
		app.Config.UIRedirectURL,
		userSvc,
	)

	app.UsersRepo = userRepo
	app.ProjectsRepo = projectRepo
	app.FoldersRepo = folderRepo
	app.DocumentsRepo = docRepo
	app.FieldsRepo = fieldRepo
	app.ResultStore = resultStore
	app.UsersService = userSvc
	app.ProjectsService = projectSvc
	app.FoldersService = folderSvc
	app.DocumentsService = docSvc
	app.FieldsService = fieldSvc
	app.ExtractionService = extractionSvc
	app.UsageService = usageSvc
	app.AccountService = accountSvc
	app.UsersHandler = users.NewHandler(userSvc)
	app.ProjectsHandler = projects.NewHandler(projectSvc)
	app.FoldersHandler = folders.NewHandler(folderSvc)
	app.DocumentsHandler = documents.NewHandler(docSvc)
	app.FieldsHandler = fields.NewHandler(fieldSvc)
	app.ExtractionHandler = extraction.NewHandler(extractionSvc)
	app.UsageHandler = usage.NewHandler(usageSvc)
	app.AccountHandler = account.NewHandler(accountSvc)
	app.GoogleAuth = googleAuthSvc

	if app.DocumentsHandler == nil || app.FieldsHandler == nil || app.ExtractionHandler == nil {
		return errors.New("failed to initialize handlers")
	}
	return nil
}

func parseTimeout(raw string) time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil || d < 0 {
		return 0
	}
	return d
}
