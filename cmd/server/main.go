package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/reposcope/reposcope/internal/github"
	"github.com/reposcope/reposcope/internal/handlers"
	"github.com/reposcope/reposcope/internal/middleware"
	"github.com/reposcope/reposcope/internal/repositories"
	"github.com/reposcope/reposcope/internal/services"
	"github.com/reposcope/reposcope/internal/workers"
	"github.com/reposcope/reposcope/pkg/config"
	"github.com/reposcope/reposcope/pkg/database"
	"github.com/reposcope/reposcope/pkg/logger"
)

func main() {
	logger.Init()

	// Load configuration
	if err := config.Load(); err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	gin.SetMode(config.AppConfig.Server.Mode)

	// Initialize database
	if err := database.Init(config.AppConfig.Database.Path); err != nil {
		logger.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	// GitHub client with the shared rate limit tracker
	tracker := github.NewRateLimitTracker()
	client := github.NewClient(config.AppConfig.GitHub.Token, tracker)
	if baseURL := os.Getenv("GITHUB_API_URL"); baseURL != "" {
		if err := client.SetBaseURL(baseURL); err != nil {
			logger.Fatalf("Invalid GITHUB_API_URL: %v", err)
		}
	}

	// Repositories
	projectRepo := repositories.NewProjectRepository(database.DB)
	syncRepo := repositories.NewProjectSyncRepository(database.DB)
	languageRepo := repositories.NewLanguageRepository(database.DB)
	branchRepo := repositories.NewBranchRepository(database.DB)
	dependencyRepo := repositories.NewDependencyRepository(database.DB)
	contributorRepo := repositories.NewContributorRepository(database.DB)
	issueRepo := repositories.NewIssueRepository(database.DB)
	prRepo := repositories.NewPullRequestRepository(database.DB)
	releaseRepo := repositories.NewReleaseRepository(database.DB)
	versionRepo := repositories.NewVersionRepository(database.DB)
	documentRepo := repositories.NewDocumentRepository(database.DB)
	componentRepo := repositories.NewComponentRepository(database.DB)
	entityRepo := repositories.NewEntityRepository(database.DB)
	linkRepo := repositories.NewLinkRepository(database.DB)
	jobRepo := repositories.NewJobRepository(database.DB)

	// Services
	syncService := services.NewSyncService(
		services.NewGitHubFetcher(client),
		projectRepo, syncRepo, componentRepo,
		config.AppConfig.Sync,
	)
	projectService := services.NewProjectService(
		projectRepo, languageRepo, branchRepo, dependencyRepo, contributorRepo,
		issueRepo, prRepo, releaseRepo, versionRepo, documentRepo, componentRepo,
	)
	linkerService := services.NewLinkerService(
		projectRepo, languageRepo, branchRepo, dependencyRepo, contributorRepo,
		issueRepo, prRepo, versionRepo, documentRepo, entityRepo, linkRepo,
	)
	exportService := services.NewExportService(
		projectRepo, languageRepo, dependencyRepo, contributorRepo, issueRepo, prRepo, releaseRepo,
	)
	jobService := services.NewJobService(jobRepo, syncService)

	// Background workers
	workerManager := workers.NewWorkerManager(jobService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	setupRoutes(router, projectService, syncService, jobService, linkerService, exportService, entityRepo, linkRepo)

	// Start workers
	if err := workerManager.StartAll(); err != nil {
		logger.Fatalf("Failed to start workers: %v", err)
	}
	defer workerManager.StopAll()

	// Setup server
	server := &http.Server{
		Addr:         ":" + config.AppConfig.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(config.AppConfig.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(config.AppConfig.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Infof("Server starting on :%s", config.AppConfig.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Infof("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Server shutdown failed: %v", err)
	}
	logger.Infof("Server stopped")
}

func setupRoutes(
	router *gin.Engine,
	projectService *services.ProjectService,
	syncService *services.SyncService,
	jobService *services.JobService,
	linkerService *services.LinkerService,
	exportService *services.ExportService,
	entityRepo *repositories.EntityRepository,
	linkRepo *repositories.LinkRepository,
) {
	healthHandler := handlers.NewHealthHandler(projectService, syncService)
	syncHandler := handlers.NewSyncHandler(syncService, jobService)
	projectHandler := handlers.NewProjectHandler(projectService)
	graphHandler := handlers.NewGraphHandler(linkerService, entityRepo, linkRepo)
	jobHandler := handlers.NewJobHandler(jobService)
	exportHandler := handlers.NewExportHandler(exportService)

	router.GET("/health", healthHandler.Health)

	api := router.Group("/api")
	{
		api.GET("/rate-limit", syncHandler.RateLimit)
		api.GET("/search", syncHandler.Search)

		api.POST("/sync/repo", syncHandler.SyncRepo)
		api.POST("/sync/user", syncHandler.SyncUser)
		api.POST("/sync/org", syncHandler.SyncOrg)

		api.GET("/projects", projectHandler.ListProjects)
		api.POST("/projects", projectHandler.CreateProject)
		api.GET("/projects/:owner", projectHandler.GetProject)
		api.DELETE("/projects/:owner", projectHandler.DeleteProject)
		api.GET("/projects/:owner/:repo", projectHandler.GetProject)
		api.DELETE("/projects/:owner/:repo", projectHandler.DeleteProject)

		api.GET("/components", projectHandler.GetComponents)
		api.POST("/components", projectHandler.AddComponent)
		api.DELETE("/components", projectHandler.RemoveComponent)

		api.POST("/graph/build", graphHandler.BuildGraph)
		api.GET("/entities", graphHandler.ListEntities)
		api.GET("/entity", graphHandler.GetEntity)
		api.GET("/entity/links", graphHandler.GetEntityLinks)

		api.GET("/jobs", jobHandler.ListJobs)
		api.GET("/jobs/:id", jobHandler.GetJob)

		api.GET("/export", exportHandler.ExportWorkbook)
	}
}
