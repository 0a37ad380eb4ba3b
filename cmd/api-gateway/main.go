package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/roadfy/roadfy-api/api/swagger"
	"github.com/roadfy/roadfy-api/internal/handler"
	"github.com/roadfy/roadfy-api/internal/middleware"
	"github.com/roadfy/roadfy-api/internal/models"
	"github.com/roadfy/roadfy-api/internal/repository"
	"github.com/roadfy/roadfy-api/internal/service"
	"github.com/roadfy/roadfy-api/pkg/cache"
	"github.com/roadfy/roadfy-api/pkg/config"
	"github.com/roadfy/roadfy-api/pkg/database"
	"github.com/roadfy/roadfy-api/pkg/export"
	"github.com/roadfy/roadfy-api/pkg/jobs"
	"github.com/roadfy/roadfy-api/pkg/logger"
	corsmiddleware "github.com/roadfy/roadfy-api/pkg/middleware/cors"
	reqidmiddleware "github.com/roadfy/roadfy-api/pkg/middleware/requestid"
	"github.com/roadfy/roadfy-api/pkg/storage"
)

// @title Roadfy Governance API
// @version 1.0.0
// @description Audit trail, record versioning, telemetry and data-quality services
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		// The summary cache is an optimization; governance reads fall back
		// to the database when redis is unreachable.
		logr.Sugar().Warnw("redis unavailable, summary caching disabled", "error", err)
		redisClient = nil
	}

	ctx := context.Background()

	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(
		repository.NewCacheRepository(redisClient, logr),
		metricsSvc,
		cfg.Governance.SummaryCacheTTL,
		logr,
		redisClient != nil,
	)
	tokenSvc := service.NewTokenService(cfg.JWT)

	auditRepo := repository.NewAuditRepository(db)
	versionRepo := repository.NewVersionRepository(db)
	interactionRepo := repository.NewInteractionRepository(db)
	metadataRepo := repository.NewMetadataRepository(db)
	reportRepo := repository.NewReportRepository(db)

	auditSvc := service.NewAuditService(auditRepo, metricsSvc, logr)
	versionSvc := service.NewVersionService(versionRepo, metricsSvc, logr)
	interactionSvc := service.NewInteractionService(interactionRepo, metricsSvc, logr, cfg.Governance.InteractionsEnabled)
	metadataSvc := service.NewMetadataService(metadataRepo, metricsSvc, logr)
	reportSvc := service.NewReportService(reportRepo, cacheSvc, metricsSvc, logr, cfg.Governance.SummaryCacheTTL)

	var exportJobSvc *service.ExportJobService
	if cfg.Exports.Enabled {
		localStore, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
		if err != nil {
			logr.Sugar().Fatalw("failed to init export storage", "error", err)
		}
		signer := storage.NewDownloadSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
		exportSvc := service.NewExportService(
			auditRepo,
			interactionRepo,
			localStore,
			signer,
			service.ExportConfig{APIPrefix: cfg.APIPrefix, ResultTTL: cfg.Exports.SignedURLTTL},
			logr,
			export.NewCSVExporter(),
			export.NewPDFExporter(),
		)

		exportRepo := repository.NewExportRepository(db)
		worker := service.NewExportWorker(exportRepo, exportSvc, cfg.Exports.WorkerRetries, logr)
		queue := jobs.NewQueue("exports", worker.Handle, jobs.QueueConfig{
			Workers:    cfg.Exports.WorkerConcurrency,
			MaxRetries: cfg.Exports.WorkerRetries,
			Logger:     logr,
		})
		queue.Start(ctx)
		defer queue.Stop()

		exportJobSvc = service.NewExportJobService(exportRepo, queue, exportSvc, logr, service.ExportJobServiceConfig{
			ResultTTL:       cfg.Exports.SignedURLTTL,
			CleanupInterval: cfg.Exports.CleanupInterval,
			MaxRetries:      cfg.Exports.WorkerRetries,
		})
		exportJobSvc.RecoverPendingJobs(ctx)
		exportJobSvc.StartCleanup(ctx)
	}

	validate := validator.New()

	governanceHandler := handler.NewGovernanceHandler(auditSvc, versionSvc, interactionSvc, reportSvc, validate, cfg.Governance.DefaultWindowDays)
	interactionHandler := handler.NewInteractionHandler(interactionSvc, validate)
	metadataHandler := handler.NewMetadataHandler(metadataSvc, validate)
	exportHandler := handler.NewExportHandler(exportJobSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.WithResponseMeta())
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	api := r.Group(cfg.APIPrefix)

	api.POST("/interactions", middleware.OptionalJWT(tokenSvc), interactionHandler.Log)
	api.GET("/exports/download/:token", exportHandler.Download)

	gov := api.Group("/governance")
	gov.Use(middleware.JWT(tokenSvc))
	gov.Use(middleware.RequireRoles(models.RoleSuperAdmin))
	{
		gov.GET("/audit-trail", governanceHandler.AuditTrail)
		gov.GET("/access-logs", governanceHandler.AccessLogs)
		gov.GET("/versions/:table/:recordId", governanceHandler.Versions)
		gov.GET("/versions/:table/:recordId/:version", governanceHandler.Version)
		gov.GET("/interactions", governanceHandler.Interactions)
		gov.GET("/metadata/:table/:recordId", metadataHandler.Get)
		gov.PUT("/metadata/:table/:recordId", metadataHandler.Upsert)
		gov.GET("/data-quality", metadataHandler.QualityReport)
		gov.GET("/reports/audit-summary", governanceHandler.AuditSummary)
		gov.GET("/reports/access-summary", governanceHandler.AccessSummary)
		gov.GET("/reports/interaction-summary", governanceHandler.InteractionSummary)
		gov.POST("/reports", governanceHandler.CreateReport)
		gov.GET("/reports/:id", governanceHandler.Report)
		gov.POST("/exports", exportHandler.Create)
		gov.GET("/exports/:id", exportHandler.Status)
		gov.GET("/system-metrics", metricsHandler.Snapshot)
	}

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
