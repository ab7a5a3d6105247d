package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/sgtokt1221/tsukutan-app/internal/cache"
	"github.com/sgtokt1221/tsukutan-app/internal/client"
	"github.com/sgtokt1221/tsukutan-app/internal/config"
	"github.com/sgtokt1221/tsukutan-app/internal/database"
	"github.com/sgtokt1221/tsukutan-app/internal/handler"
	"github.com/sgtokt1221/tsukutan-app/internal/importer"
	"github.com/sgtokt1221/tsukutan-app/internal/middleware"
	"github.com/sgtokt1221/tsukutan-app/internal/planner"
	"github.com/sgtokt1221/tsukutan-app/internal/scheduler"
	"github.com/sgtokt1221/tsukutan-app/internal/srs"
	"github.com/sgtokt1221/tsukutan-app/internal/store"
	"github.com/sgtokt1221/tsukutan-app/internal/validator"
)

func main() {
	cfg := config.Load()

	// Initialize database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto migrate
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Redis holds the plan cache and the study log buffer. Unlike the
	// database we cannot fail open here: losing the buffer means losing
	// review history between rollups.
	redisCache, err := cache.NewRedisCache(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisCache.Close()

	planCache := cache.NewPlanCache(redisCache)
	studyLogBuffer := cache.NewStudyLogBuffer(redisCache)

	retry := store.RetryPolicy{
		MaxAttempts: cfg.StoreRetryAttempts,
		Backoff: func(attempt int) time.Duration {
			return time.Duration(attempt) * 200 * time.Millisecond
		},
	}

	ledgerStore := store.NewLedgerStore(db, retry)
	catalogStore := store.NewCatalogStore(db, retry)
	profileStore := store.NewProfileStore(db, retry)
	goalStore := store.NewGoalStore(db)

	ledger := srs.NewLedger(ledgerStore, planCache)
	generator := planner.NewGenerator(profileStore, goalStore, catalogStore, ledger, planCache, cfg.DefaultTextbook)

	llmClient := client.NewLLMClient(cfg.LLMProxyURL)

	itemValidator := validator.NewItemValidator()
	rosterImporter := importer.NewRosterImporter(profileStore, cfg.EmailDomain)
	workbookImporter := importer.NewWorkbookImporter(catalogStore, itemValidator)

	googleConfig := &oauth2.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURL,
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}

	// Initialize handlers
	authHandler := handler.NewAuthHandler(db, cfg.JWTSecret, googleConfig, cfg.FrontendURL, cfg.AdminEmails)
	planHandler := handler.NewPlanHandler(generator)
	reviewHandler := handler.NewReviewHandler(ledger, ledgerStore, catalogStore, studyLogBuffer)
	profileHandler := handler.NewProfileHandler(db, planCache)
	assessmentHandler := handler.NewAssessmentHandler(db, catalogStore, cfg.DefaultTextbook, planCache)
	checkpointHandler := handler.NewCheckpointHandler(db)
	storyHandler := handler.NewStoryHandler(db, catalogStore, llmClient)
	exportHandler := handler.NewExportHandler(ledgerStore)
	reportHandler := handler.NewReportHandler(db)
	studyLogHandler := handler.NewStudyLogHandler(db, studyLogBuffer)
	adminHandler := handler.NewAdminHandler(db, rosterImporter, workbookImporter, catalogStore)
	backfillHandler := handler.NewBackfillHandler(db, llmClient)

	// Background rollup of the study log buffer into daily rows
	rollupScheduler := scheduler.NewRollupScheduler(studyLogHandler, cfg.RollupInterval)
	schedulerCtx, cancelScheduler := context.WithCancel(context.Background())
	go rollupScheduler.Start(schedulerCtx)
	log.Println("Study log rollup scheduler started")

	// Setup router
	r := gin.Default()
	r.Use(middleware.MetricsMiddleware())

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", cfg.FrontendURL)
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Header("Access-Control-Allow-Credentials", "true")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Prometheus metrics
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Scheduler status
	r.GET("/scheduler/status", func(c *gin.Context) {
		c.JSON(200, rollupScheduler.GetStatus())
	})

	// Auth routes (no token required)
	authRoutes := r.Group("/api/auth")
	{
		authRoutes.POST("/login", authHandler.Login)
		authRoutes.POST("/refresh", authHandler.RefreshToken)
		authRoutes.POST("/logout", authHandler.Logout)
	}
	r.GET("/auth/google", authHandler.GoogleAuth)
	r.GET("/auth/google/callback", authHandler.GoogleCallback)

	// API routes (authenticated)
	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	{
		api.GET("/me", authHandler.Me)

		// Daily plan
		api.GET("/plan", planHandler.Get)

		// Reviews
		api.POST("/reviews/outcome", reviewHandler.RecordOutcome)
		api.POST("/reviews", reviewHandler.AddWord)
		api.DELETE("/reviews/:wordId", reviewHandler.RemoveWord)
		api.GET("/reviews/due", reviewHandler.ListDue)
		api.GET("/reviews", reviewHandler.ListAll)

		// Profile and goals
		api.GET("/profile", profileHandler.Get)
		api.GET("/profile/progress", profileHandler.Progress)
		api.PUT("/profile/goal", profileHandler.SetGoal)
		api.GET("/goals", profileHandler.ListGoals)

		// Level assessment
		api.POST("/assessment/start", assessmentHandler.Start)
		api.GET("/assessment/stage/:level", assessmentHandler.Stage)
		api.POST("/assessment/advance", assessmentHandler.Advance)
		api.POST("/assessment/complete", assessmentHandler.Complete)

		// Session checkpoints
		api.POST("/checkpoint", checkpointHandler.Save)
		api.GET("/checkpoint", checkpointHandler.Get)
		api.DELETE("/checkpoint", checkpointHandler.Clear)

		// Story generation
		api.POST("/story", storyHandler.Generate)

		// Export
		api.GET("/export/ledger", exportHandler.Export)

		// Word reports
		api.POST("/reports", reportHandler.Submit)
		api.GET("/reports/my", reportHandler.ListMy)

		// Study log
		api.GET("/studylog", studyLogHandler.List)
		api.GET("/studylog/:date", studyLogHandler.GetDateDetail)
	}

	// Admin routes
	admin := r.Group("/api/admin")
	admin.Use(middleware.AdminMiddleware(cfg.JWTSecret))
	{
		admin.POST("/roster/import", adminHandler.ImportRoster)
		admin.POST("/vocabulary/import", adminHandler.ImportVocabulary)
		admin.GET("/students", adminHandler.ListStudents)
		admin.GET("/students/:id", adminHandler.GetStudent)
		admin.GET("/stats", adminHandler.GetStats)
		admin.GET("/reports", adminHandler.ListReports)
		admin.PUT("/reports/:id", adminHandler.UpdateReport)

		admin.POST("/backfill", backfillHandler.Start)
		admin.GET("/backfill", backfillHandler.ListJobs)
		admin.GET("/backfill/:jobId", backfillHandler.Status)
		admin.POST("/backfill/:jobId/stop", backfillHandler.Stop)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}

	// Stop the scheduler on shutdown so the final flush runs
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("Shutting down, flushing study log buffer...")
		cancelScheduler()
		rollupScheduler.Stop()
		os.Exit(0)
	}()

	log.Printf("API server starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
