package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gyan-sharma/gs7crm-backend/config"
	"github.com/gyan-sharma/gs7crm-backend/handler"
	"github.com/gyan-sharma/gs7crm-backend/middleware"
	"github.com/gyan-sharma/gs7crm-backend/pkg/logger"
	"github.com/gyan-sharma/gs7crm-backend/service"
)

func main() {
	cfg, err := config.Load("config.yaml")
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Init(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	slog.Info("configuration loaded successfully")

	db, err := service.OpenDatabase(cfg)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}

	storage, err := service.NewMinioStorage(&cfg.Minio)
	if err != nil {
		slog.Error("failed to initialize object storage", "error", err)
		os.Exit(1)
	}
	for _, bucket := range cfg.Minio.Buckets.All() {
		b := bucket
		err := service.Retry(5, time.Second, func() error {
			return storage.EnsureBucket(context.Background(), b)
		})
		if err != nil {
			slog.Error("failed to ensure bucket", "bucket", b, "error", err)
			os.Exit(1)
		}
	}

	// Services
	userSvc := service.NewUserService(db)
	offerSvc := service.NewOfferService(db)
	reviewSvc := service.NewReviewService(db)
	contractSvc := service.NewContractService(db)
	documentSvc := service.NewDocumentService(db, storage, cfg)
	masterSvc := service.NewMasterDataService(db)
	importSvc := service.NewImportService(db, userSvc)

	// Handlers
	authHandler := handler.NewAuthHandler(userSvc, &cfg.Auth)
	userHandler := handler.NewUserHandler(userSvc, importSvc)
	offerHandler := handler.NewOfferHandler(offerSvc)
	reviewHandler := handler.NewReviewHandler(reviewSvc, documentSvc)
	contractHandler := handler.NewContractHandler(contractSvc, documentSvc)
	documentHandler := handler.NewDocumentHandler(documentSvc)
	masterHandler := handler.NewMasterDataHandler(masterSvc, importSvc)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(corsMiddleware())
	router.Use(middleware.RateLimit(100, time.Minute))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	api := router.Group("/api")
	{
		api.POST("/auth/login", authHandler.Login)
	}

	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(&cfg.Auth))
	{
		protected.GET("/auth/me", authHandler.Me)

		// Offers and the review workflow
		protected.GET("/offers", offerHandler.List)
		protected.GET("/offers/:id", offerHandler.Get)
		protected.POST("/offers/:id/status", offerHandler.UpdateStatus)
		protected.POST("/offers/:id/recompute", offerHandler.RecomputeTotals)
		protected.POST("/offers/:id/reviews", reviewHandler.CreateRequest)
		protected.GET("/offers/:id/reviews", reviewHandler.ListRequests)
		protected.GET("/offers/:id/reviews/progress", reviewHandler.Progress)
		protected.GET("/offers/:id/history", reviewHandler.History)
		protected.POST("/offers/:id/contract", contractHandler.CreateFromOffer)

		protected.POST("/reviews/:id/decision", reviewHandler.Decide)
		protected.POST("/reviews/:id/resend", reviewHandler.Resend)
		protected.GET("/reviews/:id/resends", reviewHandler.ResendFeed)

		// Contracts
		protected.GET("/contracts", contractHandler.List)
		protected.GET("/contracts/:id", contractHandler.Get)
		protected.POST("/contracts/:id/status", contractHandler.UpdateStatus)

		// Documents
		protected.POST("/documents", documentHandler.Upload)
		protected.GET("/documents/:id", documentHandler.Download)
		protected.DELETE("/documents/:id", documentHandler.Delete)

		// Master data
		protected.GET("/partners", masterHandler.ListPartners)
		protected.POST("/partners", masterHandler.CreatePartner)
		protected.GET("/partners/:id", masterHandler.GetPartner)
		protected.PUT("/partners/:id", masterHandler.UpdatePartner)
		protected.DELETE("/partners/:id", masterHandler.DeletePartner)

		protected.GET("/customers", masterHandler.ListCustomers)
		protected.POST("/customers", masterHandler.CreateCustomer)
		protected.GET("/customers/:id", masterHandler.GetCustomer)
		protected.PUT("/customers/:id", masterHandler.UpdateCustomer)
		protected.DELETE("/customers/:id", masterHandler.DeleteCustomer)

		protected.GET("/opportunities", masterHandler.ListOpportunities)
		protected.POST("/opportunities", masterHandler.CreateOpportunity)
		protected.GET("/opportunities/:id", masterHandler.GetOpportunity)
		protected.PUT("/opportunities/:id", masterHandler.UpdateOpportunity)
		protected.POST("/opportunities/:id/stage", masterHandler.SetOpportunityStage)
		protected.POST("/opportunities/:id/convert", offerHandler.Convert)

		protected.GET("/projects", masterHandler.ListProjects)
		protected.POST("/projects", masterHandler.CreateProject)
		protected.GET("/projects/:id", masterHandler.GetProject)
		protected.POST("/projects/:id/milestones", masterHandler.AddMilestone)
		protected.POST("/milestones/:id/complete", masterHandler.CompleteMilestone)

		protected.GET("/pricing", masterHandler.ListLicensePrices)
		protected.GET("/pricing/export", masterHandler.ExportLicensePrices)

		// Admin-only surfaces: user management and pricing maintenance
		admin := protected.Group("/")
		admin.Use(middleware.RequireAdmin())
		{
			admin.GET("/users", userHandler.List)
			admin.POST("/users", userHandler.Create)
			admin.GET("/users/export", userHandler.Export)
			admin.POST("/users/import", userHandler.Import)
			admin.GET("/users/:id", userHandler.Get)
			admin.PUT("/users/:id", userHandler.Update)
			admin.POST("/users/:id/password", userHandler.SetPassword)

			admin.POST("/pricing", masterHandler.CreateLicensePrice)
			admin.PUT("/pricing/:id", masterHandler.UpdateLicensePrice)
			admin.DELETE("/pricing/:id", masterHandler.DeleteLicensePrice)
			admin.POST("/pricing/import", masterHandler.ImportLicensePrices)
		}
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server exited gracefully")
}

// corsMiddleware handles CORS headers
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
