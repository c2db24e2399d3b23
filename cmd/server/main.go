package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dssolutions-mx/mtto-server/internal/config"
	credentity "github.com/dssolutions-mx/mtto-server/internal/credential/entity"
	credhandler "github.com/dssolutions-mx/mtto-server/internal/credential/handler"
	credrepo "github.com/dssolutions-mx/mtto-server/internal/credential/repository"
	credsvc "github.com/dssolutions-mx/mtto-server/internal/credential/service"
	inspentity "github.com/dssolutions-mx/mtto-server/internal/inspection/entity"
	insphandler "github.com/dssolutions-mx/mtto-server/internal/inspection/handler"
	insprepo "github.com/dssolutions-mx/mtto-server/internal/inspection/repository"
	inspsvc "github.com/dssolutions-mx/mtto-server/internal/inspection/service"
	"github.com/dssolutions-mx/mtto-server/internal/middleware"
	"github.com/dssolutions-mx/mtto-server/internal/procurement/entity"
	"github.com/dssolutions-mx/mtto-server/internal/procurement/handler"
	"github.com/dssolutions-mx/mtto-server/internal/procurement/repository"
	"github.com/dssolutions-mx/mtto-server/internal/procurement/service"
	"github.com/dssolutions-mx/mtto-server/internal/storage"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	applyDefaults(cfg)

	zapLogger, err := initLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("Starting mtto-server",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
	)

	db, err := initDatabase(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := db.AutoMigrate(
		&entity.Supplier{},
		&entity.Plant{},
		&entity.Warehouse{},
		&entity.Part{},
		&entity.Stock{},
		&entity.WorkOrder{},
		&entity.WorkOrderPart{},
		&entity.PurchaseOrder{},
		&entity.POItem{},
		&entity.Quotation{},
		&entity.QuotationItem{},
		&inspentity.Equipment{},
		&inspentity.Checklist{},
		&inspentity.ChecklistItem{},
		&inspentity.Inspection{},
		&inspentity.InspectionAnswer{},
		&credentity.Employee{},
		&credentity.CredentialBatch{},
		&credentity.Credential{},
	); err != nil {
		zapLogger.Warn("AutoMigrate warning", zap.Error(err))
	}

	// Draft store: Redis when reachable, in-process otherwise
	var draftStore service.DraftStore
	redisClient := initRedis(cfg.Redis)
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 3*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		zapLogger.Warn("Redis unreachable, using in-memory draft store", zap.Error(err))
		draftStore = service.NewMemoryDraftStore()
	} else {
		draftStore = service.NewRedisDraftStore(redisClient, cfg.Procurement.DraftTTL)
	}
	cancelPing()

	// Object store: MinIO when configured, in-process otherwise
	var store storage.Store
	if cfg.MinIO.Endpoint != "" {
		minioStore, err := storage.NewMinioStore(context.Background(), cfg.MinIO.Endpoint, cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, cfg.MinIO.Bucket, cfg.MinIO.UseSSL)
		if err != nil {
			zapLogger.Fatal("Failed to init MinIO", zap.Error(err))
		}
		store = minioStore
	} else {
		zapLogger.Warn("MinIO endpoint not configured, using in-memory object store")
		store = storage.NewMemoryStore()
	}

	validator := service.NewRemoteQuoteValidator(cfg.Procurement.ValidatorURL, cfg.Procurement.ValidatorTimeout)
	submitCfg := service.SubmitConfig{
		SettleAttempts: cfg.Procurement.SettleAttempts,
		SettleInterval: cfg.Procurement.SettleInterval,
	}

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, draftStore, validator, store, submitCfg)

	inspRepo := insprepo.NewInspectionRepository(db)
	inspService := inspsvc.NewInspectionService(inspRepo)

	credRepo := credrepo.NewCredentialRepository(db)
	renderer := credsvc.NewSVGRenderer(cfg.Credential.CompanyName)
	credService := credsvc.NewCredentialService(credRepo, renderer, store, credsvc.GenerateConfig{
		MaxAttempts:  cfg.Credential.MaxAttempts,
		RetryBackoff: cfg.Credential.RetryBackoff,
	})

	procurementHandler := handler.NewProcurementHandler(services.Procurement)
	catalogHandler := handler.NewCatalogHandler(services.Catalog)
	inspectionHandler := insphandler.NewInspectionHandler(inspService)
	credentialHandler := credhandler.NewCredentialHandler(credService)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(zapLogger))
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	registerRoutes(router, cfg, procurementHandler, catalogHandler, inspectionHandler, credentialHandler)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		zapLogger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exited")
}

func applyDefaults(cfg *config.Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 30 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 60 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}
	if cfg.Procurement.ValidatorTimeout == 0 {
		cfg.Procurement.ValidatorTimeout = 3 * time.Second
	}
	if cfg.Procurement.SettleAttempts == 0 {
		cfg.Procurement.SettleAttempts = service.DefaultSubmitConfig().SettleAttempts
	}
	if cfg.Procurement.SettleInterval == 0 {
		cfg.Procurement.SettleInterval = service.DefaultSubmitConfig().SettleInterval
	}
	if cfg.Credential.CompanyName == "" {
		cfg.Credential.CompanyName = "DS Solutions"
	}
	if cfg.Credential.MaxAttempts == 0 {
		cfg.Credential.MaxAttempts = credsvc.DefaultGenerateConfig().MaxAttempts
	}
	if cfg.Credential.RetryBackoff == 0 {
		cfg.Credential.RetryBackoff = credsvc.DefaultGenerateConfig().RetryBackoff
	}
}

func initLogger(cfg config.LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config

	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	switch cfg.Level {
	case "debug":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	}

	return zapCfg.Build()
}

func initDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	}

	db, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	return db, nil
}

func initRedis(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

func registerRoutes(
	r *gin.Engine,
	cfg *config.Config,
	procurement *handler.ProcurementHandler,
	catalog *handler.CatalogHandler,
	inspection *insphandler.InspectionHandler,
	credential *credhandler.CredentialHandler,
) {
	r.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/health/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    Version,
			"build_time": BuildTime,
		})
	})

	v1 := r.Group("/api/v1")
	v1.Use(middleware.JWTAuth(cfg.JWT.Secret))
	{
		drafts := v1.Group("/po/drafts")
		{
			drafts.POST("", procurement.CreateDraft)
			drafts.GET("/:id", procurement.GetDraft)
			drafts.PUT("/:id", procurement.UpdateDraft)
			drafts.DELETE("/:id", procurement.DiscardDraft)

			drafts.POST("/:id/items", procurement.AddItem)
			drafts.PUT("/:id/items/:itemId", procurement.UpdateItem)
			drafts.DELETE("/:id/items/:itemId", procurement.RemoveItem)

			drafts.GET("/:id/evaluation", procurement.Evaluate)

			drafts.POST("/:id/quotation", procurement.BeginQuotation)
			drafts.POST("/:id/quotation/items", procurement.AddQuotationItem)
			drafts.DELETE("/:id/quotation/items/:itemId", procurement.RemoveQuotationItem)
			drafts.POST("/:id/quotation/file", procurement.AttachQuotationFile)
			drafts.POST("/:id/quotation/commit", procurement.CommitQuotation)
			drafts.DELETE("/:id/quotations/:index", procurement.RemoveQuotation)

			drafts.POST("/:id/submit", procurement.Submit)
		}

		orders := v1.Group("/po/orders")
		{
			orders.GET("", procurement.ListOrders)
			orders.GET("/export", middleware.RequirePermission("mtto:po:export"), procurement.ExportOrders)
			orders.GET("/:id", procurement.GetOrder)
			orders.GET("/:id/quotations/:quotationId/file-url", procurement.QuotationFileURL)
		}

		suppliers := v1.Group("/suppliers")
		{
			suppliers.POST("", catalog.CreateSupplier)
			suppliers.GET("", catalog.ListSuppliers)
		}

		parts := v1.Group("/parts")
		{
			parts.POST("", catalog.CreatePart)
			parts.GET("", catalog.ListParts)
			parts.GET("/:id/availability", catalog.CheckAvailability)
		}

		v1.GET("/plants", catalog.ListPlants)

		workOrders := v1.Group("/work-orders")
		{
			workOrders.POST("", catalog.CreateWorkOrder)
			workOrders.GET("", catalog.ListWorkOrders)
			workOrders.GET("/:id", catalog.GetWorkOrder)
		}

		equipment := v1.Group("/equipment")
		{
			equipment.POST("", inspection.CreateEquipment)
			equipment.GET("", inspection.ListEquipment)
		}

		checklists := v1.Group("/checklists")
		{
			checklists.POST("", inspection.CreateChecklist)
			checklists.GET("", inspection.ListChecklists)
			checklists.GET("/:id", inspection.GetChecklist)
		}

		inspections := v1.Group("/inspections")
		{
			inspections.POST("", inspection.SubmitInspection)
			inspections.GET("", inspection.ListInspections)
			inspections.GET("/:id", inspection.GetInspection)
		}

		employees := v1.Group("/employees")
		{
			employees.POST("", credential.CreateEmployee)
			employees.GET("", credential.ListEmployees)
		}

		batches := v1.Group("/credential-batches")
		{
			batches.POST("", credential.GenerateBatch)
			batches.GET("", credential.ListBatches)
			batches.GET("/:id", credential.GetBatch)
			batches.GET("/:id/roster", credential.ExportRoster)
			batches.GET("/:id/credentials/:credentialId/file-url", credential.CredentialFileURL)
		}
	}
}
