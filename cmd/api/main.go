// @title Reviflow API
// @version 1.0
// @description Backend of Reviflow: lesson photos become quizzes, scores feed streaks, badges and remediation.
// @host localhost:8090
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_JWT_TOKEN' to authorize.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	_ "reviflow/cmd/api/docs"
	"reviflow/internal/adapter"
	"reviflow/internal/adapter/llm"
	"reviflow/internal/adapter/quizgen"
	"reviflow/internal/cache"
	"reviflow/internal/config"
	"reviflow/internal/database"
	"reviflow/internal/handler"
	"reviflow/internal/logger"
	"reviflow/internal/middleware"
	"reviflow/internal/repository"
	"reviflow/internal/service"
	"reviflow/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Initialize(cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	// Connect to database
	db, err := database.NewSQLXDB(cfg.DB, cfg.GetDSN())
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Initialize Redis Client
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	cacheAdapter := adapter.NewRedisCacheAdapter(redisClient)
	appLogger.Info("RedisCacheAdapter initialized")

	// Initialize repositories
	userRepository := repository.NewSQLXUserRepository(db)
	learnerRepository := repository.NewSQLXLearnerRepository(db)
	revisionRepository := repository.NewSQLXRevisionRepository(db)
	scoreRepository := repository.NewSQLXScoreRepository(db)
	remediationRepository := repository.NewSQLXRemediationRepository(db)
	txManager := repository.NewTransactionManagerAdapter(db)

	// LLM adapters
	llmClient, err := llm.NewClient(cfg.LLM)
	if err != nil {
		appLogger.Fatal("Failed to create LLM client", zap.Error(err))
	}
	appLogger.Info("LLM client initialized", zap.String("provider", cfg.LLM.Provider), zap.String("model", cfg.LLM.Model))
	quizGenerator := quizgen.NewLLMQuizGenerator(llmClient)
	lessonAnalyzer := quizgen.NewVisionLessonAnalyzer(llmClient)
	keyValidator := llm.NewOpenRouterKeyValidator(cfg.LLM.BaseURL, 10*time.Second)

	// Initialize services
	authService, err := service.NewAuthService(userRepository, cfg.JWT)
	if err != nil {
		appLogger.Fatal("Failed to create AuthService", zap.Error(err))
	}
	apiKeyService := service.NewAPIKeyService(
		userRepository, authService, keyValidator, cacheAdapter, cfg.LLM.APIKey,
		config.ParseTTLStringOrDefault(cfg.CacheTTLs.APIKeyValidation, 10*time.Minute),
	)
	userService := service.NewUserService(userRepository, learnerRepository, txManager, cacheAdapter, authService, cfg.ParentalGate)
	ingestService := service.NewIngestService(userRepository, learnerRepository, lessonAnalyzer, apiKeyService, cfg.Ingest)
	quizService := service.NewQuizService(
		userRepository, learnerRepository, revisionRepository, scoreRepository, remediationRepository,
		txManager, quizGenerator, apiKeyService, cacheAdapter,
	)
	progressService := service.NewProgressService(
		userRepository, learnerRepository, revisionRepository, scoreRepository, remediationRepository,
		txManager, quizGenerator, apiKeyService, cacheAdapter,
		config.ParseTTLStringOrDefault(cfg.CacheTTLs.Stats, 5*time.Minute),
	)
	appLogger.Info("Services initialized")

	// Initialize handlers
	validator := validation.NewValidator()
	validate := middleware.NewValidationMiddleware(validator)
	authHandler := handler.NewAuthHandler(authService, validator)
	userHandler := handler.NewUserHandler(userService, apiKeyService, validator)
	ingestHandler := handler.NewIngestHandler(ingestService, validator, cfg.Server.WriteTimeout)
	quizHandler := handler.NewQuizHandler(quizService, validator)
	progressHandler := handler.NewProgressHandler(progressService, validator)
	healthHandler := handler.NewHealthHandler(db, cacheAdapter)

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
		BodyLimit:    cfg.Server.BodyLimitMB * 1024 * 1024,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(recover.New())
	app.Use(middleware.RequestLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
		MaxAge:       300,
	}))

	app.Get("/swagger/*", swagger.HandlerDefault)

	api := app.Group("/api")
	api.Get("/health", healthHandler.Health)

	protected := middleware.Protected(authService)

	// Auth and family routes
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/jwt/login", authHandler.Login)
	authGroup.Post("/refresh", authHandler.RefreshToken)
	authGroup.Get("/users/me", protected, userHandler.GetMe)
	authGroup.Patch("/users/me", protected, userHandler.UpdateMe)
	authGroup.Get("/validate-api-key", protected, userHandler.ValidateAPIKey)
	authGroup.Post("/verify-parental-gate", protected, userHandler.VerifyParentalGate)
	authGroup.Get("/children", protected, userHandler.ListChildren)
	authGroup.Post("/children", protected, userHandler.CreateChild)
	authGroup.Get("/profiles", protected, userHandler.ListProfiles)
	authGroup.Patch("/profiles/me", protected, userHandler.UpdateMyProfile)
	authGroup.Post("/select-profile/:learner_id", protected, validate.ValidatePathID("learner_id"), userHandler.SelectProfile)

	// Ingest routes
	ingestGroup := api.Group("/ingest", protected)
	ingestGroup.Post("/analyze", ingestHandler.Analyze)
	ingestGroup.Post("/analyze-stream", ingestHandler.AnalyzeStream)

	// Quiz routes
	quizGroup := api.Group("/quiz", protected)
	quizGroup.Post("/generate", quizHandler.Generate)
	quizGroup.Post("/progress/save", quizHandler.SaveProgress)
	quizGroup.Post("/next-series", quizHandler.NextSeries)
	quizGroup.Post("/reset", quizHandler.Reset)
	quizGroup.Get("/review/:revision_id", validate.ValidatePathID("revision_id"), quizHandler.Review)
	quizGroup.Get("/revisions", validate.ValidateQueryIDs("learner_id"), quizHandler.ListRevisions)
	quizGroup.Delete("/revision/:revision_id", validate.ValidatePathID("revision_id"), quizHandler.DeleteRevision)
	quizGroup.Post("/score", progressHandler.SubmitScore)
	quizGroup.Get("/history", validate.ValidateQueryIDs("learner_id"), progressHandler.History)
	quizGroup.Get("/remediation/count", validate.ValidateQueryIDs("learner_id", "revision_id"), progressHandler.RemediationCount)
	quizGroup.Post("/remediation/generate", progressHandler.GenerateRemediation)
	quizGroup.Get("/stats/mastery", validate.ValidateQueryIDs("learner_id"), progressHandler.Mastery)
	quizGroup.Get("/stats/activity", validate.ValidateQueryIDs("learner_id"), progressHandler.Activity)

	if cfg.Server.StaticDir != "" {
		mountSPA(app, cfg.Server.StaticDir)
		appLogger.Info("Serving static frontend", zap.String("dir", cfg.Server.StaticDir))
	}

	// Start server
	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", cfg.Logger.Env))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}

// mountSPA serves the built frontend and falls back to index.html for client
// side routes. Unknown /api paths still get a JSON 404.
func mountSPA(app *fiber.App, dir string) {
	app.Static("/", dir)
	index := filepath.Join(dir, "index.html")
	app.Get("/*", func(c *fiber.Ctx) error {
		if strings.HasPrefix(c.Path(), "/api/") {
			return fiber.ErrNotFound
		}
		return c.SendFile(index)
	})
}
