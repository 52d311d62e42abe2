package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"alfredoptarigan/hr-validator/internal/config"
	"alfredoptarigan/hr-validator/internal/handlers"
	"alfredoptarigan/hr-validator/internal/logger"
	"alfredoptarigan/hr-validator/internal/middleware"
	"alfredoptarigan/hr-validator/internal/presenter"
	"alfredoptarigan/hr-validator/internal/repositories"
	"alfredoptarigan/hr-validator/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	if err := logger.Initialize(cfg.Logger.Level, cfg.Logger.Env); err != nil {
		fmt.Fprintf(os.Stderr, "invalid LOG_LEVEL, using info: %v\n", err)
	}
	defer logger.Sync()

	log := logger.Get()
	if !cfg.EnvFileLoaded {
		log.Info("No .env file found, using environment variables")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid configuration", zap.Error(err))
	}
	log.Info("✅ Config loaded successfully", zap.String("provider", cfg.LLM.Provider))

	// History is optional
	var evalRepo repositories.EvaluationRepository
	if cfg.HistoryEnabled() {
		db, err := config.InitDatabase(cfg)
		if err != nil {
			log.Fatal("❌ Failed to initialize database", zap.Error(err))
		}
		evalRepo = repositories.NewEvaluationRepository(db)
		log.Info("✅ Evaluation history enabled")
	} else {
		log.Info("DB_HOST not set, evaluation history disabled")
	}

	// Initialize services
	profiles, err := services.NewProfileRegistry(cfg.Evaluation.Profile)
	if err != nil {
		log.Fatal("❌ Failed to load prompt profiles", zap.Error(err))
	}

	schemaValidator, err := services.NewSchemaValidator(profiles)
	if err != nil {
		log.Fatal("❌ Failed to compile output schemas", zap.Error(err))
	}

	evaluatorService := services.NewEvaluatorService(
		services.NewCompletionClient(cfg.LLM),
		profiles,
		schemaValidator,
		services.DefaultModelFor(cfg.LLM),
	)
	reportPresenter := presenter.NewPresenter(cfg.Evaluation.QuestionThreshold)
	screeningService := services.NewScreeningService(
		services.NewTextExtractor(),
		evaluatorService,
		reportPresenter,
		evalRepo,
	)
	log.Info("✅ Services initialized successfully",
		zap.String("default_profile", profiles.DefaultVersion()))

	// Initialize Handlers
	evaluateHandler := handlers.NewEvaluationHandler(
		screeningService,
		reportPresenter,
		cfg.DefaultCredential(),
		services.TextStyle(cfg.Evaluation.TextStyle),
		cfg.Storage.MaxFileSize,
	)
	resultHandler := handlers.NewResultHandler(evalRepo, reportPresenter)
	profileHandler := handlers.NewProfileHandler(profiles)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "HR Validator API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize) + 1<<20,
		ErrorHandler: middleware.ErrorHandler(),
	})

	// Middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	RegisterRoutes(app, evaluateHandler, resultHandler, profileHandler)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Info("🛑 Shutting down server...")
		if err := app.Shutdown(); err != nil {
			log.Error("❌ Server forced to shutdown", zap.Error(err))
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Info("🚀 Server starting", zap.String("addr", addr))

	if err := app.Listen(addr); err != nil {
		log.Fatal("❌ Failed to start server", zap.Error(err))
	}
}

func RegisterRoutes(
	app *fiber.App,
	evaluateHandler *handlers.EvaluationHandler,
	resultHandler *handlers.ResultHandler,
	profileHandler *handlers.ProfileHandler,
) {
	api := app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	api.Get("/profiles", profileHandler.HandleListProfiles)
	api.Post("/evaluate", evaluateHandler.HandleEvaluate)
	api.Get("/result/:id", resultHandler.HandleGetResult)
	api.Get("/evaluations", resultHandler.HandleListResults)

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "HR Validator API",
			"version": "1.0.0",
			"endpoints": []string{
				"GET /api/v1/profiles",
				"POST /api/v1/evaluate",
				"GET /api/v1/result/:id",
				"GET /api/v1/evaluations",
			},
		})
	})
}
