package main

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"cognitive-profiler/internal/adapter"
	"cognitive-profiler/internal/adapter/analyzer"
	"cognitive-profiler/internal/cache"
	"cognitive-profiler/internal/config"
	"cognitive-profiler/internal/domain"
	"cognitive-profiler/internal/handler"
	"cognitive-profiler/internal/logger"
	"cognitive-profiler/internal/middleware"
	"cognitive-profiler/internal/repository"
	"cognitive-profiler/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// .env is optional; real environments set variables directly.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	// Load the question bank. A failed load is critical but not fatal:
	// the service stays up with an empty bank and degrades.
	bank, err := repository.NewFileQuestionBank(cfg.Bank.Path)
	if err != nil {
		appLogger.Error("CRITICAL: could not load question bank, continuing with empty bank",
			zap.String("path", cfg.Bank.Path),
			zap.Error(err),
		)
	} else {
		appLogger.Info("Question bank loaded",
			zap.String("path", cfg.Bank.Path),
			zap.Int("questions", bank.Size()),
		)
	}

	// Analysis provider. A missing credential is critical but, like the
	// bank, only degrades submit-test.
	var analysisProvider domain.Analyzer
	if cfg.Gemini.APIKey == "" {
		appLogger.Error("CRITICAL: GEMINI_API_KEY not set; analysis requests will fail")
		analysisProvider = analyzer.NewUnavailable(errors.New("gemini api key not configured"))
	} else {
		analysisProvider, err = analyzer.New(context.Background(), cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Analysis.Timeout)
		if err != nil {
			appLogger.Error("CRITICAL: failed to initialize Gemini analyzer; analysis requests will fail", zap.Error(err))
			analysisProvider = analyzer.NewUnavailable(err)
		} else {
			appLogger.Info("Gemini analyzer initialized", zap.String("model", cfg.Gemini.Model))
		}
	}

	// Redis is optional: without it analyses are simply not reused.
	var cacheAdapter domain.Cache
	if cfg.Redis.Address != "" {
		redisClient, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			appLogger.Warn("Failed to connect to Redis; analysis caching disabled", zap.Error(err))
		} else {
			appLogger.Info("Successfully connected to Redis")
			cacheAdapter = adapter.NewRedisCacheAdapter(redisClient)
		}
	}

	analysisCache := service.NewAnalysisCacheService(cacheAdapter, analysisProvider, cfg.Analysis.CacheTTL)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	quizService := service.NewQuizService(bank, analysisCache, rng)
	quizHandler := handler.NewQuizHandler(quizService)

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(middleware.RequestLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
		MaxAge:       300,
	}))
	app.Use(recover.New())

	app.Get("/health", quizHandler.Health)
	app.Get("/categories", quizHandler.GetCategories)
	app.Post("/start-test", quizHandler.StartTest)
	app.Post("/submit-test", quizHandler.SubmitTest)

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
		appLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
