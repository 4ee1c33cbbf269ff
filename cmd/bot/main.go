package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mroshb/quiz_bot/internal/config"
	"github.com/mroshb/quiz_bot/internal/database"
	"github.com/mroshb/quiz_bot/internal/filter"
	"github.com/mroshb/quiz_bot/internal/handlers"
	"github.com/mroshb/quiz_bot/internal/health"
	"github.com/mroshb/quiz_bot/internal/judge"
	"github.com/mroshb/quiz_bot/internal/middleware"
	"github.com/mroshb/quiz_bot/internal/models"
	"github.com/mroshb/quiz_bot/internal/questions"
	"github.com/mroshb/quiz_bot/internal/quiz"
	"github.com/mroshb/quiz_bot/internal/repositories"
	"github.com/mroshb/quiz_bot/pkg/logger"
	"github.com/mroshb/quiz_bot/telegram"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	// Load configuration
	cfg, err := config.LoadConfig()

	appEnv := os.Getenv("APP_ENV")
	logger.Init(os.Getenv("LOG_LEVEL"), appEnv == "" || appEnv == "development")
	defer logger.Sync()

	if err != nil {
		logger.Fatal("Failed to load config", err)
	}

	logger.Info("Starting Telegram Quiz Bot...")

	// Validate production security settings
	if cfg.AppEnv == "production" {
		if err := cfg.ValidateProductionSecurity(); err != nil {
			logger.Fatal("Production security validation failed", err)
		}
		logger.Info("Production security validation passed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	filterCfg := filter.DefaultConfig()
	if cfg.FilterConfigPath != "" {
		filterCfg, err = filter.LoadConfig(cfg.FilterConfigPath)
		if err != nil {
			logger.Fatal("Failed to load filter config", err)
		}
		logger.Info("Filter word-lists loaded", "path", cfg.FilterConfigPath)
	}

	bank := loadQuestions(ctx, cfg)

	judgeTimeout := cfg.GetJudgeTimeout()
	session := quiz.NewSession(
		bank,
		filter.New(filterCfg),
		judge.NewOpenAIJudge(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, cfg.LLMMaxTokens, judgeTimeout),
		judgeTimeout,
	)

	limiter := middleware.NewRateLimiter(cfg.RateLimitAnswers, cfg.GetRateLimitWindow())
	go limiter.RunCleanup(ctx, 5*time.Minute)

	// Keep-alive endpoint and self-ping
	server := health.NewServer(cfg.AppPort, session.Status)
	go func() {
		if err := server.Start(); err != nil {
			logger.Error("Keep-alive server stopped", "error", err)
		}
	}()
	go health.NewKeepAlive(cfg.KeepAliveURL, cfg.GetKeepAliveInterval()).Run(ctx)

	// Initialize and start Telegram bot
	bot, err := telegram.InitBot(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize bot", err)
	}
	handler := handlers.NewQuizHandler(session, limiter, bot, bot, bot.Username(), cfg.SegmentLimit)
	bot.Start(ctx, handler)

	logger.Info("Bot started successfully", "env", cfg.AppEnv, "questions", len(bank))

	// Graceful shutdown
	<-ctx.Done()

	logger.Info("Shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("Keep-alive server shutdown failed", "error", err)
	}
	bot.Stop()
	logger.Info("Bot stopped")
}

func loadQuestions(ctx context.Context, cfg *config.Config) []models.Question {
	if cfg.QuestionsSource != config.SourceDatabase {
		return questions.Load(ctx, cfg.QuestionsSource, cfg.QuestionsPath, nil)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		return []models.Question{}
	}
	defer func() {
		if err := database.Close(db); err != nil {
			logger.Warn("Failed to close database", "error", err)
		}
	}()

	if err := database.AutoMigrate(db); err != nil {
		logger.Error("Failed to run migrations", "error", err)
		return []models.Question{}
	}

	return questions.Load(ctx, cfg.QuestionsSource, cfg.QuestionsPath, repositories.NewQuestionRepository(db))
}
