package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Question sources
const (
	SourceFile     = "file"
	SourceDatabase = "database"
)

// MaxSegmentLimit keeps a segment plus its continuation marker under
// Telegram's 4096 character message cap.
const MaxSegmentLimit = 4000

type Config struct {
	// Telegram
	BotToken     string
	ModeratorIDs []int64

	// Judge (OpenAI-compatible endpoint)
	LLMAPIKey           string
	LLMBaseURL          string
	LLMModel            string
	LLMMaxTokens        int
	JudgeTimeoutSeconds int

	// Question bank
	QuestionsSource string
	QuestionsPath   string

	// Database (question bank source only)
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Answer filter
	FilterConfigPath string

	// Application
	AppEnv       string
	AppPort      string
	LogLevel     string
	SegmentLimit int

	// Rate Limiting
	RateLimitAnswers       int
	RateLimitWindowSeconds int

	// Keep-alive
	KeepAliveURL             string
	KeepAliveIntervalMinutes int
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		BotToken: getEnv("BOT_TOKEN", ""),

		LLMAPIKey:           getEnv("GROQ_API_KEY", ""),
		LLMBaseURL:          getEnv("LLM_BASE_URL", "https://api.groq.com/openai/v1"),
		LLMModel:            getEnv("LLM_MODEL", "llama-3.1-8b-instant"),
		LLMMaxTokens:        getEnvInt("LLM_MAX_TOKENS", 300),
		JudgeTimeoutSeconds: getEnvInt("JUDGE_TIMEOUT_SECONDS", 30),

		QuestionsSource: strings.ToLower(getEnv("QUESTIONS_SOURCE", SourceFile)),
		QuestionsPath:   getEnv("QUESTIONS_PATH", "preguntas.json"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "quizbot"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "quizbot_db"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		FilterConfigPath: getEnv("FILTER_CONFIG_PATH", ""),

		AppEnv:       getEnv("APP_ENV", "development"),
		AppPort:      getEnv("PORT", "8080"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		SegmentLimit: getEnvInt("SEGMENT_LIMIT", 1800),

		RateLimitAnswers:       getEnvInt("RATE_LIMIT_ANSWERS", 5),
		RateLimitWindowSeconds: getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60),

		KeepAliveIntervalMinutes: getEnvInt("KEEPALIVE_INTERVAL_MINUTES", 10),
	}

	cfg.KeepAliveURL = firstEnv("KEEPALIVE_URL", "RENDER_EXTERNAL_URL", "RENDER_SERVICE_URL")
	if cfg.KeepAliveURL == "" {
		cfg.KeepAliveURL = "http://localhost:" + cfg.AppPort
	}

	ids, err := parseIDList(getEnv("MODERATOR_TELEGRAM_IDS", ""))
	if err != nil {
		return nil, fmt.Errorf("invalid MODERATOR_TELEGRAM_IDS: %w", err)
	}
	cfg.ModeratorIDs = ids

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadDatabaseConfig reads only the database and environment keys, for tools
// that touch the question bank without running the bot.
func LoadDatabaseConfig() (*Config, error) {
	cfg := &Config{
		QuestionsSource: SourceDatabase,
		DBHost:          getEnv("DB_HOST", "localhost"),
		DBPort:          getEnv("DB_PORT", "5432"),
		DBUser:          getEnv("DB_USER", "quizbot"),
		DBPassword:      getEnv("DB_PASSWORD", ""),
		DBName:          getEnv("DB_NAME", "quizbot_db"),
		DBSSLMode:       getEnv("DB_SSLMODE", "disable"),
		AppEnv:          getEnv("APP_ENV", "development"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
	}

	if cfg.DBPassword == "" {
		return nil, fmt.Errorf("DB_PASSWORD is required")
	}
	if cfg.AppEnv == "production" && cfg.DBSSLMode != "require" {
		return nil, fmt.Errorf("DB_SSLMODE must be 'require' in production")
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.BotToken == "" {
		return fmt.Errorf("BOT_TOKEN is required")
	}
	if c.LLMAPIKey == "" {
		return fmt.Errorf("GROQ_API_KEY is required")
	}
	switch c.QuestionsSource {
	case SourceFile:
		if c.QuestionsPath == "" {
			return fmt.Errorf("QUESTIONS_PATH is required for the file source")
		}
	case SourceDatabase:
		if c.DBPassword == "" {
			return fmt.Errorf("DB_PASSWORD is required for the database source")
		}
	default:
		return fmt.Errorf("QUESTIONS_SOURCE must be %q or %q", SourceFile, SourceDatabase)
	}
	if c.SegmentLimit < 1 || c.SegmentLimit > MaxSegmentLimit {
		return fmt.Errorf("SEGMENT_LIMIT must be between 1 and %d", MaxSegmentLimit)
	}
	if c.JudgeTimeoutSeconds < 1 {
		return fmt.Errorf("JUDGE_TIMEOUT_SECONDS must be positive")
	}
	return nil
}

func (c *Config) ValidateProductionSecurity() error {
	if c.AppEnv != "production" {
		return nil
	}

	if c.QuestionsSource == SourceDatabase && c.DBSSLMode != "require" {
		return fmt.Errorf("DB_SSLMODE must be 'require' in production")
	}
	if !strings.HasPrefix(c.LLMBaseURL, "https://") {
		return fmt.Errorf("LLM_BASE_URL must use https in production")
	}

	return nil
}

func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

func (c *Config) GetJudgeTimeout() time.Duration {
	return time.Duration(c.JudgeTimeoutSeconds) * time.Second
}

func (c *Config) GetRateLimitWindow() time.Duration {
	return time.Duration(c.RateLimitWindowSeconds) * time.Second
}

func (c *Config) GetKeepAliveInterval() time.Duration {
	return time.Duration(c.KeepAliveIntervalMinutes) * time.Minute
}

// IsModerator reports whether the user id is listed in MODERATOR_TELEGRAM_IDS.
func (c *Config) IsModerator(userID int64) bool {
	for _, id := range c.ModeratorIDs {
		if id == userID {
			return true
		}
	}
	return false
}

func parseIDList(value string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if value := os.Getenv(key); value != "" {
			return value
		}
	}
	return ""
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
