package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDSN         string
	ServerPort    string
	SessionSecret string

	// OpenRouter (chat completions)
	AIAPIKey  string
	AIBaseURL string
	AIModel   string

	TelegramBotToken string

	// Google Sheets (источник входящих лидов)
	SheetsID           string
	SheetsServiceEmail string
	SheetsPrivateKey   string

	RevenueGoal int
}

func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DBDSN:         os.Getenv("DB_DSN"),
		ServerPort:    os.Getenv("SERVER_PORT"),
		SessionSecret: os.Getenv("SESSION_SECRET"),

		AIAPIKey:  os.Getenv("OPENROUTER_API_KEY"),
		AIBaseURL: os.Getenv("OPENROUTER_BASE_URL"),
		AIModel:   os.Getenv("AI_MODEL"),

		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),

		SheetsID:           os.Getenv("GOOGLE_SHEETS_ID"),
		SheetsServiceEmail: os.Getenv("GOOGLE_SERVICE_ACCOUNT_EMAIL"),
		// ключ приходит из .env с экранированными переводами строк
		SheetsPrivateKey: strings.ReplaceAll(os.Getenv("GOOGLE_PRIVATE_KEY"), `\n`, "\n"),
	}

	if cfg.DBDSN == "" {
		log.Fatal("DB_DSN is not set")
	}
	if cfg.ServerPort == "" {
		cfg.ServerPort = "8080"
	}
	if cfg.SessionSecret == "" {
		log.Fatal("SESSION_SECRET is not set")
	}

	if cfg.AIBaseURL == "" {
		cfg.AIBaseURL = "https://openrouter.ai/api/v1"
	}
	if cfg.AIModel == "" {
		cfg.AIModel = "google/gemini-2.0-flash-001"
	}
	if cfg.AIAPIKey == "" {
		log.Println("OPENROUTER_API_KEY is not set, AI features will degrade")
	}
	if cfg.TelegramBotToken == "" {
		log.Println("TELEGRAM_BOT_TOKEN is not set, telegram replies disabled")
	}

	cfg.RevenueGoal = 2000
	if v := os.Getenv("REVENUE_GOAL"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RevenueGoal = n
		}
	}

	return cfg
}

func (c *Config) SheetsConfigured() bool {
	return c.SheetsID != "" && c.SheetsServiceEmail != "" && c.SheetsPrivateKey != ""
}
