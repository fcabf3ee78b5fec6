package main

import (
	"context"
	"fmt"
	"log"

	"github.com/ShehabAlj/shehab-crm/internal/ai"
	"github.com/ShehabAlj/shehab-crm/internal/config"
	"github.com/ShehabAlj/shehab-crm/internal/crm"
	"github.com/ShehabAlj/shehab-crm/internal/database"
	"github.com/ShehabAlj/shehab-crm/internal/handlers"
	"github.com/ShehabAlj/shehab-crm/internal/server"
	"github.com/ShehabAlj/shehab-crm/internal/sheets"
	"github.com/ShehabAlj/shehab-crm/internal/telegram"
)

func main() {
	cfg := config.Load()
	database.Init(cfg.DBDSN)

	store := crm.NewStore(database.DB)

	aiClient, err := ai.NewClient(cfg)
	if err != nil {
		log.Printf("ai client disabled: %v", err)
		aiClient = nil
	}

	var sheetSource sheets.Source
	if cfg.SheetsConfigured() {
		src, err := sheets.NewClient(context.Background(), cfg.SheetsID, cfg.SheetsServiceEmail, cfg.SheetsPrivateKey)
		if err != nil {
			log.Printf("sheets source disabled: %v", err)
		} else {
			sheetSource = src
		}
	} else {
		log.Println("sheets source not configured")
	}

	memory := crm.NewMemoryWriter(store, 64)
	defer memory.Close()

	assistant := ai.NewAssistant(store, aiClient, memory, cfg.RevenueGoal)
	gateway := telegram.NewGateway(cfg.TelegramBotToken, store)

	handlers.Setup(store, sheetSource, assistant, aiClient, cfg.RevenueGoal)

	r := server.NewRouter(cfg, gateway)

	addr := fmt.Sprintf(":%s", cfg.ServerPort)
	log.Printf("starting server on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
