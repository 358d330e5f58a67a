package main

import (
	"log"

	"github.com/joho/godotenv"

	"gobias/adapters/render"
	"gobias/adapters/report"
	"gobias/app"
	"gobias/domain/bias"
	"gobias/internal/config"
	"gobias/ui"
)

func main() {
	// Load environment variables from .env file if present
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	calculator := bias.NewCalculatorWithLimit(cfg.Limits.MaxTrials)
	service := app.NewBiasService(calculator, report.NewGenerator(), render.NewRenderer())

	server, err := ui.NewServer(service, ui.Config{
		Port:    cfg.Server.Port,
		GinMode: cfg.Server.GinMode,
	})
	if err != nil {
		log.Fatalf("Failed to initialize server: %v", err)
	}

	if err := server.Run(cfg.Server.Port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
