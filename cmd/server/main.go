package main

import (
	"feishu-attendance-report/internal/api"
	"feishu-attendance-report/internal/config"
	"feishu-attendance-report/internal/database"
	"feishu-attendance-report/internal/feishu"
	"feishu-attendance-report/internal/services"
	"feishu-attendance-report/internal/validation"
	"fmt"
	"log"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize Feishu client and the attendance source
	feishuClient := feishu.NewClient(cfg.Feishu)
	source := feishu.NewSource(feishuClient, cfg.Report)

	// Initialize MongoDB client (optional - for report caching)
	var mongoClient *database.MongoDBClient
	if cfg.MongoDB.URI != "" || cfg.MongoDB.Host != "" {
		log.Printf("Initializing MongoDB connection (Host: %s, Port: %s, Database: %s)",
			cfg.MongoDB.Host, cfg.MongoDB.Port, cfg.MongoDB.Database)
		mongoClient, err = database.NewMongoDBClient(cfg.MongoDB)
		if err != nil {
			log.Printf("WARNING: Failed to connect to MongoDB (caching disabled): %v", err)
			mongoClient = nil
		} else {
			log.Printf("Successfully connected to MongoDB for report caching")
			defer mongoClient.Close()
		}
	} else {
		log.Printf("MongoDB not configured, report caching disabled")
	}

	// Initialize services
	aiService := services.NewAIService(cfg.OpenAI)
	if aiService == nil {
		log.Printf("OpenAI not configured, report commentary disabled")
	}
	reportService := services.NewReportService(cfg.Report, feishuClient, source, aiService, mongoClient)
	taskService := services.NewTaskService()

	// Delivery sinks: chat always, email when configured
	sinks := []services.ReportSink{feishu.NewMessageSink(feishuClient, cfg.Feishu)}
	if emailService := services.NewEmailService(cfg.Email); emailService != nil {
		sinks = append(sinks, emailService)
	}

	validator, err := validation.NewReportValidator()
	if err != nil {
		log.Fatalf("Failed to compile report schema: %v", err)
	}

	scheduler := services.NewScheduler(cfg.Scheduler, reportService, validator, sinks)
	if err := scheduler.Start(); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}
	defer scheduler.Stop()

	// HTTP API
	handlers := api.NewHandlers(reportService, taskService, scheduler, cfg.Server.TriggerKey)
	router := api.SetupRoutes(handlers)

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Starting server on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
