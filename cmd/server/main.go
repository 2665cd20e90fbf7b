package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/zerolog/log"

	"github.com/IBRAHIMHAMID678/AI-Powered-Vehical-Market-Place/internal/cache"
	"github.com/IBRAHIMHAMID678/AI-Powered-Vehical-Market-Place/internal/config"
	"github.com/IBRAHIMHAMID678/AI-Powered-Vehical-Market-Place/internal/database"
	"github.com/IBRAHIMHAMID678/AI-Powered-Vehical-Market-Place/internal/handler"
	"github.com/IBRAHIMHAMID678/AI-Powered-Vehical-Market-Place/internal/logging"
	"github.com/IBRAHIMHAMID678/AI-Powered-Vehical-Market-Place/internal/middleware"
	"github.com/IBRAHIMHAMID678/AI-Powered-Vehical-Market-Place/internal/repository"
	"github.com/IBRAHIMHAMID678/AI-Powered-Vehical-Market-Place/internal/service"
)

const bodyLimit = 25 << 20

// main is the single entry‑point for the REST API.
func main() {
	cfg := config.Load()
	logging.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("db", cfg.DBName).
		Str("project", cfg.ProjectID).
		Int("chat_models", len(cfg.ChatModels)).
		Str("transcriber", cfg.Transcriber).
		Msg("configuration loaded")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Mongo
	mongoClient, err := database.NewMongo(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer database.Disconnect(mongoClient)
	log.Info().Msg("connected to MongoDB")

	carRepo := repository.NewCarRepository(mongoClient.Database(cfg.DBName))
	if err := carRepo.EnsureIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to create listing indexes")
	}

	// Stats cache (optional)
	var statsCache cache.Client
	if cfg.RedisAddr != "" {
		rc, err := cache.NewRedisClient(cache.RedisConfig{Addr: cfg.RedisAddr})
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unavailable; stats cache disabled")
		} else {
			defer rc.Close()
			statsCache = rc
		}
	}

	// Vertex AI (optional: without it every chat turn gets the apology)
	var (
		chatModels  []service.LanguageModel
		transcriber service.Transcriber = service.LocalTranscriber{URL: cfg.TranscribeURL}
	)
	if cfg.ProjectID != "" {
		llm, err := service.NewVertexLLM(ctx, cfg.ProjectID, cfg.Location)
		if err != nil {
			log.Error().Err(err).Msg("failed to initialise Vertex AI; chat will answer with the apology")
		} else {
			defer llm.Close()
			chatModels = llm.Models(modelProfiles(cfg.ChatModels))
			if cfg.Transcriber == "gemini" {
				transcriber = llm.Transcriber(cfg.ChatModels[0].Name)
			}
		}
	} else {
		log.Warn().Msg("GCP_PROJECT_ID not set; chat will answer with the apology")
	}

	listingSvc := service.NewListingService(carRepo, statsCache, service.ListingOptions{
		AISearchLimit: cfg.AISearchLimit,
		StatsCacheTTL: cfg.StatsCacheTTL,
	})
	chatSvc := service.NewChatService(chatModels, listingSvc, service.ChatOptions{
		HistoryLimit:     cfg.ChatHistoryLimit,
		DescriptionChars: cfg.AIDescriptionChars,
	})
	voiceSvc := service.NewVoiceService(cfg.UploadDir, service.FFmpegConverter{Bin: cfg.FFmpegBin}, transcriber)

	app := fiber.New(fiber.Config{
		AppName:      "automarket",
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		BodyLimit:    bodyLimit,
		ErrorHandler: handler.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.Logging())
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.CORSAllowedOrigins}))

	handler.RegisterRoutes(app, listingSvc, chatSvc, voiceSvc, cfg.JWTSecret)
	handler.NewHealthHandler(mongoClient, statsCache).Register(app)

	go func() {
		<-ctx.Done()
		log.Info().Msg("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error().Err(err).Msg("shutdown failed")
		}
	}()

	log.Info().Str("port", cfg.Port).Msg("server starting")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server failed to start")
	}
}

func modelProfiles(specs []config.ModelSpec) []service.ModelProfile {
	out := make([]service.ModelProfile, len(specs))
	for i, s := range specs {
		out[i] = service.ModelProfile{Name: s.Name, Temperature: s.Temperature, MaxOutputTokens: s.MaxOutputTokens}
	}
	return out
}
