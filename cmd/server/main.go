package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/Pradeep2535/Comic-AI-Generator/internal/config"
	"github.com/Pradeep2535/Comic-AI-Generator/internal/handler"
	"github.com/Pradeep2535/Comic-AI-Generator/internal/logger"
	"github.com/Pradeep2535/Comic-AI-Generator/internal/pipeline"
	"github.com/Pradeep2535/Comic-AI-Generator/internal/service"
)

func main() {
	// .env is optional, real deployments configure via the environment.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{Level: cfg.LogLevel, Encoding: cfg.LogEncoding})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	zapLogger.Info("Starting comic generator service",
		zap.String("port", cfg.Port),
		zap.String("ai_client_type", cfg.AIClientType),
		zap.String("ai_model", cfg.AIModel),
		zap.String("diffusion_base_url", cfg.DiffusionBaseURL))

	aiClient, err := service.NewAIClient(cfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to create AI client", zap.Error(err))
	}

	storyService := service.NewStoryService(aiClient, zapLogger)
	imageGenerator := service.NewImageGenerator(cfg, zapLogger)
	renderer := service.NewComicRenderer()

	store := pipeline.NewStore()
	progressHub := handler.NewProgressHub(zapLogger)
	comicPipeline := pipeline.New(storyService, imageGenerator, renderer, progressHub, store,
		pipeline.Options{
			CharacterGuidance: cfg.CharacterGuidance,
			SceneGuidance:     cfg.SceneGuidance,
		}, zapLogger)

	comicHandler := handler.NewComicHandler(comicPipeline, store, zapLogger)
	router := handler.NewRouter(comicHandler, progressHub, zapLogger)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		zapLogger.Info("HTTP server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	zapLogger.Info("Shutting down", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		zapLogger.Error("Graceful shutdown failed", zap.Error(err))
	}
	progressHub.Close()

	zapLogger.Info("Server stopped")
}
