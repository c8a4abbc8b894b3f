package app

import (
	"context"
	"fmt"
	"log"

	"miosa/internal/gateway/config"
	"miosa/internal/gateway/handler"
	"miosa/internal/gateway/repository/artifact"
	"miosa/internal/gateway/repository/sessionstore"
	"miosa/internal/gateway/server"
	"miosa/internal/gateway/service/consultation"
	llmclient "miosa/internal/llm/client"
)

type App struct {
	server *server.Server
	llm    llmclient.LLMClient
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Dependencies
	store := sessionstore.NewFromEnv(cfg.Sessions.Path)
	artifacts := newArtifactStore(cfg.Artifact)

	llm, err := llmclient.NewFromEnv(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to init llm client: %w", err)
	}

	consultationSvc := consultation.New(store, artifacts, llm)
	consultationHandler := handler.NewConsultationHandler(consultationSvc)

	// Routing & Server
	mux := server.NewMux(consultationHandler)
	srv := server.New(cfg.Port, mux)

	return &App{
		server: srv,
		llm:    llm,
	}, nil
}

func newArtifactStore(cfg config.ArtifactConfig) artifact.Store {
	if !cfg.Enabled {
		return artifact.NewMemoryStore()
	}
	s3, err := artifact.NewS3Store(artifact.S3Config{
		Endpoint:  cfg.Endpoint,
		Region:    cfg.Region,
		AccessKey: cfg.AccessKey,
		SecretKey: cfg.SecretKey,
		Bucket:    cfg.Bucket,
		UseSSL:    cfg.UseSSL,
	})
	if err != nil {
		log.Printf("artifact store unavailable, falling back to memory: %v", err)
		return artifact.NewMemoryStore()
	}
	return s3
}

func (a *App) Start() error {
	return a.server.Start()
}

func (a *App) Shutdown(ctx context.Context) error {
	if a.llm != nil {
		_ = a.llm.Close()
	}
	return a.server.Shutdown(ctx)
}
