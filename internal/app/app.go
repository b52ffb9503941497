// Package app assembles the services shared by the server and the CLI.
package app

import (
	"context"
	"database/sql"
	"fmt"

	"course-ai/internal/config"
	"course-ai/internal/db"
	"course-ai/internal/logger"
	"course-ai/internal/render"
	"course-ai/internal/services"
	"course-ai/pkg/videos"
	"course-ai/pkg/websearch"
)

type App struct {
	Config    config.Config
	Log       *logger.Logger
	DB        *sql.DB
	Generator *services.Generator
	Store     *services.ArtifactStore
	History   *services.HistoryService
	Reviews   *services.ReviewService
	PDFText   *services.PDFService
	PDF       *render.PDFRenderer

	SearchEnabled bool
	VideosEnabled bool
}

// New wires every collaborator from cfg. Missing credentials disable the
// matching feature rather than failing.
func New(ctx context.Context, cfg config.Config, log *logger.Logger) (*App, error) {
	if log == nil {
		log = logger.Nop()
	}

	conn, err := db.Open(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	search, err := websearch.NewWebSearchService(ctx, websearch.Config{
		APIKey:   cfg.GoogleAPIKey,
		EngineID: cfg.GoogleCSEID,
	})
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("init web search: %w", err)
	}

	videoService, err := videos.NewService(ctx, videos.Config{
		APIKey:           cfg.GoogleAPIKey,
		LookupsPerSecond: cfg.VideoLookupsPerSecond,
	})
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("init video search: %w", err)
	}

	completion := services.NewCompletionClient(cfg.LLMKey, cfg.LLMBaseURL)
	if cfg.LLMKey == "" {
		log.Warn("no completion api key configured; generation will fail until GROQ_API_KEY or OPENAI_API_KEY is set")
	}

	a := &App{
		Config:        cfg,
		Log:           log,
		DB:            conn,
		Generator:     services.NewGenerator(completion, search, videoService, cfg.LLMModel, log.With("component", "generator")),
		Store:         services.NewArtifactStore(cfg.ArtifactDir),
		History:       services.NewHistoryService(conn),
		Reviews:       services.NewReviewService(conn),
		PDFText:       services.NewPDFService(),
		PDF:           render.NewPDFRenderer(render.NewHTTPThumbnailFetcher(nil), log.With("component", "pdf")),
		SearchEnabled: cfg.SearchConfigured(),
		VideosEnabled: videoService.Enabled(),
	}
	log.Info("services ready", "model", cfg.LLMModel, "search", a.SearchEnabled, "videos", a.VideosEnabled)
	return a, nil
}

func (a *App) Close() error {
	if a.DB == nil {
		return nil
	}
	return a.DB.Close()
}
