package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"course-ai/internal/api"
	"course-ai/internal/app"
	"course-ai/internal/config"
	"course-ai/internal/logger"
	"course-ai/internal/render"
)

func main() {
	cfg := config.Load()

	zlog, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg, zlog)
	stop()
	if err != nil {
		zlog.Error("server stopped", "error", err)
		zlog.Sync()
		os.Exit(1)
	}
	zlog.Sync()
}

func run(ctx context.Context, cfg config.Config, zlog *logger.Logger) error {
	a, err := app.New(ctx, cfg, zlog)
	if err != nil {
		return fmt.Errorf("startup: %w", err)
	}
	defer a.Close()

	html, err := render.NewHTMLRenderer()
	if err != nil {
		return fmt.Errorf("load templates: %w", err)
	}

	server := api.NewServer(api.Deps{
		Generator:     a.Generator,
		Store:         a.Store,
		History:       a.History,
		Reviews:       a.Reviews,
		HTML:          html,
		PDF:           a.PDF,
		Sessions:      api.NewSessionManager(0),
		Log:           zlog.With("component", "http"),
		SearchEnabled: a.SearchEnabled,
		VideosEnabled: a.VideosEnabled,
	})

	// Generation with video lookup can take minutes.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      server.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 10 * time.Minute,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	zlog.Info("listening", "addr", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen: %w", err)
	}
	return nil
}
