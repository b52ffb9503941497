package main

import (
	"context"
	"fmt"
	"os"

	"course-ai/internal/app"
	"course-ai/internal/cli"
	"course-ai/internal/config"
	"course-ai/internal/logger"
)

func main() {
	cfg := config.Load()

	zlog, err := logger.New(cfg.LogMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer zlog.Sync()

	a, err := app.New(context.Background(), cfg, zlog)
	if err != nil {
		fmt.Fprintf(os.Stderr, "startup failed: %v\n", err)
		os.Exit(1)
	}

	cli.Configure(cli.Services{
		Generator: a.Generator,
		Store:     a.Store,
		PDFText:   a.PDFText,
		PDF:       a.PDF,
		Log:       zlog,
	})
	err = cli.Execute()
	_ = a.Close()
	if err != nil {
		os.Exit(1)
	}
}
