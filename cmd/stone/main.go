package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/zhangshanggaoqing-glitch/stone-record/internal/config"
	apphttp "github.com/zhangshanggaoqing-glitch/stone-record/internal/http"
	applog "github.com/zhangshanggaoqing-glitch/stone-record/internal/log"
	"github.com/zhangshanggaoqing-glitch/stone-record/internal/report/pdf"
	"github.com/zhangshanggaoqing-glitch/stone-record/internal/scheduler"
	"github.com/zhangshanggaoqing-glitch/stone-record/internal/storage"
	"github.com/zhangshanggaoqing-glitch/stone-record/internal/store"
)

func main() {
	// Setup structured logging
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))
	logger := applog.New(applog.ComponentApp, nil)

	// Optional .env for local development; a missing file is fine.
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", applog.FieldError, err.Error())
		os.Exit(1)
	}

	repo, err := storage.NewRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to open database",
			applog.FieldError, err.Error(), "db_path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	st := store.New(repo)
	st.Load(context.Background())

	// PDF export is only wired up when a font source is configured; the
	// endpoint reports 503 otherwise.
	var renderer apphttp.DocumentRenderer
	if cfg.FontURL != "" {
		renderer = pdf.NewExporter(pdf.NewHTTPFontProvider(cfg.FontURL, cfg.FontTimeout))
		logger.Info("PDF export enabled", "font_url", cfg.FontURL)
	}

	srv := apphttp.NewServer(":"+cfg.Port, st, renderer, logger)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	if cfg.BackupCron != "" {
		sched := scheduler.New(st, cfg.BackupDir, logger)
		if err := sched.Register(cfg.BackupCron); err != nil {
			logger.Error("Failed to register backup schedule", applog.FieldError, err.Error())
			os.Exit(1)
		}
		sched.Start()
		g.Go(func() error {
			<-ctx.Done()
			sched.Stop()
			return nil
		})
		logger.Info("Backup snapshots scheduled", "cron", cfg.BackupCron, "dir", cfg.BackupDir)
	}

	g.Go(func() error {
		logger.Info("Starting stone server",
			applog.FieldOperation, applog.OpStartup, "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		srv.ShutdownGracefully(context.Background(), 30*time.Second)
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", applog.FieldError, err.Error())
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
