package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"vision-inspector/internal/api/httpapi"
	"vision-inspector/internal/api/telegram"
	"vision-inspector/internal/container"
	"vision-inspector/internal/infrastructure/keepalive"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API, the Telegram bot and the keep-alive pinger",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c, err := container.Build(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", "err", err)
		return err
	}
	defer c.Close()

	g, gCtx := errgroup.WithContext(ctx)

	server := httpapi.NewServer(httpapi.Options{
		Addr:             cfg.HTTPAddr,
		DefaultThreshold: cfg.ConfidenceThreshold,
		MaxUploadBytes:   cfg.MaxUploadBytes,
	}, c.InspectionService, c.HistoryService, logger.WithPrefix("http"))
	g.Go(func() error { return server.Run(gCtx) })

	if cfg.TelegramToken != "" {
		bot, err := telegram.NewBot(cfg.TelegramToken, c.UserService, c.InspectionService, c.HistoryService, logger.WithPrefix("bot"))
		if err != nil {
			stop()
			_ = g.Wait()
			return err
		}
		g.Go(func() error { return bot.Run(gCtx) })
	} else {
		logger.Info("TELEGRAM_TOKEN is not set, bot disabled")
	}

	if cfg.KeepAliveURL != "" {
		pinger := keepalive.NewPinger(cfg.KeepAliveURL, cfg.KeepAliveInterval, logger.WithPrefix("keepalive"))
		g.Go(func() error { return pinger.Run(gCtx) })
	}

	logger.Info("service is running")
	err = g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("service stopped with error", "err", err)
		return err
	}
	logger.Info("service stopped")
	return nil
}
