package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hyperjump/filebot/internal/config"
	"github.com/hyperjump/filebot/internal/inline"
	"github.com/hyperjump/filebot/internal/server"
	"github.com/hyperjump/filebot/internal/telegram"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the Telegram bot and the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := opts.setup()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			components, err := initializeComponents(cfg, logger, cfg.Debug || opts.debug)
			if err != nil {
				return err
			}
			defer components.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg, components, logger)
		},
	}
}

func runServe(ctx context.Context, cfg *config.Config, c *Components, logger *zap.Logger) error {
	client, err := telegram.NewClient(&cfg.Telegram, logger)
	if err != nil {
		return err
	}
	logger.Info("connected to Telegram", zap.String("bot", client.Username()))

	renderer, err := inline.NewRenderer(inline.RenderOptions{
		BotUsername:   client.Username(),
		ShareText:     cfg.Inline.ShareText,
		DeveloperURL:  cfg.Inline.DeveloperURL,
		BrandName:     cfg.Inline.BrandName,
		CaptionFooter: cfg.Inline.CaptionFooter,
	})
	if err != nil {
		return fmt.Errorf("invalid inline settings: %w", err)
	}
	handler := inline.NewHandler(c.Engine, renderer, client, cfg.CacheTimePolicy(),
		inline.WithAccessGate(inline.NewAccessGate(cfg.Inline.AuthChannel, client, logger)),
		inline.WithPageSize(cfg.Inline.PageSize),
		inline.WithLogger(logger),
	)
	dispatcher := telegram.NewDispatcher(handler,
		telegram.WithAllowedUsers(cfg.Inline.AuthUsers),
		telegram.WithIndexChannels(c.Indexer, cfg.Telegram.IndexChannels),
		telegram.WithDispatchLogger(logger),
	)

	g, gctx := errgroup.WithContext(ctx)

	srvOpts := []server.Option{
		server.WithStoragePaths(&cfg.Storage),
		server.WithPageSize(cfg.Inline.PageSize),
	}
	if cfg.Telegram.Mode == "webhook" {
		srvOpts = append(srvOpts, server.WithWebhook(cfg.Telegram.WebhookPath, dispatcher.WebhookHandler()))
	}
	if cfg.Server.EnabledOrDefault() {
		srv := server.NewServer(c.Engine, c.Indexer, c.Storage, &cfg.Server, logger, srvOpts...)
		g.Go(srv.Start)
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Stop(shutdownCtx)
		})
	}

	switch cfg.Telegram.Mode {
	case "webhook":
		if err := client.UseWebhook(cfg.Telegram.WebhookURL); err != nil {
			return err
		}
		logger.Info("receiving updates by webhook",
			zap.String("url", cfg.Telegram.WebhookURL),
			zap.String("path", cfg.Telegram.WebhookPath),
		)
	default:
		if err := client.UseLongPolling(); err != nil {
			return err
		}
		updates := client.Updates(cfg.Telegram.PollTimeout)
		logger.Info("receiving updates by long polling", zap.Int("workers", cfg.Telegram.Workers))
		g.Go(func() error {
			defer client.StopUpdates()
			return dispatcher.Serve(gctx, updates, cfg.Telegram.Workers)
		})
	}

	logger.Info("filebot started",
		zap.Int("page_size", cfg.Inline.PageSize),
		zap.Int("cache_time", cfg.CacheTimePolicy()),
		zap.Int64("auth_channel", cfg.Inline.AuthChannel),
		zap.Int("auth_users", len(cfg.Inline.AuthUsers)),
		zap.Int64s("index_channels", cfg.Telegram.IndexChannels),
	)

	err = g.Wait()
	logger.Info("Shutting down...")
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
