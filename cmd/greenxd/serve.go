package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"greenx/internal/config"
	"greenx/internal/core/model"
	"greenx/internal/core/timekeeper"
	"greenx/internal/storage"
	"greenx/internal/web"
)

var (
	serveAddr              string
	serveSiteFile          string
	serveTimelineInterval  time.Duration
	serveCountdownInterval time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the event page server",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		flags := cmd.Flags()
		if flags.Changed("addr") {
			cfg.HTTPAddr = serveAddr
		}
		if flags.Changed("site") {
			cfg.SiteFile = serveSiteFile
		}
		if flags.Changed("timeline-interval") {
			cfg.TimelineInterval = serveTimelineInterval
		}
		if flags.Changed("countdown-interval") {
			cfg.CountdownInterval = serveCountdownInterval
		}

		site, err := storage.LoadSiteFile(cfg.SiteFile)
		if err != nil {
			return err
		}

		keeper := timekeeper.New(site.Schedule, model.TimeKeeperConfig{
			TimelineInterval:  cfg.TimelineInterval,
			CountdownInterval: cfg.CountdownInterval,
		}, timekeeper.Config{Logger: logger})
		events := keeper.Subscribe(64)

		hub := web.NewHub(logger)
		server, err := web.NewServer(site, keeper, hub, logger)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		hubCtx, cancelHub := context.WithCancel(context.Background())
		defer cancelHub()
		go hub.Run(hubCtx)

		keeper.Start()
		go hub.Forward(hubCtx, events)

		httpServer := &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           server.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		serveErr := make(chan error, 1)
		go func() {
			logger.Info("HTTP server listening", "addr", cfg.HTTPAddr)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serveErr <- err
			}
			close(serveErr)
		}()

		logger.Info("greenx server started",
			"addr", cfg.HTTPAddr,
			"flag", site.Schedule.Flag.Name,
			"flag_target", site.Schedule.Flag.Target.Format(time.RFC3339),
			"timeline_interval", cfg.TimelineInterval,
			"countdown_interval", cfg.CountdownInterval,
		)

		select {
		case <-ctx.Done():
			logger.Info("received signal, shutting down")
		case err := <-serveErr:
			keeper.Stop()
			return err
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", "err", err)
		}
		logger.Info("HTTP server stopped")

		keeper.Stop()
		cancelHub()
		logger.Info("shutdown complete")
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address (overrides GREENX_HTTP_ADDR)")
	serveCmd.Flags().StringVar(&serveSiteFile, "site", "", "site YAML file (overrides GREENX_SITE_FILE)")
	serveCmd.Flags().DurationVar(&serveTimelineInterval, "timeline-interval", time.Minute, "timeline refresh interval")
	serveCmd.Flags().DurationVar(&serveCountdownInterval, "countdown-interval", time.Second, "countdown refresh interval")
}
