// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/sqlited/sqlited/internal/config"
	"github.com/sqlited/sqlited/internal/coordinator"
	"github.com/sqlited/sqlited/internal/logger"
	"github.com/sqlited/sqlited/internal/metrics"
	"github.com/sqlited/sqlited/internal/transport/httpws"
)

func RunServeCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the sqlited transaction coordinator",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "config.toml", "path to config.toml")
	return cmd
}

func runServe(parent context.Context, configPath string) error {
	cfg, err := config.New(configPath)
	if err != nil {
		return err
	}

	logger.Configure(logger.Options{
		Level:         cfg.LogLevel,
		LogPath:       cfg.LogPath,
		LogMaxSize:    cfg.LogMaxSize,
		LogMaxBackups: cfg.LogMaxBackups,
	})

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var mgr *metrics.Manager
	var metricsSrv *metrics.Server
	if cfg.MetricsEnabled {
		mgr = metrics.NewManager()
		metricsSrv = metrics.NewServer(mgr, cfg.MetricsHost, cfg.MetricsPort, "")
		go func() {
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("metrics server exited")
			}
		}()
		log.Info().Str("addr", cfg.MetricsAddr()).Msg("metrics server listening")
	}

	opts := []coordinator.Option{coordinator.WithRetryDelay(cfg.RetryDelay())}
	if mgr != nil {
		opts = append(opts, coordinator.WithMetrics(mgr))
	}

	srv := httpws.NewServer(opts...)
	httpSrv := &http.Server{
		Addr:    cfg.ListenAddr(),
		Handler: srv.Handler(nil),
	}

	go func() {
		log.Info().Str("addr", cfg.ListenAddr()).Msg("sqlited listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("http server exited")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("http server shutdown error")
	}
	srv.Shutdown()

	if metricsSrv != nil {
		if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("metrics server shutdown error")
		}
	}

	return nil
}
