package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ispeaker/backend/api"
	"ispeaker/backend/tasks"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type serveOptions struct {
	addr string
	dev  bool
}

func serveFlags(o *serveOptions) *pflag.FlagSet {
	fs := pflag.NewFlagSet("serve", pflag.ContinueOnError)
	fs.StringVar(&o.addr, "addr", "", "HTTP listen address (default from config, :19180)")
	fs.BoolVar(&o.dev, "dev", false, "enable development mode with verbose logging")
	return fs
}

func newServeCmd(opts *globalOptions) *cobra.Command {
	serve := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (default command)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts, serve)
		},
	}
	cmd.Flags().AddFlagSet(serveFlags(serve))
	return cmd
}

func runServe(cmd *cobra.Command, opts *globalOptions, serve *serveOptions) error {
	if serve.dev && opts.logLevel == "" {
		opts.logLevel = "debug"
	}

	a, err := newApp(opts, cmd.ErrOrStderr(), true)
	if err != nil {
		return err
	}
	defer a.close()

	addr := serve.addr
	if addr == "" {
		addr = a.cfg.Server.Addr
	}
	if serve.dev || a.cfg.Server.Dev {
		gin.SetMode(gin.DebugMode)
		a.logger.Info().Msg("running in development mode")
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	tasks.NewScheduler(a.facade, tasks.DefaultLogPruneInterval, a.logger.With().Str("component", "tasks").Logger()).Start(ctx)

	srv := &http.Server{
		Addr:    addr,
		Handler: api.NewRouter(a.facade, a.logger.With().Str("component", "api").Logger()),
	}

	cleanupDone := make(chan struct{})
	go func() {
		<-ctx.Done()
		a.logger.Info().Msg("shutdown signal received")

		// 保存最终设置
		if err := a.snapshotter.Flush(); err != nil {
			a.logger.Error().Err(err).Msg("save settings failed")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.logger.Error().Err(err).Msg("graceful shutdown failed")
		}
		close(cleanupDone)
	}()

	a.logger.Info().Str("addr", srv.Addr).Msg("server listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		cancel()
		<-cleanupDone
		return err
	}
	<-cleanupDone
	return nil
}
