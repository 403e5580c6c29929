package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"energy-insights/dataset"
	"energy-insights/handlers"
	"energy-insights/logger"
	"energy-insights/templates"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard and the JSON API",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("addr") && serveAddr != "" {
			cfg.Addr = serveAddr
		}
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
}

func serve(ctx context.Context) error {
	store := dataset.NewStore(cfg.CacheEntries)
	reloader := &dataset.Reloader{
		Location: cfg.DatasetPath,
		Options:  loadOptions(),
		Store:    store,
		Log:      log,
	}

	// One-shot load; the API answers "loading" until it completes and keeps
	// doing so if it fails.
	go func() {
		if err := reloader.Reload(ctx); err != nil {
			log.WithError(err).Error("initial dataset load failed, dashboard stays in loading state")
		}
	}()
	if _, err := dataset.StartReloadScheduler(ctx, cfg.ReloadSchedule, reloader); err != nil {
		return err
	}

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	r.Use(gin.Recovery(), logger.Middleware(log))
	tmpl, err := templates.Parse()
	if err != nil {
		return err
	}
	r.SetHTMLTemplate(tmpl)
	handlers.New(store, log, cfg.GalleryLimit).Register(r)

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.WithField("addr", cfg.Addr).WithField("dataset", cfg.DatasetPath).Info("starting energy insights server")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	log.Info("server stopped")
	return nil
}

func loadOptions() dataset.LoadOptions {
	return dataset.LoadOptions{
		Timeout:    cfg.FetchTimeout(),
		MaxElapsed: cfg.FetchMaxElapsed(),
		Log:        log,
	}
}
