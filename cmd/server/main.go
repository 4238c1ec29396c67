package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/remediarr/remediarr/common/id"
	"github.com/remediarr/remediarr/common/logger"
	"github.com/remediarr/remediarr/common/otel"
	"github.com/remediarr/remediarr/core/config"
	"github.com/remediarr/remediarr/internal/brain"
	"github.com/remediarr/remediarr/internal/classify"
	"github.com/remediarr/remediarr/internal/client/jellyseerr"
	"github.com/remediarr/remediarr/internal/client/notify"
	"github.com/remediarr/remediarr/internal/client/radarr"
	"github.com/remediarr/remediarr/internal/client/sonarr"
	"github.com/remediarr/remediarr/internal/client/tmdb"
	"github.com/remediarr/remediarr/internal/guard"
	"github.com/remediarr/remediarr/internal/http/middleware"
	httprouter "github.com/remediarr/remediarr/internal/http/router"
	"github.com/remediarr/remediarr/internal/mapper"
	"github.com/remediarr/remediarr/internal/service"
	"github.com/remediarr/remediarr/internal/template"
)

func main() {
	fmt.Printf("%s\n", banner)
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	// OTel must init before logger (logger uses OTel provider in production)
	telemetry, err := otel.Setup(ctx, cfg.OTel)
	if err != nil {
		// Can't use slog yet — OTel failed before logger setup
		os.Stderr.WriteString("failed to initialize otel: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger.Setup(cfg)

	if telemetry != nil {
		slog.InfoContext(ctx, "otel initialized", "endpoint", cfg.OTel.Endpoint)
	} else {
		slog.InfoContext(ctx, "otel disabled (no endpoint configured)")
	}

	slog.InfoContext(ctx, "remediarr starting", "env", cfg.Env, "service", cfg.OTel.ServiceName)
	if err := id.Init(1); err != nil {
		slog.ErrorContext(ctx, "failed to initialize snowflake id generator", "error", err)
		os.Exit(1)
	}

	frontend := jellyseerr.New(cfg.Jellyseerr)
	pingers := map[string]service.Pinger{"jellyseerr": frontend}

	var tvManager brain.TVManager = brain.DisabledTVManager()
	if cfg.Sonarr.Enabled() {
		sonarrClient := sonarr.New(cfg.Sonarr)
		tvManager = sonarrClient
		pingers["sonarr"] = sonarrClient
	}

	var movieManager brain.MovieManager = brain.DisabledMovieManager()
	if cfg.Radarr.Enabled() {
		radarrClient := radarr.New(cfg.Radarr)
		movieManager = radarrClient
		pingers["radarr"] = radarrClient
	}

	var releases brain.ReleaseDates = brain.DisabledReleaseDates()
	if cfg.TMDB.Enabled() {
		releases = tmdb.New(cfg.TMDB)
	}

	var notifier brain.Notifier
	notifierClient := notify.New(cfg.Gotify, cfg.Apprise)
	if notifierClient.Enabled() {
		notifier = notifierClient
	}

	classifier := classify.New(cfg.Keywords, cfg.Priority)
	planner := brain.NewPlanner(classifier, cfg.Jellyseerr.CoachReporters)
	executor := brain.NewExecutor(tvManager, movieManager, releases, frontend, notifier,
		template.NewRenderer(cfg.Templates), brain.Options{
			EnableBlocklist:      cfg.EnableBlocklist,
			CommentOnAction:      cfg.Jellyseerr.CommentOnAction,
			CloseIssues:          cfg.Jellyseerr.CloseIssues,
			CloseMessage:         cfg.Jellyseerr.CloseMessage,
			SearchOnlyIfReleased: cfg.TMDB.Enabled() && cfg.TMDB.SearchOnlyIfReleased,
		})

	loopGuard := guard.New(cfg.Guard.DedupTTL, cfg.Jellyseerr.BotUsername)
	defer loopGuard.Stop()

	remediation := service.NewRemediationService(
		mapper.NewEventMapper(), loopGuard, classifier, planner, executor)
	health := service.NewHealthService(pingers, notifier)

	go health.AnnounceStartup(ctx, cfg.OTel.ServiceVersion)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := setupRouter(cfg, remediation, health)
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.InfoContext(ctx, "http server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.ErrorContext(ctx, "http server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.InfoContext(ctx, "shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(shutdownCtx, "http server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "otel shutdown error", "error", err)
		}
	}

	slog.InfoContext(shutdownCtx, "shutdown complete")
}

func setupRouter(cfg config.Config, remediation *service.RemediationService, health *service.HealthService) *gin.Engine {
	router := gin.New()

	// Order matters: OTel creates span, Recovery catches panics, Logger logs with trace context
	if cfg.OTel.Enabled() {
		router.Use(otelgin.Middleware(cfg.OTel.ServiceName))
	}
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())

	httprouter.SetupRoutes(router, cfg, remediation, health)

	return router
}

const banner = `
██████╗ ███████╗███╗   ███╗███████╗██████╗ ██╗ █████╗ ██████╗ ██████╗
██╔══██╗██╔════╝████╗ ████║██╔════╝██╔══██╗██║██╔══██╗██╔══██╗██╔══██╗
██████╔╝█████╗  ██╔████╔██║█████╗  ██║  ██║██║███████║██████╔╝██████╔╝
██╔══██╗██╔══╝  ██║╚██╔╝██║██╔══╝  ██║  ██║██║██╔══██║██╔══██╗██╔══██╗
██║  ██║███████╗██║ ╚═╝ ██║███████╗██████╔╝██║██║  ██║██║  ██║██║  ██║
╚═╝  ╚═╝╚══════╝╚═╝     ╚═╝╚══════╝╚═════╝ ╚═╝╚═╝  ╚═╝╚═╝  ╚═╝╚═╝  ╚═╝
`
