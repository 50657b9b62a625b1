package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/melodex-audio/melodex/internal/config"
	dbRedis "github.com/melodex-audio/melodex/internal/db/redis"
	logpkg "github.com/melodex-audio/melodex/internal/logger"
	"github.com/melodex-audio/melodex/internal/metrics"
	"github.com/melodex-audio/melodex/internal/repository/catalog"
	chiTransport "github.com/melodex-audio/melodex/internal/transport/chi"
	enrichuc "github.com/melodex-audio/melodex/internal/usecase/enrich"
	healthuc "github.com/melodex-audio/melodex/internal/usecase/health"
	ingestuc "github.com/melodex-audio/melodex/internal/usecase/ingest"
	rankuc "github.com/melodex-audio/melodex/internal/usecase/rank"
	searchuc "github.com/melodex-audio/melodex/internal/usecase/search"
	targetuc "github.com/melodex-audio/melodex/internal/usecase/target"
	"github.com/melodex-audio/melodex/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting melodex API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
		zap.String("engine", cfg.Search.Engine),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
		DB:       cfg.Database.DB,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	// Wait for database to be ready
	ctx, cancel := context.WithCancel(logpkg.ContextWithLogger(context.Background(), logger))
	defer cancel()

	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register search metrics explicitly (no init())
	metrics.RegisterSearchMetrics()

	// Ranking engine — composition root
	engine, err := rankuc.NewEngine(cfg.Search.Engine, rankuc.Weights{
		PopularityWeight:    cfg.Search.PopularityWeight,
		ShortQueryThreshold: cfg.Search.ShortQueryThreshold,
		TrigramBoostFactor:  cfg.Search.TrigramBoostFactor,
		Stage1Limit:         cfg.Search.Stage1Limit,
		Stage2Limit:         cfg.Search.Stage2Limit,
		Stage3Limit:         cfg.Search.Stage3Limit,
		EditWeight:          cfg.Search.EditWeight,
	})
	if err != nil {
		logger.Fatal("Failed to create ranking engine", zap.Error(err))
	}

	catalogRepo := catalog.New(store, cfg.Storage.KeyPrefix)

	identify := targetuc.NewScoreGap(targetuc.Config{
		MinAbsoluteScore: cfg.Search.MinAbsoluteScore,
		MinScoreGapRatio: cfg.Search.MinScoreGapRatio,
		ExactMatchBoost:  cfg.Search.ExactMatchBoost,
	})
	enrichSvc := enrichuc.New(catalogRepo, enrichuc.Limits{
		PopularTracks:  cfg.Enrich.PopularTracksLimit,
		Albums:         cfg.Enrich.AlbumsLimit,
		RelatedArtists: cfg.Enrich.RelatedArtistsLimit,
		AlbumTracks:    cfg.Enrich.AlbumTracksLimit,
	})
	searchSvc := searchuc.New(engine, identify, enrichSvc, catalogRepo, searchuc.Limits{
		TopResults:   cfg.Search.TopResults,
		OtherResults: cfg.Search.OtherResults,
	})

	// Index lifecycle: full rebuild at startup, then one per catalog update.
	ingestSvc := ingestuc.New(catalogRepo, engine, store, cfg.Storage.UpdateChannel)
	if err := ingestSvc.Rebuild(ctx); err != nil {
		logger.Fatal("Initial index build failed", zap.Error(err))
	}
	go func() {
		if err := ingestSvc.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Catalog watch stopped", zap.Error(err))
		}
	}()

	healthSvc := healthuc.New(store, engine)

	server := chiTransport.NewServer(searchSvc, healthSvc, engine.Name(), logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	r.Mount("/", server.Routes())

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
