package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/facetdex/internal/config"
	dbValkey "github.com/kailas-cloud/facetdex/internal/db/valkey"
	"github.com/kailas-cloud/facetdex/internal/domain"
	"github.com/kailas-cloud/facetdex/internal/domain/taxonomy"
	logpkg "github.com/kailas-cloud/facetdex/internal/logger"
	"github.com/kailas-cloud/facetdex/internal/metrics"
	"github.com/kailas-cloud/facetdex/internal/payload"
	chiTransport "github.com/kailas-cloud/facetdex/internal/transport/chi"
	cataloguc "github.com/kailas-cloud/facetdex/internal/usecase/catalog"
	healthuc "github.com/kailas-cloud/facetdex/internal/usecase/health"
	searchuc "github.com/kailas-cloud/facetdex/internal/usecase/search"
	sessionuc "github.com/kailas-cloud/facetdex/internal/usecase/session"
	"github.com/kailas-cloud/facetdex/internal/version"
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

	logger.Info("Starting facetdex API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("catalog_source", cfg.Catalog.Source),
	)

	// Register metrics explicitly (no init())
	metrics.RegisterSearchMetrics()
	metrics.RegisterHTTPMetrics()

	tax, err := taxonomy.Load(cfg.Taxonomy.Path)
	if err != nil {
		logger.Fatal("Failed to load taxonomy", zap.Error(err))
	}
	logger.Info("Taxonomy loaded",
		zap.Strings("categories", tax.IDs()),
		zap.Bool("override", cfg.Taxonomy.Path != ""),
	)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Valkey is only dialed when it holds the payload.
	var store *dbValkey.Store
	if cfg.Catalog.Source == config.SourceValkey {
		store, err = dbValkey.NewStore(dbValkey.Config{
			Addrs:    cfg.Catalog.Valkey.Addrs,
			Password: cfg.Catalog.Valkey.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create valkey store", zap.Error(err))
		}
		defer store.Close()

		readiness := time.Duration(cfg.Catalog.Valkey.ReadinessTimeout) * time.Second
		if err := store.WaitForReady(ctx, readiness); err != nil {
			logger.Fatal("Valkey not ready", zap.Error(err))
		}
		logger.Info("Connected to valkey", zap.Strings("addrs", cfg.Catalog.Valkey.Addrs))
	}

	src, err := buildSource(cfg.Catalog, store)
	if err != nil {
		logger.Fatal("Invalid catalog source", zap.Error(err))
	}

	// The catalog loads in the background; until it is published every
	// view reports loading.
	catalog := cataloguc.New(logger)
	defer func() { _ = catalog.Close() }()
	go func() {
		loadCtx, cancel := context.WithTimeout(ctx, cfg.Catalog.LoadTimeout())
		defer cancel()
		_ = catalog.Load(loadCtx, src)
	}()

	searchSvc := searchuc.New(catalog, tax, searchuc.Config{
		MaxResults:     cfg.Search.MaxResults,
		MaxCandidates:  cfg.Search.MaxCandidates,
		Fuzzy:          cfg.Search.Fuzzy,
		FuzzyMinLength: cfg.Search.FuzzyMinLength,
		Boosts:         cfg.Search.Boosts,
	})

	registry := sessionuc.NewRegistry(sessionuc.Config{
		MaxSessions: cfg.Sessions.MaxSessions,
		IdleTTL:     cfg.Sessions.IdleTTL(),
	}, logger)
	go registry.Run(ctx, cfg.Sessions.SweepInterval())

	// Pass nil interface (not typed nil pointer!) when valkey is not used.
	var pinger healthuc.KVPinger
	if store != nil {
		pinger = store
	}
	healthSvc := healthuc.New(catalog, pinger)

	server := chiTransport.NewServer(searchSvc, registry, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Register(r)

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
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// buildSource maps the catalog config onto a payload source.
func buildSource(cfg config.CatalogConfig, store *dbValkey.Store) (payload.Source, error) {
	switch cfg.Source {
	case config.SourceFile:
		return &payload.FileSource{Path: cfg.Path}, nil
	case config.SourceHTTP:
		return payload.NewHTTPSource(cfg.URL, cfg.LoadTimeout()), nil
	case config.SourceValkey:
		if store == nil {
			return nil, fmt.Errorf("valkey source requires a store")
		}
		return &payload.KVSource{Store: store, Key: cfg.Key}, nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownSource, cfg.Source)
	}
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
					_ = json.NewEncoder(w).Encode(chiTransport.ErrorResponse{
						Code:    chiTransport.CodeInternalError,
						Message: "internal error",
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

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
