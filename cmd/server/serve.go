package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/kyiku/hackz-valentine-back/internal/catalog"
	"github.com/kyiku/hackz-valentine-back/internal/config"
	"github.com/kyiku/hackz-valentine-back/internal/handler"
	"github.com/kyiku/hackz-valentine-back/internal/invite"
	"github.com/kyiku/hackz-valentine-back/internal/logging"
	"github.com/kyiku/hackz-valentine-back/internal/middleware"
	"github.com/kyiku/hackz-valentine-back/internal/session"
	"github.com/kyiku/hackz-valentine-back/internal/state"
	"github.com/kyiku/hackz-valentine-back/internal/storage"
	"github.com/kyiku/hackz-valentine-back/web"
)

const shutdownTimeout = 10 * time.Second

func serve(ctx context.Context, cfg *config.Config) error {
	logger, err := logging.New(cfg.LogLevel, cfg.LogDev)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	// Copy catalog
	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return err
	}
	catalogHolder := catalog.NewHolder(cat)
	if cfg.CatalogPath != "" {
		if err := catalog.Watch(ctx, cfg.CatalogPath, catalogHolder, logger); err != nil {
			logger.Warn("catalog hot reload disabled", zap.Error(err))
		}
	}

	// State backend
	var backend state.Backend
	switch cfg.StateBackend {
	case config.BackendSQLite:
		db, err := storage.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return err
		}
		defer db.Close()
		backend = db
	default:
		backend = storage.NewMemoryBackend()
	}
	states := state.NewStore(backend, logger)

	sessionStore := session.NewSessionStoreWithExpiry(cfg.SessionTTL)
	go sweepSessions(ctx, sessionStore, cfg.SessionTTL/2, logger)

	// Load AWS config
	awsCfg, awsErr := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if awsErr != nil {
		logger.Warn("failed to load AWS config, S3 and Bedrock disabled", zap.Error(awsErr))
	}

	var s3Client storage.S3ClientInterface
	if awsErr == nil && cfg.S3Bucket != "" {
		s3Client = &S3Adapter{client: s3.NewFromConfig(awsCfg), bucket: cfg.S3Bucket}
	}
	assets := storage.NewAssetStore(s3Client, cfg.AssetPrefix, web.Assets())

	tmpl, err := web.Templates()
	if err != nil {
		return fmt.Errorf("failed to parse templates: %w", err)
	}

	// Initialize handlers
	healthHandler := handler.NewHealthHandler(sessionStore)
	pageHandler := handler.NewPageHandler(sessionStore, states, catalogHolder, cfg.SessionTTL, logger)
	sessionHandler := handler.NewSessionHandler(sessionStore, cfg.SessionTTL)
	stateHandler := handler.NewStateHandler(sessionStore, states, logger)
	flowHandler := handler.NewFlowHandler(sessionStore, states, catalogHolder, logger)
	evadeHandler := handler.NewEvadeHandler(sessionStore, catalogHolder)
	summaryHandler := handler.NewSummaryHandler(sessionStore, states, logger)
	assetHandler := handler.NewAssetHandler(assets, logger)
	wsHandler := handler.NewWebSocketHandler(sessionStore, catalogHolder, middleware.CheckOrigin(cfg.AllowedOrigins), logger)

	if awsErr == nil && cfg.BedrockEnabled {
		composer := invite.NewComposer(&BedrockAdapter{client: bedrockruntime.NewFromConfig(awsCfg)}, cfg.BedrockModelID)
		composer.EnableFallback(true)
		summaryHandler.SetComposer(composer)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = handler.NewTemplateRenderer(tmpl)

	// Middleware
	e.Use(middleware.RequestLogger(logger))
	e.Use(echomw.Recover())
	e.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	limiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateWindow)
	defer limiter.Stop()

	// Health check (root level for ALB)
	e.GET("/health", healthHandler.Check)

	// Pages and static files
	pageHandler.Register(e)
	e.StaticFS("/static", web.Static())
	e.GET("/assets/*", assetHandler.Serve)

	// WebSocket endpoint
	e.GET("/ws", wsHandler.Connect)

	// API routes
	api := e.Group("/api", middleware.RateLimitMiddleware(limiter, logger))
	api.GET("/health", healthHandler.Check)
	api.GET("/assets", assetHandler.List)
	api.POST("/session", sessionHandler.Create)
	api.GET("/state", stateHandler.Get)
	api.POST("/state", stateHandler.Patch)
	api.POST("/start", flowHandler.Start)
	api.POST("/answer", flowHandler.Answer)
	api.POST("/proceed", flowHandler.Proceed)
	api.POST("/date", flowHandler.Date)
	api.POST("/evade", evadeHandler.Place)
	api.GET("/summary", summaryHandler.Get)
	api.GET("/summary.png", summaryHandler.Card)

	for _, r := range e.Routes() {
		logger.Debug("route registered", zap.String("method", r.Method), zap.String("path", r.Path))
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("port", cfg.Port), zap.String("state_backend", cfg.StateBackend))
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

// sweepSessions drops expired visitors until ctx is done.
func sweepSessions(ctx context.Context, store *session.SessionStore, every time.Duration, logger *zap.Logger) {
	if every <= 0 {
		every = time.Minute
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := store.Sweep(); n > 0 {
				logger.Info("expired sessions removed", zap.Int("removed", n), zap.Int("active", store.Count()))
			}
		}
	}
}
