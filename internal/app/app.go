package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"client-recovery/internal/config"
	"client-recovery/internal/database"
	"client-recovery/internal/event"
	"client-recovery/internal/handler"
	"client-recovery/internal/middleware"
	"client-recovery/internal/repository"
	"client-recovery/internal/router"
	"client-recovery/internal/service"
)

type App struct {
	server       *http.Server
	db           *database.DB
	cleanupFuncs []func()
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	slog.Info("connecting to PostgreSQL")
	db, err := database.New(context.Background(), cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.EnsureSchema(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure database schema: %w", err)
	}

	pool := db.Pool
	userRepo := repository.NewUserRepository(pool)
	tokenRepo := repository.NewTokenRepository(pool)
	auditRepo := repository.NewAuditRepository(pool)
	clientRepo := repository.NewClientRepository(pool)
	restorationRepo := repository.NewRestorationRepository(pool)
	purgeRepo := repository.NewPurgeRepository(pool)
	procedureRepo := repository.NewProcedureRepository(pool)
	slog.Info("database ready")

	authService, err := service.NewAuthService(cfg.JWTSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL, userRepo, tokenRepo)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize auth service: %w", err)
	}
	authMiddleware := middleware.NewAuthMiddleware(authService)
	authHandler := handler.NewAuthHandler(authService)

	bus := event.NewBus()

	auditService := service.NewAuditService(auditRepo)
	auditHandler := handler.NewAuditHandler(auditService)
	registryService := service.NewRegistryService(clientRepo)
	registryHandler := handler.NewRegistryHandler(registryService)
	timelineService := service.NewTimelineService(clientRepo, restorationRepo, purgeRepo)
	timelineHandler := handler.NewTimelineHandler(timelineService)
	restorationService := service.NewRestorationService(restorationRepo, cfg.RestorationBadgeDays)
	restorationHandler := handler.NewRestorationHandler(restorationService)
	recoveryService := service.NewRecoveryService(clientRepo, procedureRepo, auditService, bus)
	recoveryHandler := handler.NewRecoveryHandler(recoveryService)

	notificationService := service.NewNotificationService(bus, procedureRepo)
	backgroundCtx, backgroundCancel := context.WithCancel(context.Background())
	go notificationService.Run(backgroundCtx)
	go cleanExpiredTokens(backgroundCtx, tokenRepo)

	appRouter := router.New(
		cfg,
		db,
		authMiddleware,
		authHandler,
		registryHandler,
		timelineHandler,
		restorationHandler,
		recoveryHandler,
		auditHandler,
	)

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           appRouter,
		ReadHeaderTimeout: cfg.ServerReadTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	return &App{
		server: server,
		db:     db,
		cleanupFuncs: []func(){
			func() {
				backgroundCancel()
			},
			func() {
				db.Close()
			},
		},
	}, nil
}

// cleanExpiredTokens prunes stale refresh tokens hourly so the table does
// not grow unbounded.
func cleanExpiredTokens(ctx context.Context, tokens *repository.TokenRepository) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := tokens.CleanExpired(ctx)
			if err != nil {
				slog.Warn("refresh token cleanup failed", "error", err)
				continue
			}
			if removed > 0 {
				slog.Info("expired refresh tokens removed", "count", removed)
			}
		}
	}
}

func (a *App) Run() error {
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if serveErr := a.server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			slog.Error("server failed", "error", serveErr)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		for _, cleanup := range a.cleanupFuncs {
			cleanup()
		}
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	for _, cleanup := range a.cleanupFuncs {
		cleanup()
	}

	slog.Info("server stopped")
	return nil
}
