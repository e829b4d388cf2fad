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

	"horoscope-api/internal/config"
	"horoscope-api/internal/database"
	"horoscope-api/internal/event"
	"horoscope-api/internal/handler"
	"horoscope-api/internal/middleware"
	"horoscope-api/internal/oauth"
	"horoscope-api/internal/repository"
	"horoscope-api/internal/router"
	"horoscope-api/internal/service"
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
	journalRepo := repository.NewJournalRepository(pool)
	tarotRepo := repository.NewTarotRepository(pool)
	slog.Info("database ready")

	googleVerifier := oauth.NewGoogleVerifier(cfg.GoogleClientID)

	bus := event.NewBus()
	events, unsubscribe := bus.Subscribe()
	go func() {
		// Audit trail for account activity; a push-notification dispatcher
		// would subscribe here too.
		for e := range events {
			slog.Info("event", "type", e.Type, "actor", e.ActorID)
		}
	}()

	authService, err := service.NewAuthService(
		cfg.JWTSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL, cfg.PasswordMinLength,
		userRepo, tokenRepo, googleVerifier, bus)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize auth service: %w", err)
	}
	authMiddleware := middleware.NewAuthMiddleware(authService)
	authHandler := handler.NewAuthHandler(authService)

	userService := service.NewUserService(userRepo)
	userHandler := handler.NewUserHandler(userService)
	horoscopeService := service.NewHoroscopeService()
	horoscopeHandler := handler.NewHoroscopeHandler(horoscopeService)
	journalService := service.NewJournalService(journalRepo, bus)
	journalHandler := handler.NewJournalHandler(journalService)
	tarotService := service.NewTarotService(tarotRepo, bus)
	tarotHandler := handler.NewTarotHandler(tarotService)
	subscriptionService := service.NewSubscriptionService(userRepo, bus)
	subscriptionHandler := handler.NewSubscriptionHandler(subscriptionService)
	moonService := service.NewMoonService()
	moonHandler := handler.NewMoonHandler(moonService)
	numerologyService := service.NewNumerologyService(userRepo)
	numerologyHandler := handler.NewNumerologyHandler(numerologyService)

	janitorCtx, stopJanitor := context.WithCancel(context.Background())
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-janitorCtx.Done():
				return
			case <-ticker.C:
				n, cleanErr := tokenRepo.CleanExpired(janitorCtx)
				if cleanErr != nil {
					slog.Warn("refresh token cleanup failed", "error", cleanErr)
				} else if n > 0 {
					slog.Info("expired refresh tokens removed", "count", n)
				}
			}
		}
	}()

	appRouter := router.New(cfg, authMiddleware, router.Handlers{
		Auth:         authHandler,
		User:         userHandler,
		Horoscope:    horoscopeHandler,
		Journal:      journalHandler,
		Tarot:        tarotHandler,
		Subscription: subscriptionHandler,
		Moon:         moonHandler,
		Numerology:   numerologyHandler,
	})

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
			stopJanitor,
			unsubscribe,
			db.Close,
		},
	}, nil
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
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	// Run cleanup functions after in-flight requests drain.
	for _, cleanup := range a.cleanupFuncs {
		cleanup()
	}

	slog.Info("server stopped")
	return nil
}
