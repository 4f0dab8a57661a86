package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"campgrounds/internal/config"
	"campgrounds/internal/domain"
	"campgrounds/internal/handler"
	"campgrounds/internal/middleware"
	"campgrounds/internal/observability"
	"campgrounds/internal/render"
	"campgrounds/internal/repository/postgres"
	"campgrounds/internal/security"
	"campgrounds/internal/service"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := config.Load()

	observability.InitLogger(cfg.LogLevel, cfg.LogFormat)

	slog.Info("starting campgrounds server")

	connCtx, connCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer connCancel()

	db, err := config.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer db.Close()

	if err := db.PingContext(connCtx); err != nil {
		slog.Error("database ping failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	slog.Info("connected to postgresql")

	if err := config.RunMigrations(connCtx, db); err != nil {
		slog.Error("migrations failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	slog.Info("database migrations applied")

	userRepo := postgres.NewUserRepository(db)
	sessionRepo, err := postgres.NewSessionRepository(db)
	if err != nil {
		slog.Error("failed to prepare session statements", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer sessionRepo.Close()
	campgroundRepo := postgres.NewCampgroundRepository(db)
	reviewRepo := postgres.NewReviewRepository(db)

	sessionService := service.NewSessionService(sessionRepo)
	authService := service.NewAuthService(userRepo)
	campgroundService := service.NewCampgroundService(campgroundRepo, reviewRepo)
	reviewService := service.NewReviewService(reviewRepo)

	renderer, err := render.New()
	if err != nil {
		slog.Error("failed to parse templates", slog.String("error", err.Error()))
		os.Exit(1)
	}

	signer := security.NewCookieSigner(cfg.SessionSecret)
	sessionManager := middleware.NewSessionManager(sessionService, userRepo, signer, renderer, cfg.IsProduction())
	guard := middleware.NewGuard(sessionService, campgroundRepo, reviewRepo, renderer)

	authHandler := handler.NewAuthHandler(authService, sessionService, sessionManager, renderer)
	campgroundHandler := handler.NewCampgroundHandler(campgroundService, sessionService, renderer)
	reviewHandler := handler.NewReviewHandler(reviewService, sessionService, renderer)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go startSessionCleanup(ctx, sessionRepo)
	slog.Info("session cleanup task started")

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.MethodOverride)
	r.Use(middleware.Metrics())

	r.Get("/health", handler.Health)
	r.Get("/health/ready", handler.Ready(db))
	r.Handle("/metrics", promhttp.Handler())

	authLimiter := middleware.NewRateLimiter(ctx, 5, 10)
	pageLimiter := middleware.NewRateLimiter(ctx, 20, 50)

	r.Group(func(r chi.Router) {
		r.Use(pageLimiter.Middleware())
		r.Use(sessionManager.Middleware())
		r.Use(middleware.CSRF(renderer))

		r.Get("/", handler.Home(sessionService, renderer))

		r.Get("/register", authHandler.RegisterForm)
		r.Get("/login", authHandler.LoginForm)

		r.Group(func(r chi.Router) {
			r.Use(authLimiter.Middleware())
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
		})
		r.Post("/logout", authHandler.Logout)
		r.Get("/logout", authHandler.Logout)

		r.Route("/campgrounds", func(r chi.Router) {
			r.Get("/", campgroundHandler.Index)
			r.With(guard.RequireLogin).Get("/new", campgroundHandler.New)
			r.With(guard.RequireLogin).Post("/", campgroundHandler.Create)

			r.Route("/{campgroundID}", func(r chi.Router) {
				r.Get("/", campgroundHandler.Show)

				r.Group(func(r chi.Router) {
					r.Use(guard.RequireCampgroundOwner)
					r.Get("/edit", campgroundHandler.Edit)
					r.Put("/", campgroundHandler.Update)
					r.Delete("/", campgroundHandler.Delete)
				})

				r.With(guard.RequireLogin).Post("/reviews", reviewHandler.Create)
				r.With(guard.RequireReviewAuthor).
					Delete("/reviews/{reviewID}", reviewHandler.Delete)
			})
		})

		r.NotFound(renderer.NotFound)
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("campgrounds server listening", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	slog.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", slog.String("error", err.Error()))
	}

	cancel()

	slog.Info("server stopped gracefully")
}

// startSessionCleanup runs a background task to delete expired sessions
func startSessionCleanup(ctx context.Context, repo domain.SessionRepository) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("stopping session cleanup task")
			return
		case <-ticker.C:
			cleanupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			count, err := repo.DeleteExpired(cleanupCtx)
			if err != nil {
				slog.Error("session cleanup failed", slog.String("error", err.Error()))
			} else {
				observability.SessionsExpiredTotal.Add(float64(count))
				slog.Info("session cleanup completed",
					slog.Int64("sessions_deleted", count))
			}
			cancel()
		}
	}
}
