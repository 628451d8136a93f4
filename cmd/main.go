package main

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

	"github.com/Ruben10-R/pro-league/config"
	"github.com/Ruben10-R/pro-league/db"
	"github.com/Ruben10-R/pro-league/handlers"
	"github.com/Ruben10-R/pro-league/live"
	"github.com/Ruben10-R/pro-league/middleware"
	"github.com/Ruben10-R/pro-league/repositories"
	api "github.com/Ruben10-R/pro-league/routes"
	"github.com/Ruben10-R/pro-league/services"
	"github.com/Ruben10-R/pro-league/storage"
	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
)

// How often expired auth tokens are swept from the store.
const tokenSweepInterval = 1 * time.Hour

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	uploader := storage.NewDisabledUploader()
	if cfg.R2Configured() {
		uploader, err = storage.NewR2Uploader(context.Background(), storage.R2Config{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("R2 uploader initialized")
	} else {
		logger.Warn("object storage not configured, logo uploads disabled")
	}

	hub := live.NewHub(logger)
	go hub.Run()
	logger.Info("event hub started")

	userRepo := repositories.NewPostgresUserRepository(dbConn)
	tokenRepo := repositories.NewPostgresTokenRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	participantRepo := repositories.NewPostgresParticipantRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	transactor := repositories.NewSQLTransactor(dbConn)
	logger.Info("repositories initialized")

	authService := services.NewAuthService(userRepo, tokenRepo, cfg.JWTSecretKey, cfg.TokenTTL)
	userService := services.NewUserService(userRepo)
	teamService := services.NewTeamService(teamRepo, userRepo, transactor, uploader)
	tournamentService := services.NewTournamentService(tournamentRepo, participantRepo, matchRepo, userRepo, teamRepo, hub)
	participantService := services.NewParticipantService(participantRepo, tournamentRepo, userRepo, teamRepo, transactor, hub)
	matchService := services.NewMatchService(matchRepo, tournamentRepo, participantRepo, userRepo, teamRepo, hub)
	logger.Info("services initialized")

	// Sweep expired tokens so the auth_tokens table does not grow
	// without bound.
	go func() {
		ticker := time.NewTicker(tokenSweepInterval)
		defer ticker.Stop()
		for range ticker.C {
			count, err := authService.SweepExpiredTokens(context.Background())
			if err != nil {
				logger.Error("expired token sweep failed", slog.Any("error", err))
				continue
			}
			if count > 0 {
				logger.Info("expired tokens swept", slog.Int64("count", count))
			}
		}
	}()

	authenticator := middleware.NewAuthenticator(authService)

	router := chi.NewRouter()
	api.SetupRoutes(router, api.Handlers{
		Auth:        handlers.NewAuthHandler(authService),
		Profile:     handlers.NewProfileHandler(userService),
		Tournament:  handlers.NewTournamentHandler(tournamentService),
		Team:        handlers.NewTeamHandler(teamService),
		Participant: handlers.NewParticipantHandler(participantService),
		Match:       handlers.NewMatchHandler(matchService),
		WebSocket:   handlers.NewWebSocketHandler(hub, tournamentService),
	}, authenticator, cfg.CORSAllowedOrigins)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}
