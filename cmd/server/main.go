package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"checkers/internal/app"
	"checkers/internal/config"
	"checkers/internal/httpapi"
	"checkers/internal/logging"
	"checkers/internal/ports"
	"checkers/internal/store"
	"checkers/internal/ws"
)

func main() {
	logging.Init(os.Getenv("ENV") != "production")
	defer logging.Sync()
	logger := logging.L()

	cfg, err := config.Load(config.PathFromEnv())
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	matchStore := store.NewMatchStore(pool)
	moveStore := store.NewMoveStore(pool)
	auth := ports.NewJWTAuth(cfg.JWTSecret)
	matchmaker := app.NewMatchmaker(matchStore, cfg.StaleWaiterHorizon)
	sessions := ws.NewSessionManager()
	session := &ws.GameSession{
		Auth:     auth,
		Matches:  matchStore,
		Moves:    moveStore,
		Sessions: sessions,
	}

	router := httpapi.NewRouter(matchmaker, auth, session)

	httpServer := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("server starting", zap.String("addr", cfg.HTTPAddr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("http server error", zap.Error(err))
		}
	}()

	sig := <-sigChan
	logger.Info("shutdown signal received", zap.String("signal", sig.String()))
	gracefulShutdown(httpServer, sessions)
}

// gracefulShutdown closes every open match room so no websocket is left
// dangling, then stops accepting new connections and closes the listener.
// No server-side move timeout fires a forfeit.
func gracefulShutdown(httpServer *http.Server, sessions *ws.SessionManager) {
	logger := logging.L()
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	logger.Info("closing open match rooms")
	sessions.Drain()

	logger.Info("stopping http listener")
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Warn("http server shutdown error", zap.Error(err))
	}
	logger.Info("server offline")
}
