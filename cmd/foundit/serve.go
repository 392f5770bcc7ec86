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

	"github.com/spf13/cobra"

	"github.com/foundit-unsri/foundit/internal/api"
	"github.com/foundit-unsri/foundit/internal/auth"
	"github.com/foundit-unsri/foundit/internal/config"
	"github.com/foundit-unsri/foundit/internal/item"
	"github.com/foundit-unsri/foundit/internal/session"
	"github.com/foundit-unsri/foundit/internal/store"
	"github.com/foundit-unsri/foundit/internal/upload"
	"github.com/foundit-unsri/foundit/internal/web"
)

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, closeLog, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			defer closeLog()
			return serve(cmd.Context(), cfg)
		},
	}
}

func serve(ctx context.Context, cfg config.Config) error {
	database, err := openDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer database.Close()

	// Without a configured secret, a generated one is kept in the database so
	// sessions survive restarts.
	secret := cfg.Session.Secret
	if secret == "" {
		secret, err = store.GetSessionSecret(ctx, database)
		if err != nil {
			return fmt.Errorf("loading session secret: %w", err)
		}
		slog.Info("using session secret stored in database")
	}

	var sessionStore session.Store
	switch cfg.Session.Store {
	case "redis":
		client, err := session.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return err
		}
		defer client.Close()
		sessionStore = session.NewRedisStore(client)
		slog.Info("sessions stored in redis", "addr", cfg.Redis.Addr)
	default:
		sessionStore = session.NewSQLStore(database)
	}

	sessions := session.NewManager(sessionStore, secret, cfg.Session.TTL)
	sessions.Secure = cfg.Session.CookieSecure

	authService := auth.NewService(database, sessions)
	authService.Cost = cfg.BcryptCost

	uploads, err := upload.New(cfg.UploadDir)
	if err != nil {
		return err
	}
	items := item.NewService(database, uploads)

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	webRouter, err := web.NewRouter(&web.Server{
		Items:          items,
		Auth:           authService,
		Sessions:       sessions,
		Uploads:        uploads,
		Location:       loc,
		MaxUploadBytes: cfg.MaxUploadBytes(),
	})
	if err != nil {
		return fmt.Errorf("setting up web router: %w", err)
	}
	apiRouter := api.NewRouter(database, items, authService, cfg.RegistrationEnabled)

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           api.LoggingMiddleware(newHandler(apiRouter, webRouter)),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	go func() {
		sig := <-quit
		slog.Info("shutdown signal received", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			slog.Error("server forced to shutdown", "error", err)
		}
	}()

	slog.Info("server started", "addr", server.Addr, "uploads", cfg.UploadDir, "registration", cfg.RegistrationEnabled)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}

	slog.Info("server stopped, closing database")
	return nil
}

// newHandler combines the routers: JSON endpoints take their paths, web
// pages handle the rest.
func newHandler(apiRouter, webRouter http.Handler) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/api/", apiRouter)
	mux.Handle("/register", apiRouter)
	mux.Handle("/healthz", apiRouter)
	mux.Handle("/", webRouter)
	return mux
}
