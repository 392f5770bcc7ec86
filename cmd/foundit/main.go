// Command foundit runs the lost-and-found web application.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/foundit-unsri/foundit/internal/config"
	"github.com/foundit-unsri/foundit/internal/db"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "foundit",
		Short: "Lost-and-found listings for campus staff",
		Long: `foundit serves a public list of found items and a staff dashboard
for managing them.

Configuration is read from foundit.yaml (or --config), then .env, then
the environment.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default: foundit.yaml if present)")

	root.AddCommand(newServeCmd(&configPath))
	root.AddCommand(newUseraddCmd(&configPath))
	return root
}

// loadConfig reads the configuration and sets up logging. The returned
// cleanup closes the log file, if any.
func loadConfig(path string) (config.Config, func(), error) {
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, nil, err
	}
	closeLog, err := setupLogger(cfg.Log)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, closeLog, nil
}

// openDatabase opens the configured database and ensures the schema exists.
func openDatabase(ctx context.Context, cfg config.DBConfig) (*sql.DB, error) {
	database, err := db.Open(cfg.Driver, cfg.DSN())
	if err != nil {
		return nil, err
	}
	if err := db.EnsureSchema(database, cfg.Driver); err != nil {
		database.Close()
		return nil, fmt.Errorf("ensuring schema: %w", err)
	}
	if err := database.PingContext(ctx); err != nil {
		database.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	slog.Info("database ready", "driver", cfg.Driver, "dsn", cfg.Redacted())
	return database, nil
}
