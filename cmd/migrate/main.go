package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/hoopscout/hoopscout-backend/pkg/config"
	"github.com/hoopscout/hoopscout-backend/pkg/db"
	"github.com/hoopscout/hoopscout-backend/pkg/logger"
	"github.com/hoopscout/hoopscout-backend/pkg/migrate"
)

var allowedCommands = []string{"up", "up-by-one", "down", "redo", "status", "version"}

func main() {
	cmd := flag.String("cmd", "status", "goose command to run ("+strings.Join(allowedCommands, "|")+")")
	dir := flag.String("dir", migrate.DefaultDir, "directory holding the SQL migration files")
	flag.Parse()

	logg := logger.New(logger.Options{ServiceName: "migrate"})
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		logg.Warn(ctx, ".env file not found, relying on environment")
	}

	if !isAllowed(*cmd) {
		fatal(logg, ctx, "unknown command", fmt.Errorf("%q is not one of %s", *cmd, strings.Join(allowedCommands, ", ")))
	}

	cfg, err := config.Load()
	if err != nil {
		fatal(logg, ctx, "failed to load config", err)
	}

	// The migration files use Postgres types (bigserial, jsonb, text[]).
	// The sqlite dev backend is schema-managed by auto-migration at startup.
	if cfg.FeatureFlags.UseSQLite {
		fatal(logg, ctx, "unsupported backend", fmt.Errorf("goose migrations target postgres; sqlite schemas come from dev auto-migration"))
	}

	client, err := db.New(ctx, cfg.DB, false, logg)
	if err != nil {
		fatal(logg, ctx, "failed to connect to database", err)
	}
	defer client.Close()

	sqlDB, err := client.DB().DB()
	if err != nil {
		fatal(logg, ctx, "failed to extract sql connection", err)
	}

	ctx = logg.WithFields(ctx, map[string]any{"cmd": *cmd, "dir": *dir})
	logg.Info(ctx, "running goose")

	if err := migrate.Run(ctx, sqlDB, *dir, "postgres", *cmd); err != nil {
		fatal(logg, ctx, "goose command failed", err)
	}

	logg.Info(ctx, "goose command completed")
}

func isAllowed(cmd string) bool {
	for _, c := range allowedCommands {
		if c == cmd {
			return true
		}
	}
	return false
}

func fatal(logg *logger.Logger, ctx context.Context, msg string, err error) {
	logg.Error(ctx, msg, err)
	os.Exit(1)
}
