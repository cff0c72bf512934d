package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/angelmondragon/phonedex-backend/pkg/config"
	"github.com/angelmondragon/phonedex-backend/pkg/db"
	"github.com/angelmondragon/phonedex-backend/pkg/logger"
	"github.com/angelmondragon/phonedex-backend/pkg/migrate"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "migrate"})

	_ = godotenv.Load()

	cmd := flag.String("cmd", "up", "migration command: up|down|status|version|create|validate")
	dir := flag.String("dir", "", "migrations directory; empty uses the embedded set ("+migrate.DefaultDir+" for create)")
	name := flag.String("name", "", "migration name (for create)")
	version := flag.String("version", "", "target version (YYYYMMDDHHMMSS) for -cmd=version")
	flag.Parse()

	// create and validate only touch the migrations directory
	switch *cmd {
	case "create":
		if *name == "" {
			fail("missing -name for create")
		}
		target := *dir
		if target == "" {
			target = migrate.DefaultDir
		}
		path, err := migrate.CreateSQLMigration(target, *name)
		if err != nil {
			fail(fmt.Sprintf("failed to create migration: %v", err))
		}
		fmt.Println("created migration:", path)
		return

	case "validate":
		validate := migrate.ValidateEmbedded
		if *dir != "" {
			validate = func() error { return migrate.ValidateDir(*dir) }
		}
		if err := validate(); err != nil {
			fail(fmt.Sprintf("migration validation failed: %v", err))
		}
		fmt.Println("migration validation passed")
		return
	}

	cfg, err := config.Load()
	requireResource(context.Background(), logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
	})
	src := migrate.Source{Dir: *dir}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":    cfg.App.Env,
		"cmd":    *cmd,
		"source": src.String(),
	})

	if cfg.DB.UsesSQLite() {
		fail("goose migrations target postgres; sqlite databases are built with PHONEDEX_AUTO_MIGRATE=true in dev")
	}

	dbClient, err := db.New(ctx, cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer dbClient.Close()

	sqlDB, err := dbClient.DB().DB()
	requireResource(ctx, logg, "sql database", err)

	logg.Info(ctx, "migrate ready")

	switch *cmd {
	case "up", "down", "status":
		err = migrate.Run(ctx, sqlDB, src, *cmd)
	case "version":
		if *version == "" {
			fail("missing -version for version command")
		}
		err = migrate.MigrateToVersion(ctx, sqlDB, src, *version)
	default:
		fail(fmt.Sprintf("unknown -cmd value: %s", *cmd))
	}
	if err != nil {
		logg.Error(ctx, "migration failed", err)
		os.Exit(1)
	}
	logg.Info(ctx, "migration finished")
}

func fail(msg string) {
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
