package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/equilog/equilog-backend/pkg/config"
	"github.com/equilog/equilog-backend/pkg/db"
	"github.com/equilog/equilog-backend/pkg/logger"
	"github.com/equilog/equilog-backend/pkg/migrate"
	"github.com/joho/godotenv"
)

type migrateCommand func(ctx context.Context, m *migrate.Migrator) error

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "equilog-migrate"})

	_ = godotenv.Load()

	cmd := flag.String("cmd", "up", "migration command: up|down|redo|reset|status|version|create|validate")
	dir := flag.String("dir", migrate.DefaultDir, "goose migrations directory")
	name := flag.String("name", "", "migration name (for create)")
	version := flag.String("version", "", "target version (YYYYMMDDHHMMSS) for -cmd=version")
	fromDisk := flag.Bool("from-disk", false, "read migrations from -dir instead of the embedded set")
	flag.Parse()

	switch *cmd {
	case "create":
		if *name == "" {
			fail("missing -name for create")
		}
		path, err := migrate.Create(*dir, *name, time.Now())
		if err != nil {
			fail("failed to create migration: %v", err)
		}
		fmt.Println("created migration:", path)
		return
	case "validate":
		if err := migrate.Validate(os.DirFS(*dir)); err != nil {
			fail("migration validation failed: %v", err)
		}
		fmt.Println("migration validation passed")
		return
	}

	commands := map[string]migrateCommand{
		"up": func(ctx context.Context, m *migrate.Migrator) error {
			applied, err := m.Up(ctx)
			fmt.Println("applied versions:", applied)
			return err
		},
		"down":  func(ctx context.Context, m *migrate.Migrator) error { return m.Down(ctx) },
		"redo":  func(ctx context.Context, m *migrate.Migrator) error { return m.Redo(ctx) },
		"reset": func(ctx context.Context, m *migrate.Migrator) error { return m.Reset(ctx) },
		"status": func(ctx context.Context, m *migrate.Migrator) error {
			states, err := m.Status(ctx)
			if err != nil {
				return err
			}
			for _, s := range states {
				state := "pending"
				if s.Applied {
					state = "applied"
				}
				fmt.Printf("%d\t%-8s %s\n", s.Version, state, s.Path)
			}
			return nil
		},
		"version": func(ctx context.Context, m *migrate.Migrator) error {
			if *version == "" {
				return fmt.Errorf("missing -version for version command")
			}
			return m.To(ctx, *version)
		},
	}
	run, ok := commands[*cmd]
	if !ok {
		fail("unknown -cmd value: %s", *cmd)
	}

	app, dbCfg, err := config.LoadMigrate()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "equilog-migrate",
		Level:       logger.ParseLevel(app.LogLevel),
		Format:      app.LogFormat,
		WarnStack:   app.LogWarnStack,
	})
	ctx = logg.WithFields(ctx, map[string]any{
		"env": app.Env,
		"cmd": *cmd,
		"dir": *dir,
	})

	dbClient, err := db.New(ctx, dbCfg, logg)
	requireResource(ctx, logg, "database", err)
	defer dbClient.Close()

	sqlDB, err := dbClient.DB().DB()
	requireResource(ctx, logg, "sql database", err)

	var source fs.FS
	if *fromDisk {
		source = os.DirFS(*dir)
	}
	migrator, err := migrate.New(sqlDB, source)
	requireResource(ctx, logg, "migrator", err)

	if err := run(ctx, migrator); err != nil {
		logg.Error(ctx, "migration command failed", err)
		os.Exit(1)
	}
	logg.Info(ctx, "migration command completed")
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
