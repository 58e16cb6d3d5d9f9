package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"

	"stowage/internal/config"
	"stowage/internal/logger"
)

const usage = "Usage: migrate [up|down|steps N|version|force V]"

func main() {
	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logg, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() { _ = logg.Sync() }()

	source := os.Getenv("STOWAGE_MIGRATIONS_DIR")
	if source == "" {
		source = "db/migrations"
	}

	m, err := migrate.New("file://"+source, cfg.DB.DSN())
	if err != nil {
		logg.Fatal("failed to create migrate instance", zap.String("source", source), zap.Error(err))
	}
	defer m.Close()

	if err := runCommand(m, os.Args[1:], logg); err != nil {
		logg.Fatal("migration failed", zap.String("command", os.Args[1]), zap.Error(err))
	}
}

func runCommand(m *migrate.Migrate, args []string, logg *zap.Logger) error {
	switch args[0] {
	case "up":
		if err := ignoreNoChange(m.Up()); err != nil {
			return err
		}
		logg.Info("audit schema migrated up")

	case "down":
		if err := ignoreNoChange(m.Down()); err != nil {
			return err
		}
		logg.Info("audit schema migrated down")

	case "steps", "force":
		if len(args) < 2 {
			return fmt.Errorf("%s requires a number argument", args[0])
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid %s argument: %w", args[0], err)
		}
		if args[0] == "force" {
			if err := m.Force(n); err != nil {
				return err
			}
			logg.Info("forced schema version", zap.Int("version", n))
			return nil
		}
		if err := ignoreNoChange(m.Steps(n)); err != nil {
			return err
		}
		logg.Info("applied migration steps", zap.Int("steps", n))

	case "version":
		version, dirty, err := m.Version()
		if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
			return err
		}
		fmt.Printf("version: %d, dirty: %v\n", version, dirty)

	default:
		return fmt.Errorf("unknown command %q; %s", args[0], usage)
	}
	return nil
}

func ignoreNoChange(err error) error {
	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	return err
}
