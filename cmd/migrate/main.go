// Package main implements the database migration utility for the pharmacy-messenger service.
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/popeskul/pharmacy-messenger/internal/config"
	"github.com/popeskul/pharmacy-messenger/internal/infrastructure/migrate"
)

const defaultMigrateSteps = 1

func main() {
	var (
		configPath     string
		migrationsPath string
		steps          int
	)

	flag.StringVar(&configPath, "config", "config.yaml", "Path to the configuration file")
	flag.StringVar(&migrationsPath, "path", "", "Path to migrations directory (overrides config)")
	flag.IntVar(&steps, "steps", defaultMigrateSteps, "Number of migrations to roll back")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() {
		_ = logger.Sync()
	}()

	args := flag.Args()
	if len(args) == 0 {
		logger.Fatal("Please specify a command: up, down, or version")
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}
	if migrationsPath == "" {
		migrationsPath = cfg.Database.MigrationsPath
	}

	runner := migrate.NewRunner(&migrate.Config{
		DatabaseURL:    cfg.Database.GetDSN(),
		MigrationsPath: migrationsPath,
	}, logger)

	switch args[0] {
	case "up":
		if err := runner.Up(); err != nil {
			logger.Fatal("Failed to run migrations up", zap.Error(err))
		}

	case "down":
		if err := runner.Down(steps); err != nil {
			logger.Fatal("Failed to run migrations down", zap.Error(err))
		}
		version, _, err := runner.Version()
		if err != nil {
			logger.Fatal("Failed to get version", zap.Error(err))
		}
		logger.Info("Rolled back migrations", zap.Int("steps", steps), zap.Uint("version", version))

	case "version":
		version, dirty, err := runner.Version()
		if err != nil {
			logger.Fatal("Failed to get version", zap.Error(err))
		}
		if dirty {
			fmt.Fprintf(os.Stdout, "Current version: %d (dirty)\n", version)
		} else {
			fmt.Fprintf(os.Stdout, "Current version: %d\n", version)
		}

	default:
		logger.Fatal("Unknown command, use 'up', 'down', or 'version'", zap.String("command", args[0]))
	}
}
