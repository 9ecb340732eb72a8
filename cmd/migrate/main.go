package main

import (
	"context"
	"flag"
	"time"

	"github.com/WailSalutem-Health-Care/membership-service/internal/config"
	"github.com/WailSalutem-Health-Care/membership-service/internal/db"
	"github.com/WailSalutem-Health-Care/membership-service/internal/logger"
	"github.com/sirupsen/logrus"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml")
	flag.Parse()

	direction := flag.Arg(0)
	if direction == "" {
		direction = "up"
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	logger.Init(logger.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	conn, err := db.Connect(ctx, cfg.Database)
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer conn.Close()

	switch direction {
	case "up", "down":
		if err := db.RunMigrations(conn, direction); err != nil {
			logrus.Fatalf("Migration failed: %v", err)
		}
	case "version":
	default:
		logrus.Fatalf("Unknown command %q (want up, down or version)", direction)
	}

	version, dirty, err := db.MigrationVersion(conn)
	if err != nil {
		logrus.Fatalf("Failed to read schema version: %v", err)
	}
	logrus.WithFields(logrus.Fields{"version": version, "dirty": dirty}).Info("Schema version")
}
