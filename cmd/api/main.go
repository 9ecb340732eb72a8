package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/WailSalutem-Health-Care/membership-service/internal/auth"
	"github.com/WailSalutem-Health-Care/membership-service/internal/config"
	"github.com/WailSalutem-Health-Care/membership-service/internal/db"
	apphttp "github.com/WailSalutem-Health-Care/membership-service/internal/http"
	"github.com/WailSalutem-Health-Care/membership-service/internal/logger"
	"github.com/WailSalutem-Health-Care/membership-service/internal/messaging"
	"github.com/WailSalutem-Health-Care/membership-service/internal/telemetry"
	"github.com/sirupsen/logrus"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(logger.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	logrus.Info("membership-service starting")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var metrics *telemetry.Metrics
	if cfg.Telemetry.Enabled {
		provider, err := telemetry.InitProvider(ctx, telemetry.FromConfig(cfg.Telemetry))
		if err != nil {
			logrus.WithError(err).Warn("Telemetry disabled: provider init failed")
		} else {
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := provider.Shutdown(shutdownCtx); err != nil {
					logrus.WithError(err).Warn("Telemetry shutdown failed")
				}
			}()

			if metrics, err = telemetry.InitMetrics(); err != nil {
				logrus.WithError(err).Warn("Metrics disabled")
				metrics = nil
			}
		}
	}

	conn, err := db.Connect(ctx, cfg.Database)
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer conn.Close()

	if cfg.Database.MigrateOnStart {
		if err := db.RunMigrations(conn, "up"); err != nil {
			logrus.Fatalf("Failed to run migrations: %v", err)
		}
	}

	perms, err := auth.LoadPermissions(cfg.Auth.PermissionsFile)
	if err != nil {
		logrus.Fatalf("Failed to load permissions: %v", err)
	}

	authCfg := auth.FromConfig(cfg.Auth)
	jwks, err := auth.NewJWKS(authCfg.JWKSURL, 10*time.Minute)
	if err != nil {
		logrus.Fatalf("Failed to initialize JWKS: %v", err)
	}
	defer jwks.Close()
	verifier := auth.NewVerifier(authCfg, jwks)

	var publisher messaging.PublisherInterface = messaging.NoopPublisher{}
	if cfg.RabbitMQ.Enabled {
		p, err := messaging.NewPublisher(cfg.RabbitMQ.URL)
		if err != nil {
			logrus.WithError(err).Warn("RabbitMQ unavailable, events will not be published")
		} else {
			publisher = p
		}
	}
	defer publisher.Close()

	deps := apphttp.Deps{
		DB:          conn,
		Verifier:    verifier,
		Permissions: perms,
		Publisher:   publisher,
		Metrics:     metrics,
	}
	if cfg.Telemetry.Enabled {
		deps.ServiceName = cfg.Telemetry.ServiceName
	}
	router := apphttp.SetupRouter(deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      apphttp.CORSMiddleware(cfg.Server.AllowedOrigins)(router),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logrus.WithField("addr", srv.Addr).Info("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("HTTP server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logrus.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Graceful shutdown failed")
	}
}
