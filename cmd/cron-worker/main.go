package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/equilog/equilog-backend/internal/cron"
	"github.com/equilog/equilog-backend/internal/invites"
	"github.com/equilog/equilog-backend/internal/joinrequests"
	"github.com/equilog/equilog-backend/internal/password"
	"github.com/equilog/equilog-backend/pkg/config"
	"github.com/equilog/equilog-backend/pkg/db"
	"github.com/equilog/equilog-backend/pkg/logger"
	"github.com/equilog/equilog-backend/pkg/metrics"
	"github.com/equilog/equilog-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "equilog-cron"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "equilog-cron",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, dbClient.Close()) }()

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, redisClient.Close()) }()

	lock, err := cron.NewRedisLock(redisClient, redisClient.MaintenanceLockKey(cfg.App.Env), cfg.Maintenance.LockTTL)
	if err != nil {
		return err
	}

	conn := dbClient.DB()
	resetJob, err := cron.NewExpiredPasswordResetJob(dbClient, password.NewRepository(conn))
	if err != nil {
		return err
	}
	inviteJob, err := cron.NewStaleRequestJob(cron.JobStaleInvites, dbClient, invites.NewRepository(conn), cfg.Maintenance.RequestRetention)
	if err != nil {
		return err
	}
	joinJob, err := cron.NewStaleRequestJob(cron.JobStaleJoinRequests, dbClient, joinrequests.NewRepository(conn), cfg.Maintenance.RequestRetention)
	if err != nil {
		return err
	}

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Lock:     lock,
		Metrics:  metrics.NewJobMetrics(prometheus.DefaultRegisterer),
		Interval: cfg.Maintenance.Interval,
		Jobs:     []cron.Job{resetJob, inviteJob, joinJob},
	})
	if err != nil {
		return err
	}

	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"interval": cfg.Maintenance.Interval.String(),
	})
	logg.Info(ctx, "starting cron worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logg.Info(ctx, "cron worker shutting down")
	return nil
}
