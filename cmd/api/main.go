package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/multierr"

	"github.com/equilog/equilog-backend/api"
	"github.com/equilog/equilog-backend/api/controllers"
	"github.com/equilog/equilog-backend/api/routes"
	"github.com/equilog/equilog-backend/internal/auth"
	"github.com/equilog/equilog-backend/internal/calendar"
	"github.com/equilog/equilog-backend/internal/comments"
	"github.com/equilog/equilog-backend/internal/compositions"
	"github.com/equilog/equilog-backend/internal/email"
	"github.com/equilog/equilog-backend/internal/horses"
	"github.com/equilog/equilog-backend/internal/invites"
	"github.com/equilog/equilog-backend/internal/joinrequests"
	"github.com/equilog/equilog-backend/internal/memberships"
	"github.com/equilog/equilog-backend/internal/password"
	"github.com/equilog/equilog-backend/internal/posts"
	"github.com/equilog/equilog-backend/internal/stables"
	"github.com/equilog/equilog-backend/internal/users"
	"github.com/equilog/equilog-backend/pkg/auth/session"
	"github.com/equilog/equilog-backend/pkg/config"
	"github.com/equilog/equilog-backend/pkg/db"
	"github.com/equilog/equilog-backend/pkg/logger"
	"github.com/equilog/equilog-backend/pkg/metrics"
	"github.com/equilog/equilog-backend/pkg/migrate"
	"github.com/equilog/equilog-backend/pkg/redis"
	"github.com/equilog/equilog-backend/pkg/storage/blob"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "equilog-api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "equilog-api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      logFormat(cfg.App),
		WarnStack:   cfg.App.LogWarnStack,
	})

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
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

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, redisClient.Close()) }()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	compositionMetrics := metrics.NewCompositionMetrics(registry)

	health := map[string]controllers.Pinger{"db": dbClient, "redis": redisClient}

	blobClient, blobErr := blob.NewClient(ctx, cfg.Blob)
	if blobErr != nil {
		logg.Error(ctx, "blob storage unavailable, profile pictures disabled", blobErr)
		blobClient = nil
	} else {
		health["blob"] = blobClient
	}

	mailer, err := newMailer(cfg, logg)
	if err != nil {
		return err
	}

	conn := dbClient.DB()
	userRepo := users.NewRepository(conn)
	membershipRepo := memberships.NewRepository(conn)

	membershipSvc, err := memberships.NewService(membershipRepo)
	if err != nil {
		return err
	}
	userSvc, err := users.NewService(userRepo, membershipRepo)
	if err != nil {
		return err
	}
	stableSvc, err := stables.NewService(stables.NewRepository(conn))
	if err != nil {
		return err
	}
	horseSvc, err := horses.NewService(horses.NewRepository(conn))
	if err != nil {
		return err
	}
	postSvc, err := posts.NewService(posts.NewRepository(conn))
	if err != nil {
		return err
	}
	commentSvc, err := comments.NewService(comments.NewRepository(conn))
	if err != nil {
		return err
	}
	calendarSvc, err := calendar.NewService(calendar.NewRepository(conn))
	if err != nil {
		return err
	}
	inviteSvc, err := invites.NewService(invites.NewRepository(conn), dbClient)
	if err != nil {
		return err
	}
	joinRequestSvc, err := joinrequests.NewService(joinrequests.NewRepository(conn), dbClient)
	if err != nil {
		return err
	}
	passwordSvc, err := password.NewService(password.NewRepository(conn), userRepo, cfg.Password, cfg.PasswordReset)
	if err != nil {
		return err
	}
	authSvc, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessionManager,
		Mailer:         mailer,
		Logger:         logg,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		return err
	}

	params := compositions.Params{
		Ownership:    membershipRepo,
		Memberships:  membershipSvc,
		Stables:      stableSvc,
		Users:        userSvc,
		Horses:       horseSvc,
		Comments:     commentSvc,
		Passwords:    passwordSvc,
		Mailer:       mailer,
		ResetBaseURL: cfg.PasswordReset.BaseURL,
		Metrics:      compositionMetrics,
		Logger:       logg,
	}
	if blobClient != nil {
		params.Blob = blobClient
	}
	if cfg.FeatureFlags.StableLocks {
		locker, err := compositions.NewRedisStableLocker(redisClient, cfg.Locks.TTL)
		if err != nil {
			return err
		}
		params.Locker = locker
	}
	composer, err := compositions.NewService(params)
	if err != nil {
		return err
	}

	deps := routes.Deps{
		Config:       cfg,
		Logger:       logg,
		Health:       health,
		Sessions:     sessionManager,
		Redis:        redisClient,
		Metrics:      promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		Auth:         authSvc,
		Users:        userSvc,
		Stables:      stableSvc,
		Horses:       horseSvc,
		Memberships:  membershipSvc,
		Posts:        postSvc,
		Comments:     commentSvc,
		Calendar:     calendarSvc,
		Invites:      inviteSvc,
		JoinRequests: joinRequestSvc,
		Passwords:    passwordSvc,
		Compositions: composer,
	}
	if blobClient != nil {
		deps.Blob = blobClient
	}

	server := api.NewServer(cfg, routes.NewRouter(deps))

	logCtx := logg.WithFields(ctx, map[string]any{
		"env":          cfg.App.Env,
		"addr":         server.Addr,
		"stable_locks": cfg.FeatureFlags.StableLocks,
	})
	logg.Info(logCtx, "starting api server")

	serveErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logg.Info(logCtx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// newMailer picks SendGrid when emails are enabled and a key is configured,
// and otherwise logs messages instead of sending them.
func newMailer(cfg *config.Config, logg *logger.Logger) (email.Sender, error) {
	if !cfg.FeatureFlags.SendEmails || cfg.Sendgrid.APIKey == "" {
		logg.Warn(context.Background(), "email delivery disabled, using log sender")
		return email.NewLogSender(logg), nil
	}
	return email.NewSendGridSender(cfg.Sendgrid)
}

// logFormat pins production to JSON output regardless of EQUILOG_LOG_FORMAT.
func logFormat(app config.AppConfig) string {
	if app.IsProd() {
		return logger.FormatJSON
	}
	return app.LogFormat
}
