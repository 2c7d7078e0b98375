package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"saas_admin/internal/app"
	"saas_admin/internal/auth"
	"saas_admin/internal/config"
	"saas_admin/internal/db"
	"saas_admin/internal/events"
	httpserver "saas_admin/internal/http"
	"saas_admin/internal/mediator"
	"saas_admin/internal/platform/logger"
	"saas_admin/internal/repos"
	"saas_admin/internal/scheduler"
	"saas_admin/internal/seed"
	"saas_admin/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer log.Sync()
	for _, n := range cfg.Notes {
		log.Info(n)
	}
	if cfg.LogMode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal("server stopped", "error", err)
	}
	log.Info("server stopped")
}

func run(ctx context.Context, cfg config.Config, log *logger.Logger) error {
	gdb, err := db.Connect(db.Options{Driver: cfg.DBDriver, DSN: cfg.DSN}, log)
	if err != nil {
		return err
	}
	defer db.Close(gdb)
	if err := db.Migrate(gdb); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	publisher, err := newPublisher(cfg, log)
	if err != nil {
		return err
	}
	defer publisher.Close()

	var rdb *redis.Client
	var denylist auth.Denylist = auth.NewMemoryDenylist()
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis ping: %w", err)
		}
		denylist = auth.NewRedisDenylist(rdb)
		log.Info("token denylist backed by redis", "addr", cfg.RedisAddr)
	}

	store, closeStore, err := newStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	r := repos.NewRepos(repos.Deps{DB: gdb, Log: log, Publisher: publisher})
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)

	m := mediator.New(mediator.Cancellation(), mediator.Logging(log))
	app.Register(m, app.Deps{
		Repos:    r,
		Tokens:   tokens,
		Denylist: denylist,
		Store:    store,
		Log:      log,
		Settings: app.Settings{
			MaxFailedLogins: cfg.MaxFailedLogins,
			LockoutDuration: cfg.LockoutDuration,
			InvitationTTL:   cfg.InvitationTTL,
			MediaMaxBytes:   cfg.MediaMaxBytes,
		},
	})

	if cfg.SeedOnStart {
		if _, err := seed.FirstSetup(ctx, r, seed.Options{
			AdminEmail:    cfg.SeedAdminEmail,
			AdminPassword: cfg.SeedAdminPassword,
		}, log); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}

	var sched *scheduler.Scheduler
	if cfg.SchedulerEnabled {
		sched = scheduler.New(m, log)
		if err := sched.AddContentPublishing(cfg.ContentPublishSchedule); err != nil {
			return err
		}
		sched.Start()
	}

	deps := httpserver.Deps{
		Mediator:      m,
		Repos:         r,
		Tokens:        tokens,
		Denylist:      denylist,
		Log:           log,
		CORSOrigins:   cfg.CORSOrigins,
		SecureCookies: cfg.LogMode == "production",
		Health:        healthCheck(gdb, rdb),
	}
	if cfg.MediaStorage == "local" {
		deps.MediaDir = cfg.MediaDir
		deps.MediaURL = cfg.MediaBaseURL
	}

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           httpserver.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if sched != nil {
			sched.Stop(shutdownCtx)
		}
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func newPublisher(cfg config.Config, log *logger.Logger) (events.Publisher, error) {
	logPub := events.NewLogPublisher(log)
	if cfg.RabbitMQURL == "" {
		return logPub, nil
	}
	amqpPub, err := events.NewAMQPPublisher(cfg.RabbitMQURL, cfg.EventsExchange, log)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq: %w", err)
	}
	return events.Multi{logPub, amqpPub}, nil
}

func newStore(ctx context.Context, cfg config.Config) (storage.Store, func(), error) {
	if cfg.MediaStorage == "gcs" {
		s, err := storage.NewGCSStore(ctx, cfg.GCSBucket, cfg.StoreBaseURL())
		if err != nil {
			return nil, nil, fmt.Errorf("gcs: %w", err)
		}
		return s, func() { _ = s.Close() }, nil
	}
	s, err := storage.NewLocalStore(cfg.MediaDir, cfg.StoreBaseURL())
	if err != nil {
		return nil, nil, fmt.Errorf("media dir: %w", err)
	}
	return s, func() {}, nil
}

func healthCheck(gdb *gorm.DB, rdb *redis.Client) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		sqlDB, err := gdb.DB()
		if err != nil {
			return err
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			return fmt.Errorf("database: %w", err)
		}
		if rdb != nil {
			if err := rdb.Ping(ctx).Err(); err != nil {
				return fmt.Errorf("redis: %w", err)
			}
		}
		return nil
	}
}
