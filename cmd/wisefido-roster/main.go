package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wisefido-roster/internal/config"
	"wisefido-roster/internal/database"
	httpapi "wisefido-roster/internal/http"
	"wisefido-roster/internal/notify"
	"wisefido-roster/internal/repository"
	"wisefido-roster/internal/service"
	"wisefido-roster/internal/store"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	logger := newLogger(cfg)
	defer logger.Sync()

	var (
		db           *sql.DB
		rosterRepo   repository.RosterRepository
		scheduleRepo repository.ScheduleRepository
	)
	if cfg.DBEnabled {
		if d, err := database.NewPostgresDB(&cfg.Database); err == nil {
			db = d
			logger.Info("DB enabled for wisefido-roster")
		} else {
			logger.Warn("DB enabled but connection failed, falling back to in-memory roster", zap.Error(err))
		}
	}
	if db != nil {
		rosterRepo = repository.NewPostgresRosterRepository(db)
		scheduleRepo = repository.NewPostgresScheduleRepository(db)
	} else {
		// DB 未就绪：内存 repo + 默认五人编制，生成接口可以直接联调
		mem := repository.NewMemoryRosterRepository()
		mem.SeedDefaultRoster()
		rosterRepo = mem
		scheduleRepo = repository.NewMemoryScheduleRepository()
	}

	var kv store.KV
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		kv = store.NewRedisKV(redisClient)
	}

	var webhook *notify.Webhook
	if cfg.Schedule.WebhookURL != "" {
		webhook = notify.NewWebhook(cfg.Schedule.WebhookURL, logger)
	}

	rosterSvc := service.NewRosterService(rosterRepo, logger)
	scheduleSvc := service.NewScheduleService(
		rosterRepo, scheduleRepo, kv, webhook,
		cfg.Schedule.DefaultWeeks, cfg.Schedule.CacheTTL, logger,
	)

	router := httpapi.NewRouter(logger)
	router.RegisterHealthRoute()
	router.RegisterRosterRoutes(httpapi.NewRosterHandler(rosterSvc, logger))
	router.RegisterScheduleRoutes(httpapi.NewScheduleHandler(scheduleSvc, logger))

	srv := service.NewServer(cfg.HTTP.Addr, router, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		cancel()
	case <-errCh:
		cancel()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 5*time.Second)
	defer shutdownCancel()
	_ = srv.Stop(shutdownCtx)
	if redisClient != nil {
		_ = redisClient.Close()
	}
	if db != nil {
		_ = db.Close()
	}
}

func newLogger(cfg *config.Config) *zap.Logger {
	if cfg.Log.Format == "console" {
		logger, _ := zap.NewDevelopment()
		return logger
	}
	logger, _ := zap.NewProduction()
	return logger
}
