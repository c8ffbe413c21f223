package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kelasku/kelasku-backend/internal/config"
	"github.com/kelasku/kelasku-backend/internal/cron"
	"github.com/kelasku/kelasku-backend/internal/database"
	"github.com/kelasku/kelasku-backend/internal/handler"
	"github.com/kelasku/kelasku-backend/internal/logger"
	"github.com/kelasku/kelasku-backend/internal/realtime"
	"github.com/kelasku/kelasku-backend/internal/repository"
	"github.com/kelasku/kelasku-backend/internal/router"
	"github.com/kelasku/kelasku-backend/internal/service"
	"github.com/kelasku/kelasku-backend/internal/validator"
	"github.com/kelasku/kelasku-backend/internal/worker"
	"github.com/rs/zerolog"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting Kelasku Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	profileRepo := repository.NewProfileRepository(pool)
	classRepo := repository.NewClassRepository(pool)
	memberRepo := repository.NewMemberRepository(pool)
	scheduleRepo := repository.NewScheduleRepository(pool)
	notificationRepo := repository.NewNotificationRepository(pool)

	// ─── Initialize Realtime Feed ─────────────────────────────────────
	publisher := realtime.NewPublisher(rdb, log)
	dispatcher := realtime.NewDispatcher()
	bridge := realtime.NewBridge(rdb, dispatcher, log)
	notifyQueue := worker.NewQueue(rdb)

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg, rdb)
	profileService := service.NewProfileService(profileRepo)
	classService := service.NewClassService(classRepo, cfg.DefaultMemberLimit)
	memberService := service.NewMemberService(memberRepo, classRepo, publisher, notifyQueue, log)
	scheduleService := service.NewScheduleService(scheduleRepo, classRepo, memberRepo, publisher, notifyQueue, log)
	notificationService := service.NewNotificationService(notificationRepo, publisher, cfg.NotificationLimit)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:         handler.NewAuthHandler(authService, profileService),
		Profile:      handler.NewProfileHandler(profileService),
		Class:        handler.NewClassHandler(classService),
		Member:       handler.NewMemberHandler(memberService),
		Schedule:     handler.NewScheduleHandler(scheduleService),
		Notification: handler.NewNotificationHandler(notificationService),
		Feed:         handler.NewFeedHandler(dispatcher, memberService, log, cfg.AllowedOrigins),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	notificationWorker := worker.NewNotificationWorker(rdb, notificationRepo, publisher, log)

	go bridge.Run(workerCtx)
	go notificationWorker.Start(workerCtx)

	// ─── Start Cron Scheduler ─────────────────────────────────────────
	scheduler := cron.NewScheduler(notificationRepo, log)
	scheduler.Start()

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop the scheduler, the feed bridge, and the notification worker.
	scheduler.Stop()
	workerCancel()
	time.Sleep(2 * time.Second) // Allow the worker to drain.

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
