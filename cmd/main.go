// cmd/main.go is the application entry point.
// It wires together all layers and starts the HTTP server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"studyhub/internal/admission"
	"studyhub/internal/auth"
	"studyhub/internal/config"
	"studyhub/internal/database"
	"studyhub/internal/handler"
	"studyhub/internal/notification"
	"studyhub/internal/repository"
	"studyhub/internal/service"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()

	// ── 1. PostgreSQL: connect and migrate ───────────────────────────────
	pool, err := database.NewPool(ctx, cfg.DSN(), log)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()

	if err := database.Migrate(cfg.DatabaseURL("pgx5")); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	log.Info("connected to PostgreSQL, schema up to date")

	// ── 2. Redis: notification queue ─────────────────────────────────────
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer rdb.Close()

	sink := notification.NewRedisSink(rdb, cfg.NotificationQueue)
	mailer := notification.NewLogMailer(log)
	worker := notification.NewWorker(rdb, cfg.NotificationQueue, mailer, log)

	workerCtx, stopWorker := context.WithCancel(ctx)
	defer stopWorker()
	go worker.Run(workerCtx)

	// ── 3. Wire up layers ────────────────────────────────────────────────
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)

	accountRepo := repository.NewAccountRepository(pool)
	studyRepo := repository.NewStudyRepository(pool)
	eventRepo := repository.NewEventRepository(pool)
	admissionStore := repository.NewAdmissionStore(pool)

	engine := admission.NewEngine(admissionStore, sink, log)

	accountSvc := service.NewAccountService(accountRepo, tokens)
	studySvc := service.NewStudyService(studyRepo)
	eventSvc := service.NewEventService(eventRepo, studyRepo)
	enrollmentSvc := service.NewEnrollmentService(eventRepo, studyRepo, engine)

	r := handler.NewRouter(log, tokens,
		handler.NewAccountHandler(accountSvc),
		handler.NewStudyHandler(studySvc),
		handler.NewEventHandler(eventSvc, enrollmentSvc),
	)

	// ── 4. Start server with graceful shutdown ───────────────────────────
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Run in background goroutine so we can listen for shutdown signal.
	go func() {
		log.Infof("server listening on http://localhost:%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Block until SIGINT or SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("graceful shutdown failed: %v", err)
	}
	stopWorker()
	log.Info("server stopped")
}
