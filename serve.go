package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"quiz_session_backend/internals/configs"
	database "quiz_session_backend/internals/databases"
	qcontroller "quiz_session_backend/internals/features/quiz/questions/controller"
	qservice "quiz_session_backend/internals/features/quiz/questions/service"
	scontroller "quiz_session_backend/internals/features/quiz/sessions/controller"
	ssvc "quiz_session_backend/internals/features/quiz/sessions/service"
	middlewares "quiz_session_backend/internals/middlewares"
	"quiz_session_backend/internals/middlewares/logger"
	routes "quiz_session_backend/internals/route"
)

func serve(cfg *configs.AppConfig, log *logrus.Logger) error {
	policy, err := ssvc.PolicyByName(cfg.Quiz.ScoringPolicy)
	if err != nil {
		return err
	}

	// 🔌 DB connect + pool
	db, err := database.ConnectDB(cfg.DB, log)
	if err != nil {
		return err
	}
	database.TunePool(db, log)
	defer func() {
		if err := database.Close(db); err != nil {
			log.WithError(err).Warn("close db")
		}
	}()

	if cfg.AutoMigrate {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		err := database.Migrate(ctx, db, log)
		cancel()
		if err != nil {
			return err
		}
	}

	// stores + services (explicitly wired, no globals)
	questionStore := qservice.NewGormStore(db)
	sessionStore := ssvc.NewGormStore(db)
	sessions := ssvc.NewSessionService(sessionStore, questionStore, ssvc.Options{
		MaPerSession: cfg.Quiz.MaPerSession,
		TfPerSession: cfg.Quiz.TfPerSession,
		Policy:       policy,
	}, log)

	// ⏱ reaper setelah DB siap
	reaper := ssvc.NewStaleSessionReaper(sessionStore, sessions, ssvc.ReaperConfig{
		TTL:          cfg.Reaper.SessionTTL,
		CronSchedule: cfg.Reaper.Schedule,
		BatchSize:    cfg.Reaper.BatchSize,
	}, log)
	cronJob, err := reaper.Start()
	if err != nil {
		return err
	}
	if cronJob != nil {
		defer cronJob.Stop()
	}

	app := newApp(cfg, log)
	routes.SetupRoutes(app, routes.Deps{
		DB:        db,
		Sessions:  scontroller.NewSessionsController(sessions, log),
		Questions: qcontroller.NewRandomQuestionsController(questionStore, cfg.Quiz.MaxSample, log),
		Log:       log,
	})

	// Start server non-blocking
	errCh := make(chan error, 1)
	go func() {
		log.Infof("✅ Listening on :%s", cfg.Port)
		errCh <- app.Listen("0.0.0.0:" + cfg.Port)
	}()

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return errors.Wrap(err, "server error")
	case sig := <-quit:
		log.WithField("signal", sig.String()).Info("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return app.ShutdownWithContext(ctx)
}

func newApp(cfg *configs.AppConfig, log *logrus.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		// 🚀 JSON super cepat
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		DisableStartupMessage: true,
		ProxyHeader:           fiber.HeaderXForwardedFor,
		ReadTimeout:           15 * time.Second,
		WriteTimeout:          30 * time.Second,
		IdleTimeout:           90 * time.Second,
	})

	app.Use(middlewares.RecoveryMiddleware(log))
	app.Use(middlewares.RequestContext(cfg.RequestTimeout))
	app.Use(logger.LoggerMiddleware(log.WriterLevel(logrus.InfoLevel)))
	app.Use(middlewares.CorsMiddleware(cfg.CorsAllowOrigins))
	app.Use(middlewares.GlobalRateLimiter(cfg.RateLimitMax, cfg.RateLimitWindow))
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault})) // gzip
	app.Use(etag.New())                                                  // 304 caching

	return app
}
