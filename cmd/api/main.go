package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/zeecare/hospital-api/internal/config"
	"github.com/zeecare/hospital-api/internal/email"
	"github.com/zeecare/hospital-api/internal/handler"
	appointmentHandler "github.com/zeecare/hospital-api/internal/handler/appointment"
	paymentHandler "github.com/zeecare/hospital-api/internal/handler/payment"
	userHandler "github.com/zeecare/hospital-api/internal/handler/user"
	"github.com/zeecare/hospital-api/internal/middleware"
	"github.com/zeecare/hospital-api/internal/repository/postgres"
	"github.com/zeecare/hospital-api/internal/router"
	appointmentService "github.com/zeecare/hospital-api/internal/service/appointment"
	authService "github.com/zeecare/hospital-api/internal/service/auth"
	"github.com/zeecare/hospital-api/internal/service/booking"
	doctorService "github.com/zeecare/hospital-api/internal/service/doctor"
	"github.com/zeecare/hospital-api/internal/worker"
	"github.com/zeecare/hospital-api/pkg/logger"
	redisbroker "github.com/zeecare/hospital-api/pkg/messaging/redis"
	"github.com/zeecare/hospital-api/pkg/metrics"
	"github.com/zeecare/hospital-api/pkg/payment"
	"github.com/zeecare/hospital-api/pkg/security"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	appLogger := logger.NewLogger(&logger.Config{
		Level:      logger.InfoLevel,
		TimeFormat: time.RFC3339,
		Output:     os.Stdout,
	})

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if err := postgres.RunMigrations(cfg.Database.URL()); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	appointmentRepo := postgres.NewAppointmentRepository(db)
	userRepo := postgres.NewUserRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)

	appMetrics := metrics.New("hospital_api")

	var mailer email.Service = email.NoopService{}
	if cfg.SMTP.Enabled {
		mailer = email.NewSMTPService(cfg.SMTP)
	}

	doctorSvc := doctorService.NewService(userRepo)
	appointmentSvc := appointmentService.NewService(appointmentRepo)
	authSvc := authService.NewService(userRepo, security.NewBcryptHasher(0), cfg.JWT)
	bookingSvc := booking.NewService(
		payment.NewStripeProvider(cfg.Stripe.SecretKey),
		doctorSvc,
		appointmentSvc,
		mailer,
		cfg.URLs,
		appMetrics,
		appLogger,
	)

	authMW := middleware.NewAuthMiddleware(authSvc)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	broker, err := redisbroker.NewRedisBroker(redisbroker.Config{
		URL:          cfg.Redis.URL,
		MaxRetries:   cfg.Redis.MaxRetries,
		RetryBackoff: cfg.Redis.RetryBackoff,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	}, appLogger.Zerolog())
	if err != nil {
		// Event publishing is best effort; the API keeps serving without it.
		appLogger.Error(err, "redis unavailable, outbox processing disabled")
	} else {
		defer broker.Close()
		processor := worker.NewOutboxProcessor(outboxRepo, broker, appLogger, appMetrics, worker.Config{
			BatchSize:     cfg.Outbox.BatchSize,
			PollInterval:  cfg.Outbox.PollInterval,
			RetryAttempts: cfg.Outbox.RetryAttempts,
			RetryDelay:    cfg.Outbox.RetryDelay,
		})
		go processor.Start(ctx)
	}

	r := router.NewRouter(
		router.Config{
			RateLimit: middleware.RateLimiterConfig{
				RPS:   cfg.RateLimit.RPS,
				Burst: cfg.RateLimit.Burst,
			},
			CORSConfig:    middleware.DefaultCORSConfig(cfg.URLs.Frontend),
			MetricsPrefix: "hospital_api_http",
		},
		handler.NewHandler(db),
		userHandler.NewHandler(authSvc, doctorSvc, authMW),
		appointmentHandler.NewHandler(appointmentSvc, bookingSvc, authMW),
		paymentHandler.NewHandler(bookingSvc),
	)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		appLogger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	<-ctx.Done()
	appLogger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error(err, "server forced to shutdown")
	}
	appLogger.Info("server exited")
}
