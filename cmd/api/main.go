package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/medassist/telemed-api/internal/config"
	"github.com/medassist/telemed-api/internal/email"
	"github.com/medassist/telemed-api/internal/handler"
	adminHandler "github.com/medassist/telemed-api/internal/handler/admin"
	authHandler "github.com/medassist/telemed-api/internal/handler/auth"
	consultationHandler "github.com/medassist/telemed-api/internal/handler/consultation"
	prescriptionHandler "github.com/medassist/telemed-api/internal/handler/prescription"
	symptomHandler "github.com/medassist/telemed-api/internal/handler/symptom"
	"github.com/medassist/telemed-api/internal/middleware"
	"github.com/medassist/telemed-api/internal/repository/postgres"
	"github.com/medassist/telemed-api/internal/router"
	authService "github.com/medassist/telemed-api/internal/service/auth"
	consultationService "github.com/medassist/telemed-api/internal/service/consultation"
	"github.com/medassist/telemed-api/internal/service/predictor"
	prescriptionService "github.com/medassist/telemed-api/internal/service/prescription"
	symptomService "github.com/medassist/telemed-api/internal/service/symptom"
	userService "github.com/medassist/telemed-api/internal/service/user"
	"github.com/medassist/telemed-api/internal/video"
	"github.com/medassist/telemed-api/pkg/metrics"
)

func main() {
	// Load .env if present; secrets may also come from the real environment
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Initialize repositories
	base := postgres.NewBaseRepository(db)
	userRepo := postgres.NewUserRepository(base)
	doctorRepo := postgres.NewDoctorRepository(base)
	consultationRepo := postgres.NewConsultationRepository(base)
	prescriptionRepo := postgres.NewPrescriptionRepository(base)
	symptomRepo := postgres.NewSymptomRepository(base)

	// Optional Redis cache for symptom history
	var redisClient *redis.Client
	if cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to parse Redis URL")
		}
		redisClient = redis.NewClient(opts)
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Warn().Err(err).Msg("redis unreachable, history cache disabled")
			redisClient = nil
		}
	}

	m := metrics.NewMetrics("telemed")

	// Initialize services
	scorer := predictor.NewPlaceholderScorer(cfg.Model.Seed)
	predictorSvc := predictor.NewService(scorer, m)
	videoSvc := video.NewTwilioProvider(cfg.Video)
	emailSvc := email.NewService(cfg.Mail)

	authSvc := authService.NewService(userRepo, cfg.Auth)
	userSvc := userService.NewService(userRepo, doctorRepo)
	symptomSvc := symptomService.NewService(symptomRepo, predictorSvc, redisClient, m)
	consultationSvc := consultationService.NewService(consultationRepo, doctorRepo, userRepo, videoSvc, emailSvc)
	prescriptionSvc := prescriptionService.NewService(prescriptionRepo, consultationRepo, doctorRepo)

	middleware.RegisterValidations()
	authMiddleware := middleware.NewAuthMiddleware(authSvc)

	// Initialize handlers
	h := handler.NewHandler(db)
	authH := authHandler.NewHandler(authSvc, userSvc)
	symptomH := symptomHandler.NewHandler(symptomSvc)
	consultationH := consultationHandler.NewHandler(consultationSvc)
	prescriptionH := prescriptionHandler.NewHandler(prescriptionSvc)
	adminH := adminHandler.NewHandler(userSvc)

	corsConfig := middleware.DefaultCORSConfig()
	if len(cfg.CORS.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.CORS.AllowedOrigins
	}

	r := router.NewRouter(
		authMiddleware,
		authH,
		symptomH,
		consultationH,
		prescriptionH,
		adminH,
		h,
		router.Config{
			RateLimit:     rate.Limit(cfg.Server.RateLimitRPS),
			RateBurst:     cfg.Server.RateLimitBurst,
			Timeout:       time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
			CORSConfig:    corsConfig,
			MetricsPrefix: "telemed_http",
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	if redisClient != nil {
		_ = redisClient.Close()
	}

	log.Info().Msg("server exited")
}
