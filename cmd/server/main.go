package main

import (
	"context"
	"net/http"
	"time"

	_ "github.com/meetgate/meetgate/docs"
	"github.com/meetgate/meetgate/internal/api"
	"github.com/meetgate/meetgate/internal/core/service"
	"github.com/meetgate/meetgate/internal/infrastructure/bootstrap"
	mongodb "github.com/meetgate/meetgate/internal/infrastructure/db/mongo"
	redisdb "github.com/meetgate/meetgate/internal/infrastructure/db/redis"
	"github.com/meetgate/meetgate/internal/infrastructure/queue"
	"github.com/meetgate/meetgate/internal/pkg/config"
	"github.com/meetgate/meetgate/pkg/logger"
)

// @title meetgate access API
// @version 1.0
// @description Role-gated access service for a self-hosted Jitsi Meet deployment.
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Env == "development",
		Service: "meetgate",
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// --- Infrastructure ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
		defer stop()
		_ = mongoClient.Disconnect(shutdownCtx)
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	// --- Repositories ---
	accountRepo := mongodb.NewAccountRepository(db)
	signupRepo := mongodb.NewSignupRequestRepository(db)
	meetingRepo := mongodb.NewMeetingRepository(db)

	if err := accountRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("account index creation failed")
	}
	if err := signupRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("signup request index creation failed")
	}
	if err := meetingRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("meeting index creation failed")
	}

	// --- Deploy-time ENV_ADMIN seed ---
	if err := bootstrap.EnsureEnvAdmin(ctx, accountRepo, bootstrap.AdminSeed{
		Username: cfg.Admin.Username,
		Email:    cfg.Admin.Email,
		Password: cfg.Admin.Password,
		FullName: cfg.Admin.FullName,
	}, log); err != nil {
		log.Fatal().Err(err).Msg("env admin bootstrap failed")
	}

	// --- Services ---
	roleCache := redisdb.NewRoleCache(rdb, accountRepo)
	dispatcher := queue.NewDispatcher(0, queue.NewLogSender(log), log)
	dispatcher.Start(ctx)

	authService := service.NewAuthService(accountRepo, roleCache, log, cfg.JWTSecret, 24*time.Hour)
	signupService := service.NewSignupService(signupRepo, accountRepo, dispatcher, log)
	accountService := service.NewAccountService(accountRepo, roleCache, log)
	meetingService := service.NewMeetingService(meetingRepo, cfg.JitsiBaseURL, log)

	// --- HTTP ---
	e := api.NewRouter(api.Dependencies{
		Auth:      authService,
		Signup:    signupService,
		Accounts:  accountService,
		Meetings:  meetingService,
		Roles:     roleCache,
		Mongo:     db,
		Redis:     rdb,
		JWTSecret: cfg.JWTSecret,
		Logger:    log,
	})

	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting server")
	if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
