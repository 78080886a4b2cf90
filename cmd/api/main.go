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

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/flowtrack/flow-tracker-api/internal/auth"
	"github.com/flowtrack/flow-tracker-api/internal/config"
	"github.com/flowtrack/flow-tracker-api/internal/handler"
	"github.com/flowtrack/flow-tracker-api/internal/mailer"
	"github.com/flowtrack/flow-tracker-api/internal/payload"
	"github.com/flowtrack/flow-tracker-api/internal/repository"
	"github.com/flowtrack/flow-tracker-api/internal/usecase"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	if err := godotenv.Load(); err != nil {
		logger.Info().Msg("no .env file found, relying on environment")
	}

	cfg := config.New(&logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := mongo.Connect(options.Client().ApplyURI(cfg.DatabaseURI))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Error().Err(err).Msg("failed to disconnect from MongoDB")
		}
	}()

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		logger.Fatal().Err(err).Msg("failed to ping MongoDB")
	}

	db := client.Database(cfg.DatabaseName)

	userRepo := repository.NewUserMongoRepository(ctx, &logger, db)
	flowRepo := repository.NewFlowMongoRepository(ctx, &logger, db)
	categoryRepo := repository.NewCategoryMongoRepository(ctx, &logger, db)

	mailSender := mailer.NewMailer(&logger)
	jwtAuth := auth.NewJWTAuthenticator(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTExpiresIn)

	validator, err := payload.NewValidator()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize validator")
	}

	authUsecase := usecase.NewAuthUsecase(userRepo, mailSender, &logger, cfg)
	userUsecase := usecase.NewUserUsecase(userRepo)
	categoryUsecase := usecase.NewCategoryUsecase(categoryRepo, flowRepo)
	flowUsecase := usecase.NewFlowUsecase(flowRepo, categoryRepo)

	responder := handler.NewResponder(&logger, cfg.IsDevelopment())

	router := handler.NewRouter(&logger, cfg, handler.Handlers{
		Auth:           handler.NewAuthHandler(authUsecase, jwtAuth, validator, responder, cfg),
		User:           handler.NewUserHandler(userUsecase, validator, responder, cfg),
		Category:       handler.NewCategoryHandler(categoryUsecase, validator, responder),
		Flow:           handler.NewFlowHandler(flowUsecase, validator, responder),
		AuthMiddleware: handler.NewAuthMiddleware(jwtAuth, authUsecase, responder),
		Responder:      responder,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Int("port", cfg.Port).Str("env", cfg.Env).Msg("starting server")

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down server")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}
