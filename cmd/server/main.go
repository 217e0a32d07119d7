package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"google.golang.org/api/option"

	"devflow/backend/internal/config"
	"devflow/backend/internal/database"
	"devflow/backend/internal/handlers"
	"devflow/backend/internal/logger"
	"devflow/backend/internal/middleware"
	"devflow/backend/internal/repository"
	"devflow/backend/internal/revalidate"
)

func main() {
	log := logger.New(os.Getenv("LOG_LEVEL"), os.Getenv("APP_ENV"))

	if err := godotenv.Load(); err != nil {
		log.Info().Msg("no .env file found, relying on environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	log = logger.New(cfg.LogLevel, cfg.Env)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	store, err := database.Connect(ctx, cfg)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("connect to store")
	}
	log.Info().Str("db", cfg.DBName).Msg("connected to MongoDB")

	var authClient *fbauth.Client
	if cfg.FirebaseKeyData != "" {
		authClient, err = newAuthClient(context.Background(), cfg.FirebaseKeyData)
		if err != nil {
			log.Fatal().Err(err).Msg("initialize auth")
		}
	} else {
		log.Warn().Msg("FIREBASE_KEY_DATA not set, API requests are unauthenticated")
	}

	var notifier revalidate.Notifier = revalidate.Nop{}
	if cfg.RedisURL != "" {
		redisNotifier, err := revalidate.NewRedis(cfg.RedisURL, log)
		if err != nil {
			log.Fatal().Err(err).Msg("initialize revalidation publisher")
		}
		defer redisNotifier.Close()
		notifier = redisNotifier
	}

	if err := handlers.RegisterValidations(); err != nil {
		log.Fatal().Err(err).Msg("register validations")
	}

	repos := repository.New(store, log, notifier)
	userHandler := handlers.NewUserHandler(repos.Users, log)
	questionHandler := handlers.NewQuestionHandler(repos.Questions, log)
	answerHandler := handlers.NewAnswerHandler(repos.Answers, log)
	tagHandler := handlers.NewTagHandler(repos.Tags, log)
	searchHandler := handlers.NewSearchHandler(repos.Search, log)

	if cfg.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Logging(log), gin.Recovery())
	router.GET("/health", handlers.HealthCheck)

	api := router.Group("/api/v1")
	if authClient != nil {
		api.Use(middleware.Auth(authClient, log))
	}
	{
		users := api.Group("/users")
		users.GET("", userHandler.List)
		users.POST("", userHandler.Create)
		users.GET("/:id", userHandler.Get)
		users.PUT("/:id", userHandler.Update)
		users.DELETE("/:id", userHandler.Delete)
		users.GET("/:id/info", userHandler.Info)
		users.GET("/:id/saved", userHandler.Saved)
		users.GET("/:id/questions", userHandler.Questions)
		users.GET("/:id/answers", userHandler.Answers)
		users.GET("/:id/top-tags", tagHandler.TopInteracted)

		questions := api.Group("/questions")
		questions.POST("", questionHandler.Create)
		questions.GET("", questionHandler.List)
		questions.GET("/:id", questionHandler.Get)
		questions.PUT("/:id", questionHandler.Update)
		questions.DELETE("/:id", questionHandler.Delete)
		questions.POST("/:id/upvote", questionHandler.Upvote)
		questions.POST("/:id/downvote", questionHandler.Downvote)
		questions.POST("/:id/views", questionHandler.View)
		questions.POST("/:id/save", userHandler.ToggleSave)
		questions.GET("/:id/answers", answerHandler.List)

		answers := api.Group("/answers")
		answers.POST("", answerHandler.Create)
		answers.DELETE("/:id", answerHandler.Delete)
		answers.POST("/:id/upvote", answerHandler.Upvote)
		answers.POST("/:id/downvote", answerHandler.Downvote)

		tags := api.Group("/tags")
		tags.GET("", tagHandler.List)
		tags.GET("/popular", tagHandler.Popular)
		tags.GET("/:id/questions", tagHandler.Questions)

		api.GET("/search", searchHandler.Global)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	if err := store.Close(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("store close")
	}
}

// newAuthClient builds the Firebase auth client from the service
// account JSON in the environment. The private key arrives with
// escaped newlines and has to be unescaped before use.
func newAuthClient(ctx context.Context, keyData string) (*fbauth.Client, error) {
	var parsed map[string]interface{}
	if err := json.Unmarshal([]byte(keyData), &parsed); err != nil {
		return nil, fmt.Errorf("unmarshal key data: %w", err)
	}
	if pk, ok := parsed["private_key"].(string); ok {
		parsed["private_key"] = strings.ReplaceAll(pk, `\n`, "\n")
	}
	raw, err := json.Marshal(parsed)
	if err != nil {
		return nil, fmt.Errorf("marshal key data: %w", err)
	}

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsJSON(raw))
	if err != nil {
		return nil, fmt.Errorf("initialize firebase app: %w", err)
	}
	return app.Auth(ctx)
}
