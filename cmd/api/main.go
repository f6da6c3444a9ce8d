// @title                      Feedback Portal API
// @version                    1.0
// @description                Customer feedback collection with administrator responses and AI-assisted replies.
// @BasePath                   /
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/feedbackhub/portal/internal/api"
	"github.com/feedbackhub/portal/internal/api/handler"
	"github.com/feedbackhub/portal/internal/core/ports"
	"github.com/feedbackhub/portal/internal/core/service"
	"github.com/feedbackhub/portal/internal/infrastructure/ai"
	"github.com/feedbackhub/portal/internal/infrastructure/config"
	mongodb "github.com/feedbackhub/portal/internal/infrastructure/db/mongo"
	redisdb "github.com/feedbackhub/portal/internal/infrastructure/db/redis"
	"github.com/feedbackhub/portal/internal/infrastructure/queue"
	"github.com/feedbackhub/portal/internal/infrastructure/storage"
	"github.com/feedbackhub/portal/pkg/logger"
	"github.com/feedbackhub/portal/web"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := logger.New(logger.Options{Pretty: true, Output: os.Stderr})
		bootLog.Fatal().Err(err).Msg("invalid configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "feedback-portal",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(shutdownCtx)
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		return err
	}
	defer rdb.Close()

	users := mongodb.NewUserRepository(db)
	feedbackRepo := mongodb.NewFeedbackRepository(db)
	if err := users.EnsureIndexes(ctx); err != nil {
		return err
	}
	if err := feedbackRepo.EnsureIndexes(ctx); err != nil {
		return err
	}

	images, err := storage.New(storage.Config{
		Provider:  cfg.Storage.Provider,
		LocalDir:  cfg.Storage.UploadDir,
		URLPrefix: cfg.Storage.URLPrefix,
		Bucket:    cfg.Storage.S3Bucket,
		Endpoint:  cfg.Storage.S3Endpoint,
		Region:    cfg.Storage.S3Region,
		KeyID:     cfg.Storage.S3KeyID,
		Secret:    cfg.Storage.S3Secret,
		PublicURL: cfg.Storage.S3PublicURL,
	})
	if err != nil {
		return err
	}

	generator := ai.NewClient(ai.Config{
		BaseURL: cfg.AI.BaseURL,
		APIKey:  cfg.AI.APIKey,
		Model:   cfg.AI.Model,
		Timeout: cfg.AI.Timeout,
	})
	if !generator.Enabled() {
		log.Warn().Msg("AI_API_KEY not set, suggestions are disabled")
	}

	tokens := service.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	authService := service.NewAuthService(users, tokens, log)
	suggestions := service.NewSuggestionService(generator, redisdb.NewSuggestionCache(rdb), cfg.AI.CacheTTL, log)

	var prefetch ports.SuggestionPrefetcher
	if cfg.AI.Prefetch && generator.Enabled() {
		dispatcher := queue.NewDispatcher(cfg.AI.PrefetchWorkers, suggestions, log)
		dispatcher.Start(ctx)
		prefetch = dispatcher
	}
	feedbackService := service.NewFeedbackService(feedbackRepo, users, images, prefetch, log)

	renderer, err := web.NewRenderer()
	if err != nil {
		return err
	}

	deps := api.Dependencies{
		Log:         log,
		Tokens:      tokens,
		Auth:        authService,
		Feedback:    feedbackService,
		Suggestions: suggestions,
		Readiness: map[string]handler.Check{
			"mongodb": mongodb.Ping(mongoClient),
			"redis":   redisdb.Ping(rdb),
		},
		Renderer:      renderer,
		Assets:        web.Static(),
		SecureCookies: cfg.IsProduction(),
		LoginRate:     cfg.Auth.LoginRate,
		LoginBurst:    cfg.Auth.LoginBurst,
	}
	if local, ok := images.(*storage.LocalStore); ok {
		deps.UploadDir = local.Dir()
		deps.UploadURLPrefix = cfg.Storage.URLPrefix
	}

	e := api.NewRouter(deps)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Shutdown)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
