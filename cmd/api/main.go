package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/pageza/wellnessmate/backend/config"
	"github.com/pageza/wellnessmate/backend/internal/database"
	"github.com/pageza/wellnessmate/backend/internal/middleware"
	"github.com/pageza/wellnessmate/backend/internal/server"
	"github.com/pageza/wellnessmate/backend/internal/service"
)

func main() {
	log, err := newLogger()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if err := run(log); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
	log.Info("server stopped")
}

func newLogger() (*zap.Logger, error) {
	if config.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func run(log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	db, err := database.New(cfg, log)
	if err != nil {
		return err
	}
	if err := database.RunMigrations(db, migrationsDir(), log); err != nil {
		return err
	}

	// Redis backs the detail cache and rate limiter. Both degrade without it.
	redisClient, err := database.NewRedisClient(cfg, log)
	if err != nil {
		log.Warn("redis unavailable, caching disabled and rate limiting is per instance", zap.Error(err))
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	embeddings := service.NewEmbeddingService()
	recipes := service.NewRecipeService(db, embeddings, log).
		WithCache(service.NewRecipeCache(redisClient, service.DefaultCacheTTL))

	var mealPlanOpts []service.MealPlanOption
	s3Config, err := config.NewS3Config(ctx, cfg)
	switch {
	case errors.Is(err, config.ErrNoBucket):
		log.Info("no image bucket configured, recipe images disabled")
	case err != nil:
		log.Warn("failed to initialise S3, recipe images disabled", zap.Error(err))
	default:
		images := service.NewImageService(s3Config, log)
		recipes.WithImageSigner(images)
		mealPlanOpts = append(mealPlanOpts, service.WithImages(images))
	}
	mealPlans := service.NewMealPlanService(recipes, log, mealPlanOpts...)

	limiter := middleware.NewRateLimiter(redisClient, middleware.RateLimitConfig{
		Window:    cfg.RateLimitWindow,
		Limit:     cfg.RateLimit,
		KeyPrefix: "rate_limit:api",
	}, log)
	defer limiter.Stop()

	return server.New(cfg, recipes, mealPlans, limiter, log).Run(ctx)
}

func migrationsDir() string {
	if dir := os.Getenv("MIGRATIONS_DIR"); dir != "" {
		return dir
	}
	return "migrations"
}
