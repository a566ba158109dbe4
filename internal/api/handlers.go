package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/pageza/wellnessmate/backend/internal/middleware"
	"github.com/pageza/wellnessmate/backend/internal/service"
)

// HealthCheck returns the health status of the API
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "WellnessMate API is running",
		"version": "v1.0.0",
	})
}

// Readiness reports 503 while the recipe store is unreachable
func Readiness(recipes service.IRecipeService, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := recipes.Ping(c.Request.Context()); err != nil {
			log.Error("recipe store ping failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	}
}

// RateLimitStatus reports the caller's remaining request budget
func RateLimitStatus(limiter *middleware.RateLimiter, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		remaining, resetTime, err := limiter.GetRemainingRequests(c.Request.Context(), c.ClientIP())
		if err != nil {
			log.Error("failed to check rate limit", zap.String("client", c.ClientIP()), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check rate limit"})
			return
		}

		limit, window := limiter.Policy()
		c.JSON(http.StatusOK, gin.H{
			"limit":      limit,
			"remaining":  remaining,
			"reset_time": resetTime.Unix(),
			"window":     window.String(),
		})
	}
}

// RegisterRoutes registers all API routes. A nil limiter disables rate
// limiting.
func RegisterRoutes(router *gin.Engine, recipeService service.IRecipeService, mealPlanService service.IMealPlanService, limiter *middleware.RateLimiter, log *zap.Logger) {
	// Health check endpoints (not rate limited)
	router.GET("/health", HealthCheck)
	router.GET("/api/health", HealthCheck)
	router.GET("/ready", Readiness(recipeService, log))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// The status route is registered outside the limited group so checking it
	// does not spend a request.
	if limiter != nil {
		router.GET("/api/v1/rate-limit/status", RateLimitStatus(limiter, log))
	}

	v1 := router.Group("/api/v1")
	if limiter != nil {
		v1.Use(limiter.RateLimitMiddleware())
	}

	NewRecipeHandler(recipeService, log).RegisterRoutes(v1)
	NewMealPlanHandler(mealPlanService, log).RegisterRoutes(v1)
}
