package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pageza/wellnessmate/backend/internal/service"
	"github.com/pageza/wellnessmate/backend/internal/types"
)

type RecipeHandler struct {
	recipeService service.IRecipeService
	log           *zap.Logger
}

func NewRecipeHandler(recipeService service.IRecipeService, log *zap.Logger) *RecipeHandler {
	return &RecipeHandler{
		recipeService: recipeService,
		log:           log,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/recipe", h.GetRecipe)
	router.GET("/explore", h.Explore)
	router.POST("/search", h.Search)
}

// GetRecipe returns a recipe and up to three similar recipes
func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	var req types.RecipeLookupRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No ID provided"})
		return
	}

	// Malformed IDs cannot match any stored recipe.
	id, err := uuid.Parse(req.ID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
		return
	}

	detail, err := h.recipeService.GetRecipeDetail(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrRecipeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
			return
		}
		h.log.Error("failed to get recipe", zap.String("recipe_id", req.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, detail)
}

// Explore lists recipes for browsing
func (h *RecipeHandler) Explore(c *gin.Context) {
	limit := service.DefaultListLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	recipes, err := h.recipeService.Explore(c.Request.Context(), limit)
	if err != nil {
		h.log.Error("failed to list recipes", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recipes"})
		return
	}

	c.JSON(http.StatusOK, recipes)
}

// Search filters recipes by text and nutrition boundaries
func (h *RecipeHandler) Search(c *gin.Context) {
	var req types.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recipes, err := h.recipeService.Search(c.Request.Context(), &req)
	if err != nil {
		h.log.Error("failed to search recipes", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search recipes"})
		return
	}

	c.JSON(http.StatusOK, recipes)
}
