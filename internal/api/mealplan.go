package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/wellnessmate/backend/internal/service"
	"github.com/pageza/wellnessmate/backend/internal/types"
)

type MealPlanHandler struct {
	mealPlanService service.IMealPlanService
	log             *zap.Logger
}

func NewMealPlanHandler(mealPlanService service.IMealPlanService, log *zap.Logger) *MealPlanHandler {
	return &MealPlanHandler{
		mealPlanService: mealPlanService,
		log:             log,
	}
}

func (h *MealPlanHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/mealplan", h.GenerateMealPlan)
}

// GenerateMealPlan builds a daily meal plan for the posted user details
func (h *MealPlanHandler) GenerateMealPlan(c *gin.Context) {
	var req types.MealPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	if req.UserDetails == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userDetails are required"})
		return
	}

	plan, err := h.mealPlanService.Generate(c.Request.Context(), req.UserDetails)
	if err != nil {
		h.log.Error("failed to generate meal plan", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate meal plan"})
		return
	}

	c.JSON(http.StatusOK, plan)
}
