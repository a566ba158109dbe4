package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/wellnessmate/backend/internal/database"
	"github.com/pageza/wellnessmate/backend/internal/models"
	"github.com/pageza/wellnessmate/backend/internal/nutrition"
	"github.com/pageza/wellnessmate/backend/internal/types"
)

const (
	// DefaultListLimit caps explore and search results
	DefaultListLimit = 20
	// DefaultSimilarLimit is the number of recommendations on a recipe page
	DefaultSimilarLimit = 3

	importBatchSize = 100
)

// ErrRecipeNotFound is returned when no recipe has the requested ID
var ErrRecipeNotFound = errors.New("recipe not found")

// SlotQuery selects meal plan candidates. Calorie bounds are exclusive and an
// empty Keyword matches every recipe.
type SlotQuery struct {
	MinKcal float64
	MaxKcal float64
	Keyword string
}

// RecipeService handles recipe operations
type RecipeService struct {
	db               *gorm.DB
	embeddingService EmbeddingServiceInterface
	cache            *RecipeCache
	images           ImageSigner
	log              *zap.Logger
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(db *gorm.DB, embeddingService EmbeddingServiceInterface, log *zap.Logger) *RecipeService {
	return &RecipeService{
		db:               db,
		embeddingService: embeddingService,
		log:              log,
	}
}

// WithCache enables caching of recipe detail responses
func (s *RecipeService) WithCache(cache *RecipeCache) *RecipeService {
	s.cache = cache
	return s
}

// WithImageSigner enables image URLs on returned recipes
func (s *RecipeService) WithImageSigner(images ImageSigner) *RecipeService {
	s.images = images
	return s
}

// GetRecipe retrieves a recipe by ID
func (s *RecipeService) GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}
	return &recipe, nil
}

// GetRecipeDetail returns a recipe with its most similar recipes
func (s *RecipeService) GetRecipeDetail(ctx context.Context, id uuid.UUID) (*types.RecipeDetail, error) {
	cached, err := s.cache.Get(ctx, id)
	if err != nil {
		s.log.Warn("recipe cache read failed", zap.String("recipe_id", id.String()), zap.Error(err))
	}
	if cached != nil {
		return cached, nil
	}

	recipe, err := s.GetRecipe(ctx, id)
	if err != nil {
		return nil, err
	}

	similar, err := s.FindSimilar(ctx, recipe, DefaultSimilarLimit)
	if err != nil {
		return nil, err
	}

	// SignRecipes works on slices, so sign the recipe through a copy.
	one := []models.Recipe{*recipe}
	s.sign(ctx, one)
	recipe.ImageURL = one[0].ImageURL
	s.sign(ctx, similar)

	detail := &types.RecipeDetail{Recipe: recipe, Recommendations: similar}

	if err := s.cache.Set(ctx, id, detail); err != nil {
		s.log.Warn("recipe cache write failed", zap.String("recipe_id", id.String()), zap.Error(err))
	}
	return detail, nil
}

// FindCandidates lists recipes eligible for a meal slot
func (s *RecipeService) FindCandidates(ctx context.Context, q SlotQuery) ([]models.Recipe, error) {
	query := s.db.WithContext(ctx).Where("kcal > ? AND kcal < ?", q.MinKcal, q.MaxKcal)
	if q.Keyword != "" {
		like := containsPattern(q.Keyword)
		query = query.Where(`(LOWER(subcategory) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\')`, like, like)
	}

	recipes := []models.Recipe{}
	if err := query.Order("id").Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("failed to find candidates: %w", err)
	}
	return recipes, nil
}

// Explore lists recipes for browsing
func (s *RecipeService) Explore(ctx context.Context, limit int) ([]models.Recipe, error) {
	if limit <= 0 || limit > DefaultListLimit {
		limit = DefaultListLimit
	}

	recipes := []models.Recipe{}
	if err := s.db.WithContext(ctx).Order("name").Limit(limit).Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	s.sign(ctx, recipes)
	return recipes, nil
}

// Search filters recipes by text and nutrition boundaries
func (s *RecipeService) Search(ctx context.Context, req *types.SearchRequest) ([]models.Recipe, error) {
	query := s.db.WithContext(ctx)

	if term := strings.TrimSpace(req.SearchTerm); term != "" {
		like := containsPattern(term)
		query = query.Where(`(LOWER(name) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\')`, like, like)
	}
	if req.PrepBoundary != nil {
		query = query.Where("prep_minutes <= ?", *req.PrepBoundary)
	}
	if req.CookingBoundary != nil {
		query = query.Where("cook_minutes <= ?", *req.CookingBoundary)
	}
	if req.CalorieBoundary != nil {
		query = query.Where("kcal <= ?", *req.CalorieBoundary)
	}
	if req.ProteinBoundary != nil {
		query = query.Where("protein >= ?", *req.ProteinBoundary)
	}
	if req.NutriScoreBoundary != nil {
		query = query.Where("nutrition_score >= ?", *req.NutriScoreBoundary)
	}

	recipes := []models.Recipe{}
	if err := query.Order("name").Limit(DefaultListLimit).Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("failed to search recipes: %w", err)
	}
	s.sign(ctx, recipes)
	return recipes, nil
}

// FindSimilar returns recipes close to the given one, excluding itself.
// PostgreSQL ranks by embedding distance, other databases match name words.
func (s *RecipeService) FindSimilar(ctx context.Context, recipe *models.Recipe, limit int) ([]models.Recipe, error) {
	if limit <= 0 {
		limit = DefaultSimilarLimit
	}

	query := s.db.WithContext(ctx).Where("id <> ?", recipe.ID)
	similar := []models.Recipe{}

	if s.db.Dialector.Name() == "postgres" {
		vec := recipe.Embedding
		if len(vec.Slice()) == 0 {
			var err error
			if vec, err = s.embeddingService.GenerateEmbedding(RecipeText(recipe)); err != nil {
				return nil, fmt.Errorf("failed to embed recipe: %w", err)
			}
		}
		query = query.Clauses(clause.OrderBy{
			Expression: clause.Expr{SQL: "embedding <-> ?", Vars: []interface{}{vec}},
		})
	} else {
		words := nameWords(recipe.Name)
		if len(words) == 0 {
			return similar, nil
		}
		match := s.db.Where("LOWER(name) LIKE ?", "%"+words[0]+"%")
		for _, w := range words[1:] {
			match = match.Or("LOWER(name) LIKE ?", "%"+w+"%")
		}
		query = query.Where(match).Order("nutrition_score DESC").Order("name")
	}

	if err := query.Limit(limit).Find(&similar).Error; err != nil {
		return nil, fmt.Errorf("failed to find similar recipes: %w", err)
	}
	return similar, nil
}

// ImportRecipes scores, embeds and stores recipes. It returns the number of
// recipes written.
func (s *RecipeService) ImportRecipes(ctx context.Context, recipes []models.Recipe) (int, error) {
	if len(recipes) == 0 {
		return 0, nil
	}

	for i := range recipes {
		r := &recipes[i]
		proteinScore, nutritionScore, err := nutrition.ScoreRecipe(nutrition.Facts{
			Carbs:     r.Carbs,
			Fat:       r.Fat,
			Protein:   r.Protein,
			Fiber:     r.Fiber,
			Saturates: r.Saturates,
			Kcal:      r.Kcal,
			Sugars:    r.Sugars,
			Salt:      r.Salt,
		})
		if errors.Is(err, nutrition.ErrDivisionByZero) {
			s.log.Warn("recipe has no calories, protein score set to 0", zap.String("name", r.Name))
		}
		r.ProteinScore = proteinScore
		r.NutritionScore = nutritionScore

		vec, err := s.embeddingService.GenerateEmbedding(RecipeText(r))
		if err != nil {
			return 0, fmt.Errorf("failed to embed recipe %q: %w", r.Name, err)
		}
		r.Embedding = vec
		if r.Ingredients == nil {
			r.Ingredients = models.JSONBStringArray{}
		}
	}

	if err := s.db.WithContext(ctx).CreateInBatches(recipes, importBatchSize).Error; err != nil {
		return 0, fmt.Errorf("failed to import recipes: %w", err)
	}

	// Imports may carry IDs of recipes served before, so drop their details.
	for i := range recipes {
		if err := s.cache.Invalidate(ctx, recipes[i].ID); err != nil {
			s.log.Warn("recipe cache invalidation failed", zap.String("recipe_id", recipes[i].ID.String()), zap.Error(err))
		}
	}
	return len(recipes), nil
}

func (s *RecipeService) sign(ctx context.Context, recipes []models.Recipe) {
	if s.images != nil && len(recipes) > 0 {
		s.images.SignRecipes(ctx, recipes)
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// containsPattern builds a case-insensitive LIKE pattern matching s literally
// anywhere in a value. Use it with ESCAPE '\'.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}

// nameWords returns the distinct lowercase words of a recipe name long enough
// to be meaningful in a LIKE match.
func nameWords(name string) []string {
	seen := make(map[string]bool)
	var words []string
	for _, w := range tokenize(name) {
		if len(w) < 3 || seen[w] {
			continue
		}
		seen[w] = true
		words = append(words, w)
	}
	return words
}

// Ping reports whether the recipe store is reachable
func (s *RecipeService) Ping(ctx context.Context) error {
	return database.HealthCheck(ctx, s.db)
}
