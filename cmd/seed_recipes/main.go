package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/pageza/wellnessmate/backend/config"
	"github.com/pageza/wellnessmate/backend/internal/database"
	"github.com/pageza/wellnessmate/backend/internal/models"
	"github.com/pageza/wellnessmate/backend/internal/service"
)

// RecipeData is one entry of the seed file. Nutrition values are per serving.
type RecipeData struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Subcategory string   `json:"subcategory"`
	Ingredients []string `json:"ingredients"`
	Nutrients   struct {
		Kcal      float64 `json:"kcal"`
		Carbs     float64 `json:"carbs"`
		Fat       float64 `json:"fat"`
		Protein   float64 `json:"protein"`
		Fibre     float64 `json:"fibre"`
		Saturates float64 `json:"saturates"`
		Sugars    float64 `json:"sugars"`
		Salt      float64 `json:"salt"`
	} `json:"nutrients"`
	Rating *float64 `json:"rating"`
	Times  struct {
		Preparation *int `json:"preparation"`
		Cooking     *int `json:"cooking"`
	} `json:"times"`
	ImageKey string `json:"image_key"`
}

func (d RecipeData) toModel() models.Recipe {
	return models.Recipe{
		Name:        d.Name,
		Description: d.Description,
		Category:    d.Category,
		Subcategory: d.Subcategory,
		Ingredients: models.JSONBStringArray(d.Ingredients),
		Kcal:        d.Nutrients.Kcal,
		Carbs:       d.Nutrients.Carbs,
		Fat:         d.Nutrients.Fat,
		Protein:     d.Nutrients.Protein,
		Fiber:       d.Nutrients.Fibre,
		Saturates:   d.Nutrients.Saturates,
		Sugars:      d.Nutrients.Sugars,
		Salt:        d.Nutrients.Salt,
		Rating:      d.Rating,
		PrepMinutes: d.Times.Preparation,
		CookMinutes: d.Times.Cooking,
		ImageKey:    d.ImageKey,
	}
}

func main() {
	file := flag.String("file", "recipes.json", "JSON file with an array of recipes")
	migrationsDir := flag.String("migrations", "migrations", "Directory holding the SQL migrations")
	flag.Parse()

	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if err := run(*file, *migrationsDir, log); err != nil {
		log.Fatal("seeding failed", zap.Error(err))
	}
}

func run(file, migrationsDir string, log *zap.Logger) error {
	recipes, err := readRecipes(file)
	if err != nil {
		return err
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	db, err := database.New(cfg, log)
	if err != nil {
		return err
	}
	if err := database.RunMigrations(db, migrationsDir, log); err != nil {
		return err
	}

	svc := service.NewRecipeService(db, service.NewEmbeddingService(), log)
	n, err := svc.ImportRecipes(context.Background(), recipes)
	if err != nil {
		return err
	}

	log.Info("successfully seeded recipes", zap.Int("count", n), zap.String("file", file))
	return nil
}

func readRecipes(path string) ([]models.Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var entries []RecipeData
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}

	recipes := make([]models.Recipe, 0, len(entries))
	for i, e := range entries {
		if e.Name == "" {
			return nil, fmt.Errorf("recipe %d has no name", i)
		}
		recipes = append(recipes, e.toModel())
	}
	return recipes, nil
}
