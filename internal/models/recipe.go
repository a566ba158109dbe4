package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

// EmbeddingDimensions is the length of Recipe.Embedding.
const EmbeddingDimensions = 64

// JSONBStringArray is a custom type for handling string arrays in JSONB
type JSONBStringArray []string

// Value implements the driver.Valuer interface
func (a JSONBStringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface
func (a *JSONBStringArray) Scan(value interface{}) error {
	if value == nil {
		*a = JSONBStringArray{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("unsupported type for JSONBStringArray: %T", value)
	}

	return json.Unmarshal(bytes, a)
}

// Recipe is a recipe record in the store. ProteinScore and NutritionScore are
// computed at ingestion time on a 0-100 scale.
type Recipe struct {
	ID             uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
	DeletedAt      gorm.DeletedAt   `gorm:"index" json:"-"`
	Name           string           `gorm:"size:255;not null" json:"name"`
	Description    string           `gorm:"type:text" json:"description"`
	Category       string           `gorm:"size:50" json:"category"`
	Subcategory    string           `gorm:"size:50" json:"subcategory"`
	Ingredients    JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"ingredients"`
	Kcal           float64          `gorm:"type:float;index" json:"kcal"`
	Carbs          float64          `gorm:"type:float" json:"carbs"`
	Fat            float64          `gorm:"type:float" json:"fat"`
	Protein        float64          `gorm:"type:float" json:"protein"`
	Fiber          float64          `gorm:"type:float" json:"fiber"`
	Saturates      float64          `gorm:"type:float" json:"saturates"`
	Sugars         float64          `gorm:"type:float" json:"sugars"`
	Salt           float64          `gorm:"type:float" json:"salt"`
	ProteinScore   float64          `gorm:"type:float" json:"protein_score"`
	NutritionScore int              `gorm:"index" json:"nutrition_score"`
	Rating         *float64         `gorm:"type:float" json:"rating,omitempty"`
	PrepMinutes    *int             `json:"prep_minutes,omitempty"`
	CookMinutes    *int             `json:"cook_minutes,omitempty"`
	ImageKey       string           `gorm:"size:255" json:"-"`
	ImageURL       string           `gorm:"-" json:"image_url,omitempty"`
	Embedding      pgvector.Vector  `gorm:"type:vector(64)" json:"-"`
}

// BeforeCreate assigns an ID when the caller did not.
func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// WeightFor resolves a sampling weight key against the recipe. The second
// result is false when the recipe has no value for the key.
func (r *Recipe) WeightFor(key string) (float64, bool) {
	switch key {
	case "rating":
		if r.Rating == nil {
			return 0, false
		}
		return *r.Rating, true
	case "kcal":
		return r.Kcal, true
	case "protein":
		return r.Protein, true
	case "protein_score":
		return r.ProteinScore, true
	case "nutrition_score":
		return float64(r.NutritionScore), true
	default:
		return 0, false
	}
}
