package service

import (
	"hash/fnv"
	"math"
	"strings"
	"unicode"

	pgvector "github.com/pgvector/pgvector-go"

	"github.com/pageza/wellnessmate/backend/internal/models"
)

// EmbeddingService produces deterministic hashed bag-of-words embeddings.
type EmbeddingService struct {
	dims int
}

// NewEmbeddingService creates an embedding service matching the recipe column size
func NewEmbeddingService() *EmbeddingService {
	return &EmbeddingService{dims: models.EmbeddingDimensions}
}

// GenerateEmbedding implements EmbeddingServiceInterface
func (s *EmbeddingService) GenerateEmbedding(text string) (pgvector.Vector, error) {
	return hashEmbedding(text, s.dims), nil
}

// hashEmbedding hashes every word of text into one of dims buckets and
// L2-normalizes the counts. Empty text yields the zero vector.
func hashEmbedding(text string, dims int) pgvector.Vector {
	vec := make([]float32, dims)
	for _, token := range tokenize(text) {
		h := fnv.New32a()
		h.Write([]byte(token))
		vec[h.Sum32()%uint32(len(vec))]++
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range vec {
			vec[i] = float32(float64(vec[i]) / norm)
		}
	}
	return pgvector.NewVector(vec)
}

// RecipeText is the text a recipe is embedded from.
func RecipeText(r *models.Recipe) string {
	parts := []string{r.Name, r.Description, r.Category, r.Subcategory}
	parts = append(parts, r.Ingredients...)
	return strings.Join(parts, " ")
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
