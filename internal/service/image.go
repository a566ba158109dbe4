package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/pageza/wellnessmate/backend/config"
	"github.com/pageza/wellnessmate/backend/internal/models"
)

// DefaultImageURLExpiry is the lifetime of presigned recipe image URLs. It
// outlives the detail cache TTL so cached URLs stay valid.
const DefaultImageURLExpiry = time.Hour

// presigner is satisfied by config.S3Config
type presigner interface {
	GeneratePresignedURL(ctx context.Context, objectKey string, expiration time.Duration) (string, error)
}

// ImageService presigns recipe images stored in S3
type ImageService struct {
	s3     presigner
	expiry time.Duration
	log    *zap.Logger
}

// NewImageService creates a new ImageService instance
func NewImageService(s3Config *config.S3Config, log *zap.Logger) *ImageService {
	return &ImageService{
		s3:     s3Config,
		expiry: DefaultImageURLExpiry,
		log:    log,
	}
}

// SignRecipes sets ImageURL on every recipe with an image key. Recipes whose
// URL cannot be signed keep an empty URL.
func (s *ImageService) SignRecipes(ctx context.Context, recipes []models.Recipe) {
	for i := range recipes {
		key := recipes[i].ImageKey
		if key == "" {
			continue
		}
		url, err := s.s3.GeneratePresignedURL(ctx, key, s.expiry)
		if err != nil {
			s.log.Warn("failed to presign recipe image", zap.String("key", key), zap.Error(err))
			continue
		}
		recipes[i].ImageURL = url
	}
}
