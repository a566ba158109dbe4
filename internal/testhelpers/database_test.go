package testhelpers

import (
	"os"
	"path/filepath"
	"testing"

	pgvector "github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/wellnessmate/backend/internal/models"
)

func TestMigrationsDir(t *testing.T) {
	_, err := os.Stat(filepath.Join(MigrationsDir(), "0001_create_recipes.sql"))
	assert.NoError(t, err)
}

func TestSetupSQLite(t *testing.T) {
	db := SetupSQLite(t)
	require.True(t, db.Migrator().HasTable(&models.Recipe{}))

	recipe := &models.Recipe{
		Name:      "Test Recipe",
		Kcal:      100,
		Embedding: pgvector.NewVector(make([]float32, models.EmbeddingDimensions)),
	}
	require.NoError(t, db.Create(recipe).Error)

	var count int64
	require.NoError(t, db.Model(&models.Recipe{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSetupPostgres(t *testing.T) {
	db := SetupPostgres(t)

	var extension string
	require.NoError(t, db.Raw("SELECT extname FROM pg_extension WHERE extname = 'vector'").Scan(&extension).Error)
	assert.Equal(t, "vector", extension)
	assert.True(t, db.Migrator().HasTable(&models.Recipe{}))
}
