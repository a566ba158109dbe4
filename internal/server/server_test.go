package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pageza/wellnessmate/backend/config"
	"github.com/pageza/wellnessmate/backend/internal/mocks"
)

func testConfig() *config.Config {
	return &config.Config{
		ServerHost:  "127.0.0.1",
		ServerPort:  "0",
		CORSOrigins: []string{"http://localhost:3000"},
	}
}

func TestNew(t *testing.T) {
	gin.SetMode(gin.TestMode)
	server := New(testConfig(), new(mocks.MockRecipeService), new(mocks.MockMealPlanService), nil, zap.NewNop())
	require.NotNil(t, server)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	server.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRunStopsOnCancel(t *testing.T) {
	gin.SetMode(gin.TestMode)
	server := New(testConfig(), new(mocks.MockRecipeService), new(mocks.MockMealPlanService), nil, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
