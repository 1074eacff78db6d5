package routes

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rottenbot/inference-service/config"
	"github.com/rottenbot/inference-service/inference"
	"github.com/rottenbot/inference-service/recorder"
	"github.com/rottenbot/inference-service/utils"
)

func TestMain(m *testing.M) {
	os.Setenv("JWT_SECRET", "test-secret")
	os.Setenv("GIN_MODE", "test")
	_ = utils.InitLogger(config.AppConfig{LogLevel: "error"})
	os.Exit(m.Run())
}

type nopPredictor struct{}

func (nopPredictor) Predict([]byte, string) (inference.Result, error) {
	return inference.Result{}, nil
}

type nopRecorder struct{}

func (nopRecorder) Enqueue(recorder.Job) {}

func TestHealthEndpoint(t *testing.T) {
	r := SetupRouter(nopPredictor{}, nopRecorder{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestUnknownRoute(t *testing.T) {
	r := SetupRouter(nopPredictor{}, nopRecorder{})

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"detail":"Route not found"}`, w.Body.String())
}

func TestPredictRequiresAuthentication(t *testing.T) {
	r := SetupRouter(nopPredictor{}, nopRecorder{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/inference/predict", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"detail":"Not authenticated"}`, w.Body.String())
}
