package inference

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cephai-backend/internal/models"
)

func TestPredictSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/v1/landmarks", r.URL.Path)

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Equal(t, []byte("fake image bytes"), body)

		json.NewEncoder(w).Encode(predictResponse{
			OK:           true,
			ModelVersion: "v1.0",
			Landmarks: models.Landmarks{
				{Name: "S", X: 0.31, Y: 0.22},
				{Name: "N", X: 0.52, Y: 0.18},
			},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	result, err := client.Predict(context.Background(), []byte("fake image bytes"))
	require.NoError(t, err)
	assert.Equal(t, "v1.0", result.ModelVersion)
	require.Len(t, result.Landmarks, 2)
	assert.Equal(t, "S", result.Landmarks[0].Name)
}

func TestPredictServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	_, err := client.Predict(context.Background(), []byte("img"))
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestPredictModelError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(predictResponse{OK: false, Error: "unreadable image"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	_, err := client.Predict(context.Background(), []byte("img"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnavailable)
	assert.Contains(t, err.Error(), "unreadable image")
}

func TestPredictConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening anymore

	client := NewClient(srv.URL, time.Second)
	_, err := client.Predict(context.Background(), []byte("img"))
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestHealthcheck(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/health", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	assert.NoError(t, client.Healthcheck(context.Background()))
}

func TestHealthcheckDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	assert.ErrorIs(t, client.Healthcheck(context.Background()), ErrUnavailable)
}
