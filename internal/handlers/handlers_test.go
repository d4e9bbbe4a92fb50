package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"cephai-backend/internal/auth"
	"cephai-backend/internal/config"
	"cephai-backend/internal/database"
	"cephai-backend/internal/inference"
	"cephai-backend/internal/models"
	"cephai-backend/internal/report"
)

// stubEngine replaces the model server in tests.
type stubEngine struct {
	result *inference.Result
	err    error
	calls  int
}

func (s *stubEngine) Predict(ctx context.Context, imageBytes []byte) (*inference.Result, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func (s *stubEngine) Healthcheck(ctx context.Context) error { return nil }

type testEnv struct {
	router *gin.Engine
	db     *gorm.DB
	engine *stubEngine
	cfg    *config.Config
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{
		JWTSecret:        "test-secret",
		TokenLifetime:    24 * time.Hour,
		UploadDir:        t.TempDir(),
		OutputDir:        t.TempDir(),
		PublicBaseURL:    "http://localhost:8000",
		ModelName:        "ceph_landmark_model",
		InferenceTimeout: 2 * time.Second,
	}

	reports, err := report.NewGenerator(cfg.OutputDir, zerolog.Nop())
	require.NoError(t, err)

	engine := &stubEngine{
		result: &inference.Result{
			ModelVersion: "v1.0",
			Landmarks:    models.Landmarks{{Name: "P1", X: 0.5, Y: 0.5}},
		},
	}

	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.TokenLifetime)
	h := New(db, cfg, tokens, engine, reports, zerolog.Nop())

	return &testEnv{router: h.SetupRouter(), db: db, engine: engine, cfg: cfg}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) register(t *testing.T, username, role string) *httptest.ResponseRecorder {
	t.Helper()
	return e.do(t, "POST", "/auth/register", "", gin.H{
		"username": username,
		"password": "pw-" + username,
		"role":     role,
	})
}

func (e *testEnv) login(t *testing.T, username string) string {
	t.Helper()
	w := e.do(t, "POST", "/auth/token", "", gin.H{
		"username": username,
		"password": "pw-" + username,
	})
	require.Equal(t, 200, w.Code, w.Body.String())
	var resp struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken
}

func (e *testEnv) registerAndLogin(t *testing.T, username, role string) string {
	t.Helper()
	w := e.register(t, username, role)
	require.Equal(t, 200, w.Code, w.Body.String())
	return e.login(t, username)
}

func (e *testEnv) createPatient(t *testing.T, token, name string) uint {
	t.Helper()
	w := e.do(t, "POST", "/patients", token, gin.H{"name": name})
	require.Equal(t, 200, w.Code, w.Body.String())
	var p models.Patient
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	require.NotZero(t, p.ID)
	return p.ID
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 64, 48))
	for y := 0; y < 48; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, color.Gray{Y: uint8((x * y) % 256)})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func (e *testEnv) predictRequest(t *testing.T, token string, patientID uint) *httptest.ResponseRecorder {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	fw, err := mw.CreateFormFile("file", "xray.png")
	require.NoError(t, err)
	_, err = fw.Write(testPNG(t))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", fmt.Sprintf("/predict/%d", patientID), body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}
