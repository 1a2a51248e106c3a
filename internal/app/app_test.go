package app

import (
	"bytes"
	"codex_backend/internal/config"
	"codex_backend/internal/model"
	"codex_backend/internal/service"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type stubModel struct {
	out   service.ModelOutput
	err   error
	calls int
}

func (s *stubModel) Analyze(ctx context.Context, code, language string) (service.ModelOutput, error) {
	s.calls++
	return s.out, s.err
}

func testConfig() *config.Config {
	return &config.Config{
		Server:    config.ServerConfig{Port: "0", Mode: "test", Version: "1.2.3", MaxBodyBytes: 1 << 20},
		History:   config.HistoryConfig{ListLimit: 20},
		CORS:      config.CORSConfig{AllowedOrigins: []string{"http://localhost:5173"}},
		RateLimit: config.RateLimitConfig{MaxRequests: 10000, WindowMinutes: 1},
	}
}

func newTestApp(t *testing.T, m service.ModelClient) *App {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&model.History{}))

	a := New(testConfig(), Dependencies{DB: db, Model: m})
	t.Cleanup(a.Close)
	return a
}

func doJSON(t *testing.T, a *App, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestRoot_Status(t *testing.T) {
	a := newTestApp(t, &stubModel{})

	w := doJSON(t, a, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decode[map[string]any](t, w)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, "1.2.3", body["version"])
	assert.NotEmpty(t, body["timestamp"])
}

func TestHealth_BothPaths(t *testing.T) {
	a := newTestApp(t, &stubModel{})

	for _, path := range []string{"/health", "/api/health"} {
		w := doJSON(t, a, http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, w.Code, path)

		body := decode[map[string]any](t, w)
		assert.Equal(t, "healthy", body["status"])
		assert.Equal(t, "connected", body["database"])
		assert.Equal(t, "disabled", body["redis"])
		assert.Contains(t, body, "uptime")
		assert.Contains(t, body, "memory")
	}
}

func TestAnalyze_Success(t *testing.T) {
	value := 2
	m := &stubModel{out: &service.ParsedOutput{
		Explanation:    "Sums two numbers.",
		TimeComplexity: "O(1)",
		Cyclomatic:     &service.RawCyclomatic{Value: &value},
		Algorithms:     []service.RawAlgorithm{{Name: "Addition", Confidence: "high"}},
	}}
	a := newTestApp(t, m)

	w := doJSON(t, a, http.MethodPost, "/api/analyze", map[string]any{
		"code":     "def add(a, b):\n    return a + b\n",
		"language": "python",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	result := decode[model.AnalysisResult](t, w)
	assert.Equal(t, "Sums two numbers.", result.Explanation)
	assert.Equal(t, "O(1)", result.Complexity.Time)
	assert.Equal(t, model.RatingLow, result.Complexity.Cyclomatic.Rating)
	assert.Equal(t, "python", result.Language)
	assert.Empty(t, result.Errors)
	require.Len(t, result.Algorithms.Detected, 1)
	assert.Equal(t, model.RatingHigh, result.Algorithms.Detected[0].Confidence)
}

func TestAnalyze_FallbackStillSucceeds(t *testing.T) {
	a := newTestApp(t, &stubModel{out: &service.FallbackOutput{Raw: "plain prose"}})

	w := doJSON(t, a, http.MethodPost, "/api/analyze", map[string]any{"code": "x = 1", "language": "python"})
	require.Equal(t, http.StatusOK, w.Code)

	result := decode[model.AnalysisResult](t, w)
	assert.Equal(t, "plain prose", result.Explanation)
	assert.Equal(t, service.FallbackQualityScore, result.Complexity.QualityScore)
}

func TestAnalyze_ValidationErrors(t *testing.T) {
	m := &stubModel{}
	a := newTestApp(t, m)

	cases := []struct {
		name string
		body any
		want string
	}{
		{"missing code", map[string]any{"language": "go"}, "Code and language are required"},
		{"missing language", map[string]any{"code": "x"}, "Code and language are required"},
		{"blank code", map[string]any{"code": "   ", "language": "go"}, "Code and language are required"},
		{"non string code", map[string]any{"code": 42, "language": "go"}, "Code and language are required"},
		{"unsupported language", map[string]any{"code": "x", "language": "cobol"}, "Unsupported language: cobol"},
		{"malformed json", `{"code":`, "Code and language are required"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(t, a, http.MethodPost, "/api/analyze", tc.body)
			require.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tc.want, decode[map[string]string](t, w)["error"])
		})
	}
	assert.Zero(t, m.calls)
}

func TestAnalyze_UpstreamFailure(t *testing.T) {
	a := newTestApp(t, &stubModel{err: errors.New("connection reset")})

	w := doJSON(t, a, http.MethodPost, "/api/analyze", map[string]any{"code": "x = 1", "language": "python"})
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Analysis failed. Please check your code and try again.", decode[map[string]string](t, w)["error"])
}

func TestAnalyze_BodyTooLarge(t *testing.T) {
	a := newTestApp(t, &stubModel{})

	payload := `{"code":"` + strings.Repeat("x", 2<<20) + `","language":"go"}`
	w := doJSON(t, a, http.MethodPost, "/api/analyze", payload)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestHistory_Flow(t *testing.T) {
	a := newTestApp(t, &stubModel{})

	w := doJSON(t, a, http.MethodPost, "/api/history", map[string]string{
		"user_id": "u1", "code": "print(1)", "language": "python",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "History saved", decode[map[string]string](t, w)["message"])

	w = doJSON(t, a, http.MethodGet, "/api/history/u1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[[]map[string]any](t, w)
	require.Len(t, list, 1)
	assert.Equal(t, "u1", list[0]["user_id"])
	assert.Equal(t, "python", list[0]["language"])
	assert.NotEmpty(t, list[0]["created_at"])
	id, _ := list[0]["_id"].(string)
	require.NotEmpty(t, id)

	w = doJSON(t, a, http.MethodDelete, "/api/history/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "History deleted", decode[map[string]string](t, w)["message"])

	w = doJSON(t, a, http.MethodDelete, "/api/history/"+id, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "History item not found", decode[map[string]string](t, w)["error"])

	w = doJSON(t, a, http.MethodGet, "/api/history/u1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", strings.TrimSpace(w.Body.String()))
}

func TestHistory_MissingFields(t *testing.T) {
	a := newTestApp(t, &stubModel{})

	w := doJSON(t, a, http.MethodPost, "/api/history", map[string]string{"user_id": "u1", "code": "x"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Missing required fields", decode[map[string]string](t, w)["error"])
}

func TestHistory_StoreFailure(t *testing.T) {
	a := newTestApp(t, &stubModel{})
	sqlDB, err := a.DB.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	w := doJSON(t, a, http.MethodGet, "/api/history/u1", nil)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Failed to fetch history", decode[map[string]string](t, w)["error"])

	w = doJSON(t, a, http.MethodPost, "/api/history", map[string]string{
		"user_id": "u1", "code": "x", "language": "go",
	})
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Failed to save history", decode[map[string]string](t, w)["error"])
}

func TestNoRoute(t *testing.T) {
	a := newTestApp(t, &stubModel{})

	w := doJSON(t, a, http.MethodGet, "/api/nope", nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	body := decode[map[string]any](t, w)
	assert.Equal(t, "Not Found", body["error"])
	assert.Equal(t, "Route GET /api/nope not found", body["message"])
	routes, ok := body["availableRoutes"].([]any)
	require.True(t, ok)
	assert.Contains(t, routes, "POST /api/analyze")
	assert.Contains(t, routes, "GET /api/history/:userId")
	assert.NotContains(t, routes, "GET /metrics")
}

func TestApplyConfig_UpdatesQuota(t *testing.T) {
	a := newTestApp(t, &stubModel{})

	cfg := testConfig()
	cfg.RateLimit.DailyAnalyzeQuota = 7
	a.reload(cfg)

	assert.Equal(t, 7, a.quota.Limit())
}
