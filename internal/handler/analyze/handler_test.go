package analyze

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	analysis "github.com/zhouzirui/z-mood/backend/internal/analysis/emotion"
	analyzeService "github.com/zhouzirui/z-mood/backend/internal/service/analyze"
	"github.com/zhouzirui/z-mood/backend/internal/service/history"
	"github.com/zhouzirui/z-mood/backend/internal/service/sentiment"
)

type fixedClassifier struct {
	polarity sentiment.Polarity
	err      error
}

func (f fixedClassifier) Classify(_ context.Context, _ string) (sentiment.Polarity, error) {
	return f.polarity, f.err
}

func setupRouter(classifier analysis.PolarityClassifier) (*chi.Mux, *history.Store) {
	store := history.NewStore(history.DefaultCapacity)
	svc := analyzeService.NewService(analysis.NewEngine(nil, classifier), store, analyzeService.Options{})

	r := chi.NewRouter()
	New(svc).RegisterRoutes(r)
	return r, store
}

func post(r http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func decode(t *testing.T, resp *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	return out
}

func TestAnalyzeHappyText(t *testing.T) {
	r, store := setupRouter(fixedClassifier{})

	resp := post(r, `{"text": "I am so happy today!"}`)
	require.Equal(t, http.StatusOK, resp.Code)

	body := decode(t, resp)
	assert.Equal(t, "joy", body["dominant_emotion"])
	assert.Equal(t, "joy detected", body["trend"])
	assert.Equal(t, "low", body["trend_confidence"])
	assert.Equal(t, "bar_chart", body["visual_hint"])
	assert.Equal(t, float64(1), body["total_entries"])
	assert.Equal(t, analyzeService.Disclaimer, body["disclaimer"])

	scores := body["scores"].(map[string]any)
	assert.Equal(t, 0.9, scores["joy"])
	assert.Equal(t, 0.1, scores["neutral"])
	assert.Equal(t, 1, store.Count())
}

func TestAnalyzeInvalidInput(t *testing.T) {
	r, store := setupRouter(fixedClassifier{})

	cases := []struct {
		name    string
		body    string
		details string
	}{
		{"empty text", `{"text": ""}`, analyzeService.DetailsTextEmpty},
		{"blank text", `{"text": "   \n\t"}`, analyzeService.DetailsTextEmpty},
		{"missing text", `{}`, analyzeService.DetailsTextRequired},
		{"number text", `{"text": 42}`, analyzeService.DetailsTextRequired},
		{"null text", `{"text": null}`, analyzeService.DetailsTextRequired},
		{"not json", `text=hello`, analyzeService.DetailsTextRequired},
		{"too long", `{"text": "` + strings.Repeat("a", 5001) + `"}`, "Text exceeds maximum length of 5000 characters"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := post(r, tc.body)
			require.Equal(t, http.StatusBadRequest, resp.Code)
			body := decode(t, resp)
			assert.Equal(t, "Invalid input", body["error"])
			assert.Equal(t, tc.details, body["details"])
		})
	}
	assert.Equal(t, 0, store.Count())
}

func TestAnalyzeClassifierFailure(t *testing.T) {
	r, store := setupRouter(fixedClassifier{err: sentiment.ErrUnavailable})

	resp := post(r, `{"text": "The meeting is scheduled for 3 PM tomorrow."}`)
	require.Equal(t, http.StatusInternalServerError, resp.Code)

	body := decode(t, resp)
	assert.Equal(t, "Analysis failed", body["error"])
	assert.Contains(t, body["details"], "classifier unavailable")
	assert.Equal(t, 0, store.Count())
}

func TestAnalyzeNeutralFallback(t *testing.T) {
	r, _ := setupRouter(fixedClassifier{polarity: sentiment.Polarity{Label: sentiment.Positive, Confidence: 0.9}})

	resp := post(r, `{"text": "The meeting is scheduled for 3 PM tomorrow."}`)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "joy", decode(t, resp)["dominant_emotion"])
}

func TestStatus(t *testing.T) {
	r, _ := setupRouter(fixedClassifier{})
	post(r, `{"text": "wow"}`)

	req := httptest.NewRequest(http.MethodGet, "/analyze", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	body := decode(t, resp)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "/api/analyze", body["endpoint"])
	assert.Equal(t, "POST", body["method"])
	assert.Equal(t, true, body["model_ready"])
	assert.Equal(t, float64(1), body["total_entries"])
	assert.Equal(t, analyzeService.Version, body["version"])
}
