package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalysisCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewAnalysis(reg)

	m.ObserveSuccess("keyword", "joy", 0.01, 3)
	m.ObserveSuccess("keyword", "joy", 0.02, 4)
	m.ObserveFailure("validation")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Total.WithLabelValues("keyword", "joy")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Failures.WithLabelValues("validation")))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.HistoryEntries))
}

func TestAnalysisNilIsNoop(t *testing.T) {
	var m *Analysis
	m.ObserveSuccess("keyword", "joy", 0.01, 1)
	m.ObserveFailure("internal")
	m.SetEntries(2)
}

func TestHTTPMiddlewareUsesRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTP(reg)

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/api/items/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {})

	for i := 0; i < 2; i++ {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/items/42", nil))
	}
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/api/items/{id}", "418")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.RequestsTotal))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.InFlightGauge))
}

func TestHandlerServesRegistry(t *testing.T) {
	reg := NewRegistry()
	NewAnalysis(reg).ObserveFailure("validation")

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `zmood_analysis_failures_total{reason="validation"} 1`))
}
