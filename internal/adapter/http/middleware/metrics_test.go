package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestHTTPMetricsRecordsRoutePattern(t *testing.T) {
	testCases := []struct {
		name       string
		method     string
		path       string
		pattern    string
		statusCode int
	}{
		{
			name:       "uses the route pattern for trip paths",
			method:     http.MethodGet,
			path:       "/api/v1/trips/01HXYZ/settlement",
			pattern:    "/api/v1/trips/{tripID}/settlement",
			statusCode: http.StatusTeapot,
		},
		{
			name:       "static path",
			method:     http.MethodPost,
			path:       "/health",
			pattern:    "/health",
			statusCode: http.StatusCreated,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := NewHTTPMetrics(prometheus.NewRegistry())

			handlerCalled := false
			r := chi.NewRouter()
			r.Use(m.Wrap)
			r.MethodFunc(tc.method, tc.pattern, func(w http.ResponseWriter, r *http.Request) {
				handlerCalled = true
				w.WriteHeader(tc.statusCode)
			})

			r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(tc.method, tc.path, nil))

			if !handlerCalled {
				t.Fatalf("next handler was not invoked")
			}
			if got := testutil.ToFloat64(m.requestsInFlight); got != 0 {
				t.Fatalf("expected in-flight gauge to return to 0, got %v", got)
			}

			counter := m.requestsTotal.WithLabelValues(tc.method, tc.pattern, strconv.Itoa(tc.statusCode))
			if got := testutil.ToFloat64(counter); got != 1 {
				t.Fatalf("expected counter to be 1, got %v", got)
			}
		})
	}
}

func TestRoutePatternWithoutRouter(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/nowhere", nil)
	if got := routePattern(req); got != "unmatched" {
		t.Fatalf("routePattern() = %q, expected unmatched", got)
	}
}
