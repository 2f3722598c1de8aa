package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// TestMetricsMiddleware_UsesRoutePattern ensures the metrics middleware labels
// by the chi route pattern instead of the raw URL path.
func TestMetricsMiddleware_UsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(MetricsMiddleware)
	r.Get("/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("/items/{id}", http.MethodGet, "202"))
	for _, id := range []string{"1", "2"} {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/items/"+id, nil))
		if rr.Code != http.StatusAccepted {
			t.Fatalf("expected 202, got %d", rr.Code)
		}
	}
	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("/items/{id}", http.MethodGet, "202"))
	if after != before+2 {
		t.Fatalf("expected both requests under the route pattern: before=%v after=%v", before, after)
	}
}

func TestObservePrediction(t *testing.T) {
	before := testutil.ToFloat64(predictionsTotal.WithLabelValues("classical", "ok"))
	ObservePrediction("classical", "ok", 2*time.Millisecond)
	if got := testutil.ToFloat64(predictionsTotal.WithLabelValues("classical", "ok")); got != before+1 {
		t.Fatalf("ok counter: %v -> %v", before, got)
	}

	before = testutil.ToFloat64(predictionsTotal.WithLabelValues("quantum", "unspecified"))
	ObservePrediction("quantum", "", 0)
	if got := testutil.ToFloat64(predictionsTotal.WithLabelValues("quantum", "unspecified")); got != before+1 {
		t.Fatalf("empty outcome should count as unspecified: %v -> %v", before, got)
	}
}
