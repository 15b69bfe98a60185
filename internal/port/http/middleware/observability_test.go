package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Abdurahmanit/GroupProject/plant-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/plant-service/internal/platform/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObservability_RequestIDAndRouteLabel(t *testing.T) {
	m := metrics.NewManager("test")
	r := chi.NewRouter()
	r.Use(Observability(logger.NewNop(), m))

	var seen string
	r.Get("/plant/{id}", func(w http.ResponseWriter, req *http.Request) {
		seen = RequestIDFromContext(req.Context())
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/plant/abc123", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get("X-Request-ID"))
	assert.Equal(t, 1, testutil.CollectAndCount(m.HTTPRequestDuration, "test_http_request_duration_seconds"))

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/plant/xyz", nil)
	req.Header.Set("X-Request-ID", "fixed-id")
	r.ServeHTTP(rec, req)

	assert.Equal(t, "fixed-id", rec.Header().Get("X-Request-ID"))
	assert.Equal(t, 1, testutil.CollectAndCount(m.HTTPRequestDuration, "test_http_request_duration_seconds"))
}
