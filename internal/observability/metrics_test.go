package observability

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_ObserveRequest(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.ObserveRequest("GET", "/api/v1/recipe/:id", 200, 15*time.Millisecond)
	m.ObserveRequest("GET", "/api/v1/recipe/:id", 200, 5*time.Millisecond)
	m.ObserveRequest("GET", "", 404, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/api/v1/recipe/:id", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "unmatched", "404")))
}

func TestMetrics_AuthFailure(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	m.AuthFailure("invalid_credentials")
	m.AuthFailure("invalid_credentials")
	m.AuthFailure("invalid_token")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.AuthFailures.WithLabelValues("invalid_credentials")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AuthFailures.WithLabelValues("invalid_token")))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	m.ObserveRequest("GET", "/", 200, time.Millisecond)
	m.AuthFailure("x")
}

func TestRegistry_Handler(t *testing.T) {
	r := NewRegistry()
	r.Metrics().AuthFailure("missing_token")

	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "mazeh_auth_failures_total")
	assert.Contains(t, string(body), "go_goroutines")
}
