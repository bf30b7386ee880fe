// internal/metrics/metrics_test.go
package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndependentRegistries(t *testing.T) {
	// Two instances must not collide on registration.
	a := New()
	b := New()
	a.ObserveAdmission("allowed")
	b.ObserveAdmission("rejected")
}

func TestHandlerExposesCounters(t *testing.T) {
	m := New()
	m.ObserveRequest(http.MethodGet, "/api/v1/threat-intel/iocs", 200, 0.012)
	m.ObserveFeedSync("misp", "success", 3, 1, 0)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `isora_requests_total{method="GET",path="/api/v1/threat-intel/iocs",status="200"} 1`)
	assert.Contains(t, body, `isora_feed_syncs_total{provider="misp",status="success"} 1`)
	assert.Contains(t, body, `isora_feed_sync_iocs_total{action="new",provider="misp"} 3`)
}
