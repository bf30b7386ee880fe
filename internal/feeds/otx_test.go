// internal/feeds/otx_test.go
package feeds

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cyberops/isora/internal/ioc"
)

const otxPulseFixture = `{
  "results": [
    {
      "id": "pulse-1",
      "name": "APT28 infrastructure",
      "adversary": "APT28",
      "tags": ["phishing", "credential-theft"],
      "targeted_countries": ["Germany"],
      "industries": ["energy"],
      "attack_ids": ["T1071", "T1566"],
      "modified": "2024-06-01T10:00:00",
      "indicators": [
        {"indicator": "198.51.100.23", "type": "IPv4", "created": "2024-06-01T09:00:00"},
        {"indicator": "login.evil.example", "type": "hostname", "created": "2024-06-01T09:30:00"}
      ]
    },
    {
      "id": "pulse-2",
      "name": "Commodity malware drop",
      "adversary": "",
      "tags": ["malware"],
      "attack_ids": [],
      "modified": "2024-06-01T11:00:00",
      "indicators": [
        {"indicator": "d41d8cd98f00b204e9800998ecf8427e", "type": "FileHash-MD5", "created": ""}
      ]
    }
  ]
}`

func newOTXServer(t *testing.T, handler http.HandlerFunc) *OTXAdapter {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	adapter, err := NewOTX(Config{
		Provider: "otx",
		BaseURL:  srv.URL,
		APIKey:   "test-key",
		Timeout:  time.Second,
	}, zap.NewNop())
	require.NoError(t, err)
	return adapter
}

func TestOTX_FetchSince(t *testing.T) {
	since := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	adapter := newOTXServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/pulses/subscribed", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-OTX-API-KEY"))
		assert.Equal(t, "2024-05-01T00:00:00Z", r.URL.Query().Get("modified_since"))
		_, _ = w.Write([]byte(otxPulseFixture))
	})

	iocs, err := adapter.FetchSince(context.Background(), &since, 100)
	require.NoError(t, err)
	require.Len(t, iocs, 3)

	apt := iocs[0]
	assert.Equal(t, "198.51.100.23", apt.Value)
	assert.Equal(t, ioc.TypeIP, apt.Type)
	assert.Equal(t, ioc.ThreatHigh, apt.ThreatLevel, "APT adversary elevates the default")
	assert.Equal(t, otxConfidence, apt.Confidence)
	assert.Contains(t, apt.RelatedActors, "APT28")
	assert.ElementsMatch(t, []string{"T1071", "T1566"}, apt.MitreTechniques)
	assert.Subset(t, apt.Categories, []string{"Germany", "energy"})
	assert.Equal(t, "pulse:pulse-1", apt.SourceRef)

	commodity := iocs[2]
	assert.Equal(t, ioc.TypeMD5, commodity.Type)
	assert.Equal(t, ioc.ThreatMedium, commodity.ThreatLevel, "no adversary keeps the default")
	assert.Empty(t, commodity.RelatedActors)
}

func TestOTX_FetchSince_Backfill(t *testing.T) {
	adapter := newOTXServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.Query().Get("modified_since"))
		_, _ = w.Write([]byte(otxPulseFixture))
	})

	iocs, err := adapter.FetchSince(context.Background(), nil, 2)
	require.NoError(t, err)
	assert.Len(t, iocs, 2, "limit bounds the backfill")
}

func TestOTX_RateLimit(t *testing.T) {
	adapter := newOTXServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := adapter.FetchSince(context.Background(), nil, 10)
	rle, ok := AsRateLimit(err)
	require.True(t, ok)
	assert.Equal(t, 60*time.Second, rle.RetryAfter, "429 without a hint defaults to 60s")
}

func TestOTX_TestConnection(t *testing.T) {
	adapter := newOTXServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/user/me", r.URL.Path)
		_, _ = w.Write([]byte(`{"username":"soc"}`))
	})
	assert.NoError(t, adapter.TestConnection(context.Background()))

	t.Run("bad key", func(t *testing.T) {
		denied := newOTXServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})
		assert.ErrorIs(t, denied.TestConnection(context.Background()), ErrAuth)
	})
}

func TestOTX_LookupOne(t *testing.T) {
	adapter := newOTXServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/indicators/IPv4/198.51.100.23/general", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"indicator": "198.51.100.23",
			"pulse_info": {
				"count": 1,
				"pulses": [{"id": "pulse-1", "adversary": "APT28", "tags": ["phishing"], "attack_ids": ["T1071"]}]
			}
		}`))
	})

	result, err := adapter.LookupOne(context.Background(), "198.51.100.23", ioc.TypeIP)
	require.NoError(t, err)
	assert.Equal(t, ioc.ThreatHigh, result.ThreatLevel)
	assert.Contains(t, result.Tags, "phishing")
	assert.Contains(t, result.MitreTechniques, "T1071")

	t.Run("no pulses means not found", func(t *testing.T) {
		empty := newOTXServer(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"indicator":"1.2.3.4","pulse_info":{"count":0,"pulses":[]}}`))
		})
		_, err := empty.LookupOne(context.Background(), "1.2.3.4", ioc.TypeIP)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
