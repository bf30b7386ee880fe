// internal/api/middleware_test.go
package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyberops/isora/internal/config"
	"github.com/cyberops/isora/internal/ratelimit"
	"github.com/cyberops/isora/internal/tenant"
)

func TestClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"forwarded chain takes leftmost", map[string]string{"X-Forwarded-For": "203.0.113.9, 10.0.0.1"}, "10.0.0.2:1234", "203.0.113.9"},
		{"real ip fallback", map[string]string{"X-Real-IP": "203.0.113.7"}, "10.0.0.2:1234", "203.0.113.7"},
		{"direct peer", nil, "192.0.2.4:5678", "192.0.2.4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, clientIP(req))
		})
	}
}

func TestHealth_BypassesAuth(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/health", nil, requestOpts{})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"healthy"`)
}

func TestRequireAuth(t *testing.T) {
	ts := newTestServer(t)

	t.Run("missing token", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, "/api/v1/iso27001/controls", nil, requestOpts{})
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "unauthenticated")
	})

	t.Run("expired token", func(t *testing.T) {
		token := signToken(t, tokenOpts{tenantID: "acme", role: "admin", expired: true})
		rec := ts.do(t, http.MethodGet, "/api/v1/iso27001/controls", nil, requestOpts{token: token})
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "token_expired")
	})

	t.Run("refresh token rejected", func(t *testing.T) {
		token := signToken(t, tokenOpts{tenantID: "acme", role: "admin", tokenType: "refresh"})
		rec := ts.do(t, http.MethodGet, "/api/v1/iso27001/controls", nil, requestOpts{token: token})
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, "/api/v1/iso27001/controls", nil, requestOpts{token: adminToken(t)})
		require.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestClaimNames(t *testing.T) {
	// Tokens are minted by an external identity service; the claim keys
	// are a contract, not an implementation detail.
	ts := newTestServer(t)

	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":               "user-7",
		"tenant_id":         "acme",
		"org_role":          "admin",
		"available_tenants": []string{"sister"},
		"type":              "access",
		"exp":               time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	rec := ts.do(t, http.MethodGet, "/api/v1/threat-intel/feeds", nil, requestOpts{token: raw})
	require.Equal(t, http.StatusOK, rec.Code, "org_role claim must satisfy the admin gate")

	rec = ts.do(t, http.MethodGet, "/api/v1/threat-intel/iocs", nil,
		requestOpts{token: raw, tenantID: "sister"})
	require.Equal(t, http.StatusOK, rec.Code, "available_tenants claim must allow the switch")
}

func TestTenantOverride(t *testing.T) {
	ts := newTestServer(t)

	t.Run("member cannot switch to foreign tenant", func(t *testing.T) {
		token := signToken(t, tokenOpts{tenantID: "acme", role: "member"})
		rec := ts.do(t, http.MethodGet, "/api/v1/threat-intel/iocs", nil,
			requestOpts{token: token, tenantID: "other"})
		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("member switches to an available tenant", func(t *testing.T) {
		token := signToken(t, tokenOpts{tenantID: "acme", role: "member", tenants: []string{"sister"}})
		rec := ts.do(t, http.MethodGet, "/api/v1/threat-intel/iocs", nil,
			requestOpts{token: token, tenantID: "sister"})
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("super admin switches anywhere", func(t *testing.T) {
		token := signToken(t, tokenOpts{tenantID: "root", role: "admin", superAdmin: true})
		rec := ts.do(t, http.MethodGet, "/api/v1/threat-intel/iocs", nil,
			requestOpts{token: token, tenantID: "anyone"})
		require.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRequireRole(t *testing.T) {
	ts := newTestServer(t)

	t.Run("member cannot manage feeds", func(t *testing.T) {
		token := signToken(t, tokenOpts{tenantID: "acme", role: "member"})
		rec := ts.do(t, http.MethodGet, "/api/v1/threat-intel/feeds", nil, requestOpts{token: token})
		require.Equal(t, http.StatusForbidden, rec.Code)
		assert.Contains(t, rec.Body.String(), "insufficient_role")
	})

	t.Run("admin can", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, "/api/v1/threat-intel/feeds", nil, requestOpts{token: adminToken(t)})
		require.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRateLimitGate(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := ratelimit.NewRedisStore(client)
	plans := tenant.NewMemoryStore()

	limiter := ratelimit.NewLimiter(store, plans, nil,
		ratelimit.WithEndpointLimit("/api/v1/threat-intel/enrich", ratelimit.Limit{Cap: 1, Window: time.Minute}))

	ts := newTestServer(t, func(cfg *config.Config) { cfg.RateLimit.Enabled = true })
	ts.limiter = limiter
	ts.rateLimitEnabled = true
	ts.router = ts.buildRouter()

	t.Run("headers on allowed responses", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, "/api/v1/iso27001/controls", nil, requestOpts{token: adminToken(t)})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.NotEmpty(t, rec.Header().Get("X-RateLimit-Limit"))
		assert.NotEmpty(t, rec.Header().Get("X-RateLimit-Remaining"))
	})

	t.Run("endpoint limit rejects with 429", func(t *testing.T) {
		body := map[string]string{"value": "1.2.3.4"}
		first := ts.do(t, http.MethodPost, "/api/v1/threat-intel/enrich", body, requestOpts{token: adminToken(t)})
		require.Equal(t, http.StatusOK, first.Code)

		second := ts.do(t, http.MethodPost, "/api/v1/threat-intel/enrich", body, requestOpts{token: adminToken(t)})
		require.Equal(t, http.StatusTooManyRequests, second.Code)
		assert.NotEmpty(t, second.Header().Get("Retry-After"))
		assert.Contains(t, second.Body.String(), "rate_limited")
	})

	t.Run("health is never limited", func(t *testing.T) {
		for i := 0; i < 50; i += 1 {
			rec := ts.do(t, http.MethodGet, "/health", nil, requestOpts{})
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
		}
	})
}
