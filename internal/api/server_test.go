// internal/api/server_test.go
package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cyberops/isora/internal/assessment"
	"github.com/cyberops/isora/internal/compliance"
	"github.com/cyberops/isora/internal/config"
	"github.com/cyberops/isora/internal/enrich"
	"github.com/cyberops/isora/internal/framework"
	"github.com/cyberops/isora/internal/integrations"
	"github.com/cyberops/isora/internal/nis2"
	"github.com/cyberops/isora/internal/repository"
)

const testSecret = "test-secret"

type testServer struct {
	*Server
	iocRepo      *repository.MemoryIOCRepository
	feedRepo     *repository.MemoryFeedRepository
	integrations *integrations.MemoryStore
}

func newTestServer(t *testing.T, mutate ...func(*config.Config)) *testServer {
	t.Helper()

	cfg := config.Default()
	cfg.JWT.Secret = testSecret
	cfg.Database.URL = "postgres://localhost/isora_test"
	cfg.RateLimit.Enabled = false
	for _, m := range mutate {
		m(cfg)
	}

	catalog := framework.NewCatalog()
	ts := &testServer{
		iocRepo:      repository.NewMemoryIOCRepository(),
		feedRepo:     repository.NewMemoryFeedRepository(),
		integrations: integrations.NewMemoryStore(),
	}
	ts.Server = NewServer(Deps{
		Config:       cfg,
		Logger:       zap.NewNop(),
		Assessments:  assessment.NewService(assessment.NewMemoryStore(), nil),
		Catalog:      catalog,
		Evaluator:    compliance.NewEvaluator(catalog, nil),
		NIS2:         nis2.NewEngine(nis2.NewMemoryStore(), nil),
		IOCs:         ts.iocRepo,
		Feeds:        ts.feedRepo,
		Enricher:     enrich.NewAggregator(time.Hour, nil),
		Integrations: ts.integrations,
	})
	return ts
}

type tokenOpts struct {
	tenantID   string
	role       string
	superAdmin bool
	tenants    []string
	tokenType  string
	expired    bool
}

func signToken(t *testing.T, opts tokenOpts) string {
	t.Helper()

	if opts.tokenType == "" {
		opts.tokenType = "access"
	}
	expiry := time.Now().Add(time.Hour)
	if opts.expired {
		expiry = time.Now().Add(-time.Hour)
	}
	claims := &Claims{
		TenantID:         opts.tenantID,
		Role:             opts.role,
		IsSuperAdmin:     opts.superAdmin,
		AvailableTenants: opts.tenants,
		TokenType:        opts.tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(expiry),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return raw
}

func adminToken(t *testing.T) string {
	return signToken(t, tokenOpts{tenantID: "acme", role: "admin"})
}

type requestOpts struct {
	token    string
	tenantID string
	headers  map[string]string
}

func (ts *testServer) do(t *testing.T, method, path string, body interface{}, opts requestOpts) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if opts.token != "" {
		req.Header.Set("Authorization", "Bearer "+opts.token)
	}
	if opts.tenantID != "" {
		req.Header.Set("X-Tenant-ID", opts.tenantID)
	}
	for k, v := range opts.headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	ts.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeInto(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst), rec.Body.String())
}
