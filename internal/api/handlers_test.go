// internal/api/handlers_test.go
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyberops/isora/internal/assessment"
	"github.com/cyberops/isora/internal/integrations"
	"github.com/cyberops/isora/internal/ioc"
	"github.com/cyberops/isora/internal/nis2"
	"github.com/cyberops/isora/internal/tenant"
)

func TestISO27001Flow(t *testing.T) {
	ts := newTestServer(t)
	token := adminToken(t)

	var created assessment.Assessment
	rec := ts.do(t, http.MethodPost, "/api/v1/iso27001/assessments",
		map[string]string{"name": "ISMS 2026"}, requestOpts{token: token})
	require.Equal(t, http.StatusCreated, rec.Code)
	decodeInto(t, rec, &created)
	assert.Len(t, created.Entries, 93)
	assert.Equal(t, "acme", created.TenantID)

	t.Run("single entry update", func(t *testing.T) {
		rec := ts.do(t, http.MethodPut,
			fmt.Sprintf("/api/v1/iso27001/assessments/%s/soa/A.5.1", created.ID),
			map[string]interface{}{"status": "compliant", "impl": 100},
			requestOpts{token: token})
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("bulk update", func(t *testing.T) {
		rec := ts.do(t, http.MethodPut,
			fmt.Sprintf("/api/v1/iso27001/assessments/%s/soa", created.ID),
			map[string]interface{}{"entries": map[string]interface{}{
				"A.5.2":  map[string]interface{}{"status": "partial", "impl": 50},
				"A.99.9": map[string]interface{}{"status": "gap"},
			}},
			requestOpts{token: token})
		require.Equal(t, http.StatusOK, rec.Code)

		var result assessment.BulkResult
		decodeInto(t, rec, &result)
		assert.Equal(t, 1, result.Updated)
		assert.Equal(t, 2, result.TotalSubmitted)
		assert.Equal(t, []string{"A.99.9"}, result.Skipped)
	})

	t.Run("overview", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet,
			fmt.Sprintf("/api/v1/iso27001/assessments/%s/overview", created.ID),
			nil, requestOpts{token: token})
		require.Equal(t, http.StatusOK, rec.Code)

		var overview assessment.Overview
		decodeInto(t, rec, &overview)
		assert.Equal(t, 93, overview.TotalControls)
		assert.Equal(t, 1, overview.TotalCompliant)
	})

	t.Run("json report download", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet,
			fmt.Sprintf("/api/v1/iso27001/assessments/%s/report?format=json", created.ID),
			nil, requestOpts{token: token})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "iso27001-report.json")
	})

	t.Run("pdf report is not implemented", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet,
			fmt.Sprintf("/api/v1/iso27001/assessments/%s/report?format=pdf", created.ID),
			nil, requestOpts{token: token})
		require.Equal(t, http.StatusNotImplemented, rec.Code)
	})

	t.Run("unknown assessment", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, "/api/v1/iso27001/assessments/ghost/overview",
			nil, requestOpts{token: token})
		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("foreign tenant cannot read or write", func(t *testing.T) {
		foreign := signToken(t, tokenOpts{tenantID: "other", role: "admin"})

		rec := ts.do(t, http.MethodGet,
			fmt.Sprintf("/api/v1/iso27001/assessments/%s", created.ID),
			nil, requestOpts{token: foreign})
		require.Equal(t, http.StatusNotFound, rec.Code)

		rec = ts.do(t, http.MethodPut,
			fmt.Sprintf("/api/v1/iso27001/assessments/%s/soa/A.5.1", created.ID),
			map[string]interface{}{"status": "gap"},
			requestOpts{token: foreign})
		require.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestNIS2Flow(t *testing.T) {
	ts := newTestServer(t)
	token := adminToken(t)

	create := map[string]interface{}{
		"incident_id":     "INC-9",
		"sector":          "health",
		"org_name":        "Klinik Nord",
		"member_state":    "DE",
		"detection_time":  time.Now().UTC().Format(time.RFC3339),
		"primary_contact": map[string]string{"name": "On Call", "email": "soc@example.com"},
	}
	rec := ts.do(t, http.MethodPost, "/api/v1/compliance/nis2/notifications", create, requestOpts{token: token})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var n nis2.Notification
	decodeInto(t, rec, &n)
	assert.Regexp(t, `^NIS2-[0-9A-F]{12}$`, n.ID)
	assert.Equal(t, "DE", n.MemberState)

	t.Run("duplicate incident conflicts", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/api/v1/compliance/nis2/notifications", create, requestOpts{token: token})
		require.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("early warning", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/api/v1/compliance/nis2/notifications/INC-9/early-warning",
			map[string]interface{}{"suspected_cause": "phishing", "cross_border": false},
			requestOpts{token: token})
		require.Equal(t, http.StatusCreated, rec.Code)

		var ew nis2.EarlyWarning
		decodeInto(t, rec, &ew)
		assert.Regexp(t, `^EW-[0-9A-F]{12}$`, ew.ID)
	})

	t.Run("deadlines reflect submissions", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, "/api/v1/compliance/nis2/notifications/INC-9/deadlines",
			nil, requestOpts{token: token})
		require.Equal(t, http.StatusOK, rec.Code)

		var deadlines nis2.Deadlines
		decodeInto(t, rec, &deadlines)
		assert.True(t, deadlines.EarlyWarning.Submitted)
		assert.False(t, deadlines.FinalReport.Submitted)
	})

	t.Run("foreign tenant cannot see the incident", func(t *testing.T) {
		foreign := signToken(t, tokenOpts{tenantID: "other", role: "admin"})
		rec := ts.do(t, http.MethodGet, "/api/v1/compliance/nis2/notifications/INC-9",
			nil, requestOpts{token: foreign})
		require.Equal(t, http.StatusNotFound, rec.Code)

		rec = ts.do(t, http.MethodPost, "/api/v1/compliance/nis2/notifications/INC-9/final-report",
			map[string]interface{}{"description": "d", "root_cause": "r"},
			requestOpts{token: foreign})
		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("unknown incident", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, "/api/v1/compliance/nis2/notifications/NOPE/deadlines",
			nil, requestOpts{token: token})
		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("invalid member state", func(t *testing.T) {
		bad := map[string]interface{}{
			"incident_id":     "INC-10",
			"sector":          "health",
			"org_name":        "X",
			"member_state":    "XX",
			"detection_time":  time.Now().UTC().Format(time.RFC3339),
			"primary_contact": map[string]string{"name": "a", "email": "a@example.com"},
		}
		rec := ts.do(t, http.MethodPost, "/api/v1/compliance/nis2/notifications", bad, requestOpts{token: token})
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestThreatIntelEndpoints(t *testing.T) {
	ts := newTestServer(t)
	token := adminToken(t)

	t.Run("create attaches tag techniques", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/api/v1/threat-intel/iocs",
			map[string]interface{}{"value": "EVIL.com.", "tags": []string{"ransomware"}, "confidence": 0.8},
			requestOpts{token: token})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var record ioc.IOC
		decodeInto(t, rec, &record)
		assert.Equal(t, "evil.com", record.Value)
		assert.Equal(t, ioc.TypeDomain, record.Type)
		assert.Contains(t, record.MitreTechniques, "T1486 - Data Encrypted for Impact")
	})

	t.Run("duplicate create conflicts", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/api/v1/threat-intel/iocs",
			map[string]interface{}{"value": "evil.com", "confidence": 0.5},
			requestOpts{token: token})
		require.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("invalid value", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/api/v1/threat-intel/iocs",
			map[string]interface{}{"value": "999.999.999.999", "type": "ip"},
			requestOpts{token: token})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "ioc_value_invalid")
	})

	t.Run("bulk dedups and merges", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/api/v1/threat-intel/iocs/bulk",
			map[string]interface{}{"iocs": []map[string]interface{}{
				{"value": "1.2.3.4", "confidence": 0.6, "tags": []string{"c2"}},
				{"value": "1.2.3.4", "confidence": 0.9, "tags": []string{"botnet"}},
				{"value": "evil.com", "confidence": 0.7},
				{"value": "not an indicator at all \x01", "type": "ip"},
			}},
			requestOpts{token: token})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var result bulkIOCResult
		decodeInto(t, rec, &result)
		assert.Equal(t, 1, result.Created, "duplicates collapse to one create")
		assert.Equal(t, 1, result.Updated, "evil.com already exists")
		assert.Equal(t, 1, result.Skipped)
	})

	t.Run("list is tenant scoped", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, "/api/v1/threat-intel/iocs?type=ip", nil, requestOpts{token: token})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "1.2.3.4")

		foreign := signToken(t, tokenOpts{tenantID: "other", role: "admin"})
		rec = ts.do(t, http.MethodGet, "/api/v1/threat-intel/iocs?type=ip", nil, requestOpts{token: foreign})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.NotContains(t, rec.Body.String(), "1.2.3.4")
	})

	t.Run("enrich reports unconfigured sources", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/api/v1/threat-intel/enrich",
			map[string]interface{}{"value": "8.8.8.8", "sources": []string{"virustotal"}},
			requestOpts{token: token})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "source not configured")
	})

	t.Run("feed create and list", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/api/v1/threat-intel/feeds",
			map[string]interface{}{
				"name":     "corp misp",
				"provider": "misp",
				"enabled":  true,
				"config": map[string]interface{}{
					"provider": "misp",
					"base_url": "https://misp.example.com",
					"api_key":  "k",
				},
			},
			requestOpts{token: token})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		rec = ts.do(t, http.MethodGet, "/api/v1/threat-intel/feeds", nil, requestOpts{token: token})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "corp misp")
	})
}

func TestWebhookSink(t *testing.T) {
	ts := newTestServer(t)
	integ := &integrations.Integration{TenantID: "acme", Name: "siem", Secret: "s3cret", Enabled: true}
	require.NoError(t, ts.integrations.Create(context.Background(), integ))

	payload := map[string]interface{}{
		"source": "siem",
		"indicators": []map[string]interface{}{
			{"value": "bad.example", "confidence": 0.6, "tags": []string{"phishing"}},
		},
	}

	t.Run("signed payload accepted", func(t *testing.T) {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		rec := ts.do(t, http.MethodPost, "/api/v1/integrations/webhook/"+integ.Token, payload,
			requestOpts{headers: map[string]string{"X-Webhook-Signature": integrations.Sign(raw, "s3cret")}})
		require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
		assert.Contains(t, rec.Body.String(), `"accepted":1`)

		stored, err := ts.iocRepo.GetByKey(context.Background(),
			tenant.Scope{TenantID: "acme"}, "bad.example", ioc.TypeDomain)
		require.NoError(t, err)
		assert.Equal(t, "siem", stored.Source)
	})

	t.Run("bad signature rejected", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/api/v1/integrations/webhook/"+integ.Token, payload,
			requestOpts{headers: map[string]string{"X-Webhook-Signature": "sha256=deadbeef"}})
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unknown token", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/api/v1/integrations/webhook/nope", payload, requestOpts{})
		require.Equal(t, http.StatusNotFound, rec.Code)
	})
}
