// internal/api/handlers_webhook.go
package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/cyberops/isora/internal/integrations"
	"github.com/cyberops/isora/internal/ioc"
	"github.com/cyberops/isora/internal/repository"
	"github.com/cyberops/isora/internal/tenant"
)

const maxWebhookBody = 1 << 20 // 1 MiB

// webhookPayload is the inbound event shape. Indicators are optional;
// events without them are accepted and acknowledged.
type webhookPayload struct {
	Source     string     `json:"source"`
	EventType  string     `json:"event_type,omitempty"`
	Indicators []iocInput `json:"indicators,omitempty"`
}

// handleWebhook is the inbound sink. The URL token identifies the
// integration; a signature is required only when the integration has a
// shared secret.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	integ, err := s.integrations.GetByToken(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		// Unknown and disabled tokens are indistinguishable to callers.
		writeError(w, http.StatusNotFound, "not_found", "Unknown webhook")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "schema_invalid", "Unreadable body")
		return
	}
	if err := integ.Verify(body, r.Header.Get("X-Webhook-Signature")); err != nil {
		if errors.Is(err, integrations.ErrDisabled) {
			writeError(w, http.StatusNotFound, "not_found", "Unknown webhook")
			return
		}
		writeError(w, http.StatusUnauthorized, "invalid_signature", "Signature mismatch")
		return
	}

	var payload webhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "schema_invalid", "Malformed JSON body")
		return
	}

	scope := tenant.Scope{TenantID: integ.TenantID}
	now := time.Now().UTC()
	accepted, skipped := 0, 0
	for _, in := range payload.Indicators {
		if in.Source == "" {
			in.Source = integ.Name
		}
		record, err := in.toIOC(now)
		if err != nil {
			skipped += 1
			continue
		}
		if err := s.ingestIOC(r, scope, record); err != nil {
			skipped += 1
			s.logger.Warn("webhook indicator rejected",
				zap.String("integration", integ.Name),
				zap.String("key", record.Key()),
				zap.Error(err))
			continue
		}
		accepted += 1
	}

	writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"status":   "accepted",
		"accepted": accepted,
		"skipped":  skipped,
	})
}

// ingestIOC merges into an existing row or creates a new one
func (s *Server) ingestIOC(r *http.Request, scope tenant.Scope, record *ioc.IOC) error {
	existing, err := s.iocs.GetByKey(r.Context(), scope, record.Value, record.Type)
	if err == nil {
		merged := ioc.Merge(*existing, *record)
		merged.ID = existing.ID
		merged.TenantID = existing.TenantID
		return s.iocs.Update(r.Context(), scope, &merged)
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	return s.iocs.Create(r.Context(), scope, record)
}
