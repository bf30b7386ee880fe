// internal/api/errors.go
// HTTP error envelope. Every error response is
// {detail, error:{code, message}} with a machine-readable code.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cyberops/isora/internal/assessment"
	"github.com/cyberops/isora/internal/ioc"
	"github.com/cyberops/isora/internal/nis2"
	"github.com/cyberops/isora/internal/repository"
	"github.com/cyberops/isora/internal/tenant"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorEnvelope struct {
	Detail string    `json:"detail"`
	Error  errorBody `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorEnvelope{
		Detail: message,
		Error:  errorBody{Code: code, Message: message},
	})
}

// writeServiceError maps domain errors onto the closed HTTP taxonomy
func writeServiceError(w http.ResponseWriter, err error) {
	var validation *ioc.ValidationError
	switch {
	case errors.Is(err, tenant.ErrNoContext):
		writeError(w, http.StatusUnauthorized, "tenant_context_missing", "Tenant context missing")
	case errors.Is(err, tenant.ErrForbidden):
		writeError(w, http.StatusForbidden, "tenant_forbidden", "Tenant access forbidden")
	case errors.Is(err, assessment.ErrAssessmentNotFound):
		writeError(w, http.StatusNotFound, "assessment_not_found", err.Error())
	case errors.Is(err, assessment.ErrUnknownControl):
		writeError(w, http.StatusNotFound, "control_not_found", err.Error())
	case errors.Is(err, assessment.ErrInvalidStatus):
		writeError(w, http.StatusBadRequest, "schema_invalid", err.Error())
	case errors.Is(err, nis2.ErrNotificationNotFound):
		writeError(w, http.StatusNotFound, "notification_not_found", err.Error())
	case errors.Is(err, nis2.ErrNotificationExists):
		writeError(w, http.StatusConflict, "conflicting_write", err.Error())
	case errors.Is(err, nis2.ErrInvalidSector), errors.Is(err, nis2.ErrInvalidMemberState):
		writeError(w, http.StatusBadRequest, "schema_invalid", err.Error())
	case errors.As(err, &validation):
		writeError(w, http.StatusBadRequest, "ioc_value_invalid", err.Error())
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, repository.ErrConflict):
		writeError(w, http.StatusConflict, "conflicting_write", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal", "Internal server error")
	}
}
