// internal/api/handlers_compliance.go
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cyberops/isora/internal/compliance"
	"github.com/cyberops/isora/internal/framework"
)

type evaluateRequest struct {
	Frameworks []framework.Framework      `json:"frameworks"`
	Input      compliance.EvaluationInput `json:"input"`
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "schema_invalid", "Malformed JSON body")
		return
	}
	if len(req.Frameworks) == 0 {
		writeError(w, http.StatusBadRequest, "schema_invalid", "frameworks must not be empty")
		return
	}

	report, err := s.evaluator.EvaluateFrameworks(req.Frameworks, req.Input)
	if err != nil {
		switch {
		case errors.Is(err, framework.ErrUnknownFramework):
			writeError(w, http.StatusBadRequest, "unknown_framework", err.Error())
		case errors.Is(err, framework.ErrUnknownPhase):
			writeError(w, http.StatusBadRequest, "unknown_phase", err.Error())
		default:
			writeServiceError(w, err)
		}
		return
	}
	writeJSON(w, http.StatusOK, report)
}

type coverageRequest struct {
	Completed map[framework.Framework][]string `json:"completed"`
}

func (s *Server) handleCoverage(w http.ResponseWriter, r *http.Request) {
	var req coverageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "schema_invalid", "Malformed JSON body")
		return
	}

	coverage := s.evaluator.ComputeCrossFrameworkCoverage(req.Completed)
	writeJSON(w, http.StatusOK, coverage)
}
