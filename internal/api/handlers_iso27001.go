// internal/api/handlers_iso27001.go
package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/cyberops/isora/internal/assessment"
)

func (s *Server) handleListControls(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := intQuery(q.Get("page"), 1)
	pageSize := intQuery(q.Get("page_size"), 20)

	result := assessment.ListControls(
		assessment.Theme(q.Get("theme")), q.Get("search"), page, pageSize)
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleCreateAssessment(w http.ResponseWriter, r *http.Request) {
	var in assessment.CreateInput
	if !s.decodeBody(w, r, &in) {
		return
	}

	created, err := s.assessments.Create(r.Context(), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetAssessment(w http.ResponseWriter, r *http.Request) {
	a, err := s.assessments.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) handleUpdateSoAEntry(w http.ResponseWriter, r *http.Request) {
	var update assessment.EntryUpdate
	if !s.decodeBody(w, r, &update) {
		return
	}

	entry, err := s.assessments.UpdateEntry(r.Context(),
		chi.URLParam(r, "id"), chi.URLParam(r, "control_code"), update)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (s *Server) handleBulkUpdateSoA(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Entries map[string]assessment.EntryUpdate `json:"entries"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "schema_invalid", "Malformed JSON body")
		return
	}
	if len(body.Entries) == 0 {
		writeError(w, http.StatusBadRequest, "schema_invalid", "entries must not be empty")
		return
	}

	result, err := s.assessments.BulkUpdate(r.Context(), chi.URLParam(r, "id"), body.Entries)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleAssessmentOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := s.assessments.Overview(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}

func (s *Server) handleAssessmentReport(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format != "" && format != "json" {
		writeError(w, http.StatusNotImplemented, "not_implemented",
			"Only the json report format is available")
		return
	}

	report, err := s.assessments.Report(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	raw, err := report.ExportJSON()
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="iso27001-report.json"`)
	_, _ = w.Write(raw)
}

// decodeBody parses and validates a JSON request body
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "schema_invalid", "Malformed JSON body")
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, "schema_invalid", err.Error())
		return false
	}
	return true
}

func intQuery(v string, fallback int) int {
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
