// internal/api/handlers_nis2.go
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cyberops/isora/internal/nis2"
)

func (s *Server) handleCreateNotification(w http.ResponseWriter, r *http.Request) {
	var in nis2.CreateInput
	if !s.decodeBody(w, r, &in) {
		return
	}

	n, err := s.nis2.CreateNotification(r.Context(), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, n)
}

func (s *Server) handleGetNotification(w http.ResponseWriter, r *http.Request) {
	n, err := s.nis2.GetNotification(r.Context(), chi.URLParam(r, "incident_id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (s *Server) handleGetDeadlines(w http.ResponseWriter, r *http.Request) {
	deadlines, err := s.nis2.GetDeadlines(r.Context(), chi.URLParam(r, "incident_id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, deadlines)
}

func (s *Server) handleEarlyWarning(w http.ResponseWriter, r *http.Request) {
	var in nis2.EarlyWarningInput
	if !s.decodeBody(w, r, &in) {
		return
	}

	ew, err := s.nis2.SubmitEarlyWarning(r.Context(), chi.URLParam(r, "incident_id"), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ew)
}

func (s *Server) handleIncidentNotification(w http.ResponseWriter, r *http.Request) {
	var in nis2.IncidentNotificationInput
	if !s.decodeBody(w, r, &in) {
		return
	}

	submission, err := s.nis2.SubmitIncidentNotification(r.Context(), chi.URLParam(r, "incident_id"), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, submission)
}

func (s *Server) handleFinalReport(w http.ResponseWriter, r *http.Request) {
	var in nis2.FinalReportInput
	if !s.decodeBody(w, r, &in) {
		return
	}

	report, err := s.nis2.SubmitFinalReport(r.Context(), chi.URLParam(r, "incident_id"), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, report)
}
