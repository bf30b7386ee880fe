// internal/api/handlers_threatintel.go
package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/cyberops/isora/internal/enrich"
	"github.com/cyberops/isora/internal/feeds"
	"github.com/cyberops/isora/internal/ioc"
	"github.com/cyberops/isora/internal/repository"
	"github.com/cyberops/isora/internal/tenant"
)

// iocInput is the request shape for creating indicators
type iocInput struct {
	Value       string          `json:"value" validate:"required"`
	Type        ioc.Type        `json:"type,omitempty"`
	ThreatLevel ioc.ThreatLevel `json:"threat_level,omitempty"`
	Confidence  float64         `json:"confidence" validate:"min=0,max=1"`
	Tags        []string        `json:"tags,omitempty"`
	Categories  []string        `json:"categories,omitempty"`
	Source      string          `json:"source,omitempty"`
	SourceRef   string          `json:"source_ref,omitempty"`
}

// toIOC normalizes the input into the canonical model
func (in *iocInput) toIOC(now time.Time) (*ioc.IOC, error) {
	typ := in.Type
	if typ == "" || typ == ioc.TypeUnknown {
		typ = ioc.DetectType(in.Value)
	}
	if err := ioc.Validate(in.Value, typ); err != nil {
		return nil, err
	}

	level := in.ThreatLevel
	if level == "" {
		level = ioc.ThreatUnknown
	}
	record := &ioc.IOC{
		Value:       ioc.Normalize(in.Value, typ),
		Type:        typ,
		Status:      ioc.StatusActive,
		ThreatLevel: level,
		Confidence:  in.Confidence,
		Tags:        in.Tags,
		Categories:  in.Categories,
		Source:      in.Source,
		SourceRef:   in.SourceRef,
		FirstSeen:   now,
		LastSeen:    now,
	}
	record.RiskScore = ioc.RiskScore(record)

	// Tag-derived ATT&CK techniques attach after scoring.
	for _, technique := range enrich.TechniquesForTags(record.Tags) {
		record.MitreTechniques = append(record.MitreTechniques, technique)
	}
	return record, nil
}

func (s *Server) handleCreateIOC(w http.ResponseWriter, r *http.Request) {
	scope, err := tenant.ScopeFromContext(r.Context(), false)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	var in iocInput
	if !s.decodeBody(w, r, &in) {
		return
	}
	record, err := in.toIOC(time.Now().UTC())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if err := s.iocs.Create(r.Context(), scope, record); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, record)
}

type bulkIOCRequest struct {
	IOCs []iocInput `json:"iocs" validate:"required,min=1,max=1000,dive"`
}

type bulkIOCResult struct {
	Created int      `json:"created"`
	Updated int      `json:"updated"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors,omitempty"`
}

func (s *Server) handleBulkCreateIOCs(w http.ResponseWriter, r *http.Request) {
	scope, err := tenant.ScopeFromContext(r.Context(), false)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	var req bulkIOCRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	now := time.Now().UTC()
	batch := make([]ioc.IOC, 0, len(req.IOCs))
	var result bulkIOCResult
	for _, in := range req.IOCs {
		record, err := in.toIOC(now)
		if err != nil {
			result.Skipped += 1
			result.Errors = append(result.Errors, err.Error())
			continue
		}
		batch = append(batch, *record)
	}

	for _, record := range ioc.Deduplicate(batch) {
		existing, err := s.iocs.GetByKey(r.Context(), scope, record.Value, record.Type)
		if err == nil {
			merged := ioc.Merge(*existing, record)
			merged.ID = existing.ID
			merged.TenantID = existing.TenantID
			if err := s.iocs.Update(r.Context(), scope, &merged); err != nil {
				result.Skipped += 1
				result.Errors = append(result.Errors, err.Error())
				continue
			}
			result.Updated += 1
			continue
		}
		if !errors.Is(err, repository.ErrNotFound) {
			result.Skipped += 1
			result.Errors = append(result.Errors, err.Error())
			continue
		}
		if err := s.iocs.Create(r.Context(), scope, &record); err != nil {
			result.Skipped += 1
			result.Errors = append(result.Errors, err.Error())
			continue
		}
		result.Created += 1
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleListIOCs(w http.ResponseWriter, r *http.Request) {
	scope, err := tenant.ScopeFromContext(r.Context(), false)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	q := r.URL.Query()
	page := intQuery(q.Get("page"), 1)
	pageSize := intQuery(q.Get("page_size"), 50)
	if pageSize > 200 {
		pageSize = 200
	}
	filter := repository.IOCFilter{
		Type:        ioc.Type(q.Get("type")),
		ThreatLevel: ioc.ThreatLevel(q.Get("threat_level")),
		Status:      ioc.Status(q.Get("status")),
		Search:      q.Get("search"),
		Limit:       pageSize,
		Offset:      (page - 1) * pageSize,
	}

	records, total, err := s.iocs.List(r.Context(), scope, filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"iocs":      records,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

type enrichRequest struct {
	Value   string   `json:"value" validate:"required"`
	Type    ioc.Type `json:"type,omitempty"`
	Sources []string `json:"sources,omitempty"`
}

func (s *Server) handleEnrich(w http.ResponseWriter, r *http.Request) {
	var req enrichRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	result, err := s.enricher.Enrich(r.Context(), req.Value, req.Type, req.Sources)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type feedInput struct {
	Name          string       `json:"name" validate:"required,min=1,max=200"`
	Provider      string       `json:"provider" validate:"required"`
	Config        feeds.Config `json:"config" validate:"required"`
	Enabled       bool         `json:"enabled"`
	MinConfidence float64      `json:"min_confidence" validate:"min=0,max=1"`
	IOCTypes      []ioc.Type   `json:"ioc_types,omitempty"`
}

func (s *Server) handleListFeeds(w http.ResponseWriter, r *http.Request) {
	scope, err := tenant.ScopeFromContext(r.Context(), false)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	rows, err := s.feeds.List(r.Context(), scope)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"feeds": rows})
}

func (s *Server) handleCreateFeed(w http.ResponseWriter, r *http.Request) {
	scope, err := tenant.ScopeFromContext(r.Context(), false)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	var in feedInput
	if !s.decodeBody(w, r, &in) {
		return
	}

	feed := &repository.Feed{
		Name:          in.Name,
		Provider:      in.Provider,
		Config:        in.Config,
		Enabled:       in.Enabled,
		MinConfidence: in.MinConfidence,
		IOCTypes:      in.IOCTypes,
	}
	if err := s.feeds.Create(r.Context(), scope, feed); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, feed)
}
