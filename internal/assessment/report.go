// internal/assessment/report.go
package assessment

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/cyberops/isora/internal/compliance"
)

// ThemeStats aggregates SoA entries of one theme
type ThemeStats struct {
	Theme          Theme   `json:"theme"`
	TotalControls  int     `json:"total_controls"`
	Compliant      int     `json:"compliant"`
	Partial        int     `json:"partial"`
	Gaps           int     `json:"gaps"`
	NotEvaluated   int     `json:"not_evaluated"`
	NotApplicable  int     `json:"not_applicable"`
	Score          float64 `json:"score"`
	Implementation float64 `json:"implementation_avg"`
}

// Overview is the theme-wise assessment summary
type Overview struct {
	AssessmentID   string       `json:"assessment_id"`
	Name           string       `json:"name"`
	Status         string       `json:"status"`
	TotalControls  int          `json:"total_controls"`
	TotalCompliant int          `json:"total_compliant"`
	TotalPartial   int          `json:"total_partial"`
	TotalGaps      int          `json:"total_gaps"`
	OverallScore   float64      `json:"overall_score"`
	Themes         []ThemeStats `json:"themes"`
}

// Report is the exportable assessment document
type Report struct {
	GeneratedAt time.Time  `json:"generated_at"`
	Overview    Overview   `json:"overview"`
	Entries     []SoAEntry `json:"entries"`
}

// Overview computes the theme-wise summary. Non-applicable entries are
// excluded from scoring; the score rule matches the compliance engine.
func (s *Service) Overview(ctx context.Context, assessmentID string) (*Overview, error) {
	a, err := s.get(ctx, assessmentID)
	if err != nil {
		return nil, err
	}

	byTheme := make(map[Theme]*ThemeStats)
	implSums := make(map[Theme]int)
	order := []Theme{ThemeOrganizational, ThemePeople, ThemePhysical, ThemeTechnological}
	for _, theme := range order {
		byTheme[theme] = &ThemeStats{Theme: theme}
	}

	out := &Overview{
		AssessmentID: a.ID,
		Name:         a.Name,
		Status:       a.Status,
	}

	for _, entry := range a.Entries {
		stats := byTheme[entry.Theme]
		if !entry.Applicable {
			stats.NotApplicable += 1
			continue
		}
		stats.TotalControls += 1
		out.TotalControls += 1
		implSums[entry.Theme] += entry.Implementation

		switch entry.Status {
		case StatusCompliant:
			stats.Compliant += 1
			out.TotalCompliant += 1
		case StatusPartial:
			stats.Partial += 1
			out.TotalPartial += 1
		case StatusGap:
			stats.Gaps += 1
			out.TotalGaps += 1
		default:
			stats.NotEvaluated += 1
		}
	}

	for _, theme := range order {
		stats := byTheme[theme]
		stats.Score = compliance.Score(stats.Compliant, stats.Partial, stats.TotalControls)
		if stats.TotalControls > 0 {
			stats.Implementation = float64(implSums[theme]) / float64(stats.TotalControls)
		}
		out.Themes = append(out.Themes, *stats)
	}
	out.OverallScore = compliance.Score(out.TotalCompliant, out.TotalPartial, out.TotalControls)
	return out, nil
}

// Report assembles the full exportable document with entries in
// catalog order.
func (s *Service) Report(ctx context.Context, assessmentID string) (*Report, error) {
	a, err := s.get(ctx, assessmentID)
	if err != nil {
		return nil, err
	}
	overview, err := s.Overview(ctx, assessmentID)
	if err != nil {
		return nil, err
	}

	entries := make([]SoAEntry, 0, len(a.Entries))
	for _, entry := range a.Entries {
		entries = append(entries, *entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return controlIndex[entries[i].ControlCode] < controlIndex[entries[j].ControlCode]
	})

	return &Report{
		GeneratedAt: s.now().UTC(),
		Overview:    *overview,
		Entries:     entries,
	}, nil
}

// ExportJSON renders the report for download
func (r *Report) ExportJSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}
